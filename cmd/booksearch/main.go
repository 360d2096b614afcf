package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"booksearch/internal/app"
	"booksearch/internal/book"
	"booksearch/internal/config"
	"booksearch/internal/platform/logging"

	"github.com/spf13/cobra"
)

// serviceFactory builds the book service for one command run.
type serviceFactory func(ctx context.Context, debug bool) (*book.Service, func(), error)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCommand(newService, os.Stdout).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "booksearch: %v\n", err)
		os.Exit(1)
	}
}

func newService(ctx context.Context, debug bool) (*book.Service, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	logger, err := logging.New(false, level)
	if err != nil {
		return nil, nil, err
	}
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return a.Service, func() {
		_ = a.Close()
		_ = logger.Sync()
	}, nil
}

func newRootCommand(factory serviceFactory, out io.Writer) *cobra.Command {
	var debug bool
	root := &cobra.Command{
		Use:           "booksearch",
		Short:         "Search OpenLibrary and enrich results with covers and summaries",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	open := func(cmd *cobra.Command) (*book.Service, func(), error) {
		return factory(cmd.Context(), debug)
	}
	root.AddCommand(
		newSearchCommand(open, out),
		newBookCommand(open, out),
	)
	return root
}

func newSearchCommand(open func(*cobra.Command) (*book.Service, func(), error), out io.Writer) *cobra.Command {
	var page int
	var fields []string
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search books by title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, closeFn, err := open(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			result, err := service.Search(cmd.Context(), args[0], page)
			if err != nil {
				return err
			}
			if len(fields) > 0 {
				if _, err := service.Get(cmd.Context(), isbnsOf(result.Books), fields); err != nil {
					return err
				}
			}
			return printJSON(out, map[string]any{
				"books":           result.Books,
				"total_available": result.Total,
			})
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "Page of results")
	cmd.Flags().StringSliceVar(&fields, "field", nil, "Enrich the page with these fields (cover_url, summary)")
	return cmd
}

func newBookCommand(open func(*cobra.Command) (*book.Service, func(), error), out io.Writer) *cobra.Command {
	var query string
	var fields []string
	cmd := &cobra.Command{
		Use:   "book <isbn>...",
		Short: "Enrich books found by a title search",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, closeFn, err := open(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			// records only exist once a search has returned them
			if _, err := service.Search(cmd.Context(), query, 1); err != nil {
				return err
			}
			books, err := service.Get(cmd.Context(), args, fields)
			if err != nil {
				return err
			}
			return printJSON(out, books)
		},
	}
	cmd.Flags().StringVar(&query, "query", "", "Title search that returns the books")
	cmd.Flags().StringSliceVar(&fields, "field", nil, "Fields to add (cover_url, summary); both by default")
	_ = cmd.MarkFlagRequired("query")
	return cmd
}

func isbnsOf(books []*book.Book) []string {
	isbns := make([]string, 0, len(books))
	for _, b := range books {
		if b.ISBN != "" {
			isbns = append(isbns, b.ISBN)
		}
	}
	return isbns
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
