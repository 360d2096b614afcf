package book

import (
	"errors"
	"net/http"
	"strconv"

	"booksearch/internal/httpx"

	"go.uber.org/zap"
)

type HTTPHandler struct {
	service *Service
	log     *zap.Logger
}

func NewHTTPHandler(service *Service, log *zap.Logger) *HTTPHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &HTTPHandler{service: service, log: log}
}

type searchRequest struct {
	Title string `query:"title" validate:"required,max=200"`
	Page  int    `query:"page" validate:"gte=1,lte=1000"`
}

// ISBNs are only checked for presence. An unknown identifier of any shape is
// reported by the lookup, with the same message as a well-formed one.
type bookRequest struct {
	ISBNs  []string `query:"isbn" validate:"required,min=1,max=50,dive,required"`
	Fields []string `query:"field" validate:"dive,oneof=cover_url summary"`
}

// SearchResponse is the body of GET /search.
type SearchResponse struct {
	Books          []*Book `json:"books"`
	TotalAvailable int     `json:"total_available"`
}

// Search handles GET /search
// @Summary Search books
// @Description Search the OpenLibrary catalog by title
// @Tags books
// @Produce json
// @Param title query string true "Search query, assumed to be part of the title"
// @Param page query int false "Page of results" default(1)
// @Success 200 {object} SearchResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 502 {object} httpx.ErrorResponse
// @Router /search [get]
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, err := strconv.Atoi(query.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	req := searchRequest{Title: query.Get("title"), Page: page}
	if details := httpx.Validate(req); details != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid search request.", details)
		return
	}

	result, err := h.service.Search(r.Context(), req.Title, req.Page)
	if err != nil {
		h.log.Error("search failed",
			zap.String("request_id", httpx.RequestIDFrom(r)),
			zap.String("title", req.Title),
			zap.Int("page", req.Page),
			zap.Error(err))
		httpx.WriteError(w, http.StatusBadGateway, "Unable to search the catalog.", nil)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, SearchResponse{
		Books:          result.Books,
		TotalAvailable: result.Total,
	})
}

// GetBooks handles GET /book
// @Summary Get enriched books
// @Description Returns books found by an earlier search, with the requested fields added
// @Tags books
// @Produce json
// @Param isbn query []string true "ISBNs of the books to retrieve" collectionFormat(multi)
// @Param field query []string false "Fields to add: cover_url, summary" collectionFormat(multi)
// @Success 200 {array} Book
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /book [get]
func (h *HTTPHandler) GetBooks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := bookRequest{
		ISBNs:  query["isbn"],
		Fields: query["field"],
	}
	if details := httpx.Validate(req); details != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid book request.", details)
		return
	}

	books, err := h.service.Get(r.Context(), req.ISBNs, req.Fields)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			httpx.WriteError(w, http.StatusInternalServerError, notFound.Error(), nil)
			return
		}
		h.log.Error("enrichment failed",
			zap.String("request_id", httpx.RequestIDFrom(r)),
			zap.Strings("isbns", req.ISBNs),
			zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, books)
}
