package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	"booksearch/internal/book"
)

// DuneISBN is the ISBN of the DuneDoc fixture.
const DuneISBN = "9780441013593"

// DuneDoc is a search doc as decoded from OpenLibrary search.json.
func DuneDoc() book.Fields {
	return book.Fields{
		"title":              "Dune",
		"isbn":               []any{DuneISBN, "0441013597"},
		"author_name":        []any{"Frank Herbert"},
		"first_publish_year": float64(1965),
		"format":             []any{"Paperback"},
	}
}

// Doc is a minimal search doc with a title and an ISBN.
func Doc(title, isbn string) book.Fields {
	return book.Fields{
		"title":       title,
		"isbn":        []any{isbn},
		"author_name": []any{"Anonymous"},
	}
}

// MakeRequest serves a request against handler and returns the recorder.
func MakeRequest(handler http.Handler, method, url string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

// DecodeJSON decodes the recorded body into v.
func DecodeJSON(w *httptest.ResponseRecorder, v interface{}) error {
	return json.Unmarshal(w.Body.Bytes(), v)
}
