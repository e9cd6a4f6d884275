package book

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"locallibrary/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// List handles GET /books
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params := Query{
		Q:     strings.TrimSpace(query.Get("q")),
		Genre: strings.TrimSpace(query.Get("genre")),
	}
	if v := query.Get("author_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			httpx.ValidationFailed(w, r, []httpx.ErrorDetail{{Field: "author_id", Message: "author_id must be a positive integer"}})
			return
		}
		params.AuthorID = &id
	}

	page, pageSize := httpx.Page(r)
	params.Limit = pageSize
	params.Offset = (page - 1) * pageSize

	books, total, err := h.service.List(r.Context(), params)
	if err != nil {
		httpx.InternalError(w, r, err)
		return
	}

	items := make([]ListItem, len(books))
	for i, b := range books {
		items[i] = b.ListItem()
	}
	httpx.JSONSuccess(w, r, items, httpx.PageMeta(page, pageSize, total))
}

// Get handles GET /books/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathInt64(r, "id")
	if err != nil {
		httpx.NotFound(w, r, "Book not found")
		return
	}
	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// Create handles POST /books
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	b, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, b)
}

// Update handles PUT /books/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathInt64(r, "id")
	if err != nil {
		httpx.NotFound(w, r, "Book not found")
		return
	}
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	b, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// Delete handles DELETE /books/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathInt64(r, "id")
	if err != nil {
		httpx.NotFound(w, r, "Book not found")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

func decodeInput(w http.ResponseWriter, r *http.Request) (Input, bool) {
	var in Input
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.BadRequest(w, r, "Invalid request body")
		return Input{}, false
	}
	if details := httpx.ValidateStruct(in); len(details) > 0 {
		httpx.ValidationFailed(w, r, details)
		return Input{}, false
	}
	in.ISBN = httpx.NormalizeISBN(in.ISBN)
	return in, true
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.NotFound(w, r, "Book not found")
	case errors.Is(err, ErrUnknownAuthor):
		httpx.ValidationFailed(w, r, []httpx.ErrorDetail{{Field: "author_id", Message: err.Error()}})
	case errors.Is(err, ErrDuplicateISBN):
		httpx.JSONError(w, r, http.StatusConflict, "ALREADY_EXISTS", "A book with this ISBN already exists", nil)
	case errors.Is(err, ErrUnknownGenre):
		httpx.ValidationFailed(w, r, []httpx.ErrorDetail{{Field: "genre_ids", Message: err.Error()}})
	default:
		httpx.InternalError(w, r, err)
	}
}
