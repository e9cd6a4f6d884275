package ingest

import (
	"errors"
	"net/http"

	"locallibrary/internal/httpx"
)

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

// Import handles POST /books/import
func (h *HTTPHandler) Import(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.BadRequest(w, r, "Invalid request body")
		return
	}
	if details := httpx.ValidateStruct(in); len(details) > 0 {
		httpx.ValidationFailed(w, r, details)
		return
	}

	run, err := h.svc.Import(r.Context(), in.ISBNs)
	if err != nil {
		if errors.Is(err, ErrUpstream) {
			httpx.JSONError(w, r, http.StatusBadGateway, "UPSTREAM_ERROR", "Open Library is unavailable", nil)
			return
		}
		httpx.InternalError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, run, nil)
}
