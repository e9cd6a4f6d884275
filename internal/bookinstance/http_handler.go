package bookinstance

import (
	"errors"
	"net/http"
	"strconv"

	"locallibrary/internal/httpx"
	"locallibrary/internal/platform/clock"
	"locallibrary/internal/renewal"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

func (h *HTTPHandler) views(list []Instance) []View {
	today := h.service.Today()
	out := make([]View, len(list))
	for i, inst := range list {
		out[i] = inst.View(today)
	}
	return out
}

// List handles GET /instances
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var params Query
	var details []httpx.ErrorDetail

	if v := query.Get("status"); v != "" {
		status, err := ParseStatus(v)
		if err != nil {
			details = append(details, httpx.ErrorDetail{Field: "status", Message: "status must be one of maintenance, on_loan, available, reserved"})
		} else {
			params.Status = &status
		}
	}
	if v := query.Get("book_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			details = append(details, httpx.ErrorDetail{Field: "book_id", Message: "book_id must be a positive integer"})
		} else {
			params.BookID = &id
		}
	}
	overdue := false
	if v := query.Get("overdue"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			details = append(details, httpx.ErrorDetail{Field: "overdue", Message: "overdue must be true or false"})
		}
		overdue = b
	}
	if len(details) > 0 {
		httpx.ValidationFailed(w, r, details)
		return
	}

	page, pageSize := httpx.Page(r)
	params.Limit = pageSize
	params.Offset = (page - 1) * pageSize

	var list []Instance
	var total int
	var err error
	if overdue {
		list, total, err = h.service.ListOverdue(r.Context(), params)
	} else {
		list, total, err = h.service.List(r.Context(), params)
	}
	if err != nil {
		httpx.InternalError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, h.views(list), httpx.PageMeta(page, pageSize, total))
}

// OnLoan handles GET /instances/on-loan
func (h *HTTPHandler) OnLoan(w http.ResponseWriter, r *http.Request) {
	page, pageSize := httpx.Page(r)
	list, total, err := h.service.ListOnLoan(r.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		httpx.InternalError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, h.views(list), httpx.PageMeta(page, pageSize, total))
}

// MyLoans handles GET /me/loans
func (h *HTTPHandler) MyLoans(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}
	page, pageSize := httpx.Page(r)
	list, total, err := h.service.ListBorrowedBy(r.Context(), userID, pageSize, (page-1)*pageSize)
	if err != nil {
		httpx.InternalError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, h.views(list), httpx.PageMeta(page, pageSize, total))
}

// Get handles GET /instances/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		httpx.NotFound(w, r, "Book instance not found")
		return
	}
	inst, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, inst.View(h.service.Today()), nil)
}

// Create handles POST /instances
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if !decode(w, r, &in) {
		return
	}
	inst, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, inst.View(h.service.Today()))
}

// Update handles PUT /instances/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		httpx.NotFound(w, r, "Book instance not found")
		return
	}
	var in UpdateInput
	if !decode(w, r, &in) {
		return
	}
	inst, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, inst.View(h.service.Today()), nil)
}

// Delete handles DELETE /instances/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		httpx.NotFound(w, r, "Book instance not found")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

type renewalProposal struct {
	Instance    View   `json:"instance"`
	RenewalDate string `json:"renewal_date"`
}

// RenewForm handles GET /instances/{id}/renew
func (h *HTTPHandler) RenewForm(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		httpx.NotFound(w, r, "Book instance not found")
		return
	}
	inst, proposed, err := h.service.RenewalProposal(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, renewalProposal{
		Instance:    inst.View(h.service.Today()),
		RenewalDate: proposed.Format(clock.DateLayout),
	}, nil)
}

// Renew handles POST /instances/{id}/renew
func (h *HTTPHandler) Renew(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		httpx.NotFound(w, r, "Book instance not found")
		return
	}
	var form renewal.Form
	if !decode(w, r, &form) {
		return
	}
	inst, err := h.service.Renew(r.Context(), id, form)
	if err != nil {
		h.writeLoanError(w, r, "renewal_date", err)
		return
	}
	httpx.JSONSuccess(w, r, inst.View(h.service.Today()), nil)
}

// Lend handles POST /instances/{id}/lend
func (h *HTTPHandler) Lend(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		httpx.NotFound(w, r, "Book instance not found")
		return
	}
	var in LendInput
	if !decode(w, r, &in) {
		return
	}
	inst, err := h.service.Lend(r.Context(), id, in)
	if err != nil {
		h.writeLoanError(w, r, "due_back", err)
		return
	}
	httpx.JSONSuccess(w, r, inst.View(h.service.Today()), nil)
}

// Return handles POST /instances/{id}/return
func (h *HTTPHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		httpx.NotFound(w, r, "Book instance not found")
		return
	}
	inst, err := h.service.MarkReturned(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, inst.View(h.service.Today()), nil)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := httpx.DecodeJSON(r, v); err != nil {
		httpx.BadRequest(w, r, "Invalid request body")
		return false
	}
	if details := httpx.ValidateStruct(v); len(details) > 0 {
		httpx.ValidationFailed(w, r, details)
		return false
	}
	return true
}

// writeLoanError reports an out-of-window date against dateField.
func (h *HTTPHandler) writeLoanError(w http.ResponseWriter, r *http.Request, dateField string, err error) {
	if errors.Is(err, renewal.ErrInvalidRenewalDate) {
		httpx.ValidationFailed(w, r, []httpx.ErrorDetail{{Field: dateField, Message: err.Error()}})
		return
	}
	h.writeError(w, r, err)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.NotFound(w, r, "Book instance not found")
	case errors.Is(err, ErrNotOnLoan):
		httpx.Conflict(w, r, "Book instance is not on loan")
	case errors.Is(err, ErrNotAvailable):
		httpx.Conflict(w, r, "Book instance is not available")
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrLendRequired):
		httpx.ValidationFailed(w, r, []httpx.ErrorDetail{{Field: "status", Message: err.Error()}})
	case errors.Is(err, ErrUnknownBook):
		httpx.ValidationFailed(w, r, []httpx.ErrorDetail{{Field: "book_id", Message: err.Error()}})
	case errors.Is(err, ErrUnknownLanguage):
		httpx.ValidationFailed(w, r, []httpx.ErrorDetail{{Field: "language_id", Message: err.Error()}})
	case errors.Is(err, ErrUnknownBorrower):
		httpx.ValidationFailed(w, r, []httpx.ErrorDetail{{Field: "borrower_id", Message: err.Error()}})
	default:
		httpx.InternalError(w, r, err)
	}
}
