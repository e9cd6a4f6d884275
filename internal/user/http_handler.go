package user

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"locallibrary/internal/access"
	"locallibrary/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// RegisterUser handles POST /users/register
func (h *HTTPHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req RegisterInput
	if !decode(w, r, &req) {
		return
	}

	u, err := h.service.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			httpx.JSONError(w, r, http.StatusConflict, "ALREADY_EXISTS", "Email or username already exists", nil)
			return
		}
		httpx.InternalError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, u)
}

// Login handles POST /users/login
func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginInput
	if !decode(w, r, &req) {
		return
	}

	token, expiresIn, err := h.service.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid email or password", nil)
			return
		}
		httpx.InternalError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, map[string]any{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   expiresIn,
	}, nil)
}

// GetCurrentUser handles GET /me
func (h *HTTPHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	u, err := h.service.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
			return
		}
		httpx.InternalError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, u, nil)
}

// SetRole handles PUT /users/{id}/role
func (h *HTTPHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		httpx.NotFound(w, r, "User not found")
		return
	}
	var req RoleInput
	if !decode(w, r, &req) {
		return
	}

	u, err := h.service.SetRole(r.Context(), id, access.Role(req.Role))
	switch {
	case err == nil:
		httpx.JSONSuccess(w, r, u, nil)
	case errors.Is(err, ErrNotFound):
		httpx.NotFound(w, r, "User not found")
	case errors.Is(err, ErrInvalidRole):
		httpx.ValidationFailed(w, r, []httpx.ErrorDetail{{Field: "role", Message: err.Error()}})
	default:
		httpx.InternalError(w, r, err)
	}
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
