// Package testutil holds helpers shared by handler and router tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"locallibrary/internal/access"
	"locallibrary/internal/httpx"
	"locallibrary/internal/platform/crypto"
)

// MemberID and LibrarianID are fixed user ids for tests.
const (
	MemberID    = "9f1c3b8e-4d2a-4c55-8a7e-1b2c3d4e5f60"
	LibrarianID = "3c7d2a10-8e5f-4b6a-9c1d-0e2f4a6b8c9d"
)

// Token signs a one-hour access token.
func Token(t testing.TB, secret, userID string, role access.Role) string {
	t.Helper()
	token, err := crypto.GenerateToken(secret, userID, string(role), time.Hour)
	require.NoError(t, err)
	return token
}

// ExpiredToken signs a token that expired an hour ago.
func ExpiredToken(t testing.TB, secret, userID string, role access.Role) string {
	t.Helper()
	c := crypto.Claims{
		Sub:  userID,
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    crypto.Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

// NewRequest builds a request, encoding body as JSON when it is not nil.
// A string body is sent verbatim.
func NewRequest(t testing.TB, method, path string, body any) *http.Request {
	t.Helper()
	switch b := body.(type) {
	case nil:
		return httptest.NewRequest(method, path, nil)
	case string:
		r := httptest.NewRequest(method, path, bytes.NewBufferString(b))
		r.Header.Set("Content-Type", "application/json")
		return r
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r := httptest.NewRequest(method, path, bytes.NewReader(raw))
		r.Header.Set("Content-Type", "application/json")
		return r
	}
}

// NewRequestWithAuth is NewRequest plus a bearer token.
func NewRequestWithAuth(t testing.TB, method, path string, body any, token string) *http.Request {
	t.Helper()
	r := NewRequest(t, method, path, body)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

// Envelope mirrors the JSON response shape written by httpx.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    map[string]any  `json:"meta"`
	Error   struct {
		Code    string              `json:"code"`
		Message string              `json:"message"`
		Details []httpx.ErrorDetail `json:"details"`
	} `json:"error"`
}

// DecodeEnvelope parses a recorded response body.
func DecodeEnvelope(t testing.TB, w *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return env
}

// DetailFields lists the fields named in a validation error.
func (e Envelope) DetailFields() []string {
	fields := make([]string, len(e.Error.Details))
	for i, d := range e.Error.Details {
		fields[i] = d.Field
	}
	return fields
}
