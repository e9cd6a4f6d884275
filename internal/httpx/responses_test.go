package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestJSONSuccess_IncludesRequestID(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/books", nil)
	r = r.WithContext(ContextWithRequestID(r.Context(), "req-1"))
	w := httptest.NewRecorder()

	JSONSuccess(w, r, []string{"a"}, map[string]any{"total": 1})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	meta := body["meta"].(map[string]any)
	assert.Equal(t, "req-1", meta["request_id"])
	assert.Equal(t, float64(1), meta["total"])
}

func TestJSONSuccess_OmitsEmptyMeta(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/books", nil)
	w := httptest.NewRecorder()

	JSONSuccess(w, r, "ok", nil)

	body := decodeBody(t, w)
	_, hasMeta := body["meta"]
	assert.False(t, hasMeta)
}

func TestJSONError_Shape(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/instances/x/renew", nil)
	w := httptest.NewRecorder()

	JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input",
		[]ErrorDetail{{Field: "renewal_date", Message: "Invalid date - renewal in past"}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "VALIDATION_ERROR", errBody["code"])
	details := errBody["details"].([]any)
	require.Len(t, details, 1)
	assert.Equal(t, "renewal_date", details[0].(map[string]any)["field"])
}

func TestInternalError_HidesCause(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/books", nil)
	w := httptest.NewRecorder()

	InternalError(w, r, errors.New("pq: relation books does not exist"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "relation")
}

func TestPage(t *testing.T) {
	tests := []struct {
		query      string
		page, size int
	}{
		{"", 1, 20},
		{"?page=3&page_size=50", 3, 50},
		{"?page=-1&page_size=1000", 1, 20},
		{"?page=abc", 1, 20},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/books"+tt.query, nil)
		page, size := Page(r)
		assert.Equal(t, tt.page, page, tt.query)
		assert.Equal(t, tt.size, size, tt.query)
	}
}

func TestPageMeta(t *testing.T) {
	meta := PageMeta(2, 20, 41)
	assert.Equal(t, 3, meta["total_pages"])
}

func TestPathInt64(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/books/12", nil)
	r.SetPathValue("id", "12")
	id, err := PathInt64(r, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	r.SetPathValue("id", "0")
	_, err = PathInt64(r, "id")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestPathUUID(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/instances/x", nil)
	r.SetPathValue("id", "9f1c3b8e-4d2a-4c55-8a7e-1b2c3d4e5f60")
	id, err := PathUUID(r, "id")
	require.NoError(t, err)
	assert.Equal(t, "9f1c3b8e-4d2a-4c55-8a7e-1b2c3d4e5f60", id.String())

	r.SetPathValue("id", "not-a-uuid")
	_, err = PathUUID(r, "id")
	assert.ErrorIs(t, err, ErrInvalidID)
}
