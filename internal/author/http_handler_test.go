package author

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) List(ctx context.Context, limit, offset int) ([]Author, int, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]Author), args.Int(1), args.Error(2)
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (Author, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Author), args.Error(1)
}

func (m *mockRepo) Create(ctx context.Context, a *Author) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockRepo) Update(ctx context.Context, a *Author) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func TestHTTPHandler_List_Paginates(t *testing.T) {
	repo := new(mockRepo)
	handler := NewHTTPHandler(NewService(repo))
	repo.On("List", mock.Anything, 10, 20).Return([]Author{{ID: 1, FirstName: "A", LastName: "B"}}, 21, nil)

	w := httptest.NewRecorder()
	handler.List(w, httptest.NewRequest(http.MethodGet, "/authors?page=3&page_size=10", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_pages":3`)
	repo.AssertExpectations(t)
}

func TestHTTPHandler_Create(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		repo := new(mockRepo)
		handler := NewHTTPHandler(NewService(repo))
		repo.On("Create", mock.Anything, mock.AnythingOfType("*author.Author")).Return(nil)

		body := `{"first_name":"Anna","last_name":"Akhmatova","date_of_birth":"1889-06-23","date_of_death":"1966-03-05"}`
		w := httptest.NewRecorder()
		handler.Create(w, httptest.NewRequest(http.MethodPost, "/authors", strings.NewReader(body)))

		assert.Equal(t, http.StatusCreated, w.Code)
		repo.AssertExpectations(t)
	})

	t.Run("death before birth", func(t *testing.T) {
		repo := new(mockRepo)
		handler := NewHTTPHandler(NewService(repo))

		body := `{"first_name":"Anna","last_name":"Akhmatova","date_of_birth":"1966-03-05","date_of_death":"1889-06-23"}`
		w := httptest.NewRecorder()
		handler.Create(w, httptest.NewRequest(http.MethodPost, "/authors", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "date_of_death")
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("bad date format", func(t *testing.T) {
		repo := new(mockRepo)
		handler := NewHTTPHandler(NewService(repo))

		body := `{"first_name":"Anna","last_name":"Akhmatova","date_of_birth":"23.06.1889"}`
		w := httptest.NewRecorder()
		handler.Create(w, httptest.NewRequest(http.MethodPost, "/authors", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "date_of_birth")
	})
}

func TestHTTPHandler_Update_NotFound(t *testing.T) {
	repo := new(mockRepo)
	handler := NewHTTPHandler(NewService(repo))
	repo.On("Update", mock.Anything, mock.MatchedBy(func(a *Author) bool { return a.ID == 4 })).Return(ErrNotFound)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPut, "/authors/4", strings.NewReader(`{"first_name":"A","last_name":"B"}`))
	r.SetPathValue("id", "4")
	handler.Update(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
