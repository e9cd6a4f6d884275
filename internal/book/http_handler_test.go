package book

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) List(ctx context.Context, q Query) ([]Book, int, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]Book), args.Int(1), args.Error(2)
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (Book, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Book), args.Error(1)
}

func (m *mockRepo) Create(ctx context.Context, b *Book, genreIDs []int64) error {
	return m.Called(ctx, b, genreIDs).Error(0)
}

func (m *mockRepo) Update(ctx context.Context, b *Book, genreIDs []int64) error {
	return m.Called(ctx, b, genreIDs).Error(0)
}

func (m *mockRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func TestHTTPHandler_List(t *testing.T) {
	repo := new(mockRepo)
	handler := NewHTTPHandler(NewService(repo))

	testBook := Book{
		ID:     1,
		ISBN:   "9780000000001",
		Title:  "The Left Hand of Darkness: 50th Anniversary",
		Genres: genres("Science Fiction", "Fantasy", "Classics", "Gender"),
	}

	t.Run("success", func(t *testing.T) {
		authorID := int64(2)
		repo.On("List", mock.Anything, Query{Q: "darkness", AuthorID: &authorID, Limit: 20, Offset: 20}).
			Return([]Book{testBook}, 21, nil).Once()

		w := httptest.NewRecorder()
		handler.List(w, httptest.NewRequest(http.MethodGet, "/books?q=darkness&author_id=2&page=2", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Data []ListItem     `json:"data"`
			Meta map[string]any `json:"meta"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body.Data, 1)
		assert.Equal(t, "The Left Hand of Darkness: 50t...", body.Data[0].ShortTitle)
		assert.Equal(t, "Science Fiction, Fantasy, Classics", body.Data[0].Genre)
		assert.Equal(t, float64(2), body.Meta["total_pages"])
	})

	t.Run("bad author filter", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.List(w, httptest.NewRequest(http.MethodGet, "/books?author_id=abc", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("error", func(t *testing.T) {
		repo.On("List", mock.Anything, mock.Anything).Return(nil, 0, context.DeadlineExceeded).Once()

		w := httptest.NewRecorder()
		handler.List(w, httptest.NewRequest(http.MethodGet, "/books", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestHTTPHandler_Get(t *testing.T) {
	repo := new(mockRepo)
	handler := NewHTTPHandler(NewService(repo))

	t.Run("success", func(t *testing.T) {
		repo.On("GetByID", mock.Anything, int64(1)).Return(Book{ID: 1, Title: "Solaris"}, nil).Once()

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/books/1", nil)
		r.SetPathValue("id", "1")
		handler.Get(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		repo.On("GetByID", mock.Anything, int64(2)).Return(Book{}, ErrNotFound).Once()

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/books/2", nil)
		r.SetPathValue("id", "2")
		handler.Get(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHTTPHandler_Create(t *testing.T) {
	t.Run("normalises isbn and dedupes genres", func(t *testing.T) {
		repo := new(mockRepo)
		handler := NewHTTPHandler(NewService(repo))
		repo.On("Create", mock.Anything,
			mock.MatchedBy(func(b *Book) bool { return b.ISBN == "9785170906307" && b.Title == "Master and Margarita" }),
			[]int64{2, 1},
		).Return(nil)

		body := `{"title":" Master and Margarita ","isbn":"978-5-17-090630-7","genre_ids":[2,1,2]}`
		w := httptest.NewRecorder()
		handler.Create(w, httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(body)))

		assert.Equal(t, http.StatusCreated, w.Code)
		repo.AssertExpectations(t)
	})

	t.Run("invalid isbn", func(t *testing.T) {
		repo := new(mockRepo)
		handler := NewHTTPHandler(NewService(repo))

		body := `{"title":"X","isbn":"12345"}`
		w := httptest.NewRecorder()
		handler.Create(w, httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"field":"isbn"`)
	})

	t.Run("unknown genre", func(t *testing.T) {
		repo := new(mockRepo)
		handler := NewHTTPHandler(NewService(repo))
		repo.On("Create", mock.Anything, mock.Anything, []int64{99}).Return(ErrUnknownGenre)

		body := `{"title":"X","isbn":"9780000000001","genre_ids":[99]}`
		w := httptest.NewRecorder()
		handler.Create(w, httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "genre_ids")
	})
}

func TestHTTPHandler_Delete(t *testing.T) {
	repo := new(mockRepo)
	handler := NewHTTPHandler(NewService(repo))
	repo.On("Delete", mock.Anything, int64(8)).Return(nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodDelete, "/books/8", nil)
	r.SetPathValue("id", "8")
	handler.Delete(w, r)

	assert.Equal(t, http.StatusNoContent, w.Code)
}
