package ingest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"locallibrary/internal/book"
	"locallibrary/internal/platform/openlibrary"
)

type mockOLClient struct {
	mock.Mock
}

func (m *mockOLClient) GetBooksByISBN(ctx context.Context, isbns []string) (map[string]openlibrary.BookDetails, error) {
	args := m.Called(ctx, isbns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]openlibrary.BookDetails), args.Error(1)
}

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) EnsureAuthor(ctx context.Context, firstName, lastName string) (int64, error) {
	args := m.Called(ctx, firstName, lastName)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepo) EnsureGenres(ctx context.Context, names []string) ([]int64, error) {
	args := m.Called(ctx, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

type mockBooks struct {
	mock.Mock
}

func (m *mockBooks) Create(ctx context.Context, in book.Input) (book.Book, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(book.Book), args.Error(1)
}

const (
	leGuin  = "9780441478125"
	unknown = "9780000000002"
	dupe    = "9780141439518"
)

func leftHand() openlibrary.BookDetails {
	d := openlibrary.BookDetails{
		Title:   "The Left Hand of Darkness",
		Authors: []openlibrary.AuthorRef{{Name: "Ursula K. Le Guin"}},
		Subjects: []openlibrary.Subject{
			{Name: "Science fiction"}, {Name: "SCIENCE FICTION"}, {Name: "Gender"}, {Name: "Winter"}, {Name: "Hugo"},
		},
		Notes: "Hugo Award winner.",
	}
	d.Cover.Large = "https://covers.openlibrary.org/b/id/1-L.jpg"
	return d
}

func TestService_Import(t *testing.T) {
	ol := new(mockOLClient)
	repo := new(mockRepo)
	books := new(mockBooks)
	svc := NewService(ol, repo, books)

	ol.On("GetBooksByISBN", mock.Anything, []string{leGuin, unknown, dupe}).Return(map[string]openlibrary.BookDetails{
		leGuin: leftHand(),
		dupe:   {Title: "Pride and Prejudice", Authors: []openlibrary.AuthorRef{{Name: "Jane Austen"}}},
	}, nil)
	repo.On("EnsureAuthor", mock.Anything, "Ursula K. Le", "Guin").Return(int64(7), nil)
	repo.On("EnsureAuthor", mock.Anything, "Jane", "Austen").Return(int64(8), nil)
	repo.On("EnsureGenres", mock.Anything, []string{"Science fiction", "Gender", "Winter"}).Return([]int64{1, 2, 3}, nil)

	books.On("Create", mock.Anything, mock.MatchedBy(func(in book.Input) bool {
		return in.ISBN == leGuin && *in.AuthorID == 7 && in.Summary == "Hugo Award winner." &&
			in.CoverURL != nil && assert.ObjectsAreEqual([]int64{1, 2, 3}, in.GenreIDs)
	})).Return(book.Book{ID: 42}, nil)
	books.On("Create", mock.Anything, mock.MatchedBy(func(in book.Input) bool { return in.ISBN == dupe })).
		Return(book.Book{}, book.ErrDuplicateISBN)

	run, err := svc.Import(context.Background(), []string{"978-0-441-47812-5", unknown, dupe, leGuin})
	require.NoError(t, err)

	assert.Equal(t, 3, run.Requested)
	assert.Equal(t, 2, run.Fetched)
	assert.Equal(t, []int64{42}, run.Imported)
	assert.Equal(t, []string{dupe}, run.Skipped)
	require.Len(t, run.Failures, 1)
	assert.Equal(t, unknown, run.Failures[0].ISBN)
	assert.False(t, run.FinishedAt.Before(run.StartedAt))
	ol.AssertExpectations(t)
	books.AssertExpectations(t)
}

func TestService_Import_UpstreamError(t *testing.T) {
	ol := new(mockOLClient)
	ol.On("GetBooksByISBN", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := NewService(ol, new(mockRepo), new(mockBooks)).Import(context.Background(), []string{leGuin})
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestService_Import_RecordsRepoFailure(t *testing.T) {
	ol := new(mockOLClient)
	repo := new(mockRepo)
	ol.On("GetBooksByISBN", mock.Anything, mock.Anything).Return(map[string]openlibrary.BookDetails{leGuin: leftHand()}, nil)
	repo.On("EnsureAuthor", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), errors.New("deadlock detected"))

	run, err := NewService(ol, repo, new(mockBooks)).Import(context.Background(), []string{leGuin})
	require.NoError(t, err)
	require.Len(t, run.Failures, 1)
	assert.Contains(t, run.Failures[0].Reason, "resolve author")
	assert.Empty(t, run.Imported)
}

func TestSplitName(t *testing.T) {
	tests := []struct{ in, first, last string }{
		{"Ursula K. Le Guin", "Ursula K. Le", "Guin"},
		{"  Jane   Austen ", "Jane", "Austen"},
		{"Homer", "", "Homer"},
		{"", "", ""},
	}
	for _, tc := range tests {
		first, last := splitName(tc.in)
		assert.Equal(t, tc.first, first, tc.in)
		assert.Equal(t, tc.last, last, tc.in)
	}
}

func TestClip(t *testing.T) {
	assert.Equal(t, "abc", clip("  abc  ", 10))
	assert.Equal(t, "ab", clip("abc", 2))
	assert.Equal(t, "Ж", clip("ЖЖ", 1))
}

func TestHTTPHandler_Import_Validation(t *testing.T) {
	h := NewHTTPHandler(NewService(new(mockOLClient), new(mockRepo), new(mockBooks)))

	for _, body := range []string{`{"isbns":[]}`, `{"isbns":["123"]}`, `{}`} {
		w := httptest.NewRecorder()
		h.Import(w, httptest.NewRequest(http.MethodPost, "/books/import", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestHTTPHandler_Import_Upstream(t *testing.T) {
	ol := new(mockOLClient)
	ol.On("GetBooksByISBN", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))
	h := NewHTTPHandler(NewService(ol, new(mockRepo), new(mockBooks)))

	w := httptest.NewRecorder()
	h.Import(w, httptest.NewRequest(http.MethodPost, "/books/import", strings.NewReader(`{"isbns":["`+leGuin+`"]}`)))
	assert.Equal(t, http.StatusBadGateway, w.Code)
}
