package book

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"locallibrary/internal/genre"
)

var (
	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")
	// ErrUnknownAuthor is returned when author_id references no author.
	ErrUnknownAuthor = errors.New("author does not exist")
	// ErrUnknownGenre is returned when a genre id references no genre.
	ErrUnknownGenre = errors.New("genre does not exist")
	// ErrDuplicateISBN is returned when another book already has the ISBN.
	ErrDuplicateISBN = errors.New("a book with this ISBN already exists")
)

const (
	shortTitleLen   = 30
	shortSummaryLen = 120
	displayGenres   = 3
	ellipsis        = "..."
)

// Book is a catalog title. Physical copies live in bookinstance.
type Book struct {
	ID         int64         `json:"id"`
	Title      string        `json:"title"`
	AuthorID   *int64        `json:"author_id"`
	AuthorName string        `json:"author_name,omitempty"`
	Summary    string        `json:"summary"`
	ISBN       string        `json:"isbn"`
	Genres     []genre.Genre `json:"genres"`
	CoverURL   *string       `json:"cover_url,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

func (b Book) String() string { return b.Title }

// ShortTitle returns the title cut to 30 characters plus "..." when longer.
func (b Book) ShortTitle() string {
	return truncate(b.Title, shortTitleLen)
}

// ShortSummary returns the summary cut to 120 characters plus "..." when longer.
func (b Book) ShortSummary() string {
	return truncate(b.Summary, shortSummaryLen)
}

// DisplayGenre joins the names of the first three genres in stored order.
func (b Book) DisplayGenre() string {
	n := len(b.Genres)
	if n > displayGenres {
		n = displayGenres
	}
	names := make([]string, n)
	for i := 0; i < n; i++ {
		names[i] = b.Genres[i].Name
	}
	return strings.Join(names, ", ")
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max]) + ellipsis
}

// ListItem is the compact form used in catalog listings.
type ListItem struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	ShortTitle   string  `json:"short_title"`
	ShortSummary string  `json:"short_summary"`
	ISBN         string  `json:"isbn"`
	AuthorID     *int64  `json:"author_id"`
	AuthorName   string  `json:"author_name,omitempty"`
	Genre        string  `json:"genre"`
	CoverURL     *string `json:"cover_url,omitempty"`
}

func (b Book) ListItem() ListItem {
	return ListItem{
		ID:           b.ID,
		Title:        b.Title,
		ShortTitle:   b.ShortTitle(),
		ShortSummary: b.ShortSummary(),
		ISBN:         b.ISBN,
		AuthorID:     b.AuthorID,
		AuthorName:   b.AuthorName,
		Genre:        b.DisplayGenre(),
		CoverURL:     b.CoverURL,
	}
}

// Query defines filters and pagination for listing books.
type Query struct {
	Q        string
	AuthorID *int64
	Genre    string
	Limit    int
	Offset   int
}

// Input is the create/update request body. GenreIDs order is kept as the
// display order of the book's genres.
type Input struct {
	Title    string  `json:"title" validate:"required,notblank,max=200"`
	AuthorID *int64  `json:"author_id" validate:"omitempty,gt=0"`
	Summary  string  `json:"summary" validate:"max=1000"`
	ISBN     string  `json:"isbn" validate:"required,isbn13"`
	GenreIDs []int64 `json:"genre_ids" validate:"dive,gt=0"`
	CoverURL *string `json:"cover_url" validate:"omitempty,url,max=500"`
}

func (in Input) toBook() Book {
	return Book{
		Title:    strings.TrimSpace(in.Title),
		AuthorID: in.AuthorID,
		Summary:  strings.TrimSpace(in.Summary),
		ISBN:     in.ISBN,
		CoverURL: in.CoverURL,
	}
}

// uniqueIDs drops repeated ids, keeping first occurrence order.
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
