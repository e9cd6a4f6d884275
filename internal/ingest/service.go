package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"locallibrary/internal/book"
	"locallibrary/internal/httpx"
	"locallibrary/internal/platform/openlibrary"
)

const maxGenresPerBook = 3

type Service struct {
	olClient OpenLibraryClient
	repo     Repository
	books    BookCreator
	now      func() time.Time
}

func NewService(olClient OpenLibraryClient, repo Repository, books BookCreator) *Service {
	return &Service{olClient: olClient, repo: repo, books: books, now: time.Now}
}

// Import fetches every ISBN in one Open Library request and creates a book
// for each hit. ISBNs already in the catalog are skipped; per-ISBN problems
// are reported in the run rather than failing the whole import.
func (s *Service) Import(ctx context.Context, isbns []string) (Run, error) {
	run := Run{StartedAt: s.now(), Imported: []int64{}, Skipped: []string{}, Failures: []Failure{}}

	wanted := make([]string, 0, len(isbns))
	seen := make(map[string]bool, len(isbns))
	for _, raw := range isbns {
		isbn := httpx.NormalizeISBN(raw)
		if !seen[isbn] {
			seen[isbn] = true
			wanted = append(wanted, isbn)
		}
	}
	run.Requested = len(wanted)

	details, err := s.olClient.GetBooksByISBN(ctx, wanted)
	if err != nil {
		return Run{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	run.Fetched = len(details)

	for _, isbn := range wanted {
		d, ok := details[isbn]
		if !ok {
			run.Failures = append(run.Failures, Failure{ISBN: isbn, Reason: "not found in Open Library"})
			continue
		}

		b, err := s.importOne(ctx, isbn, d)
		switch {
		case err == nil:
			run.Imported = append(run.Imported, b.ID)
		case errors.Is(err, book.ErrDuplicateISBN):
			run.Skipped = append(run.Skipped, isbn)
		case ctx.Err() != nil:
			return Run{}, ctx.Err()
		default:
			slog.WarnContext(ctx, "import failed", "isbn", isbn, "error", err)
			run.Failures = append(run.Failures, Failure{ISBN: isbn, Reason: err.Error()})
		}
	}

	run.FinishedAt = s.now()
	slog.InfoContext(ctx, "open library import finished",
		"requested", run.Requested,
		"imported", len(run.Imported),
		"skipped", len(run.Skipped),
		"failed", len(run.Failures),
	)
	return run, nil
}

func (s *Service) importOne(ctx context.Context, isbn string, d openlibrary.BookDetails) (book.Book, error) {
	in := book.Input{
		Title:   clip(d.Title, 200),
		Summary: clip(d.NotesText(), 1000),
		ISBN:    isbn,
	}
	if in.Title == "" {
		return book.Book{}, errors.New("record has no title")
	}
	if d.Cover.Large != "" {
		cover := d.Cover.Large
		in.CoverURL = &cover
	}

	if len(d.Authors) > 0 {
		first, last := splitName(d.Authors[0].Name)
		if last != "" {
			id, err := s.repo.EnsureAuthor(ctx, first, last)
			if err != nil {
				return book.Book{}, fmt.Errorf("resolve author: %w", err)
			}
			in.AuthorID = &id
		}
	}

	if names := genreNames(d.Subjects); len(names) > 0 {
		ids, err := s.repo.EnsureGenres(ctx, names)
		if err != nil {
			return book.Book{}, fmt.Errorf("resolve genres: %w", err)
		}
		in.GenreIDs = ids
	}

	return s.books.Create(ctx, in)
}

// splitName treats the last word as the family name.
func splitName(full string) (first, last string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return "", clip(parts[0], 100)
	}
	return clip(strings.Join(parts[:len(parts)-1], " "), 100), clip(parts[len(parts)-1], 100)
}

func genreNames(subjects []openlibrary.Subject) []string {
	var names []string
	seen := map[string]bool{}
	for _, s := range subjects {
		name := clip(s.Name, 200)
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, name)
		if len(names) == maxGenresPerBook {
			break
		}
	}
	return names
}

func clip(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n]))
}
