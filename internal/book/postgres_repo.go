package book

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"locallibrary/internal/genre"
)

const (
	dialectPostgres     = "postgres"
	foreignKeyViolation = "23503"
	uniqueViolation     = "23505"

	constraintBookAuthor = "books_author_id_fkey"
	constraintBookGenre  = "book_genres_genre_id_fkey"
	constraintBookISBN   = "books_isbn_key"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

type listQueries struct {
	countSQL  string
	countArgs []any
	dataSQL   string
	dataArgs  []any
}

func buildListQueries(q Query) (listQueries, error) {
	ds := goqu.Dialect(dialectPostgres).
		From(goqu.T("books").As("b")).
		LeftJoin(goqu.T("authors").As("a"), goqu.On(goqu.I("a.id").Eq(goqu.I("b.author_id")))).
		Prepared(true)

	if q.Q != "" {
		ds = ds.Where(goqu.I("b.title").ILike("%" + q.Q + "%"))
	}
	if q.AuthorID != nil {
		ds = ds.Where(goqu.I("b.author_id").Eq(*q.AuthorID))
	}
	if q.Genre != "" {
		ds = ds.Where(goqu.L(
			"EXISTS (SELECT 1 FROM book_genres bg JOIN genres g ON g.id = bg.genre_id WHERE bg.book_id = b.id AND g.name = ?)",
			q.Genre,
		))
	}

	var out listQueries
	var err error
	out.countSQL, out.countArgs, err = ds.Select(goqu.COUNT(goqu.Star())).ToSQL()
	if err != nil {
		return listQueries{}, fmt.Errorf("build count query: %w", err)
	}

	out.dataSQL, out.dataArgs, err = ds.
		Select(
			"b.id", "b.title", "b.author_id",
			goqu.L("COALESCE(a.last_name || ', ' || a.first_name, '')").As("author_name"),
			"b.summary", "b.isbn", "b.cover_url", "b.created_at", "b.updated_at",
		).
		Order(goqu.I("b.title").Asc(), goqu.I("b.id").Asc()).
		Limit(uint(q.Limit)).
		Offset(uint(q.Offset)).
		ToSQL()
	if err != nil {
		return listQueries{}, fmt.Errorf("build list query: %w", err)
	}
	return out, nil
}

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(&b.ID, &b.Title, &b.AuthorID, &b.AuthorName, &b.Summary, &b.ISBN, &b.CoverURL, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (r *PostgresRepo) List(ctx context.Context, q Query) ([]Book, int, error) {
	queries, err := buildListQueries(q)
	if err != nil {
		return nil, 0, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int
	if err := r.db.QueryRow(timeoutCtx, queries.countSQL, queries.countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(timeoutCtx, queries.dataSQL, queries.dataArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := r.attachGenres(timeoutCtx, r.db, out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Book, error) {
	const query = `
		SELECT b.id, b.title, b.author_id, COALESCE(a.last_name || ', ' || a.first_name, ''),
		       b.summary, b.isbn, b.cover_url, b.created_at, b.updated_at
		FROM books b
		LEFT JOIN authors a ON a.id = b.author_id
		WHERE b.id = $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}

	books := []Book{b}
	if err := r.attachGenres(timeoutCtx, r.db, books); err != nil {
		return Book{}, err
	}
	return books[0], nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// attachGenres loads genres for all books in one round trip, keeping the
// assignment order.
func (r *PostgresRepo) attachGenres(ctx context.Context, db querier, books []Book) error {
	if len(books) == 0 {
		return nil
	}
	index := make(map[int64]int, len(books))
	ids := make([]int64, len(books))
	for i := range books {
		books[i].Genres = []genre.Genre{}
		index[books[i].ID] = i
		ids[i] = books[i].ID
	}

	const query = `
		SELECT bg.book_id, g.id, g.name, g.created_at
		FROM book_genres bg
		JOIN genres g ON g.id = bg.genre_id
		WHERE bg.book_id = ANY($1)
		ORDER BY bg.book_id, bg.position`

	rows, err := db.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var bookID int64
		var g genre.Genre
		if err := rows.Scan(&bookID, &g.ID, &g.Name, &g.CreatedAt); err != nil {
			return err
		}
		i := index[bookID]
		books[i].Genres = append(books[i].Genres, g)
	}
	return rows.Err()
}

func (r *PostgresRepo) Create(ctx context.Context, b *Book, genreIDs []int64) error {
	const insertSQL = `
		INSERT INTO books (title, author_id, summary, isbn, cover_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.inTx(timeoutCtx, func(tx pgx.Tx) error {
		err := tx.QueryRow(timeoutCtx, insertSQL, b.Title, b.AuthorID, b.Summary, b.ISBN, b.CoverURL).
			Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
		if err != nil {
			return translate(err)
		}
		return r.replaceGenres(timeoutCtx, tx, b, genreIDs)
	})
}

func (r *PostgresRepo) Update(ctx context.Context, b *Book, genreIDs []int64) error {
	const updateSQL = `
		UPDATE books
		SET title = $2, author_id = $3, summary = $4, isbn = $5, cover_url = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.inTx(timeoutCtx, func(tx pgx.Tx) error {
		err := tx.QueryRow(timeoutCtx, updateSQL, b.ID, b.Title, b.AuthorID, b.Summary, b.ISBN, b.CoverURL).
			Scan(&b.CreatedAt, &b.UpdatedAt)
		if err != nil {
			return translate(err)
		}
		if _, err := tx.Exec(timeoutCtx, `DELETE FROM book_genres WHERE book_id = $1`, b.ID); err != nil {
			return err
		}
		return r.replaceGenres(timeoutCtx, tx, b, genreIDs)
	})
}

func (r *PostgresRepo) replaceGenres(ctx context.Context, tx pgx.Tx, b *Book, genreIDs []int64) error {
	if len(genreIDs) > 0 {
		const insertSQL = `
			INSERT INTO book_genres (book_id, genre_id, position)
			SELECT $1, t.genre_id, t.ord
			FROM unnest($2::bigint[]) WITH ORDINALITY AS t(genre_id, ord)`
		if _, err := tx.Exec(ctx, insertSQL, b.ID, genreIDs); err != nil {
			return translate(err)
		}
	}

	books := []Book{*b}
	if err := r.attachGenres(ctx, tx, books); err != nil {
		return err
	}
	b.Genres = books[0].Genres
	return nil
}

func (r *PostgresRepo) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func translate(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	if pgErr.Code == uniqueViolation && pgErr.ConstraintName == constraintBookISBN {
		return ErrDuplicateISBN
	}
	if pgErr.Code == foreignKeyViolation {
		switch pgErr.ConstraintName {
		case constraintBookAuthor:
			return ErrUnknownAuthor
		case constraintBookGenre:
			return ErrUnknownGenre
		}
	}
	return err
}
