package bookinstance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	dialectPostgres     = "postgres"
	foreignKeyViolation = "23503"

	constraintInstanceBook     = "book_instances_book_id_fkey"
	constraintInstanceLanguage = "book_instances_language_id_fkey"
	constraintInstanceBorrower = "book_instances_borrower_id_fkey"
)

const selectColumns = `
	i.id, i.book_id, COALESCE(b.title, ''), i.imprint, i.due_back,
	i.language_id, i.borrower_id, i.status, i.created_at, i.updated_at`

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
		From(goqu.T("book_instances").As("i")).
		LeftJoin(goqu.T("books").As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("i.book_id")))).
		Prepared(true)

	if q.Status != nil {
		ds = ds.Where(goqu.I("i.status").Eq(q.Status.String()))
	}
	if q.BookID != nil {
		ds = ds.Where(goqu.I("i.book_id").Eq(*q.BookID))
	}
	if q.BorrowerID != "" {
		ds = ds.Where(goqu.I("i.borrower_id").Eq(q.BorrowerID))
	}
	if q.OverdueAsOf != nil {
		ds = ds.Where(goqu.I("i.due_back").Lt(*q.OverdueAsOf))
	}

	var out listQueries
	var err error
	out.countSQL, out.countArgs, err = ds.Select(goqu.COUNT(goqu.Star())).ToSQL()
	if err != nil {
		return listQueries{}, fmt.Errorf("build count query: %w", err)
	}

	out.dataSQL, out.dataArgs, err = ds.
		Select(goqu.L(selectColumns)).
		Order(goqu.I("i.due_back").Asc().NullsLast(), goqu.I("i.id").Asc()).
		Limit(uint(q.Limit)).
		Offset(uint(q.Offset)).
		ToSQL()
	if err != nil {
		return listQueries{}, fmt.Errorf("build list query: %w", err)
	}
	return out, nil
}

func scanInstance(row pgx.Row) (Instance, error) {
	var i Instance
	var status string
	err := row.Scan(&i.ID, &i.BookID, &i.BookTitle, &i.Imprint, &i.DueBack,
		&i.LanguageID, &i.BorrowerID, &status, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return Instance{}, err
	}
	if i.Status, err = ParseStatus(status); err != nil {
		return Instance{}, err
	}
	return i, nil
}

func (r *PostgresRepo) List(ctx context.Context, q Query) ([]Instance, int, error) {
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

	out := []Instance{}
	for rows.Next() {
		inst, err := scanInstance(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, inst)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, id uuid.UUID) (Instance, error) {
	query := `SELECT` + selectColumns + `
		FROM book_instances i
		LEFT JOIN books b ON b.id = i.book_id
		WHERE i.id = $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	inst, err := scanInstance(r.db.QueryRow(timeoutCtx, query, id))
	if err != nil {
		return Instance{}, translate(err)
	}
	return inst, nil
}

// returning re-reads the row after a write so the book title is filled in.
func (r *PostgresRepo) returning(ctx context.Context, cte string, args ...any) (Instance, error) {
	query := `WITH i AS (` + cte + ` RETURNING *)
		SELECT` + selectColumns + `
		FROM i
		LEFT JOIN books b ON b.id = i.book_id`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	inst, err := scanInstance(r.db.QueryRow(timeoutCtx, query, args...))
	if err != nil {
		return Instance{}, translate(err)
	}
	return inst, nil
}

func (r *PostgresRepo) Create(ctx context.Context, inst *Instance) error {
	created, err := r.returning(ctx, `
		INSERT INTO book_instances (id, book_id, imprint, due_back, language_id, borrower_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		inst.ID, inst.BookID, inst.Imprint, inst.DueBack, inst.LanguageID, inst.BorrowerID, inst.Status.String())
	if err != nil {
		return err
	}
	*inst = created
	return nil
}

func (r *PostgresRepo) Update(ctx context.Context, inst *Instance) error {
	updated, err := r.returning(ctx, updateSQL,
		inst.ID, inst.BookID, inst.Imprint, inst.LanguageID, inst.Status.String())
	if errors.Is(err, ErrNotFound) {
		return r.missingOr(ctx, inst.ID, ErrNotAvailable)
	}
	if err != nil {
		return err
	}
	*inst = updated
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id uuid.UUID) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM book_instances WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Writes that depend on the loan status are conditional: a row whose status
// changed since it was read matches nothing and surfaces as a conflict.
const (
	updateSQL = `
		UPDATE book_instances
		SET book_id = $2, imprint = $3, language_id = $4, status = $5, updated_at = NOW()
		WHERE id = $1 AND status <> 'on_loan'`
	setDueBackSQL = `
		UPDATE book_instances SET due_back = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'on_loan'`
	lendSQL = `
		UPDATE book_instances
		SET status = 'on_loan', borrower_id = $2, due_back = $3, updated_at = NOW()
		WHERE id = $1 AND status = 'available'`
	returnSQL = `
		UPDATE book_instances
		SET status = 'available', borrower_id = NULL, due_back = NULL, updated_at = NOW()
		WHERE id = $1 AND status = 'on_loan'`
)

// SetDueBack only succeeds for copies currently on loan.
func (r *PostgresRepo) SetDueBack(ctx context.Context, id uuid.UUID, dueBack time.Time) (Instance, error) {
	inst, err := r.returning(ctx, setDueBackSQL, id, dueBack)
	if errors.Is(err, ErrNotFound) {
		return Instance{}, r.missingOr(ctx, id, ErrNotOnLoan)
	}
	return inst, err
}

// Lend only succeeds for available copies.
func (r *PostgresRepo) Lend(ctx context.Context, id uuid.UUID, borrowerID string, dueBack time.Time) (Instance, error) {
	inst, err := r.returning(ctx, lendSQL, id, borrowerID, dueBack)
	if errors.Is(err, ErrNotFound) {
		return Instance{}, r.missingOr(ctx, id, ErrNotAvailable)
	}
	return inst, err
}

// Return only succeeds for copies currently on loan.
func (r *PostgresRepo) Return(ctx context.Context, id uuid.UUID) (Instance, error) {
	inst, err := r.returning(ctx, returnSQL, id)
	if errors.Is(err, ErrNotFound) {
		return Instance{}, r.missingOr(ctx, id, ErrNotOnLoan)
	}
	return inst, err
}

// missingOr tells a conditional update that matched no row apart from one
// whose target does not exist.
func (r *PostgresRepo) missingOr(ctx context.Context, id uuid.UUID, conflict error) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var exists bool
	if err := r.db.QueryRow(timeoutCtx, `SELECT EXISTS (SELECT 1 FROM book_instances WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return conflict
}

func translate(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		switch pgErr.ConstraintName {
		case constraintInstanceBook:
			return ErrUnknownBook
		case constraintInstanceLanguage:
			return ErrUnknownLanguage
		case constraintInstanceBorrower:
			return ErrUnknownBorrower
		}
	}
	return err
}
