package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"book-catalog/internal/domains/author/model"
	"book-catalog/pkg/database"
)

// postgresRepository implements RepositoryInterface with raw SQL. The struct
// is stateless; the Querier decides whether a statement runs on the pool or
// inside a transaction.
type postgresRepository struct{}

func NewPostgresRepository() RepositoryInterface {
	return &postgresRepository{}
}

const authorColumns = "id, name, date_of_birth, created_at, updated_at"

func scanAuthor(row pgx.Row) (*model.Author, error) {
	var a model.Author
	err := row.Scan(&a.ID, &a.Name, &a.DateOfBirth, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Insert persists a new author. Timestamps come back from the database.
func (r *postgresRepository) Insert(ctx context.Context, q database.Querier, a *model.Author) (*model.Author, error) {
	query := `
        INSERT INTO authors (id, name, date_of_birth)
        VALUES ($1, $2, $3)
        RETURNING ` + authorColumns

	created, err := scanAuthor(q.QueryRow(ctx, query, a.ID, a.Name, a.DateOfBirth))
	if err != nil {
		return nil, fmt.Errorf("failed to insert author: %w", err)
	}
	return created, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, q database.Querier, id uuid.UUID) (*model.Author, error) {
	query := `SELECT ` + authorColumns + ` FROM authors WHERE id = $1`
	return r.findOne(ctx, q, query, id)
}

func (r *postgresRepository) FindByIDForUpdate(ctx context.Context, q database.Querier, id uuid.UUID) (*model.Author, error) {
	query := `SELECT ` + authorColumns + ` FROM authors WHERE id = $1 FOR UPDATE`
	return r.findOne(ctx, q, query, id)
}

func (r *postgresRepository) findOne(ctx context.Context, q database.Querier, query string, id uuid.UUID) (*model.Author, error) {
	a, err := scanAuthor(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to get author by id: %w", err)
	}
	return a, nil
}

func (r *postgresRepository) FindByIDs(ctx context.Context, q database.Querier, ids []uuid.UUID) ([]model.Author, error) {
	query := `SELECT ` + authorColumns + ` FROM authors WHERE id = ANY($1) ORDER BY id`
	return r.findMany(ctx, q, query, ids)
}

// FindByIDsForUpdate locks rows in ascending id order. ORDER BY runs before
// the locking clause, so concurrent transactions always contend on the same
// row first.
func (r *postgresRepository) FindByIDsForUpdate(ctx context.Context, q database.Querier, ids []uuid.UUID) ([]model.Author, error) {
	query := `SELECT ` + authorColumns + ` FROM authors WHERE id = ANY($1) ORDER BY id FOR UPDATE`
	return r.findMany(ctx, q, query, ids)
}

func (r *postgresRepository) findMany(ctx context.Context, q database.Querier, query string, ids []uuid.UUID) ([]model.Author, error) {
	if len(ids) == 0 {
		return []model.Author{}, nil
	}

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query authors: %w", err)
	}
	defer rows.Close()

	return collectAuthors(rows)
}

func collectAuthors(rows pgx.Rows) ([]model.Author, error) {
	authors := []model.Author{}
	for rows.Next() {
		var a model.Author
		if err := rows.Scan(&a.ID, &a.Name, &a.DateOfBirth, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan author: %w", err)
		}
		authors = append(authors, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating authors: %w", err)
	}
	return authors, nil
}

// Update replaces the mutable fields by id. updated_at is bumped by storage.
func (r *postgresRepository) Update(ctx context.Context, q database.Querier, a *model.Author) (*model.Author, error) {
	query := `
        UPDATE authors
        SET name = $1, date_of_birth = $2, updated_at = NOW()
        WHERE id = $3
        RETURNING ` + authorColumns

	updated, err := scanAuthor(q.QueryRow(ctx, query, a.Name, a.DateOfBirth, a.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to update author: %w", err)
	}
	return updated, nil
}

func (r *postgresRepository) Exists(ctx context.Context, q database.Querier, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM authors WHERE id = $1)`

	var exists bool
	if err := q.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check author existence: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) ExistsAll(ctx context.Context, q database.Querier, ids []uuid.UUID) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}

	query := `SELECT COUNT(*) FROM authors WHERE id = ANY($1)`

	var count int
	if err := q.QueryRow(ctx, query, ids).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count authors: %w", err)
	}
	return count == len(ids), nil
}

// Search runs the two-phase distinct-id pattern over the left-joined view of
// authors, book_authors and books. A join fans an author out into one row per
// book, so both the count and the page must deduplicate by author id.
func (r *postgresRepository) Search(ctx context.Context, q database.Querier, filter model.SearchFilter) ([]model.Author, int64, error) {
	var conditions []string
	args := []interface{}{}
	argPos := 1

	addCondition := func(cond string, value interface{}) {
		conditions = append(conditions, fmt.Sprintf(cond, argPos))
		args = append(args, value)
		argPos++
	}

	if filter.Name != nil {
		addCondition("a.name ILIKE $%d", "%"+*filter.Name+"%")
	}
	if filter.DateOfBirthFrom != nil {
		addCondition("a.date_of_birth >= $%d", *filter.DateOfBirthFrom)
	}
	if filter.DateOfBirthTo != nil {
		addCondition("a.date_of_birth <= $%d", *filter.DateOfBirthTo)
	}
	if filter.BookTitle != nil {
		addCondition("b.title ILIKE $%d", "%"+*filter.BookTitle+"%")
	}
	if filter.PublicationStatus != nil {
		addCondition("b.publication_status = $%d", *filter.PublicationStatus)
	}

	from := `
        FROM authors a
        LEFT JOIN book_authors ba ON ba.author_id = a.id
        LEFT JOIN books b ON b.id = ba.book_id`

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := `SELECT COUNT(*) FROM (SELECT DISTINCT a.id` + from + where + `) AS matched`

	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count search results: %w", err)
	}

	pageQuery := fmt.Sprintf(
		`SELECT DISTINCT a.id, a.name, a.date_of_birth, a.created_at, a.updated_at`+
			from+where+` ORDER BY a.id LIMIT $%d OFFSET $%d`,
		argPos, argPos+1,
	)
	args = append(args, filter.PageSize, filter.Page*filter.PageSize)

	rows, err := q.Query(ctx, pageQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search authors: %w", err)
	}
	defer rows.Close()

	authors, err := collectAuthors(rows)
	if err != nil {
		return nil, 0, err
	}
	return authors, total, nil
}
