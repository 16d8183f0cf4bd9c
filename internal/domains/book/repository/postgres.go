package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"book-catalog/internal/domains/book/model"
	"book-catalog/pkg/database"
)

type postgresRepository struct{}

func NewPostgresRepository() RepositoryInterface {
	return &postgresRepository{}
}

const bookColumns = "id, title, price, publication_status, created_at, updated_at"

func scanBook(row pgx.Row) (*model.Book, error) {
	var b model.Book
	err := row.Scan(&b.ID, &b.Title, &b.Price, &b.PublicationStatus, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Insert persists a new book row. Associations are written separately by the
// association store, inside the same transaction.
func (r *postgresRepository) Insert(ctx context.Context, q database.Querier, b *model.Book) (*model.Book, error) {
	query := `
        INSERT INTO books (id, title, price, publication_status)
        VALUES ($1, $2, $3, $4)
        RETURNING ` + bookColumns

	created, err := scanBook(q.QueryRow(ctx, query, b.ID, b.Title, b.Price, b.PublicationStatus))
	if err != nil {
		return nil, fmt.Errorf("failed to insert book: %w", err)
	}
	created.AuthorIDs = b.AuthorIDs
	return created, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, q database.Querier, id uuid.UUID) (*model.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`
	return r.findOne(ctx, q, query, id)
}

func (r *postgresRepository) FindByIDForUpdate(ctx context.Context, q database.Querier, id uuid.UUID) (*model.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1 FOR UPDATE`
	return r.findOne(ctx, q, query, id)
}

func (r *postgresRepository) findOne(ctx context.Context, q database.Querier, query string, id uuid.UUID) (*model.Book, error) {
	b, err := scanBook(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book by id: %w", err)
	}

	if b.AuthorIDs, err = fetchAuthorIDs(ctx, q, id); err != nil {
		return nil, err
	}
	return b, nil
}

func fetchAuthorIDs(ctx context.Context, q database.Querier, bookID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := q.Query(ctx, `SELECT author_id FROM book_authors WHERE book_id = $1 ORDER BY author_id`, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to query book authors: %w", err)
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan author id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating book authors: %w", err)
	}
	return ids, nil
}

func (r *postgresRepository) Update(ctx context.Context, q database.Querier, b *model.Book) (*model.Book, error) {
	query := `
        UPDATE books
        SET title = $1, price = $2, publication_status = $3, updated_at = NOW()
        WHERE id = $4
        RETURNING ` + bookColumns

	updated, err := scanBook(q.QueryRow(ctx, query, b.Title, b.Price, b.PublicationStatus, b.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to update book: %w", err)
	}
	updated.AuthorIDs = b.AuthorIDs
	return updated, nil
}

func (r *postgresRepository) Exists(ctx context.Context, q database.Querier, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM books WHERE id = $1)`

	var exists bool
	if err := q.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check book existence: %w", err)
	}
	return exists, nil
}

// Search runs the two-phase distinct-id pattern over the left-joined view of
// books, book_authors and authors. A book with two authors joins into two
// rows; counting and paging by DISTINCT book id keeps both correct. Author
// hydration is left to the service, which uses the batched association
// lookup.
func (r *postgresRepository) Search(ctx context.Context, q database.Querier, filter model.SearchFilter) ([]model.Book, int64, error) {
	var conditions []string
	args := []interface{}{}
	argPos := 1

	addCondition := func(cond string, value interface{}) {
		conditions = append(conditions, fmt.Sprintf(cond, argPos))
		args = append(args, value)
		argPos++
	}

	if filter.Title != nil {
		addCondition("b.title ILIKE $%d", "%"+*filter.Title+"%")
	}
	if filter.AuthorName != nil {
		addCondition("a.name ILIKE $%d", "%"+*filter.AuthorName+"%")
	}
	if filter.PriceFrom != nil {
		addCondition("b.price >= $%d", *filter.PriceFrom)
	}
	if filter.PriceTo != nil {
		addCondition("b.price <= $%d", *filter.PriceTo)
	}
	if filter.PublicationStatus != nil {
		addCondition("b.publication_status = $%d", *filter.PublicationStatus)
	}

	from := `
        FROM books b
        LEFT JOIN book_authors ba ON ba.book_id = b.id
        LEFT JOIN authors a ON a.id = ba.author_id`

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := `SELECT COUNT(*) FROM (SELECT DISTINCT b.id` + from + where + `) AS matched`

	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count search results: %w", err)
	}

	pageQuery := fmt.Sprintf(
		`SELECT DISTINCT b.id, b.title, b.price, b.publication_status, b.created_at, b.updated_at`+
			from+where+` ORDER BY b.id LIMIT $%d OFFSET $%d`,
		argPos, argPos+1,
	)
	args = append(args, filter.PageSize, filter.Page*filter.PageSize)

	rows, err := q.Query(ctx, pageQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search books: %w", err)
	}
	defer rows.Close()

	books := []model.Book{}
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Price, &b.PublicationStatus, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating books: %w", err)
	}

	return books, total, nil
}
