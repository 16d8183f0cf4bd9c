package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	authorModel "book-catalog/internal/domains/author/model"
	"book-catalog/internal/domains/book/model"
	"book-catalog/pkg/database"
)

type associationRepository struct{}

func NewAssociationRepository() AssociationRepositoryInterface {
	return &associationRepository{}
}

// Insert writes one link row per author id as a single batch.
func (r *associationRepository) Insert(ctx context.Context, q database.Querier, bookID uuid.UUID, authorIDs []uuid.UUID) error {
	if len(authorIDs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, authorID := range authorIDs {
		batch.Queue(`INSERT INTO book_authors (book_id, author_id) VALUES ($1, $2)`, bookID, authorID)
	}

	results := q.SendBatch(ctx, batch)
	defer results.Close()

	for range authorIDs {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert book author link: %w", err)
		}
	}
	return nil
}

func (r *associationRepository) Replace(ctx context.Context, q database.Querier, bookID uuid.UUID, authorIDs []uuid.UUID) error {
	if _, err := q.Exec(ctx, `DELETE FROM book_authors WHERE book_id = $1`, bookID); err != nil {
		return fmt.Errorf("failed to delete book author links: %w", err)
	}
	return r.Insert(ctx, q, bookID, authorIDs)
}

func (r *associationRepository) AuthorIDsOf(ctx context.Context, q database.Querier, bookID uuid.UUID) ([]uuid.UUID, error) {
	return fetchAuthorIDs(ctx, q, bookID)
}

func (r *associationRepository) AuthorsOf(ctx context.Context, q database.Querier, bookID uuid.UUID) ([]authorModel.Author, error) {
	query := `
        SELECT a.id, a.name, a.date_of_birth, a.created_at, a.updated_at
        FROM authors a
        JOIN book_authors ba ON ba.author_id = a.id
        WHERE ba.book_id = $1
        ORDER BY a.id`

	rows, err := q.Query(ctx, query, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to query book authors: %w", err)
	}
	defer rows.Close()

	return collectAuthorRows(rows, nil)
}

// AuthorsOfMany hydrates a whole page of books in one query instead of one
// per row. Every requested book id gets an entry, empty when unlinked.
func (r *associationRepository) AuthorsOfMany(ctx context.Context, q database.Querier, bookIDs []uuid.UUID) (map[uuid.UUID][]authorModel.Author, error) {
	result := make(map[uuid.UUID][]authorModel.Author, len(bookIDs))
	for _, id := range bookIDs {
		result[id] = []authorModel.Author{}
	}
	if len(bookIDs) == 0 {
		return result, nil
	}

	query := `
        SELECT ba.book_id, a.id, a.name, a.date_of_birth, a.created_at, a.updated_at
        FROM authors a
        JOIN book_authors ba ON ba.author_id = a.id
        WHERE ba.book_id = ANY($1)
        ORDER BY ba.book_id, a.id`

	rows, err := q.Query(ctx, query, bookIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query authors for books: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var bookID uuid.UUID
		var a authorModel.Author
		if err := rows.Scan(&bookID, &a.ID, &a.Name, &a.DateOfBirth, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan author: %w", err)
		}
		result[bookID] = append(result[bookID], a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating authors: %w", err)
	}
	return result, nil
}

// BooksOf returns the full book rows linked to the author. The author-id sets
// of the returned books are filled with one grouped query, not per book.
func (r *associationRepository) BooksOf(ctx context.Context, q database.Querier, authorID uuid.UUID) ([]model.Book, error) {
	query := `
        SELECT b.id, b.title, b.price, b.publication_status, b.created_at, b.updated_at
        FROM books b
        JOIN book_authors ba ON ba.book_id = b.id
        WHERE ba.author_id = $1
        ORDER BY b.id`

	rows, err := q.Query(ctx, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query books by author: %w", err)
	}
	defer rows.Close()

	books := []model.Book{}
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Price, &b.PublicationStatus, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating books: %w", err)
	}

	if len(books) == 0 {
		return books, nil
	}

	bookIDs := make([]uuid.UUID, len(books))
	for i := range books {
		bookIDs[i] = books[i].ID
	}

	idRows, err := q.Query(ctx,
		`SELECT book_id, author_id FROM book_authors WHERE book_id = ANY($1) ORDER BY book_id, author_id`, bookIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query book author links: %w", err)
	}
	defer idRows.Close()

	idsByBook := make(map[uuid.UUID][]uuid.UUID, len(books))
	for idRows.Next() {
		var bookID, aID uuid.UUID
		if err := idRows.Scan(&bookID, &aID); err != nil {
			return nil, fmt.Errorf("failed to scan book author link: %w", err)
		}
		idsByBook[bookID] = append(idsByBook[bookID], aID)
	}
	if err := idRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating book author links: %w", err)
	}

	for i := range books {
		books[i].AuthorIDs = idsByBook[books[i].ID]
	}
	return books, nil
}

func collectAuthorRows(rows pgx.Rows, authors []authorModel.Author) ([]authorModel.Author, error) {
	if authors == nil {
		authors = []authorModel.Author{}
	}
	for rows.Next() {
		var a authorModel.Author
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
