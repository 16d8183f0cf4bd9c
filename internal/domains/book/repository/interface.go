package repository

import (
	"context"

	"github.com/google/uuid"

	authorModel "book-catalog/internal/domains/author/model"
	"book-catalog/internal/domains/book/model"
	"book-catalog/pkg/database"
)

// RepositoryInterface is the book entity store. Methods that return a book
// hydrate its author-id set from the association table.
type RepositoryInterface interface {
	Insert(ctx context.Context, q database.Querier, b *model.Book) (*model.Book, error)
	FindByID(ctx context.Context, q database.Querier, id uuid.UUID) (*model.Book, error)
	// FindByIDForUpdate acquires an exclusive row lock on the book. Callers
	// must already hold the locks on the referenced authors (authors before
	// books is the global order).
	FindByIDForUpdate(ctx context.Context, q database.Querier, id uuid.UUID) (*model.Book, error)
	Update(ctx context.Context, q database.Querier, b *model.Book) (*model.Book, error)
	Exists(ctx context.Context, q database.Querier, id uuid.UUID) (bool, error)
	Search(ctx context.Context, q database.Querier, filter model.SearchFilter) ([]model.Book, int64, error)
}

// AssociationRepositoryInterface owns the book_authors link table. Rows are
// only ever written as part of a book mutation, inside that mutation's
// transaction.
type AssociationRepositoryInterface interface {
	// Insert creates one link row per author id. No-op for an empty set.
	Insert(ctx context.Context, q database.Querier, bookID uuid.UUID, authorIDs []uuid.UUID) error
	// Replace deletes all links of the book and inserts the new set. Both
	// statements run on the caller's transaction, so concurrent readers see
	// either the full old set or the full new one.
	Replace(ctx context.Context, q database.Querier, bookID uuid.UUID, authorIDs []uuid.UUID) error
	AuthorIDsOf(ctx context.Context, q database.Querier, bookID uuid.UUID) ([]uuid.UUID, error)
	AuthorsOf(ctx context.Context, q database.Querier, bookID uuid.UUID) ([]authorModel.Author, error)
	// AuthorsOfMany hydrates a page of books in one query. Every requested
	// book id is present in the result, with an empty list when the book has
	// no authors.
	AuthorsOfMany(ctx context.Context, q database.Querier, bookIDs []uuid.UUID) (map[uuid.UUID][]authorModel.Author, error)
	// BooksOf returns the full book rows linked to the author, author-id sets
	// included.
	BooksOf(ctx context.Context, q database.Querier, authorID uuid.UUID) ([]model.Book, error)
}
