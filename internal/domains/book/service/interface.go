package service

import (
	"context"

	"github.com/google/uuid"

	"book-catalog/internal/domains/book/model"
)

// CreateBookInput carries the plain parameters of a book write. AuthorIDs may
// arrive in any order and with duplicates; the service normalizes them.
type CreateBookInput struct {
	Title             string
	Price             int64
	PublicationStatus model.PublicationStatus
	AuthorIDs         []uuid.UUID
}

// ServiceInterface is the book coordinator. Writes run one transaction each,
// locking authors before the book and in ascending author-id order.
type ServiceInterface interface {
	Create(ctx context.Context, in CreateBookInput) (*model.BookWithAuthors, error)
	Get(ctx context.Context, id uuid.UUID) (*model.BookWithAuthors, error)
	Update(ctx context.Context, id uuid.UUID, in CreateBookInput) (*model.BookWithAuthors, error)
	GetBooksByAuthor(ctx context.Context, authorID uuid.UUID) ([]model.BookWithAuthors, error)
	Search(ctx context.Context, filter model.SearchFilter) ([]model.BookWithAuthors, int64, error)
}
