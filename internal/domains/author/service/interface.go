package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"book-catalog/internal/domains/author/model"
)

// ServiceInterface is the author write/read surface. Every write runs in its
// own transaction; searches never lock.
type ServiceInterface interface {
	Create(ctx context.Context, name string, dateOfBirth time.Time) (*model.Author, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Author, error)
	Update(ctx context.Context, id uuid.UUID, name string, dateOfBirth time.Time) (*model.Author, error)
	Search(ctx context.Context, filter model.SearchFilter) ([]model.Author, int64, error)
}
