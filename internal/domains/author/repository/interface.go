package repository

import (
	"context"

	"github.com/google/uuid"

	"book-catalog/internal/domains/author/model"
	"book-catalog/pkg/database"
)

// RepositoryInterface is the author entity store. Every method takes the
// Querier it must run on, so the same store works on the pool for plain reads
// and on a transaction for the locking protocol.
type RepositoryInterface interface {
	Insert(ctx context.Context, q database.Querier, a *model.Author) (*model.Author, error)
	FindByID(ctx context.Context, q database.Querier, id uuid.UUID) (*model.Author, error)
	// FindByIDForUpdate acquires an exclusive row lock and blocks until it is
	// available. Only meaningful inside a write transaction.
	FindByIDForUpdate(ctx context.Context, q database.Querier, id uuid.UUID) (*model.Author, error)
	FindByIDs(ctx context.Context, q database.Querier, ids []uuid.UUID) ([]model.Author, error)
	// FindByIDsForUpdate locks the rows in ascending id order. All write
	// transactions lock authors through this method, which keeps the lock
	// acquisition order identical across transactions and rules out deadlock
	// cycles.
	FindByIDsForUpdate(ctx context.Context, q database.Querier, ids []uuid.UUID) ([]model.Author, error)
	Update(ctx context.Context, q database.Querier, a *model.Author) (*model.Author, error)
	Exists(ctx context.Context, q database.Querier, id uuid.UUID) (bool, error)
	// ExistsAll is vacuously true for an empty id set.
	ExistsAll(ctx context.Context, q database.Querier, ids []uuid.UUID) (bool, error)
	Search(ctx context.Context, q database.Querier, filter model.SearchFilter) ([]model.Author, int64, error)
}
