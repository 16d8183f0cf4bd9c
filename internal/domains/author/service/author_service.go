package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"book-catalog/internal/domains/author/model"
	"book-catalog/internal/domains/author/repository"
	bookModel "book-catalog/internal/domains/book/model"
	"book-catalog/pkg/database"
)

type authorService struct {
	db      database.Querier
	tx      database.TxManager
	authors repository.RepositoryInterface
	now     func() time.Time
}

// NewAuthorService wires the author coordinator. The clock is injected so the
// date-of-birth check stays deterministic under test; pass nil for time.Now.
func NewAuthorService(
	db database.Querier,
	tx database.TxManager,
	authors repository.RepositoryInterface,
	now func() time.Time,
) ServiceInterface {
	if now == nil {
		now = time.Now
	}
	return &authorService{
		db:      db,
		tx:      tx,
		authors: authors,
		now:     now,
	}
}

func (s *authorService) Create(ctx context.Context, name string, dateOfBirth time.Time) (*model.Author, error) {
	return database.WithinTxResult(ctx, s.tx, func(q database.Querier) (*model.Author, error) {
		a, err := model.NewAuthor(name, dateOfBirth, s.now())
		if err != nil {
			return nil, err
		}
		return s.authors.Insert(ctx, q, a)
	})
}

func (s *authorService) Get(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	return s.authors.FindByID(ctx, s.db, id)
}

// Update locks the author row, revalidates against the injected clock and
// replaces the mutable fields. Any failure rolls the transaction back whole.
func (s *authorService) Update(ctx context.Context, id uuid.UUID, name string, dateOfBirth time.Time) (*model.Author, error) {
	return database.WithinTxResult(ctx, s.tx, func(q database.Querier) (*model.Author, error) {
		existing, err := s.authors.FindByIDForUpdate(ctx, q, id)
		if err != nil {
			return nil, err
		}

		updated, err := existing.Update(name, dateOfBirth, s.now())
		if err != nil {
			return nil, err
		}

		return s.authors.Update(ctx, q, &updated)
	})
}

func (s *authorService) Search(ctx context.Context, filter model.SearchFilter) ([]model.Author, int64, error) {
	if filter.Page < 0 || filter.PageSize < 1 {
		return nil, 0, model.ErrInvalidPagination
	}
	if filter.PublicationStatus != nil {
		status, err := bookModel.ParsePublicationStatus(*filter.PublicationStatus)
		if err != nil {
			return nil, 0, err
		}
		normalized := string(status)
		filter.PublicationStatus = &normalized
	}

	return s.authors.Search(ctx, s.db, filter)
}
