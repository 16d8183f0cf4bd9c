package service

import (
	"context"

	"github.com/google/uuid"

	authorModel "book-catalog/internal/domains/author/model"
	authorRepo "book-catalog/internal/domains/author/repository"
	"book-catalog/internal/domains/book/model"
	"book-catalog/internal/domains/book/repository"
	"book-catalog/pkg/database"
)

type bookService struct {
	db      database.Querier
	tx      database.TxManager
	authors authorRepo.RepositoryInterface
	books   repository.RepositoryInterface
	assoc   repository.AssociationRepositoryInterface
}

func NewBookService(
	db database.Querier,
	tx database.TxManager,
	authors authorRepo.RepositoryInterface,
	books repository.RepositoryInterface,
	assoc repository.AssociationRepositoryInterface,
) ServiceInterface {
	return &bookService{
		db:      db,
		tx:      tx,
		authors: authors,
		books:   books,
		assoc:   assoc,
	}
}

// Create runs the write protocol: lock the referenced authors (ascending id
// order, before any book access), verify all of them exist, build the domain
// value, persist the row and its associations, then return the hydrated book.
// Any failure rolls back the whole transaction.
func (s *bookService) Create(ctx context.Context, in CreateBookInput) (*model.BookWithAuthors, error) {
	return database.WithinTxResult(ctx, s.tx, func(q database.Querier) (*model.BookWithAuthors, error) {
		authorIDs := model.NormalizeIDs(in.AuthorIDs)

		locked, err := s.authors.FindByIDsForUpdate(ctx, q, authorIDs)
		if err != nil {
			return nil, err
		}
		if len(locked) != len(authorIDs) {
			return nil, model.ErrAuthorsMissing
		}

		b, err := model.NewBook(in.Title, in.Price, in.PublicationStatus, authorIDs)
		if err != nil {
			return nil, err
		}

		created, err := s.books.Insert(ctx, q, b)
		if err != nil {
			return nil, err
		}
		if err := s.assoc.Insert(ctx, q, created.ID, authorIDs); err != nil {
			return nil, err
		}

		authors, err := s.authors.FindByIDs(ctx, q, authorIDs)
		if err != nil {
			return nil, err
		}
		return &model.BookWithAuthors{Book: *created, Authors: authors}, nil
	})
}

func (s *bookService) Get(ctx context.Context, id uuid.UUID) (*model.BookWithAuthors, error) {
	b, err := s.books.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	authors, err := s.assoc.AuthorsOf(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	return &model.BookWithAuthors{Book: *b, Authors: authors}, nil
}

// Update follows the same lock order as Create: authors first (ascending),
// then the book row. The status transition is evaluated against the persisted
// status read under the lock, and the association set is replaced inside the
// same transaction as the row update.
func (s *bookService) Update(ctx context.Context, id uuid.UUID, in CreateBookInput) (*model.BookWithAuthors, error) {
	return database.WithinTxResult(ctx, s.tx, func(q database.Querier) (*model.BookWithAuthors, error) {
		authorIDs := model.NormalizeIDs(in.AuthorIDs)

		locked, err := s.authors.FindByIDsForUpdate(ctx, q, authorIDs)
		if err != nil {
			return nil, err
		}
		if len(locked) != len(authorIDs) {
			return nil, model.ErrAuthorsMissing
		}

		existing, err := s.books.FindByIDForUpdate(ctx, q, id)
		if err != nil {
			return nil, err
		}

		updated, err := existing.Update(in.Title, in.Price, in.PublicationStatus, authorIDs)
		if err != nil {
			return nil, err
		}

		persisted, err := s.books.Update(ctx, q, &updated)
		if err != nil {
			return nil, err
		}
		if err := s.assoc.Replace(ctx, q, persisted.ID, authorIDs); err != nil {
			return nil, err
		}

		authors, err := s.authors.FindByIDs(ctx, q, authorIDs)
		if err != nil {
			return nil, err
		}
		return &model.BookWithAuthors{Book: *persisted, Authors: authors}, nil
	})
}

// GetBooksByAuthor is a non-locking read. When the author has books, their
// existence is implied by the association rows and no extra query is spent;
// only an empty result needs the existence check to tell "no books" apart
// from "no such author".
func (s *bookService) GetBooksByAuthor(ctx context.Context, authorID uuid.UUID) ([]model.BookWithAuthors, error) {
	books, err := s.assoc.BooksOf(ctx, s.db, authorID)
	if err != nil {
		return nil, err
	}

	if len(books) == 0 {
		exists, err := s.authors.Exists(ctx, s.db, authorID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, authorModel.ErrAuthorNotFound
		}
		return []model.BookWithAuthors{}, nil
	}

	return s.hydrate(ctx, books)
}

func (s *bookService) Search(ctx context.Context, filter model.SearchFilter) ([]model.BookWithAuthors, int64, error) {
	if filter.Page < 0 || filter.PageSize < 1 {
		return nil, 0, model.ErrInvalidPagination
	}

	books, total, err := s.books.Search(ctx, s.db, filter)
	if err != nil {
		return nil, 0, err
	}

	hydrated, err := s.hydrate(ctx, books)
	if err != nil {
		return nil, 0, err
	}
	return hydrated, total, nil
}

// hydrate attaches full author rows to a page of books with one batched
// association lookup.
func (s *bookService) hydrate(ctx context.Context, books []model.Book) ([]model.BookWithAuthors, error) {
	if len(books) == 0 {
		return []model.BookWithAuthors{}, nil
	}

	bookIDs := make([]uuid.UUID, len(books))
	for i := range books {
		bookIDs[i] = books[i].ID
	}

	authorsByBook, err := s.assoc.AuthorsOfMany(ctx, s.db, bookIDs)
	if err != nil {
		return nil, err
	}

	result := make([]model.BookWithAuthors, len(books))
	for i := range books {
		result[i] = model.BookWithAuthors{
			Book:    books[i],
			Authors: authorsByBook[books[i].ID],
		}
	}
	return result, nil
}
