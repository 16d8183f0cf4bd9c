package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authorModel "book-catalog/internal/domains/author/model"
	"book-catalog/internal/domains/book/model"
	"book-catalog/pkg/database"
)

type fakeTxManager struct {
	calls int
}

func (m *fakeTxManager) WithinTx(ctx context.Context, fn database.TxFunc) error {
	m.calls++
	return fn(nil)
}

type fakeAuthorRepo struct {
	findByIDsForUpdateFn func(ids []uuid.UUID) ([]authorModel.Author, error)
	findByIDsFn          func(ids []uuid.UUID) ([]authorModel.Author, error)
	existsFn             func(id uuid.UUID) (bool, error)
	existsCalls          int
}

func (f *fakeAuthorRepo) Insert(_ context.Context, _ database.Querier, a *authorModel.Author) (*authorModel.Author, error) {
	panic("unexpected Insert call")
}

func (f *fakeAuthorRepo) FindByID(_ context.Context, _ database.Querier, id uuid.UUID) (*authorModel.Author, error) {
	panic("unexpected FindByID call")
}

func (f *fakeAuthorRepo) FindByIDForUpdate(_ context.Context, _ database.Querier, id uuid.UUID) (*authorModel.Author, error) {
	panic("unexpected FindByIDForUpdate call")
}

func (f *fakeAuthorRepo) FindByIDs(_ context.Context, _ database.Querier, ids []uuid.UUID) ([]authorModel.Author, error) {
	return f.findByIDsFn(ids)
}

func (f *fakeAuthorRepo) FindByIDsForUpdate(_ context.Context, _ database.Querier, ids []uuid.UUID) ([]authorModel.Author, error) {
	return f.findByIDsForUpdateFn(ids)
}

func (f *fakeAuthorRepo) Update(_ context.Context, _ database.Querier, a *authorModel.Author) (*authorModel.Author, error) {
	panic("unexpected Update call")
}

func (f *fakeAuthorRepo) Exists(_ context.Context, _ database.Querier, id uuid.UUID) (bool, error) {
	f.existsCalls++
	return f.existsFn(id)
}

func (f *fakeAuthorRepo) ExistsAll(_ context.Context, _ database.Querier, ids []uuid.UUID) (bool, error) {
	panic("unexpected ExistsAll call")
}

func (f *fakeAuthorRepo) Search(_ context.Context, _ database.Querier, filter authorModel.SearchFilter) ([]authorModel.Author, int64, error) {
	panic("unexpected Search call")
}

type fakeBookRepo struct {
	insertFn            func(b *model.Book) (*model.Book, error)
	findByIDFn          func(id uuid.UUID) (*model.Book, error)
	findByIDForUpdateFn func(id uuid.UUID) (*model.Book, error)
	updateFn            func(b *model.Book) (*model.Book, error)
	searchFn            func(filter model.SearchFilter) ([]model.Book, int64, error)
	updateCalls         int
}

func (f *fakeBookRepo) Insert(_ context.Context, _ database.Querier, b *model.Book) (*model.Book, error) {
	return f.insertFn(b)
}

func (f *fakeBookRepo) FindByID(_ context.Context, _ database.Querier, id uuid.UUID) (*model.Book, error) {
	return f.findByIDFn(id)
}

func (f *fakeBookRepo) FindByIDForUpdate(_ context.Context, _ database.Querier, id uuid.UUID) (*model.Book, error) {
	return f.findByIDForUpdateFn(id)
}

func (f *fakeBookRepo) Update(_ context.Context, _ database.Querier, b *model.Book) (*model.Book, error) {
	f.updateCalls++
	return f.updateFn(b)
}

func (f *fakeBookRepo) Exists(_ context.Context, _ database.Querier, id uuid.UUID) (bool, error) {
	panic("unexpected Exists call")
}

func (f *fakeBookRepo) Search(_ context.Context, _ database.Querier, filter model.SearchFilter) ([]model.Book, int64, error) {
	return f.searchFn(filter)
}

type fakeAssocRepo struct {
	insertFn        func(bookID uuid.UUID, authorIDs []uuid.UUID) error
	replaceFn       func(bookID uuid.UUID, authorIDs []uuid.UUID) error
	authorsOfFn     func(bookID uuid.UUID) ([]authorModel.Author, error)
	authorsOfManyFn func(bookIDs []uuid.UUID) (map[uuid.UUID][]authorModel.Author, error)
	booksOfFn       func(authorID uuid.UUID) ([]model.Book, error)
	insertCalls     int
}

func (f *fakeAssocRepo) Insert(_ context.Context, _ database.Querier, bookID uuid.UUID, authorIDs []uuid.UUID) error {
	f.insertCalls++
	return f.insertFn(bookID, authorIDs)
}

func (f *fakeAssocRepo) Replace(_ context.Context, _ database.Querier, bookID uuid.UUID, authorIDs []uuid.UUID) error {
	return f.replaceFn(bookID, authorIDs)
}

func (f *fakeAssocRepo) AuthorIDsOf(_ context.Context, _ database.Querier, bookID uuid.UUID) ([]uuid.UUID, error) {
	panic("unexpected AuthorIDsOf call")
}

func (f *fakeAssocRepo) AuthorsOf(_ context.Context, _ database.Querier, bookID uuid.UUID) ([]authorModel.Author, error) {
	return f.authorsOfFn(bookID)
}

func (f *fakeAssocRepo) AuthorsOfMany(_ context.Context, _ database.Querier, bookIDs []uuid.UUID) (map[uuid.UUID][]authorModel.Author, error) {
	return f.authorsOfManyFn(bookIDs)
}

func (f *fakeAssocRepo) BooksOf(_ context.Context, _ database.Querier, authorID uuid.UUID) ([]model.Book, error) {
	return f.booksOfFn(authorID)
}

func authorsFor(ids []uuid.UUID) []authorModel.Author {
	authors := make([]authorModel.Author, len(ids))
	for i, id := range ids {
		authors[i] = authorModel.Author{
			ID:          id,
			Name:        "author",
			DateOfBirth: time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC),
		}
	}
	return authors
}

func TestBookServiceCreate(t *testing.T) {
	ids := model.NormalizeIDs([]uuid.UUID{uuid.New(), uuid.New(), uuid.New()})

	t.Run("locks authors in ascending order before writing", func(t *testing.T) {
		var lockedIDs []uuid.UUID
		authors := &fakeAuthorRepo{
			findByIDsForUpdateFn: func(got []uuid.UUID) ([]authorModel.Author, error) {
				lockedIDs = got
				return authorsFor(got), nil
			},
			findByIDsFn: func(got []uuid.UUID) ([]authorModel.Author, error) {
				return authorsFor(got), nil
			},
		}
		books := &fakeBookRepo{
			insertFn: func(b *model.Book) (*model.Book, error) {
				stored := *b
				stored.CreatedAt = time.Now()
				stored.UpdatedAt = stored.CreatedAt
				return &stored, nil
			},
		}
		assoc := &fakeAssocRepo{
			insertFn: func(bookID uuid.UUID, authorIDs []uuid.UUID) error {
				assert.Equal(t, lockedIDs, authorIDs)
				return nil
			},
		}
		svc := NewBookService(nil, &fakeTxManager{}, authors, books, assoc)

		// hand the ids over reversed and with a duplicate
		input := []uuid.UUID{ids[2], ids[1], ids[0], ids[1]}
		bw, err := svc.Create(context.Background(), CreateBookInput{
			Title:             "Kokoro",
			Price:             500,
			PublicationStatus: model.StatusUnpublished,
			AuthorIDs:         input,
		})
		require.NoError(t, err)

		require.Len(t, lockedIDs, 3)
		for i := 1; i < len(lockedIDs); i++ {
			assert.Negative(t, bytes.Compare(lockedIDs[i-1][:], lockedIDs[i][:]),
				"authors must be locked in ascending id order")
		}
		assert.Equal(t, 1, assoc.insertCalls)
		assert.Len(t, bw.Authors, 3)
	})

	t.Run("missing author aborts before any write", func(t *testing.T) {
		authors := &fakeAuthorRepo{
			findByIDsForUpdateFn: func(got []uuid.UUID) ([]authorModel.Author, error) {
				return authorsFor(got[:len(got)-1]), nil // one row short
			},
		}
		books := &fakeBookRepo{
			insertFn: func(b *model.Book) (*model.Book, error) {
				t.Fatal("insert must not run when an author is missing")
				return nil, nil
			},
		}
		assoc := &fakeAssocRepo{}
		svc := NewBookService(nil, &fakeTxManager{}, authors, books, assoc)

		_, err := svc.Create(context.Background(), CreateBookInput{
			Title:             "x",
			Price:             1,
			PublicationStatus: model.StatusUnpublished,
			AuthorIDs:         ids,
		})
		assert.ErrorIs(t, err, model.ErrAuthorsMissing)
		assert.Zero(t, assoc.insertCalls)
	})

	t.Run("domain validation failure aborts before any write", func(t *testing.T) {
		authors := &fakeAuthorRepo{
			findByIDsForUpdateFn: func(got []uuid.UUID) ([]authorModel.Author, error) {
				return authorsFor(got), nil
			},
		}
		books := &fakeBookRepo{
			insertFn: func(b *model.Book) (*model.Book, error) {
				t.Fatal("insert must not run for invalid input")
				return nil, nil
			},
		}
		svc := NewBookService(nil, &fakeTxManager{}, authors, books, &fakeAssocRepo{})

		_, err := svc.Create(context.Background(), CreateBookInput{
			Title:             "x",
			Price:             -1,
			PublicationStatus: model.StatusUnpublished,
			AuthorIDs:         ids,
		})
		assert.ErrorIs(t, err, model.ErrPriceNegative)
	})
}

func TestBookServiceUpdate(t *testing.T) {
	ids := model.NormalizeIDs([]uuid.UUID{uuid.New()})
	bookID := uuid.New()

	newService := func(persisted model.PublicationStatus, books *fakeBookRepo, assoc *fakeAssocRepo) ServiceInterface {
		authors := &fakeAuthorRepo{
			findByIDsForUpdateFn: func(got []uuid.UUID) ([]authorModel.Author, error) {
				return authorsFor(got), nil
			},
			findByIDsFn: func(got []uuid.UUID) ([]authorModel.Author, error) {
				return authorsFor(got), nil
			},
		}
		books.findByIDForUpdateFn = func(id uuid.UUID) (*model.Book, error) {
			return &model.Book{
				ID:                id,
				Title:             "Kokoro",
				Price:             500,
				PublicationStatus: persisted,
				AuthorIDs:         ids,
			}, nil
		}
		return NewBookService(nil, &fakeTxManager{}, authors, books, assoc)
	}

	t.Run("publish succeeds and replaces associations", func(t *testing.T) {
		replaced := false
		books := &fakeBookRepo{
			updateFn: func(b *model.Book) (*model.Book, error) {
				assert.Equal(t, model.StatusPublished, b.PublicationStatus)
				return b, nil
			},
		}
		assoc := &fakeAssocRepo{
			replaceFn: func(gotBook uuid.UUID, authorIDs []uuid.UUID) error {
				replaced = true
				assert.Equal(t, bookID, gotBook)
				return nil
			},
		}
		svc := newService(model.StatusUnpublished, books, assoc)

		bw, err := svc.Update(context.Background(), bookID, CreateBookInput{
			Title:             "Kokoro",
			Price:             500,
			PublicationStatus: model.StatusPublished,
			AuthorIDs:         ids,
		})
		require.NoError(t, err)
		assert.True(t, replaced)
		assert.Equal(t, model.StatusPublished, bw.Book.PublicationStatus)
	})

	t.Run("transition check uses the persisted status", func(t *testing.T) {
		books := &fakeBookRepo{
			updateFn: func(b *model.Book) (*model.Book, error) {
				t.Fatal("update must not run for an illegal transition")
				return nil, nil
			},
		}
		svc := newService(model.StatusPublished, books, &fakeAssocRepo{})

		_, err := svc.Update(context.Background(), bookID, CreateBookInput{
			Title:             "Kokoro",
			Price:             500,
			PublicationStatus: model.StatusUnpublished,
			AuthorIDs:         ids,
		})
		assert.ErrorIs(t, err, model.ErrStatusTransition)
		assert.Zero(t, books.updateCalls)
	})

	t.Run("book not found", func(t *testing.T) {
		authors := &fakeAuthorRepo{
			findByIDsForUpdateFn: func(got []uuid.UUID) ([]authorModel.Author, error) {
				return authorsFor(got), nil
			},
		}
		books := &fakeBookRepo{
			findByIDForUpdateFn: func(uuid.UUID) (*model.Book, error) {
				return nil, model.ErrBookNotFound
			},
		}
		svc := NewBookService(nil, &fakeTxManager{}, authors, books, &fakeAssocRepo{})

		_, err := svc.Update(context.Background(), bookID, CreateBookInput{
			Title:             "x",
			Price:             1,
			PublicationStatus: model.StatusUnpublished,
			AuthorIDs:         ids,
		})
		assert.ErrorIs(t, err, model.ErrBookNotFound)
	})
}

func TestGetBooksByAuthor(t *testing.T) {
	authorID := uuid.New()

	t.Run("existing author with no books returns an empty list", func(t *testing.T) {
		authors := &fakeAuthorRepo{
			existsFn: func(id uuid.UUID) (bool, error) { return true, nil },
		}
		assoc := &fakeAssocRepo{
			booksOfFn: func(uuid.UUID) ([]model.Book, error) { return []model.Book{}, nil },
		}
		svc := NewBookService(nil, &fakeTxManager{}, authors, &fakeBookRepo{}, assoc)

		books, err := svc.GetBooksByAuthor(context.Background(), authorID)
		require.NoError(t, err)
		assert.Empty(t, books)
		assert.Equal(t, 1, authors.existsCalls)
	})

	t.Run("unknown author is not found", func(t *testing.T) {
		authors := &fakeAuthorRepo{
			existsFn: func(id uuid.UUID) (bool, error) { return false, nil },
		}
		assoc := &fakeAssocRepo{
			booksOfFn: func(uuid.UUID) ([]model.Book, error) { return []model.Book{}, nil },
		}
		svc := NewBookService(nil, &fakeTxManager{}, authors, &fakeBookRepo{}, assoc)

		_, err := svc.GetBooksByAuthor(context.Background(), authorID)
		assert.ErrorIs(t, err, authorModel.ErrAuthorNotFound)
	})

	t.Run("non-empty result skips the existence check", func(t *testing.T) {
		bookID := uuid.New()
		authors := &fakeAuthorRepo{
			existsFn: func(id uuid.UUID) (bool, error) {
				t.Fatal("existence check is redundant when books exist")
				return false, nil
			},
		}
		assoc := &fakeAssocRepo{
			booksOfFn: func(uuid.UUID) ([]model.Book, error) {
				return []model.Book{{ID: bookID, Title: "Kokoro", AuthorIDs: []uuid.UUID{authorID}}}, nil
			},
			authorsOfManyFn: func(bookIDs []uuid.UUID) (map[uuid.UUID][]authorModel.Author, error) {
				assert.Equal(t, []uuid.UUID{bookID}, bookIDs)
				return map[uuid.UUID][]authorModel.Author{bookID: authorsFor([]uuid.UUID{authorID})}, nil
			},
		}
		svc := NewBookService(nil, &fakeTxManager{}, authors, &fakeBookRepo{}, assoc)

		books, err := svc.GetBooksByAuthor(context.Background(), authorID)
		require.NoError(t, err)
		require.Len(t, books, 1)
		assert.Len(t, books[0].Authors, 1)
		assert.Zero(t, authors.existsCalls)
	})
}

func TestBookServiceSearch(t *testing.T) {
	t.Run("rejects bad pagination", func(t *testing.T) {
		svc := NewBookService(nil, &fakeTxManager{}, &fakeAuthorRepo{}, &fakeBookRepo{}, &fakeAssocRepo{})

		_, _, err := svc.Search(context.Background(), model.SearchFilter{Page: 0, PageSize: 0})
		assert.ErrorIs(t, err, model.ErrInvalidPagination)

		_, _, err = svc.Search(context.Background(), model.SearchFilter{Page: -1, PageSize: 5})
		assert.ErrorIs(t, err, model.ErrInvalidPagination)
	})

	t.Run("hydrates the page with one batched lookup", func(t *testing.T) {
		id1, id2 := uuid.New(), uuid.New()
		batchCalls := 0

		books := &fakeBookRepo{
			searchFn: func(filter model.SearchFilter) ([]model.Book, int64, error) {
				return []model.Book{{ID: id1}, {ID: id2}}, 7, nil
			},
		}
		assoc := &fakeAssocRepo{
			authorsOfManyFn: func(bookIDs []uuid.UUID) (map[uuid.UUID][]authorModel.Author, error) {
				batchCalls++
				return map[uuid.UUID][]authorModel.Author{
					id1: authorsFor([]uuid.UUID{uuid.New()}),
					id2: {},
				}, nil
			},
		}
		svc := NewBookService(nil, &fakeTxManager{}, &fakeAuthorRepo{}, books, assoc)

		items, total, err := svc.Search(context.Background(), model.SearchFilter{Page: 0, PageSize: 2})
		require.NoError(t, err)

		assert.Equal(t, int64(7), total)
		require.Len(t, items, 2)
		assert.Len(t, items[0].Authors, 1)
		assert.Empty(t, items[1].Authors)
		assert.Equal(t, 1, batchCalls, "hydration must be a single batch, not per row")
	})
}
