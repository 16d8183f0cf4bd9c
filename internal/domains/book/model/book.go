package model

import (
	"bytes"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const MaxTitleLength = 400

// Book is the domain entity. AuthorIDs is always normalized: deduplicated and
// sorted ascending by byte order. Ascending id order is also the global lock
// acquisition order for author rows, so a normalized set can be handed to the
// repository as-is.
type Book struct {
	ID                uuid.UUID         `json:"id"`
	Title             string            `json:"title"`
	Price             int64             `json:"price"`
	PublicationStatus PublicationStatus `json:"publication_status"`
	AuthorIDs         []uuid.UUID       `json:"author_ids"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// NewBook validates the input and returns a new book with a time-ordered id.
func NewBook(title string, price int64, status PublicationStatus, authorIDs []uuid.UUID) (*Book, error) {
	ids := NormalizeIDs(authorIDs)
	if err := validateBook(title, price, status, ids); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	return &Book{
		ID:                id,
		Title:             title,
		Price:             price,
		PublicationStatus: status,
		AuthorIDs:         ids,
	}, nil
}

// Update returns a copy with the mutable fields replaced. The status
// transition is checked against the receiver, i.e. the currently persisted
// status, never the caller-supplied one.
func (b Book) Update(title string, price int64, status PublicationStatus, authorIDs []uuid.UUID) (Book, error) {
	if status.Valid() && !b.PublicationStatus.CanTransitionTo(status) {
		return Book{}, ErrStatusTransition
	}

	ids := NormalizeIDs(authorIDs)
	if err := validateBook(title, price, status, ids); err != nil {
		return Book{}, err
	}

	b.Title = title
	b.Price = price
	b.PublicationStatus = status
	b.AuthorIDs = ids
	return b, nil
}

func validateBook(title string, price int64, status PublicationStatus, authorIDs []uuid.UUID) error {
	if strings.TrimSpace(title) == "" {
		return ErrTitleBlank
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if price < 0 {
		return ErrPriceNegative
	}
	if !status.Valid() {
		return ErrInvalidStatus
	}
	if len(authorIDs) == 0 {
		return ErrNoAuthors
	}
	return nil
}

// NormalizeIDs deduplicates and sorts ids ascending by byte order.
func NormalizeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i][:], out[j][:]) < 0
	})
	return out
}
