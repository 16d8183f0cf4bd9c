package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/google/uuid"

	authorModel "book-catalog/internal/domains/author/model"
)

// BookRequest is the payload for both create and update.
type BookRequest struct {
	Title             string   `json:"title"`
	Price             *int64   `json:"price"`
	PublicationStatus string   `json:"publication_status"`
	AuthorIDs         []string `json:"author_ids"`
}

// Validate checks the request shape before it reaches the service.
func (r BookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.RuneLength(1, MaxTitleLength)),
		validation.Field(&r.Price, validation.NotNil, validation.Min(int64(0))),
		validation.Field(&r.PublicationStatus, validation.Required, validation.In(
			string(StatusUnpublished),
			string(StatusPublished),
		)),
		validation.Field(&r.AuthorIDs, validation.Required, validation.Each(is.UUID)),
	)
}

// ParsedAuthorIDs converts the author id strings to UUIDs.
func (r BookRequest) ParsedAuthorIDs() ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(r.AuthorIDs))
	for _, s := range r.AuthorIDs {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// SearchFilter carries the optional book search conditions. Nil means the
// condition is not applied.
type SearchFilter struct {
	Title             *string
	AuthorName        *string
	PriceFrom         *int64
	PriceTo           *int64
	PublicationStatus *PublicationStatus
	Page              int
	PageSize          int
}

// BookWithAuthors is a book hydrated with its full author rows.
type BookWithAuthors struct {
	Book    Book
	Authors []authorModel.Author
}

type BookResponse struct {
	ID                uuid.UUID                     `json:"id"`
	Title             string                        `json:"title"`
	Price             int64                         `json:"price"`
	PublicationStatus PublicationStatus             `json:"publication_status"`
	Authors           []*authorModel.AuthorResponse `json:"authors"`
	CreatedAt         time.Time                     `json:"created_at"`
	UpdatedAt         time.Time                     `json:"updated_at"`
}

func (bw *BookWithAuthors) ToResponse() *BookResponse {
	authors := make([]*authorModel.AuthorResponse, 0, len(bw.Authors))
	for i := range bw.Authors {
		authors = append(authors, bw.Authors[i].ToResponse())
	}
	return &BookResponse{
		ID:                bw.Book.ID,
		Title:             bw.Book.Title,
		Price:             bw.Book.Price,
		PublicationStatus: bw.Book.PublicationStatus,
		Authors:           authors,
		CreatedAt:         bw.Book.CreatedAt,
		UpdatedAt:         bw.Book.UpdatedAt,
	}
}
