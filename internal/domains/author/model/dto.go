package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/google/uuid"
)

// AuthorRequest is the payload for both create and update.
type AuthorRequest struct {
	Name        string `json:"name"`
	DateOfBirth string `json:"date_of_birth"` // YYYY-MM-DD
}

// Validate checks the request shape. Domain rules (future date of birth,
// rune-exact length) are re-checked by the entity constructor.
func (r AuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.RuneLength(1, MaxNameLength)),
		validation.Field(&r.DateOfBirth, validation.Required, validation.Date(time.DateOnly)),
	)
}

// ParsedDateOfBirth returns the date-of-birth field as a date.
func (r AuthorRequest) ParsedDateOfBirth() (time.Time, error) {
	return time.Parse(time.DateOnly, r.DateOfBirth)
}

// SearchFilter carries the optional author search conditions. Nil means the
// condition is not applied. PublicationStatus is matched against the joined
// books and is validated by the service before it reaches the repository.
type SearchFilter struct {
	Name              *string
	DateOfBirthFrom   *time.Time
	DateOfBirthTo     *time.Time
	BookTitle         *string
	PublicationStatus *string
	Page              int
	PageSize          int
}

type AuthorResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	DateOfBirth string    `json:"date_of_birth"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (a *Author) ToResponse() *AuthorResponse {
	return &AuthorResponse{
		ID:          a.ID,
		Name:        a.Name,
		DateOfBirth: a.DateOfBirth.Format(time.DateOnly),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
