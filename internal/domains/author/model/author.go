package model

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const MaxNameLength = 200

// Author is the domain entity. The id is a UUIDv7, assigned once at creation
// and never changed afterwards. CreatedAt/UpdatedAt are owned by the storage
// layer and are zero until the entity has been persisted.
type Author struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	DateOfBirth time.Time `json:"date_of_birth"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewAuthor validates the input and returns a new author with a freshly
// generated time-ordered id. The caller supplies "now" so the date-of-birth
// check stays deterministic under test.
func NewAuthor(name string, dateOfBirth time.Time, now time.Time) (*Author, error) {
	if err := validateAuthor(name, dateOfBirth, now); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	return &Author{
		ID:          id,
		Name:        name,
		DateOfBirth: dateOfBirth,
	}, nil
}

// Update returns a copy with the mutable fields replaced. The id and
// timestamps are carried over untouched.
func (a Author) Update(name string, dateOfBirth time.Time, now time.Time) (Author, error) {
	if err := validateAuthor(name, dateOfBirth, now); err != nil {
		return Author{}, err
	}

	a.Name = name
	a.DateOfBirth = dateOfBirth
	return a, nil
}

func validateAuthor(name string, dateOfBirth, now time.Time) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameBlank
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return ErrNameTooLong
	}
	// Day granularity: a date of birth equal to today is allowed.
	if truncateToDate(dateOfBirth).After(truncateToDate(now)) {
		return ErrDateOfBirthInFuture
	}
	return nil
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
