package model

import "errors"

var (
	// Validation errors
	ErrTitleBlank        = errors.New("book title must not be blank")
	ErrTitleTooLong      = errors.New("book title exceeds maximum length")
	ErrPriceNegative     = errors.New("price must be zero or positive")
	ErrNoAuthors         = errors.New("book requires at least one author")
	ErrInvalidStatus     = errors.New("unknown publication status")
	ErrInvalidPagination = errors.New("page must be >= 0 and page size must be >= 1")

	// Business rule errors
	ErrBookNotFound = errors.New("book not found")

	// ErrAuthorsMissing is the referential failure: one or more of the
	// referenced author ids do not exist. Raised inside the write transaction
	// after locking, before any persistence.
	ErrAuthorsMissing = errors.New("one or more referenced authors do not exist")

	// ErrStatusTransition marks an illegal publication status transition.
	ErrStatusTransition = errors.New("publication status cannot be reverted once published")
)

func IsValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrTitleBlank),
		errors.Is(err, ErrTitleTooLong),
		errors.Is(err, ErrPriceNegative),
		errors.Is(err, ErrNoAuthors),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInvalidPagination):
		return true
	}
	return false
}

// ToHTTPStatus converts a service error to an HTTP status code.
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrBookNotFound):
		return 404
	case errors.Is(err, ErrStatusTransition):
		return 409
	case errors.Is(err, ErrAuthorsMissing):
		return 400
	case IsValidationError(err):
		return 400
	default:
		return 500
	}
}

// ToErrorCode converts a service error to an API error code.
func ToErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrBookNotFound):
		return "BOOK_NOT_FOUND"
	case errors.Is(err, ErrStatusTransition):
		return "INVALID_STATUS_TRANSITION"
	case errors.Is(err, ErrAuthorsMissing):
		return "AUTHORS_NOT_FOUND"
	case IsValidationError(err):
		return "VALIDATION_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}
