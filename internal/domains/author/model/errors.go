package model

import "errors"

var (
	// Validation errors
	ErrNameBlank           = errors.New("author name must not be blank")
	ErrNameTooLong         = errors.New("author name exceeds maximum length")
	ErrDateOfBirthInFuture = errors.New("date of birth must not be in the future")
	ErrInvalidPagination   = errors.New("page must be >= 0 and page size must be >= 1")

	// Business rule errors
	ErrAuthorNotFound = errors.New("author not found")
)

// IsValidationError reports whether err is a domain validation failure, as
// opposed to not-found or an infrastructure error.
func IsValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrNameBlank),
		errors.Is(err, ErrNameTooLong),
		errors.Is(err, ErrDateOfBirthInFuture),
		errors.Is(err, ErrInvalidPagination):
		return true
	}
	return false
}

// ToHTTPStatus converts a service error to an HTTP status code.
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrAuthorNotFound):
		return 404
	case IsValidationError(err):
		return 400
	default:
		return 500
	}
}

// ToErrorCode converts a service error to an API error code.
func ToErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrAuthorNotFound):
		return "AUTHOR_NOT_FOUND"
	case IsValidationError(err):
		return "VALIDATION_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}
