package model

import "strings"

// PublicationStatus is a two-state machine. Published is terminal: once a
// book is published it can never go back to unpublished.
type PublicationStatus string

const (
	StatusUnpublished PublicationStatus = "unpublished"
	StatusPublished   PublicationStatus = "published"
)

// ParsePublicationStatus accepts the wire value case-insensitively.
func ParsePublicationStatus(s string) (PublicationStatus, error) {
	switch PublicationStatus(strings.ToLower(s)) {
	case StatusUnpublished:
		return StatusUnpublished, nil
	case StatusPublished:
		return StatusPublished, nil
	default:
		return "", ErrInvalidStatus
	}
}

func (s PublicationStatus) Valid() bool {
	return s == StatusUnpublished || s == StatusPublished
}

// CanTransitionTo is the transition table: everything is allowed except
// published -> unpublished. Same-state updates are no-ops and permitted.
func (s PublicationStatus) CanTransitionTo(next PublicationStatus) bool {
	return s == StatusUnpublished || next == StatusPublished
}
