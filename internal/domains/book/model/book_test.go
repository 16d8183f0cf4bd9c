package model

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func someAuthorIDs(t *testing.T, n int) []uuid.UUID {
	t.Helper()
	ids := make([]uuid.UUID, n)
	for i := range ids {
		id, err := uuid.NewV7()
		require.NoError(t, err)
		ids[i] = id
	}
	return ids
}

func TestNewBook(t *testing.T) {
	authorIDs := someAuthorIDs(t, 2)

	t.Run("valid input", func(t *testing.T) {
		b, err := NewBook("Kokoro", 500, StatusUnpublished, authorIDs)
		require.NoError(t, err)

		assert.Equal(t, "Kokoro", b.Title)
		assert.Equal(t, int64(500), b.Price)
		assert.Equal(t, StatusUnpublished, b.PublicationStatus)
		assert.Len(t, b.AuthorIDs, 2)
	})

	t.Run("price zero is allowed", func(t *testing.T) {
		_, err := NewBook("free", 0, StatusUnpublished, authorIDs)
		assert.NoError(t, err)
	})

	t.Run("negative price", func(t *testing.T) {
		_, err := NewBook("x", -1, StatusUnpublished, authorIDs)
		assert.ErrorIs(t, err, ErrPriceNegative)
	})

	t.Run("blank title", func(t *testing.T) {
		_, err := NewBook("  ", 100, StatusUnpublished, authorIDs)
		assert.ErrorIs(t, err, ErrTitleBlank)
	})

	t.Run("title length boundary", func(t *testing.T) {
		_, err := NewBook(strings.Repeat("t", MaxTitleLength), 100, StatusUnpublished, authorIDs)
		assert.NoError(t, err)

		_, err = NewBook(strings.Repeat("t", MaxTitleLength+1), 100, StatusUnpublished, authorIDs)
		assert.ErrorIs(t, err, ErrTitleTooLong)
	})

	t.Run("empty author set", func(t *testing.T) {
		_, err := NewBook("x", 100, StatusUnpublished, nil)
		assert.ErrorIs(t, err, ErrNoAuthors)
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := NewBook("x", 100, PublicationStatus("archived"), authorIDs)
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("author ids are deduplicated and sorted", func(t *testing.T) {
		ids := someAuthorIDs(t, 3)
		shuffled := []uuid.UUID{ids[2], ids[0], ids[2], ids[1], ids[0]}

		b, err := NewBook("x", 100, StatusUnpublished, shuffled)
		require.NoError(t, err)

		require.Len(t, b.AuthorIDs, 3)
		for i := 1; i < len(b.AuthorIDs); i++ {
			assert.Negative(t, bytes.Compare(b.AuthorIDs[i-1][:], b.AuthorIDs[i][:]))
		}
	})
}

func TestBookUpdate(t *testing.T) {
	authorIDs := someAuthorIDs(t, 1)

	t.Run("unpublished to published", func(t *testing.T) {
		b, err := NewBook("Kokoro", 500, StatusUnpublished, authorIDs)
		require.NoError(t, err)

		updated, err := b.Update("Kokoro", 500, StatusPublished, authorIDs)
		require.NoError(t, err)

		assert.Equal(t, b.ID, updated.ID)
		assert.Equal(t, StatusPublished, updated.PublicationStatus)
	})

	t.Run("published stays published", func(t *testing.T) {
		b, err := NewBook("Kokoro", 500, StatusPublished, authorIDs)
		require.NoError(t, err)

		_, err = b.Update("Kokoro II", 600, StatusPublished, authorIDs)
		assert.NoError(t, err)
	})

	t.Run("published cannot revert", func(t *testing.T) {
		b, err := NewBook("Kokoro", 500, StatusPublished, authorIDs)
		require.NoError(t, err)

		_, err = b.Update("Kokoro", 500, StatusUnpublished, authorIDs)
		assert.ErrorIs(t, err, ErrStatusTransition)
	})

	t.Run("validation still applies", func(t *testing.T) {
		b, err := NewBook("Kokoro", 500, StatusUnpublished, authorIDs)
		require.NoError(t, err)

		_, err = b.Update("", 500, StatusUnpublished, authorIDs)
		assert.ErrorIs(t, err, ErrTitleBlank)

		_, err = b.Update("ok", -5, StatusUnpublished, authorIDs)
		assert.ErrorIs(t, err, ErrPriceNegative)

		_, err = b.Update("ok", 500, StatusUnpublished, nil)
		assert.ErrorIs(t, err, ErrNoAuthors)
	})
}
