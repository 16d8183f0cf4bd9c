package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 3, TotalPages(5, 2))
	assert.Equal(t, 1, TotalPages(2, 2))
	assert.Equal(t, 1, TotalPages(1, 20))
	assert.Equal(t, 0, TotalPages(0, 2))
	assert.Equal(t, 0, TotalPages(10, 0), "page size below 1 must not divide")
}
