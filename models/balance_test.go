package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLockOrderAscending(t *testing.T) {
	assert.Equal(t, []int64{2, 5, 9}, lockOrder([]int64{9, 2, 5}))
}

func TestLockOrderDedupes(t *testing.T) {
	assert.Equal(t, []int64{1, 3}, lockOrder([]int64{3, 1, 3, 1, 1}))
}

func TestLockOrderEmpty(t *testing.T) {
	assert.Empty(t, lockOrder(nil))
}
