package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_SortsByCreation(t *testing.T) {
	prev := New()
	for i := 0; i < 100; i++ {
		next := New()
		assert.Len(t, next, 26)
		assert.Less(t, prev, next)
		prev = next
	}
}

func TestNewSeed(t *testing.T) {
	seen := make(map[uint64]bool)
	for i := 0; i < 50; i++ {
		s := NewSeed()
		assert.NotZero(t, s)
		assert.LessOrEqual(t, s, uint64(MaxSeed))
		seen[s] = true
	}
	assert.Greater(t, len(seen), 45)
}
