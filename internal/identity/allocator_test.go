package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocator_StartsAtOne(t *testing.T) {
	a := NewAllocator()

	assert.Equal(t, 1, a.NextFamily())
	assert.Equal(t, 1, a.NextIndividual())
	assert.Equal(t, 2, a.NextIndividual())
	assert.Equal(t, 2, a.NextFamily())
	assert.Equal(t, 2, a.Families())
	assert.Equal(t, 2, a.Individuals())
}

func TestAllocator_NeverReuses(t *testing.T) {
	a := NewAllocator()
	seen := make(map[int]bool)

	for i := 0; i < 1000; i++ {
		id := a.NextIndividual()
		assert.False(t, seen[id], "id %d issued twice", id)
		seen[id] = true
	}
}

func TestAllocatorAt(t *testing.T) {
	a := NewAllocatorAt(10, 200)

	assert.Equal(t, 11, a.NextFamily())
	assert.Equal(t, 201, a.NextIndividual())
}

func TestAllocator_Reserve(t *testing.T) {
	a := NewAllocator()
	a.NextIndividual()

	offset := a.Reserve(5)

	assert.Equal(t, 1, offset)
	assert.Equal(t, 6, a.Individuals())
	assert.Equal(t, 7, a.NextIndividual(), "reserved block is not handed out again")
}
