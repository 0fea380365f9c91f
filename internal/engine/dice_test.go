package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequenceRoller(t *testing.T) {
	r := NewSequenceRoller(3, 99, -4)

	assert.Equal(t, 3, r.Roll(1, 6))
	assert.Equal(t, 6, r.Roll(1, 6), "values above max are clamped")
	assert.Equal(t, 1, r.Roll(1, 6), "values below min are clamped")
	assert.Equal(t, 2, r.Roll(2, 5), "drained queue returns min")
	assert.Equal(t, 4, r.Calls)

	r.Push(5)
	assert.Equal(t, 5, r.Roll(1, 10))
}

func TestSeededRollerReproducible(t *testing.T) {
	a := NewSeededRoller(42)
	b := NewSeededRoller(42)
	for i := 0; i < 100; i++ {
		va, vb := a.Roll(1, 100), b.Roll(1, 100)
		assert.Equal(t, va, vb)
		assert.GreaterOrEqual(t, va, 1)
		assert.LessOrEqual(t, va, 100)
	}
}

func TestCryptoRollerBounds(t *testing.T) {
	var r CryptoRoller
	for i := 0; i < 200; i++ {
		v := r.Roll(10, 20)
		if v < 10 || v > 20 {
			t.Fatalf("roll out of bounds: %d", v)
		}
	}
	assert.Equal(t, 7, r.Roll(7, 7))
}
