package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCountBudget(t *testing.T) {
	b := NewCountBudget(3)

	assert.True(t, b.Take())
	assert.True(t, b.Take())
	assert.True(t, b.Take())
	assert.False(t, b.Take())
	assert.False(t, b.Take())

	assert.Equal(t, 3, b.Used())
	assert.Equal(t, 0, b.Remaining())
}

func TestCountBudget_Remaining(t *testing.T) {
	b := NewCountBudget(5)
	b.Take()
	b.Take()
	assert.Equal(t, 3, b.Remaining())
}

func TestCountBudget_ZeroLimitIsUnbounded(t *testing.T) {
	b := NewCountBudget(0)
	for i := 0; i < 100; i++ {
		assert.True(t, b.Take())
	}
	assert.Equal(t, -1, b.Remaining())
}

func TestTimeBudget_ExpiresWithClock(t *testing.T) {
	b := NewTimeBudget(0, 20*time.Millisecond)

	assert.True(t, b.Take())
	assert.False(t, b.Expired())

	time.Sleep(30 * time.Millisecond)

	assert.True(t, b.Expired())
	assert.False(t, b.Take())
}

func TestTimeBudget_CountStillApplies(t *testing.T) {
	b := NewTimeBudget(2, time.Minute)

	assert.True(t, b.Take())
	assert.True(t, b.Take())
	assert.False(t, b.Take())
	assert.False(t, b.Expired())
}
