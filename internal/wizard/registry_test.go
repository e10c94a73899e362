package wizard

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Add(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestRegistry_SlidingExpiry(t *testing.T) {
	clock := &fakeClock{now: testToday}
	r := NewRegistry(10*time.Minute, clock.Now)
	c := newFixture(0).c

	id := r.Put(c)
	require.NotEmpty(t, id)

	clock.Add(8 * time.Minute)
	got, err := r.Get(id)
	require.NoError(t, err)
	assert.Same(t, c, got)

	// the read above pushed expiry forward
	clock.Add(8 * time.Minute)
	_, err = r.Get(id)
	require.NoError(t, err)

	clock.Add(10 * time.Minute)
	_, err = r.Get(id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, c.Advance(), ErrClosed)
}

func TestRegistry_RemoveAndSweep(t *testing.T) {
	clock := &fakeClock{now: testToday}
	r := NewRegistry(time.Minute, clock.Now)

	a := newFixture(0).c
	idA := r.Put(a)
	idB := r.Put(newFixture(0).c)
	assert.Equal(t, 2, r.Len())

	assert.True(t, r.Remove(idA))
	assert.False(t, r.Remove(idA))
	assert.ErrorIs(t, a.Retreat(), ErrClosed)

	assert.Zero(t, r.Sweep())
	clock.Add(time.Minute)
	assert.Equal(t, 1, r.Sweep())
	assert.Zero(t, r.Len())

	_, err := r.Get(idB)
	assert.ErrorIs(t, err, ErrNotFound)
}
