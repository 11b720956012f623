package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrLoadCachesValue(t *testing.T) {
	c := New[string, int](10, time.Minute)
	calls := 0
	load := func() (int, error) {
		calls++
		return 42, nil
	}

	v, err := c.GetOrLoad("answer", load)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	v, err = c.GetOrLoad("answer", load)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, calls)
}

func TestGetOrLoadDoesNotCacheErrors(t *testing.T) {
	c := New[string, int](10, time.Minute)
	boom := errors.New("boom")

	_, err := c.GetOrLoad("k", func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())

	v, err := c.GetOrLoad("k", func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestInvalidateForcesReload(t *testing.T) {
	c := New[string, string](10, time.Minute)
	_, _ = c.GetOrLoad("user", func() (string, error) { return "old", nil })

	c.Invalidate("user")
	_, ok := c.Get("user")
	assert.False(t, ok)

	v, err := c.GetOrLoad("user", func() (string, error) { return "new", nil })
	require.NoError(t, err)
	assert.Equal(t, "new", v)
}

func TestEntriesExpire(t *testing.T) {
	c := New[string, int](10, 20*time.Millisecond)
	_, _ = c.GetOrLoad("k", func() (int, error) { return 1, nil })

	assert.Eventually(t, func() bool {
		_, ok := c.Get("k")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestPurge(t *testing.T) {
	c := New[int, int](10, time.Minute)
	for i := 0; i < 3; i++ {
		_, _ = c.GetOrLoad(i, func() (int, error) { return i, nil })
	}
	assert.Equal(t, 3, c.Len())

	c.Purge()
	assert.Equal(t, 0, c.Len())
}
