package cache

import (
	"testing"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPut(t *testing.T) {
	mock := clock.NewMock()
	c := New(mock, 10*time.Minute)

	_, ok := c.Get("teams")
	require.False(t, ok)

	c.Put("teams", []string{"a", "b"})
	v, ok := c.Get("teams")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, v)
}

func TestExpiry(t *testing.T) {
	mock := clock.NewMock()
	c := New(mock, 10*time.Minute)

	c.Put("draft_state", "v1")

	mock.Add(9 * time.Minute)
	_, ok := c.Get("draft_state")
	assert.True(t, ok, "entry should survive inside the TTL")

	mock.Add(2 * time.Minute)
	_, ok = c.Get("draft_state")
	assert.False(t, ok, "entry should expire after the TTL")
}

func TestPutTTL(t *testing.T) {
	mock := clock.NewMock()
	c := New(mock, 10*time.Minute)

	c.PutTTL("player_abc", "detail", time.Hour)

	mock.Add(30 * time.Minute)
	_, ok := c.Get("player_abc")
	assert.True(t, ok)

	mock.Add(31 * time.Minute)
	_, ok = c.Get("player_abc")
	assert.False(t, ok)
}

func TestDelete(t *testing.T) {
	mock := clock.NewMock()
	c := New(mock, 10*time.Minute)

	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3)

	c.Delete("a", "b", "missing")

	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestClear(t *testing.T) {
	mock := clock.NewMock()
	c := New(mock, 10*time.Minute)

	c.Put("a", 1)
	c.Clear()

	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestPutRefreshesExpiry(t *testing.T) {
	mock := clock.NewMock()
	c := New(mock, 10*time.Minute)

	c.Put("teams", "v1")
	mock.Add(9 * time.Minute)
	c.Put("teams", "v2")
	mock.Add(9 * time.Minute)

	v, ok := c.Get("teams")
	require.True(t, ok)
	assert.Equal(t, "v2", v)
}
