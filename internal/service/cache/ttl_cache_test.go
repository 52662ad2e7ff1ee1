package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func TestTTLCache_Expiry(t *testing.T) {
	ctx := context.Background()
	clk := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewTTLCache().WithClock(clk.now)

	require.NoError(t, c.SetBytes(ctx, "tickers:linear", []byte("a"), time.Minute))

	b, ok, err := c.GetBytes(ctx, "tickers:linear")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("a"), b)

	clk.advance(59 * time.Second)
	_, ok, _ = c.GetBytes(ctx, "tickers:linear")
	assert.True(t, ok)

	clk.advance(time.Second)
	_, ok, _ = c.GetBytes(ctx, "tickers:linear")
	assert.False(t, ok, "entry must be gone once the window has elapsed")
	assert.Equal(t, 0, c.Len())
}

func TestTTLCache_NoTTLAndDelete(t *testing.T) {
	ctx := context.Background()
	clk := &fakeClock{t: time.Unix(0, 0)}
	c := NewTTLCache().WithClock(clk.now)

	require.NoError(t, c.SetBytes(ctx, "k", []byte("v"), 0))
	clk.advance(24 * time.Hour)
	_, ok, _ := c.GetBytes(ctx, "k")
	assert.True(t, ok)

	require.NoError(t, c.Delete(ctx, "k"))
	_, ok, _ = c.GetBytes(ctx, "k")
	assert.False(t, ok)
}

func TestTTLCache_Miss(t *testing.T) {
	b, ok, err := NewTTLCache().GetBytes(context.Background(), "absent")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, b)
}
