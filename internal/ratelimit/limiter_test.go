package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowRespectsBurst(t *testing.T) {
	limiter := NewWithBurst("test", 1, 2)

	assert.True(t, limiter.Allow())
	assert.True(t, limiter.Allow())
	assert.False(t, limiter.Allow(), "third immediate request should exceed burst")
}

func TestWaitHonorsContextCancellation(t *testing.T) {
	limiter := NewPerMinute("test", 1)
	require.True(t, limiter.Allow(), "first request should pass")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := limiter.Wait(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit wait for test")
}

func TestName(t *testing.T) {
	assert.Equal(t, "audnex", New("audnex", 5).Name())
}
