package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucketExhaustion(t *testing.T) {
	bucket := NewTokenBucket(3, 1, time.Minute)

	for i := 0; i < 3; i++ {
		allowed, _ := bucket.Allow()
		assert.True(t, allowed)
	}

	allowed, retryAfter := bucket.Allow()
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, time.Duration(0))
}

func TestRateLimiterIsolatesUsersAndActions(t *testing.T) {
	limiter := NewRateLimiter()

	for i := 0; i < 10; i++ {
		allowed, _ := limiter.Allow("alice", "send_message")
		assert.True(t, allowed)
	}

	allowed, _ := limiter.Allow("alice", "send_message")
	assert.False(t, allowed)

	// A different user keeps a full bucket.
	allowed, _ = limiter.Allow("bob", "send_message")
	assert.True(t, allowed)

	// So does the same user on a different action.
	allowed, _ = limiter.Allow("alice", "other")
	assert.True(t, allowed)
}
