package services

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"workd/internal/structures"
)

func limiterConfig() *structures.Config {
	return &structures.Config{
		RateLimit: structures.RateLimitConfig{
			ViewCooldown:     60 * time.Second,
			DownloadCooldown: 300 * time.Second,
			LikeCooldown:     time.Hour,
		},
	}
}

func TestRateLimiter_FirstActionAllowed(t *testing.T) {
	rl := NewRateLimiter(limiterConfig())
	assert.True(t, rl.Allow("fp", ActionView, "demo", time.Now()))
}

func TestRateLimiter_RepeatWithinCooldownDenied(t *testing.T) {
	rl := NewRateLimiter(limiterConfig())
	now := time.Now()

	assert.True(t, rl.Allow("fp", ActionView, "demo", now))
	assert.False(t, rl.Allow("fp", ActionView, "demo", now.Add(time.Second)))
	assert.False(t, rl.Allow("fp", ActionView, "demo", now.Add(59*time.Second)))
}

func TestRateLimiter_RepeatAfterCooldownAllowed(t *testing.T) {
	rl := NewRateLimiter(limiterConfig())
	now := time.Now()

	assert.True(t, rl.Allow("fp", ActionView, "demo", now))
	assert.True(t, rl.Allow("fp", ActionView, "demo", now.Add(60*time.Second)))
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter(limiterConfig())
	now := time.Now()

	assert.True(t, rl.Allow("fp", ActionView, "demo", now))
	assert.True(t, rl.Allow("fp", ActionView, "other", now))
	assert.True(t, rl.Allow("fp", ActionLike, "demo", now))
	assert.True(t, rl.Allow("fp2", ActionView, "demo", now))
}

func TestRateLimiter_PerActionCooldowns(t *testing.T) {
	rl := NewRateLimiter(limiterConfig())
	now := time.Now()

	assert.True(t, rl.Allow("fp", ActionDownload, "demo", now))
	assert.False(t, rl.Allow("fp", ActionDownload, "demo", now.Add(299*time.Second)))
	assert.True(t, rl.Allow("fp", ActionDownload, "demo", now.Add(300*time.Second)))

	assert.True(t, rl.Allow("fp", ActionLike, "demo", now))
	assert.False(t, rl.Allow("fp", ActionLike, "demo", now.Add(59*time.Minute)))
}

func TestRateLimiter_UnknownActionAlwaysAllowed(t *testing.T) {
	rl := NewRateLimiter(limiterConfig())
	now := time.Now()

	assert.True(t, rl.Allow("fp", "share", "demo", now))
	assert.True(t, rl.Allow("fp", "share", "demo", now))
}

func TestRateLimiter_ConcurrentSingleWinner(t *testing.T) {
	rl := NewRateLimiter(limiterConfig())
	now := time.Now()

	const workers = 64
	var wg sync.WaitGroup
	allowed := make(chan bool, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed <- rl.Allow("fp", ActionLike, "demo", now)
		}()
	}
	wg.Wait()
	close(allowed)

	wins := 0
	for ok := range allowed {
		if ok {
			wins++
		}
	}
	assert.Equal(t, 1, wins)
}

func TestRateLimiter_SweepRemovesStaleEntries(t *testing.T) {
	rl := NewRateLimiter(limiterConfig())
	now := time.Now()

	for i := 0; i < 10; i++ {
		rl.Allow("fp", ActionView, fmt.Sprintf("work%d", i), now)
	}
	rl.Allow("fp", ActionView, "fresh", now.Add(30*time.Minute))
	assert.Equal(t, 11, rl.Size())

	// One hour is the largest cooldown; everything stamped at now is dead.
	removed := rl.Sweep(now.Add(time.Hour))
	assert.Equal(t, 10, removed)
	assert.Equal(t, 1, rl.Size())
}

func TestRateLimiter_SweepKeepsDenyingEntries(t *testing.T) {
	rl := NewRateLimiter(limiterConfig())
	now := time.Now()

	rl.Allow("fp", ActionLike, "demo", now)
	rl.Sweep(now.Add(30 * time.Minute))

	assert.False(t, rl.Allow("fp", ActionLike, "demo", now.Add(31*time.Minute)))
}
