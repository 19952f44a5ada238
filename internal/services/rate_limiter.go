package services

import (
	"sync"
	"time"

	"workd/internal/structures"
)

// Countable action kinds.
const (
	ActionView     = "view"
	ActionDownload = "download"
	ActionLike     = "like"
)

type RateLimiterInterface interface {
	Allow(fingerprint, action, workID string, now time.Time) bool
	Sweep(now time.Time) int
	Size() int
}

// RateLimiter gates repeat actions per (fingerprint, action, work) key within
// an action-specific cooldown window. The whole table sits behind one mutex;
// check and commit happen in the same critical section, so two simultaneous
// requests from the same fingerprint can never both pass inside a window.
type RateLimiter struct {
	mu          sync.Mutex
	last        map[string]time.Time
	cooldowns   map[string]time.Duration
	maxCooldown time.Duration
}

func NewRateLimiter(conf *structures.Config) RateLimiterInterface {
	cooldowns := map[string]time.Duration{
		ActionView:     conf.RateLimit.ViewCooldown,
		ActionDownload: conf.RateLimit.DownloadCooldown,
		ActionLike:     conf.RateLimit.LikeCooldown,
	}
	var maxCooldown time.Duration
	for _, cd := range cooldowns {
		if cd > maxCooldown {
			maxCooldown = cd
		}
	}
	return &RateLimiter{
		last:        make(map[string]time.Time),
		cooldowns:   cooldowns,
		maxCooldown: maxCooldown,
	}
}

func actionKey(fingerprint, action, workID string) string {
	return fingerprint + "|" + action + "|" + workID
}

// Allow reports whether the action may be counted and, when it may, commits
// now as the key's new last-action time. A true result permanently consumes
// eligibility for the cooldown window, so callers must not probe
// speculatively. Unknown action kinds have a zero cooldown and are always
// allowed.
func (rl *RateLimiter) Allow(fingerprint, action, workID string, now time.Time) bool {
	cooldown := rl.cooldowns[action]

	rl.mu.Lock()
	defer rl.mu.Unlock()

	key := actionKey(fingerprint, action, workID)
	if last, ok := rl.last[key]; ok && now.Sub(last) < cooldown {
		return false
	}
	rl.last[key] = now
	return true
}

// Sweep drops entries idle for at least the largest cooldown window. Such
// entries can no longer deny anything, so removing them only bounds table
// growth. Returns the number of removed entries.
func (rl *RateLimiter) Sweep(now time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	for key, last := range rl.last {
		if now.Sub(last) >= rl.maxCooldown {
			delete(rl.last, key)
			removed++
		}
	}
	return removed
}

// Size returns the number of tracked keys.
func (rl *RateLimiter) Size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.last)
}
