package testutil

import (
	"sync"
	"time"

	"workd/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Entries returns a copy of the recorded log entries.
func (m *MockLogger) Entries() []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]LogEntry(nil), m.Logs...)
}

// MockCache implements providers.CacheProviderInterface with a plain map.
type MockCache struct {
	mu     sync.Mutex
	data   map[string][]byte
	Purged int
}

func NewMockCache() *MockCache {
	return &MockCache{data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

func (m *MockCache) Purge() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string][]byte)
	m.Purged++
}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu         sync.Mutex
	Requests   int
	CacheHits  int
	CacheMiss  int
	Actions    map[string]int // "action/outcome" -> count
	WorksTotal int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{Actions: make(map[string]int)}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMiss++
}
func (m *MockMetrics) IncActionsTotal(action, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Actions[action+"/"+outcome]++
}
func (m *MockMetrics) ObserveStoreDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) SetWorksTotal(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WorksTotal = count
}

func (m *MockMetrics) ActionCount(action, outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Actions[action+"/"+outcome]
}

// MockLimiter implements services.RateLimiterInterface with a fixed verdict.
type MockLimiter struct {
	mu      sync.Mutex
	Verdict bool
	Calls   []string // "fp|action|work"
}

func (m *MockLimiter) Allow(fingerprint, action, workID string, _ time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, fingerprint+"|"+action+"|"+workID)
	return m.Verdict
}

func (m *MockLimiter) Sweep(_ time.Time) int { return 0 }

func (m *MockLimiter) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
