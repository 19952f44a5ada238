package works

import "sync"

// lockTable hands out one mutex per work id so that every load-modify-save
// sequence on the same record is serialized while different works proceed in
// parallel. Entries are never removed; the table is bounded by the number of
// works ever touched, which is small.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the mutex for key and returns it so callers can
// `defer lt.lock(id).Unlock()`.
func (lt *lockTable) lock(key string) *sync.Mutex {
	lt.mu.Lock()
	m, ok := lt.locks[key]
	if !ok {
		m = &sync.Mutex{}
		lt.locks[key] = m
	}
	lt.mu.Unlock()

	m.Lock()
	return m
}
