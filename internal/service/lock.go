package service

import "sync"

// siteLocks serializes read-modify-write cycles per site within a process.
// Writers in other processes are caught by the repository's version check.
type siteLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newSiteLocks() *siteLocks {
	return &siteLocks{locks: make(map[string]*sync.Mutex)}
}

func (m *siteLocks) Lock(siteID string) {
	m.get(siteID).Lock()
}

func (m *siteLocks) Unlock(siteID string) {
	m.get(siteID).Unlock()
}

func (m *siteLocks) get(siteID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	if mu, ok := m.locks[siteID]; ok {
		return mu
	}
	mu := &sync.Mutex{}
	m.locks[siteID] = mu
	return mu
}
