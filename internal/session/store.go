package session

import (
	"sync"

	"github.com/clouddrop/clouddrop/internal/model"
)

// A Store holds the tab-scoped session record: a single entry whose
// lifetime is the owning process. There is a single writer by construction,
// the manager that owns the store.
type Store interface {
	// Put replaces the stored session.
	Put(s *model.Session)
	// Get returns the stored session or nil.
	Get() *model.Session
	// Clear removes the stored session.
	Clear()
}

// NewTabStore returns a memory-backed Store. Its content does not survive
// the process, which is the expected tab lifetime.
func NewTabStore() Store {
	return &tabStore{}
}

type tabStore struct {
	mu      sync.Mutex
	session *model.Session
}

func (t *tabStore) Put(s *model.Session) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.session = s
}

func (t *tabStore) Get() *model.Session {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.session
}

func (t *tabStore) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.session = nil
}
