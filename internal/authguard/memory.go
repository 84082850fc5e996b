package authguard

import (
	"strings"
	"sync"
)

// PathMemory holds the last authorized path visited in a session, used to
// send a denied user back to where they were instead of the bare role home.
// It is session-scoped and in-memory only: a portal restart forgets it, the
// same way a closed browser forgets sessionStorage.
type PathMemory struct {
	mu   sync.Mutex
	path string
}

func NewPathMemory() *PathMemory {
	return &PathMemory{}
}

// Record stores path, overwriting any earlier value. Paths outside the
// application's route prefix are ignored so the memory can never hold a
// third-party URL.
func (m *PathMemory) Record(path string) {
	if !strings.HasPrefix(path, RoutePrefix) {
		return
	}
	m.mu.Lock()
	m.path = path
	m.mu.Unlock()
}

// Consume returns the stored path and clears it. Read-once semantics keep a
// remembered path from feeding two consecutive redirects and looping.
func (m *PathMemory) Consume() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path := m.path
	m.path = ""
	return path, path != ""
}
