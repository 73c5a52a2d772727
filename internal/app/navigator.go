package app

import "sync"

// Visit marks one navigation to a category screen.
type Visit struct {
	CategoryID string
	seq        uint64
}

// Navigator remembers which category a screen currently shows so that content
// loads finishing after the user moved on can be dropped.
type Navigator struct {
	mu      sync.Mutex
	current Visit
}

// Open records a navigation to categoryID and returns its visit.
func (n *Navigator) Open(categoryID string) Visit {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = Visit{CategoryID: categoryID, seq: n.current.seq + 1}
	return n.current
}

// Leave invalidates any in-flight visit.
func (n *Navigator) Leave() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = Visit{seq: n.current.seq + 1}
}

// IsCurrent reports whether v is still the screen being shown.
func (n *Navigator) IsCurrent(v Visit) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current == v
}
