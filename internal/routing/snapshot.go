package routing

import "sync"

// Snapshot holds the process-wide routing table and supports atomic
// replacement on configuration reload. Readers take the current table by
// reference and keep using it for the duration of one request, so a
// concurrent swap never exposes a partially built table.
type Snapshot struct {
	mu    sync.RWMutex
	table *Table
}

// NewSnapshot creates a snapshot holding the given table.
func NewSnapshot(table *Table) *Snapshot {
	if table == nil {
		panic("routing table is required")
	}
	return &Snapshot{table: table}
}

// Load returns the current table.
func (s *Snapshot) Load() *Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table
}

// Store replaces the current table. Nil tables are rejected so a failed
// reload can never blank out routing.
func (s *Snapshot) Store(table *Table) {
	if table == nil {
		return
	}
	s.mu.Lock()
	s.table = table
	s.mu.Unlock()
}
