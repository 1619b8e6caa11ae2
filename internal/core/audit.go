package core

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Operation is one entry in the audit trail: a single load-merge-store
// cycle against one workbook.
type Operation struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Path      string    `json:"path"`
	Updated   int       `json:"updated_rows"`
	Appended  int       `json:"added_rows"`
	TotalRows int       `json:"total_rows"`
	RequestID string    `json:"request_id,omitempty"`
	At        time.Time `json:"at"`
}

// AuditLog retains the most recent operations in memory. It is a bounded
// ring: once capacity is reached the oldest entry is dropped.
type AuditLog struct {
	mu      sync.Mutex
	cap     int
	entries []Operation
}

// NewAuditLog creates an audit log retaining up to capacity entries.
func NewAuditLog(capacity int) *AuditLog {
	if capacity <= 0 {
		capacity = 256
	}
	return &AuditLog{cap: capacity}
}

// Record assigns the operation an ID and timestamp and appends it.
// The assigned ID is returned so responses can reference the entry.
func (l *AuditLog) Record(op Operation) Operation {
	op.ID = uuid.New().String()
	op.At = time.Now().UTC()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, op)
	if len(l.entries) > l.cap {
		l.entries = l.entries[len(l.entries)-l.cap:]
	}
	return op
}

// Recent returns up to n operations, newest first.
func (l *AuditLog) Recent(n int) []Operation {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n <= 0 || n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]Operation, n)
	for i := 0; i < n; i++ {
		out[i] = l.entries[len(l.entries)-1-i]
	}
	return out
}
