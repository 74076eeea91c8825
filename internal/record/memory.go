package record

import (
	"log"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Change describes one field write on a Memory record.
type Change struct {
	RecordID string
	Field    string
	Value    Value
	Revision uint64
}

// Memory is an in-process Record. Every Update bumps a logical revision
// counter and is reported to OnUpdate, so the owning form can react to
// widget writes.
type Memory struct {
	id       string
	revision uint64
	mu       sync.RWMutex
	fields   map[string]Value

	OnUpdate func(Change)
}

var _ Record = (*Memory)(nil)

// NewMemory creates an empty record with a fresh ID.
func NewMemory() *Memory {
	return &Memory{
		id:     uuid.NewString(),
		fields: make(map[string]Value),
	}
}

// ID returns the record's unique ID.
func (m *Memory) ID() string {
	return m.id
}

// Revision returns the number of updates applied so far.
func (m *Memory) Revision() uint64 {
	return atomic.LoadUint64(&m.revision)
}

// Value returns the current value of field, or Absent.
func (m *Memory) Value(field string) Value {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fields[field]
}

// Set stores a value without notifying OnUpdate. Hosts use it to seed a
// record before a widget is bound to it.
func (m *Memory) Set(field string, v Value) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fields[field] = v
}

func (m *Memory) Update(field string, v Value) {
	m.mu.Lock()
	m.fields[field] = v
	rev := atomic.AddUint64(&m.revision, 1)
	m.mu.Unlock()

	log.Printf("[RECORD] %s.%s updated (rev %d, absent=%t)", m.id, field, rev, v.IsAbsent())
	if m.OnUpdate != nil {
		m.OnUpdate(Change{RecordID: m.id, Field: field, Value: v, Revision: rev})
	}
}
