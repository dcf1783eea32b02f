package storage

import (
	"errors"
	"sync"
)

var errReadOnly = errors.New("storage: write inside read-only transaction")

type record struct {
	space int
	data  []byte
}

// MemoryEngine is an in-process Engine used by tests and by deployments
// that do not need the ledger to survive a restart.
type MemoryEngine struct {
	mu      sync.RWMutex
	records map[string]record
}

func NewMemory() *MemoryEngine {
	return &MemoryEngine{records: map[string]record{}}
}

func (m *MemoryEngine) Update(fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memoryTx{base: m.records, staged: map[string]record{}}
	if err := fn(tx); err != nil {
		return err
	}
	for addr, rec := range tx.staged {
		m.records[addr] = rec
	}
	return nil
}

func (m *MemoryEngine) View(fn func(tx Tx) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fn(&memoryTx{base: m.records, readOnly: true})
}

// memoryTx stages writes in its own map so an aborted transaction leaves
// the engine untouched.
type memoryTx struct {
	base     map[string]record
	staged   map[string]record
	readOnly bool
}

func (tx *memoryTx) lookup(addr string) (record, bool) {
	if !tx.readOnly {
		if rec, ok := tx.staged[addr]; ok {
			return rec, true
		}
	}
	rec, ok := tx.base[addr]
	return rec, ok
}

func (tx *memoryTx) CreateIfAbsent(addr string, space int, data []byte) error {
	if tx.readOnly {
		return errReadOnly
	}
	if _, ok := tx.lookup(addr); ok {
		return ErrExists
	}
	if len(data) > space {
		return ErrSpaceExceeded
	}
	tx.staged[addr] = record{space: space, data: cloneBytes(data)}
	return nil
}

func (tx *memoryTx) Read(addr string) ([]byte, error) {
	rec, ok := tx.lookup(addr)
	if !ok {
		return nil, ErrAbsent
	}
	return cloneBytes(rec.data), nil
}

func (tx *memoryTx) Update(addr string, mutate func(data []byte) ([]byte, error)) error {
	if tx.readOnly {
		return errReadOnly
	}
	rec, ok := tx.lookup(addr)
	if !ok {
		return ErrAbsent
	}
	next, err := mutate(cloneBytes(rec.data))
	if err != nil {
		return err
	}
	if len(next) > rec.space {
		return ErrSpaceExceeded
	}
	tx.staged[addr] = record{space: rec.space, data: cloneBytes(next)}
	return nil
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
