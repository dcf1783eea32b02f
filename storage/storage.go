// Package storage abstracts the persistent key-value engine the ledger
// writes to. Records live at pre-derived addresses and carry a fixed byte
// budget allocated at creation time; an engine transaction commits all of
// its writes together or none of them.
package storage

import "errors"

var (
	// ErrExists is returned by CreateIfAbsent when the address is already
	// allocated.
	ErrExists = errors.New("storage: record already exists at address")

	// ErrAbsent is returned by Read and Update when no record has been
	// created at the address.
	ErrAbsent = errors.New("storage: no record at address")

	// ErrSpaceExceeded is returned when record data does not fit the space
	// allocated for its address.
	ErrSpaceExceeded = errors.New("storage: record data exceeds allocated space")
)

// Tx is the set of operations available inside a single transaction.
type Tx interface {
	// CreateIfAbsent allocates a record of the given space at addr and
	// writes data into it. At most one creation ever succeeds per address.
	CreateIfAbsent(addr string, space int, data []byte) error

	// Read returns the current record data at addr.
	Read(addr string) ([]byte, error)

	// Update replaces the record at addr with the mutator's result. The
	// result must fit the space allocated at creation time.
	Update(addr string, mutate func(data []byte) ([]byte, error)) error
}

// Engine is a transactional record store. Update runs fn in a read-write
// transaction: if fn returns an error nothing fn did becomes visible. View
// runs fn read-only; writes inside a View transaction are not supported.
type Engine interface {
	Update(fn func(tx Tx) error) error
	View(fn func(tx Tx) error) error
}
