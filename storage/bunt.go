package storage

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/buntdb"
)

// BuntEngine persists records in a buntdb file. buntdb transactions are
// serializable, which is what gives every ledger operation its
// all-or-nothing guarantee.
type BuntEngine struct {
	db *buntdb.DB
}

// NewBunt opens the database at path. Pass ":memory:" for a
// non-persistent store.
func NewBunt(path string) (*BuntEngine, error) {
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger store: %w", err)
	}
	return &BuntEngine{db: db}, nil
}

func (b *BuntEngine) Close() error {
	return b.db.Close()
}

func (b *BuntEngine) Update(fn func(tx Tx) error) error {
	return b.db.Update(func(btx *buntdb.Tx) error {
		return fn(&buntTx{tx: btx})
	})
}

func (b *BuntEngine) View(fn func(tx Tx) error) error {
	return b.db.View(func(btx *buntdb.Tx) error {
		return fn(&buntTx{tx: btx, readOnly: true})
	})
}

type buntTx struct {
	tx       *buntdb.Tx
	readOnly bool
}

// Values are stored as "<space>|<base64 data>" so the byte budget
// allocated at creation travels with the record.
func encodeValue(space int, data []byte) string {
	return strconv.Itoa(space) + "|" + base64.StdEncoding.EncodeToString(data)
}

func decodeValue(val string) (int, []byte, error) {
	head, body, ok := strings.Cut(val, "|")
	if !ok {
		return 0, nil, fmt.Errorf("malformed record value")
	}
	space, err := strconv.Atoi(head)
	if err != nil {
		return 0, nil, fmt.Errorf("malformed record space: %w", err)
	}
	data, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return 0, nil, fmt.Errorf("malformed record data: %w", err)
	}
	return space, data, nil
}

func (tx *buntTx) CreateIfAbsent(addr string, space int, data []byte) error {
	_, err := tx.tx.Get(addr)
	if err == nil {
		return ErrExists
	}
	if err != buntdb.ErrNotFound {
		return err
	}
	if len(data) > space {
		return ErrSpaceExceeded
	}
	_, _, err = tx.tx.Set(addr, encodeValue(space, data), nil)
	return err
}

func (tx *buntTx) Read(addr string) ([]byte, error) {
	val, err := tx.tx.Get(addr)
	if err == buntdb.ErrNotFound {
		return nil, ErrAbsent
	}
	if err != nil {
		return nil, err
	}
	_, data, err := decodeValue(val)
	return data, err
}

func (tx *buntTx) Update(addr string, mutate func(data []byte) ([]byte, error)) error {
	if tx.readOnly {
		return buntdb.ErrTxNotWritable
	}
	val, err := tx.tx.Get(addr)
	if err == buntdb.ErrNotFound {
		return ErrAbsent
	}
	if err != nil {
		return err
	}
	space, data, err := decodeValue(val)
	if err != nil {
		return err
	}
	next, err := mutate(data)
	if err != nil {
		return err
	}
	if len(next) > space {
		return ErrSpaceExceeded
	}
	_, _, err = tx.tx.Set(addr, encodeValue(space, next), nil)
	return err
}
