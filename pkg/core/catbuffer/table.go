// Package catbuffer implements schema-driven canonical binary layouts. Values
// are put into named slots of a Table in any order and a Schema flattens them
// in declaration order.
package catbuffer

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/nspcc-dev/sirius-go/pkg/io"
)

var (
	// ErrMissingField is returned when a schema attribute has no slot.
	ErrMissingField = errors.New("missing field")
	// ErrFieldSize is returned when a slot doesn't match its attribute
	// width or count.
	ErrFieldSize = errors.New("wrong field size")
)

type slot struct {
	raw    []byte
	tables []*Table
}

// Table is a set of named slots. It is a short-lived builder owned by a
// single encode or decode call and must not be shared between goroutines.
type Table struct {
	slots map[string]slot
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{slots: make(map[string]slot)}
}

// PutU8 stores a one-byte value.
func (t *Table) PutU8(name string, v uint8) *Table {
	return t.PutBytes(name, []byte{v})
}

// PutU16 stores a little-endian two-byte value.
func (t *Table) PutU16(name string, v uint16) *Table {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return t.PutBytes(name, b)
}

// PutU32 stores a little-endian four-byte value.
func (t *Table) PutU32(name string, v uint32) *Table {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return t.PutBytes(name, b)
}

// PutU64 stores an eight-byte value as its [lower, higher] little-endian
// 32-bit words.
func (t *Table) PutU64(name string, v uint64) *Table {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint32(b, uint32(v))
	binary.LittleEndian.PutUint32(b[4:], uint32(v>>32))
	return t.PutBytes(name, b)
}

// PutBytes stores raw bytes. The slice is not copied.
func (t *Table) PutBytes(name string, b []byte) *Table {
	t.slots[name] = slot{raw: b}
	return t
}

// PutTable stores a nested table.
func (t *Table) PutTable(name string, sub *Table) *Table {
	t.slots[name] = slot{tables: []*Table{sub}}
	return t
}

// PutTables stores a list of nested tables.
func (t *Table) PutTables(name string, subs []*Table) *Table {
	if subs == nil {
		subs = []*Table{}
	}
	t.slots[name] = slot{tables: subs}
	return t
}

// Has reports whether the slot is set.
func (t *Table) Has(name string) bool {
	_, ok := t.slots[name]
	return ok
}

// Bytes returns the raw slot value.
func (t *Table) Bytes(name string) ([]byte, error) {
	s, ok := t.slots[name]
	if !ok || s.tables != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	return s.raw, nil
}

func (t *Table) fixed(name string, width int) ([]byte, error) {
	b, err := t.Bytes(name)
	if err != nil {
		return nil, err
	}
	if len(b) != width {
		return nil, fmt.Errorf("%w: %s is %d bytes, expected %d", ErrFieldSize, name, len(b), width)
	}
	return b, nil
}

// U8 returns a one-byte slot value.
func (t *Table) U8(name string) (uint8, error) {
	b, err := t.fixed(name, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// U16 returns a two-byte slot value.
func (t *Table) U16(name string) (uint16, error) {
	b, err := t.fixed(name, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// U32 returns a four-byte slot value.
func (t *Table) U32(name string) (uint32, error) {
	b, err := t.fixed(name, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// U64 returns an eight-byte slot value.
func (t *Table) U64(name string) (uint64, error) {
	b, err := t.fixed(name, 8)
	if err != nil {
		return 0, err
	}
	return uint64(binary.LittleEndian.Uint32(b)) | uint64(binary.LittleEndian.Uint32(b[4:]))<<32, nil
}

// Table returns a nested table.
func (t *Table) Table(name string) (*Table, error) {
	s, ok := t.slots[name]
	if !ok || len(s.tables) != 1 {
		return nil, fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	return s.tables[0], nil
}

// Tables returns a list of nested tables.
func (t *Table) Tables(name string) ([]*Table, error) {
	s, ok := t.slots[name]
	if !ok || s.tables == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	return s.tables, nil
}

// number returns a scalar slot of any width as a number, used by count rules.
func (t *Table) number(name string) (uint64, error) {
	b, err := t.Bytes(name)
	if err != nil {
		return 0, err
	}
	r := io.NewBinReaderFromBuf(b)
	v := r.ReadScalar(len(b))
	if r.Err != nil {
		return 0, fmt.Errorf("%w: %s can't be used as a count", ErrFieldSize, name)
	}
	return v, nil
}
