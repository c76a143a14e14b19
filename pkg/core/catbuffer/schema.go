package catbuffer

import (
	"fmt"

	"github.com/nspcc-dev/sirius-go/pkg/io"
)

type countKind uint8

const (
	countFixed countKind = iota
	countOf
	countSizeOf
	countRest
)

// Count says how many elements (or bytes) an array or table array holds.
type Count struct {
	kind   countKind
	n      int
	field  string
	adjust int
}

// Fixed is a constant number of elements.
func Fixed(n int) Count { return Count{kind: countFixed, n: n} }

// CountOf takes the number of elements from a scalar field declared earlier.
func CountOf(field string) Count { return Count{kind: countOf, field: field} }

// SizeOf takes the size in bytes from a scalar field declared earlier, minus
// adjust bytes that the field also accounts for.
func SizeOf(field string, adjust int) Count {
	return Count{kind: countSizeOf, field: field, adjust: adjust}
}

// Rest consumes everything up to the end of the data.
func Rest() Count { return Count{kind: countRest} }

type attrKind uint8

const (
	attrScalar attrKind = iota
	attrArray
	attrTable
	attrTableArray
)

// Attribute is a single schema field.
type Attribute struct {
	Name  string
	kind  attrKind
	width int
	count Count
	sub   *Schema
}

// Scalar is a fixed-width field.
func Scalar(name string, width int) Attribute {
	return Attribute{Name: name, kind: attrScalar, width: width}
}

// Array is a sequence of width-byte elements.
func Array(name string, width int, count Count) Attribute {
	return Attribute{Name: name, kind: attrArray, width: width, count: count}
}

// TableAttr is a nested table.
func TableAttr(name string, sub *Schema) Attribute {
	return Attribute{Name: name, kind: attrTable, sub: sub}
}

// TableArray is a sequence of nested tables.
func TableArray(name string, sub *Schema, count Count) Attribute {
	return Attribute{Name: name, kind: attrTableArray, sub: sub, count: count}
}

// Schema is an ordered list of attributes. It is immutable and safe for
// concurrent use.
type Schema struct {
	attrs []Attribute
}

// NewSchema creates a schema from attributes in wire order.
func NewSchema(attrs ...Attribute) *Schema {
	return &Schema{attrs: attrs}
}

// Extend returns a new schema with attrs appended after the ones of s.
func (s *Schema) Extend(attrs ...Attribute) *Schema {
	all := make([]Attribute, 0, len(s.attrs)+len(attrs))
	all = append(all, s.attrs...)
	return &Schema{attrs: append(all, attrs...)}
}

// Attributes returns a copy of the schema attributes.
func (s *Schema) Attributes() []Attribute {
	return append([]Attribute(nil), s.attrs...)
}

// Serialize flattens t in schema order.
func (s *Schema) Serialize(t *Table) ([]byte, error) {
	w := io.NewBufBinWriter()
	if err := s.serialize(w, t); err != nil {
		return nil, err
	}
	if w.Err != nil {
		return nil, w.Err
	}
	return w.Bytes(), nil
}

func (s *Schema) serialize(w *io.BufBinWriter, t *Table) error {
	for _, a := range s.attrs {
		switch a.kind {
		case attrScalar:
			b, err := t.fixed(a.Name, a.width)
			if err != nil {
				return err
			}
			w.WriteBytes(b)
		case attrArray:
			b, err := t.Bytes(a.Name)
			if err != nil {
				return err
			}
			if len(b)%a.width != 0 {
				return fmt.Errorf("%w: %s is %d bytes, not a multiple of %d", ErrFieldSize, a.Name, len(b), a.width)
			}
			if err := a.count.check(t, a.Name, len(b)/a.width, len(b)); err != nil {
				return err
			}
			w.WriteBytes(b)
		case attrTable:
			sub, err := t.Table(a.Name)
			if err != nil {
				return err
			}
			if err := a.sub.serialize(w, sub); err != nil {
				return fmt.Errorf("%s: %w", a.Name, err)
			}
		case attrTableArray:
			subs, err := t.Tables(a.Name)
			if err != nil {
				return err
			}
			start := w.Len()
			for i, sub := range subs {
				if err := a.sub.serialize(w, sub); err != nil {
					return fmt.Errorf("%s[%d]: %w", a.Name, i, err)
				}
			}
			if err := a.count.check(t, a.Name, len(subs), w.Len()-start); err != nil {
				return err
			}
		}
	}
	return nil
}

// check verifies that the count field of t agrees with the actual number of
// elements n and their size in bytes.
func (c Count) check(t *Table, name string, n, size int) error {
	var expected int
	switch c.kind {
	case countFixed:
		if n != c.n {
			return fmt.Errorf("%w: %s has %d elements, expected %d", ErrFieldSize, name, n, c.n)
		}
		return nil
	case countRest:
		return nil
	case countOf:
		v, err := t.number(c.field)
		if err != nil {
			return err
		}
		if uint64(n) != v {
			return fmt.Errorf("%w: %s has %d elements, %s says %d", ErrFieldSize, name, n, c.field, v)
		}
		return nil
	case countSizeOf:
		v, err := t.number(c.field)
		if err != nil {
			return err
		}
		expected = int(v) - c.adjust
	}
	if size != expected {
		return fmt.Errorf("%w: %s is %d bytes, %s says %d", ErrFieldSize, name, size, c.field, expected)
	}
	return nil
}

// Deserialize reads a table from the beginning of data and returns it along
// with the number of bytes consumed.
func (s *Schema) Deserialize(data []byte) (*Table, int, error) {
	r := io.NewBinReaderFromBuf(data)
	t, err := s.deserialize(r, len(data))
	if err != nil {
		return nil, 0, err
	}
	return t, r.Pos, nil
}

// deserialize reads s from r not going past the end offset.
func (s *Schema) deserialize(r *io.BinReader, end int) (*Table, error) {
	t := NewTable()
	for _, a := range s.attrs {
		switch a.kind {
		case attrScalar:
			t.PutBytes(a.Name, r.ReadN(a.width))
		case attrArray:
			size, err := a.count.bytes(t, a.width, end-r.Pos)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", a.Name, err)
			}
			if size%a.width != 0 {
				return nil, fmt.Errorf("%w: %s is %d bytes, not a multiple of %d", ErrFieldSize, a.Name, size, a.width)
			}
			t.PutBytes(a.Name, r.ReadN(size))
		case attrTable:
			sub, err := a.sub.deserialize(r, end)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", a.Name, err)
			}
			t.PutTable(a.Name, sub)
		case attrTableArray:
			subs, err := a.readTables(r, t, end)
			if err != nil {
				return nil, err
			}
			t.PutTables(a.Name, subs)
		}
		if r.Err != nil {
			return nil, fmt.Errorf("%s: %w", a.Name, r.Err)
		}
		if r.Pos > end {
			return nil, fmt.Errorf("%w: %s overruns its enclosing data", ErrFieldSize, a.Name)
		}
	}
	return t, nil
}

func (a Attribute) readTables(r *io.BinReader, t *Table, end int) ([]*Table, error) {
	var subs = []*Table{}
	if a.count.kind == countFixed || a.count.kind == countOf {
		n := a.count.n
		if a.count.kind == countOf {
			v, err := t.number(a.count.field)
			if err != nil {
				return nil, err
			}
			n = int(v)
		}
		for i := 0; i < n; i++ {
			sub, err := a.sub.deserialize(r, end)
			if err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", a.Name, i, err)
			}
			subs = append(subs, sub)
		}
		return subs, nil
	}
	size, err := a.count.bytes(t, 1, end-r.Pos)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.Name, err)
	}
	stop := r.Pos + size
	for r.Pos < stop {
		pos := r.Pos
		sub, err := a.sub.deserialize(r, stop)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", a.Name, len(subs), err)
		}
		if r.Pos == pos {
			return nil, fmt.Errorf("%w: %s elements are empty", ErrFieldSize, a.Name)
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

// bytes returns the byte size of an array with elements of the given width;
// left is the number of bytes remaining in the enclosing data.
func (c Count) bytes(t *Table, width, left int) (int, error) {
	var size int
	switch c.kind {
	case countFixed:
		size = c.n * width
	case countRest:
		size = left
	case countOf:
		v, err := t.number(c.field)
		if err != nil {
			return 0, err
		}
		size = int(v) * width
	case countSizeOf:
		v, err := t.number(c.field)
		if err != nil {
			return 0, err
		}
		size = int(v) - c.adjust
	}
	if size < 0 || size > left {
		return 0, fmt.Errorf("%w: %d bytes requested, %d left", ErrFieldSize, size, left)
	}
	return size, nil
}
