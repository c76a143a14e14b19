package io

import (
	"fmt"
	"io"
)

// BinReader reads little-endian values from a byte slice keeping the current
// position. The first error is sticky: subsequent reads return zero values.
type BinReader struct {
	Data []byte
	Pos  int
	Err  error
}

// NewBinReaderFromBuf makes a BinReader from byte buffer.
func NewBinReaderFromBuf(b []byte) *BinReader {
	return &BinReader{Data: b}
}

func (r *BinReader) next(n int) []byte {
	if r.Err != nil {
		return nil
	}
	if n < 0 || r.Pos+n > len(r.Data) {
		r.Err = fmt.Errorf("%w: need %d bytes at offset %d, have %d", io.ErrUnexpectedEOF, n, r.Pos, len(r.Data)-r.Pos)
		return nil
	}
	b := r.Data[r.Pos : r.Pos+n]
	r.Pos += n
	return b
}

// ReadScalar reads a little-endian integer of the given width.
func (r *BinReader) ReadScalar(width int) uint64 {
	if r.Err != nil {
		return 0
	}
	if r.Err = checkWidth(width); r.Err != nil {
		return 0
	}
	b := r.next(width)
	if b == nil {
		return 0
	}
	var v uint64
	for i := width - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

// ReadU64LE reads an eight-byte scalar.
func (r *BinReader) ReadU64LE() uint64 { return r.ReadScalar(8) }

// ReadU32LE reads a four-byte scalar.
func (r *BinReader) ReadU32LE() uint32 { return uint32(r.ReadScalar(4)) }

// ReadU16LE reads a two-byte scalar.
func (r *BinReader) ReadU16LE() uint16 { return uint16(r.ReadScalar(2)) }

// ReadB reads a byte.
func (r *BinReader) ReadB() byte { return byte(r.ReadScalar(1)) }

// ReadBytes copies len(buf) bytes into buf.
func (r *BinReader) ReadBytes(buf []byte) {
	if b := r.next(len(buf)); b != nil {
		copy(buf, b)
	}
}

// ReadN returns a copy of the next n bytes.
func (r *BinReader) ReadN(n int) []byte {
	b := r.next(n)
	if b == nil {
		return nil
	}
	res := make([]byte, n)
	copy(res, b)
	return res
}

// Len returns the number of unread bytes.
func (r *BinReader) Len() int {
	return len(r.Data) - r.Pos
}
