package io

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrScalarWidth is returned for integer widths other than 1, 2, 4 and 8.
var ErrScalarWidth = errors.New("unsupported scalar width")

// BinWriter writes little-endian values into an io.Writer. The first error
// is kept in Err, all writes after it are no-ops.
type BinWriter struct {
	w   io.Writer
	Err error
	uv  [8]byte
}

// NewBinWriterFromIO makes a BinWriter from io.Writer.
func NewBinWriterFromIO(iow io.Writer) *BinWriter {
	return &BinWriter{w: iow}
}

func checkWidth(width int) error {
	switch width {
	case 1, 2, 4, 8:
		return nil
	}
	return fmt.Errorf("%w: %d", ErrScalarWidth, width)
}

// WriteScalar writes the lowest width bytes of v, least significant first.
// An eight-byte scalar is thus the same as its [lower, higher] pair of
// 32-bit words.
func (w *BinWriter) WriteScalar(v uint64, width int) {
	if w.Err != nil {
		return
	}
	if w.Err = checkWidth(width); w.Err != nil {
		return
	}
	binary.LittleEndian.PutUint64(w.uv[:], v)
	w.WriteBytes(w.uv[:width])
}

// WriteU64LE writes an eight-byte scalar.
func (w *BinWriter) WriteU64LE(u64 uint64) { w.WriteScalar(u64, 8) }

// WriteU32LE writes a four-byte scalar.
func (w *BinWriter) WriteU32LE(u32 uint32) { w.WriteScalar(uint64(u32), 4) }

// WriteU16LE writes a two-byte scalar.
func (w *BinWriter) WriteU16LE(u16 uint16) { w.WriteScalar(uint64(u16), 2) }

// WriteB writes a single byte.
func (w *BinWriter) WriteB(u8 byte) { w.WriteScalar(uint64(u8), 1) }

// WriteBytes writes b as is, without any length prefix.
func (w *BinWriter) WriteBytes(b []byte) {
	if w.Err != nil {
		return
	}
	_, w.Err = w.w.Write(b)
}
