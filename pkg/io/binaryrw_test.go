package io

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteLE(t *testing.T) {
	bw := NewBufBinWriter()
	bw.WriteU64LE(0xBFFB42A19116BDF6)
	bw.WriteU32LE(0x01020304)
	bw.WriteU16LE(0x4154)
	bw.WriteB(0xa8)
	bw.WriteBytes([]byte{0xde, 0xad})
	require.NoError(t, bw.Err)
	assert.Equal(t, 17, bw.Len())

	expected := []byte{
		0xf6, 0xbd, 0x16, 0x91, 0xa1, 0x42, 0xfb, 0xbf,
		0x04, 0x03, 0x02, 0x01,
		0x54, 0x41,
		0xa8,
		0xde, 0xad,
	}
	assert.Equal(t, expected, bw.Bytes())

	br := NewBinReaderFromBuf(expected)
	assert.Equal(t, uint64(0xBFFB42A19116BDF6), br.ReadU64LE())
	assert.Equal(t, uint32(0x01020304), br.ReadU32LE())
	assert.Equal(t, uint16(0x4154), br.ReadU16LE())
	assert.Equal(t, byte(0xa8), br.ReadB())
	assert.Equal(t, 2, br.Len())
	assert.Equal(t, []byte{0xde, 0xad}, br.ReadN(2))
	require.NoError(t, br.Err)
	assert.Equal(t, 0, br.Len())
}

func TestBufBinWriterDrained(t *testing.T) {
	bw := NewBufBinWriter()
	bw.WriteB(1)
	require.Equal(t, []byte{1}, bw.Bytes())

	bw.WriteB(2)
	require.True(t, errors.Is(bw.Err, ErrDrained))
	require.Nil(t, bw.Bytes())

	bw.Reset()
	bw.WriteB(3)
	require.Equal(t, []byte{3}, bw.Bytes())
}

func TestReaderStickyError(t *testing.T) {
	br := NewBinReaderFromBuf([]byte{1, 2, 3})
	assert.Equal(t, uint32(0), br.ReadU32LE())
	require.True(t, errors.Is(br.Err, io.ErrUnexpectedEOF))

	assert.Equal(t, byte(0), br.ReadB())
	assert.Nil(t, br.ReadN(1))
	assert.Equal(t, 0, br.Pos)
}

func TestReadBytes(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	br := NewBinReaderFromBuf(data)
	buf := make([]byte, 3)
	br.ReadBytes(buf)
	require.NoError(t, br.Err)
	assert.Equal(t, []byte{1, 2, 3}, buf)

	// ReadN copies.
	b := br.ReadN(1)
	b[0] = 0xff
	assert.Equal(t, byte(4), data[3])
}

func TestScalarWidth(t *testing.T) {
	bw := NewBufBinWriter()
	bw.WriteScalar(0x0102, 2)
	bw.WriteScalar(0xff, 3)
	require.ErrorIs(t, bw.Err, ErrScalarWidth)

	br := NewBinReaderFromBuf([]byte{1, 2, 3})
	assert.Equal(t, uint64(0), br.ReadScalar(3))
	require.ErrorIs(t, br.Err, ErrScalarWidth)

	br = NewBinReaderFromBuf([]byte{0x02, 0x01})
	assert.Equal(t, uint64(0x0102), br.ReadScalar(2))
}
