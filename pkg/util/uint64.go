package util

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const uint64Size = 8

// ErrInvalidNumberFormat is returned when a textual or binary representation
// can't be converted into Uint64.
var ErrInvalidNumberFormat = errors.New("invalid number format")

// Uint64 is a 64-bit unsigned value that travels over the wire as a pair of
// 32-bit words [lower, higher].
type Uint64 uint64

// Uint64FromInts creates Uint64 from its lower and higher 32-bit halves.
func Uint64FromInts(lower, higher uint32) Uint64 {
	return Uint64(uint64(higher)<<32 | uint64(lower))
}

// Uint64FromHex parses a hexadecimal string (with or without 0x prefix).
func Uint64FromHex(s string) (Uint64, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s) == 0 || len(s) > 2*uint64Size {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumberFormat, s)
	}
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumberFormat, s)
	}
	return Uint64(v), nil
}

// Uint64FromBytes decodes big-endian 8-byte representation.
func Uint64FromBytes(b []byte) (Uint64, error) {
	if len(b) != uint64Size {
		return 0, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidNumberFormat, uint64Size, len(b))
	}
	return Uint64(binary.BigEndian.Uint64(b)), nil
}

// ToIntArray returns [lower, higher] 32-bit halves of u.
func (u Uint64) ToIntArray() [2]uint32 {
	return [2]uint32{uint32(u), uint32(u >> 32)}
}

// Bytes returns big-endian 8-byte representation of u.
func (u Uint64) Bytes() []byte {
	b := make([]byte, uint64Size)
	binary.BigEndian.PutUint64(b, uint64(u))
	return b
}

// Hex returns an upper-case hexadecimal representation of u without leading
// zeroes.
func (u Uint64) Hex() string {
	return strings.ToUpper(strconv.FormatUint(uint64(u), 16))
}

// String implements the fmt.Stringer interface.
func (u Uint64) String() string {
	return strconv.FormatUint(uint64(u), 10)
}

// MarshalJSON implements the json.Marshaler interface.
func (u Uint64) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.ToIntArray())
}

// UnmarshalJSON implements the json.Unmarshaler interface. Both [lower, higher]
// pairs and decimal strings are accepted.
func (u *Uint64) UnmarshalJSON(data []byte) error {
	var pair []uint32
	if err := json.Unmarshal(data, &pair); err == nil {
		if len(pair) != 2 {
			return fmt.Errorf("%w: expected [lower, higher] pair, got %d elements", ErrInvalidNumberFormat, len(pair))
		}
		*u = Uint64FromInts(pair[0], pair[1])
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidNumberFormat, string(data))
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidNumberFormat, s)
	}
	*u = Uint64(v)
	return nil
}
