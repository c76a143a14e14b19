package util

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

const uint256Size = 32

// Uint256 is a 32 byte long value used for transaction hashes, generation
// hashes, secrets and public keys.
type Uint256 [uint256Size]uint8

// Uint256DecodeString attempts to decode the given hex string into an Uint256.
func Uint256DecodeString(s string) (u Uint256, err error) {
	if len(s) != uint256Size*2 {
		return u, fmt.Errorf("expected string size of %d got %d", uint256Size*2, len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return u, err
	}
	return Uint256DecodeBytes(b)
}

// Uint256DecodeBytes attempts to decode the given bytes into an Uint256.
func Uint256DecodeBytes(b []byte) (u Uint256, err error) {
	if len(b) != uint256Size {
		return u, fmt.Errorf("expected []byte of size %d got %d", uint256Size, len(b))
	}
	copy(u[:], b)
	return u, nil
}

// BytesBE returns a byte slice representation of u.
func (u Uint256) BytesBE() []byte {
	b := make([]byte, uint256Size)
	copy(b, u[:])
	return b
}

// Equals returns true if both Uint256 values are the same.
func (u Uint256) Equals(other Uint256) bool {
	return u == other
}

// IsZero returns true if all bytes of u are zero.
func (u Uint256) IsZero() bool {
	return u == Uint256{}
}

// String implements the stringer interface, hashes are upper-case hex.
func (u Uint256) String() string {
	return strings.ToUpper(hex.EncodeToString(u[:]))
}

// UnmarshalJSON implements the json unmarshaller interface.
func (u *Uint256) UnmarshalJSON(data []byte) (err error) {
	var js string
	if err = json.Unmarshal(data, &js); err != nil {
		return err
	}
	*u, err = Uint256DecodeString(strings.TrimPrefix(js, "0x"))
	return err
}

// MarshalJSON implements the json marshaller interface.
func (u Uint256) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.String())
}
