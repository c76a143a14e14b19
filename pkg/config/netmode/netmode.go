package netmode

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	// Mijin is the private network identifier.
	Mijin Type = 0x60
	// MijinTest is the private test network identifier.
	MijinTest Type = 0x90
	// Public is the public main network identifier.
	Public Type = 0xb8
	// PublicTest is the public test network identifier.
	PublicTest Type = 0xa8
	// Private is the private network identifier.
	Private Type = 0xc8
	// PrivateTest is the private test network identifier.
	PrivateTest Type = 0xb0
	// AliasAddress marks an address that is a namespace alias rather than a
	// real account address.
	AliasAddress Type = 0x91
	// NotSupported is returned for unknown network bytes.
	NotSupported Type = 0
)

// ErrUnknownNetwork is returned when a network name or byte doesn't match any
// known network.
var ErrUnknownNetwork = errors.New("unknown network type")

// Type describes the network the transactions are bound to.
type Type byte

var names = map[Type]string{
	Mijin:        "MIJIN",
	MijinTest:    "MIJIN_TEST",
	Public:       "PUBLIC",
	PublicTest:   "PUBLIC_TEST",
	Private:      "PRIVATE",
	PrivateTest:  "PRIVATE_TEST",
	AliasAddress: "ALIAS_ADDRESS",
}

var prefixes = map[Type]byte{
	Mijin:       'M',
	MijinTest:   'S',
	Public:      'X',
	PublicTest:  'V',
	Private:     'Z',
	PrivateTest: 'W',
}

// FromString returns network type by its name (e.g. "PUBLIC_TEST").
func FromString(s string) (Type, error) {
	for t, name := range names {
		if name == s {
			return t, nil
		}
	}
	return NotSupported, fmt.Errorf("%w: %q", ErrUnknownNetwork, s)
}

// FromByte returns network type for the given identifier byte.
func FromByte(b byte) (Type, error) {
	t := Type(b)
	if _, ok := names[t]; !ok {
		return NotSupported, fmt.Errorf("%w: 0x%02x", ErrUnknownNetwork, b)
	}
	return t, nil
}

// FromPrefix returns network type for the first character of a raw address.
func FromPrefix(c byte) (Type, error) {
	for t, p := range prefixes {
		if p == c {
			return t, nil
		}
	}
	return NotSupported, fmt.Errorf("%w: address prefix %q", ErrUnknownNetwork, c)
}

// Prefix returns the first character of raw addresses on n, ok is false for
// networks that have no addresses of their own (like AliasAddress).
func (n Type) Prefix() (byte, bool) {
	p, ok := prefixes[n]
	return p, ok
}

// String implements the stringer interface.
func (n Type) String() string {
	if name, ok := names[n]; ok {
		return name
	}
	return "net 0x" + strconv.FormatUint(uint64(n), 16)
}

// MarshalText implements the encoding.TextMarshaler interface, it's used by
// both YAML and JSON encoders.
func (n Type) MarshalText() ([]byte, error) {
	if _, ok := names[n]; !ok {
		return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownNetwork, byte(n))
	}
	return []byte(n.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (n *Type) UnmarshalText(text []byte) error {
	t, err := FromString(string(text))
	if err != nil {
		return err
	}
	*n = t
	return nil
}
