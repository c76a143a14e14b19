// Package address implements account address derivation and the conversion
// between raw (base32) and encoded (hex) address forms.
package address

import (
	"bytes"
	"encoding/base32"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/sirius-go/pkg/config/netmode"
	"github.com/nspcc-dev/sirius-go/pkg/crypto/hash"
	"github.com/nspcc-dev/sirius-go/pkg/crypto/keys"
)

const (
	// DecodedSize is the length of a binary address: network byte, 20-byte
	// account hash and 4-byte checksum.
	DecodedSize = 25
	// RawSize is the length of the base32 address form.
	RawSize = 40
	// EncodedSize is the length of the hex address form.
	EncodedSize = DecodedSize * 2

	checksumSize = 4
	groupSize    = 6
	separator    = "-"
)

var (
	// ErrInvalidAddressLength is returned for addresses of a wrong length.
	ErrInvalidAddressLength = errors.New("invalid address length")
	// ErrUnknownNetworkPrefix is returned when the first address character
	// doesn't correspond to any known network.
	ErrUnknownNetworkPrefix = errors.New("unknown network prefix")
	// ErrInvalidHexEncoding is returned for malformed hex input.
	ErrInvalidHexEncoding = errors.New("invalid hex encoding")
)

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Address is an account address in the raw (base32) form bound to the
// network it belongs to.
type Address struct {
	Address string
	Network netmode.Type
}

// FromPublicKey derives the address of the hex-encoded public key on the
// given network.
func FromPublicKey(pubHex string, network netmode.Type) (*Address, error) {
	b, err := hex.DecodeString(pubHex)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHexEncoding, err)
	}
	if len(b) != keys.PublicKeySize {
		return nil, fmt.Errorf("%w: public key of %d bytes", ErrInvalidHexEncoding, len(b))
	}
	return fromKeyBytes(b, network), nil
}

// FromKey derives the address of the public key on the given network.
func FromKey(pub *keys.PublicKey, network netmode.Type) *Address {
	return fromKeyBytes(pub[:], network)
}

func fromKeyBytes(pub []byte, network netmode.Type) *Address {
	ripe := hash.AddressHash(pub)

	b := make([]byte, 0, DecodedSize)
	b = append(b, byte(network))
	b = append(b, ripe[:]...)
	b = append(b, hash.Checksum(b)...)

	return &Address{
		Address: encoding.EncodeToString(b),
		Network: network,
	}
}

// FromRaw parses a raw base32 address. Surrounding spaces, lower case and
// '-' separators are accepted.
func FromRaw(raw string) (*Address, error) {
	s := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), separator, ""))
	if len(s) != RawSize {
		return nil, fmt.Errorf("%w: %d characters", ErrInvalidAddressLength, len(s))
	}
	network, err := netmode.FromPrefix(s[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNetworkPrefix, s[0])
	}
	// Several network bytes share a prefix, the byte itself decides.
	if b, err := encoding.DecodeString(s); err == nil && len(b) == DecodedSize {
		if n, err := netmode.FromByte(b[0]); err == nil && sharesPrefix(n, network) {
			network = n
		}
	}
	return &Address{Address: s, Network: network}, nil
}

// sharesPrefix reports whether network byte n may start an address with the
// prefix of known. Alias addresses use the MIJIN_TEST prefix.
func sharesPrefix(n, known netmode.Type) bool {
	return n == known || (n == netmode.AliasAddress && known == netmode.MijinTest)
}

// FromEncoded parses a hex encoded address.
func FromEncoded(encoded string) (*Address, error) {
	if len(encoded) != EncodedSize {
		return nil, fmt.Errorf("%w: %d hex characters", ErrInvalidAddressLength, len(encoded))
	}
	b, err := hex.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHexEncoding, err)
	}
	return FromBytes(b)
}

// FromBytes parses a 25-byte binary address. The network is taken from the
// first byte, so alias addresses keep netmode.AliasAddress.
func FromBytes(b []byte) (*Address, error) {
	if len(b) != DecodedSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidAddressLength, len(b))
	}
	network, err := netmode.FromByte(b[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownNetworkPrefix, err)
	}
	return &Address{Address: encoding.EncodeToString(b), Network: network}, nil
}

// FromNamespace returns the alias address standing for the namespace with
// the given id: the alias marker byte, the little-endian id and zero padding.
func FromNamespace(namespaceID uint64) *Address {
	b := make([]byte, DecodedSize)
	b[0] = byte(netmode.AliasAddress)
	binary.LittleEndian.PutUint64(b[1:], namespaceID)
	return &Address{Address: encoding.EncodeToString(b), Network: netmode.AliasAddress}
}

// IsAlias reports whether the address is a namespace alias.
func (a *Address) IsAlias() bool {
	return a.Network == netmode.AliasAddress
}

// Prettify returns the address split into dash-separated groups of six
// characters.
func (a *Address) Prettify() string {
	var parts []string
	for i := 0; i < len(a.Address); i += groupSize {
		end := i + groupSize
		if end > len(a.Address) {
			end = len(a.Address)
		}
		parts = append(parts, a.Address[i:end])
	}
	return strings.Join(parts, separator)
}

// Bytes returns the 25-byte binary form of the address.
func (a *Address) Bytes() ([]byte, error) {
	b, err := encoding.DecodeString(a.Address)
	if err != nil {
		return nil, err
	}
	if len(b) != DecodedSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidAddressLength, len(b))
	}
	return b, nil
}

// Encoded returns the upper-case hex form of the address.
func (a *Address) Encoded() (string, error) {
	b, err := a.Bytes()
	if err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(b)), nil
}

// IsValid reports whether the address decodes, its network byte matches the
// prefix and its checksum is correct.
func (a *Address) IsValid() bool {
	b, err := a.Bytes()
	if err != nil {
		return false
	}
	if netmode.Type(b[0]) != a.Network {
		return false
	}
	body := b[:DecodedSize-checksumSize]
	return bytes.Equal(hash.Checksum(body), b[DecodedSize-checksumSize:])
}

// Equals reports whether both addresses are the same.
func (a *Address) Equals(other *Address) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.Address == other.Address && a.Network == other.Network
}

// String implements the fmt.Stringer interface.
func (a *Address) String() string {
	return a.Address
}

// MarshalText implements the encoding.TextMarshaler interface.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.Address), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (a *Address) UnmarshalText(text []byte) error {
	addr, err := FromRaw(string(text))
	if err != nil {
		return err
	}
	*a = *addr
	return nil
}
