package keys

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"filippo.io/edwards25519"
)

const (
	// PublicKeySize is the length of an encoded public key in bytes.
	PublicKeySize = 32
	// SignatureSize is the length of a signature in bytes.
	SignatureSize = 64
)

// ErrInvalidPublicKey is returned for keys of a wrong length or encoding.
var ErrInvalidPublicKey = errors.New("invalid public key")

// PublicKey is an encoded edwards25519 point.
type PublicKey [PublicKeySize]byte

// PublicKeys is a list of public keys.
type PublicKeys []*PublicKey

// Contains checks whether passed param contained in PublicKeys.
func (keys PublicKeys) Contains(pKey *PublicKey) bool {
	for _, key := range keys {
		if key.Equal(pKey) {
			return true
		}
	}
	return false
}

// NewPublicKeyFromString returns a public key created from the given hex
// string.
func NewPublicKeyFromString(s string) (*PublicKey, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	return NewPublicKeyFromBytes(b)
}

// NewPublicKeyFromBytes returns a public key created from the given bytes.
func NewPublicKeyFromBytes(b []byte) (*PublicKey, error) {
	if len(b) != PublicKeySize {
		return nil, fmt.Errorf("%w: expected %d bytes got %d", ErrInvalidPublicKey, PublicKeySize, len(b))
	}
	p := new(PublicKey)
	copy(p[:], b)
	return p, nil
}

// Bytes returns the byte array representation of the public key.
func (p *PublicKey) Bytes() []byte {
	b := make([]byte, PublicKeySize)
	copy(b, p[:])
	return b
}

// String returns the upper-case hex representation of the key.
func (p *PublicKey) String() string {
	return strings.ToUpper(hex.EncodeToString(p[:]))
}

// Equal returns true in case public keys are equal.
func (p *PublicKey) Equal(key *PublicKey) bool {
	if p == nil || key == nil {
		return p == key
	}
	return *p == *key
}

// IsZero reports whether all key bytes are zero.
func (p *PublicKey) IsZero() bool {
	return *p == PublicKey{}
}

// Verify returns true if the signature is valid for the data and corresponds
// to the public key.
func (p *PublicKey) Verify(signature, data []byte) bool {
	if len(signature) != SignatureSize {
		return false
	}
	A, err := new(edwards25519.Point).SetBytes(p[:])
	if err != nil {
		return false
	}
	S, err := edwards25519.NewScalar().SetCanonicalBytes(signature[32:])
	if err != nil {
		return false
	}
	k := challenge(signature[:32], p[:], data)

	minusA := new(edwards25519.Point).Negate(A)
	R := new(edwards25519.Point).VarTimeDoubleScalarBaseMult(k, minusA, S)
	return bytes.Equal(signature[:32], R.Bytes())
}

// MarshalJSON implements the json.Marshaler interface.
func (p PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (p *PublicKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	key, err := NewPublicKeyFromString(s)
	if err != nil {
		return err
	}
	*p = *key
	return nil
}
