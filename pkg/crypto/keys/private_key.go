package keys

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"filippo.io/edwards25519"
	"github.com/nspcc-dev/sirius-go/pkg/crypto/hash"
	"golang.org/x/crypto/sha3"
)

// SeedSize is the length of a private key seed in bytes.
const SeedSize = 32

// PrivateKey is an edwards25519 signing key. Key expansion and nonce
// derivation use SHA3-512.
type PrivateKey struct {
	seed   [SeedSize]byte
	prefix [32]byte
	scalar *edwards25519.Scalar
	pub    *PublicKey
}

// NewPrivateKey creates a new random private key.
func NewPrivateKey() (*PrivateKey, error) {
	var seed [SeedSize]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return nil, err
	}
	return NewPrivateKeyFromBytes(seed[:])
}

// NewPrivateKeyFromHex returns a PrivateKey created from the given hex
// string.
func NewPrivateKeyFromHex(str string) (*PrivateKey, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(str, "0x"))
	if err != nil {
		return nil, err
	}
	return NewPrivateKeyFromBytes(b)
}

// NewPrivateKeyFromBytes returns a PrivateKey from the given 32-byte seed.
func NewPrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != SeedSize {
		return nil, fmt.Errorf(
			"invalid byte length: expected %d bytes got %d", SeedSize, len(b),
		)
	}
	p := new(PrivateKey)
	copy(p.seed[:], b)

	h := hash.Sha3_512(p.seed[:])
	s, err := edwards25519.NewScalar().SetBytesWithClamping(h[:32])
	if err != nil {
		return nil, err
	}
	p.scalar = s
	copy(p.prefix[:], h[32:])

	A := new(edwards25519.Point).ScalarBaseMult(s)
	p.pub = new(PublicKey)
	copy(p.pub[:], A.Bytes())
	return p, nil
}

// PublicKey returns the public key derived from the private key.
func (p *PrivateKey) PublicKey() *PublicKey {
	pub := *p.pub
	return &pub
}

// Sign signs arbitrary length data using the private key and returns a
// 64-byte R ++ S signature.
func (p *PrivateKey) Sign(data []byte) []byte {
	h := sha3.New512()
	h.Write(p.prefix[:])
	h.Write(data)
	r, err := edwards25519.NewScalar().SetUniformBytes(h.Sum(nil))
	if err != nil {
		panic(err) // always 64 bytes
	}
	R := new(edwards25519.Point).ScalarBaseMult(r)

	k := challenge(R.Bytes(), p.pub[:], data)
	S := edwards25519.NewScalar().MultiplyAdd(k, p.scalar, r)

	sig := make([]byte, 0, SignatureSize)
	sig = append(sig, R.Bytes()...)
	return append(sig, S.Bytes()...)
}

// Bytes returns the seed of the PrivateKey.
func (p *PrivateKey) Bytes() []byte {
	b := make([]byte, SeedSize)
	copy(b, p.seed[:])
	return b
}

// String implements the stringer interface.
func (p *PrivateKey) String() string {
	return strings.ToUpper(hex.EncodeToString(p.seed[:]))
}

// Destroy wipes the seed and the expanded key from memory. The key must not
// be used afterwards.
func (p *PrivateKey) Destroy() {
	for i := range p.seed {
		p.seed[i] = 0
	}
	for i := range p.prefix {
		p.prefix[i] = 0
	}
	p.scalar = edwards25519.NewScalar()
}

func challenge(R, A, data []byte) *edwards25519.Scalar {
	h := sha3.New512()
	h.Write(R)
	h.Write(A)
	h.Write(data)
	k, err := edwards25519.NewScalar().SetUniformBytes(h.Sum(nil))
	if err != nil {
		panic(err) // always 64 bytes
	}
	return k
}
