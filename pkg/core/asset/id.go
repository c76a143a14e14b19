// Package asset derives mosaic and namespace identifiers and describes
// mosaics and their properties.
package asset

import (
	"encoding/binary"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/nspcc-dev/sirius-go/pkg/crypto/hash"
	"github.com/nspcc-dev/sirius-go/pkg/crypto/keys"
	"github.com/nspcc-dev/sirius-go/pkg/util"
)

// NamespaceBit is the high bit partitioning the shared id space: it is set
// for every namespace id and cleared for every mosaic id.
const NamespaceBit uint64 = 1 << 63

const (
	// MaxNamespaceDepth is the maximum number of parts in a namespace path.
	MaxNamespaceDepth = 3
	// MaxNamespaceNameLength is the maximum length of a single namespace part.
	MaxNamespaceNameLength = 64
)

// ErrInvalidNamespaceName is returned for names that can't be registered.
var ErrInvalidNamespaceName = errors.New("invalid namespace name")

var namespacePart = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// MosaicNonce is the 4-byte nonce a mosaic id is derived from.
type MosaicNonce [4]byte

// NewMosaicNonce returns the little-endian nonce of n.
func NewMosaicNonce(n uint32) MosaicNonce {
	var nonce MosaicNonce
	binary.LittleEndian.PutUint32(nonce[:], n)
	return nonce
}

// Uint32 returns the numeric nonce value.
func (n MosaicNonce) Uint32() uint32 {
	return binary.LittleEndian.Uint32(n[:])
}

// MosaicID identifies a mosaic.
type MosaicID util.Uint64

// NewMosaicIDFromNonceAndOwner derives the id of the mosaic defined by owner
// with the given nonce.
func NewMosaicIDFromNonceAndOwner(nonce MosaicNonce, owner *keys.PublicKey) MosaicID {
	data := make([]byte, 0, len(nonce)+keys.PublicKeySize)
	data = append(data, nonce[:]...)
	data = append(data, owner[:]...)
	h := hash.Sha3_256(data)
	return MosaicID(binary.LittleEndian.Uint64(h[:8]) &^ NamespaceBit)
}

// Uint64 returns the id as a plain Uint64.
func (m MosaicID) Uint64() util.Uint64 { return util.Uint64(m) }

// String returns the 16-character upper-case hex form of the id.
func (m MosaicID) String() string { return fmt.Sprintf("%016X", uint64(m)) }

// NamespaceID identifies a namespace.
type NamespaceID util.Uint64

// NewNamespaceID derives the id of the namespace called name under parent.
// Root namespaces use a zero parent.
func NewNamespaceID(parent NamespaceID, name string) NamespaceID {
	data := make([]byte, 8, 8+len(name))
	binary.LittleEndian.PutUint64(data, uint64(parent))
	data = append(data, strings.ToLower(name)...)
	h := hash.Sha3_256(data)
	return NamespaceID(binary.LittleEndian.Uint64(h[:8]) | NamespaceBit)
}

// NewNamespaceIDFromName returns the id of the last part of a dotted
// namespace path like "prx.xpx".
func NewNamespaceIDFromName(name string) (NamespaceID, error) {
	path, err := GenerateNamespacePath(name)
	if err != nil {
		return 0, err
	}
	return path[len(path)-1], nil
}

// GenerateNamespacePath returns the ids of every level of a dotted namespace
// path, root first.
func GenerateNamespacePath(name string) ([]NamespaceID, error) {
	parts := strings.Split(name, ".")
	if len(parts) > MaxNamespaceDepth {
		return nil, fmt.Errorf("%w: %q is deeper than %d levels", ErrInvalidNamespaceName, name, MaxNamespaceDepth)
	}
	var (
		path   = make([]NamespaceID, 0, len(parts))
		parent NamespaceID
	)
	for _, part := range parts {
		if err := ValidateNamespaceName(part); err != nil {
			return nil, err
		}
		parent = NewNamespaceID(parent, part)
		path = append(path, parent)
	}
	return path, nil
}

// ValidateNamespaceName checks a single namespace part.
func ValidateNamespaceName(name string) error {
	if len(name) == 0 || len(name) > MaxNamespaceNameLength {
		return fmt.Errorf("%w: %q has bad length", ErrInvalidNamespaceName, name)
	}
	if !namespacePart.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidNamespaceName, name)
	}
	return nil
}

// Uint64 returns the id as a plain Uint64.
func (n NamespaceID) Uint64() util.Uint64 { return util.Uint64(n) }

// String returns the 16-character upper-case hex form of the id.
func (n NamespaceID) String() string { return fmt.Sprintf("%016X", uint64(n)) }

// IsNamespace reports whether the raw id belongs to the namespace half of the
// id space.
func IsNamespace(id util.Uint64) bool {
	return uint64(id)&NamespaceBit != 0
}
