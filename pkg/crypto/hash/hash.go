package hash

import (
	"crypto/sha256"

	"github.com/nspcc-dev/sirius-go/pkg/util"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // RIPEMD-160 is part of the address format.
	"golang.org/x/crypto/sha3"
)

// Sha3_256 hashes the incoming byte slice using the SHA3-256 algorithm.
func Sha3_256(data []byte) util.Uint256 {
	return sha3.Sum256(data)
}

// Sha3_512 hashes the incoming byte slice using the SHA3-512 algorithm.
func Sha3_512(data []byte) [64]byte {
	return sha3.Sum512(data)
}

// Keccak256 hashes the incoming byte slice using the legacy Keccak-256
// algorithm (SHA3 prior to the final padding change).
func Keccak256(data []byte) util.Uint256 {
	var h util.Uint256
	hasher := sha3.NewLegacyKeccak256()
	_, _ = hasher.Write(data)
	hasher.Sum(h[:0])
	return h
}

// Sha256 hashes the incoming byte slice using the sha256 algorithm.
func Sha256(data []byte) util.Uint256 {
	return sha256.Sum256(data)
}

// DoubleSha256 performs sha256 twice on the given data.
func DoubleSha256(data []byte) util.Uint256 {
	h := Sha256(data)
	return Sha256(h[:])
}

// RipeMD160 performs the RIPEMD160 hash algorithm on the given data.
func RipeMD160(data []byte) [20]byte {
	var h [20]byte
	hasher := ripemd160.New()
	_, _ = hasher.Write(data)
	hasher.Sum(h[:0])
	return h
}

// Hash160 performs sha256 and then ripemd160 on the given data.
func Hash160(data []byte) [20]byte {
	h := Sha256(data)
	return RipeMD160(h[:])
}

// AddressHash is the account digest used by addresses: RIPEMD160 over the
// SHA3-256 of the public key.
func AddressHash(pub []byte) [20]byte {
	h := Sha3_256(pub)
	return RipeMD160(h[:])
}

// Checksum returns the address checksum for a given piece of data, that is
// the first four bytes of its SHA3-256 hash.
func Checksum(data []byte) []byte {
	h := Sha3_256(data)
	return h[:4]
}
