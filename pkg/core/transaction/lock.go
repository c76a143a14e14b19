package transaction

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/nspcc-dev/sirius-go/pkg/config/netmode"
	"github.com/nspcc-dev/sirius-go/pkg/core/asset"
	"github.com/nspcc-dev/sirius-go/pkg/core/catbuffer"
	"github.com/nspcc-dev/sirius-go/pkg/crypto/hash"
	"github.com/nspcc-dev/sirius-go/pkg/encoding/address"
	"github.com/nspcc-dev/sirius-go/pkg/util"
)

const (
	hashSize   = 32
	secretSize = 32
)

var (
	// ErrInvalidSecret is returned for secrets of a wrong length or
	// encoding.
	ErrInvalidSecret = errors.New("invalid secret")
	// ErrSecretMismatch is returned when a proof doesn't hash to the secret.
	ErrSecretMismatch = errors.New("proof doesn't match secret")
)

var (
	lockFundsSchema = catbuffer.NewSchema(
		catbuffer.Scalar("mosaic_id", 8),
		catbuffer.Scalar("mosaic_amount", 8),
		catbuffer.Scalar("duration", 8),
		catbuffer.Scalar("hash", hashSize),
	)
	secretLockSchema = catbuffer.NewSchema(
		catbuffer.Scalar("mosaic_id", 8),
		catbuffer.Scalar("mosaic_amount", 8),
		catbuffer.Scalar("duration", 8),
		catbuffer.Scalar("hash_algorithm", 1),
		catbuffer.Scalar("secret", secretSize),
		catbuffer.Scalar("recipient", address.DecodedSize),
	)
	secretProofSchema = catbuffer.NewSchema(
		catbuffer.Scalar("hash_algorithm", 1),
		catbuffer.Scalar("secret", secretSize),
		catbuffer.Scalar("recipient", address.DecodedSize),
		catbuffer.Scalar("proof_size", 2),
		catbuffer.Array("proof", 1, catbuffer.CountOf("proof_size")),
	)
)

// HashAlgorithm is the algorithm hashing secret lock proofs.
type HashAlgorithm uint8

// Hash algorithms.
const (
	Sha3_256  HashAlgorithm = 0
	Keccak256 HashAlgorithm = 1
	Hash160   HashAlgorithm = 2
	Hash256   HashAlgorithm = 3
)

// String implements the stringer interface.
func (h HashAlgorithm) String() string {
	switch h {
	case Sha3_256:
		return "sha3_256"
	case Keccak256:
		return "keccak_256"
	case Hash160:
		return "hash_160"
	case Hash256:
		return "hash_256"
	}
	return fmt.Sprintf("hash algorithm %d", uint8(h))
}

// SecretSize returns the number of meaningful secret bytes the algorithm
// produces.
func (h HashAlgorithm) SecretSize() int {
	if h == Hash160 {
		return 20
	}
	return secretSize
}

// SecretFromProof hashes proof with the algorithm. 20-byte Hash160 digests
// are padded with zeroes at the end.
func (h HashAlgorithm) SecretFromProof(proof []byte) (util.Uint256, error) {
	var secret util.Uint256
	switch h {
	case Sha3_256:
		secret = hash.Sha3_256(proof)
	case Keccak256:
		secret = hash.Keccak256(proof)
	case Hash160:
		d := hash.Hash160(proof)
		copy(secret[:], d[:])
	case Hash256:
		secret = hash.DoubleSha256(proof)
	default:
		return secret, fmt.Errorf("unknown %s", h)
	}
	return secret, nil
}

// ParseSecret decodes a hex secret produced by the algorithm.
func (h HashAlgorithm) ParseSecret(s string) (util.Uint256, error) {
	var secret util.Uint256
	b, err := hex.DecodeString(s)
	if err != nil {
		return secret, fmt.Errorf("%w: %v", ErrInvalidSecret, err)
	}
	if len(b) != h.SecretSize() && len(b) != secretSize {
		return secret, fmt.Errorf("%w: %d bytes for %s", ErrInvalidSecret, len(b), h)
	}
	copy(secret[:], b)
	return secret, nil
}

// LockFundsTransaction locks a deposit until an announced aggregate bonded
// transaction gets all of its cosignatures.
type LockFundsTransaction struct {
	AbstractTransaction
	Mosaic   asset.Mosaic
	Duration util.Uint64
	Hash     util.Uint256
}

// NewLockFundsTransaction creates a hash lock for the signed aggregate bonded
// transaction.
func NewLockFundsTransaction(deadline Deadline, mosaic asset.Mosaic, duration util.Uint64, signed *SignedTransaction, network netmode.Type) (*LockFundsTransaction, error) {
	if signed == nil || signed.EntityType != AggregateBondedType {
		return nil, fmt.Errorf("%w: only aggregate bonded transactions can be locked", ErrWrongTransactionKind)
	}
	h, err := parseHash(signed.Hash)
	if err != nil {
		return nil, err
	}
	return &LockFundsTransaction{
		AbstractTransaction: newAbstract(LockType, deadline, network),
		Mosaic:              mosaic,
		Duration:            duration,
		Hash:                h,
	}, nil
}

// Size implements the Transaction interface.
func (tx *LockFundsTransaction) Size() int { return HeaderSize + tx.bodySize() }

func (tx *LockFundsTransaction) bodySize() int { return mosaicSize + 8 + hashSize }

func (tx *LockFundsTransaction) fill(t *catbuffer.Table) error {
	t.PutU64("mosaic_id", uint64(tx.Mosaic.ID)).
		PutU64("mosaic_amount", uint64(tx.Mosaic.Amount)).
		PutU64("duration", uint64(tx.Duration)).
		PutBytes("hash", tx.Hash.BytesBE())
	return nil
}

func (tx *LockFundsTransaction) load(t *catbuffer.Table) error {
	var err error
	if tx.Mosaic, err = readLockedMosaic(t); err != nil {
		return err
	}
	duration, err := t.U64("duration")
	if err != nil {
		return err
	}
	tx.Duration = util.Uint64(duration)
	h, err := t.Bytes("hash")
	if err != nil {
		return err
	}
	tx.Hash, err = util.Uint256DecodeBytes(h)
	return err
}

// SecretLockTransaction locks mosaics for a recipient until the proof of the
// secret is revealed.
type SecretLockTransaction struct {
	AbstractTransaction
	Mosaic        asset.Mosaic
	Duration      util.Uint64
	HashAlgorithm HashAlgorithm
	Secret        util.Uint256
	Recipient     *address.Address
}

// NewSecretLockTransaction creates a secret lock. The secret is given in hex.
func NewSecretLockTransaction(deadline Deadline, mosaic asset.Mosaic, duration util.Uint64, alg HashAlgorithm, secret string, recipient *address.Address, network netmode.Type) (*SecretLockTransaction, error) {
	s, err := alg.ParseSecret(secret)
	if err != nil {
		return nil, err
	}
	if recipient == nil {
		return nil, fmt.Errorf("%w: empty recipient", address.ErrInvalidAddressLength)
	}
	return &SecretLockTransaction{
		AbstractTransaction: newAbstract(SecretLockType, deadline, network),
		Mosaic:              mosaic,
		Duration:            duration,
		HashAlgorithm:       alg,
		Secret:              s,
		Recipient:           recipient,
	}, nil
}

// Size implements the Transaction interface.
func (tx *SecretLockTransaction) Size() int { return HeaderSize + tx.bodySize() }

func (tx *SecretLockTransaction) bodySize() int {
	return mosaicSize + 8 + 1 + secretSize + address.DecodedSize
}

func (tx *SecretLockTransaction) fill(t *catbuffer.Table) error {
	recipient, err := tx.Recipient.Bytes()
	if err != nil {
		return err
	}
	t.PutU64("mosaic_id", uint64(tx.Mosaic.ID)).
		PutU64("mosaic_amount", uint64(tx.Mosaic.Amount)).
		PutU64("duration", uint64(tx.Duration)).
		PutU8("hash_algorithm", uint8(tx.HashAlgorithm)).
		PutBytes("secret", tx.Secret.BytesBE()).
		PutBytes("recipient", recipient)
	return nil
}

func (tx *SecretLockTransaction) load(t *catbuffer.Table) error {
	var err error
	if tx.Mosaic, err = readLockedMosaic(t); err != nil {
		return err
	}
	duration, err := t.U64("duration")
	if err != nil {
		return err
	}
	tx.Duration = util.Uint64(duration)
	if tx.HashAlgorithm, tx.Secret, err = readSecret(t); err != nil {
		return err
	}
	tx.Recipient, err = readAddress(t, "recipient")
	return err
}

// SecretProofTransaction reveals the proof unlocking a secret lock.
type SecretProofTransaction struct {
	AbstractTransaction
	HashAlgorithm HashAlgorithm
	Secret        util.Uint256
	Recipient     *address.Address
	Proof         []byte
}

// NewSecretProofTransaction creates a secret proof. Secret and proof are given
// in hex, the proof must hash to the secret.
func NewSecretProofTransaction(deadline Deadline, alg HashAlgorithm, secret string, recipient *address.Address, proof string, network netmode.Type) (*SecretProofTransaction, error) {
	s, err := alg.ParseSecret(secret)
	if err != nil {
		return nil, err
	}
	p, err := hex.DecodeString(proof)
	if err != nil {
		return nil, fmt.Errorf("%w: proof: %v", ErrInvalidSecret, err)
	}
	if len(p) > 0xffff {
		return nil, fmt.Errorf("%w: proof is too big", ErrInvalidSecret)
	}
	expected, err := alg.SecretFromProof(p)
	if err != nil {
		return nil, err
	}
	if !expected.Equals(s) {
		return nil, ErrSecretMismatch
	}
	if recipient == nil {
		return nil, fmt.Errorf("%w: empty recipient", address.ErrInvalidAddressLength)
	}
	return &SecretProofTransaction{
		AbstractTransaction: newAbstract(SecretProofType, deadline, network),
		HashAlgorithm:       alg,
		Secret:              s,
		Recipient:           recipient,
		Proof:               p,
	}, nil
}

// Size implements the Transaction interface.
func (tx *SecretProofTransaction) Size() int { return HeaderSize + tx.bodySize() }

func (tx *SecretProofTransaction) bodySize() int {
	return 1 + secretSize + address.DecodedSize + 2 + len(tx.Proof)
}

func (tx *SecretProofTransaction) fill(t *catbuffer.Table) error {
	recipient, err := tx.Recipient.Bytes()
	if err != nil {
		return err
	}
	t.PutU8("hash_algorithm", uint8(tx.HashAlgorithm)).
		PutBytes("secret", tx.Secret.BytesBE()).
		PutBytes("recipient", recipient).
		PutU16("proof_size", uint16(len(tx.Proof))).
		PutBytes("proof", tx.Proof)
	return nil
}

func (tx *SecretProofTransaction) load(t *catbuffer.Table) error {
	var err error
	if tx.HashAlgorithm, tx.Secret, err = readSecret(t); err != nil {
		return err
	}
	if tx.Recipient, err = readAddress(t, "recipient"); err != nil {
		return err
	}
	proof, err := t.Bytes("proof")
	if err != nil {
		return err
	}
	if len(proof) == 0 {
		proof = nil
	}
	tx.Proof = proof
	return nil
}

func readLockedMosaic(t *catbuffer.Table) (asset.Mosaic, error) {
	id, err := t.U64("mosaic_id")
	if err != nil {
		return asset.Mosaic{}, err
	}
	amount, err := t.U64("mosaic_amount")
	if err != nil {
		return asset.Mosaic{}, err
	}
	return asset.Mosaic{ID: util.Uint64(id), Amount: util.Uint64(amount)}, nil
}

func readSecret(t *catbuffer.Table) (HashAlgorithm, util.Uint256, error) {
	alg, err := t.U8("hash_algorithm")
	if err != nil {
		return 0, util.Uint256{}, err
	}
	b, err := t.Bytes("secret")
	if err != nil {
		return 0, util.Uint256{}, err
	}
	secret, err := util.Uint256DecodeBytes(b)
	return HashAlgorithm(alg), secret, err
}

func parseHash(s string) (util.Uint256, error) {
	h, err := util.Uint256DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("%w: %v", ErrInvalidHashEncoding, err)
	}
	return h, nil
}
