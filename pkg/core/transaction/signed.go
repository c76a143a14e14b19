package transaction

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/nspcc-dev/sirius-go/pkg/crypto/hash"
	"github.com/nspcc-dev/sirius-go/pkg/crypto/keys"
	"github.com/nspcc-dev/sirius-go/pkg/util"
)

// SignedTransaction is a transaction ready to be announced.
type SignedTransaction struct {
	EntityType EntityType `json:"-"`
	// Payload is the upper-case hex of the full framing.
	Payload string `json:"payload"`
	// Hash is the upper-case hex transaction hash.
	Hash string `json:"-"`
}

// CosignatureSignedTransaction is a cosignature of an announced aggregate
// bonded transaction.
type CosignatureSignedTransaction struct {
	ParentHash string `json:"parentHash"`
	Signature  string `json:"signature"`
	Signer     string `json:"signer"`
}

// Sign signs tx for the network identified by the hex generation hash. The
// transaction header gets its signature and signer populated.
func Sign(tx Transaction, key *keys.PrivateKey, generationHash string) (*SignedTransaction, error) {
	if key == nil {
		return nil, ErrEmptySigner
	}
	genHash, err := parseHash(generationHash)
	if err != nil {
		return nil, err
	}
	h := tx.Header()
	b, err := Bytes(tx)
	if err != nil {
		return nil, err
	}
	verifiable := b[VerifiableOffset:signedEnd(tx, b)]

	signingData := make([]byte, 0, len(genHash)+len(verifiable))
	signingData = append(signingData, genHash[:]...)
	signingData = append(signingData, verifiable...)
	signature := key.Sign(signingData)
	pub := key.PublicKey()

	copy(b[SignatureOffset:SignerOffset], signature)
	copy(b[SignerOffset:VerifiableOffset], pub[:])

	h.Signature = signature
	h.Signer = pub
	txHash, err := Hash(b[:signedEnd(tx, b)], genHash)
	if err != nil {
		return nil, err
	}
	return &SignedTransaction{
		EntityType: h.Type,
		Payload:    strings.ToUpper(hex.EncodeToString(b)),
		Hash:       txHash.String(),
	}, nil
}

// signedEnd is the end of the part of b covered by the signature, aggregate
// cosignatures are excluded.
func signedEnd(tx Transaction, b []byte) int {
	if agg, ok := tx.(*AggregateTransaction); ok {
		return len(b) - len(agg.Cosignatures)*CosignatureSize
	}
	return len(b)
}

// Hash computes the hash of a signed full framing: half of the signature,
// signer, generation hash and the verifiable part of the payload.
func Hash(payload []byte, generationHash util.Uint256) (util.Uint256, error) {
	if len(payload) < HeaderSize {
		return util.Uint256{}, fmt.Errorf("%w: %d bytes is less than a header", ErrInvalidPayload, len(payload))
	}
	data := make([]byte, 0, HalfSignatureSize+SignerSize+len(generationHash)+len(payload)-VerifiableOffset)
	data = append(data, payload[SignatureOffset:SignatureOffset+HalfSignatureSize]...)
	data = append(data, payload[SignerOffset:VerifiableOffset]...)
	data = append(data, generationHash[:]...)
	data = append(data, payload[VerifiableOffset:]...)
	return hash.Sha3_256(data), nil
}

// CosignAggregateBonded appends signatures of cosigners over the transaction
// hash to a signed aggregate bonded transaction. The input is not modified,
// the hash stays the same.
func CosignAggregateBonded(signed *SignedTransaction, cosigners []*keys.PrivateKey) (*SignedTransaction, error) {
	if signed == nil || signed.EntityType != AggregateBondedType {
		return nil, fmt.Errorf("%w: only aggregate bonded transactions can be cosigned", ErrWrongTransactionKind)
	}
	return AppendCosignatures(signed, cosigners)
}

// AppendCosignatures appends signatures of cosigners over the transaction
// hash to a signed aggregate and fixes the size prefix.
func AppendCosignatures(signed *SignedTransaction, cosigners []*keys.PrivateKey) (*SignedTransaction, error) {
	if signed == nil {
		return nil, fmt.Errorf("%w: no signed transaction", ErrWrongTransactionKind)
	}
	if !signed.EntityType.IsAggregate() {
		return nil, fmt.Errorf("%w: %s is not an aggregate", ErrWrongTransactionKind, signed.EntityType)
	}
	txHash, err := parseHash(signed.Hash)
	if err != nil {
		return nil, err
	}
	payload, err := hex.DecodeString(signed.Payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if len(payload) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes is less than a header", ErrInvalidPayload, len(payload))
	}
	b := make([]byte, len(payload), len(payload)+len(cosigners)*CosignatureSize)
	copy(b, payload)
	for _, c := range cosigners {
		if c == nil {
			return nil, ErrEmptySigner
		}
		pub := c.PublicKey()
		b = append(b, pub[:]...)
		b = append(b, c.Sign(txHash[:])...)
	}
	binary.LittleEndian.PutUint32(b, uint32(len(b)))
	return &SignedTransaction{
		EntityType: signed.EntityType,
		Payload:    strings.ToUpper(hex.EncodeToString(b)),
		Hash:       signed.Hash,
	}, nil
}

// SignCosignature signs the hash of an announced aggregate bonded
// transaction.
func SignCosignature(key *keys.PrivateKey, parentHash string) (*CosignatureSignedTransaction, error) {
	if key == nil {
		return nil, ErrEmptySigner
	}
	h, err := parseHash(parentHash)
	if err != nil {
		return nil, err
	}
	return &CosignatureSignedTransaction{
		ParentHash: h.String(),
		Signature:  strings.ToUpper(hex.EncodeToString(key.Sign(h[:]))),
		Signer:     key.PublicKey().String(),
	}, nil
}

// SignWithCosignatories signs an aggregate with key and appends the
// cosignatures of cosigners.
func SignWithCosignatories(tx *AggregateTransaction, key *keys.PrivateKey, cosigners []*keys.PrivateKey, generationHash string) (*SignedTransaction, error) {
	signed, err := Sign(tx, key, generationHash)
	if err != nil {
		return nil, err
	}
	return AppendCosignatures(signed, cosigners)
}
