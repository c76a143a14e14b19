// Package transaction contains all transaction kinds along with their
// canonical binary framing, signing and cosigning.
package transaction

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/nspcc-dev/sirius-go/pkg/core/catbuffer"
)

var (
	// ErrEmptySigner is returned when a signer is required but missing.
	ErrEmptySigner = errors.New("empty signer")
	// ErrInvalidHashEncoding is returned for malformed hashes.
	ErrInvalidHashEncoding = errors.New("invalid hash encoding")
	// ErrWrongTransactionKind is returned when an operation is applied to a
	// transaction of an unsuitable type.
	ErrWrongTransactionKind = errors.New("wrong transaction kind")
	// ErrInvalidPayload is returned for payloads that can't be decoded.
	ErrInvalidPayload = errors.New("invalid transaction payload")
	// ErrMissingDeadline is returned when a standalone transaction has no
	// deadline.
	ErrMissingDeadline = errors.New("missing deadline")
)

// Transaction is implemented by every transaction kind of this package.
type Transaction interface {
	// Header returns the common transaction header.
	Header() *AbstractTransaction
	// Size returns the length of the full framing in bytes.
	Size() int

	bodySize() int
	fill(*catbuffer.Table) error
	load(*catbuffer.Table) error
}

type kind struct {
	version  uint8
	full     *catbuffer.Schema
	embedded *catbuffer.Schema
	new      func() Transaction
}

func newKind(version uint8, body *catbuffer.Schema, newTx func() Transaction) *kind {
	attrs := body.Attributes()
	return &kind{
		version:  version,
		full:     fullHeaderSchema.Extend(attrs...),
		embedded: embeddedHeaderSchema.Extend(attrs...),
		new:      newTx,
	}
}

// kinds maps entity types to transaction kinds.
var kinds = map[EntityType]*kind{
	TransferType: newKind(3, transferSchema, func() Transaction { return new(TransferTransaction) }),
	MosaicDefinitionType: newKind(3, mosaicDefinitionSchema,
		func() Transaction { return new(MosaicDefinitionTransaction) }),
	MosaicSupplyChangeType: newKind(2, mosaicSupplyChangeSchema,
		func() Transaction { return new(MosaicSupplyChangeTransaction) }),
	RegisterNamespaceType: newKind(2, registerNamespaceSchema,
		func() Transaction { return new(RegisterNamespaceTransaction) }),
	AddressAliasType: newKind(1, addressAliasSchema, func() Transaction { return new(AddressAliasTransaction) }),
	MosaicAliasType:  newKind(1, mosaicAliasSchema, func() Transaction { return new(MosaicAliasTransaction) }),
	LockType:         newKind(1, lockFundsSchema, func() Transaction { return new(LockFundsTransaction) }),
	SecretLockType:   newKind(1, secretLockSchema, func() Transaction { return new(SecretLockTransaction) }),
	SecretProofType:  newKind(1, secretProofSchema, func() Transaction { return new(SecretProofTransaction) }),
	ModifyMultisigType: newKind(3, modifyMultisigSchema,
		func() Transaction { return new(ModifyMultisigAccountTransaction) }),
	AccountLinkType: newKind(2, accountLinkSchema, func() Transaction { return new(AccountLinkTransaction) }),
	AccountPropertyAddressType: newKind(1, accountPropertiesSchema(addressValueSize),
		func() Transaction { return new(AccountPropertiesAddressTransaction) }),
	AccountPropertyMosaicType: newKind(1, accountPropertiesSchema(mosaicValueSize),
		func() Transaction { return new(AccountPropertiesMosaicTransaction) }),
	AccountPropertyEntityTypeType: newKind(1, accountPropertiesSchema(entityTypeValueSize),
		func() Transaction { return new(AccountPropertiesEntityTypeTransaction) }),
	AggregateCompleteType: newKind(2, aggregateSchema, func() Transaction { return new(AggregateTransaction) }),
	AggregateBondedType:   newKind(2, aggregateSchema, func() Transaction { return new(AggregateTransaction) }),
	NetworkConfigType: newKind(1, networkConfigSchema,
		func() Transaction { return new(NetworkConfigTransaction) }),
	BlockchainUpgradeType: newKind(1, blockchainUpgradeSchema,
		func() Transaction { return new(BlockchainUpgradeTransaction) }),
}

func kindOf(tx Transaction) (*kind, error) {
	k, ok := kinds[tx.Header().Type]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntityType, tx.Header().Type)
	}
	return k, nil
}

// EmbeddedSize returns the length of the embedded framing of tx in bytes.
func EmbeddedSize(tx Transaction) int {
	return EmbeddedHeaderSize + tx.bodySize()
}

// Bytes returns the full framing of tx. Signature and signer are zero-filled
// for unsigned transactions.
func Bytes(tx Transaction) ([]byte, error) {
	k, err := kindOf(tx)
	if err != nil {
		return nil, err
	}
	if tx.Header().Deadline.IsZero() {
		return nil, ErrMissingDeadline
	}
	t := catbuffer.NewTable()
	if err := tx.Header().fillHeader(t, tx.Size(), false); err != nil {
		return nil, err
	}
	if err := tx.fill(t); err != nil {
		return nil, err
	}
	return k.full.Serialize(t)
}

// EmbeddedBytes returns the framing of tx used inside aggregates.
func EmbeddedBytes(tx Transaction) ([]byte, error) {
	k, err := kindOf(tx)
	if err != nil {
		return nil, err
	}
	if tx.Header().Type.IsAggregate() {
		return nil, fmt.Errorf("%w: aggregates can't be embedded", ErrWrongTransactionKind)
	}
	t := catbuffer.NewTable()
	if err := tx.Header().fillHeader(t, EmbeddedSize(tx), true); err != nil {
		return nil, err
	}
	if err := tx.fill(t); err != nil {
		return nil, err
	}
	return k.embedded.Serialize(t)
}

// Decode rebuilds a transaction from its full framing.
func Decode(payload []byte) (Transaction, error) {
	if len(payload) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes is less than a header", ErrInvalidPayload, len(payload))
	}
	typ := EntityType(binary.LittleEndian.Uint16(payload[TypeOffset:]))
	return decode(payload, typ, false)
}

// DecodeEmbedded rebuilds a transaction from the beginning of data in the
// embedded framing and returns the number of bytes consumed.
func DecodeEmbedded(data []byte) (Transaction, int, error) {
	if len(data) < EmbeddedHeaderSize {
		return nil, 0, fmt.Errorf("%w: %d bytes is less than a header", ErrInvalidPayload, len(data))
	}
	size := int(binary.LittleEndian.Uint32(data))
	if size < EmbeddedHeaderSize || size > len(data) {
		return nil, 0, fmt.Errorf("%w: bad embedded size %d", ErrInvalidPayload, size)
	}
	typ := EntityType(binary.LittleEndian.Uint16(data[embeddedTypeOffset:]))
	if typ.IsAggregate() {
		return nil, 0, fmt.Errorf("%w: aggregates can't be embedded", ErrWrongTransactionKind)
	}
	tx, err := decode(data[:size], typ, true)
	if err != nil {
		return nil, 0, err
	}
	return tx, size, nil
}

func decode(data []byte, typ EntityType, embedded bool) (Transaction, error) {
	k, ok := kinds[typ]
	if !ok {
		return nil, fmt.Errorf("%w: 0x%04X", ErrUnknownEntityType, uint16(typ))
	}
	schema := k.full
	if embedded {
		schema = k.embedded
	}
	t, n, err := schema.Deserialize(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	size, err := t.U32("size")
	if err != nil {
		return nil, err
	}
	if n != len(data) || int(size) != len(data) {
		return nil, fmt.Errorf("%w: size field %d, decoded %d of %d bytes", ErrInvalidPayload, size, n, len(data))
	}
	tx := k.new()
	if err := tx.Header().loadHeader(t, embedded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if err := tx.load(t); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return tx, nil
}
