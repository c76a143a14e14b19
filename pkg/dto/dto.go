/*
Package dto resolves transaction JSON returned by the REST gateway into typed
transactions.

Every transaction is delivered in an envelope of network metadata and the
transaction itself:

	{"meta": {...}, "transaction": {"type": 16724, ...}}

The type field selects the concrete DTO through a static table, aggregates
resolve their embedded transactions recursively.
*/
package dto

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/nspcc-dev/sirius-go/pkg/config/netmode"
	"github.com/nspcc-dev/sirius-go/pkg/core/transaction"
	"github.com/nspcc-dev/sirius-go/pkg/crypto/keys"
	"github.com/nspcc-dev/sirius-go/pkg/util"
)

// ErrUnknownTransactionType is returned for transaction types that have no
// DTO.
var ErrUnknownTransactionType = errors.New("unknown transaction type")

type (
	// body is implemented by every transaction DTO.
	body interface {
		toTransaction(header transaction.AbstractTransaction) (transaction.Transaction, error)
	}

	kind struct {
		tag string
		new func() body
	}
)

// kinds maps entity types to their DTOs.
var kinds = map[transaction.EntityType]kind{
	transaction.TransferType:                  {"Transfer", func() body { return new(transferDTO) }},
	transaction.MosaicDefinitionType:          {"MosaicDefinition", func() body { return new(mosaicDefinitionDTO) }},
	transaction.MosaicSupplyChangeType:        {"MosaicSupplyChange", func() body { return new(mosaicSupplyChangeDTO) }},
	transaction.RegisterNamespaceType:         {"RegisterNamespace", func() body { return new(registerNamespaceDTO) }},
	transaction.AddressAliasType:              {"AddressAlias", func() body { return new(addressAliasDTO) }},
	transaction.MosaicAliasType:               {"MosaicAlias", func() body { return new(mosaicAliasDTO) }},
	transaction.LockType:                      {"HashLock", func() body { return new(lockFundsDTO) }},
	transaction.SecretLockType:                {"SecretLock", func() body { return new(secretLockDTO) }},
	transaction.SecretProofType:               {"SecretProof", func() body { return new(secretProofDTO) }},
	transaction.ModifyMultisigType:            {"ModifyMultisigAccount", func() body { return new(modifyMultisigDTO) }},
	transaction.AccountLinkType:               {"AccountLink", func() body { return new(accountLinkDTO) }},
	transaction.AccountPropertyAddressType:    {"AccountPropertiesAddress", func() body { return new(accountPropertiesAddressDTO) }},
	transaction.AccountPropertyMosaicType:     {"AccountPropertiesMosaic", func() body { return new(accountPropertiesMosaicDTO) }},
	transaction.AccountPropertyEntityTypeType: {"AccountPropertiesEntityType", func() body { return new(accountPropertiesEntityTypeDTO) }},
	transaction.AggregateCompleteType:         {"Aggregate", func() body { return new(aggregateDTO) }},
	transaction.AggregateBondedType:           {"Aggregate", func() body { return new(aggregateDTO) }},
	transaction.NetworkConfigType:             {"NetworkConfig", func() body { return new(networkConfigDTO) }},
	transaction.BlockchainUpgradeType:         {"BlockchainUpgrade", func() body { return new(blockchainUpgradeDTO) }},
}

// KindOf returns the DTO kind name for the entity type.
func KindOf(t transaction.EntityType) (string, error) {
	k, ok := kinds[t]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnknownTransactionType, uint16(t))
	}
	return k.tag, nil
}

type envelope struct {
	Meta        *metaDTO        `json:"meta"`
	Transaction json.RawMessage `json:"transaction"`
}

type metaDTO struct {
	Height              util.Uint64 `json:"height"`
	Index               uint32      `json:"index"`
	ID                  string      `json:"id"`
	Hash                string      `json:"hash"`
	MerkleComponentHash string      `json:"merkleComponentHash"`
	AggregateHash       string      `json:"aggregateHash,omitempty"`
	AggregateID         string      `json:"aggregateId,omitempty"`
}

type headerDTO struct {
	Signature string      `json:"signature"`
	Signer    string      `json:"signer"`
	Version   int32       `json:"version"`
	Type      int64       `json:"type"`
	MaxFee    util.Uint64 `json:"maxFee"`
	Deadline  util.Uint64 `json:"deadline"`
}

// Resolve converts a single transaction envelope into a typed transaction.
func Resolve(data []byte) (transaction.Transaction, error) {
	var e envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return e.resolve()
}

// ResolveBatch converts a JSON array of transaction envelopes preserving
// their order. Nothing is returned if any of them fails.
func ResolveBatch(data []byte) ([]transaction.Transaction, error) {
	var envelopes []envelope
	if err := json.Unmarshal(data, &envelopes); err != nil {
		return nil, err
	}
	res := make([]transaction.Transaction, len(envelopes))
	for i := range envelopes {
		tx, err := envelopes[i].resolve()
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		res[i] = tx
	}
	return res, nil
}

func (e *envelope) resolve() (transaction.Transaction, error) {
	if len(e.Transaction) == 0 {
		return nil, errors.New("missing transaction")
	}
	var h headerDTO
	if err := json.Unmarshal(e.Transaction, &h); err != nil {
		return nil, err
	}
	k, ok := h.kind()
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTransactionType, h.Type)
	}
	header, err := h.toHeader()
	if err != nil {
		return nil, err
	}
	if e.Meta != nil {
		if header.Info, err = e.Meta.toInfo(); err != nil {
			return nil, err
		}
	}
	b := k.new()
	if err := json.Unmarshal(e.Transaction, b); err != nil {
		return nil, fmt.Errorf("%s: %w", k.tag, err)
	}
	tx, err := b.toTransaction(header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", k.tag, err)
	}
	return tx, nil
}

// kind looks the type up, values outside the entity type range are unknown.
func (h *headerDTO) kind() (kind, bool) {
	if h.Type < 0 || h.Type > math.MaxUint16 {
		return kind{}, false
	}
	k, ok := kinds[transaction.EntityType(h.Type)]
	return k, ok
}

func (h *headerDTO) toHeader() (transaction.AbstractTransaction, error) {
	version := uint32(h.Version)
	network, err := netmode.FromByte(byte(version >> 24))
	if err != nil {
		return transaction.AbstractTransaction{}, err
	}
	res := transaction.AbstractTransaction{
		Network: network,
		Type:    transaction.EntityType(h.Type),
		Version: uint8(version),
		MaxFee:  h.MaxFee,
	}
	if h.Deadline != 0 {
		res.Deadline = transaction.NewDeadlineFromTimestamp(uint64(h.Deadline))
	}
	if h.Signer != "" {
		if res.Signer, err = keys.NewPublicKeyFromString(h.Signer); err != nil {
			return res, fmt.Errorf("signer: %w", err)
		}
	}
	if h.Signature != "" {
		sig, err := hex.DecodeString(h.Signature)
		if err != nil {
			return res, fmt.Errorf("signature: %w", err)
		}
		if len(sig) != keys.SignatureSize {
			return res, fmt.Errorf("signature: bad length %d", len(sig))
		}
		res.Signature = sig
	}
	return res, nil
}

func (m *metaDTO) toInfo() (*transaction.TransactionInfo, error) {
	info := &transaction.TransactionInfo{
		Height:      m.Height,
		Index:       m.Index,
		ID:          m.ID,
		AggregateID: m.AggregateID,
	}
	for _, f := range []struct {
		s   string
		dst *util.Uint256
	}{
		{m.Hash, &info.Hash},
		{m.MerkleComponentHash, &info.MerkleComponentHash},
		{m.AggregateHash, &info.AggregateHash},
	} {
		if f.s == "" {
			continue
		}
		h, err := ParseHash(f.s)
		if err != nil {
			return nil, err
		}
		*f.dst = h
	}
	return info, nil
}
