package dto

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/nspcc-dev/sirius-go/pkg/core/asset"
	"github.com/nspcc-dev/sirius-go/pkg/core/transaction"
	"github.com/nspcc-dev/sirius-go/pkg/crypto/keys"
	"github.com/nspcc-dev/sirius-go/pkg/encoding/address"
	"github.com/nspcc-dev/sirius-go/pkg/util"
)

type (
	messageDTO struct {
		Type    transaction.MessageType `json:"type"`
		Payload string                  `json:"payload"`
	}

	transferDTO struct {
		Recipient string         `json:"recipient"`
		Message   *messageDTO    `json:"message"`
		Mosaics   []asset.Mosaic `json:"mosaics"`
	}

	mosaicDefinitionDTO struct {
		MosaicNonce int32                  `json:"mosaicNonce"`
		MosaicID    asset.MosaicID         `json:"mosaicId"`
		Properties  []asset.MosaicProperty `json:"properties"`
	}

	mosaicSupplyChangeDTO struct {
		MosaicID  util.Uint64                  `json:"mosaicId"`
		Direction transaction.MosaicSupplyType `json:"direction"`
		Delta     util.Uint64                  `json:"delta"`
	}

	registerNamespaceDTO struct {
		NamespaceType asset.NamespaceType `json:"namespaceType"`
		NamespaceID   asset.NamespaceID   `json:"namespaceId"`
		Name          string              `json:"name"`
		Duration      util.Uint64         `json:"duration"`
		ParentID      asset.NamespaceID   `json:"parentId"`
	}

	addressAliasDTO struct {
		AliasAction asset.AliasAction `json:"aliasAction"`
		NamespaceID asset.NamespaceID `json:"namespaceId"`
		Address     string            `json:"address"`
	}

	mosaicAliasDTO struct {
		AliasAction asset.AliasAction `json:"aliasAction"`
		NamespaceID asset.NamespaceID `json:"namespaceId"`
		MosaicID    asset.MosaicID    `json:"mosaicId"`
	}

	// lockedMosaicDTO accepts both the flat mosaicId/amount form and the
	// nested mosaic object.
	lockedMosaicDTO struct {
		MosaicID util.Uint64   `json:"mosaicId"`
		Amount   util.Uint64   `json:"amount"`
		Mosaic   *asset.Mosaic `json:"mosaic,omitempty"`
		Duration util.Uint64   `json:"duration"`
	}

	lockFundsDTO struct {
		lockedMosaicDTO
		Hash string `json:"hash"`
	}

	secretLockDTO struct {
		lockedMosaicDTO
		HashAlgorithm transaction.HashAlgorithm `json:"hashAlgorithm"`
		Secret        string                    `json:"secret"`
		Recipient     string                    `json:"recipient"`
	}

	secretProofDTO struct {
		HashAlgorithm transaction.HashAlgorithm `json:"hashAlgorithm"`
		Secret        string                    `json:"secret"`
		Recipient     string                    `json:"recipient"`
		Proof         string                    `json:"proof"`
	}

	cosignatoryModificationDTO struct {
		Type                 transaction.ModificationType `json:"type"`
		CosignatoryPublicKey string                       `json:"cosignatoryPublicKey"`
	}

	modifyMultisigDTO struct {
		MinApprovalDelta int8                         `json:"minApprovalDelta"`
		MinRemovalDelta  int8                         `json:"minRemovalDelta"`
		Modifications    []cosignatoryModificationDTO `json:"modifications"`
	}

	accountLinkDTO struct {
		RemoteAccountKey string                        `json:"remoteAccountKey"`
		Action           transaction.AccountLinkAction `json:"action"`
	}

	propertyModificationDTO struct {
		Type  transaction.ModificationType `json:"type"`
		Value json.RawMessage              `json:"value"`
	}

	accountPropertiesDTO struct {
		PropertyType  transaction.PropertyType  `json:"propertyType"`
		Modifications []propertyModificationDTO `json:"modifications"`
	}

	accountPropertiesAddressDTO    struct{ accountPropertiesDTO }
	accountPropertiesMosaicDTO     struct{ accountPropertiesDTO }
	accountPropertiesEntityTypeDTO struct{ accountPropertiesDTO }

	networkConfigDTO struct {
		ApplyHeightDelta        util.Uint64 `json:"applyHeightDelta"`
		NetworkConfig           string      `json:"networkConfig"`
		SupportedEntityVersions string      `json:"supportedEntityVersions"`
	}

	blockchainUpgradeDTO struct {
		UpgradePeriod        util.Uint64 `json:"upgradePeriod"`
		NewBlockchainVersion util.Uint64 `json:"newBlockChainVersion"`
	}

	cosignatureDTO struct {
		Signature string `json:"signature"`
		Signer    string `json:"signer"`
	}

	aggregateDTO struct {
		Transactions []envelope       `json:"transactions"`
		Cosignatures []cosignatureDTO `json:"cosignatures"`
	}
)

// parseAddress accepts both hex encoded and raw base32 addresses.
func parseAddress(s string) (*address.Address, error) {
	if len(s) == address.EncodedSize {
		return address.FromEncoded(s)
	}
	return address.FromRaw(s)
}

func decodeHex(field, s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	if len(b) == 0 {
		return nil, nil
	}
	return b, nil
}

func (d *transferDTO) toTransaction(h transaction.AbstractTransaction) (transaction.Transaction, error) {
	recipient, err := parseAddress(d.Recipient)
	if err != nil {
		return nil, err
	}
	tx := &transaction.TransferTransaction{
		AbstractTransaction: h,
		Recipient:           recipient,
	}
	if len(d.Mosaics) > 0 {
		tx.Mosaics = d.Mosaics
	}
	if d.Message != nil {
		payload, err := decodeHex("message", d.Message.Payload)
		if err != nil {
			return nil, err
		}
		tx.Message = transaction.Message{Type: d.Message.Type, Payload: payload}
	}
	return tx, nil
}

func (d *mosaicDefinitionDTO) toTransaction(h transaction.AbstractTransaction) (transaction.Transaction, error) {
	props, err := asset.MosaicPropertiesFromList(d.Properties)
	if err != nil {
		return nil, err
	}
	return &transaction.MosaicDefinitionTransaction{
		AbstractTransaction: h,
		Nonce:               asset.NewMosaicNonce(uint32(d.MosaicNonce)),
		MosaicID:            d.MosaicID,
		Properties:          *props,
	}, nil
}

func (d *mosaicSupplyChangeDTO) toTransaction(h transaction.AbstractTransaction) (transaction.Transaction, error) {
	return &transaction.MosaicSupplyChangeTransaction{
		AbstractTransaction: h,
		AssetID:             d.MosaicID,
		Direction:           d.Direction,
		Delta:               d.Delta,
	}, nil
}

func (d *registerNamespaceDTO) toTransaction(h transaction.AbstractTransaction) (transaction.Transaction, error) {
	tx := &transaction.RegisterNamespaceTransaction{
		AbstractTransaction: h,
		NamespaceType:       d.NamespaceType,
		NamespaceID:         d.NamespaceID,
		Name:                d.Name,
	}
	switch d.NamespaceType {
	case asset.RootNamespace:
		tx.Duration = d.Duration
	case asset.SubNamespace:
		tx.ParentID = d.ParentID
	default:
		return nil, fmt.Errorf("unknown namespace type %d", d.NamespaceType)
	}
	return tx, nil
}

func (d *addressAliasDTO) toTransaction(h transaction.AbstractTransaction) (transaction.Transaction, error) {
	addr, err := parseAddress(d.Address)
	if err != nil {
		return nil, err
	}
	return &transaction.AddressAliasTransaction{
		AbstractTransaction: h,
		ActionType:          d.AliasAction,
		NamespaceID:         d.NamespaceID,
		Address:             addr,
	}, nil
}

func (d *mosaicAliasDTO) toTransaction(h transaction.AbstractTransaction) (transaction.Transaction, error) {
	return &transaction.MosaicAliasTransaction{
		AbstractTransaction: h,
		ActionType:          d.AliasAction,
		NamespaceID:         d.NamespaceID,
		MosaicID:            d.MosaicID,
	}, nil
}

func (d *lockedMosaicDTO) mosaic() asset.Mosaic {
	if d.Mosaic != nil {
		return *d.Mosaic
	}
	return asset.Mosaic{ID: d.MosaicID, Amount: d.Amount}
}

func (d *lockFundsDTO) toTransaction(h transaction.AbstractTransaction) (transaction.Transaction, error) {
	hash, err := ParseHash(d.Hash)
	if err != nil {
		return nil, err
	}
	return &transaction.LockFundsTransaction{
		AbstractTransaction: h,
		Mosaic:              d.mosaic(),
		Duration:            d.Duration,
		Hash:                hash,
	}, nil
}

func (d *secretLockDTO) toTransaction(h transaction.AbstractTransaction) (transaction.Transaction, error) {
	secret, err := d.HashAlgorithm.ParseSecret(d.Secret)
	if err != nil {
		return nil, err
	}
	recipient, err := parseAddress(d.Recipient)
	if err != nil {
		return nil, err
	}
	return &transaction.SecretLockTransaction{
		AbstractTransaction: h,
		Mosaic:              d.mosaic(),
		Duration:            d.Duration,
		HashAlgorithm:       d.HashAlgorithm,
		Secret:              secret,
		Recipient:           recipient,
	}, nil
}

func (d *secretProofDTO) toTransaction(h transaction.AbstractTransaction) (transaction.Transaction, error) {
	secret, err := d.HashAlgorithm.ParseSecret(d.Secret)
	if err != nil {
		return nil, err
	}
	recipient, err := parseAddress(d.Recipient)
	if err != nil {
		return nil, err
	}
	proof, err := decodeHex("proof", d.Proof)
	if err != nil {
		return nil, err
	}
	return &transaction.SecretProofTransaction{
		AbstractTransaction: h,
		HashAlgorithm:       d.HashAlgorithm,
		Secret:              secret,
		Recipient:           recipient,
		Proof:               proof,
	}, nil
}

func (d *modifyMultisigDTO) toTransaction(h transaction.AbstractTransaction) (transaction.Transaction, error) {
	tx := &transaction.ModifyMultisigAccountTransaction{
		AbstractTransaction: h,
		MinApprovalDelta:    d.MinApprovalDelta,
		MinRemovalDelta:     d.MinRemovalDelta,
	}
	for _, m := range d.Modifications {
		pub, err := keys.NewPublicKeyFromString(m.CosignatoryPublicKey)
		if err != nil {
			return nil, err
		}
		tx.Modifications = append(tx.Modifications, &transaction.CosignatoryModification{Type: m.Type, PublicKey: pub})
	}
	return tx, nil
}

func (d *accountLinkDTO) toTransaction(h transaction.AbstractTransaction) (transaction.Transaction, error) {
	pub, err := keys.NewPublicKeyFromString(d.RemoteAccountKey)
	if err != nil {
		return nil, err
	}
	return &transaction.AccountLinkTransaction{
		AbstractTransaction: h,
		RemoteAccountKey:    pub,
		LinkAction:          d.Action,
	}, nil
}

func (d *accountPropertiesAddressDTO) toTransaction(h transaction.AbstractTransaction) (transaction.Transaction, error) {
	tx := &transaction.AccountPropertiesAddressTransaction{
		AbstractTransaction: h,
		PropertyType:        d.PropertyType,
	}
	for _, m := range d.Modifications {
		var s string
		if err := json.Unmarshal(m.Value, &s); err != nil {
			return nil, err
		}
		addr, err := parseAddress(s)
		if err != nil {
			return nil, err
		}
		tx.Modifications = append(tx.Modifications, &transaction.AccountPropertiesAddressModification{
			ModificationType: m.Type,
			Address:          addr,
		})
	}
	return tx, nil
}

func (d *accountPropertiesMosaicDTO) toTransaction(h transaction.AbstractTransaction) (transaction.Transaction, error) {
	tx := &transaction.AccountPropertiesMosaicTransaction{
		AbstractTransaction: h,
		PropertyType:        d.PropertyType,
	}
	for _, m := range d.Modifications {
		var id util.Uint64
		if err := json.Unmarshal(m.Value, &id); err != nil {
			return nil, err
		}
		tx.Modifications = append(tx.Modifications, &transaction.AccountPropertiesMosaicModification{
			ModificationType: m.Type,
			AssetID:          id,
		})
	}
	return tx, nil
}

func (d *accountPropertiesEntityTypeDTO) toTransaction(h transaction.AbstractTransaction) (transaction.Transaction, error) {
	tx := &transaction.AccountPropertiesEntityTypeTransaction{
		AbstractTransaction: h,
		PropertyType:        d.PropertyType,
	}
	for _, m := range d.Modifications {
		var t transaction.EntityType
		if err := json.Unmarshal(m.Value, &t); err != nil {
			return nil, err
		}
		tx.Modifications = append(tx.Modifications, &transaction.AccountPropertiesEntityTypeModification{
			ModificationType: m.Type,
			EntityType:       t,
		})
	}
	return tx, nil
}

func (d *networkConfigDTO) toTransaction(h transaction.AbstractTransaction) (transaction.Transaction, error) {
	return &transaction.NetworkConfigTransaction{
		AbstractTransaction:     h,
		ApplyHeightDelta:        d.ApplyHeightDelta,
		NetworkConfig:           d.NetworkConfig,
		SupportedEntityVersions: d.SupportedEntityVersions,
	}, nil
}

func (d *blockchainUpgradeDTO) toTransaction(h transaction.AbstractTransaction) (transaction.Transaction, error) {
	return &transaction.BlockchainUpgradeTransaction{
		AbstractTransaction:  h,
		UpgradePeriod:        d.UpgradePeriod,
		NewBlockchainVersion: d.NewBlockchainVersion,
	}, nil
}

func (d *aggregateDTO) toTransaction(h transaction.AbstractTransaction) (transaction.Transaction, error) {
	tx := &transaction.AggregateTransaction{AbstractTransaction: h}
	for i := range d.Transactions {
		inner, err := d.Transactions[i].resolve()
		if err != nil {
			return nil, fmt.Errorf("inner transaction %d: %w", i, err)
		}
		if inner.Header().Type.IsAggregate() {
			return nil, fmt.Errorf("%w: inner transaction %d is an aggregate", transaction.ErrWrongTransactionKind, i)
		}
		tx.InnerTransactions = append(tx.InnerTransactions, inner)
	}
	for i, c := range d.Cosignatures {
		signer, err := keys.NewPublicKeyFromString(c.Signer)
		if err != nil {
			return nil, fmt.Errorf("cosignature %d: %w", i, err)
		}
		sig, err := decodeHex("cosignature", c.Signature)
		if err != nil {
			return nil, err
		}
		tx.Cosignatures = append(tx.Cosignatures, &transaction.Cosignature{Signer: signer, Signature: sig})
	}
	return tx, nil
}

