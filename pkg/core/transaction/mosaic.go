package transaction

import (
	"fmt"

	"github.com/nspcc-dev/sirius-go/pkg/config/netmode"
	"github.com/nspcc-dev/sirius-go/pkg/core/asset"
	"github.com/nspcc-dev/sirius-go/pkg/core/catbuffer"
	"github.com/nspcc-dev/sirius-go/pkg/crypto/keys"
	"github.com/nspcc-dev/sirius-go/pkg/util"
)

const mosaicPropertySize = 9

var (
	mosaicPropertySchema = catbuffer.NewSchema(
		catbuffer.Scalar("id", 1),
		catbuffer.Scalar("value", 8),
	)
	mosaicDefinitionSchema = catbuffer.NewSchema(
		catbuffer.Scalar("mosaic_nonce", 4),
		catbuffer.Scalar("mosaic_id", 8),
		catbuffer.Scalar("num_optional_properties", 1),
		catbuffer.Scalar("flags", 1),
		catbuffer.Scalar("divisibility", 1),
		catbuffer.TableArray("properties", mosaicPropertySchema, catbuffer.CountOf("num_optional_properties")),
	)
	mosaicSupplyChangeSchema = catbuffer.NewSchema(
		catbuffer.Scalar("mosaic_id", 8),
		catbuffer.Scalar("direction", 1),
		catbuffer.Scalar("delta", 8),
	)
)

// MosaicDefinitionTransaction defines a new mosaic.
type MosaicDefinitionTransaction struct {
	AbstractTransaction
	Nonce      asset.MosaicNonce
	MosaicID   asset.MosaicID
	Properties asset.MosaicProperties
}

// NewMosaicDefinitionTransaction creates a mosaic definition. The mosaic id is
// derived from the nonce and the owner key.
func NewMosaicDefinitionTransaction(deadline Deadline, nonce asset.MosaicNonce, owner *keys.PublicKey, props asset.MosaicProperties, network netmode.Type) (*MosaicDefinitionTransaction, error) {
	if owner == nil {
		return nil, ErrEmptySigner
	}
	if props.Divisibility > asset.MaxDivisibility {
		return nil, fmt.Errorf("%w: %d", asset.ErrInvalidDivisibility, props.Divisibility)
	}
	return &MosaicDefinitionTransaction{
		AbstractTransaction: newAbstract(MosaicDefinitionType, deadline, network),
		Nonce:               nonce,
		MosaicID:            asset.NewMosaicIDFromNonceAndOwner(nonce, owner),
		Properties:          props,
	}, nil
}

// Size implements the Transaction interface.
func (tx *MosaicDefinitionTransaction) Size() int { return HeaderSize + tx.bodySize() }

func (tx *MosaicDefinitionTransaction) bodySize() int {
	return 4 + 8 + 1 + 1 + 1 + len(tx.Properties.OptionalProperties())*mosaicPropertySize
}

func (tx *MosaicDefinitionTransaction) fill(t *catbuffer.Table) error {
	optional := tx.Properties.OptionalProperties()
	props := make([]*catbuffer.Table, len(optional))
	for i, p := range optional {
		props[i] = catbuffer.NewTable().PutU8("id", uint8(p.ID)).PutU64("value", uint64(p.Value))
	}
	t.PutBytes("mosaic_nonce", tx.Nonce[:]).
		PutU64("mosaic_id", uint64(tx.MosaicID)).
		PutU8("num_optional_properties", uint8(len(optional))).
		PutU8("flags", tx.Properties.Flags()).
		PutU8("divisibility", tx.Properties.Divisibility).
		PutTables("properties", props)
	return nil
}

func (tx *MosaicDefinitionTransaction) load(t *catbuffer.Table) error {
	nonce, err := t.Bytes("mosaic_nonce")
	if err != nil {
		return err
	}
	copy(tx.Nonce[:], nonce)
	id, err := t.U64("mosaic_id")
	if err != nil {
		return err
	}
	tx.MosaicID = asset.MosaicID(id)
	flags, err := t.U8("flags")
	if err != nil {
		return err
	}
	divisibility, err := t.U8("divisibility")
	if err != nil {
		return err
	}
	list := []asset.MosaicProperty{
		{ID: asset.PropertyFlags, Value: util.Uint64(flags)},
		{ID: asset.PropertyDivisibility, Value: util.Uint64(divisibility)},
	}
	props, err := t.Tables("properties")
	if err != nil {
		return err
	}
	for _, p := range props {
		id, err := p.U8("id")
		if err != nil {
			return err
		}
		value, err := p.U64("value")
		if err != nil {
			return err
		}
		list = append(list, asset.MosaicProperty{ID: asset.PropertyID(id), Value: util.Uint64(value)})
	}
	properties, err := asset.MosaicPropertiesFromList(list)
	if err != nil {
		return err
	}
	tx.Properties = *properties
	return nil
}

// MosaicSupplyType is the direction of a supply change.
type MosaicSupplyType uint8

// Supply change directions.
const (
	Decrease MosaicSupplyType = 0
	Increase MosaicSupplyType = 1
)

// MosaicSupplyChangeTransaction changes the supply of a mutable mosaic.
type MosaicSupplyChangeTransaction struct {
	AbstractTransaction
	// AssetID is a mosaic id or a namespace id aliasing the mosaic.
	AssetID   util.Uint64
	Direction MosaicSupplyType
	Delta     util.Uint64
}

// NewMosaicSupplyChangeTransaction creates a supply change.
func NewMosaicSupplyChangeTransaction(deadline Deadline, assetID util.Uint64, direction MosaicSupplyType, delta util.Uint64, network netmode.Type) (*MosaicSupplyChangeTransaction, error) {
	if direction != Decrease && direction != Increase {
		return nil, fmt.Errorf("unknown supply direction %d", direction)
	}
	return &MosaicSupplyChangeTransaction{
		AbstractTransaction: newAbstract(MosaicSupplyChangeType, deadline, network),
		AssetID:             assetID,
		Direction:           direction,
		Delta:               delta,
	}, nil
}

// Size implements the Transaction interface.
func (tx *MosaicSupplyChangeTransaction) Size() int { return HeaderSize + tx.bodySize() }

func (tx *MosaicSupplyChangeTransaction) bodySize() int { return 8 + 1 + 8 }

func (tx *MosaicSupplyChangeTransaction) fill(t *catbuffer.Table) error {
	t.PutU64("mosaic_id", uint64(tx.AssetID)).
		PutU8("direction", uint8(tx.Direction)).
		PutU64("delta", uint64(tx.Delta))
	return nil
}

func (tx *MosaicSupplyChangeTransaction) load(t *catbuffer.Table) error {
	id, err := t.U64("mosaic_id")
	if err != nil {
		return err
	}
	direction, err := t.U8("direction")
	if err != nil {
		return err
	}
	delta, err := t.U64("delta")
	if err != nil {
		return err
	}
	tx.AssetID = util.Uint64(id)
	tx.Direction = MosaicSupplyType(direction)
	tx.Delta = util.Uint64(delta)
	return nil
}
