package transaction

import (
	"encoding/binary"
	"fmt"

	"github.com/nspcc-dev/sirius-go/pkg/config/netmode"
	"github.com/nspcc-dev/sirius-go/pkg/core/catbuffer"
	"github.com/nspcc-dev/sirius-go/pkg/crypto/keys"
	"github.com/nspcc-dev/sirius-go/pkg/encoding/address"
	"github.com/nspcc-dev/sirius-go/pkg/util"
)

var accountLinkSchema = catbuffer.NewSchema(
	catbuffer.Scalar("remote_account_key", SignerSize),
	catbuffer.Scalar("link_action", 1),
)

// AccountLinkAction links or unlinks a remote account.
type AccountLinkAction uint8

// Account link actions.
const (
	AccountLink   AccountLinkAction = 0
	AccountUnlink AccountLinkAction = 1
)

// AccountLinkTransaction delegates the account importance to a remote
// account.
type AccountLinkTransaction struct {
	AbstractTransaction
	RemoteAccountKey *keys.PublicKey
	LinkAction       AccountLinkAction
}

// NewAccountLinkTransaction creates an account link change.
func NewAccountLinkTransaction(deadline Deadline, remote *keys.PublicKey, action AccountLinkAction, network netmode.Type) (*AccountLinkTransaction, error) {
	if remote == nil {
		return nil, fmt.Errorf("%w: remote account", ErrEmptySigner)
	}
	return &AccountLinkTransaction{
		AbstractTransaction: newAbstract(AccountLinkType, deadline, network),
		RemoteAccountKey:    remote,
		LinkAction:          action,
	}, nil
}

// Size implements the Transaction interface.
func (tx *AccountLinkTransaction) Size() int { return HeaderSize + tx.bodySize() }

func (tx *AccountLinkTransaction) bodySize() int { return SignerSize + 1 }

func (tx *AccountLinkTransaction) fill(t *catbuffer.Table) error {
	t.PutBytes("remote_account_key", tx.RemoteAccountKey.Bytes()).
		PutU8("link_action", uint8(tx.LinkAction))
	return nil
}

func (tx *AccountLinkTransaction) load(t *catbuffer.Table) error {
	var err error
	if tx.RemoteAccountKey, err = readPublicKey(t, "remote_account_key"); err != nil {
		return err
	}
	action, err := t.U8("link_action")
	tx.LinkAction = AccountLinkAction(action)
	return err
}

// PropertyType is an account property restriction kind.
type PropertyType uint8

// Account property types.
const (
	AllowAddress     PropertyType = 0x01
	AllowMosaic      PropertyType = 0x02
	AllowTransaction PropertyType = 0x04
	Sentinel         PropertyType = 0x05
	BlockAddress     PropertyType = 0x81
	BlockMosaic      PropertyType = 0x82
	BlockTransaction PropertyType = 0x84
)

const (
	addressValueSize    = address.DecodedSize
	mosaicValueSize     = 8
	entityTypeValueSize = 2
)

func accountPropertiesSchema(valueSize int) *catbuffer.Schema {
	return catbuffer.NewSchema(
		catbuffer.Scalar("property_type", 1),
		catbuffer.Scalar("num_modifications", 1),
		catbuffer.TableArray("modifications", catbuffer.NewSchema(
			catbuffer.Scalar("modification_type", 1),
			catbuffer.Scalar("value", valueSize),
		), catbuffer.CountOf("num_modifications")),
	)
}

// AccountPropertiesAddressModification adds or removes an address from the
// account property list.
type AccountPropertiesAddressModification struct {
	ModificationType ModificationType
	Address          *address.Address
}

// AccountPropertiesAddressTransaction restricts the addresses an account
// interacts with.
type AccountPropertiesAddressTransaction struct {
	AbstractTransaction
	PropertyType  PropertyType
	Modifications []*AccountPropertiesAddressModification
}

// NewAccountPropertiesAddressTransaction creates an address property change.
func NewAccountPropertiesAddressTransaction(deadline Deadline, propertyType PropertyType, modifications []*AccountPropertiesAddressModification, network netmode.Type) (*AccountPropertiesAddressTransaction, error) {
	if propertyType != AllowAddress && propertyType != BlockAddress {
		return nil, fmt.Errorf("%w: property type 0x%02x for addresses", ErrWrongTransactionKind, uint8(propertyType))
	}
	for i, m := range modifications {
		if m == nil || m.Address == nil {
			return nil, fmt.Errorf("%w: modification %d", address.ErrInvalidAddressLength, i)
		}
	}
	return &AccountPropertiesAddressTransaction{
		AbstractTransaction: newAbstract(AccountPropertyAddressType, deadline, network),
		PropertyType:        propertyType,
		Modifications:       modifications,
	}, nil
}

// Size implements the Transaction interface.
func (tx *AccountPropertiesAddressTransaction) Size() int { return HeaderSize + tx.bodySize() }

func (tx *AccountPropertiesAddressTransaction) bodySize() int {
	return 2 + len(tx.Modifications)*(1+addressValueSize)
}

func (tx *AccountPropertiesAddressTransaction) fill(t *catbuffer.Table) error {
	mods := make([]*catbuffer.Table, len(tx.Modifications))
	for i, m := range tx.Modifications {
		addr, err := m.Address.Bytes()
		if err != nil {
			return err
		}
		mods[i] = propertyModification(m.ModificationType, addr)
	}
	putProperties(t, tx.PropertyType, mods)
	return nil
}

func (tx *AccountPropertiesAddressTransaction) load(t *catbuffer.Table) error {
	typ, mods, err := readProperties(t)
	if err != nil {
		return err
	}
	tx.PropertyType = typ
	tx.Modifications = nil
	for _, m := range mods {
		addr, err := address.FromBytes(m.value)
		if err != nil {
			return err
		}
		tx.Modifications = append(tx.Modifications, &AccountPropertiesAddressModification{
			ModificationType: m.typ,
			Address:          addr,
		})
	}
	return nil
}

// AccountPropertiesMosaicModification adds or removes a mosaic from the
// account property list.
type AccountPropertiesMosaicModification struct {
	ModificationType ModificationType
	AssetID          util.Uint64
}

// AccountPropertiesMosaicTransaction restricts the mosaics an account
// receives.
type AccountPropertiesMosaicTransaction struct {
	AbstractTransaction
	PropertyType  PropertyType
	Modifications []*AccountPropertiesMosaicModification
}

// NewAccountPropertiesMosaicTransaction creates a mosaic property change.
func NewAccountPropertiesMosaicTransaction(deadline Deadline, propertyType PropertyType, modifications []*AccountPropertiesMosaicModification, network netmode.Type) (*AccountPropertiesMosaicTransaction, error) {
	if propertyType != AllowMosaic && propertyType != BlockMosaic {
		return nil, fmt.Errorf("%w: property type 0x%02x for mosaics", ErrWrongTransactionKind, uint8(propertyType))
	}
	return &AccountPropertiesMosaicTransaction{
		AbstractTransaction: newAbstract(AccountPropertyMosaicType, deadline, network),
		PropertyType:        propertyType,
		Modifications:       modifications,
	}, nil
}

// Size implements the Transaction interface.
func (tx *AccountPropertiesMosaicTransaction) Size() int { return HeaderSize + tx.bodySize() }

func (tx *AccountPropertiesMosaicTransaction) bodySize() int {
	return 2 + len(tx.Modifications)*(1+mosaicValueSize)
}

func (tx *AccountPropertiesMosaicTransaction) fill(t *catbuffer.Table) error {
	mods := make([]*catbuffer.Table, len(tx.Modifications))
	for i, m := range tx.Modifications {
		value := make([]byte, mosaicValueSize)
		binary.LittleEndian.PutUint64(value, uint64(m.AssetID))
		mods[i] = propertyModification(m.ModificationType, value)
	}
	putProperties(t, tx.PropertyType, mods)
	return nil
}

func (tx *AccountPropertiesMosaicTransaction) load(t *catbuffer.Table) error {
	typ, mods, err := readProperties(t)
	if err != nil {
		return err
	}
	tx.PropertyType = typ
	tx.Modifications = nil
	for _, m := range mods {
		tx.Modifications = append(tx.Modifications, &AccountPropertiesMosaicModification{
			ModificationType: m.typ,
			AssetID:          util.Uint64(binary.LittleEndian.Uint64(m.value)),
		})
	}
	return nil
}

// AccountPropertiesEntityTypeModification adds or removes a transaction type
// from the account property list.
type AccountPropertiesEntityTypeModification struct {
	ModificationType ModificationType
	EntityType       EntityType
}

// AccountPropertiesEntityTypeTransaction restricts the transaction types an
// account may send.
type AccountPropertiesEntityTypeTransaction struct {
	AbstractTransaction
	PropertyType  PropertyType
	Modifications []*AccountPropertiesEntityTypeModification
}

// NewAccountPropertiesEntityTypeTransaction creates a transaction type
// property change.
func NewAccountPropertiesEntityTypeTransaction(deadline Deadline, propertyType PropertyType, modifications []*AccountPropertiesEntityTypeModification, network netmode.Type) (*AccountPropertiesEntityTypeTransaction, error) {
	if propertyType != AllowTransaction && propertyType != BlockTransaction {
		return nil, fmt.Errorf("%w: property type 0x%02x for entity types", ErrWrongTransactionKind, uint8(propertyType))
	}
	return &AccountPropertiesEntityTypeTransaction{
		AbstractTransaction: newAbstract(AccountPropertyEntityTypeType, deadline, network),
		PropertyType:        propertyType,
		Modifications:       modifications,
	}, nil
}

// Size implements the Transaction interface.
func (tx *AccountPropertiesEntityTypeTransaction) Size() int { return HeaderSize + tx.bodySize() }

func (tx *AccountPropertiesEntityTypeTransaction) bodySize() int {
	return 2 + len(tx.Modifications)*(1+entityTypeValueSize)
}

func (tx *AccountPropertiesEntityTypeTransaction) fill(t *catbuffer.Table) error {
	mods := make([]*catbuffer.Table, len(tx.Modifications))
	for i, m := range tx.Modifications {
		value := make([]byte, entityTypeValueSize)
		binary.LittleEndian.PutUint16(value, uint16(m.EntityType))
		mods[i] = propertyModification(m.ModificationType, value)
	}
	putProperties(t, tx.PropertyType, mods)
	return nil
}

func (tx *AccountPropertiesEntityTypeTransaction) load(t *catbuffer.Table) error {
	typ, mods, err := readProperties(t)
	if err != nil {
		return err
	}
	tx.PropertyType = typ
	tx.Modifications = nil
	for _, m := range mods {
		tx.Modifications = append(tx.Modifications, &AccountPropertiesEntityTypeModification{
			ModificationType: m.typ,
			EntityType:       EntityType(binary.LittleEndian.Uint16(m.value)),
		})
	}
	return nil
}

type rawPropertyModification struct {
	typ   ModificationType
	value []byte
}

func propertyModification(typ ModificationType, value []byte) *catbuffer.Table {
	return catbuffer.NewTable().PutU8("modification_type", uint8(typ)).PutBytes("value", value)
}

func putProperties(t *catbuffer.Table, typ PropertyType, mods []*catbuffer.Table) {
	t.PutU8("property_type", uint8(typ)).
		PutU8("num_modifications", uint8(len(mods))).
		PutTables("modifications", mods)
}

func readProperties(t *catbuffer.Table) (PropertyType, []rawPropertyModification, error) {
	typ, err := t.U8("property_type")
	if err != nil {
		return 0, nil, err
	}
	tables, err := t.Tables("modifications")
	if err != nil {
		return 0, nil, err
	}
	var mods []rawPropertyModification
	for _, m := range tables {
		modType, err := m.U8("modification_type")
		if err != nil {
			return 0, nil, err
		}
		value, err := m.Bytes("value")
		if err != nil {
			return 0, nil, err
		}
		mods = append(mods, rawPropertyModification{typ: ModificationType(modType), value: value})
	}
	return PropertyType(typ), mods, nil
}
