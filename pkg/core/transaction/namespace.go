package transaction

import (
	"fmt"

	"github.com/nspcc-dev/sirius-go/pkg/config/netmode"
	"github.com/nspcc-dev/sirius-go/pkg/core/asset"
	"github.com/nspcc-dev/sirius-go/pkg/core/catbuffer"
	"github.com/nspcc-dev/sirius-go/pkg/encoding/address"
	"github.com/nspcc-dev/sirius-go/pkg/util"
)

var (
	registerNamespaceSchema = catbuffer.NewSchema(
		catbuffer.Scalar("namespace_type", 1),
		catbuffer.Scalar("duration_parent_id", 8),
		catbuffer.Scalar("namespace_id", 8),
		catbuffer.Scalar("namespace_name_size", 1),
		catbuffer.Array("name", 1, catbuffer.CountOf("namespace_name_size")),
	)
	addressAliasSchema = catbuffer.NewSchema(
		catbuffer.Scalar("alias_action", 1),
		catbuffer.Scalar("namespace_id", 8),
		catbuffer.Scalar("address", address.DecodedSize),
	)
	mosaicAliasSchema = catbuffer.NewSchema(
		catbuffer.Scalar("alias_action", 1),
		catbuffer.Scalar("namespace_id", 8),
		catbuffer.Scalar("mosaic_id", 8),
	)
)

// RegisterNamespaceTransaction registers a root namespace or a subnamespace.
type RegisterNamespaceTransaction struct {
	AbstractTransaction
	NamespaceType asset.NamespaceType
	NamespaceID   asset.NamespaceID
	Name          string
	// Duration is set for root namespaces.
	Duration util.Uint64
	// ParentID is set for subnamespaces.
	ParentID asset.NamespaceID
}

// NewRegisterRootNamespaceTransaction creates a root namespace registration
// for duration blocks.
func NewRegisterRootNamespaceTransaction(deadline Deadline, name string, duration util.Uint64, network netmode.Type) (*RegisterNamespaceTransaction, error) {
	if err := asset.ValidateNamespaceName(name); err != nil {
		return nil, err
	}
	return &RegisterNamespaceTransaction{
		AbstractTransaction: newAbstract(RegisterNamespaceType, deadline, network),
		NamespaceType:       asset.RootNamespace,
		NamespaceID:         asset.NewNamespaceID(0, name),
		Name:                name,
		Duration:            duration,
	}, nil
}

// NewRegisterSubNamespaceTransaction creates a subnamespace registration
// under parent.
func NewRegisterSubNamespaceTransaction(deadline Deadline, name string, parent asset.NamespaceID, network netmode.Type) (*RegisterNamespaceTransaction, error) {
	if err := asset.ValidateNamespaceName(name); err != nil {
		return nil, err
	}
	if !asset.IsNamespace(parent.Uint64()) {
		return nil, fmt.Errorf("%w: parent %s is not a namespace id", asset.ErrInvalidNamespaceName, parent)
	}
	return &RegisterNamespaceTransaction{
		AbstractTransaction: newAbstract(RegisterNamespaceType, deadline, network),
		NamespaceType:       asset.SubNamespace,
		NamespaceID:         asset.NewNamespaceID(parent, name),
		Name:                name,
		ParentID:            parent,
	}, nil
}

// Size implements the Transaction interface.
func (tx *RegisterNamespaceTransaction) Size() int { return HeaderSize + tx.bodySize() }

func (tx *RegisterNamespaceTransaction) bodySize() int {
	return 1 + 8 + 8 + 1 + len(tx.Name)
}

func (tx *RegisterNamespaceTransaction) fill(t *catbuffer.Table) error {
	if len(tx.Name) > asset.MaxNamespaceNameLength {
		return fmt.Errorf("%w: %q is too long", asset.ErrInvalidNamespaceName, tx.Name)
	}
	durationOrParent := uint64(tx.Duration)
	if tx.NamespaceType == asset.SubNamespace {
		durationOrParent = uint64(tx.ParentID)
	}
	t.PutU8("namespace_type", uint8(tx.NamespaceType)).
		PutU64("duration_parent_id", durationOrParent).
		PutU64("namespace_id", uint64(tx.NamespaceID)).
		PutU8("namespace_name_size", uint8(len(tx.Name))).
		PutBytes("name", []byte(tx.Name))
	return nil
}

func (tx *RegisterNamespaceTransaction) load(t *catbuffer.Table) error {
	typ, err := t.U8("namespace_type")
	if err != nil {
		return err
	}
	durationOrParent, err := t.U64("duration_parent_id")
	if err != nil {
		return err
	}
	id, err := t.U64("namespace_id")
	if err != nil {
		return err
	}
	name, err := t.Bytes("name")
	if err != nil {
		return err
	}
	tx.NamespaceType = asset.NamespaceType(typ)
	tx.NamespaceID = asset.NamespaceID(id)
	tx.Name = string(name)
	tx.Duration, tx.ParentID = 0, 0
	switch tx.NamespaceType {
	case asset.RootNamespace:
		tx.Duration = util.Uint64(durationOrParent)
	case asset.SubNamespace:
		tx.ParentID = asset.NamespaceID(durationOrParent)
	default:
		return fmt.Errorf("unknown namespace type %d", typ)
	}
	return nil
}

// AddressAliasTransaction links a namespace to an address or unlinks it.
type AddressAliasTransaction struct {
	AbstractTransaction
	ActionType  asset.AliasAction
	NamespaceID asset.NamespaceID
	Address     *address.Address
}

// NewAddressAliasTransaction creates an address alias change.
func NewAddressAliasTransaction(deadline Deadline, addr *address.Address, namespaceID asset.NamespaceID, action asset.AliasAction, network netmode.Type) (*AddressAliasTransaction, error) {
	if addr == nil {
		return nil, fmt.Errorf("%w: empty address", address.ErrInvalidAddressLength)
	}
	return &AddressAliasTransaction{
		AbstractTransaction: newAbstract(AddressAliasType, deadline, network),
		ActionType:          action,
		NamespaceID:         namespaceID,
		Address:             addr,
	}, nil
}

// Size implements the Transaction interface.
func (tx *AddressAliasTransaction) Size() int { return HeaderSize + tx.bodySize() }

func (tx *AddressAliasTransaction) bodySize() int { return 1 + 8 + address.DecodedSize }

func (tx *AddressAliasTransaction) fill(t *catbuffer.Table) error {
	addr, err := tx.Address.Bytes()
	if err != nil {
		return err
	}
	t.PutU8("alias_action", uint8(tx.ActionType)).
		PutU64("namespace_id", uint64(tx.NamespaceID)).
		PutBytes("address", addr)
	return nil
}

func (tx *AddressAliasTransaction) load(t *catbuffer.Table) error {
	action, err := t.U8("alias_action")
	if err != nil {
		return err
	}
	id, err := t.U64("namespace_id")
	if err != nil {
		return err
	}
	tx.ActionType = asset.AliasAction(action)
	tx.NamespaceID = asset.NamespaceID(id)
	tx.Address, err = readAddress(t, "address")
	return err
}

// MosaicAliasTransaction links a namespace to a mosaic or unlinks it.
type MosaicAliasTransaction struct {
	AbstractTransaction
	ActionType  asset.AliasAction
	NamespaceID asset.NamespaceID
	MosaicID    asset.MosaicID
}

// NewMosaicAliasTransaction creates a mosaic alias change.
func NewMosaicAliasTransaction(deadline Deadline, mosaicID asset.MosaicID, namespaceID asset.NamespaceID, action asset.AliasAction, network netmode.Type) (*MosaicAliasTransaction, error) {
	if asset.IsNamespace(mosaicID.Uint64()) {
		return nil, fmt.Errorf("%w: %s is a namespace id", ErrWrongTransactionKind, mosaicID)
	}
	return &MosaicAliasTransaction{
		AbstractTransaction: newAbstract(MosaicAliasType, deadline, network),
		ActionType:          action,
		NamespaceID:         namespaceID,
		MosaicID:            mosaicID,
	}, nil
}

// Size implements the Transaction interface.
func (tx *MosaicAliasTransaction) Size() int { return HeaderSize + tx.bodySize() }

func (tx *MosaicAliasTransaction) bodySize() int { return 1 + 8 + 8 }

func (tx *MosaicAliasTransaction) fill(t *catbuffer.Table) error {
	t.PutU8("alias_action", uint8(tx.ActionType)).
		PutU64("namespace_id", uint64(tx.NamespaceID)).
		PutU64("mosaic_id", uint64(tx.MosaicID))
	return nil
}

func (tx *MosaicAliasTransaction) load(t *catbuffer.Table) error {
	action, err := t.U8("alias_action")
	if err != nil {
		return err
	}
	nsID, err := t.U64("namespace_id")
	if err != nil {
		return err
	}
	mosaicID, err := t.U64("mosaic_id")
	if err != nil {
		return err
	}
	tx.ActionType = asset.AliasAction(action)
	tx.NamespaceID = asset.NamespaceID(nsID)
	tx.MosaicID = asset.MosaicID(mosaicID)
	return nil
}
