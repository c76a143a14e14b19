package transaction

import (
	"fmt"

	"github.com/nspcc-dev/sirius-go/pkg/config/netmode"
	"github.com/nspcc-dev/sirius-go/pkg/core/catbuffer"
	"github.com/nspcc-dev/sirius-go/pkg/crypto/keys"
)

const cosignatoryModificationSize = 1 + SignerSize

var (
	cosignatoryModificationSchema = catbuffer.NewSchema(
		catbuffer.Scalar("type", 1),
		catbuffer.Scalar("cosignatory_public_key", SignerSize),
	)
	modifyMultisigSchema = catbuffer.NewSchema(
		catbuffer.Scalar("min_removal_delta", 1),
		catbuffer.Scalar("min_approval_delta", 1),
		catbuffer.Scalar("num_modifications", 1),
		catbuffer.TableArray("modifications", cosignatoryModificationSchema, catbuffer.CountOf("num_modifications")),
	)
)

// ModificationType adds or removes an entry.
type ModificationType uint8

// Modification types.
const (
	Add    ModificationType = 0
	Remove ModificationType = 1
)

// CosignatoryModification adds or removes a multisig cosignatory.
type CosignatoryModification struct {
	Type      ModificationType
	PublicKey *keys.PublicKey
}

// ModifyMultisigAccountTransaction converts an account into multisig or
// changes its cosignatories and thresholds.
type ModifyMultisigAccountTransaction struct {
	AbstractTransaction
	MinApprovalDelta int8
	MinRemovalDelta  int8
	Modifications    []*CosignatoryModification
}

// NewModifyMultisigAccountTransaction creates a multisig modification.
func NewModifyMultisigAccountTransaction(deadline Deadline, minApprovalDelta, minRemovalDelta int8, modifications []*CosignatoryModification, network netmode.Type) (*ModifyMultisigAccountTransaction, error) {
	if len(modifications) > 0xff {
		return nil, fmt.Errorf("too many modifications: %d", len(modifications))
	}
	for i, m := range modifications {
		if m == nil || m.PublicKey == nil {
			return nil, fmt.Errorf("%w: modification %d", ErrEmptySigner, i)
		}
	}
	return &ModifyMultisigAccountTransaction{
		AbstractTransaction: newAbstract(ModifyMultisigType, deadline, network),
		MinApprovalDelta:    minApprovalDelta,
		MinRemovalDelta:     minRemovalDelta,
		Modifications:       modifications,
	}, nil
}

// Size implements the Transaction interface.
func (tx *ModifyMultisigAccountTransaction) Size() int { return HeaderSize + tx.bodySize() }

func (tx *ModifyMultisigAccountTransaction) bodySize() int {
	return 3 + len(tx.Modifications)*cosignatoryModificationSize
}

func (tx *ModifyMultisigAccountTransaction) fill(t *catbuffer.Table) error {
	mods := make([]*catbuffer.Table, len(tx.Modifications))
	for i, m := range tx.Modifications {
		mods[i] = catbuffer.NewTable().
			PutU8("type", uint8(m.Type)).
			PutBytes("cosignatory_public_key", m.PublicKey.Bytes())
	}
	t.PutU8("min_removal_delta", uint8(tx.MinRemovalDelta)).
		PutU8("min_approval_delta", uint8(tx.MinApprovalDelta)).
		PutU8("num_modifications", uint8(len(tx.Modifications))).
		PutTables("modifications", mods)
	return nil
}

func (tx *ModifyMultisigAccountTransaction) load(t *catbuffer.Table) error {
	removal, err := t.U8("min_removal_delta")
	if err != nil {
		return err
	}
	approval, err := t.U8("min_approval_delta")
	if err != nil {
		return err
	}
	tx.MinRemovalDelta = int8(removal)
	tx.MinApprovalDelta = int8(approval)
	mods, err := t.Tables("modifications")
	if err != nil {
		return err
	}
	tx.Modifications = nil
	for _, m := range mods {
		typ, err := m.U8("type")
		if err != nil {
			return err
		}
		key, err := readPublicKey(m, "cosignatory_public_key")
		if err != nil {
			return err
		}
		tx.Modifications = append(tx.Modifications, &CosignatoryModification{Type: ModificationType(typ), PublicKey: key})
	}
	return nil
}

func readPublicKey(t *catbuffer.Table, name string) (*keys.PublicKey, error) {
	b, err := t.Bytes(name)
	if err != nil {
		return nil, err
	}
	return keys.NewPublicKeyFromBytes(b)
}
