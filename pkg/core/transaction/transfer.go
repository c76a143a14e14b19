package transaction

import (
	"fmt"
	"sort"

	"github.com/nspcc-dev/sirius-go/pkg/config/netmode"
	"github.com/nspcc-dev/sirius-go/pkg/core/asset"
	"github.com/nspcc-dev/sirius-go/pkg/core/catbuffer"
	"github.com/nspcc-dev/sirius-go/pkg/encoding/address"
	"github.com/nspcc-dev/sirius-go/pkg/util"
)

const mosaicSize = 16

var (
	mosaicSchema = catbuffer.NewSchema(
		catbuffer.Scalar("id", 8),
		catbuffer.Scalar("amount", 8),
	)
	transferSchema = catbuffer.NewSchema(
		catbuffer.Scalar("recipient", address.DecodedSize),
		catbuffer.Scalar("message_size", 2),
		catbuffer.Scalar("num_mosaics", 1),
		catbuffer.Scalar("message_type", 1),
		catbuffer.Array("message", 1, catbuffer.SizeOf("message_size", 1)),
		catbuffer.TableArray("mosaics", mosaicSchema, catbuffer.CountOf("num_mosaics")),
	)
)

// TransferTransaction sends mosaics and a message to a recipient.
type TransferTransaction struct {
	AbstractTransaction
	Recipient *address.Address
	Mosaics   []asset.Mosaic
	Message   Message
}

// NewTransferTransaction creates a transfer. Mosaics are sorted by id as the
// network requires.
func NewTransferTransaction(deadline Deadline, recipient *address.Address, mosaics []asset.Mosaic, message Message, network netmode.Type) (*TransferTransaction, error) {
	if recipient == nil {
		return nil, fmt.Errorf("%w: empty recipient", address.ErrInvalidAddressLength)
	}
	if len(mosaics) > 0xff {
		return nil, fmt.Errorf("too many mosaics: %d", len(mosaics))
	}
	if message.size() > 0xffff {
		return nil, fmt.Errorf("message is too big: %d bytes", len(message.Payload))
	}
	sorted := append([]asset.Mosaic(nil), mosaics...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	return &TransferTransaction{
		AbstractTransaction: newAbstract(TransferType, deadline, network),
		Recipient:           recipient,
		Mosaics:             sorted,
		Message:             message,
	}, nil
}

// Size implements the Transaction interface.
func (tx *TransferTransaction) Size() int { return HeaderSize + tx.bodySize() }

func (tx *TransferTransaction) bodySize() int {
	return address.DecodedSize + 2 + 1 + tx.Message.size() + len(tx.Mosaics)*mosaicSize
}

func (tx *TransferTransaction) fill(t *catbuffer.Table) error {
	recipient, err := tx.Recipient.Bytes()
	if err != nil {
		return err
	}
	mosaics := make([]*catbuffer.Table, len(tx.Mosaics))
	for i, m := range tx.Mosaics {
		mosaics[i] = putMosaic(catbuffer.NewTable(), m)
	}
	t.PutBytes("recipient", recipient).
		PutU16("message_size", uint16(tx.Message.size())).
		PutU8("num_mosaics", uint8(len(tx.Mosaics))).
		PutU8("message_type", uint8(tx.Message.Type)).
		PutBytes("message", tx.Message.Payload).
		PutTables("mosaics", mosaics)
	return nil
}

func (tx *TransferTransaction) load(t *catbuffer.Table) error {
	var err error
	if tx.Recipient, err = readAddress(t, "recipient"); err != nil {
		return err
	}
	msgType, err := t.U8("message_type")
	if err != nil {
		return err
	}
	payload, err := t.Bytes("message")
	if err != nil {
		return err
	}
	if len(payload) == 0 {
		payload = nil
	}
	tx.Message = Message{Type: MessageType(msgType), Payload: payload}
	mosaics, err := t.Tables("mosaics")
	if err != nil {
		return err
	}
	tx.Mosaics = nil
	for _, m := range mosaics {
		mosaic, err := readMosaic(m)
		if err != nil {
			return err
		}
		tx.Mosaics = append(tx.Mosaics, mosaic)
	}
	return nil
}

func putMosaic(t *catbuffer.Table, m asset.Mosaic) *catbuffer.Table {
	return t.PutU64("id", uint64(m.ID)).PutU64("amount", uint64(m.Amount))
}

func readMosaic(t *catbuffer.Table) (asset.Mosaic, error) {
	id, err := t.U64("id")
	if err != nil {
		return asset.Mosaic{}, err
	}
	amount, err := t.U64("amount")
	if err != nil {
		return asset.Mosaic{}, err
	}
	return asset.Mosaic{ID: util.Uint64(id), Amount: util.Uint64(amount)}, nil
}

func readAddress(t *catbuffer.Table, name string) (*address.Address, error) {
	b, err := t.Bytes(name)
	if err != nil {
		return nil, err
	}
	return address.FromBytes(b)
}
