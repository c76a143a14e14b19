package transaction

import (
	"fmt"

	"github.com/nspcc-dev/sirius-go/pkg/config/netmode"
	"github.com/nspcc-dev/sirius-go/pkg/core/catbuffer"
	"github.com/nspcc-dev/sirius-go/pkg/crypto/keys"
)

// CosignatureSize is the size of a single cosignature appended to an
// aggregate: signer key followed by the signature.
const CosignatureSize = SignerSize + SignatureSize

var (
	cosignatureSchema = catbuffer.NewSchema(
		catbuffer.Scalar("signer", SignerSize),
		catbuffer.Scalar("signature", SignatureSize),
	)
	aggregateSchema = catbuffer.NewSchema(
		catbuffer.Scalar("payload_size", 4),
		catbuffer.Array("transactions", 1, catbuffer.SizeOf("payload_size", 0)),
		catbuffer.TableArray("cosignatures", cosignatureSchema, catbuffer.Rest()),
	)
)

// Cosignature is a cosignatory signature over the aggregate hash.
type Cosignature struct {
	Signer    *keys.PublicKey
	Signature []byte
}

// AggregateTransaction bundles inner transactions that are executed
// atomically.
type AggregateTransaction struct {
	AbstractTransaction
	InnerTransactions []Transaction
	Cosignatures      []*Cosignature
}

// NewCompleteAggregateTransaction creates an aggregate that is signed by all
// cosignatories at once.
func NewCompleteAggregateTransaction(deadline Deadline, inner []Transaction, network netmode.Type) (*AggregateTransaction, error) {
	return newAggregate(AggregateCompleteType, deadline, inner, network)
}

// NewBondedAggregateTransaction creates an aggregate that collects
// cosignatures from the network after being announced.
func NewBondedAggregateTransaction(deadline Deadline, inner []Transaction, network netmode.Type) (*AggregateTransaction, error) {
	return newAggregate(AggregateBondedType, deadline, inner, network)
}

func newAggregate(typ EntityType, deadline Deadline, inner []Transaction, network netmode.Type) (*AggregateTransaction, error) {
	for i, tx := range inner {
		if tx.Header().Type.IsAggregate() {
			return nil, fmt.Errorf("%w: inner transaction %d is an aggregate", ErrWrongTransactionKind, i)
		}
		if tx.Header().Signer == nil {
			return nil, fmt.Errorf("%w: inner transaction %d", ErrEmptySigner, i)
		}
	}
	return &AggregateTransaction{
		AbstractTransaction: newAbstract(typ, deadline, network),
		InnerTransactions:   inner,
	}, nil
}

// Size implements the Transaction interface.
func (tx *AggregateTransaction) Size() int { return HeaderSize + tx.bodySize() }

func (tx *AggregateTransaction) payloadSize() int {
	var size int
	for _, inner := range tx.InnerTransactions {
		size += EmbeddedSize(inner)
	}
	return size
}

func (tx *AggregateTransaction) bodySize() int {
	return 4 + tx.payloadSize() + len(tx.Cosignatures)*CosignatureSize
}

func (tx *AggregateTransaction) fill(t *catbuffer.Table) error {
	payload := make([]byte, 0, tx.payloadSize())
	for i, inner := range tx.InnerTransactions {
		b, err := EmbeddedBytes(inner)
		if err != nil {
			return fmt.Errorf("inner transaction %d: %w", i, err)
		}
		payload = append(payload, b...)
	}
	cosigs := make([]*catbuffer.Table, len(tx.Cosignatures))
	for i, c := range tx.Cosignatures {
		if c.Signer == nil {
			return fmt.Errorf("%w: cosignature %d", ErrEmptySigner, i)
		}
		cosigs[i] = catbuffer.NewTable().
			PutBytes("signer", c.Signer.Bytes()).
			PutBytes("signature", c.Signature)
	}
	t.PutU32("payload_size", uint32(len(payload))).
		PutBytes("transactions", payload).
		PutTables("cosignatures", cosigs)
	return nil
}

func (tx *AggregateTransaction) load(t *catbuffer.Table) error {
	payload, err := t.Bytes("transactions")
	if err != nil {
		return err
	}
	tx.InnerTransactions = nil
	for len(payload) > 0 {
		inner, n, err := DecodeEmbedded(payload)
		if err != nil {
			return fmt.Errorf("inner transaction %d: %w", len(tx.InnerTransactions), err)
		}
		tx.InnerTransactions = append(tx.InnerTransactions, inner)
		payload = payload[n:]
	}
	cosigs, err := t.Tables("cosignatures")
	if err != nil {
		return err
	}
	tx.Cosignatures = nil
	for _, c := range cosigs {
		signer, err := readPublicKey(c, "signer")
		if err != nil {
			return err
		}
		signature, err := c.Bytes("signature")
		if err != nil {
			return err
		}
		tx.Cosignatures = append(tx.Cosignatures, &Cosignature{Signer: signer, Signature: signature})
	}
	return nil
}
