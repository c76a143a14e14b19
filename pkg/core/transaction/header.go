package transaction

import (
	"fmt"

	"github.com/nspcc-dev/sirius-go/pkg/config/netmode"
	"github.com/nspcc-dev/sirius-go/pkg/core/catbuffer"
	"github.com/nspcc-dev/sirius-go/pkg/crypto/keys"
	"github.com/nspcc-dev/sirius-go/pkg/util"
)

// Header field widths.
const (
	SizeSize          = 4
	SignatureSize     = keys.SignatureSize
	HalfSignatureSize = SignatureSize / 2
	SignerSize        = keys.PublicKeySize
	VersionSize       = 4
	TypeSize          = 2
	MaxFeeSize        = 8
	DeadlineSize      = 8
)

// Offsets into the full framing.
const (
	SignatureOffset = SizeSize
	SignerOffset    = SignatureOffset + SignatureSize
	// VerifiableOffset is where the signed part of a transaction starts.
	VerifiableOffset = SignerOffset + SignerSize
	TypeOffset       = VerifiableOffset + VersionSize

	// HeaderSize is the size of the full framing header.
	HeaderSize = VerifiableOffset + VersionSize + TypeSize + MaxFeeSize + DeadlineSize
	// EmbeddedHeaderSize is the size of the header of transactions
	// inside aggregates.
	EmbeddedHeaderSize = SizeSize + SignerSize + VersionSize + TypeSize

	embeddedTypeOffset = SizeSize + SignerSize + VersionSize
)

var (
	fullHeaderSchema = catbuffer.NewSchema(
		catbuffer.Scalar("size", SizeSize),
		catbuffer.Scalar("signature", SignatureSize),
		catbuffer.Scalar("signer", SignerSize),
		catbuffer.Scalar("version", VersionSize),
		catbuffer.Scalar("type", TypeSize),
		catbuffer.Scalar("max_fee", MaxFeeSize),
		catbuffer.Scalar("deadline", DeadlineSize),
	)
	embeddedHeaderSchema = catbuffer.NewSchema(
		catbuffer.Scalar("size", SizeSize),
		catbuffer.Scalar("signer", SignerSize),
		catbuffer.Scalar("version", VersionSize),
		catbuffer.Scalar("type", TypeSize),
	)
)

// State is the lifecycle state of a transaction derived from its header.
type State uint8

// Transaction states.
const (
	Unsigned State = iota
	Signed
	Unconfirmed
	Confirmed
)

// String implements the stringer interface.
func (s State) String() string {
	switch s {
	case Unsigned:
		return "unsigned"
	case Signed:
		return "signed"
	case Unconfirmed:
		return "unconfirmed"
	case Confirmed:
		return "confirmed"
	}
	return "unknown"
}

// TransactionInfo is the metadata attached by the network to known
// transactions.
type TransactionInfo struct {
	Height              util.Uint64
	Index               uint32
	ID                  string
	Hash                util.Uint256
	MerkleComponentHash util.Uint256
	// AggregateHash and AggregateID are set for transactions embedded into
	// an aggregate.
	AggregateHash util.Uint256
	AggregateID   string
}

// AbstractTransaction is the header shared by all transactions.
type AbstractTransaction struct {
	Network netmode.Type
	Type    EntityType
	Version uint8
	// Signature is nil until the transaction is signed.
	Signature []byte
	// Signer is nil until the transaction is signed or put into an
	// aggregate.
	Signer   *keys.PublicKey
	MaxFee   util.Uint64
	Deadline Deadline
	// Info is set for transactions received from the network.
	Info *TransactionInfo
}

// Header returns the transaction header.
func (a *AbstractTransaction) Header() *AbstractTransaction {
	return a
}

// State returns the transaction state.
func (a *AbstractTransaction) State() State {
	switch {
	case a.Info != nil && a.Info.Height > 0:
		return Confirmed
	case a.Info != nil:
		return Unconfirmed
	case a.Signature == nil:
		return Unsigned
	}
	return Signed
}

// IsConfirmed reports whether the transaction is included into a block.
func (a *AbstractTransaction) IsConfirmed() bool { return a.State() == Confirmed }

// IsUnconfirmed reports whether the network knows the transaction but it's
// not yet in a block.
func (a *AbstractTransaction) IsUnconfirmed() bool { return a.State() == Unconfirmed }

// HasMissingSignatures reports whether the transaction is an aggregate
// announced by the network that still waits for cosignatures.
func (a *AbstractTransaction) HasMissingSignatures() bool {
	return a.Info != nil && a.Info.Height == 0 && !a.Info.Hash.Equals(a.Info.MerkleComponentHash)
}

// ToAggregate sets the signer of a transaction that will be embedded into an
// aggregate.
func (a *AbstractTransaction) ToAggregate(signer *keys.PublicKey) {
	a.Signer = signer
}

// VersionWord returns the wire version field: network byte in the highest
// byte, entity version in the lowest.
func (a *AbstractTransaction) VersionWord() uint32 {
	return uint32(a.Network)<<24 | uint32(a.Version)
}

func newAbstract(t EntityType, deadline Deadline, network netmode.Type) AbstractTransaction {
	return AbstractTransaction{
		Network:  network,
		Type:     t,
		Version:  kinds[t].version,
		Deadline: deadline,
	}
}

func (a *AbstractTransaction) fillHeader(t *catbuffer.Table, size int, embedded bool) error {
	signer := make([]byte, SignerSize)
	if a.Signer != nil {
		copy(signer, a.Signer[:])
	} else if embedded {
		return ErrEmptySigner
	}
	t.PutU32("size", uint32(size)).
		PutBytes("signer", signer).
		PutU32("version", a.VersionWord()).
		PutU16("type", uint16(a.Type))
	if embedded {
		return nil
	}
	signature := make([]byte, SignatureSize)
	if a.Signature != nil {
		if len(a.Signature) != SignatureSize {
			return fmt.Errorf("bad signature length %d", len(a.Signature))
		}
		copy(signature, a.Signature)
	}
	t.PutBytes("signature", signature).
		PutU64("max_fee", uint64(a.MaxFee)).
		PutU64("deadline", a.Deadline.Timestamp())
	return nil
}

func (a *AbstractTransaction) loadHeader(t *catbuffer.Table, embedded bool) error {
	version, err := t.U32("version")
	if err != nil {
		return err
	}
	network, err := netmode.FromByte(byte(version >> 24))
	if err != nil {
		return err
	}
	typ, err := t.U16("type")
	if err != nil {
		return err
	}
	signer, err := t.Bytes("signer")
	if err != nil {
		return err
	}
	a.Network = network
	a.Version = uint8(version)
	a.Type = EntityType(typ)
	a.Signer = nil
	if pub, err := keys.NewPublicKeyFromBytes(signer); err == nil && !pub.IsZero() {
		a.Signer = pub
	}
	if embedded {
		return nil
	}
	signature, err := t.Bytes("signature")
	if err != nil {
		return err
	}
	a.Signature = nil
	for _, b := range signature {
		if b != 0 {
			a.Signature = signature
			break
		}
	}
	fee, err := t.U64("max_fee")
	if err != nil {
		return err
	}
	deadline, err := t.U64("deadline")
	if err != nil {
		return err
	}
	a.MaxFee = util.Uint64(fee)
	a.Deadline = NewDeadlineFromTimestamp(deadline)
	return nil
}
