package transaction

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/nspcc-dev/sirius-go/pkg/config/netmode"
	"github.com/nspcc-dev/sirius-go/pkg/core/asset"
	"github.com/nspcc-dev/sirius-go/pkg/crypto/keys"
	"github.com/nspcc-dev/sirius-go/pkg/util"
	"github.com/stretchr/testify/require"
)

const (
	transferPayload = "AC000000778D1B6B2B62AD1E2E46895554069732751788A802479DF4E339FAD14B809B188B4F55DCC1131B9913046E80" +
		"5CE0F8216978C100A853D772DACCD3D3C79DC906C952A761C0D51940AE77EC44DE93662133B5A2E93F5DCADAB7F972FA91F5DFCD" +
		"030000A85441000000000000000040420F0000000000A8AA5F73C7DB362E89A8AD8B9FEF8D16AD0BDB14504C8C803D0600010068" +
		"656C6C6FF6BD1691A142FBBF8096980000000000"
	transferHash = "8AE2ABB0794D307617348121E684CB1A667865890264F0102590F910D4C7D6B0"

	bondedHash        = "5F94E91294CF5FCBB1C42A67F07167A8BF9B7B97E96A3B41CAF4A0A51E618ECB"
	bondedCosignature = "4895011F71EEDA7F0B9F660103482C512DF78AC565E773B06B2150EA3CD4692FCD1457A902CFA7F423A7624782ADD713" +
		"BBEB98FCC9EDEF65AB40796496E17604"
)

func testBonded(t *testing.T) *AggregateTransaction {
	inner := testTransfer(t)
	inner.ToAggregate(testCosigner(t).PublicKey())
	agg, err := NewBondedAggregateTransaction(testDeadline(), []Transaction{inner}, netmode.PublicTest)
	require.NoError(t, err)
	return agg
}

func TestSign(t *testing.T) {
	tx := testTransfer(t)
	signed, err := Sign(tx, testKey(t), testGenHash)
	require.NoError(t, err)
	require.Equal(t, TransferType, signed.EntityType)
	require.Equal(t, transferPayload, signed.Payload)
	require.Equal(t, transferHash, signed.Hash)

	require.Equal(t, testPublicKey, tx.Signer.String())
	require.Equal(t, Signed, tx.State())

	payload, err := hex.DecodeString(signed.Payload)
	require.NoError(t, err)
	genHash, err := util.Uint256DecodeString(testGenHash)
	require.NoError(t, err)
	h, err := Hash(payload, genHash)
	require.NoError(t, err)
	require.Equal(t, transferHash, h.String())

	data := append(genHash[:], payload[VerifiableOffset:]...)
	require.True(t, tx.Signer.Verify(payload[SignatureOffset:SignerOffset], data))

	// Signing is deterministic.
	again, err := Sign(testTransfer(t), testKey(t), testGenHash)
	require.NoError(t, err)
	require.Equal(t, signed, again)
}

func TestSignedDecode(t *testing.T) {
	payload, err := hex.DecodeString(transferPayload)
	require.NoError(t, err)
	tx, err := Decode(payload)
	require.NoError(t, err)
	require.Equal(t, Signed, tx.Header().State())
	require.Equal(t, testPublicKey, tx.Header().Signer.String())

	b, err := Bytes(tx)
	require.NoError(t, err)
	require.Equal(t, payload, b)
}

func TestSignErrors(t *testing.T) {
	_, err := Sign(testTransfer(t), nil, testGenHash)
	require.ErrorIs(t, err, ErrEmptySigner)

	tx := testTransfer(t)
	_, err = Sign(tx, testKey(t), "not a hash")
	require.ErrorIs(t, err, ErrInvalidHashEncoding)
	require.Equal(t, Unsigned, tx.State())

	_, err = Sign(tx, testKey(t), testGenHash[:62])
	require.ErrorIs(t, err, ErrInvalidHashEncoding)
}

func TestSignedJSON(t *testing.T) {
	signed := &SignedTransaction{EntityType: TransferType, Payload: "AA", Hash: transferHash}
	b, err := json.Marshal(signed)
	require.NoError(t, err)
	require.JSONEq(t, `{"payload":"AA"}`, string(b))
}

func TestCosignAggregateBonded(t *testing.T) {
	signed, err := Sign(testBonded(t), testKey(t), testGenHash)
	require.NoError(t, err)
	require.Equal(t, bondedHash, signed.Hash)
	require.Equal(t, HeaderSize+4+EmbeddedSize(testBonded(t).InnerTransactions[0]), len(signed.Payload)/2)

	orig := *signed
	cosigner := testCosigner(t)
	cosigned, err := CosignAggregateBonded(signed, []*keys.PrivateKey{cosigner})
	require.NoError(t, err)
	require.Equal(t, orig, *signed)
	require.Equal(t, signed.Hash, cosigned.Hash)
	require.Equal(t, AggregateBondedType, cosigned.EntityType)

	before, err := hex.DecodeString(signed.Payload)
	require.NoError(t, err)
	after, err := hex.DecodeString(cosigned.Payload)
	require.NoError(t, err)
	require.Equal(t, len(before)+CosignatureSize, len(after))
	require.Equal(t, uint32(len(after)), binary.LittleEndian.Uint32(after))
	require.Equal(t, before[SizeSize:], after[SizeSize:len(before)])
	require.Equal(t, cosigner.PublicKey().Bytes(), after[len(before):len(before)+SignerSize])
	require.Equal(t, bondedCosignature, hexUpper(after[len(before)+SignerSize:]))

	// Cosignatures don't change the hash.
	genHash, err := util.Uint256DecodeString(testGenHash)
	require.NoError(t, err)
	afterHash, err := Hash(after[:len(before)], genHash)
	require.NoError(t, err)
	require.Equal(t, bondedHash, afterHash.String())

	tx, err := Decode(after)
	require.NoError(t, err)
	agg := tx.(*AggregateTransaction)
	require.Len(t, agg.Cosignatures, 1)
	require.Equal(t, cosigner.PublicKey(), agg.Cosignatures[0].Signer)
	h, err := util.Uint256DecodeString(bondedHash)
	require.NoError(t, err)
	require.True(t, agg.Cosignatures[0].Signer.Verify(agg.Cosignatures[0].Signature, h[:]))
}

func TestCosignWrongKind(t *testing.T) {
	signed, err := Sign(testTransfer(t), testKey(t), testGenHash)
	require.NoError(t, err)
	orig := *signed
	_, err = CosignAggregateBonded(signed, []*keys.PrivateKey{testCosigner(t)})
	require.ErrorIs(t, err, ErrWrongTransactionKind)
	require.Equal(t, orig, *signed)

	inner := testTransfer(t)
	inner.ToAggregate(testCosigner(t).PublicKey())
	complete, err := NewCompleteAggregateTransaction(testDeadline(), []Transaction{inner}, netmode.PublicTest)
	require.NoError(t, err)
	signed, err = Sign(complete, testKey(t), testGenHash)
	require.NoError(t, err)
	_, err = CosignAggregateBonded(signed, []*keys.PrivateKey{testCosigner(t)})
	require.ErrorIs(t, err, ErrWrongTransactionKind)

	_, err = CosignAggregateBonded(nil, []*keys.PrivateKey{testCosigner(t)})
	require.ErrorIs(t, err, ErrWrongTransactionKind)
	_, err = AppendCosignatures(nil, []*keys.PrivateKey{testCosigner(t)})
	require.ErrorIs(t, err, ErrWrongTransactionKind)
}

func TestHashShortPayload(t *testing.T) {
	genHash, err := util.Uint256DecodeString(testGenHash)
	require.NoError(t, err)
	for _, n := range []int{0, VerifiableOffset - 1, HeaderSize - 1} {
		_, err = Hash(make([]byte, n), genHash)
		require.ErrorIs(t, err, ErrInvalidPayload, n)
	}
	_, err = Hash(make([]byte, HeaderSize), genHash)
	require.NoError(t, err)
}

func TestSignWithCosignatories(t *testing.T) {
	inner := testTransfer(t)
	inner.ToAggregate(testCosigner(t).PublicKey())
	complete, err := NewCompleteAggregateTransaction(testDeadline(), []Transaction{inner}, netmode.PublicTest)
	require.NoError(t, err)

	signed, err := SignWithCosignatories(complete, testKey(t), []*keys.PrivateKey{testCosigner(t)}, testGenHash)
	require.NoError(t, err)
	plain, err := Sign(complete, testKey(t), testGenHash)
	require.NoError(t, err)
	require.Equal(t, plain.Hash, signed.Hash)
	require.Equal(t, len(plain.Payload)+2*CosignatureSize, len(signed.Payload))

	payload, err := hex.DecodeString(signed.Payload)
	require.NoError(t, err)
	tx, err := Decode(payload)
	require.NoError(t, err)
	agg := tx.(*AggregateTransaction)
	require.Len(t, agg.Cosignatures, 1)

	// Signing a decoded aggregate with cosignatures keeps them out of the
	// signed data.
	resigned, err := Sign(agg, testKey(t), testGenHash)
	require.NoError(t, err)
	require.Equal(t, signed.Hash, resigned.Hash)
	require.Equal(t, signed.Payload, resigned.Payload)
}

func TestSignCosignature(t *testing.T) {
	cosig, err := SignCosignature(testCosigner(t), bondedHash)
	require.NoError(t, err)
	require.Equal(t, bondedHash, cosig.ParentHash)
	require.Equal(t, bondedCosignature, cosig.Signature)
	require.Equal(t, testCosigner(t).PublicKey().String(), cosig.Signer)

	b, err := json.Marshal(cosig)
	require.NoError(t, err)
	require.JSONEq(t, `{"parentHash":"`+bondedHash+`","signature":"`+bondedCosignature+
		`","signer":"`+cosig.Signer+`"}`, string(b))

	_, err = SignCosignature(nil, bondedHash)
	require.ErrorIs(t, err, ErrEmptySigner)
	_, err = SignCosignature(testCosigner(t), "xyz")
	require.ErrorIs(t, err, ErrInvalidHashEncoding)
}

func TestLockFunds(t *testing.T) {
	signed, err := Sign(testBonded(t), testKey(t), testGenHash)
	require.NoError(t, err)
	lock, err := NewLockFundsTransaction(testDeadline(), asset.XPXRelative(10), 480, signed, netmode.PublicTest)
	require.NoError(t, err)
	require.Equal(t, bondedHash, lock.Hash.String())

	transfer, err := Sign(testTransfer(t), testKey(t), testGenHash)
	require.NoError(t, err)
	_, err = NewLockFundsTransaction(testDeadline(), asset.XPXRelative(10), 480, transfer, netmode.PublicTest)
	require.ErrorIs(t, err, ErrWrongTransactionKind)
}
