package transaction

import (
	"encoding/binary"
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/nspcc-dev/sirius-go/pkg/config/netmode"
	"github.com/nspcc-dev/sirius-go/pkg/core/asset"
	"github.com/nspcc-dev/sirius-go/pkg/crypto/keys"
	"github.com/nspcc-dev/sirius-go/pkg/encoding/address"
	"github.com/nspcc-dev/sirius-go/pkg/util"
	"github.com/stretchr/testify/require"
)

const (
	testPrivateKey = "5D3E959EB0CD69CC1DB6E9C62CB81EC52747AB56FA740CF18AACB5003429AD2E"
	testPublicKey  = "C952A761C0D51940AE77EC44DE93662133B5A2E93F5DCADAB7F972FA91F5DFCD"
	testGenHash    = "7B631D803F912B00DC0CBED3014BBD17A302BA50B99D233B9C2D9533B842ABDF"
	testRecipient  = "VCVF646H3M3C5CNIVWFZ734NC2WQXWYUKBGIZAB5"
	testTimestamp  = 1000000
)

func testDeadline() Deadline {
	return NewDeadlineFromTimestamp(testTimestamp)
}

func testKey(t *testing.T) *keys.PrivateKey {
	k, err := keys.NewPrivateKeyFromHex(testPrivateKey)
	require.NoError(t, err)
	return k
}

func testCosigner(t *testing.T) *keys.PrivateKey {
	seed := make([]byte, keys.SeedSize)
	for i := range seed {
		seed[i] = byte(i)
	}
	k, err := keys.NewPrivateKeyFromBytes(seed)
	require.NoError(t, err)
	return k
}

func testAddress(t *testing.T) *address.Address {
	a, err := address.FromRaw(testRecipient)
	require.NoError(t, err)
	return a
}

func testTransfer(t *testing.T) *TransferTransaction {
	tx, err := NewTransferTransaction(testDeadline(), testAddress(t),
		[]asset.Mosaic{asset.XPX(10000000)}, NewPlainMessage("hello"), netmode.PublicTest)
	require.NoError(t, err)
	return tx
}

func allKinds(t *testing.T) []Transaction {
	d := testDeadline()
	owner := testKey(t).PublicKey()
	addr := testAddress(t)
	res := []Transaction{testTransfer(t)}
	add := func(tx Transaction, err error) {
		require.NoError(t, err)
		res = append(res, tx)
	}

	props, err := asset.NewMosaicProperties(true, true, 4, 1000)
	require.NoError(t, err)
	add(NewMosaicDefinitionTransaction(d, asset.NewMosaicNonce(42), owner, *props, netmode.PublicTest))
	add(NewMosaicSupplyChangeTransaction(d, util.Uint64(0x2A8AAD15A7EA2FD2), Increase, 1000, netmode.PublicTest))
	add(NewRegisterRootNamespaceTransaction(d, "newnamespace", 1000, netmode.PublicTest))
	parent, err := asset.NewNamespaceIDFromName("prx")
	require.NoError(t, err)
	add(NewRegisterSubNamespaceTransaction(d, "subnamespace", parent, netmode.PublicTest))
	add(NewAddressAliasTransaction(d, addr, parent, asset.AliasLink, netmode.PublicTest))
	add(NewMosaicAliasTransaction(d, asset.MosaicID(0x2A8AAD15A7EA2FD2), parent, asset.AliasUnlink, netmode.PublicTest))

	proof := "B778A39A3663719DFC5E48C9D78431B1E45C2AF9DF538782BF199C189DABEAC7"
	p, err := hex.DecodeString(proof)
	require.NoError(t, err)
	secret, err := Sha3_256.SecretFromProof(p)
	require.NoError(t, err)
	add(NewSecretLockTransaction(d, asset.XPX(10), 100, Sha3_256, secret.String(), addr, netmode.PublicTest))
	add(NewSecretProofTransaction(d, Sha3_256, secret.String(), addr, proof, netmode.PublicTest))

	add(NewModifyMultisigAccountTransaction(d, 2, 1, []*CosignatoryModification{
		{Type: Add, PublicKey: owner},
		{Type: Remove, PublicKey: testCosigner(t).PublicKey()},
	}, netmode.PublicTest))
	add(NewAccountLinkTransaction(d, owner, AccountLink, netmode.PublicTest))
	add(NewAccountPropertiesAddressTransaction(d, BlockAddress, []*AccountPropertiesAddressModification{
		{ModificationType: Add, Address: addr},
	}, netmode.PublicTest))
	add(NewAccountPropertiesMosaicTransaction(d, AllowMosaic, []*AccountPropertiesMosaicModification{
		{ModificationType: Remove, AssetID: util.Uint64(asset.XPXNamespaceID)},
	}, netmode.PublicTest))
	add(NewAccountPropertiesEntityTypeTransaction(d, BlockTransaction, []*AccountPropertiesEntityTypeModification{
		{ModificationType: Add, EntityType: TransferType},
	}, netmode.PublicTest))
	add(NewNetworkConfigTransaction(d, 10, "[network]\nidentifier = public-test", "{}", netmode.PublicTest))
	add(NewBlockchainUpgradeTransaction(d, 100, util.Uint64FromInts(1, 2), netmode.PublicTest))
	return res
}

func TestTransferBytes(t *testing.T) {
	tx := testTransfer(t)
	b, err := Bytes(tx)
	require.NoError(t, err)
	require.Equal(t, 172, len(b))
	require.Equal(t, tx.Size(), len(b))
	require.Equal(t, uint32(172), binary.LittleEndian.Uint32(b))
	require.Equal(t, make([]byte, SignatureSize+SignerSize), b[SignatureOffset:VerifiableOffset])
	require.Equal(t, "030000A85441000000000000000040420F0000000000"+
		"A8AA5F73C7DB362E89A8AD8B9FEF8D16AD0BDB14504C8C803D"+
		"0600010068656C6C6F"+
		"F6BD1691A142FBBF8096980000000000",
		hexUpper(b[VerifiableOffset:]))
}

func TestBytesMissingDeadline(t *testing.T) {
	tx := testTransfer(t)
	tx.Deadline = Deadline{}
	_, err := Bytes(tx)
	require.ErrorIs(t, err, ErrMissingDeadline)
}

func TestTransferSortsMosaics(t *testing.T) {
	tx, err := NewTransferTransaction(testDeadline(), testAddress(t), []asset.Mosaic{
		asset.NewMosaic(util.Uint64(0xFF), 1),
		asset.NewMosaic(util.Uint64(0x01), 2),
	}, Message{}, netmode.PublicTest)
	require.NoError(t, err)
	require.Equal(t, util.Uint64(0x01), tx.Mosaics[0].ID)
	require.Equal(t, util.Uint64(0xFF), tx.Mosaics[1].ID)

	_, err = NewTransferTransaction(testDeadline(), nil, nil, Message{}, netmode.PublicTest)
	require.Error(t, err)
}

func TestDecodeRoundTrip(t *testing.T) {
	for _, tx := range allKinds(t) {
		t.Run(tx.Header().Type.String(), func(t *testing.T) {
			b, err := Bytes(tx)
			require.NoError(t, err)
			require.Equal(t, tx.Size(), len(b))

			actual, err := Decode(b)
			require.NoError(t, err)
			require.Equal(t, tx, actual)
		})
	}
}

func TestDecodeEmbeddedRoundTrip(t *testing.T) {
	signer := testKey(t).PublicKey()
	for _, tx := range allKinds(t) {
		t.Run(tx.Header().Type.String(), func(t *testing.T) {
			tx.Header().ToAggregate(signer)
			b, err := EmbeddedBytes(tx)
			require.NoError(t, err)
			require.Equal(t, EmbeddedSize(tx), len(b))
			require.Equal(t, signer[:], b[SizeSize:SizeSize+SignerSize])

			// Trailing data belongs to the next transaction.
			actual, n, err := DecodeEmbedded(append(b, 0xFF, 0xFF))
			require.NoError(t, err)
			require.Equal(t, len(b), n)
			require.Equal(t, signer, actual.Header().Signer)
			require.Equal(t, tx.Header().Type, actual.Header().Type)
			again, err := EmbeddedBytes(actual)
			require.NoError(t, err)
			require.Equal(t, b, again)
		})
	}
}

func TestEmbeddedBytesWithoutSigner(t *testing.T) {
	_, err := EmbeddedBytes(testTransfer(t))
	require.ErrorIs(t, err, ErrEmptySigner)
}

func TestDecodeErrors(t *testing.T) {
	b, err := Bytes(testTransfer(t))
	require.NoError(t, err)

	t.Run("short", func(t *testing.T) {
		_, err := Decode(b[:HeaderSize-1])
		require.ErrorIs(t, err, ErrInvalidPayload)
	})
	t.Run("truncated", func(t *testing.T) {
		_, err := Decode(b[:len(b)-1])
		require.ErrorIs(t, err, ErrInvalidPayload)
	})
	t.Run("trailing", func(t *testing.T) {
		_, err := Decode(append(append([]byte{}, b...), 0))
		require.ErrorIs(t, err, ErrInvalidPayload)
	})
	t.Run("unknown type", func(t *testing.T) {
		bad := append([]byte{}, b...)
		binary.LittleEndian.PutUint16(bad[TypeOffset:], 0xFFFF)
		_, err := Decode(bad)
		require.ErrorIs(t, err, ErrUnknownEntityType)
	})
	t.Run("unknown network", func(t *testing.T) {
		bad := append([]byte{}, b...)
		bad[TypeOffset-1] = 0x01
		_, err := Decode(bad)
		require.ErrorIs(t, err, ErrInvalidPayload)
	})
}

func TestAggregateRoundTrip(t *testing.T) {
	inner := testTransfer(t)
	inner.ToAggregate(testCosigner(t).PublicKey())
	supply, err := NewMosaicSupplyChangeTransaction(testDeadline(), 1, Decrease, 5, netmode.PublicTest)
	require.NoError(t, err)
	supply.ToAggregate(testKey(t).PublicKey())

	agg, err := NewCompleteAggregateTransaction(testDeadline(), []Transaction{inner, supply}, netmode.PublicTest)
	require.NoError(t, err)
	b, err := Bytes(agg)
	require.NoError(t, err)
	require.Equal(t, agg.Size(), len(b))
	require.Equal(t, HeaderSize+4+EmbeddedSize(inner)+EmbeddedSize(supply), len(b))

	actual, err := Decode(b)
	require.NoError(t, err)
	decoded, ok := actual.(*AggregateTransaction)
	require.True(t, ok)
	require.Equal(t, AggregateCompleteType, decoded.Type)
	require.Len(t, decoded.InnerTransactions, 2)
	require.Nil(t, decoded.Cosignatures)
	for i, tx := range agg.InnerTransactions {
		expected, err := EmbeddedBytes(tx)
		require.NoError(t, err)
		got, err := EmbeddedBytes(decoded.InnerTransactions[i])
		require.NoError(t, err)
		require.Equal(t, expected, got)
	}

	again, err := Bytes(decoded)
	require.NoError(t, err)
	require.Equal(t, b, again)
}

func TestAggregateValidation(t *testing.T) {
	inner := testTransfer(t)
	_, err := NewBondedAggregateTransaction(testDeadline(), []Transaction{inner}, netmode.PublicTest)
	require.ErrorIs(t, err, ErrEmptySigner)

	inner.ToAggregate(testKey(t).PublicKey())
	agg, err := NewBondedAggregateTransaction(testDeadline(), []Transaction{inner}, netmode.PublicTest)
	require.NoError(t, err)
	agg.ToAggregate(testKey(t).PublicKey())
	_, err = NewCompleteAggregateTransaction(testDeadline(), []Transaction{agg}, netmode.PublicTest)
	require.ErrorIs(t, err, ErrWrongTransactionKind)
	_, err = EmbeddedBytes(agg)
	require.ErrorIs(t, err, ErrWrongTransactionKind)
}

func TestVersionWord(t *testing.T) {
	tx := testTransfer(t)
	require.Equal(t, uint8(3), tx.Version)
	require.Equal(t, uint32(0xA8000003), tx.VersionWord())
}

func TestState(t *testing.T) {
	tx := testTransfer(t)
	require.Equal(t, Unsigned, tx.State())

	tx.Signature = make([]byte, SignatureSize)
	require.Equal(t, Signed, tx.State())

	h := util.Uint256{1}
	tx.Info = &TransactionInfo{Hash: h}
	require.Equal(t, Unconfirmed, tx.State())
	require.True(t, tx.IsUnconfirmed())
	require.True(t, tx.HasMissingSignatures())

	tx.Info.MerkleComponentHash = h
	require.False(t, tx.HasMissingSignatures())

	tx.Info.Height = 10
	require.Equal(t, Confirmed, tx.State())
	require.True(t, tx.IsConfirmed())
	require.False(t, tx.HasMissingSignatures())
	require.Equal(t, "confirmed", tx.State().String())
}

func TestDeadline(t *testing.T) {
	d := NewDeadlineFromTimestamp(testTimestamp)
	require.Equal(t, uint64(testTimestamp), d.Timestamp())
	require.True(t, NemesisTimestamp.Add(testTimestamp*time.Millisecond).Equal(d.Time))
	require.Equal(t, uint64(0), Deadline{}.Timestamp())

	def := NewDefaultDeadline()
	require.True(t, def.Timestamp() > 0)
	require.Equal(t, 0, def.Nanosecond()%1e6)
}

func TestEntityType(t *testing.T) {
	require.Equal(t, "4154", TransferType.Hex())
	require.True(t, AggregateBondedType.IsAggregate())
	require.False(t, TransferType.IsAggregate())

	typ, err := EntityTypeFromString("4241")
	require.NoError(t, err)
	require.Equal(t, AggregateBondedType, typ)
	_, err = EntityTypeFromString("FFFF")
	require.ErrorIs(t, err, ErrUnknownEntityType)
}

func TestSecretProofMismatch(t *testing.T) {
	secret := make([]byte, 32)
	_, err := NewSecretProofTransaction(testDeadline(), Sha3_256, hex.EncodeToString(secret),
		testAddress(t), "B778A39A3663719DFC5E48C9D78431B1E45C2AF9DF538782BF199C189DABEAC7", netmode.PublicTest)
	require.ErrorIs(t, err, ErrSecretMismatch)

	_, err = NewSecretLockTransaction(testDeadline(), asset.XPX(1), 10, Sha3_256, "zz", testAddress(t), netmode.PublicTest)
	require.ErrorIs(t, err, ErrInvalidSecret)
}

func TestHash160Secret(t *testing.T) {
	proof := []byte("secret")
	secret, err := Hash160.SecretFromProof(proof)
	require.NoError(t, err)
	require.Equal(t, make([]byte, 12), secret[20:])

	short := hex.EncodeToString(secret[:20])
	tx, err := NewSecretProofTransaction(testDeadline(), Hash160, short, testAddress(t),
		hex.EncodeToString(proof), netmode.PublicTest)
	require.NoError(t, err)
	require.Equal(t, secret, tx.Secret)
}

func TestAccountPropertyKinds(t *testing.T) {
	_, err := NewAccountPropertiesAddressTransaction(testDeadline(), AllowMosaic, nil, netmode.PublicTest)
	require.ErrorIs(t, err, ErrWrongTransactionKind)
	_, err = NewAccountPropertiesMosaicTransaction(testDeadline(), BlockTransaction, nil, netmode.PublicTest)
	require.ErrorIs(t, err, ErrWrongTransactionKind)
	_, err = NewAccountPropertiesEntityTypeTransaction(testDeadline(), AllowAddress, nil, netmode.PublicTest)
	require.ErrorIs(t, err, ErrWrongTransactionKind)
}

func TestTransactionStatus(t *testing.T) {
	s := &TransactionStatus{Group: GroupConfirmed, Status: StatusSuccess}
	require.False(t, s.IsFailed())
	s.Status = "Failure_Core_Insufficient_Balance"
	require.True(t, s.IsFailed())
	require.True(t, (&TransactionStatus{Group: GroupFailed}).IsFailed())
}

func hexUpper(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}
