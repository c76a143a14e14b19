package testserdes

import (
	"encoding/json"
	"testing"

	"github.com/nspcc-dev/sirius-go/pkg/core/transaction"
	"github.com/stretchr/testify/require"
)

// MarshalUnmarshalJSON checks if expected stays the same after
// marshal/unmarshal via JSON.
func MarshalUnmarshalJSON(t *testing.T, expected, actual any) {
	data, err := json.Marshal(expected)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, actual))
	require.Equal(t, expected, actual)
}

// EncodeDecodeTransaction checks if tx payload stays the same after
// decoding it and serializing the result again. The decoded transaction is
// returned.
func EncodeDecodeTransaction(t *testing.T, tx transaction.Transaction) transaction.Transaction {
	data, err := transaction.Bytes(tx)
	require.NoError(t, err)
	actual, err := transaction.Decode(data)
	require.NoError(t, err)
	again, err := transaction.Bytes(actual)
	require.NoError(t, err)
	require.Equal(t, data, again)
	return actual
}
