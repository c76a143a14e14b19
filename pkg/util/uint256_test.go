package util_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/nspcc-dev/sirius-go/internal/testserdes"
	"github.com/nspcc-dev/sirius-go/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUint256DecodeString(t *testing.T) {
	hexStr := "7B631D803F912B00DC0CBED3014BBD17A302BA50B99D233B9C2D9533B842ABCF"
	val, err := util.Uint256DecodeString(hexStr)
	require.NoError(t, err)
	assert.Equal(t, hexStr, val.String())

	lower, err := util.Uint256DecodeString(strings.ToLower(hexStr))
	require.NoError(t, err)
	assert.True(t, val.Equals(lower))

	_, err = util.Uint256DecodeString(hexStr[1:])
	assert.Error(t, err)

	_, err = util.Uint256DecodeString("zz" + hexStr[2:])
	assert.Error(t, err)
}

func TestUint256DecodeBytes(t *testing.T) {
	b := make([]byte, 32)
	b[0] = 0xAB
	u, err := util.Uint256DecodeBytes(b)
	require.NoError(t, err)
	assert.Equal(t, b, u.BytesBE())
	assert.False(t, u.IsZero())
	assert.True(t, util.Uint256{}.IsZero())

	_, err = util.Uint256DecodeBytes(b[1:])
	assert.Error(t, err)
}

func TestUint256JSON(t *testing.T) {
	hexStr := "7B631D803F912B00DC0CBED3014BBD17A302BA50B99D233B9C2D9533B842ABCF"
	expected, err := util.Uint256DecodeString(hexStr)
	require.NoError(t, err)

	data, err := json.Marshal(expected)
	require.NoError(t, err)
	assert.Equal(t, `"`+hexStr+`"`, string(data))

	testserdes.MarshalUnmarshalJSON(t, &expected, new(util.Uint256))

	var actual util.Uint256
	assert.Error(t, actual.UnmarshalJSON([]byte(`123`)))
}
