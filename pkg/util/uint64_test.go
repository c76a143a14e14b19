package util_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/nspcc-dev/sirius-go/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUint64FromIntsRoundTrip(t *testing.T) {
	pairs := [][2]uint32{
		{0, 0},
		{1, 0},
		{0, 1},
		{math.MaxUint32, 0},
		{0, math.MaxUint32},
		{math.MaxUint32, math.MaxUint32},
		{0x9116BDF6, 0xBFFB42A1},
	}
	for _, p := range pairs {
		u := util.Uint64FromInts(p[0], p[1])
		assert.Equal(t, p, u.ToIntArray())
	}
	assert.Equal(t, util.Uint64(math.MaxUint64), util.Uint64FromInts(math.MaxUint32, math.MaxUint32))
	assert.Equal(t, util.Uint64(0xBFFB42A19116BDF6), util.Uint64FromInts(0x9116BDF6, 0xBFFB42A1))
}

func TestUint64FromHex(t *testing.T) {
	u, err := util.Uint64FromHex("BFFB42A19116BDF6")
	require.NoError(t, err)
	assert.Equal(t, util.Uint64(13833723942089965046), u)
	assert.Equal(t, "BFFB42A19116BDF6", u.Hex())

	u, err = util.Uint64FromHex("0xbffb42a19116bdf6")
	require.NoError(t, err)
	assert.Equal(t, util.Uint64(13833723942089965046), u)

	for _, s := range []string{"", "zz", "12345678901234567", "0x"} {
		_, err = util.Uint64FromHex(s)
		require.ErrorIs(t, err, util.ErrInvalidNumberFormat, s)
	}
}

func TestUint64Bytes(t *testing.T) {
	u := util.Uint64(0x0102030405060708)
	b := u.Bytes()
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, b)

	actual, err := util.Uint64FromBytes(b)
	require.NoError(t, err)
	assert.Equal(t, u, actual)

	_, err = util.Uint64FromBytes([]byte{1, 2, 3})
	require.ErrorIs(t, err, util.ErrInvalidNumberFormat)
}

func TestUint64JSON(t *testing.T) {
	u := util.Uint64FromInts(100, 7)
	data, err := json.Marshal(u)
	require.NoError(t, err)
	assert.Equal(t, `[100,7]`, string(data))

	var actual util.Uint64
	require.NoError(t, json.Unmarshal(data, &actual))
	assert.Equal(t, u, actual)

	require.NoError(t, json.Unmarshal([]byte(`"30064771172"`), &actual))
	assert.Equal(t, u, actual)

	require.ErrorIs(t, json.Unmarshal([]byte(`[1,2,3]`), &actual), util.ErrInvalidNumberFormat)
	require.ErrorIs(t, json.Unmarshal([]byte(`"abc"`), &actual), util.ErrInvalidNumberFormat)
	require.ErrorIs(t, json.Unmarshal([]byte(`{}`), &actual), util.ErrInvalidNumberFormat)
}

func TestUint64String(t *testing.T) {
	assert.Equal(t, "18446744073709551615", util.Uint64(math.MaxUint64).String())
	assert.Equal(t, "0", util.Uint64(0).Hex())
}
