package chain

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMappingSlotMatchesSolidityLayout(t *testing.T) {
	// keccak256(abi.encode(key, slot)) for mapping(address => uint256) at slot 0.
	want := crypto.Keccak256Hash(
		common.LeftPadBytes(alice.Bytes(), 32),
		common.LeftPadBytes(nil, 32),
	)
	assert.Equal(t, want, MappingSlot(Slot(0), AddressKey(alice)))

	nested := NestedMappingSlot(Slot(1), AddressKey(alice), AddressKey(bob))
	assert.Equal(t, MappingSlot(MappingSlot(Slot(1), AddressKey(alice)), AddressKey(bob)), nested)
	assert.NotEqual(t, nested, NestedMappingSlot(Slot(1), AddressKey(bob), AddressKey(alice)))
}

func TestWordEncoding(t *testing.T) {
	v := uint256.MustFromBig(new(big.Int).Lsh(big.NewInt(1), 200))
	assert.Equal(t, v, Word(WordHash(v)))
	assert.Equal(t, alice, AddressWord(AddressKey(alice)))
	assert.Equal(t, uint64(1), Word(BoolHash(true)).Uint64())
	assert.Equal(t, common.Hash{}, BoolHash(false))
	assert.Equal(t, common.BigToHash(big.NewInt(4)), Slot(4))
}

func TestParseUnits(t *testing.T) {
	cases := []struct {
		in       string
		decimals int
		want     string
	}{
		{"1", 18, "1000000000000000000"},
		{"0.9", 18, "900000000000000000"},
		{".5", 18, "500000000000000000"},
		{"9766", 18, "9766000000000000000000"},
		{"210000", 18, "210000000000000000000000"},
		{"1.5", 8, "150000000"},
		{"7", 0, "7"},
	}
	for _, tc := range cases {
		got, err := ParseUnits(tc.in, tc.decimals)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got.String(), tc.in)
	}

	for _, bad := range []string{"", "-1", "1.2.3", "abc", ".", "1e18", "0.0000000000000000001"} {
		_, err := ParseUnits(bad, 18)
		assert.Error(t, err, bad)
	}
}

func TestFormatUnits(t *testing.T) {
	assert.Equal(t, "146910", FormatUnits(Ether("146910"), EtherDecimals))
	assert.Equal(t, "0.9", FormatUnits(Ether("0.9"), EtherDecimals))
	assert.Equal(t, "0.000000000000000001", FormatUnits(big.NewInt(1), EtherDecimals))
	assert.Equal(t, "0", FormatUnits(new(big.Int), EtherDecimals))
	assert.Equal(t, "0", FormatUnits(nil, EtherDecimals))
	assert.Equal(t, "-1.5", FormatUnits(big.NewInt(-15), 1))
	assert.Equal(t, "42", FormatUnits(big.NewInt(42), 0))
}

func TestIntrinsicGas(t *testing.T) {
	assert.Equal(t, uint64(21000), IntrinsicGas(nil, false))
	assert.Equal(t, uint64(53000), IntrinsicGas(nil, true))
	assert.Equal(t, uint64(21000+4+16), IntrinsicGas([]byte{0, 1}, false))
}

func TestRevertError(t *testing.T) {
	err := Revert("Sale ended")
	assert.EqualError(t, err, "execution reverted: Sale ended")
	assert.ErrorIs(t, err, ErrExecutionReverted)

	reason, ok := RevertReason(err)
	assert.True(t, ok)
	assert.Equal(t, "Sale ended", reason)

	var rerr *RevertError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, []byte{0x08, 0xc3, 0x79, 0xa0}, rerr.Data[:4])

	fromData, ok := RevertReason(&RevertError{Data: rerr.Data})
	assert.True(t, ok)
	assert.Equal(t, "Sale ended", fromData)

	bare := Revert("")
	assert.EqualError(t, bare, "execution reverted")
	reason, ok = RevertReason(bare)
	assert.True(t, ok)
	assert.Empty(t, reason)

	_, ok = RevertReason(ErrNonceTooLow)
	assert.False(t, ok)
}
