package contract

import (
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectorKnownValues(t *testing.T) {
	assert.Equal(t, "0x70a08231", Selector("balanceOf(address)"))
	assert.Equal(t, "0xa9059cbb", Selector("transfer(address,uint256)"))
	assert.Equal(t, "0xa9059cbb", Selector("transfer(address, uint256)"), "spaces are ignored")
}

func TestSelectorMatchesABIMethodIDs(t *testing.T) {
	parsed, err := POAPABI()
	require.NoError(t, err)

	for name, m := range parsed.Methods {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, hexutil.Encode(m.ID), Selector(m.Sig))
		})
	}
}

func TestFunctionsListing(t *testing.T) {
	parsed, err := POAPABI()
	require.NoError(t, err)

	fns := Functions(parsed)
	require.Len(t, fns, 3)
	assert.Equal(t, "getWorkshopDetails()", fns[0].Signature)
	assert.Equal(t, "string name, uint256 startDate, uint256 endDate", fns[0].Outputs)
	assert.Equal(t, "hasMinted(address)", fns[1].Signature)
	assert.Equal(t, "view", fns[1].StateMutability)
	assert.Equal(t, "mint()", fns[2].Signature)
	assert.Equal(t, "nonpayable", fns[2].StateMutability)
}

func TestTxStateString(t *testing.T) {
	assert.Equal(t, "idle", TxIdle.String())
	assert.Equal(t, "pending", TxPending.String())
	assert.Equal(t, "success", TxSuccess.String())
	assert.Equal(t, "failure", TxFailure.String())
	assert.True(t, TxSuccess.Terminal())
	assert.True(t, TxFailure.Terminal())
	assert.False(t, TxPending.Terminal())
}
