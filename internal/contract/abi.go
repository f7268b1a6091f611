package contract

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// poapABI is the interface of the workshop POAP contract.
const poapABI = `[
  {"type":"function","name":"mint","stateMutability":"nonpayable","inputs":[],"outputs":[]},
  {"type":"function","name":"hasMinted","stateMutability":"view",
   "inputs":[{"name":"","type":"address"}],
   "outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"getWorkshopDetails","stateMutability":"view","inputs":[],
   "outputs":[{"name":"name","type":"string"},{"name":"startDate","type":"uint256"},{"name":"endDate","type":"uint256"}]}
]`

// Method names on the POAP contract.
const (
	MethodMint               = "mint"
	MethodHasMinted          = "hasMinted"
	MethodGetWorkshopDetails = "getWorkshopDetails"
)

// POAPABI parses the embedded POAP contract ABI.
func POAPABI() (abi.ABI, error) {
	a, err := abi.JSON(strings.NewReader(poapABI))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("parsing POAP ABI: %w", err)
	}
	return a, nil
}
