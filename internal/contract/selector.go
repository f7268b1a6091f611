package contract

import (
	"encoding/hex"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"golang.org/x/crypto/sha3"
)

// Selector computes the 4-byte function selector for a canonical signature
// such as "hasMinted(address)".
func Selector(signature string) string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(strings.ReplaceAll(signature, " ", "")))
	return "0x" + hex.EncodeToString(h.Sum(nil)[:4])
}

// FunctionInfo describes one ABI function for display.
type FunctionInfo struct {
	Signature       string
	Selector        string
	StateMutability string
	Outputs         string
}

// Functions lists a's functions sorted by name.
func Functions(a abi.ABI) []FunctionInfo {
	out := make([]FunctionInfo, 0, len(a.Methods))
	for _, m := range a.Methods {
		outs := make([]string, len(m.Outputs))
		for i, o := range m.Outputs {
			outs[i] = strings.TrimSpace(o.Type.String() + " " + o.Name)
		}
		out = append(out, FunctionInfo{
			Signature:       m.Sig,
			Selector:        Selector(m.Sig),
			StateMutability: m.StateMutability,
			Outputs:         strings.Join(outs, ", "),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Signature < out[j].Signature })
	return out
}
