// Package ens resolves ENS names so eligibility can be checked for
// alice.eth as well as a hex address.
package ens

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

// RegistryAddress is the ENS registry, the same on Ethereum mainnet and
// Sepolia.
var RegistryAddress = common.HexToAddress("0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e")

// ErrNoRecord is returned when a name has no resolver or no address.
var ErrNoRecord = errors.New("no ENS record")

const ensABI = `[
  {"type":"function","name":"resolver","stateMutability":"view",
   "inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"addr","stateMutability":"view",
   "inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"name":"","type":"address"}]}
]`

var parsed = func() abi.ABI {
	a, err := abi.JSON(strings.NewReader(ensABI))
	if err != nil {
		panic(err)
	}
	return a
}()

// Caller runs eth_call. chain.EVMClient satisfies it.
type Caller interface {
	CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error)
}

// IsName reports whether s looks like an ENS name rather than an address.
func IsName(s string) bool {
	s = strings.TrimSpace(s)
	return strings.Contains(s, ".") && !strings.HasPrefix(s, "0x")
}

// Resolve looks up the resolver for name in the registry, then asks it for
// the address record.
func Resolve(ctx context.Context, c Caller, name string) (common.Address, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	node := Namehash(name)

	resolver, err := callAddress(ctx, c, RegistryAddress, "resolver", node)
	if err != nil {
		return common.Address{}, fmt.Errorf("querying ENS registry: %w", err)
	}
	if resolver == (common.Address{}) {
		return common.Address{}, fmt.Errorf("%w: no resolver for %q", ErrNoRecord, name)
	}

	addr, err := callAddress(ctx, c, resolver, "addr", node)
	if err != nil {
		return common.Address{}, fmt.Errorf("querying ENS resolver: %w", err)
	}
	if addr == (common.Address{}) {
		return common.Address{}, fmt.Errorf("%w: no address for %q", ErrNoRecord, name)
	}
	return addr, nil
}

// Namehash implements EIP-137. Labels are hashed right to left onto a zero
// node.
func Namehash(name string) common.Hash {
	var node common.Hash
	if name == "" {
		return node
	}
	labels := strings.Split(name, ".")
	for i := len(labels) - 1; i >= 0; i-- {
		label := keccak256([]byte(labels[i]))
		node = common.BytesToHash(keccak256(append(node.Bytes(), label...)))
	}
	return node
}

func callAddress(ctx context.Context, c Caller, to common.Address, method string, node common.Hash) (common.Address, error) {
	data, err := parsed.Pack(method, [32]byte(node))
	if err != nil {
		return common.Address{}, err
	}
	out, err := c.CallContract(ctx, to, data)
	if err != nil {
		return common.Address{}, err
	}
	if len(out) == 0 {
		return common.Address{}, nil
	}
	vals, err := parsed.Unpack(method, out)
	if err != nil {
		return common.Address{}, fmt.Errorf("decoding %s: %w", method, err)
	}
	addr, ok := vals[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("decoding %s: unexpected %T", method, vals[0])
	}
	return addr, nil
}

func keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}
