package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var (
	// ErrNoWallet is returned when no wallet was named and no default exists.
	ErrNoWallet = errors.New("no wallet configured")
	// ErrNotConnected is returned when signing is attempted without a
	// connected signing wallet.
	ErrNotConnected = errors.New("no signing wallet connected")
)

// AccountState is the account as seen by the mint view.
type AccountState struct {
	Address   common.Address
	Connected bool
	Wallet    string
}

// HasAddress reports whether an address is available.
func (a AccountState) HasAddress() bool { return a.Address != (common.Address{}) }

// Connector resolves the active wallet and signs for it. The wallet named at
// construction wins; otherwise the store's default is used, re-read on every
// Account call so switching the default takes effect while running.
type Connector struct {
	mgr  *Manager
	name string

	mu       sync.Mutex
	current  *Wallet
	unlocked map[string]bool
}

// NewConnector creates a connector over mgr. name may be empty.
func NewConnector(mgr *Manager, name string) *Connector {
	return &Connector{mgr: mgr, name: name, unlocked: make(map[string]bool)}
}

// Account resolves the wallet and reports its state. A signing wallet is
// connected once its key has been retrieved from the key store.
func (c *Connector) Account(ctx context.Context) (AccountState, error) {
	if err := ctx.Err(); err != nil {
		return AccountState{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.mgr.Reload()
	w, err := c.resolve()
	if err != nil {
		c.current = nil
		return AccountState{}, err
	}

	state := AccountState{Address: w.Addr(), Wallet: w.Name}
	if w.Type == TypeSigning {
		if !c.unlocked[w.KeyRef] {
			if _, err := c.mgr.KeyStore().Retrieve(w.KeyRef); err != nil {
				c.current = nil
				return state, fmt.Errorf("unlocking wallet %q: %w", w.Name, err)
			}
			c.unlocked[w.KeyRef] = true
		}
		state.Connected = true
		c.current = w
	} else {
		c.current = nil
	}
	return state, nil
}

func (c *Connector) resolve() (*Wallet, error) {
	if c.name != "" {
		w, err := c.mgr.Get(c.name)
		if err != nil {
			return nil, fmt.Errorf("wallet %q: %w", c.name, err)
		}
		return w, nil
	}
	w, err := c.mgr.Default()
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, ErrNoWallet
	}
	return w, nil
}

// Address returns the connected signing address, or the zero address.
func (c *Connector) Address() common.Address {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return common.Address{}
	}
	return c.current.Addr()
}

// SignTx signs with the currently connected wallet.
func (c *Connector) SignTx(tx *types.Transaction, chainID *big.Int) ([]byte, error) {
	c.mu.Lock()
	w := c.current
	c.mu.Unlock()
	if w == nil {
		return nil, ErrNotConnected
	}
	return NewSigner(w, c.mgr.KeyStore()).SignTx(tx, chainID)
}
