package contract

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/Mohsinsiddi/poapmint/internal/chain"
	"github.com/Mohsinsiddi/poapmint/internal/config"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ErrNoSigner is returned when a write is attempted without a connected
// signing account.
var ErrNoSigner = errors.New("no signing account connected")

// TxSigner signs transactions for one account.
type TxSigner interface {
	Address() common.Address
	SignTx(tx *types.Transaction, chainID *big.Int) ([]byte, error)
}

// Sender sends zero-value write transactions to contracts.
type Sender struct {
	client *chain.EVMClient
	signer TxSigner

	mu      sync.Mutex
	chainID *big.Int
}

// NewSender creates a Sender. chainID may be nil, in which case it is asked
// from the node on first use.
func NewSender(client *chain.EVMClient, signer TxSigner, chainID *big.Int) *Sender {
	return &Sender{client: client, signer: signer, chainID: chainID}
}

// Send signs and broadcasts a call to `to` carrying data. Returns the
// transaction hash.
func (s *Sender) Send(ctx context.Context, to common.Address, data []byte) (common.Hash, error) {
	if s.signer == nil {
		return common.Hash{}, ErrNoSigner
	}
	from := s.signer.Address()
	if from == (common.Address{}) {
		return common.Hash{}, ErrNoSigner
	}

	chainID, err := s.chain(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	gas, err := s.client.EstimateGas(ctx, from, to, data)
	if err != nil {
		// A reverting estimate is the node's answer, not a transport hiccup.
		var rpcErr *chain.RPCError
		if errors.As(err, &rpcErr) {
			return common.Hash{}, fmt.Errorf("estimating gas: %w", err)
		}
		gas = config.GasLimitMint
	}

	gasPrice, err := s.client.GasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("getting gas price: %w", err)
	}

	nonce, err := s.client.PendingNonce(ctx, from)
	if err != nil {
		return common.Hash{}, fmt.Errorf("getting nonce: %w", err)
	}

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: gasPrice,
		GasFeeCap: new(big.Int).Mul(gasPrice, big.NewInt(2)),
		Gas:       gas,
		To:        &to,
		Value:     big.NewInt(0),
		Data:      data,
	})

	raw, err := s.signer.SignTx(tx, chainID)
	if err != nil {
		return common.Hash{}, fmt.Errorf("signing transaction: %w", err)
	}

	hash, err := s.client.SendRawTransaction(ctx, raw)
	if err != nil {
		return common.Hash{}, fmt.Errorf("broadcasting transaction: %w", err)
	}
	return hash, nil
}

func (s *Sender) chain(ctx context.Context) (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.chainID != nil {
		return s.chainID, nil
	}
	id, err := s.client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting chain id: %w", err)
	}
	s.chainID = id
	return id, nil
}
