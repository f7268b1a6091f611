package contract

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/Mohsinsiddi/poapmint/internal/chain"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// ErrEmptyResult means the call returned no data, usually because there is
// no contract at the configured address on this chain.
var ErrEmptyResult = errors.New("contract call returned no data")

// POAP is the gateway to the workshop POAP contract.
type POAP struct {
	client  *chain.EVMClient
	address common.Address
	abi     abi.ABI
	sender  *Sender
}

// Option configures a POAP gateway.
type Option func(*POAP)

// WithSigner enables Mint. chainID may be nil to ask the node.
func WithSigner(s TxSigner, chainID *big.Int) Option {
	return func(p *POAP) {
		p.sender = NewSender(p.client, s, chainID)
	}
}

// NewPOAP creates a gateway for the contract at address.
func NewPOAP(client *chain.EVMClient, address common.Address, opts ...Option) (*POAP, error) {
	parsed, err := POAPABI()
	if err != nil {
		return nil, err
	}
	p := &POAP{client: client, address: address, abi: parsed}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Address returns the contract address.
func (p *POAP) Address() common.Address { return p.address }

// HasMinted reports whether addr already holds the token.
func (p *POAP) HasMinted(ctx context.Context, addr common.Address) (bool, error) {
	vals, err := p.read(ctx, MethodHasMinted, addr)
	if err != nil {
		return false, err
	}
	minted, ok := vals[0].(bool)
	if !ok {
		return false, fmt.Errorf("%s: unexpected result type %T", MethodHasMinted, vals[0])
	}
	return minted, nil
}

// WorkshopDetails fetches the event metadata.
func (p *POAP) WorkshopDetails(ctx context.Context) (*WorkshopDetails, error) {
	vals, err := p.read(ctx, MethodGetWorkshopDetails)
	if err != nil {
		return nil, err
	}
	if len(vals) != 3 {
		return nil, fmt.Errorf("%s: expected 3 values, got %d", MethodGetWorkshopDetails, len(vals))
	}
	name, ok1 := vals[0].(string)
	start, ok2 := vals[1].(*big.Int)
	end, ok3 := vals[2].(*big.Int)
	if !ok1 || !ok2 || !ok3 {
		return nil, fmt.Errorf("%s: unexpected result types %T, %T, %T", MethodGetWorkshopDetails, vals[0], vals[1], vals[2])
	}
	return &WorkshopDetails{Name: name, StartDate: start, EndDate: end}, nil
}

// Mint submits mint() from the connected account. It returns once the node
// accepts the transaction; use TxStatus to follow it.
func (p *POAP) Mint(ctx context.Context) (common.Hash, error) {
	if p.sender == nil {
		return common.Hash{}, ErrNoSigner
	}
	data, err := p.abi.Pack(MethodMint)
	if err != nil {
		return common.Hash{}, fmt.Errorf("encoding %s: %w", MethodMint, err)
	}
	return p.sender.Send(ctx, p.address, data)
}

// TxStatus maps the receipt of hash to a TxState. A missing receipt is
// pending.
func (p *POAP) TxStatus(ctx context.Context, hash common.Hash) (TxState, error) {
	receipt, err := p.client.TransactionReceipt(ctx, hash)
	if err != nil {
		return TxPending, fmt.Errorf("fetching receipt: %w", err)
	}
	switch {
	case receipt == nil:
		return TxPending, nil
	case receipt.Status == 1:
		return TxSuccess, nil
	default:
		return TxFailure, nil
	}
}

func (p *POAP) read(ctx context.Context, method string, args ...any) ([]any, error) {
	data, err := p.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", method, err)
	}
	out, err := p.client.CallContract(ctx, p.address, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: %w", method, ErrEmptyResult)
	}
	vals, err := p.abi.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", method, err)
	}
	if len(vals) == 0 {
		return nil, fmt.Errorf("%s: %w", method, ErrEmptyResult)
	}
	return vals, nil
}
