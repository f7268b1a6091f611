package contract

import (
	"math/big"
	"time"
)

// TxState is the lifecycle of a submitted transaction.
type TxState int

const (
	TxIdle TxState = iota
	TxPending
	TxSuccess
	TxFailure
)

func (s TxState) String() string {
	switch s {
	case TxPending:
		return "pending"
	case TxSuccess:
		return "success"
	case TxFailure:
		return "failure"
	default:
		return "idle"
	}
}

// Terminal reports whether the state no longer changes.
func (s TxState) Terminal() bool { return s == TxSuccess || s == TxFailure }

// WorkshopDetails is the event metadata stored in the contract. Dates are
// unix seconds.
type WorkshopDetails struct {
	Name      string
	StartDate *big.Int
	EndDate   *big.Int
}

// Start returns the start date in local time.
func (d *WorkshopDetails) Start() time.Time { return unixTime(d.StartDate) }

// End returns the end date in local time.
func (d *WorkshopDetails) End() time.Time { return unixTime(d.EndDate) }

func unixTime(v *big.Int) time.Time {
	if v == nil || !v.IsInt64() {
		return time.Time{}
	}
	return time.Unix(v.Int64(), 0)
}
