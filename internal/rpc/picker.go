// Package rpc chooses which JSON-RPC endpoint the mint client talks to.
package rpc

import (
	"errors"
	"sort"
	"sync"
	"time"
)

// ErrNoHealthyRPC is returned when no healthy RPC endpoint is available.
var ErrNoHealthyRPC = errors.New("no healthy RPC endpoint available")

// Algorithm defines how an RPC endpoint is selected.
type Algorithm string

const (
	AlgorithmFastest    Algorithm = "fastest"
	AlgorithmRoundRobin Algorithm = "round-robin"
	AlgorithmFailover   Algorithm = "failover"

	// Endpoints more than this many blocks behind the tip are skipped.
	staleBlockThreshold = 3
	// A fastest-pick winner is reused for this long.
	cacheTTL = 5 * time.Minute
)

// Endpoint is one RPC URL with its measured attributes.
type Endpoint struct {
	URL         string
	Latency     time.Duration
	BlockNumber uint64
	Healthy     bool
}

// Picker selects an endpoint according to its algorithm. Safe for
// concurrent use.
type Picker struct {
	algo Algorithm

	mu          sync.Mutex
	next        int
	cachedURL   string
	cacheExpiry time.Time
	now         func() time.Time
}

// NewPicker creates a Picker. An empty algorithm means fastest.
func NewPicker(algo Algorithm) *Picker {
	if algo == "" {
		algo = AlgorithmFastest
	}
	return &Picker{algo: algo, now: time.Now}
}

// Pick selects an endpoint from endpoints.
func (p *Picker) Pick(endpoints []Endpoint) (Endpoint, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	candidates := fresh(endpoints)
	if len(candidates) == 0 {
		return Endpoint{}, ErrNoHealthyRPC
	}

	switch p.algo {
	case AlgorithmFailover:
		// Input order is the preference order.
		return candidates[0], nil

	case AlgorithmRoundRobin:
		e := candidates[p.next%len(candidates)]
		p.next = (p.next + 1) % len(candidates)
		return e, nil

	default:
		if p.cachedURL != "" && p.now().Before(p.cacheExpiry) {
			for _, e := range candidates {
				if e.URL == p.cachedURL {
					return e, nil
				}
			}
		}
		sorted := append([]Endpoint(nil), candidates...)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Latency < sorted[j].Latency
		})
		p.cachedURL = sorted[0].URL
		p.cacheExpiry = p.now().Add(cacheTTL)
		return sorted[0], nil
	}
}

// fresh keeps healthy endpoints within staleBlockThreshold of the highest
// block seen, preserving input order.
func fresh(endpoints []Endpoint) []Endpoint {
	var tip uint64
	for _, e := range endpoints {
		if e.Healthy && e.BlockNumber > tip {
			tip = e.BlockNumber
		}
	}
	out := make([]Endpoint, 0, len(endpoints))
	for _, e := range endpoints {
		if !e.Healthy {
			continue
		}
		if tip-e.BlockNumber > staleBlockThreshold {
			continue
		}
		out = append(out, e)
	}
	return out
}
