package rpc

import (
	"context"
	"sync"

	"github.com/Mohsinsiddi/poapmint/internal/chain"
)

// Benchmark pings every URL in parallel. Results keep the input order.
func Benchmark(ctx context.Context, urls []string) []Endpoint {
	out := make([]Endpoint, len(urls))
	var wg sync.WaitGroup
	for i, u := range urls {
		wg.Add(1)
		go func(idx int, url string) {
			defer wg.Done()
			latency, block, err := chain.NewEVMClient(url).Ping(ctx)
			out[idx] = Endpoint{
				URL:         url,
				Latency:     latency,
				BlockNumber: block,
				Healthy:     err == nil,
			}
		}(i, u)
	}
	wg.Wait()
	return out
}

// Select benchmarks urls and returns the one algo prefers. A single URL is
// returned without probing.
func Select(ctx context.Context, urls []string, algo Algorithm) (string, error) {
	switch len(urls) {
	case 0:
		return "", ErrNoHealthyRPC
	case 1:
		return urls[0], nil
	}
	e, err := NewPicker(algo).Pick(Benchmark(ctx, urls))
	if err != nil {
		return "", err
	}
	return e.URL, nil
}
