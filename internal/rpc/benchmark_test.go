package rpc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blockServer(t *testing.T, block string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID int `json:"id"`
		}
		json.NewDecoder(r.Body).Decode(&req) //nolint:errcheck
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{ //nolint:errcheck
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  block,
		})
	}))
}

func TestBenchmarkKeepsOrderAndHealth(t *testing.T) {
	up := blockServer(t, "0x64")
	defer up.Close()

	results := Benchmark(context.Background(), []string{"http://127.0.0.1:1", up.URL})
	require.Len(t, results, 2)
	assert.False(t, results[0].Healthy)
	assert.True(t, results[1].Healthy)
	assert.Equal(t, uint64(100), results[1].BlockNumber)
}

func TestSelectSingleURLSkipsProbe(t *testing.T) {
	url, err := Select(context.Background(), []string{"http://never-dialled"}, AlgorithmFastest)
	require.NoError(t, err)
	assert.Equal(t, "http://never-dialled", url)
}

func TestSelectEmpty(t *testing.T) {
	_, err := Select(context.Background(), nil, AlgorithmFastest)
	assert.ErrorIs(t, err, ErrNoHealthyRPC)
}

func TestSelectPrefersReachable(t *testing.T) {
	up := blockServer(t, "0x64")
	defer up.Close()

	url, err := Select(context.Background(), []string{"http://127.0.0.1:1", up.URL}, AlgorithmFailover)
	require.NoError(t, err)
	assert.Equal(t, up.URL, url)
}
