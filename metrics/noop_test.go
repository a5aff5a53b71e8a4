// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	require.Nil(t, HTTPHandler())

	server := httptest.NewServer(HTTPHandler())
	t.Cleanup(server.Close)

	Counter("trx_evaluated").Add(1)
	CounterVec("ops_evaluated", []string{"type"}).AddWithLabel(1, map[string]string{"nonsense": "ok"})
	Histogram("block_apply_ms", nil).Observe(12)
	HistogramVec("block_apply_vec", []string{"x"}, nil).ObserveWithLabels(1, map[string]string{"y": "z"})
	Gauge("pool_size").Set(3)
	GaugeVec("pool_size_vec", []string{"x"}).SetWithLabel(3, nil)

	// noop handler falls back to the default mux, which has nothing registered
	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
