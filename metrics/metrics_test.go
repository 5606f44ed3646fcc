// Copyright (c) 2024 The Billions developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	assert.IsType(t, &noopMetrics{}, metrics)
	assert.Nil(t, HTTPHandler())

	// meters on the noop backend must be safe to use
	Counter("count").Add(1)
	CounterVec("countVec", []string{"zeroOrOne"}).AddWithLabel(1, map[string]string{"zeroOrOne": "1"})
	Gauge("gauge").Set(100)
	GaugeVec("gaugeVec", []string{"zeroOrOne"}).SetWithLabel(1, map[string]string{"zeroOrOne": "0"})
	Histogram("hist", Bucket10s).Observe(1234)
	HistogramVec("histVec", []string{"zeroOrOne"}, BucketHTTPReqs).
		ObserveWithLabels(9, map[string]string{"zeroOrOne": "0"})
}

func TestPrometheusMetrics(t *testing.T) {
	InitializePrometheusMetrics()
	require.IsType(t, &prometheusMetrics{}, metrics)

	Counter("api_request_count").Add(3)
	Gauge("battles_open").Set(2)
	GaugeVec("battles_by_status", []string{"status"}).
		SetWithLabel(1, map[string]string{"status": "betting"})
	Histogram("api_request_duration_ms", BucketHTTPReqs).Observe(44)

	// recreating by name returns the registered meter
	assert.Equal(t, Counter("api_request_count"), Counter("api_request_count"))

	server := httptest.NewServer(HTTPHandler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.True(t, strings.Contains(string(body), "billions_metrics_api_request_count 3"))
	assert.True(t, strings.Contains(string(body), "billions_metrics_battles_open 2"))
}
