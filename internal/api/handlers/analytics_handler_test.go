package handlers_test

import (
	"encoding/csv"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSearches(t *testing.T, serverURL string) {
	t.Helper()
	for i := 0; i < 5; i++ {
		status, _ := getJSON(t, serverURL+"/api/listings/search?q=カット&session_id=seed")
		require.Equal(t, http.StatusOK, status)
	}
}

func TestKeywordsEndpoint(t *testing.T) {
	server, store := newTestServer(t)
	seedSearches(t, server.URL)
	require.Eventually(t, func() bool { return store.Len() == 5 }, 2*time.Second, 5*time.Millisecond)

	status, body := getJSON(t, server.URL+"/api/analytics/keywords?timeframe=24h&limit=5")
	require.Equal(t, http.StatusOK, status)

	keywords := body["keywords"].([]interface{})
	require.NotEmpty(t, keywords)
	top := keywords[0].(map[string]interface{})
	assert.Equal(t, "カット", top["keyword"])
	assert.Equal(t, 5.0, top["count"])
}

func TestKeywordsEndpoint_DaySuffixTimeframe(t *testing.T) {
	server, _ := newTestServer(t)

	status, _ := getJSON(t, server.URL+"/api/analytics/keywords?timeframe=7d")
	assert.Equal(t, http.StatusOK, status)
}

func TestKeywordsEndpoint_RejectsBadTimeframe(t *testing.T) {
	server, _ := newTestServer(t)

	status, _ := getJSON(t, server.URL+"/api/analytics/keywords?timeframe=fortnight")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestTrendsEndpoint(t *testing.T) {
	server, store := newTestServer(t)
	seedSearches(t, server.URL)
	require.Eventually(t, func() bool { return store.Len() == 5 }, 2*time.Second, 5*time.Millisecond)

	status, body := getJSON(t, server.URL+"/api/analytics/trends?timeframe=24h")
	require.Equal(t, http.StatusOK, status)

	trends := body["trends"].([]interface{})
	require.NotEmpty(t, trends)
	first := trends[0].(map[string]interface{})
	assert.Equal(t, 100.0, first["growth_rate"], "keywords new this period grow 100%")
	assert.NotEmpty(t, first["category"])
}

func TestBehaviorEndpoint(t *testing.T) {
	server, store := newTestServer(t)
	seedSearches(t, server.URL)
	require.Eventually(t, func() bool { return store.Len() == 5 }, 2*time.Second, 5*time.Millisecond)

	status, body := getJSON(t, server.URL+"/api/analytics/behavior")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1.0, body["session_count"])
	assert.Equal(t, 5.0, body["avg_queries_per_session"])
}

func TestGeographicAndSeasonalEndpoints(t *testing.T) {
	server, store := newTestServer(t)

	status, _ := getJSON(t, server.URL+"/api/listings/search?q=カット&session_id=s1&location=東京都")
	require.Equal(t, http.StatusOK, status)
	require.Eventually(t, func() bool { return store.Len() == 1 }, 2*time.Second, 5*time.Millisecond)

	status, body := getJSON(t, server.URL+"/api/analytics/geographic")
	require.Equal(t, http.StatusOK, status)
	regions := body["regions"].([]interface{})
	require.Len(t, regions, 1)
	assert.Equal(t, "東京都", regions[0].(map[string]interface{})["prefecture"])

	status, body = getJSON(t, server.URL+"/api/analytics/seasonal")
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["trends"])
}

func TestSuggestionsEndpoint(t *testing.T) {
	server, store := newTestServer(t)

	// five zero-result searches make the query low-performing
	for i := 0; i < 5; i++ {
		status, _ := getJSON(t, server.URL+"/api/listings/search?q=該当なし検索&session_id=s1")
		require.Equal(t, http.StatusOK, status)
	}
	require.Eventually(t, func() bool { return store.Len() == 5 }, 2*time.Second, 5*time.Millisecond)

	status, body := getJSON(t, server.URL+"/api/analytics/suggestions")
	require.Equal(t, http.StatusOK, status)

	suggestions := body["suggestions"].([]interface{})
	require.NotEmpty(t, suggestions)
	assert.Equal(t, "high", suggestions[0].(map[string]interface{})["impact"])
}

func TestLowPerformingEndpoint(t *testing.T) {
	server, store := newTestServer(t)

	for i := 0; i < 5; i++ {
		status, _ := getJSON(t, server.URL+"/api/listings/search?q=該当なし検索&session_id=s1")
		require.Equal(t, http.StatusOK, status)
	}
	require.Eventually(t, func() bool { return store.Len() == 5 }, 2*time.Second, 5*time.Millisecond)

	status, body := getJSON(t, server.URL+"/api/analytics/low-performing?limit=5")
	require.Equal(t, http.StatusOK, status)

	queries := body["queries"].([]interface{})
	require.Len(t, queries, 1)
	entry := queries[0].(map[string]interface{})
	assert.Equal(t, "該当なし検索", entry["query"])
	assert.Equal(t, 0.0, entry["avg_result_count"])
}

func TestExportEndpoint_CSV(t *testing.T) {
	server, store := newTestServer(t)
	seedSearches(t, server.URL)
	require.Eventually(t, func() bool { return store.Len() == 5 }, 2*time.Second, 5*time.Millisecond)

	resp, err := http.Get(server.URL + "/api/analytics/export?format=csv")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))

	rows, err := csv.NewReader(resp.Body).ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, []string{"type", "keyword", "count", "ctr", "growth_rate", "confidence"}, rows[0])
}

func TestExportEndpoint_JSONDefault(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/analytics/export")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestExportEndpoint_RejectsUnknownFormat(t *testing.T) {
	server, _ := newTestServer(t)

	status, _ := getJSON(t, server.URL+"/api/analytics/export?format=xml")
	assert.Equal(t, http.StatusBadRequest, status)
}
