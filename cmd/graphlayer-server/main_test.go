package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dd0wney/graphlayer/pkg/cellstore"
	"github.com/dd0wney/graphlayer/pkg/cellstore/memstore"
	"github.com/dd0wney/graphlayer/pkg/graph"
	"github.com/dd0wney/graphlayer/pkg/logging"
	"github.com/dd0wney/graphlayer/pkg/metrics"
	"github.com/dd0wney/graphlayer/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startTestServer wires the same components main() does, over an in-memory
// store, and returns a running httptest server for a full create/read round
// trip through the vertex API.
func startTestServer(t *testing.T) (*httptest.Server, cellstore.SchemaID) {
	t.Helper()

	store := memstore.New()
	reg := registry.NewInMemoryRegistry()
	metricsRegistry := metrics.NewRegistry()
	g, err := graph.New(store, reg, graph.WithMetrics(metricsRegistry))
	require.NoError(t, err)

	schema, err := g.NewVertexGroup([]registry.FieldDef{{Name: "label", Type: cellstore.TypeString}})
	require.NoError(t, err)

	handler := newHandler(g, schema, metricsRegistry, logging.NewNopLogger())
	return httptest.NewServer(handler), schema
}

func createVertex(t *testing.T, baseURL, label string) string {
	t.Helper()

	body, err := json.Marshal(map[string]string{"label": label})
	require.NoError(t, err)

	resp, err := http.Post(baseURL+"/vertices", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out["id"]
}

func TestServer_CreateAndReadVertex(t *testing.T) {
	server, _ := startTestServer(t)
	defer server.Close()

	id := createVertex(t, server.URL, "Alice")
	assert.NotEmpty(t, id)

	resp, err := http.Get(server.URL + "/vertices/" + id)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, id, out["id"])
	assert.Equal(t, "Alice", out["label"])
}

func TestServer_ReadMissingVertexIs404(t *testing.T) {
	server, _ := startTestServer(t)
	defer server.Close()

	resp, err := http.Get(server.URL + "/vertices/" + "00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_HealthEndpoint(t *testing.T) {
	server, _ := startTestServer(t)
	defer server.Close()

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "healthy", out["status"])
}

func TestServer_MetricsEndpointExposesOperationCounter(t *testing.T) {
	server, _ := startTestServer(t)
	defer server.Close()

	createVertex(t, server.URL, "Bob")

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "graphlayer_operations_total")
}
