// Command graphlayer-server runs the graph facade behind an HTTP /health
// and Prometheus /metrics endpoint, grounded on the teacher's
// cmd/graphdb-server/main.go (flag-parsed port, health/stats handlers). The
// node/edge/traverse REST surface is replaced with a vertex create/read API,
// wired through pkg/graph instead of raw storage; no edge endpoints are
// served.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/dd0wney/graphlayer/pkg/cellstore"
	"github.com/dd0wney/graphlayer/pkg/cellstore/memstore"
	"github.com/dd0wney/graphlayer/pkg/cellstore/pgstore"
	"github.com/dd0wney/graphlayer/pkg/config"
	"github.com/dd0wney/graphlayer/pkg/graph"
	"github.com/dd0wney/graphlayer/pkg/graphtxn"
	"github.com/dd0wney/graphlayer/pkg/logging"
	"github.com/dd0wney/graphlayer/pkg/metrics"
	"github.com/dd0wney/graphlayer/pkg/registry"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file (defaults to an in-memory store on localhost:8080)")
	flag.Parse()

	logger := logging.NewDefaultLogger()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			logger.Error("failed to load config", logging.Error(err), logging.Path(*configPath))
			os.Exit(1)
		}
		cfg = loaded
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		logger.Error("failed to open store", logging.Error(err))
		os.Exit(1)
	}
	defer closeStore()

	reg := registry.NewInMemoryRegistry()
	metricsRegistry := metrics.NewRegistry()
	g, err := graph.New(store, reg,
		graph.WithRetryPolicy(graph.RetryPolicy{
			MaxAttempts: cfg.Retry.MaxAttempts,
			BaseDelay:   cfg.Retry.BaseDelay,
			MaxDelay:    cfg.Retry.MaxDelay,
		}),
		graph.WithMetrics(metricsRegistry),
	)
	if err != nil {
		logger.Error("failed to bootstrap graph", logging.Error(err))
		os.Exit(1)
	}

	vertexSchema, err := g.NewVertexGroup([]registry.FieldDef{{Name: "label", Type: cellstore.TypeString}})
	if err != nil {
		logger.Error("failed to register default vertex schema", logging.Error(err))
		os.Exit(1)
	}

	handler := newHandler(g, vertexSchema, metricsRegistry, logger)

	server := &http.Server{
		Addr:    cfg.Listen,
		Handler: handler,
	}

	logger.Info("graphlayer-server listening", logging.String("addr", cfg.Listen), logging.String("backend", string(cfg.Backend)))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server exited", logging.Error(err))
		os.Exit(1)
	}
}

// newHandler wires the vertex API, health check, and metrics endpoint into
// one http.Handler, factored out of main so it can be driven directly by
// httptest in an end-to-end test.
func newHandler(g *graph.Graph, vertexSchema cellstore.SchemaID, metricsRegistry *metrics.Registry, logger logging.Logger) http.Handler {
	api := &vertexAPI{graph: g, schema: vertexSchema, logger: logger}
	startTime := time.Now()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler(startTime))
	mux.Handle("/metrics", promhttp.HandlerFor(metricsRegistry.GetPrometheusRegistry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("/vertices", api.createVertex)
	mux.HandleFunc("/vertices/", api.getVertex)

	return loggingMiddleware(logger, mux)
}

func openStore(cfg config.Config) (cellstore.Store, func(), error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		store, err := pgstore.New(context.Background(), cfg.Postgres.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("opening postgres store: %w", err)
		}
		return store, func() { store.Close() }, nil
	default:
		return memstore.New(), func() {}, nil
	}
}

// vertexAPI exposes the one built-in "label"-only vertex schema over HTTP,
// a deliberately thin demonstration of pkg/graph rather than a general
// schema-management surface (the spec's Non-goals exclude a query
// language and a schema-admin API).
type vertexAPI struct {
	graph  *graph.Graph
	schema cellstore.SchemaID
	logger logging.Logger
}

func (a *vertexAPI) createVertex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Label string `json:"label"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	v, err := a.graph.NewVertex(r.Context(), a.schema, map[string]cellstore.Value{
		"label": cellstore.StringValue(req.Label),
	})
	if err != nil {
		a.logger.Error("create vertex failed", logging.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"id": v.ID.String()})
}

func (a *vertexAPI) getVertex(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Path[len("/vertices/"):]
	id, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "invalid vertex id", http.StatusBadRequest)
		return
	}

	v, err := a.graph.VertexBy(r.Context(), id, graphtxn.RawSchemaID(a.schema))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	schema, err := a.graph.Registry().Get(a.schema)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	labelField, _ := schema.FieldID("label")
	label, _ := v.Body[labelField].AsString()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"id": v.ID.String(), "label": label})
}

func healthHandler(startTime time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status": "healthy",
			"uptime": time.Since(startTime).String(),
		})
	}
}

func loggingMiddleware(logger logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Info("request", logging.String("method", r.Method), logging.Path(r.URL.Path), logging.Latency(time.Since(start)))
	})
}
