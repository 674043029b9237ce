// Command sensorcored serves the sensor catalog, synthesis and analytics API.
//
// Configuration is environment based:
//
//	SENSORCORE_LISTEN_ADDR: HTTP listen address (default :8080)
//	SENSORCORE_STORAGE_DRIVER / SENSORCORE_SQLITE_PATH / SENSORCORE_POSTGRES_DSN
//	SENSORCORE_BLOB_DRIVER / SENSORCORE_BLOB_FS_ROOT / SENSORCORE_BLOB_S3_*
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sensorcore/internal/adapters/httpapi"
	"sensorcore/internal/blob"
	"sensorcore/internal/core"
)

func main() {
	addr := os.Getenv("SENSORCORE_LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	store, err := core.OpenPersistentStore()
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}
	blobs, err := blob.Open(context.Background())
	if err != nil {
		log.Fatalf("open blob storage: %v", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics := core.NewPrometheusMetricsRecorder(registry)
	tracer := core.NewJSONTracer(os.Stdout)

	svc := core.NewService(store,
		core.WithMetricsRecorder(metrics),
		core.WithTracer(tracer),
	)

	mux := http.NewServeMux()
	mux.Handle("/api/", httpapi.NewHandler(svc, blobs))
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Printf("sensorcored listening on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("serve: %v", err)
	}
}
