package server

import (
	"net/http"

	"diskintel/handlers"
	"diskintel/registry"
	"diskintel/snapshot"
)

// registerRoutes attaches every handler from §6's HTTP surface to mux.
func registerRoutes(mux *http.ServeMux, reg *registry.Registry, watcher *registry.Watcher, store *snapshot.Store, sem handlers.Semaphore, verbose bool) {
	mux.HandleFunc("GET /api/health", handlers.HealthHandler())

	mux.HandleFunc("POST /api/scan", handlers.ScanHandler(reg, watcher, verbose, sem))
	mux.HandleFunc("GET /api/scan/stream", handlers.ScanStreamHandler(reg, watcher, verbose, sem))

	mux.HandleFunc("GET /api/findings", handlers.FindingsHandler(reg))
	mux.HandleFunc("GET /api/extensions-summary", handlers.ExtensionsHandler(reg))
	mux.HandleFunc("GET /api/report", ReportHandler(reg))

	mux.HandleFunc("POST /api/compare", handlers.CompareHandler())

	mux.HandleFunc("POST /api/snapshots", handlers.CreateSnapshotHandler(reg, store))
	mux.HandleFunc("GET /api/snapshots", handlers.ListSnapshotsHandler(store))
	mux.HandleFunc("POST /api/snapshots/comparison", handlers.CreateComparisonSnapshotHandler(store))
	mux.HandleFunc("PUT /api/snapshots/comparison/{id}", handlers.UpdateComparisonSnapshotHandler(store))
	mux.HandleFunc("GET /api/snapshots/{id}", handlers.GetSnapshotHandler(store))
	mux.HandleFunc("PUT /api/snapshots/{id}", handlers.UpdateSnapshotHandler(store))
	mux.HandleFunc("DELETE /api/snapshots/{id}", handlers.DeleteSnapshotHandler(store))
}
