// Package server wires config, the core packages and the HTTP surface (§6)
// together and runs the bound listener.
package server

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/rs/cors"

	"diskintel/config"
	"diskintel/handlers"
	"diskintel/registry"
	"diskintel/snapshot"
)

// Run starts the HTTP server with the given configuration. It blocks until
// the listener returns an error.
func Run(cfg *config.Config) error {
	store, err := snapshot.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening snapshot store: %w", err)
	}
	defer store.Close()

	reg := registry.New()
	watcher, err := registry.NewWatcher(reg)
	if err != nil {
		log.Printf("server: could not start registry watcher: %v", err)
		watcher = nil
	} else {
		defer watcher.Close()
	}

	sem := handlers.NewSemaphore(cfg.MaxConcurrentScans)

	mux := http.NewServeMux()
	registerRoutes(mux, reg, watcher, store, sem, cfg.Verbose)

	handler := cors.New(cors.Options{
		AllowOriginFunc:  func(origin string) bool { return true },
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(mux)

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	logStartup(cfg, addr)

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,

		// ReadHeaderTimeout caps how long the server waits for a client to
		// finish sending HTTP headers; the primary Slowloris defence.
		ReadHeaderTimeout: 20 * time.Second,

		// IdleTimeout closes keep-alive connections that have been idle for
		// this duration.
		IdleTimeout: 120 * time.Second,

		// WriteTimeout is intentionally absent. An SSE scan stream can
		// legitimately run for as long as the walk takes; a write deadline
		// would terminate it mid-scan.
	}
	return srv.ListenAndServe()
}

func logStartup(cfg *config.Config, addr string) {
	sep := "-------------------------------------------"
	log.Println(sep)
	log.Println("  Disk Intelligence Service")
	log.Println(sep)
	log.Printf("  %-24s %s", "Address:", "http://"+addr)
	log.Printf("  %-24s %s", "Snapshot database:", cfg.DBPath)
	log.Printf("  %-24s %s", "Verbose scan logging:", enabledStr(cfg.Verbose))
	if cfg.MaxConcurrentScans > 0 {
		log.Printf("  %-24s %d", "Max concurrent scans:", cfg.MaxConcurrentScans)
	} else {
		log.Printf("  %-24s %s", "Max concurrent scans:", "unlimited")
	}
	log.Println(sep)
}

func enabledStr(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
