// diskintel is a local disk-scanning HTTP service: a tolerant recursive
// scanner, a heuristic analyzer, and a two-tree comparator, fronted by an
// HTTP/SSE API and backed by a SQLite snapshot store.
package main

import (
	"log"

	"diskintel/config"
	"diskintel/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	if err := server.Run(cfg); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
