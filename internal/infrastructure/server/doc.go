// Package server wires the TableScan HTTP service together.
//
// Server Lifecycle:
//  1. Load configuration from environment/flags
//  2. Initialize logger, metrics and tracer
//  3. Build the page fetcher, markup parser and scanner
//  4. Setup HTTP routes and middleware
//  5. Serve behind net/http with gzip response compression
//  6. Graceful shutdown on signal
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	srv, err := server.NewServer(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	go srv.Run()
//	defer srv.Close()
package server
