// Command tablescan finds the numeric table in a web page from the shell.
//
// Usage:
//
//	tablescan scan https://example.com/heights
//	tablescan scan --output yaml --summary https://example.com/heights
//	tablescan scan --collector xpath https://example.com/heights
//	tablescan scan --output toml https://example.com/heights
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
