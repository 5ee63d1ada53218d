/*
Package monitoring provides performance monitoring and metrics collection.

# Overview

This package implements Prometheus-based metrics for the scan service. Each
Metrics value owns its registry, so several servers can coexist in one process.

# Features

- HTTP request metrics (latency, throughput, size)
- Scan metrics by outcome (table, empty, error) and tables per page
- Go runtime and process collectors
- Uptime

# Usage

	metrics := monitoring.NewMetrics()

	router.Use(monitoring.Middleware(metrics))
	scanner := scan.NewScanner(fetcher, parser, scan.WithObserver(metrics))

# Metrics Endpoint

	router.GET("/metrics", gin.WrapH(metrics.Handler()))
*/
package monitoring
