// Package logging wraps zap for the server and the CLI.
//
// Production mode writes JSON lines; development mode writes coloured
// console output at debug level. The CLI points OutputPaths at stderr so
// that scan results alone go to stdout.
//
//	logger := logging.NewOrDefault(logging.ConfigFor(cfg.Logging.Level, cfg.Logging.Development))
//	scanLog := logger.Named("scan")
//	scanLog.Debug("tables collected", zap.Int("tables", n))
package logging
