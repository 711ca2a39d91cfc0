// Package logging provides structured logging for the heritage catalog.
//
// It wraps log/slog so every entry carries the service name and build
// version. Output is JSON by default and text when logging.format is "text".
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// Never log passwords or session tokens. The one exception is the seeded
// administrator password, which is logged once at first boot.
package logging
