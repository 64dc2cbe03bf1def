// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package automatically loads .env files on first use and uses the
// caarlos0/env library for parsing environment variables into struct fields.
//
// Basic usage:
//
//	import "github.com/dmitrymomot/wirekit/core/config"
//
//	func main() {
//		var srv server.Config
//
//		// Load with error handling
//		if err := config.Load(&srv); err != nil {
//			log.Fatal(err)
//		}
//
//		// Or panic on failure (useful for startup)
//		config.MustLoad(&srv)
//	}
//
// # Caching Behavior
//
// Each configuration type is loaded only once per application lifetime:
//
//	var cfg1 server.Config
//	config.Load(&cfg1) // Loads from environment
//
//	var cfg2 server.Config
//	config.Load(&cfg2) // Returns cached value, cfg1 == cfg2
//
// Different types are cached independently, so server.Config and
// logger.Config each get their own entry.
//
// LoadFrom parses from an explicit environment map and bypasses both the
// cache and the .env file.
package config
