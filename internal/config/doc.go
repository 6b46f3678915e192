// Package config loads and validates the TOML configuration used by the
// reelsync CLI. Paths are expanded and normalized at load time; validation
// failures surface before any I/O happens.
package config
