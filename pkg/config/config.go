package config

import internalconfig "github.com/SmitUplenchwar2687/Stash/internal/config"

// Config is the top-level configuration for a Stash process.
type Config = internalconfig.Config

// ServerConfig holds HTTP server settings.
type ServerConfig = internalconfig.ServerConfig

// CacheConfig controls the key cache layered over the backend.
type CacheConfig = internalconfig.CacheConfig

// JournalConfig controls mutation journaling.
type JournalConfig = internalconfig.JournalConfig

// LogConfig controls logging output.
type LogConfig = internalconfig.LogConfig

// Default returns a Config with sensible defaults.
func Default() Config {
	return internalconfig.Default()
}

// LoadFile reads a JSON config file and merges it with defaults.
func LoadFile(path string) (Config, error) {
	return internalconfig.LoadFile(path)
}

// WriteExample writes an example config file to the given path.
func WriteExample(path string) error {
	return internalconfig.WriteExample(path)
}
