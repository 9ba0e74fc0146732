package storage

import (
	"fmt"
	"time"
)

const (
	BackendHashTable = "hashtable"
	BackendMemory    = "memory"
	BackendFile      = "file"
	BackendBadger    = "badger"
	BackendRedis     = "redis"

	// DefaultBackend is used for an empty or unrecognized backend tag.
	DefaultBackend = BackendHashTable
)

// Backends lists every recognized backend tag.
func Backends() []string {
	return []string{BackendHashTable, BackendMemory, BackendFile, BackendBadger, BackendRedis}
}

// IsKnownBackend reports whether tag names a backend.
func IsKnownBackend(tag string) bool {
	for _, b := range Backends() {
		if b == tag {
			return true
		}
	}
	return false
}

// Persistent reports whether the backend named by tag keeps data after the
// process exits. Unknown tags fall back to DefaultBackend, which does not.
func Persistent(tag string) bool {
	switch tag {
	case BackendFile, BackendBadger, BackendRedis:
		return true
	}
	return false
}

// Config selects and configures a storage backend.
type Config struct {
	Backend   string          `json:"backend"`
	HashTable HashTableConfig `json:"hashtable"`
	File      FileConfig      `json:"file"`
	Badger    BadgerConfig    `json:"badger"`
	Redis     RedisConfig     `json:"redis"`
}

// HashTableConfig configures the hashtable backend.
type HashTableConfig struct {
	InitialSize int `json:"initial_size"`
}

// FileConfig configures the file backend.
type FileConfig struct {
	Path string `json:"path"`
}

// BadgerConfig configures the badger backend.
type BadgerConfig struct {
	Dir      string `json:"dir"`
	InMemory bool   `json:"in_memory"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	Password     string        `json:"password,omitempty"`
	DB           int           `json:"db"`
	Cluster      bool          `json:"cluster"`
	ClusterNodes []string      `json:"cluster_nodes,omitempty"`
	PoolSize     int           `json:"pool_size"`
	MaxRetries   int           `json:"max_retries"`
	DialTimeout  time.Duration `json:"dial_timeout"`
	Prefix       string        `json:"prefix"`
}

// Validate checks the settings of the selected backend. Unknown tags pass;
// New falls back to the default backend for them.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendHashTable:
		if c.HashTable.InitialSize < 0 {
			return fmt.Errorf("hashtable.initial_size must be positive, got %d", c.HashTable.InitialSize)
		}
	case BackendFile:
		if c.File.Path == "" {
			return fmt.Errorf("file.path is required for file backend")
		}
	case BackendBadger:
		if c.Badger.Dir == "" && !c.Badger.InMemory {
			return fmt.Errorf("badger.dir is required unless badger.in_memory is set")
		}
	case BackendRedis:
		if _, err := normalizeRedisConfig(&c.Redis); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}
