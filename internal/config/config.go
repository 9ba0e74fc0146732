package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/SmitUplenchwar2687/Stash/internal/hashtable"
	"github.com/SmitUplenchwar2687/Stash/internal/storage"
)

// Config is the top-level configuration for a Stash process.
type Config struct {
	Server  ServerConfig   `json:"server"`
	Storage storage.Config `json:"storage"`
	Cache   CacheConfig    `json:"cache"`
	Journal JournalConfig  `json:"journal"`
	Log     LogConfig      `json:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `json:"addr"`
}

// CacheConfig controls the key-existence cache layered over the backend.
type CacheConfig struct {
	Enabled bool `json:"enabled"`
	Values  int  `json:"values"` // bounded value cache size, 0 = keys only
}

// JournalConfig controls mutation journaling. An empty Path disables it.
type JournalConfig struct {
	Path string `json:"path"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level      string `json:"level"`
	Format     string `json:"format"` // text or json
	File       string `json:"file"`   // empty = stderr
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		Storage: storage.Config{
			Backend: storage.DefaultBackend,
			HashTable: storage.HashTableConfig{
				InitialSize: hashtable.DefaultInitialSize,
			},
			File: storage.FileConfig{
				Path: "stash.json",
			},
			Badger: storage.BadgerConfig{
				Dir: "stash-data",
			},
			Redis: storage.RedisConfig{
				Host:        "localhost",
				Port:        6379,
				PoolSize:    20,
				MaxRetries:  3,
				DialTimeout: 5 * time.Second,
				Prefix:      "stash:kv:",
			},
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Validate checks that the config is valid.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if c.Cache.Values < 0 {
		return fmt.Errorf("cache.values must not be negative, got %d", c.Cache.Values)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q, must be one of: text, json", c.Log.Format)
	}
	return nil
}

// LoadFile reads a JSON config file and merges it with defaults.
// Fields not specified in the file retain their default values.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}

	// Use a raw intermediate struct to handle duration parsing.
	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return cfg, fmt.Errorf("parsing config file: %w", err)
	}

	if raw.Server.Addr != "" {
		cfg.Server.Addr = raw.Server.Addr
	}

	st := raw.Storage
	if st.Backend != "" {
		cfg.Storage.Backend = st.Backend
	}
	if st.HashTable.InitialSize != nil {
		cfg.Storage.HashTable.InitialSize = *st.HashTable.InitialSize
	}
	if st.File.Path != "" {
		cfg.Storage.File.Path = st.File.Path
	}
	if st.Badger.Dir != "" {
		cfg.Storage.Badger.Dir = st.Badger.Dir
	}
	if st.Badger.InMemory != nil {
		cfg.Storage.Badger.InMemory = *st.Badger.InMemory
	}
	if st.Redis.Host != "" {
		cfg.Storage.Redis.Host = st.Redis.Host
	}
	if st.Redis.Port > 0 {
		cfg.Storage.Redis.Port = st.Redis.Port
	}
	if st.Redis.Password != "" {
		cfg.Storage.Redis.Password = st.Redis.Password
	}
	if st.Redis.DB > 0 {
		cfg.Storage.Redis.DB = st.Redis.DB
	}
	if st.Redis.Cluster != nil {
		cfg.Storage.Redis.Cluster = *st.Redis.Cluster
	}
	if len(st.Redis.ClusterNodes) > 0 {
		cfg.Storage.Redis.ClusterNodes = st.Redis.ClusterNodes
	}
	if st.Redis.PoolSize > 0 {
		cfg.Storage.Redis.PoolSize = st.Redis.PoolSize
	}
	if st.Redis.MaxRetries > 0 {
		cfg.Storage.Redis.MaxRetries = st.Redis.MaxRetries
	}
	if st.Redis.DialTimeout != "" {
		d, err := time.ParseDuration(st.Redis.DialTimeout)
		if err != nil {
			return cfg, fmt.Errorf("parsing storage.redis.dial_timeout: %w", err)
		}
		cfg.Storage.Redis.DialTimeout = d
	}
	if st.Redis.Prefix != "" {
		cfg.Storage.Redis.Prefix = st.Redis.Prefix
	}

	if raw.Cache.Enabled != nil {
		cfg.Cache.Enabled = *raw.Cache.Enabled
	}
	if raw.Cache.Values != nil {
		cfg.Cache.Values = *raw.Cache.Values
	}
	if raw.Journal.Path != "" {
		cfg.Journal.Path = raw.Journal.Path
	}

	if raw.Log.Level != "" {
		cfg.Log.Level = raw.Log.Level
	}
	if raw.Log.Format != "" {
		cfg.Log.Format = raw.Log.Format
	}
	if raw.Log.File != "" {
		cfg.Log.File = raw.Log.File
	}
	if raw.Log.MaxSizeMB > 0 {
		cfg.Log.MaxSizeMB = raw.Log.MaxSizeMB
	}
	if raw.Log.MaxBackups > 0 {
		cfg.Log.MaxBackups = raw.Log.MaxBackups
	}
	if raw.Log.MaxAgeDays > 0 {
		cfg.Log.MaxAgeDays = raw.Log.MaxAgeDays
	}

	return cfg, nil
}

// rawConfig is the JSON-friendly representation with string durations.
// Pointers distinguish "absent" from explicit zero values.
type rawConfig struct {
	Server struct {
		Addr string `json:"addr"`
	} `json:"server"`
	Storage struct {
		Backend   string `json:"backend"`
		HashTable struct {
			InitialSize *int `json:"initial_size"`
		} `json:"hashtable"`
		File struct {
			Path string `json:"path"`
		} `json:"file"`
		Badger struct {
			Dir      string `json:"dir"`
			InMemory *bool  `json:"in_memory"`
		} `json:"badger"`
		Redis struct {
			Host         string   `json:"host"`
			Port         int      `json:"port"`
			Password     string   `json:"password"`
			DB           int      `json:"db"`
			Cluster      *bool    `json:"cluster"`
			ClusterNodes []string `json:"cluster_nodes"`
			PoolSize     int      `json:"pool_size"`
			MaxRetries   int      `json:"max_retries"`
			DialTimeout  string   `json:"dial_timeout"`
			Prefix       string   `json:"prefix"`
		} `json:"redis"`
	} `json:"storage"`
	Cache struct {
		Enabled *bool `json:"enabled"`
		Values  *int  `json:"values"`
	} `json:"cache"`
	Journal struct {
		Path string `json:"path"`
	} `json:"journal"`
	Log struct {
		Level      string `json:"level"`
		Format     string `json:"format"`
		File       string `json:"file"`
		MaxSizeMB  int    `json:"max_size_mb"`
		MaxBackups int    `json:"max_backups"`
		MaxAgeDays int    `json:"max_age_days"`
	} `json:"log"`
}

// WriteExample writes an example config file to the given path.
func WriteExample(path string) error {
	example := `{
  "server": {
    "addr": ":8080"
  },
  "storage": {
    "backend": "hashtable",
    "hashtable": {
      "initial_size": 4
    },
    "file": {
      "path": "stash.json"
    },
    "badger": {
      "dir": "stash-data",
      "in_memory": false
    },
    "redis": {
      "host": "localhost",
      "port": 6379,
      "pool_size": 20,
      "max_retries": 3,
      "dial_timeout": "5s",
      "prefix": "stash:kv:"
    }
  },
  "cache": {
    "enabled": false,
    "values": 0
  },
  "journal": {
    "path": ""
  },
  "log": {
    "level": "info",
    "format": "text"
  }
}
`
	return os.WriteFile(path, []byte(example), 0o644)
}
