package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/SmitUplenchwar2687/Stash/internal/storage"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Server.Addr != ":8080" {
		t.Errorf("default addr = %q, want %q", cfg.Server.Addr, ":8080")
	}
	if cfg.Storage.Backend != storage.BackendHashTable {
		t.Errorf("default backend = %q, want %q", cfg.Storage.Backend, storage.BackendHashTable)
	}
	if cfg.Storage.HashTable.InitialSize != 4 {
		t.Errorf("default initial size = %d, want 4", cfg.Storage.HashTable.InitialSize)
	}
	if cfg.Cache.Enabled {
		t.Error("cache should be disabled by default")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("default log level = %q, want info", cfg.Log.Level)
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid, got %v", err)
	}
}

func TestValidate_AllBackends(t *testing.T) {
	for _, b := range storage.Backends() {
		cfg := Default()
		cfg.Storage.Backend = b
		if err := cfg.Validate(); err != nil {
			t.Errorf("backend %q should be valid with defaults, got %v", b, err)
		}
	}
}

func TestValidate_UnknownBackendAllowed(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = "sessionStorage"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unknown backend falls back at construction, Validate() = %v", err)
	}
}

func TestValidate_BadHashTableSize(t *testing.T) {
	cfg := Default()
	cfg.Storage.HashTable.InitialSize = -1
	if err := cfg.Validate(); err == nil {
		t.Error("negative initial size should be invalid")
	}
}

func TestValidate_RedisRequiresHostAndPort(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = storage.BackendRedis
	cfg.Storage.Redis.Host = ""
	if err := cfg.Validate(); err == nil {
		t.Error("missing redis host should be invalid")
	}

	cfg = Default()
	cfg.Storage.Backend = storage.BackendRedis
	cfg.Storage.Redis.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Error("missing redis port should be invalid")
	}
}

func TestValidate_BadLogSettings(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "chatty"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown log level should be invalid")
	}

	cfg = Default()
	cfg.Log.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown log format should be invalid")
	}
}

func TestValidate_NegativeCacheValues(t *testing.T) {
	cfg := Default()
	cfg.Cache.Values = -5
	if err := cfg.Validate(); err == nil {
		t.Error("negative cache.values should be invalid")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stash.json")
	content := `{
  "server": {"addr": ":9090"},
  "storage": {
    "backend": "redis",
    "hashtable": {"initial_size": 16},
    "redis": {"host": "redis.internal", "port": 6380, "dial_timeout": "2s", "cluster": false, "prefix": "app:"}
  },
  "cache": {"enabled": true, "values": 128},
  "journal": {"path": "journal.json"},
  "log": {"level": "debug", "format": "json"}
}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q, want :9090", cfg.Server.Addr)
	}
	if cfg.Storage.Backend != storage.BackendRedis {
		t.Errorf("backend = %q, want redis", cfg.Storage.Backend)
	}
	if cfg.Storage.HashTable.InitialSize != 16 {
		t.Errorf("initial size = %d, want 16", cfg.Storage.HashTable.InitialSize)
	}
	if cfg.Storage.Redis.Host != "redis.internal" || cfg.Storage.Redis.Port != 6380 {
		t.Errorf("redis = %s:%d", cfg.Storage.Redis.Host, cfg.Storage.Redis.Port)
	}
	if cfg.Storage.Redis.DialTimeout != 2*time.Second {
		t.Errorf("dial timeout = %s, want 2s", cfg.Storage.Redis.DialTimeout)
	}
	if cfg.Storage.Redis.Prefix != "app:" {
		t.Errorf("prefix = %q, want app:", cfg.Storage.Redis.Prefix)
	}
	if !cfg.Cache.Enabled || cfg.Cache.Values != 128 {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Journal.Path != "journal.json" {
		t.Errorf("journal path = %q", cfg.Journal.Path)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("log = %+v", cfg.Log)
	}
}

func TestLoadFile_PartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.json")
	if err := os.WriteFile(path, []byte(`{"storage": {"backend": "memory"}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage.Backend != storage.BackendMemory {
		t.Errorf("backend = %q, want memory", cfg.Storage.Backend)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q, want default :8080", cfg.Server.Addr)
	}
	if cfg.Storage.HashTable.InitialSize != 4 {
		t.Errorf("initial size = %d, want default 4", cfg.Storage.HashTable.InitialSize)
	}
}

func TestLoadFile_ExplicitZeroSizeIsKept(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zero.json")
	if err := os.WriteFile(path, []byte(`{"storage": {"hashtable": {"initial_size": 0}}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage.HashTable.InitialSize != 0 {
		t.Errorf("initial size = %d, want explicit 0", cfg.Storage.HashTable.InitialSize)
	}
}

func TestLoadFile_BadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"storage": {"redis": {"dial_timeout": "soon"}}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for bad duration")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadFile_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestWriteExample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "example.json")
	if err := WriteExample(path); err != nil {
		t.Fatalf("WriteExample() error = %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile(example) error = %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("example config should be valid, got %v", err)
	}
}
