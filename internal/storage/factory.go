package storage

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// New builds the backend named by cfg.Backend. An empty tag selects
// DefaultBackend; an unrecognized tag logs a warning and falls back to it.
func New(cfg *Config) (Storage, error) {
	var conf Config
	if cfg != nil {
		conf = *cfg
	}

	backend := conf.Backend
	switch {
	case backend == "":
		backend = DefaultBackend
	case !IsKnownBackend(backend):
		log.WithFields(log.Fields{
			"backend":  backend,
			"fallback": DefaultBackend,
		}).Warn("unknown storage backend, falling back to default")
		backend = DefaultBackend
	}

	switch backend {
	case BackendHashTable:
		return NewHashTableStorage(&conf.HashTable)
	case BackendMemory:
		return NewMemoryStorage(), nil
	case BackendFile:
		return NewFileStorage(&conf.File)
	case BackendBadger:
		return NewBadgerStorage(&conf.Badger)
	case BackendRedis:
		return NewRedisStorage(&conf.Redis)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", backend)
	}
}
