// Package storage exposes Stash's backend contract and implementations.
package storage

import internalstorage "github.com/SmitUplenchwar2687/Stash/internal/storage"

// Storage is the key-value contract every backend satisfies.
type Storage = internalstorage.Storage

// Config selects and configures a backend.
type Config = internalstorage.Config

type (
	HashTableConfig = internalstorage.HashTableConfig
	FileConfig      = internalstorage.FileConfig
	BadgerConfig    = internalstorage.BadgerConfig
	RedisConfig     = internalstorage.RedisConfig
)

type (
	HashTableStorage = internalstorage.HashTableStorage
	MemoryStorage    = internalstorage.MemoryStorage
	FileStorage      = internalstorage.FileStorage
	BadgerStorage    = internalstorage.BadgerStorage
	RedisStorage     = internalstorage.RedisStorage
)

// Backend tags.
const (
	BackendHashTable = internalstorage.BackendHashTable
	BackendMemory    = internalstorage.BackendMemory
	BackendFile      = internalstorage.BackendFile
	BackendBadger    = internalstorage.BackendBadger
	BackendRedis     = internalstorage.BackendRedis
	DefaultBackend   = internalstorage.DefaultBackend
)

// ErrClosed is returned by operations on a closed backend.
var ErrClosed = internalstorage.ErrClosed

// New creates the backend selected by cfg.Backend.
func New(cfg *Config) (Storage, error) {
	return internalstorage.New(cfg)
}

// Close releases s if it holds resources.
func Close(s Storage) error {
	return internalstorage.Close(s)
}

func NewHashTableStorage(cfg *HashTableConfig) (*HashTableStorage, error) {
	return internalstorage.NewHashTableStorage(cfg)
}

func NewMemoryStorage() *MemoryStorage {
	return internalstorage.NewMemoryStorage()
}

func NewFileStorage(cfg *FileConfig) (*FileStorage, error) {
	return internalstorage.NewFileStorage(cfg)
}

func NewBadgerStorage(cfg *BadgerConfig) (*BadgerStorage, error) {
	return internalstorage.NewBadgerStorage(cfg)
}

func NewRedisStorage(cfg *RedisConfig) (*RedisStorage, error) {
	return internalstorage.NewRedisStorage(cfg)
}
