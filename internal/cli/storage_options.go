package cli

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/SmitUplenchwar2687/Stash/internal/config"
	"github.com/SmitUplenchwar2687/Stash/internal/storage"
)

type storageOptions struct {
	backend           string
	hashTableSize     int
	filePath          string
	badgerDir         string
	badgerInMemory    bool
	redisHost         string
	redisPort         int
	redisPassword     string
	redisDB           int
	redisCluster      bool
	redisClusterNodes []string
	redisPoolSize     int
	redisMaxRetries   int
	redisDialTimeout  time.Duration
	redisPrefix       string
}

func defaultStorageOptions() storageOptions {
	d := config.Default().Storage
	return storageOptions{
		backend:          d.Backend,
		hashTableSize:    d.HashTable.InitialSize,
		filePath:         d.File.Path,
		badgerDir:        d.Badger.Dir,
		redisHost:        d.Redis.Host,
		redisPort:        d.Redis.Port,
		redisPoolSize:    d.Redis.PoolSize,
		redisMaxRetries:  d.Redis.MaxRetries,
		redisDialTimeout: d.Redis.DialTimeout,
		redisPrefix:      d.Redis.Prefix,
	}
}

func (o *storageOptions) addFlags(fs *pflag.FlagSet) {
	d := defaultStorageOptions()
	fs.StringVar(&o.backend, "storage", d.backend, "storage backend ("+strings.Join(storage.Backends(), ", ")+")")
	fs.IntVar(&o.hashTableSize, "hashtable-size", d.hashTableSize, "initial bucket count for the hashtable backend")
	fs.StringVar(&o.filePath, "file-path", d.filePath, "JSON file for the file backend")
	fs.StringVar(&o.badgerDir, "badger-dir", d.badgerDir, "data directory for the badger backend")
	fs.BoolVar(&o.badgerInMemory, "badger-in-memory", false, "run badger without touching disk")
	fs.StringVar(&o.redisHost, "redis-host", d.redisHost, "redis host (or host:port)")
	fs.IntVar(&o.redisPort, "redis-port", d.redisPort, "redis port")
	fs.StringVar(&o.redisPassword, "redis-password", "", "redis password")
	fs.IntVar(&o.redisDB, "redis-db", 0, "redis database index")
	fs.BoolVar(&o.redisCluster, "redis-cluster", false, "enable redis cluster mode")
	fs.StringSliceVar(&o.redisClusterNodes, "redis-cluster-nodes", nil, "redis cluster nodes host:port list")
	fs.IntVar(&o.redisPoolSize, "redis-pool-size", d.redisPoolSize, "redis connection pool size")
	fs.IntVar(&o.redisMaxRetries, "redis-max-retries", d.redisMaxRetries, "redis max retries")
	fs.DurationVar(&o.redisDialTimeout, "redis-dial-timeout", d.redisDialTimeout, "redis dial timeout")
	fs.StringVar(&o.redisPrefix, "redis-prefix", d.redisPrefix, "key prefix for the redis backend")
}

func (o *storageOptions) applyConfigIfUnset(cmd *cobra.Command, cfg *storage.Config) {
	if cfg == nil {
		return
	}

	if !cmd.Flags().Changed("storage") {
		o.backend = cfg.Backend
	}
	if !cmd.Flags().Changed("hashtable-size") {
		o.hashTableSize = cfg.HashTable.InitialSize
	}
	if !cmd.Flags().Changed("file-path") {
		o.filePath = cfg.File.Path
	}
	if !cmd.Flags().Changed("badger-dir") {
		o.badgerDir = cfg.Badger.Dir
	}
	if !cmd.Flags().Changed("badger-in-memory") {
		o.badgerInMemory = cfg.Badger.InMemory
	}
	if !cmd.Flags().Changed("redis-host") {
		o.redisHost = cfg.Redis.Host
	}
	if !cmd.Flags().Changed("redis-port") {
		o.redisPort = cfg.Redis.Port
	}
	if !cmd.Flags().Changed("redis-password") {
		o.redisPassword = cfg.Redis.Password
	}
	if !cmd.Flags().Changed("redis-db") {
		o.redisDB = cfg.Redis.DB
	}
	if !cmd.Flags().Changed("redis-cluster") {
		o.redisCluster = cfg.Redis.Cluster
	}
	if !cmd.Flags().Changed("redis-cluster-nodes") {
		o.redisClusterNodes = cfg.Redis.ClusterNodes
	}
	if !cmd.Flags().Changed("redis-pool-size") {
		o.redisPoolSize = cfg.Redis.PoolSize
	}
	if !cmd.Flags().Changed("redis-max-retries") {
		o.redisMaxRetries = cfg.Redis.MaxRetries
	}
	if !cmd.Flags().Changed("redis-dial-timeout") {
		o.redisDialTimeout = cfg.Redis.DialTimeout
	}
	if !cmd.Flags().Changed("redis-prefix") {
		o.redisPrefix = cfg.Redis.Prefix
	}
}

func (o *storageOptions) normalize() error {
	if o.backend != storage.BackendRedis || o.redisCluster {
		return nil
	}

	host, port, err := normalizeRedisHostPort(o.redisHost, o.redisPort)
	if err != nil {
		return err
	}
	o.redisHost = host
	o.redisPort = port
	return nil
}

func (o *storageOptions) toConfig() storage.Config {
	return storage.Config{
		Backend: o.backend,
		HashTable: storage.HashTableConfig{
			InitialSize: o.hashTableSize,
		},
		File: storage.FileConfig{
			Path: o.filePath,
		},
		Badger: storage.BadgerConfig{
			Dir:      o.badgerDir,
			InMemory: o.badgerInMemory,
		},
		Redis: storage.RedisConfig{
			Host:         o.redisHost,
			Port:         o.redisPort,
			Password:     o.redisPassword,
			DB:           o.redisDB,
			Cluster:      o.redisCluster,
			ClusterNodes: append([]string(nil), o.redisClusterNodes...),
			PoolSize:     o.redisPoolSize,
			MaxRetries:   o.redisMaxRetries,
			DialTimeout:  o.redisDialTimeout,
			Prefix:       o.redisPrefix,
		},
	}
}

func normalizeRedisHostPort(host string, port int) (string, int, error) {
	if strings.Contains(host, ":") {
		h, p, err := net.SplitHostPort(host)
		if err != nil {
			return "", 0, fmt.Errorf("invalid --redis-host value %q: %w", host, err)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return "", 0, fmt.Errorf("invalid redis port in --redis-host %q: %w", host, err)
		}
		host = h
		port = n
	}

	if host == "" {
		return "", 0, fmt.Errorf("redis host cannot be empty")
	}
	if port <= 0 {
		return "", 0, fmt.Errorf("redis port must be positive, got %d", port)
	}

	return host, port, nil
}
