// Package stash is the public entry point for embedding a Stash store.
package stash

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/SmitUplenchwar2687/Stash/internal/config"
	internalstash "github.com/SmitUplenchwar2687/Stash/internal/stash"
	"github.com/SmitUplenchwar2687/Stash/internal/storage"
)

// Stash is a key-value store over a pluggable backend.
type Stash = internalstash.Stash

// Options holds optional Stash dependencies.
type Options = internalstash.Options

// New wraps an existing backend.
func New(store storage.Storage, opts Options) *Stash {
	return internalstash.New(store, opts)
}

// Open builds the store described by cfg.
func Open(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) (*Stash, error) {
	return internalstash.Open(ctx, cfg, logger)
}
