// Package app wires together configuration, the CMS client, the settings
// store, and the TTL gateway into a single Deps struct that commands receive
// at runtime.
package app

import (
	"fmt"

	"github.com/MurthyAvanithsa/railview/internal/cms"
	"github.com/MurthyAvanithsa/railview/internal/config"
	"github.com/MurthyAvanithsa/railview/internal/settings"
	"github.com/MurthyAvanithsa/railview/internal/store"
)

// Deps holds all runtime dependencies injected into command Run functions.
// Store and Gateway are nil until RequireStore is called; commands that only
// talk to the CMS never pay the cost of opening the database.
type Deps struct {
	Config  *config.Config
	Client  *cms.Client
	Store   *store.Store
	Gateway *settings.Gateway
}

// New builds a Deps from resolved config.
func New(cfg *config.Config) *Deps {
	client := cms.NewClient(
		cfg.BaseURL,
		cfg.Timeout,
		cfg.Rate,
		cfg.Debug,
	)
	return &Deps{
		Config: cfg,
		Client: client,
	}
}

// RequireStore opens the settings database and builds the TTL gateway over
// it. Safe to call more than once; later calls are no-ops.
func (d *Deps) RequireStore() error {
	if d.Store != nil {
		return nil
	}
	if d.Config.DBPath == "" {
		return fmt.Errorf("no database path configured (set %s or db_path in the config file)", config.EnvDBPath)
	}
	st, err := store.Open(d.Config.DBPath)
	if err != nil {
		return err
	}
	d.Store = st
	d.Gateway = settings.New(st, d.Client, d.Config.TTL)
	return nil
}

// Close releases the store if it was opened.
func (d *Deps) Close() error {
	if d.Store == nil {
		return nil
	}
	err := d.Store.Close()
	d.Store = nil
	d.Gateway = nil
	return err
}
