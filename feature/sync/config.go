package sync

import (
	"fmt"
	"time"

	"catalog-sync/core/reconcile"
)

// Config holds configuration for reconciliation runs.
type Config struct {
	// Lookup selects how courses are matched to rows (bulk or point).
	Lookup string `mapstructure:"lookup" default:"bulk"`
	// Prune deletes rows whose course disappeared from the catalog.
	Prune bool `mapstructure:"prune" default:"true"`
	// Publish pushes the draft live at the end of each run.
	Publish bool `mapstructure:"publish" default:"true"`
	// AllowEmptyCatalog lets an empty catalog prune the whole table.
	AllowEmptyCatalog bool `mapstructure:"allow_empty_catalog" default:"false"`
	// TimeoutMinutes bounds a single run. Zero disables the bound.
	TimeoutMinutes int `mapstructure:"timeout_minutes" default:"30"`
}

// LookupStrategy returns the configured strategy.
func (c Config) LookupStrategy() reconcile.LookupStrategy {
	if c.Lookup == "" {
		return reconcile.LookupBulk
	}
	return reconcile.LookupStrategy(c.Lookup)
}

// Validate checks the configured values.
func (c Config) Validate() error {
	if !c.LookupStrategy().Valid() {
		return fmt.Errorf("invalid sync lookup %q (expected bulk or point)", c.Lookup)
	}
	return nil
}

// Timeout returns the run bound as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMinutes) * time.Minute
}
