package config

import (
	"fmt"
	"time"

	"github.com/kilianp07/spaplan/core/spa"
)

// WorkdirConfig selects the exchange directory. An empty path makes the CLI
// work in a temporary directory that is removed on exit.
type WorkdirConfig struct {
	Path string `json:"path"`
}

// ReaderConfig tunes how request files are parsed. Unset options are true.
type ReaderConfig struct {
	SkipCommentRows  *bool `json:"skip_comment_rows"`
	ParseComments    *bool `json:"parse_comments"`
	AddMissingGroups *bool `json:"add_missing_groups"`
}

func (c *ReaderConfig) SetDefaults() {
	for _, p := range []**bool{&c.SkipCommentRows, &c.ParseComments, &c.AddMissingGroups} {
		if *p == nil {
			v := true
			*p = &v
		}
	}
}

// MergeConfig controls how the group result file is used.
type MergeConfig struct {
	// Reconcile is "validate" or "ignore".
	Reconcile string `json:"reconcile"`
}

func (c *MergeConfig) SetDefaults() {
	if c.Reconcile == "" {
		c.Reconcile = string(spa.ReconcileValidate)
	}
}

func (c MergeConfig) Validate() error {
	if !spa.ReconcileMode(c.Reconcile).Valid() {
		return fmt.Errorf("unknown reconcile mode %q", c.Reconcile)
	}
	return nil
}

// WaitConfig controls waiting for the scheduler.
type WaitConfig struct {
	// SettleMS defaults to 500 when unset. Zero disables the delay.
	SettleMS *int `json:"settle_ms"`
	// TimeoutSeconds of zero waits until interrupted.
	TimeoutSeconds int `json:"timeout_seconds"`
}

func (c *WaitConfig) SetDefaults() {
	if c.SettleMS == nil {
		v := 500
		c.SettleMS = &v
	}
}

func (c WaitConfig) Validate() error {
	if c.SettleMS != nil && *c.SettleMS < 0 {
		return fmt.Errorf("settle_ms must not be negative")
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative")
	}
	return nil
}

func (c WaitConfig) Settle() time.Duration {
	if c.SettleMS == nil {
		return spa.DefaultOptions().Settle
	}
	return time.Duration(*c.SettleMS) * time.Millisecond
}

func (c WaitConfig) Timeout() time.Duration { return time.Duration(c.TimeoutSeconds) * time.Second }

// BridgeOptions converts the reader, merge and wait sections.
func (c Config) BridgeOptions() spa.Options {
	opts := spa.DefaultOptions()
	if c.Reader.SkipCommentRows != nil {
		opts.SkipCommentRows = *c.Reader.SkipCommentRows
	}
	if c.Reader.ParseComments != nil {
		opts.ParseComments = *c.Reader.ParseComments
	}
	if c.Reader.AddMissingGroups != nil {
		opts.AddMissingGroups = *c.Reader.AddMissingGroups
	}
	if c.Merge.Reconcile != "" {
		opts.Reconcile = spa.ReconcileMode(c.Merge.Reconcile)
	}
	if c.Wait.SettleMS != nil {
		opts.Settle = c.Wait.Settle()
	}
	return opts
}
