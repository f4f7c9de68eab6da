// Copyright 2026 The eonasm authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config carries non-mandatory defaults for the flags accepted by
// main, loaded from an optional TOML file. Explicit command-line
// flags always override whatever the file sets.
type Config struct {
	Listing   bool `toml:"listing"`
	Unused    bool `toml:"unused"`
	Verbose   bool `toml:"verbose"`
	MaxPasses int  `toml:"max_passes"`
}

// DefaultConfig returns the configuration used when no -config flag
// is given and no eonasm.toml is found.
func DefaultConfig() *Config {
	return &Config{
		Listing:   false,
		Unused:    false,
		Verbose:   false,
		MaxPasses: 0,
	}
}

// loadConfig reads path into a Config seeded with DefaultConfig
// values. A missing path (when it was not explicitly requested) is
// not an error; it just yields the defaults.
func loadConfig(path string, explicit bool) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		if !explicit {
			return cfg, nil
		}
		return nil, err
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
