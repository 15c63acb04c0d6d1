// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package config loads the run configuration of the uartsim command.
package config

import (
	"bytes"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/db47h/uartsim/uart"
	"github.com/db47h/uartsim/verif"
)

// Config is the root of the YAML configuration file.
type Config struct {
	UART  uart.Config `yaml:"uart"`
	Bench BenchConfig `yaml:"bench"`
}

// ---- BENCH ----

// BenchConfig configures the verification bench. Its tick counts are
// inlined under bench; 0 derives them from the baud divisor.
type BenchConfig struct {
	Transactions int     `yaml:"transactions"`
	Seed         int64   `yaml:"seed"`
	Payloads     []uint8 `yaml:"payloads"` // fixed sequence, overrides transactions
	Workers      int     `yaml:"workers"`

	verif.Ticks `yaml:",inline"`

	// optional
	Fault *verif.Injector `yaml:"fault"`
}

// Default returns the configuration used when no file is given: 115200 baud
// oversampled exactly 16 times, 20 random transactions.
func Default() *Config {
	return &Config{
		UART: uart.Config{
			SystemTickRate: 16 * 115200,
			BaudRate:       115200,
		},
		Bench: BenchConfig{
			Transactions: 20,
			Seed:         1,
			Workers:      1,
		},
	}
}

// Load reads a YAML file on top of Default. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return cfg, nil
}

// Verif returns the bench configuration for the verif package.
func (c *Config) Verif() verif.Config {
	return verif.Config{
		Transactions: c.Bench.Transactions,
		Seed:         c.Bench.Seed,
		Payloads:     c.Bench.Payloads,
		Ticks:        c.Bench.Ticks,
		Fault:        c.Bench.Fault,
	}
}
