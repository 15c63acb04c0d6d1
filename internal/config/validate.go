// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package config

import (
	"github.com/pkg/errors"
)

// Validate checks configuration correctness.
// It performs declarative validation only and does not mutate cfg.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	if err := cfg.UART.Validate(); err != nil {
		return errors.Wrap(err, "uart")
	}

	b := &cfg.Bench
	if b.Transactions <= 0 && len(b.Payloads) == 0 {
		return errors.Errorf("bench: transactions must be positive, got %d", b.Transactions)
	}
	if b.Workers < 0 {
		return errors.Errorf("bench: workers must not be negative, got %d", b.Workers)
	}
	if b.Fault != nil {
		if err := b.Fault.Validate(); err != nil {
			return errors.Wrap(err, "bench")
		}
		n := b.Transactions
		if len(b.Payloads) > 0 {
			n = len(b.Payloads)
		}
		if b.Fault.Frame >= n {
			return errors.Errorf("bench: fault frame %d out of range for %d transactions", b.Fault.Frame, n)
		}
	}
	if b.WatchdogTicks != 0 && b.WatchdogTicks < uint64(cfg.UART.FrameTicks()) {
		return errors.Errorf("bench: watchdog_ticks %d shorter than one frame (%d ticks)",
			b.WatchdogTicks, cfg.UART.FrameTicks())
	}
	return nil
}
