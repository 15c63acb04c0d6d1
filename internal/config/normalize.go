// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package config

// Normalize fills zero tick counts from the baud divisor and drops the
// transaction count when a payload list is given.
// It must be called only after Validate.
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	b := &cfg.Bench
	b.Ticks.SetDefaults(cfg.UART)
	if len(b.Payloads) > 0 {
		b.Transactions = len(b.Payloads)
	}
}
