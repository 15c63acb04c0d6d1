// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command uartsim runs the UART loopback bench and prints a report.
//
// Usage:
//
//	uartsim [-config file.yaml] [-n count] [-seed s] [-baud b] [-rate r]
//	        [-fault-frame i -fault-bit b] [-workers w] [-v]
//
// Flags override the values of the configuration file. -fault-bit is rejected
// without -fault-frame. The exit status is 0
// when every transaction passed, 1 on a mismatch or a timeout and 2 on a
// configuration error.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/db47h/uartsim/internal/config"
	"github.com/db47h/uartsim/uart"
	"github.com/db47h/uartsim/verif"
)

func main() {
	var (
		cfgPath    = flag.String("config", "", "YAML configuration `file`")
		count      = flag.Int("n", 0, "number of random transactions")
		seed       = flag.Int64("seed", 0, "payload random seed")
		baud       = flag.Uint("baud", 0, "baud rate")
		rate       = flag.Uint("rate", 0, "system tick rate")
		faultFrame = flag.Int("fault-frame", -1, "inject a bit flip into this transaction")
		faultBit   = flag.Int("fault-bit", 0, "data bit flipped by -fault-frame (requires -fault-frame)")
		workers    = flag.Int("workers", -1, "circuit worker goroutines (0: GOMAXPROCS)")
		verbose    = flag.Bool("v", false, "print one trace line per transaction")
	)
	flag.Parse()
	log.SetFlags(0)

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if err := checkFlags(set); err != nil {
		log.Print(err)
		os.Exit(2)
	}

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			log.Print(err)
			os.Exit(2)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "n":
			cfg.Bench.Transactions = *count
			cfg.Bench.Payloads = nil
		case "seed":
			cfg.Bench.Seed = *seed
		case "baud":
			cfg.UART.BaudRate = *baud
		case "rate":
			cfg.UART.SystemTickRate = *rate
		case "workers":
			cfg.Bench.Workers = *workers
		}
	})
	if set["fault-frame"] {
		cfg.Bench.Fault = &verif.Injector{Frame: *faultFrame, Bit: *faultBit}
	}
	if err := config.Validate(cfg); err != nil {
		log.Printf("config validation failed: %v", err)
		os.Exit(2)
	}
	config.Normalize(cfg)

	l, err := uart.NewLoopback(cfg.Bench.Workers, cfg.UART)
	if err != nil {
		log.Printf("loopback: %v", err)
		os.Exit(2)
	}
	defer l.Dispose()

	var trace verif.Logger
	if *verbose {
		trace = log.New(os.Stdout, "", 0)
	}
	env, err := verif.NewEnvironment(l, cfg.Verif(), trace)
	if err != nil {
		log.Printf("bench: %v", err)
		l.Dispose()
		os.Exit(2)
	}

	log.Printf("uart: %d baud, %d ticks/s (tx divisor %d, rx divisor %d)",
		cfg.UART.BaudRate, cfg.UART.SystemTickRate, cfg.UART.TxDivisor(), cfg.UART.RxDivisor())
	r, err := env.Run()
	if err != nil {
		log.Printf("bench failed: %v", err)
	}
	log.Print(r)
	if !r.OK() {
		l.Dispose()
		os.Exit(1)
	}
}

// checkFlags rejects flag combinations that would be silently ignored.
func checkFlags(set map[string]bool) error {
	if set["fault-bit"] && !set["fault-frame"] {
		return errors.New("-fault-bit requires -fault-frame")
	}
	return nil
}
