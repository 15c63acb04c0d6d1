// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package uart_test

import (
	"testing"

	"github.com/db47h/uartsim/uart"
	"github.com/pkg/errors"
)

func TestConfig_Validate(t *testing.T) {
	td := []struct {
		name string
		cfg  uart.Config
		ok   bool
		tx   uint
		rx   uint
	}{
		{"16x", uart.Config{SystemTickRate: 16 * 115200, BaudRate: 115200}, true, 16, 1},
		{"32x", uart.Config{SystemTickRate: 32 * 115200, BaudRate: 115200}, true, 32, 2},
		{"50MHz", uart.Config{SystemTickRate: 50000000, BaudRate: 115200}, true, 434, 27},
		{"too fast", uart.Config{SystemTickRate: 15 * 115200, BaudRate: 115200}, false, 0, 0},
		{"33x", uart.Config{SystemTickRate: 33 * 9600, BaudRate: 9600}, true, 33, 2},
		{"20x drift", uart.Config{SystemTickRate: 20 * 9600, BaudRate: 9600}, false, 0, 0},
		{"31x drift", uart.Config{SystemTickRate: 31 * 9600, BaudRate: 9600}, false, 0, 0},
		{"zero baud", uart.Config{SystemTickRate: 1000}, false, 0, 0},
		{"zero rate", uart.Config{BaudRate: 9600}, false, 0, 0},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			err := d.cfg.Validate()
			if !d.ok {
				if err == nil {
					t.Fatal("expected error")
				}
				if errors.Cause(err) != uart.ErrConfig {
					t.Fatalf("expected ErrConfig cause, got %v", err)
				}
				if _, err := uart.NewBaudGen(d.cfg); err == nil {
					t.Fatal("NewBaudGen accepted an invalid configuration")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if tx, rx := d.cfg.TxDivisor(), d.cfg.RxDivisor(); tx != d.tx || rx != d.rx {
				t.Fatalf("expected divisors %d/%d, got %d/%d", d.tx, d.rx, tx, rx)
			}
		})
	}
}

func TestBaudGen(t *testing.T) {
	cfg := uart.Config{SystemTickRate: 48 * 9600, BaudRate: 9600}
	g, err := uart.NewBaudGen(cfg)
	if err != nil {
		t.Fatal(err)
	}
	var txTicks, rxTicks []int
	for i := 0; i < 480; i++ {
		tx, rx := g.Step()
		if tx {
			txTicks = append(txTicks, i)
		}
		if rx {
			rxTicks = append(rxTicks, i)
		}
	}
	if len(txTicks) != 10 || len(rxTicks) != 160 {
		t.Fatalf("expected 10 tx and 160 rx pulses, got %d and %d", len(txTicks), len(rxTicks))
	}
	for i, n := range txTicks {
		if n != 47+48*i {
			t.Fatalf("tx pulse %d at tick %d, expected %d", i, n, 47+48*i)
		}
	}
	for i, n := range rxTicks {
		if n != 2+3*i {
			t.Fatalf("rx pulse %d at tick %d, expected %d", i, n, 2+3*i)
		}
	}

	// reset restarts both counters
	g.Step()
	g.Reset()
	for i := 0; i < 2; i++ {
		if _, rx := g.Step(); rx {
			t.Fatalf("rx pulse %d ticks after reset", i+1)
		}
	}
	if _, rx := g.Step(); !rx {
		t.Fatal("expected rx pulse 3 ticks after reset")
	}
}
