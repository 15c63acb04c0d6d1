// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package verif implements a self-checking bench for a UART loopback.

An Environment runs four tasks on a sim.Scheduler:

	Generator  -> Driver -> DUT -> Monitor -> Scoreboard
	               \______________________________/
	                      forwarded sent values

The Generator pushes one transaction at a time and waits for the Scoreboard
to admit the next one. The Driver resets the device once, then handshakes
each payload through the busy and ready signals under a watchdog. The
Monitor captures the received byte on every rising edge of ready. The
Scoreboard pairs both streams in order and counts matches.
*/
package verif

import (
	"github.com/db47h/uartsim/sim"
	"github.com/db47h/uartsim/uart"
)

// A Logger receives human readable trace lines. *log.Logger implements it.
//
type Logger interface {
	Printf(format string, v ...interface{})
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...interface{}) {}

// DUT is the device under test. *uart.Loopback implements it.
//
type DUT interface {
	sim.Stepper
	Signals() *uart.Signals
	Config() uart.Config
}

// A Transaction is one byte sent through the DUT.
//
type Transaction struct {
	Index    int
	Sent     uint8
	Received uint8
	FrameErr bool
}

// Sample is what the Monitor observes when a byte is ready.
//
type Sample struct {
	Data     uint8
	FrameErr bool
}
