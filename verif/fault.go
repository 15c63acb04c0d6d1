// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package verif

import (
	"github.com/pkg/errors"

	"github.com/db47h/uartsim/sim"
	"github.com/db47h/uartsim/uart"
)

// Injector inverts the line seen by the receiver for one baud period over
// data bit Bit of transaction Frame.
//
type Injector struct {
	Frame int `yaml:"frame"`
	Bit   int `yaml:"bit"`
}

// Validate checks the injector targets a data bit.
//
func (in *Injector) Validate() error {
	if in.Frame < 0 {
		return errors.Errorf("fault frame %d: must not be negative", in.Frame)
	}
	if in.Bit < 0 || in.Bit >= uart.DataBits {
		return errors.Errorf("fault bit %d: must be in 0..%d", in.Bit, uart.DataBits-1)
	}
	return nil
}

// inject is called right after the start request of a transaction. The
// start bit edge is located on the transmitter line, then Fault is raised
// over data bit Bit. Data bit b starts (1+b) periods after the edge.
func (in *Injector) inject(t *sim.Task, sig *uart.Signals, period, watchdog uint64) error {
	if err := t.WaitFor(func() bool { return !sig.Line }, watchdog); err != nil {
		return errors.Wrap(err, "waiting for start bit")
	}
	if err := t.Wait(uint64(1+in.Bit) * period); err != nil {
		return err
	}
	sig.Fault = true
	err := t.Wait(period)
	sig.Fault = false
	return err
}
