// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package verif

import (
	"github.com/pkg/errors"

	"github.com/db47h/uartsim/sim"
	"github.com/db47h/uartsim/uart"
)

// Driver applies transactions to the DUT signals.
//
type Driver struct {
	sig      *uart.Signals
	period   uint64
	reset    uint64
	settle   uint64
	watchdog uint64
	fault    *Injector
	log      Logger

	in    *sim.Mailbox[Transaction]
	fwd   *sim.Mailbox[Transaction]
	abort *sim.Event
}

func (d *Driver) run(t *sim.Task) error {
	d.sig.Reset = true
	if err := t.Wait(d.reset); err != nil {
		return err
	}
	d.sig.Reset = false
	if err := t.Wait(d.settle); err != nil {
		return err
	}
	d.log.Printf("driver: reset done at tick %d", t.Now())

	for {
		txn, err := d.in.Get(t)
		if err != nil {
			return err
		}
		if err = d.drive(t, txn); err != nil {
			if errors.Is(err, sim.ErrTimeout) {
				d.log.Printf("driver: txn %d: %v", txn.Index, err)
				d.abort.Set()
			}
			return errors.Wrapf(err, "txn %d", txn.Index)
		}
	}
}

func (d *Driver) drive(t *sim.Task, txn Transaction) error {
	if err := d.watch(t, "busy to clear", func() bool { return !d.sig.Busy }); err != nil {
		return err
	}
	d.sig.Payload = txn.Sent
	d.sig.Start = true
	if err := t.Wait(1); err != nil {
		return err
	}
	d.sig.Start = false
	if err := d.fwd.Put(t, txn); err != nil {
		return err
	}
	if d.fault != nil && d.fault.Frame == txn.Index {
		if err := d.fault.inject(t, d.sig, d.period, d.watchdog); err != nil {
			return err
		}
	}
	if err := d.watch(t, "ready", func() bool { return d.sig.Ready }); err != nil {
		return err
	}
	d.sig.ReadyClear = true
	if err := t.Wait(1); err != nil {
		return err
	}
	d.sig.ReadyClear = false
	// the clear goes through the circuit before ready drops
	return d.watch(t, "ready to clear", func() bool { return !d.sig.Ready })
}

func (d *Driver) watch(t *sim.Task, what string, cond func() bool) error {
	return errors.Wrap(t.WaitFor(cond, d.watchdog), "waiting for "+what)
}
