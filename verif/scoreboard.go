// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package verif

import (
	"github.com/db47h/uartsim/sim"
)

// Scoreboard compares sent and received bytes in order.
//
type Scoreboard struct {
	Pass        int
	Fail        int
	FrameErrors int
	Mismatches  []Transaction

	sent    *sim.Mailbox[Transaction]
	recv    *sim.Mailbox[Sample]
	proceed *sim.Mailbox[struct{}]
	log     Logger
}

func (sb *Scoreboard) run(t *sim.Task) error {
	for {
		txn, err := sb.sent.Get(t)
		if err != nil {
			return err
		}
		s, err := sb.recv.Get(t)
		if err != nil {
			return err
		}
		sb.check(txn, s)
		if err = sb.proceed.Put(t, struct{}{}); err != nil {
			return err
		}
	}
}

func (sb *Scoreboard) check(txn Transaction, s Sample) {
	txn.Received, txn.FrameErr = s.Data, s.FrameErr
	if s.FrameErr {
		sb.FrameErrors++
	}
	res := "PASS"
	if txn.Received == txn.Sent {
		sb.Pass++
	} else {
		sb.Fail++
		sb.Mismatches = append(sb.Mismatches, txn)
		res = "FAIL"
	}
	sb.log.Printf("txn %d: sent=0x%02x received=0x%02x %s", txn.Index, txn.Sent, txn.Received, res)
}
