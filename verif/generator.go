// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package verif

import (
	"math/rand"

	"github.com/db47h/uartsim/sim"
)

// Generator produces the stimulus. Payloads, when set, are sent in order;
// otherwise Count payloads are drawn from Rand.
//
type Generator struct {
	Count    int
	Payloads []uint8
	Rand     *rand.Rand

	out     *sim.Mailbox[Transaction]
	proceed *sim.Mailbox[struct{}]
	done    *sim.Event
}

func (g *Generator) count() int {
	if len(g.Payloads) > 0 {
		return len(g.Payloads)
	}
	return g.Count
}

func (g *Generator) payload(i int) uint8 {
	if len(g.Payloads) > 0 {
		return g.Payloads[i]
	}
	return uint8(g.Rand.Intn(256))
}

func (g *Generator) run(t *sim.Task) error {
	for i := 0; i < g.count(); i++ {
		if err := g.out.Put(t, Transaction{Index: i, Sent: g.payload(i)}); err != nil {
			return err
		}
		// one transaction in flight
		if _, err := g.proceed.Get(t); err != nil {
			return err
		}
	}
	g.done.Set()
	return nil
}
