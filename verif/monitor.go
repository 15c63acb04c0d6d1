// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package verif

import (
	"github.com/db47h/uartsim/sim"
	"github.com/db47h/uartsim/uart"
)

// Monitor captures every received byte.
//
type Monitor struct {
	sig *uart.Signals
	out *sim.Mailbox[Sample]
}

func (m *Monitor) run(t *sim.Task) error {
	ready := func() bool { return m.sig.Ready }
	for {
		if err := t.RisingEdge(ready, 0); err != nil {
			return err
		}
		if err := m.out.Put(t, Sample{m.sig.Data, m.sig.FrameErr}); err != nil {
			return err
		}
	}
}
