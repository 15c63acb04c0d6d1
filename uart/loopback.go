// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package uart

import (
	hwsim "github.com/db47h/uartsim"
	hl "github.com/db47h/uartsim/hwlib"
)

// Signals is the testbench side of a Loopback.
//
// Inputs are sampled by the circuit at every step; outputs are updated at every
// step. Both must only be accessed between steps.
type Signals struct {
	// inputs
	Reset      bool
	Start      bool
	Payload    uint8
	ReadyClear bool
	Fault      bool // inverts the line seen by the receiver

	// outputs
	Busy       bool
	Line       bool // transmitter side of the line
	Ready      bool
	Data       uint8
	FrameErr   bool
	Collisions uint // start requests ignored while busy
}

// Loopback is a transmitter wired to a receiver through a fault injection
// stage and a two stage synchronizer, all driven by a single baud generator.
type Loopback struct {
	cfg Config
	sig *Signals
	c   *hwsim.Circuit
}

// powerUpSteps is the number of steps needed for the idle line level to
// reach the receiver through the synchronizer.
const powerUpSteps = 4

// NewLoopback builds a loopback circuit for cfg. The circuit is returned
// held in reset, after running powerUpSteps steps so that every wire carries
// its idle level.
func NewLoopback(workers int, cfg Config) (*Loopback, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Signals{Reset: true}
	c, err := hwsim.NewCircuit(workers,
		hl.Input(func() bool { return s.Reset })("out=rst"),
		hl.Input(func() bool { return s.Start })("out=start"),
		hl.InputN(DataBits, func() uint64 { return uint64(s.Payload) })("out=payload"),
		hl.Input(func() bool { return s.ReadyClear })("out=clear"),
		hl.Input(func() bool { return s.Fault })("out=fault"),

		BaudGenPart(cfg)("rst=rst, tx_tick=tx_tick, rx_tick=rx_tick"),
		TransmitterPart("rst=rst, tick=tx_tick, start=start, payload=payload, line=tx_line, busy=busy, collide=collide"),
		hl.Xor("a=tx_line, b=fault, out=rx_async"),
		hl.DFF("in=rx_async, out=rx_meta", true),
		hl.DFF("in=rx_meta, out=rx_line", true),
		ReceiverPart("rst=rst, tick=rx_tick, line=rx_line, clear=clear, data=data, ready=ready, ferr=ferr"),

		hl.Output(func(v bool) { s.Busy = v })("in=busy"),
		hl.Output(func(v bool) { s.Line = v })("in=tx_line"),
		hl.Output(func(v bool) { s.Ready = v })("in=ready"),
		hl.Output(func(v bool) { s.FrameErr = v })("in=ferr"),
		hl.OutputN(DataBits, func(v uint64) { s.Data = uint8(v) })("in=data"),
		hl.Output(func(v bool) {
			if v {
				s.Collisions++
			}
		})("in=collide"),
	)
	if err != nil {
		return nil, err
	}
	c.Run(powerUpSteps)
	return &Loopback{cfg: cfg, sig: s, c: c}, nil
}

// Signals returns the testbench signals of l.
func (l *Loopback) Signals() *Signals { return l.sig }

// Config returns the tick configuration of l.
func (l *Loopback) Config() Config { return l.cfg }

// Step advances the circuit by one system tick.
func (l *Loopback) Step() { l.c.Step() }

// Ticks returns the number of system ticks simulated so far.
func (l *Loopback) Ticks() uint64 { return l.c.Steps() }

// Dispose releases the resources held by the circuit.
func (l *Loopback) Dispose() { l.c.Dispose() }
