// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package uart

import (
	hwsim "github.com/db47h/uartsim"
)

// BaudGenPart returns a NewPartFn for a baud generator configured by cfg.
// It panics if cfg does not validate.
//
//	Inputs: rst
//	Outputs: tx_tick, rx_tick
//
func BaudGenPart(cfg Config) hwsim.NewPartFn {
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return (&hwsim.PartSpec{
		Name:    "BaudGen",
		Inputs:  []string{"rst"},
		Outputs: []string{"tx_tick", "rx_tick"},
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			rst, txTick, rxTick := s.Pin("rst"), s.Pin("tx_tick"), s.Pin("rx_tick")
			g, _ := NewBaudGen(cfg)
			return []hwsim.Component{
				func(c *hwsim.Circuit) {
					if c.Get(rst) {
						g.Reset()
						c.Set(txTick, false)
						c.Set(rxTick, false)
						return
					}
					tx, rx := g.Step()
					c.Set(txTick, tx)
					c.Set(rxTick, rx)
				}}
		}}).NewPart
}

type txPart struct {
	Rst     int    `hw:"in"`
	Tick    int    `hw:"in"`
	Start   int    `hw:"in"`
	Payload [8]int `hw:"in"`
	Line    int    `hw:"out"`
	Busy    int    `hw:"out"`
	Collide int    `hw:"out"`

	tx Transmitter
}

func (p *txPart) Update(c *hwsim.Circuit) {
	if c.Get(p.Rst) {
		p.tx.Reset()
	} else {
		p.tx.Step(c.Get(p.Tick), c.Get(p.Start), getByte(c, p.Payload[:]))
	}
	c.Set(p.Line, p.tx.Line())
	c.Set(p.Busy, p.tx.Busy())
	c.Set(p.Collide, p.tx.Collide())
}

type rxPart struct {
	Rst   int    `hw:"in"`
	Tick  int    `hw:"in"`
	Line  int    `hw:"in"`
	Clear int    `hw:"in"`
	Data  [8]int `hw:"out"`
	Ready int    `hw:"out"`
	Ferr  int    `hw:"out"`

	rx Receiver
}

func (p *rxPart) Update(c *hwsim.Circuit) {
	if c.Get(p.Rst) {
		p.rx.Reset()
	} else {
		p.rx.Step(c.Get(p.Tick), c.Get(p.Line), c.Get(p.Clear))
	}
	d := p.rx.Data()
	for i, pin := range p.Data {
		c.Set(pin, d&(1<<uint(i)) != 0)
	}
	c.Set(p.Ready, p.rx.Ready())
	c.Set(p.Ferr, p.rx.FrameErr())
}

func getByte(c *hwsim.Circuit, pins []int) uint8 {
	var v uint8
	for i, pin := range pins {
		if c.Get(pin) {
			v |= 1 << uint(i)
		}
	}
	return v
}

var (
	txSpec = hwsim.MakePart((*txPart)(nil))
	rxSpec = hwsim.MakePart((*rxPart)(nil))
)

// TransmitterPart returns a Transmitter part. While rst is high the
// transmitter is held in reset.
//
//	Inputs: rst, tick, start, payload[8]
//	Outputs: line, busy, collide
//
func TransmitterPart(w string) hwsim.Part { return txSpec.NewPart(w) }

// ReceiverPart returns a Receiver part. While rst is high the receiver is
// held in reset.
//
//	Inputs: rst, tick, line, clear
//	Outputs: data[8], ready, ferr
//
func ReceiverPart(w string) hwsim.Part { return rxSpec.NewPart(w) }
