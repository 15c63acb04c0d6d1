// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package uart

// BaudGen produces the transmitter and receiver tick pulses from the system
// tick. The two counters are free running and independent.
type BaudGen struct {
	txDiv, rxDiv uint
	txCnt, rxCnt uint
}

// NewBaudGen returns a baud generator for cfg. It fails if cfg does not
// validate.
func NewBaudGen(cfg Config) (*BaudGen, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &BaudGen{txDiv: cfg.TxDivisor(), rxDiv: cfg.RxDivisor()}, nil
}

// Reset clears both counters. The first pulses come div ticks later.
func (g *BaudGen) Reset() {
	g.txCnt, g.rxCnt = 0, 0
}

// Step advances the generator by one system tick. tx is true once every
// TxDivisor ticks, rx once every RxDivisor ticks.
func (g *BaudGen) Step() (tx, rx bool) {
	if g.txCnt == g.txDiv-1 {
		g.txCnt = 0
		tx = true
	} else {
		g.txCnt++
	}
	if g.rxCnt == g.rxDiv-1 {
		g.rxCnt = 0
		rx = true
	} else {
		g.rxCnt++
	}
	return tx, rx
}
