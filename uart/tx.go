// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package uart

// TxState is the state of a Transmitter. It names the bit currently on the line.
type TxState uint8

// Transmitter states.
const (
	TxIdle TxState = iota
	TxStart
	TxData
	TxStop
)

var txStateNames = [...]string{"Idle", "Start", "Data", "Stop"}

func (s TxState) String() string {
	if int(s) < len(txStateNames) {
		return txStateNames[s]
	}
	return "TxState(?)"
}

// Transmitter serializes one byte per frame, least significant bit first.
//
// A rising edge of start while the transmitter is not busy latches the payload
// and raises Busy at once. The start bit begins on the next tx tick, up to
// TxDivisor-1 system ticks later, so that every bit lasts exactly one baud
// period. Busy drops at the end of the stop bit: it lasts exactly FrameBits
// baud periods measured from the leading edge of the start bit, plus the wait
// for the first tx tick measured from the request.
//
// A rising edge of start while busy is ignored and counted: callers must wait
// for Busy to drop. The transmitter does not queue requests.
//
// The zero value is an idle transmitter.
type Transmitter struct {
	state   TxState
	shift   uint8
	index   uint8
	busy    bool
	prev    bool // start input at the previous tick
	collide bool
	ignored uint
}

// Reset returns t to Idle. The counter of ignored requests is preserved.
func (t *Transmitter) Reset() {
	ign := t.ignored
	*t = Transmitter{ignored: ign}
}

// Step advances t by one system tick.
func (t *Transmitter) Step(tick, start bool, payload uint8) {
	rising := start && !t.prev
	t.prev = start
	t.collide = false
	if rising {
		if t.busy {
			t.ignored++
			t.collide = true
		} else {
			t.shift = payload
			t.busy = true
		}
	}
	if !tick {
		return
	}
	switch t.state {
	case TxIdle:
		if t.busy {
			t.state = TxStart
		}
	case TxStart:
		t.state = TxData
		t.index = 0
	case TxData:
		if t.index == DataBits-1 {
			t.state = TxStop
		} else {
			t.shift >>= 1
			t.index++
		}
	case TxStop:
		t.state = TxIdle
		t.busy = false
	}
}

// Line returns the serial line level. The line idles high.
func (t *Transmitter) Line() bool {
	switch t.state {
	case TxStart:
		return false
	case TxData:
		return t.shift&1 != 0
	}
	return true
}

// Busy returns true from an accepted request to the end of the stop bit.
func (t *Transmitter) Busy() bool { return t.busy }

// State returns the current state.
func (t *Transmitter) State() TxState { return t.state }

// Collide returns true if the last Step ignored a start request.
func (t *Transmitter) Collide() bool { return t.collide }

// Ignored returns the number of start requests ignored because t was busy.
func (t *Transmitter) Ignored() uint { return t.ignored }
