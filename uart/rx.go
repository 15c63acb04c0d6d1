// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package uart

// RxState is the state of a Receiver.
type RxState uint8

// Receiver states.
const (
	RxIdle RxState = iota
	RxStart
	RxData
	RxStop
)

var rxStateNames = [...]string{"Idle", "Start", "Data", "Stop"}

func (s RxState) String() string {
	if int(s) < len(rxStateNames) {
		return rxStateNames[s]
	}
	return "RxState(?)"
}

// Receiver recovers bytes from the serial line using 16x oversampling.
//
// The first low sample seen while idle is taken as the leading edge of a start
// bit and becomes offset 0 of the sample counter. From there, every bit
// period is 16 rx ticks long and the line is sampled at offset 8, the middle
// of the bit. There is no glitch filtering: a short low pulse on an idle line
// starts a frame.
//
// Ready is set when the middle of the stop bit is reached and stays set until
// a clear is seen. A frame completing before the previous byte was cleared
// overwrites Data; Overruns counts these.
//
// The zero value is an idle receiver.
type Receiver struct {
	state   RxState
	count   uint8
	shift   uint8
	index   uint8
	data    uint8
	ready   bool
	ferr    bool
	sampled bool
	overrun uint
}

// Reset returns r to Idle and clears Ready. The overrun counter is preserved.
func (r *Receiver) Reset() {
	ovr := r.overrun
	*r = Receiver{overrun: ovr}
}

// advance moves the sample counter by one tick and reports whether a bit
// period boundary was crossed.
func (r *Receiver) advance() bool {
	r.count++
	if r.count == Oversample {
		r.count = 0
		return true
	}
	return false
}

// Step advances r by one system tick. clear deasserts Ready; it is honored
// on any tick. A byte completing during the same tick wins over the clear.
func (r *Receiver) Step(tick, line, clear bool) {
	r.sampled = false
	if clear {
		r.ready = false
	}
	if !tick {
		return
	}
	switch r.state {
	case RxIdle:
		if !line {
			r.state = RxStart
			r.count = 0
		}
	case RxStart:
		if r.advance() {
			r.state = RxData
			r.index = 0
			r.shift = 0
		} else if r.count == MidBit {
			// start bit sample point. The start bit is not re-validated.
			r.sampled = true
		}
	case RxData:
		if r.advance() {
			if r.index == DataBits-1 {
				r.state = RxStop
			} else {
				r.index++
			}
		} else if r.count == MidBit {
			r.sampled = true
			if line {
				r.shift |= 1 << r.index
			}
		}
	case RxStop:
		r.advance()
		if r.count == MidBit {
			r.sampled = true
			if r.ready {
				r.overrun++
			}
			r.data = r.shift
			r.ready = true
			r.ferr = !line
			r.state = RxIdle
			r.count = 0
		}
	}
}

// Data returns the last received byte. It is valid while Ready is true.
func (r *Receiver) Data() uint8 { return r.data }

// Ready returns true when a byte is available.
func (r *Receiver) Ready() bool { return r.ready }

// FrameErr returns true if the stop bit of the last received byte was low.
func (r *Receiver) FrameErr() bool { return r.ferr }

// State returns the current state.
func (r *Receiver) State() RxState { return r.state }

// Sampled returns true if the last Step sampled the line at a bit center.
func (r *Receiver) Sampled() bool { return r.sampled }

// Count returns the sample counter, the tick offset within the current bit
// period.
func (r *Receiver) Count() int { return int(r.count) }

// Overruns returns the number of bytes that overwrote an uncleared one.
func (r *Receiver) Overruns() uint { return r.overrun }
