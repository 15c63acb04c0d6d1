// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package uart

import "github.com/pkg/errors"

// Frame layout and receiver oversampling.
const (
	DataBits   = 8
	FrameBits  = 1 + DataBits + 1 // start + data + stop
	Oversample = 16
	MidBit     = Oversample / 2
)

// ErrConfig is the cause of all configuration errors returned by Validate.
var ErrConfig = errors.New("invalid uart configuration")

// Config is a tick configuration. SystemTickRate is the number of system
// ticks per second and BaudRate the number of bits per second on the line.
//
// SystemTickRate / BaudRate must be at least Oversample: the receiver needs 16
// ticks per bit. Both divisors are floored, so the receiver's bit period,
// Oversample*RxDivisor, may be shorter than TxDivisor. The drift accumulated
// up to the stop bit sample must stay under half a bit, which rules out
// ratios such as 20 or 31 (one rx tick per system tick, 16 ticks per bit
// against 20 or 31). Callers must validate a Config before use; nothing in
// this package clamps an invalid one.
type Config struct {
	SystemTickRate uint `yaml:"system_tick_rate"`
	BaudRate       uint `yaml:"baud_rate"`
}

// Validate checks that c can drive the baud generator.
func (c Config) Validate() error {
	if c.SystemTickRate == 0 || c.BaudRate == 0 {
		return errors.Wrap(ErrConfig, "tick rate and baud rate must be positive")
	}
	if c.SystemTickRate/c.BaudRate < Oversample {
		return errors.Wrapf(ErrConfig, "baud rate %d too high for tick rate %d: need at least %d ticks per bit",
			c.BaudRate, c.SystemTickRate, Oversample)
	}
	if d, limit := c.stopDrift(), c.TxDivisor()/2; d >= limit {
		return errors.Wrapf(ErrConfig, "tick rate %d / baud rate %d: receiver drifts %d ticks by the stop bit, limit %d",
			c.SystemTickRate, c.BaudRate, d, limit)
	}
	return nil
}

// stopDrift returns the distance in system ticks between the middle of the
// stop bit and the receiver's stop bit sample point.
func (c Config) stopDrift() uint {
	tx := (FrameBits-1)*c.TxDivisor() + c.TxDivisor()/2
	rx := (FrameBits-1)*Oversample*c.RxDivisor() + MidBit*c.RxDivisor()
	if tx > rx {
		return tx - rx
	}
	return rx - tx
}

// TxDivisor returns the number of system ticks per baud period.
func (c Config) TxDivisor() uint { return c.SystemTickRate / c.BaudRate }

// RxDivisor returns the number of system ticks per oversampling period.
func (c Config) RxDivisor() uint { return c.SystemTickRate / (c.BaudRate * Oversample) }

// FrameTicks returns the duration of one frame in system ticks.
func (c Config) FrameTicks() uint { return FrameBits * c.TxDivisor() }
