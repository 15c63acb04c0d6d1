// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package verif_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/db47h/uartsim/sim"
	"github.com/db47h/uartsim/uart"
	"github.com/db47h/uartsim/verif"
)

type lines []string

func (l *lines) Printf(format string, v ...interface{}) {
	*l = append(*l, fmt.Sprintf(format, v...))
}

func newLoopback(t *testing.T, k uint) *uart.Loopback {
	t.Helper()
	l, err := uart.NewLoopback(1, uart.Config{SystemTickRate: 16 * 115200 * k, BaudRate: 115200})
	require.NoError(t, err)
	t.Cleanup(l.Dispose)
	return l
}

func run(t *testing.T, dut verif.DUT, cfg verif.Config, log verif.Logger) *verif.Report {
	t.Helper()
	env, err := verif.NewEnvironment(dut, cfg, log)
	require.NoError(t, err)
	r, err := env.Run()
	require.NoError(t, err)
	return r
}

func TestEnvironment_sequence(t *testing.T) {
	for _, k := range []uint{1, 2} {
		var log lines
		r := run(t, newLoopback(t, k), verif.Config{Payloads: []uint8{0x41, 0x55, 0xAA}}, &log)

		assert.True(t, r.OK(), "K=%d: %s", k, r)
		assert.Equal(t, 3, r.Pass)
		assert.Equal(t, 0, r.Fail)
		assert.Equal(t, 3, r.Total)
		assert.Empty(t, r.Mismatches)
		assert.Zero(t, r.Violations)
		assert.Contains(t, log, "txn 0: sent=0x41 received=0x41 PASS")
		assert.Contains(t, log, "txn 1: sent=0x55 received=0x55 PASS")
		assert.Contains(t, log, "txn 2: sent=0xaa received=0xaa PASS")
	}
}

func TestEnvironment_random(t *testing.T) {
	r := run(t, newLoopback(t, 1), verif.Config{Transactions: 20, Seed: 42}, nil)
	require.True(t, r.OK(), r.String())
	assert.Equal(t, 20, r.Pass)
	assert.Equal(t, 0, r.Fail)
	assert.Zero(t, r.FrameErrors)
}

func TestEnvironment_fault(t *testing.T) {
	for _, k := range []uint{1, 2} {
		var log lines
		cfg := verif.Config{
			Payloads: []uint8{0x41, 0x55, 0xAA, 0x0F},
			Fault:    &verif.Injector{Frame: 1, Bit: 3},
		}
		r := run(t, newLoopback(t, k), cfg, &log)

		require.False(t, r.TimedOut, r.String())
		assert.False(t, r.OK())
		assert.Equal(t, 3, r.Pass, "K=%d", k)
		assert.Equal(t, 1, r.Fail, "K=%d", k)
		require.Len(t, r.Mismatches, 1)
		m := r.Mismatches[0]
		assert.Equal(t, 1, m.Index)
		assert.Equal(t, uint8(0x55), m.Sent)
		assert.Equal(t, uint8(0x55^0x08), m.Received)
		assert.Contains(t, log, "txn 1: sent=0x55 received=0x5d FAIL")
	}
}

func TestEnvironment_watchdog(t *testing.T) {
	var log lines
	r := run(t, newLoopback(t, 1), verif.Config{Transactions: 3, Ticks: verif.Ticks{WatchdogTicks: 10}}, &log)

	assert.True(t, r.TimedOut)
	assert.False(t, r.OK())
	assert.True(t, errors.Is(r.Err, sim.ErrTimeout), "got %v", r.Err)
	assert.Equal(t, 0, r.Total)
	assert.Contains(t, r.String(), "TIMEOUT")
}

// stalled stops the circuit clock after a number of ticks.
type stalled struct {
	*uart.Loopback
	after uint64
}

func (s *stalled) Step() {
	if s.Ticks() < s.after {
		s.Loopback.Step()
	}
}

func TestEnvironment_partial(t *testing.T) {
	// one frame at K=1 takes 160 ticks; stall during the second one
	dut := &stalled{newLoopback(t, 1), 300}
	r := run(t, dut, verif.Config{Payloads: []uint8{1, 2, 3}}, nil)

	require.True(t, r.TimedOut, r.String())
	assert.Equal(t, 1, r.Pass)
	assert.Equal(t, 1, r.Total)
	assert.Equal(t, 3, r.Expected)
	assert.True(t, strings.Contains(r.Err.Error(), "txn 1"), r.Err.Error())
}

func TestNewEnvironment_badConfig(t *testing.T) {
	l := newLoopback(t, 1)
	_, err := verif.NewEnvironment(l, verif.Config{}, nil)
	assert.Error(t, err)
	_, err = verif.NewEnvironment(l, verif.Config{Transactions: 1, Fault: &verif.Injector{Bit: 8}}, nil)
	assert.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	d := verif.DefaultConfig(uart.Config{SystemTickRate: 32 * 9600, BaudRate: 9600})
	assert.Equal(t, uint64(64), d.SettleTicks)
	assert.Equal(t, uint64(320), d.DrainTicks)
	assert.Equal(t, uint64(640), d.WatchdogTicks)
	assert.NoError(t, d.Validate())
}

func TestEnvironment_tickRatios(t *testing.T) {
	for _, ratio := range []uint{16, 32, 33, 48} {
		l, err := uart.NewLoopback(1, uart.Config{SystemTickRate: ratio * 9600, BaudRate: 9600})
		require.NoError(t, err, "ratio %d", ratio)
		r := run(t, l, verif.Config{Transactions: 20, Seed: 3}, nil)
		l.Dispose()
		assert.True(t, r.OK(), "ratio %d: %s", ratio, r)
	}
	for _, ratio := range []uint{20, 24, 31, 47} {
		_, err := uart.NewLoopback(1, uart.Config{SystemTickRate: ratio * 9600, BaudRate: 9600})
		require.Error(t, err, "ratio %d", ratio)
		assert.True(t, errors.Is(err, uart.ErrConfig))
	}
}

func TestTicks_SetDefaults(t *testing.T) {
	u := uart.Config{SystemTickRate: 16 * 9600, BaudRate: 9600}
	tk := verif.Ticks{SettleTicks: 5}
	tk.SetDefaults(u)
	exp := verif.DefaultTicks(u)
	exp.SettleTicks = 5
	assert.Equal(t, exp, tk)
}
