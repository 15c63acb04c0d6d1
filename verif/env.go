// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package verif

import (
	"math/rand"

	"github.com/pkg/errors"

	"github.com/db47h/uartsim/sim"
	"github.com/db47h/uartsim/uart"
)

// Ticks holds the durations used by the bench, in system ticks.
//
type Ticks struct {
	ResetTicks    uint64 `yaml:"reset_ticks"`
	SettleTicks   uint64 `yaml:"settle_ticks"`
	DrainTicks    uint64 `yaml:"drain_ticks"`
	WatchdogTicks uint64 `yaml:"watchdog_ticks"`
}

// DefaultTicks returns tick counts suited to u: a short reset, two baud
// periods to settle, one frame to drain and a watchdog of two frames.
//
func DefaultTicks(u uart.Config) Ticks {
	frame := uint64(u.FrameTicks())
	return Ticks{
		ResetTicks:    4,
		SettleTicks:   2 * uint64(u.TxDivisor()),
		DrainTicks:    frame,
		WatchdogTicks: 2 * frame,
	}
}

// SetDefaults replaces the zero fields of t with the values of DefaultTicks.
//
func (t *Ticks) SetDefaults(u uart.Config) {
	d := DefaultTicks(u)
	for _, p := range []struct{ v, d *uint64 }{
		{&t.ResetTicks, &d.ResetTicks},
		{&t.SettleTicks, &d.SettleTicks},
		{&t.DrainTicks, &d.DrainTicks},
		{&t.WatchdogTicks, &d.WatchdogTicks},
	} {
		if *p.v == 0 {
			*p.v = *p.d
		}
	}
}

// Config configures an Environment. Zero tick counts are replaced by the
// values of DefaultTicks.
//
type Config struct {
	Transactions int
	Seed         int64
	Payloads     []uint8 // sent instead of random payloads when set
	Ticks

	Fault *Injector
}

// DefaultConfig returns 20 random transactions with DefaultTicks.
//
func DefaultConfig(u uart.Config) Config {
	return Config{
		Transactions: 20,
		Seed:         1,
		Ticks:        DefaultTicks(u),
	}
}

// Validate checks c.
//
func (c *Config) Validate() error {
	if c.Transactions <= 0 && len(c.Payloads) == 0 {
		return errors.Errorf("transaction count %d: must be positive", c.Transactions)
	}
	if c.Fault != nil {
		return c.Fault.Validate()
	}
	return nil
}

// Environment owns the bench tasks and their queues.
//
type Environment struct {
	cfg Config
	dut DUT
	log Logger
}

// NewEnvironment returns an environment running cfg against dut. log may be
// nil.
//
func NewEnvironment(dut DUT, cfg Config, log Logger) (*Environment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := dut.Config().Validate(); err != nil {
		return nil, err
	}
	cfg.Ticks.SetDefaults(dut.Config())
	if log == nil {
		log = nopLogger{}
	}
	return &Environment{cfg: cfg, dut: dut, log: log}, nil
}

// Run runs the bench to completion. A watchdog timeout is not an error: it
// yields a partial report with TimedOut set. The returned error reports a
// failure of the bench itself.
//
func (e *Environment) Run() (*Report, error) {
	s := sim.New(e.dut)
	sig := e.dut.Signals()

	var (
		stim    = sim.NewMailbox[Transaction](s, 1)
		fwd     = sim.NewMailbox[Transaction](s, 0)
		mon     = sim.NewMailbox[Sample](s, 0)
		proceed = sim.NewMailbox[struct{}](s, 0)
		done    = sim.NewEvent(s)
		abort   = sim.NewEvent(s)
	)
	gen := &Generator{
		Count:    e.cfg.Transactions,
		Payloads: e.cfg.Payloads,
		Rand:     rand.New(rand.NewSource(e.cfg.Seed)),
		out:      stim,
		proceed:  proceed,
		done:     done,
	}
	drv := &Driver{
		sig:      sig,
		period:   uint64(e.dut.Config().TxDivisor()),
		reset:    e.cfg.ResetTicks,
		settle:   e.cfg.SettleTicks,
		watchdog: e.cfg.WatchdogTicks,
		fault:    e.cfg.Fault,
		log:      e.log,
		in:       stim,
		fwd:      fwd,
		abort:    abort,
	}
	m := &Monitor{sig: sig, out: mon}
	sb := &Scoreboard{sent: fwd, recv: mon, proceed: proceed, log: e.log}

	r := &Report{Expected: gen.count()}
	err := s.Run("environment", func(t *sim.Task) error {
		tasks := []*sim.Task{
			t.Fork("generator", gen.run),
			t.Fork("driver", drv.run),
			t.Fork("monitor", m.run),
			t.Fork("scoreboard", sb.run),
		}
		err := t.WaitFor(func() bool {
			if done.IsSet() || abort.IsSet() {
				return true
			}
			for _, o := range tasks {
				if o.Done() {
					return true
				}
			}
			return false
		}, 0)
		if err != nil {
			return err
		}
		if !abort.IsSet() {
			if err = t.Wait(e.cfg.DrainTicks); err != nil {
				return err
			}
		}
		for _, o := range tasks {
			t.Cancel(o)
		}
		for _, o := range tasks {
			err := t.Join(o)
			switch {
			case err == nil || errors.Is(err, sim.ErrStopped):
			case errors.Is(err, sim.ErrTimeout):
				r.TimedOut = true
				r.Err = err
			default:
				return errors.Wrap(err, o.Name())
			}
		}
		return nil
	})

	r.Pass, r.Fail, r.Total = sb.Pass, sb.Fail, sb.Pass+sb.Fail
	r.FrameErrors = sb.FrameErrors
	r.Mismatches = sb.Mismatches
	r.Violations = sig.Collisions
	r.Ticks = s.Now()
	if err != nil {
		r.Err = err
		return r, err
	}
	if r.Total < r.Expected && !r.TimedOut {
		r.Err = errors.Errorf("run ended after %d of %d transactions", r.Total, r.Expected)
	}
	e.log.Printf("report: %s", r)
	return r, nil
}
