// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sim_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/db47h/uartsim/sim"
)

type counter struct{ n int }

func (c *counter) Step() { c.n++ }

func TestScheduler_wait(t *testing.T) {
	var c counter
	s := sim.New(&c)
	err := s.Run("main", func(t *sim.Task) error {
		if err := t.Wait(10); err != nil {
			return err
		}
		if t.Now() != 10 {
			return errors.Errorf("now = %d, expected 10", t.Now())
		}
		return t.Wait(0)
	})
	require.NoError(t, err)
	assert.Equal(t, 10, c.n)
	assert.Equal(t, uint64(10), s.Now())
}

func TestScheduler_order(t *testing.T) {
	var (
		c   counter
		log []string
	)
	s := sim.New(&c)
	err := s.Run("main", func(t *sim.Task) error {
		var ts []*sim.Task
		for _, n := range []string{"a", "b", "c"} {
			n := n
			ts = append(ts, t.Fork(n, func(t *sim.Task) error {
				log = append(log, n+"0")
				if err := t.Wait(2); err != nil {
					return err
				}
				log = append(log, n+"2")
				return nil
			}))
		}
		log = append(log, "main")
		for _, o := range ts {
			if err := t.Join(o); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"main", "a0", "b0", "c0", "a2", "b2", "c2"}, log)
	assert.Equal(t, 2, c.n)
}

func TestScheduler_waitFor(t *testing.T) {
	var c counter
	s := sim.New(&c)
	err := s.Run("main", func(t *sim.Task) error {
		if err := t.WaitFor(func() bool { return c.n >= 5 }, 0); err != nil {
			return err
		}
		if c.n != 5 {
			return errors.Errorf("woken at %d", c.n)
		}
		// already true
		if err := t.WaitFor(func() bool { return true }, 1); err != nil {
			return err
		}
		return t.WaitFor(func() bool { return false }, 3)
	})
	require.True(t, errors.Is(err, sim.ErrTimeout), "got %v", err)
	assert.Equal(t, 8, c.n)
}

func TestScheduler_risingEdge(t *testing.T) {
	var c counter
	s := sim.New(&c)
	high := func() bool { return c.n%4 >= 2 }
	var at []int
	err := s.Run("main", func(t *sim.Task) error {
		for i := 0; i < 3; i++ {
			if err := t.RisingEdge(high, 0); err != nil {
				return err
			}
			at = append(at, c.n)
			// level stays high: no new edge
			if err := t.Wait(1); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 6, 10}, at)
}

func TestScheduler_deadlock(t *testing.T) {
	var c counter
	s := sim.New(&c)
	ev := sim.NewEvent(s)
	var childErr error
	err := s.Run("main", func(t *sim.Task) error {
		t.Fork("child", func(t *sim.Task) error {
			childErr = ev.Wait(t)
			return childErr
		})
		return ev.Wait(t)
	})
	require.True(t, errors.Is(err, sim.ErrDeadlock), "got %v", err)
	assert.True(t, errors.Is(childErr, sim.ErrStopped))
	assert.Equal(t, 0, c.n)
}

func TestScheduler_cancel(t *testing.T) {
	var c counter
	s := sim.New(&c)
	err := s.Run("main", func(t *sim.Task) error {
		loop := t.Fork("loop", func(t *sim.Task) error {
			for {
				if err := t.Wait(1); err != nil {
					return err
				}
			}
		})
		if err := t.Wait(5); err != nil {
			return err
		}
		t.Cancel(loop)
		err := t.Join(loop)
		if !errors.Is(err, sim.ErrStopped) {
			return errors.Errorf("join: got %v", err)
		}
		if !loop.Done() {
			return errors.New("loop still running")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 5, c.n)
}

func TestScheduler_stopOnReturn(t *testing.T) {
	var (
		c      counter
		forked *sim.Task
	)
	s := sim.New(&c)
	err := s.Run("main", func(t *sim.Task) error {
		forked = t.Fork("forever", func(t *sim.Task) error {
			return t.WaitFor(func() bool { return false }, 0)
		})
		return t.Wait(3)
	})
	require.NoError(t, err)
	require.True(t, forked.Done())
	assert.True(t, errors.Is(forked.Err(), sim.ErrStopped))
}

func TestScheduler_panic(t *testing.T) {
	var c counter
	s := sim.New(&c)
	err := s.Run("main", func(t *sim.Task) error {
		p := t.Fork("p", func(t *sim.Task) error {
			panic("boom")
		})
		err := t.Join(p)
		if err == nil {
			return errors.New("expected an error")
		}
		return errors.Wrap(err, "joined")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestMailbox(t *testing.T) {
	var c counter
	s := sim.New(&c)
	mb := sim.NewMailbox[int](s, 1)
	var got []int
	var putAt []int
	err := s.Run("main", func(t *sim.Task) error {
		cons := t.Fork("consumer", func(t *sim.Task) error {
			for i := 0; i < 4; i++ {
				if err := t.Wait(2); err != nil {
					return err
				}
				v, err := mb.Get(t)
				if err != nil {
					return err
				}
				got = append(got, v)
			}
			return nil
		})
		for i := 0; i < 4; i++ {
			if err := mb.Put(t, i); err != nil {
				return err
			}
			putAt = append(putAt, c.n)
		}
		return t.Join(cons)
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, got)
	// bound 1: each put after the first waits for the previous get
	assert.Equal(t, []int{0, 2, 4, 6}, putAt)
	assert.Equal(t, 0, mb.Len())
}

func TestMailbox_unbounded(t *testing.T) {
	var c counter
	s := sim.New(&c)
	mb := sim.NewMailbox[string](s, 0)
	err := s.Run("main", func(t *sim.Task) error {
		for _, v := range []string{"x", "y", "z"} {
			if err := mb.Put(t, v); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, mb.Len())
	assert.Equal(t, 0, c.n)
}

func TestEvent(t *testing.T) {
	var c counter
	s := sim.New(&c)
	ev := sim.NewEvent(s)
	var woke []int
	err := s.Run("main", func(t *sim.Task) error {
		var ws []*sim.Task
		for i := 0; i < 2; i++ {
			ws = append(ws, t.Fork("w", func(t *sim.Task) error {
				if err := ev.Wait(t); err != nil {
					return err
				}
				woke = append(woke, c.n)
				return nil
			}))
		}
		if err := t.Wait(7); err != nil {
			return err
		}
		ev.Set()
		for _, w := range ws {
			if err := t.Join(w); err != nil {
				return err
			}
		}
		// sticky
		return ev.Wait(t)
	})
	require.NoError(t, err)
	assert.True(t, ev.IsSet())
	assert.Equal(t, []int{7, 7}, woke)
}
