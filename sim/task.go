// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sim

import (
	"github.com/pkg/errors"
)

// A Task is a unit of cooperative execution. Its methods must only be called
// from the task's own goroutine, except for Name.
//
type Task struct {
	name string
	s    *Scheduler
	wake chan struct{}

	seq     uint64 // incremented on every blocking call
	blocked bool
	werr    error
	stopped bool
	done    bool
	err     error
	joiners []waiter
}

func (t *Task) run(fn TaskFunc) {
	<-t.wake
	defer func() {
		if r := recover(); r != nil {
			t.err = errors.Errorf("task %s panicked: %v", t.name, r)
		}
		t.done = true
		t.s.exit(t)
		t.s.back <- struct{}{}
	}()
	t.err = fn(t)
}

// block hands the baton back to the scheduler until another party wakes t.
func (t *Task) block() error {
	t.blocked = true
	t.s.back <- struct{}{}
	<-t.wake
	if t.stopped {
		return ErrStopped
	}
	return t.werr
}

// Name returns the task name.
//
func (t *Task) Name() string { return t.name }

// Now returns the current simulated time.
//
func (t *Task) Now() uint64 { return t.s.now }

// Err returns the error returned by a finished task.
//
func (t *Task) Err() error { return t.err }

// Done reports whether the task has returned.
//
func (t *Task) Done() bool { return t.done }

// Fork starts a new task. It first runs once t suspends.
//
func (t *Task) Fork(name string, fn TaskFunc) *Task {
	return t.s.spawn(name, fn)
}

// Wait suspends t for n ticks.
//
func (t *Task) Wait(n uint64) error {
	if t.stopped {
		return ErrStopped
	}
	if n == 0 {
		return nil
	}
	t.seq++
	t.s.timed = append(t.s.timed, timer{waiter: waiter{t, t.seq}, at: t.s.now + n})
	return t.block()
}

// WaitFor suspends t until cond returns true. cond is evaluated at once,
// then after every tick. If timeout is not zero and cond is still false
// after timeout ticks, WaitFor returns ErrTimeout.
//
func (t *Task) WaitFor(cond func() bool, timeout uint64) error {
	if t.stopped {
		return ErrStopped
	}
	if cond() {
		return nil
	}
	t.seq++
	tm := timer{waiter: waiter{t, t.seq}, cond: cond}
	if timeout > 0 {
		tm.at = t.s.now + timeout
	}
	t.s.timed = append(t.s.timed, tm)
	return t.block()
}

// RisingEdge suspends t until sig goes from false to true. Unlike WaitFor,
// a level already high does not satisfy it.
//
func (t *Task) RisingEdge(sig func() bool, timeout uint64) error {
	prev := sig()
	return t.WaitFor(func() bool {
		v := sig()
		r := v && !prev
		prev = v
		return r
	}, timeout)
}

// Cancel stops other: its current and future blocking calls return
// ErrStopped. It does not wait for other to return; use Join for that.
//
func (t *Task) Cancel(other *Task) {
	t.s.cancel(other)
}

// Join suspends t until other returns and returns other's error.
//
func (t *Task) Join(other *Task) error {
	if other == t {
		return errors.New("task " + t.name + " joining itself")
	}
	for !other.done {
		if t.stopped {
			return ErrStopped
		}
		t.seq++
		other.joiners = append(other.joiners, waiter{t, t.seq})
		if err := t.block(); err != nil {
			return err
		}
	}
	return other.err
}
