// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package sim implements a cooperative task scheduler that advances a
// discrete time base.
//
// Tasks run one at a time, each on its own goroutine, passing a single baton
// back and forth with the scheduler. Simulated time only advances, through
// Stepper.Step, once every live task is suspended and at least one of them
// waits on time. Tasks woken on the same tick resume in the order they were
// suspended.
//
package sim

import (
	"github.com/pkg/errors"
)

var (
	// ErrTimeout is returned by WaitFor when its timeout expires.
	ErrTimeout = errors.New("timeout")
	// ErrStopped is returned by blocking calls of a cancelled task.
	ErrStopped = errors.New("task stopped")
	// ErrDeadlock is returned by Run when every task is blocked and none of
	// them waits on time.
	ErrDeadlock = errors.New("deadlock: all tasks blocked")
)

// A Stepper advances simulated time by one tick.
//
type Stepper interface {
	Step()
}

// A TaskFunc is the body of a task.
//
type TaskFunc func(t *Task) error

// Scheduler runs tasks against a Stepper.
//
type Scheduler struct {
	st    Stepper
	now   uint64
	ready []*Task
	timed []timer
	live  []*Task
	back  chan struct{}
}

// New returns a new scheduler advancing st.
//
func New(st Stepper) *Scheduler {
	return &Scheduler{st: st, back: make(chan struct{})}
}

// Now returns the number of ticks elapsed since the scheduler was created.
//
func (s *Scheduler) Now() uint64 { return s.now }

// Run runs fn as the main task and returns when it does. Tasks still alive
// at that point are cancelled and run until they return.
//
// If all tasks block and none waits on time, Run cancels every task and
// returns ErrDeadlock.
//
func (s *Scheduler) Run(name string, fn TaskFunc) error {
	main := s.spawn(name, fn)
	for !main.done {
		s.drain()
		if main.done {
			break
		}
		if !s.prune() {
			s.stopAll()
			return ErrDeadlock
		}
		s.st.Step()
		s.now++
		s.fire()
	}
	s.stopAll()
	return main.err
}

// drain resumes runnable tasks until none is left.
func (s *Scheduler) drain() {
	for len(s.ready) > 0 {
		t := s.ready[0]
		s.ready = s.ready[1:]
		t.wake <- struct{}{}
		<-s.back
	}
}

// fire wakes the time waiters that are due, keeping the others in order.
func (s *Scheduler) fire() {
	keep := s.timed[:0]
	for _, tm := range s.timed {
		if !tm.valid() {
			continue
		}
		switch {
		case tm.cond != nil && tm.cond():
			s.wakeup(tm.t, tm.seq, nil)
		case tm.at > 0 && s.now >= tm.at:
			var err error
			if tm.cond != nil {
				err = ErrTimeout
			}
			s.wakeup(tm.t, tm.seq, err)
		default:
			keep = append(keep, tm)
		}
	}
	for i := len(keep); i < len(s.timed); i++ {
		s.timed[i] = timer{}
	}
	s.timed = keep
}

// prune drops stale time waiters and reports whether any is left.
func (s *Scheduler) prune() bool {
	keep := s.timed[:0]
	for _, tm := range s.timed {
		if tm.valid() {
			keep = append(keep, tm)
		}
	}
	for i := len(keep); i < len(s.timed); i++ {
		s.timed[i] = timer{}
	}
	s.timed = keep
	return len(keep) > 0
}

func (s *Scheduler) stopAll() {
	for {
		for _, t := range s.live {
			s.cancel(t)
		}
		if len(s.ready) == 0 {
			break
		}
		s.drain()
	}
	s.timed = nil
}

func (s *Scheduler) spawn(name string, fn TaskFunc) *Task {
	t := &Task{name: name, s: s, wake: make(chan struct{})}
	s.live = append(s.live, t)
	s.ready = append(s.ready, t)
	go t.run(fn)
	return t
}

func (s *Scheduler) exit(t *Task) {
	for i, l := range s.live {
		if l == t {
			s.live = append(s.live[:i], s.live[i+1:]...)
			break
		}
	}
	for _, w := range t.joiners {
		s.wakeup(w.t, w.seq, nil)
	}
	t.joiners = nil
}

// wakeup makes t runnable if it is still blocked in the wait identified by
// seq.
func (s *Scheduler) wakeup(t *Task, seq uint64, err error) bool {
	if !t.blocked || t.seq != seq {
		return false
	}
	t.blocked = false
	t.werr = err
	s.ready = append(s.ready, t)
	return true
}

func (s *Scheduler) cancel(t *Task) {
	if t.done || t.stopped {
		return
	}
	t.stopped = true
	if t.blocked {
		s.wakeup(t, t.seq, ErrStopped)
	}
}

// waiter identifies one blocking call of a task.
type waiter struct {
	t   *Task
	seq uint64
}

func (w waiter) valid() bool { return w.t.blocked && w.t.seq == w.seq }

// wakeFirst wakes the first valid waiter of q and returns the remaining
// queue.
func (s *Scheduler) wakeFirst(q []waiter) []waiter {
	for len(q) > 0 {
		w := q[0]
		q = q[1:]
		if s.wakeup(w.t, w.seq, nil) {
			break
		}
	}
	return q
}

type timer struct {
	waiter
	at   uint64 // 0: no deadline
	cond func() bool
}
