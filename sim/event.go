// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sim

// An Event is a sticky flag: once set, it stays set and every Wait returns
// immediately.
//
type Event struct {
	s       *Scheduler
	set     bool
	waiters []waiter
}

// NewEvent returns a new, unset event.
//
func NewEvent(s *Scheduler) *Event {
	return &Event{s: s}
}

// Set sets the event and wakes all waiting tasks.
//
func (e *Event) Set() {
	if e.set {
		return
	}
	e.set = true
	for _, w := range e.waiters {
		e.s.wakeup(w.t, w.seq, nil)
	}
	e.waiters = nil
}

// IsSet reports whether the event is set.
//
func (e *Event) IsSet() bool { return e.set }

// Wait suspends t until the event is set.
//
func (e *Event) Wait(t *Task) error {
	if t.stopped {
		return ErrStopped
	}
	if e.set {
		return nil
	}
	t.seq++
	e.waiters = append(e.waiters, waiter{t, t.seq})
	return t.block()
}
