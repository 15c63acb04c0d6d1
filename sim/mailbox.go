// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sim

// A Mailbox is a FIFO queue between tasks.
//
type Mailbox[T any] struct {
	s       *Scheduler
	bound   int
	items   []T
	getters []waiter
	putters []waiter
}

// NewMailbox returns a new mailbox holding at most bound items. A bound of 0
// means unbounded.
//
func NewMailbox[T any](s *Scheduler, bound int) *Mailbox[T] {
	return &Mailbox[T]{s: s, bound: bound}
}

// Len returns the number of queued items.
//
func (m *Mailbox[T]) Len() int { return len(m.items) }

// Put appends v to the mailbox, suspending t while the mailbox is full.
//
func (m *Mailbox[T]) Put(t *Task, v T) error {
	for m.bound > 0 && len(m.items) >= m.bound {
		if t.stopped {
			return ErrStopped
		}
		t.seq++
		m.putters = append(m.putters, waiter{t, t.seq})
		if err := t.block(); err != nil {
			return err
		}
	}
	if t.stopped {
		return ErrStopped
	}
	m.items = append(m.items, v)
	m.getters = m.s.wakeFirst(m.getters)
	return nil
}

// Get removes and returns the oldest item, suspending t while the mailbox is
// empty.
//
func (m *Mailbox[T]) Get(t *Task) (T, error) {
	var zero T
	for len(m.items) == 0 {
		if t.stopped {
			return zero, ErrStopped
		}
		t.seq++
		m.getters = append(m.getters, waiter{t, t.seq})
		if err := t.block(); err != nil {
			return zero, err
		}
	}
	if t.stopped {
		return zero, ErrStopped
	}
	v := m.items[0]
	m.items[0] = zero
	m.items = m.items[1:]
	m.putters = m.s.wakeFirst(m.putters)
	return v, nil
}
