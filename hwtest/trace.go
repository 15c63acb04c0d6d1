// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwtest provides utility functions for testing circuits.
//
package hwtest

import (
	"strings"

	hwsim "github.com/db47h/uartsim"
)

// A Trace records the state of a set of wires at every simulation step.
//
// Rows are indexed by step: Rows[i] holds the values read during step i+1,
// that is the values written by other components during step i.
//
type Trace struct {
	names []string
	idx   map[string]int
	Rows  [][]bool
}

// NewTrace returns a Trace for the given wire names.
//
func NewTrace(names ...string) *Trace {
	t := &Trace{names: names, idx: make(map[string]int, len(names))}
	for i, n := range names {
		t.idx[n] = i
	}
	return t
}

// Part returns a part that records the traced wires. Each traced wire is
// connected to the pin of the same name.
//
func (t *Trace) Part() hwsim.Part {
	var b strings.Builder
	for _, n := range t.names {
		if b.Len() > 0 {
			b.WriteRune(',')
		}
		b.WriteString(n)
		b.WriteRune('=')
		b.WriteString(n)
	}
	p := &hwsim.PartSpec{
		Name:   "Trace",
		Inputs: t.names,
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			pins := make([]int, len(t.names))
			for i, n := range t.names {
				pins[i] = s.Pin(n)
			}
			return []hwsim.Component{func(c *hwsim.Circuit) {
				row := make([]bool, len(pins))
				for i, p := range pins {
					row[i] = c.Get(p)
				}
				t.Rows = append(t.Rows, row)
			}}
		}}
	return p.NewPart(b.String())
}

// Len returns the number of recorded steps.
//
func (t *Trace) Len() int { return len(t.Rows) }

// At returns the value of the named wire at the given row.
// It panics if the wire is not traced.
//
func (t *Trace) At(name string, row int) bool {
	i, ok := t.idx[name]
	if !ok {
		panic("wire " + name + " not traced")
	}
	return t.Rows[row][i]
}

// Edges returns the rows at which the named wire changes from its value in
// the previous row. The first row is never an edge.
//
func (t *Trace) Edges(name string) []int {
	var e []int
	for r := 1; r < len(t.Rows); r++ {
		if t.At(name, r) != t.At(name, r-1) {
			e = append(e, r)
		}
	}
	return e
}

// Rising returns the rows at which the named wire goes from false to true.
//
func (t *Trace) Rising(name string) []int {
	var e []int
	for _, r := range t.Edges(name) {
		if t.At(name, r) {
			e = append(e, r)
		}
	}
	return e
}

// String returns the recorded waveform of the named wire as a string of '0'
// and '1' characters, starting at row from.
//
func (t *Trace) String(name string, from int) string {
	var b strings.Builder
	for r := from; r < len(t.Rows); r++ {
		if t.At(name, r) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}
