// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"github.com/pkg/errors"
)

// Constant input pin names.
//
var (
	True  = "true"
	False = "false"
)

const (
	cstFalse = iota
	cstTrue
	cstCount
)

// A Socket maps a part's pin names to pin numbers in a circuit.
//
type Socket struct {
	m  map[string]int
	c  *Circuit
	nl *netlist
}

func newSocket(c *Circuit, nl *netlist, m map[string]int) *Socket {
	if m == nil {
		m = make(map[string]int)
	}
	m[False] = cstFalse
	m[True] = cstTrue
	return &Socket{m: m, c: c, nl: nl}
}

// wireFor returns the wire name connected to pin, or "" if pin is not
// connected.
//
func wireFor(p Part, pin string) string {
	bus, bit, isBus := busName(pin)
	for _, cn := range p.Conns {
		if cn.PP == pin {
			return cn.Ext
		}
		if isBus && cn.PP == bus {
			if cn.Ext == True || cn.Ext == False {
				return cn.Ext
			}
			return BusPinName(cn.Ext, bit)
		}
	}
	return ""
}

func checkConns(p Part) error {
	pins := make(map[string]bool, len(p.Inputs)+len(p.Outputs))
	for _, n := range p.Inputs {
		pins[n] = true
		if bus, _, ok := busName(n); ok {
			pins[bus] = true
		}
	}
	for _, n := range p.Outputs {
		pins[n] = true
		if bus, _, ok := busName(n); ok {
			pins[bus] = true
		}
	}
	for _, cn := range p.Conns {
		if !pins[cn.PP] {
			return errors.New("invalid pin name " + cn.PP + " for part " + p.Name)
		}
	}
	return nil
}

// Mount mounts the given part and allocates new wires as necessary
// (according to the pin mappings in p.Conns).
//
func (s *Socket) Mount(p Part) ([]Component, error) {
	if p.PartSpec == nil || p.Mount == nil {
		return nil, errors.New("part has no mount function")
	}
	if err := checkConns(p); err != nil {
		return nil, err
	}
	sub := newSocket(s.c, s.nl, nil)
	for _, in := range p.Inputs {
		w := wireFor(p, in)
		if w == "" {
			// wire unknown pins to False.
			sub.m[in] = cstFalse
			continue
		}
		sub.m[in] = s.PinOrNew(w)
		s.nl.read(w, p.Name+"."+in)
	}
	for _, out := range p.Outputs {
		w := wireFor(p, out)
		if w == "" || w == False {
			// unconnected or grounded outputs write to a private wire.
			sub.m[out] = s.c.allocPin()
			continue
		}
		if err := s.nl.drive(w, p.Name+"."+out); err != nil {
			return nil, errors.Wrap(err, p.Name)
		}
		sub.m[out] = s.PinOrNew(w)
	}
	return p.Mount(sub), nil
}

// Pin returns the pin number allocated to the given pin name.
// This function panics if the pin does not exist.
//
func (s *Socket) Pin(name string) int {
	n, ok := s.m[name]
	if !ok {
		panic("pin " + name + " does not exist")
	}
	return n
}

// PinOrNew returns the pin number allocated to the given pin name.
// If no such pin exists a new one is allocated.
//
func (s *Socket) PinOrNew(name string) int {
	n, ok := s.m[name]
	if !ok {
		n = s.c.allocPin()
		s.m[name] = n
	}
	return n
}

// Bus returns the pin numbers allocated to the given bus name.
// This function panics if the bus does not exist.
//
func (s *Socket) Bus(name string) []int {
	out := make([]int, 0)
	i := 0
	for {
		n, ok := s.m[BusPinName(name, i)]
		if !ok {
			break
		}
		out = append(out, n)
		i++
	}
	if len(out) == 0 {
		panic("bus " + name + " does not exist")
	}
	return out
}

// Preset sets the initial state of pin n, before the first simulation step.
//
func (s *Socket) Preset(n int, v bool) {
	if n == cstFalse || n == cstTrue {
		return
	}
	s.c.presets[n] = v
}
