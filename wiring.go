// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// A Connection connects a part's pin (PP) to a named wire in the circuit.
//
type Connection struct {
	PP  string
	Ext string
}

// ParseConnections parses a connection configuration like "partPin1=wire1,
// partPin2=wire2" into a []Connection{{"partPin1", "wire1"}, {"partPin2",
// "wire2"}}.
//
// Bus ranges are expanded one to one: "out[0..3]=x[4..7]" connects out[0] to
// x[4], out[1] to x[5], and so on. A bus pin connected to a plain wire name
// connects every bus element to the element of the same index: "data=rx"
// connects data[i] to rx[i].
//
func ParseConnections(c string) (conns []Connection, err error) {
	c = strings.TrimSpace(c)
	if c == "" {
		return nil, nil
	}
	for _, s := range strings.Split(c, ",") {
		s = strings.TrimSpace(s)
		i := strings.IndexRune(s, '=')
		if i < 0 {
			return nil, errors.Errorf("in %q: expected \"pin=wire\", got %q", c, s)
		}
		k, v := strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:])
		if k == "" || v == "" {
			return nil, errors.New("invalid pin mapping " + k + ":" + v)
		}
		ks, err := expandRange(k)
		if err != nil {
			return nil, errors.Wrap(err, "expand key "+k)
		}
		vs, err := expandRange(v)
		if err != nil {
			return nil, errors.Wrap(err, "expand value "+v)
		}
		switch {
		case len(ks) == len(vs):
			for i := range ks {
				conns = append(conns, Connection{ks[i], vs[i]})
			}
		case len(vs) == 1:
			// many to one
			for _, k := range ks {
				conns = append(conns, Connection{k, vs[0]})
			}
		default:
			return nil, errors.New("pin count mismatch in pin mapping: " + k + ":" + v)
		}
	}
	return conns, nil
}

func expandRange(name string) ([]string, error) {
	i := strings.IndexRune(name, '[')
	if i < 0 {
		return []string{name}, nil
	}
	bus := name[:i]
	if bus == "" {
		return nil, errors.New("empty bus name")
	}
	n := name[i+1:]
	i = strings.Index(n, "..")
	if i < 0 {
		return []string{name}, nil
	}
	start, err := strconv.Atoi(n[:i])
	if err != nil {
		return nil, errors.Wrap(err, "bus range start")
	}
	n = n[i+2:]
	i = strings.IndexRune(n, ']')
	if i < 0 {
		return nil, errors.New("no terminating ] in bus range")
	}
	end, err := strconv.Atoi(n[:i])
	if err != nil {
		return nil, errors.Wrap(err, "bus range end")
	}
	if end < start {
		return nil, errors.Errorf("invalid bus range %d..%d", start, end)
	}
	r := make([]string, 0, end-start+1)
	for i := start; i <= end; i++ {
		r = append(r, BusPinName(bus, i))
	}
	return r, nil
}

// BusPinName returns the pin name for the n-th bit of the named bus.
//
func BusPinName(bus string, bit int) string {
	return bus + "[" + strconv.Itoa(bit) + "]"
}

// IO expands a pin list description like "rst, tick, payload[8]" into
// individual pin names: []string{"rst", "tick", "payload[0]", ... "payload[7]"}.
// It panics on a malformed bus size.
//
func IO(spec string) []string {
	var out []string
	for _, n := range strings.Split(spec, ",") {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		i := strings.IndexRune(n, '[')
		if i < 0 {
			out = append(out, n)
			continue
		}
		j := strings.IndexRune(n, ']')
		if j < i {
			panic("missing close bracket in " + n)
		}
		size, err := strconv.Atoi(n[i+1 : j])
		if err != nil || size <= 0 {
			panic("invalid bus size in " + n)
		}
		for b := 0; b < size; b++ {
			out = append(out, BusPinName(n[:i], b))
		}
	}
	return out
}

// busName returns the bus name and bit index of a bus pin name like "data[3]".
//
func busName(pin string) (string, int, bool) {
	i := strings.IndexRune(pin, '[')
	if i <= 0 || !strings.HasSuffix(pin, "]") {
		return "", 0, false
	}
	bit, err := strconv.Atoi(pin[i+1 : len(pin)-1])
	if err != nil {
		return "", 0, false
	}
	return pin[:i], bit, true
}

// netlist tracks which part drives and which parts read each named wire.
//
type netlist struct {
	drivers map[string]string
	readers map[string][]string
}

func newNetlist() *netlist {
	return &netlist{
		drivers: make(map[string]string),
		readers: make(map[string][]string),
	}
}

func (nl *netlist) drive(wire, part string) error {
	switch wire {
	case False:
		return nil
	case True:
		return errors.New("output pin connected to constant \"true\" input")
	}
	if prev, ok := nl.drivers[wire]; ok {
		return errors.Errorf("wire %s driven by both %s and %s", wire, prev, part)
	}
	nl.drivers[wire] = part
	return nil
}

func (nl *netlist) read(wire, part string) {
	if wire == False || wire == True {
		return
	}
	nl.readers[wire] = append(nl.readers[wire], part)
}

// check reports wires that are read but never driven.
//
func (nl *netlist) check() error {
	var names []string
	for w := range nl.readers {
		if _, ok := nl.drivers[w]; !ok {
			names = append(names, w)
		}
	}
	if len(names) == 0 {
		return nil
	}
	sort.Strings(names)
	return errors.Errorf("wire %s read by %s not connected to any output", names[0], nl.readers[names[0]][0])
}
