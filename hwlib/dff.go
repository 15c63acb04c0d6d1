// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import hwsim "github.com/db47h/uartsim"

// DFF returns a data flip flop clocked by the simulation step. Its output
// is initialized to init before the first step.
//
//	Inputs: in
//	Outputs: out
//	Function: out(t) = in(t-1) // where t is the current step.
//
func DFF(w string, init bool) hwsim.Part {
	return (&hwsim.PartSpec{
		Name:    "DFF",
		Inputs:  []string{pIn},
		Outputs: []string{pOut},
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			in, out := s.Pin(pIn), s.Pin(pOut)
			s.Preset(out, init)
			return []hwsim.Component{
				func(c *hwsim.Circuit) {
					c.Set(out, c.Get(in))
				}}
		}}).NewPart(w)
}
