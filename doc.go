// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package hwsim provides a naive discrete time circuit simulator, used here to
run a UART protocol engine bit by bit.

A circuit is a flat netlist of parts connected by named wires. Each part is
mounted into a Socket that maps its pin names to wire numbers, and returns one
or more Components: closures evaluated once per simulation step.

Wire states are double buffered: components read the state of the previous
step and write the state of the next. Every output is therefore registered,
which makes one Step equivalent to one edge of a system clock.

Sub packages:

	hwlib  reusable gates, flip-flops and I/O probes
	hwtest waveform capture for tests
	uart   baud generator, transmitter, receiver and loopback
	sim    cooperative task scheduler advancing simulated time
	verif  self-checking verification bench

*/
package hwsim
