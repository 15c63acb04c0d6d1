// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtest_test

import (
	"testing"

	hw "github.com/db47h/uartsim"
	hl "github.com/db47h/uartsim/hwlib"
	"github.com/db47h/uartsim/hwtest"
)

func TestTrace(t *testing.T) {
	var in bool
	tr := hwtest.NewTrace("a", "na")
	c, err := hw.NewCircuit(1,
		hl.Input(func() bool { return in })("out=a"),
		hl.Xor("a=a, b=true, out=na"),
		tr.Part(),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	c.Run(3)
	in = true
	c.Run(3)

	if tr.Len() != 6 {
		t.Fatalf("expected 6 rows, got %d", tr.Len())
	}
	// row 0 reads initial wire states, a is visible from row 1.
	if got := tr.String("a", 0); got != "000011" {
		t.Fatalf("bad waveform for a: %s", got)
	}
	if got := tr.String("na", 0); got != "011110" {
		t.Fatalf("bad waveform for na: %s", got)
	}
	if r := tr.Rising("a"); len(r) != 1 || r[0] != 4 {
		t.Fatalf("expected rising edge of a at row 4, got %v", r)
	}
	if e := tr.Edges("na"); len(e) != 2 || e[0] != 1 || e[1] != 5 {
		t.Fatalf("expected edges of na at rows 1 and 5, got %v", e)
	}
}
