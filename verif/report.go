// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package verif

import (
	"fmt"
	"strings"
)

// Report is the outcome of a run.
//
type Report struct {
	Expected    int // requested transactions
	Pass        int
	Fail        int
	Total       int
	FrameErrors int
	Mismatches  []Transaction
	Violations  uint // start requests ignored while busy
	TimedOut    bool
	Err         error
	Ticks       uint64
}

// OK reports whether every requested transaction went through and matched.
//
func (r *Report) OK() bool {
	return r.Err == nil && !r.TimedOut && r.Fail == 0 && r.Total == r.Expected
}

func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "pass=%d fail=%d total=%d", r.Pass, r.Fail, r.Total)
	if r.Total != r.Expected {
		fmt.Fprintf(&b, " (of %d)", r.Expected)
	}
	if r.FrameErrors > 0 {
		fmt.Fprintf(&b, " frame_errors=%d", r.FrameErrors)
	}
	if r.Violations > 0 {
		fmt.Fprintf(&b, " violations=%d", r.Violations)
	}
	fmt.Fprintf(&b, " ticks=%d", r.Ticks)
	if r.TimedOut {
		b.WriteString(" TIMEOUT")
	}
	if r.Err != nil {
		fmt.Fprintf(&b, ": %v", r.Err)
	}
	return b.String()
}
