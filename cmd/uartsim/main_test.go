// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import "testing"

func Test_checkFlags(t *testing.T) {
	td := []struct {
		set map[string]bool
		ok  bool
	}{
		{map[string]bool{}, true},
		{map[string]bool{"fault-frame": true}, true},
		{map[string]bool{"fault-frame": true, "fault-bit": true}, true},
		{map[string]bool{"fault-bit": true}, false},
	}
	for _, d := range td {
		if err := checkFlags(d.set); (err == nil) != d.ok {
			t.Errorf("checkFlags(%v) = %v", d.set, err)
		}
	}
}
