// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package voice

import "testing"

func TestDetect(t *testing.T) {
	d := NewDetector([]string{"hey zobo", "zobo"})

	cases := []struct {
		transcript string
		want       bool
	}{
		{"hey zobo what time is it", true},
		{"Hey Zobo, set a timer", true},
		{"zobo start the stopwatch", true},
		{"okay let's talk about something", false},
		{"", false},
	}
	for _, c := range cases {
		if got := d.Detect(c.transcript); got != c.want {
			t.Errorf("Detect(%q) = %v, want %v", c.transcript, got, c.want)
		}
	}
}

func TestDetectIgnoresBlankWakewords(t *testing.T) {
	d := NewDetector([]string{"", "  "})
	if d.Detect("anything") {
		t.Error("blank wakeword matched everything")
	}
}

func TestStrip(t *testing.T) {
	d := NewDetector([]string{"hey zobo", "zobo"})

	cases := []struct {
		transcript string
		want       string
	}{
		{"hey zobo, set a timer for 10 minutes", "set a timer for 10 minutes"},
		{"hey zobo set alarm at 7 am", "set alarm at 7 am"},
		{"no wakeword here", "no wakeword here"},
	}
	for _, c := range cases {
		if got := d.Strip(c.transcript); got != c.want {
			t.Errorf("Strip(%q) = %q, want %q", c.transcript, got, c.want)
		}
	}
}
