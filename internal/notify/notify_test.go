// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package notify

import "testing"

func TestTagRoundTrip(t *testing.T) {
	tests := []struct {
		tag  string
		kind string
		id   string
	}{
		{TimerTag("abc"), "timer", "abc"},
		{AlarmTag("a-1"), "alarm", "a-1"},
		{SplitTag("s9"), "split", "s9"},
	}

	for _, tt := range tests {
		kind, id, ok := ParseTag(tt.tag)
		if !ok {
			t.Fatalf("ParseTag(%q) not ok", tt.tag)
		}
		if kind != tt.kind || id != tt.id {
			t.Errorf("ParseTag(%q) = (%q, %q), want (%q, %q)", tt.tag, kind, id, tt.kind, tt.id)
		}
	}
}

func TestParseTagUnknown(t *testing.T) {
	if _, _, ok := ParseTag("bogus-123"); ok {
		t.Error("unknown tag parsed as ok")
	}
}

func TestChannelNotifierDelivers(t *testing.T) {
	n := NewChannelNotifier(4)

	if err := n.Notify(Notification{Title: "Timer Complete!", Tag: TimerTag("t1")}); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	select {
	case got := <-n.C():
		if got.Title != "Timer Complete!" {
			t.Errorf("title = %q", got.Title)
		}
	default:
		t.Fatal("nothing delivered")
	}
}

func TestChannelNotifierDropsOldest(t *testing.T) {
	n := NewChannelNotifier(2)

	for i, title := range []string{"one", "two", "three"} {
		if err := n.Notify(Notification{Title: title}); err != nil {
			t.Fatalf("Notify %d failed: %v", i, err)
		}
	}

	// "one" was dropped; "two" and "three" remain in order.
	first := <-n.C()
	second := <-n.C()
	if first.Title != "two" || second.Title != "three" {
		t.Errorf("got %q, %q; want two, three", first.Title, second.Title)
	}
}
