// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package bus

import (
	"testing"
)

func TestSendAndReceive(t *testing.T) {
	b := NewBroker()

	b.Send(MustMessage(TypeStartTimer, StartTimer{ID: "t1", Duration: 300, Name: "tea"}))

	select {
	case msg := <-b.Background():
		if msg.Type != TypeStartTimer {
			t.Errorf("type = %s, want START_TIMER", msg.Type)
		}
		var p StartTimer
		if err := msg.Decode(&p); err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if p.ID != "t1" || p.Duration != 300 || p.Name != "tea" {
			t.Errorf("payload = %+v", p)
		}
	default:
		t.Fatal("no message on background channel")
	}
}

func TestSendDropsWhenFull(t *testing.T) {
	b := NewBroker()

	// Fill the buffer past capacity; none of these may block.
	for i := 0; i < backgroundBuffer+10; i++ {
		b.Send(MustMessage(TypeStopTimer, StopTimer{ID: "x"}))
	}

	if got := len(b.background); got != backgroundBuffer {
		t.Errorf("buffered = %d, want %d", got, backgroundBuffer)
	}
}

func TestBroadcastReachesAllSubscribers(t *testing.T) {
	b := NewBroker()

	a := b.Subscribe()
	c := b.Subscribe()
	defer b.Unsubscribe(a)
	defer b.Unsubscribe(c)

	b.Broadcast(MustMessage(TypeTimerUpdate, TimerUpdate{ID: "t1", Remaining: 42}))

	for _, ch := range []chan Message{a, c} {
		select {
		case msg := <-ch:
			var p TimerUpdate
			if err := msg.Decode(&p); err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if p.Remaining != 42 {
				t.Errorf("remaining = %d, want 42", p.Remaining)
			}
		default:
			t.Fatal("subscriber did not receive broadcast")
		}
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := NewBroker()

	ch := b.Subscribe()
	b.Unsubscribe(ch)

	b.Broadcast(MustMessage(TypePlayAlarmSound, PlayAlarmSound{}))

	select {
	case <-ch:
		t.Error("received broadcast after unsubscribe")
	default:
	}

	if b.SubscriberCount() != 0 {
		t.Errorf("SubscriberCount = %d, want 0", b.SubscriberCount())
	}
}

func TestBroadcastSkipsSlowSubscriber(t *testing.T) {
	b := NewBroker()

	slow := b.Subscribe()
	defer b.Unsubscribe(slow)

	// Overflow the subscriber buffer; broadcasts must not block.
	for i := 0; i < subscriberBuffer+5; i++ {
		b.Broadcast(MustMessage(TypeStopwatchUpdate, StopwatchUpdate{ID: "s1", Elapsed: int64(i)}))
	}

	if got := len(slow); got != subscriberBuffer {
		t.Errorf("buffered = %d, want %d", got, subscriberBuffer)
	}
}

func TestMessageWithoutPayload(t *testing.T) {
	msg := MustMessage(TypeSchedulerReady, nil)
	if msg.Payload != nil {
		t.Errorf("payload = %q, want nil", msg.Payload)
	}

	var p StartTimer
	if err := msg.Decode(&p); err == nil {
		t.Error("Decode of empty payload should fail")
	}
}
