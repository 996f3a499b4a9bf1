// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package bus provides fire-and-forget message passing between the
// foreground controller and the background scheduler.
//
// The two sides never share state; every interaction is a typed message with
// a JSON payload. Sends are non-blocking: when a channel is full the message
// is dropped and a warning is logged. Neither side may assume delivery, and
// neither side waits for a reply.
//
// # Usage
//
//	broker := bus.NewBroker()
//
//	// foreground -> background
//	broker.Send(bus.MustMessage(bus.TypeStartTimer, bus.StartTimer{
//	    ID: id, Duration: 300, Name: "tea",
//	}))
//
//	// background -> all foreground subscribers
//	ch := broker.Subscribe()
//	defer broker.Unsubscribe(ch)
//	broker.Broadcast(bus.MustMessage(bus.TypeTimerUpdate, bus.TimerUpdate{
//	    ID: id, Remaining: 299,
//	}))
package bus
