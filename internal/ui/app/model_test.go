// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zobo-ai/zobo-tui/internal/bus"
	"github.com/zobo-ai/zobo-tui/internal/clock"
	"github.com/zobo-ai/zobo-tui/internal/config"
	"github.com/zobo-ai/zobo-tui/internal/model"
	"github.com/zobo-ai/zobo-tui/internal/notify"
	"github.com/zobo-ai/zobo-tui/internal/storage"
	"github.com/zobo-ai/zobo-tui/internal/voice"
)

type memStore struct {
	snap *clock.Snapshot
}

func (s *memStore) Save(snap *clock.Snapshot) error { s.snap = snap; return nil }
func (s *memStore) Load() (*clock.Snapshot, error) {
	if s.snap == nil {
		return &clock.Snapshot{}, nil
	}
	return s.snap, nil
}

type recordedAction struct {
	tag    string
	action notify.Action
}

type fakeActions struct {
	calls []recordedAction
}

func (f *fakeActions) HandleAction(tag string, action notify.Action) {
	f.calls = append(f.calls, recordedAction{tag, action})
}

func newTestModel(t *testing.T, mutate func(*Deps)) Model {
	t.Helper()
	deps := Deps{
		Config: config.Default(),
	}
	if mutate != nil {
		mutate(&deps)
	}
	return New(deps)
}

func TestNewStartsEmptyConversation(t *testing.T) {
	m := newTestModel(t, nil)
	if m.Conversation() == nil {
		t.Fatal("expected a conversation")
	}
	if !m.Conversation().IsEmpty() {
		t.Error("expected an empty conversation")
	}
}

func TestNewResumesConversation(t *testing.T) {
	conv := model.NewConversation()
	conv.AddUserMessage("earlier")
	m := newTestModel(t, func(d *Deps) { d.Conversation = conv })
	if m.Conversation() != conv {
		t.Error("expected the passed-in conversation to be active")
	}
}

func TestNewRestoresDraft(t *testing.T) {
	drafts := storage.NewDraftStoreWithPath(filepath.Join(t.TempDir(), "draft.json"))
	if err := drafts.Save(&model.Draft{Text: "half-typed thought"}); err != nil {
		t.Fatal(err)
	}

	m := newTestModel(t, func(d *Deps) { d.Drafts = drafts })
	if got := m.input.Value(); got != "half-typed thought" {
		t.Errorf("input = %q, want restored draft", got)
	}
}

func TestSubmitWithoutBackendRepliesInline(t *testing.T) {
	m := newTestModel(t, nil)
	m.input.SetValue("hello there")

	updated, _ := m.handleSubmit()
	got := updated.(Model)

	msgs := got.Conversation().Messages
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want user + reply", len(msgs))
	}
	if msgs[0].Role != model.RoleUser || msgs[0].Content != "hello there" {
		t.Errorf("first message = %+v", msgs[0])
	}
	if msgs[1].Role != model.RoleAssistant {
		t.Errorf("second message role = %s, want assistant", msgs[1].Role)
	}
	if got.input.Value() != "" {
		t.Error("input should be cleared after submit")
	}
}

func TestSubmitEmptyIsIgnored(t *testing.T) {
	m := newTestModel(t, nil)
	m.input.SetValue("   ")

	updated, _ := m.handleSubmit()
	got := updated.(Model)
	if !got.Conversation().IsEmpty() {
		t.Error("whitespace-only input should not produce messages")
	}
}

func TestSubmitStripsWakeword(t *testing.T) {
	m := newTestModel(t, func(d *Deps) {
		d.Detector = voice.NewDetector([]string{"hey zobo"})
	})
	m.input.SetValue("hey zobo, what time is it")

	updated, _ := m.handleSubmit()
	got := updated.(Model)

	msgs := got.Conversation().Messages
	if len(msgs) == 0 {
		t.Fatal("expected a message")
	}
	if !msgs[0].Voice {
		t.Error("wakeword-prefixed input should be marked as voice")
	}
	if msgs[0].Content != "what time is it" {
		t.Errorf("content = %q, want wakeword stripped", msgs[0].Content)
	}
}

func TestSubmitDispatchesVoiceCommand(t *testing.T) {
	broker := bus.NewBroker()
	ctl := clock.NewController(&memStore{}, broker)
	m := newTestModel(t, func(d *Deps) {
		d.Controller = ctl
		d.Dispatcher = voice.NewDispatcher(ctl, nil)
	})
	m.input.SetValue("set timer for 5 minutes")

	updated, _ := m.handleSubmit()
	got := updated.(Model)

	if n := len(ctl.Timers()); n != 1 {
		t.Fatalf("got %d timers, want 1", n)
	}
	msgs := got.Conversation().Messages
	last := msgs[len(msgs)-1]
	if last.Role != model.RoleAssistant || !strings.Contains(last.Content, "5:00") {
		t.Errorf("reply = %q, want timer confirmation", last.Content)
	}
	if got.waiting {
		t.Error("local commands must not wait on the backend")
	}
}

func TestAssistantReplyClearsWaiting(t *testing.T) {
	m := newTestModel(t, nil)
	m.waiting = true

	updated, _ := m.handleAssistantReply(AssistantReplyMsg{Reply: "hi", Offline: true})
	got := updated.(Model)

	if got.waiting {
		t.Error("waiting should clear on reply")
	}
	if !got.offline {
		t.Error("offline flag should follow the reply")
	}
	last := got.Conversation().LastAssistantMessage()
	if last == nil || last.Content != "hi" {
		t.Errorf("last assistant message = %+v", last)
	}
}

func TestToastExpiryIgnoresStaleSeq(t *testing.T) {
	notifier := notify.NewChannelNotifier(4)
	m := newTestModel(t, func(d *Deps) { d.Notifier = notifier })

	updated, _ := m.handleNotification(NotificationMsg{
		Notification: notify.Notification{Title: "Timer done", Tag: "timer-1"},
	})
	m = updated.(Model)

	stale, _ := m.Update(ToastExpiredMsg{Seq: m.toastSeq - 1})
	if stale.(Model).toast == nil {
		t.Fatal("stale expiry must not dismiss a newer toast")
	}

	fresh, _ := m.Update(ToastExpiredMsg{Seq: m.toastSeq})
	if fresh.(Model).toast != nil {
		t.Error("matching expiry should dismiss the toast")
	}
}

func TestInteractiveToastNeverAutoExpires(t *testing.T) {
	notifier := notify.NewChannelNotifier(4)
	m := newTestModel(t, func(d *Deps) { d.Notifier = notifier })

	updated, _ := m.handleNotification(NotificationMsg{
		Notification: notify.Notification{
			Title:              "Alarm",
			Tag:                "alarm-1",
			RequireInteraction: true,
		},
	})
	m = updated.(Model)

	after, _ := m.Update(ToastExpiredMsg{Seq: m.toastSeq})
	if after.(Model).toast == nil {
		t.Error("interactive toasts only dismiss on user action")
	}
}

func TestDismissToastForwardsAction(t *testing.T) {
	actions := &fakeActions{}
	m := newTestModel(t, func(d *Deps) { d.Actions = actions })

	n := notify.Notification{
		Title:   "Alarm",
		Tag:     "alarm-42",
		Actions: []notify.Action{notify.ActionDismiss, notify.ActionSnooze},
	}
	m.toast = &n

	updated, _ := m.dismissToast(notify.ActionSnooze)
	got := updated.(Model)

	if got.toast != nil {
		t.Error("toast should be cleared")
	}
	if len(actions.calls) != 1 || actions.calls[0].action != notify.ActionSnooze {
		t.Fatalf("actions = %+v, want one snooze", actions.calls)
	}
	if actions.calls[0].tag != "alarm-42" {
		t.Errorf("tag = %q", actions.calls[0].tag)
	}
}

func TestDismissUnofferedActionStillClears(t *testing.T) {
	actions := &fakeActions{}
	m := newTestModel(t, func(d *Deps) { d.Actions = actions })

	n := notify.Notification{
		Title:   "Timer done",
		Tag:     "timer-7",
		Actions: []notify.Action{notify.ActionDismiss},
	}
	m.toast = &n

	updated, _ := m.dismissToast(notify.ActionSnooze)
	got := updated.(Model)

	if got.toast != nil {
		t.Error("toast should be cleared")
	}
	if len(actions.calls) != 0 {
		t.Errorf("snooze was not offered, got calls %+v", actions.calls)
	}
}

func TestQuitCommandEmitsQuitMsg(t *testing.T) {
	m := newTestModel(t, nil)
	_, cmd := m.flushAndQuit()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestQuitFlushesDraft(t *testing.T) {
	drafts := storage.NewDraftStoreWithPath(filepath.Join(t.TempDir(), "draft.json"))
	m := newTestModel(t, func(d *Deps) { d.Drafts = drafts })
	m.input.SetValue("unsent")

	m.flushAndQuit()

	saved, err := drafts.Load()
	if err != nil {
		t.Fatal(err)
	}
	if saved.Text != "unsent" {
		t.Errorf("saved draft = %q, want %q", saved.Text, "unsent")
	}
}

func TestViewRendersWithoutController(t *testing.T) {
	m := newTestModel(t, nil)
	resized, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	out := resized.(Model).View()
	if out == "" {
		t.Fatal("expected non-empty view")
	}
	if !strings.Contains(out, "Zobo") {
		t.Error("expected the header in the view")
	}
}

func TestClockPanelShowsTimer(t *testing.T) {
	broker := bus.NewBroker()
	ctl := clock.NewController(&memStore{}, broker)
	if _, err := ctl.StartTimer(0, 5, 0, "Tea"); err != nil {
		t.Fatal(err)
	}

	m := newTestModel(t, func(d *Deps) { d.Controller = ctl })
	resized, _ := m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	out := resized.(Model).View()
	if !strings.Contains(out, "Tea") {
		t.Error("expected the timer name in the clock panel")
	}
}
