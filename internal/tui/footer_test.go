package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tuicards/internal/app"
	"github.com/verte-zerg/tuicards/internal/deck"
	"github.com/verte-zerg/tuicards/internal/logging"
)

type memKV struct {
	data    map[string]string
	failSet bool
}

func (m *memKV) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Set(_ context.Context, key, value string) error {
	if m.failSet {
		return errors.New("disk full")
	}
	m.data[key] = value
	return nil
}

var clockStart = time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)

func newTestApp(t *testing.T, kv *memKV) *app.App {
	t.Helper()
	a := app.New(kv, app.WithClock(app.ClockFunc(func() time.Time { return clockStart })), app.WithLogger(logging.Discard()))
	ctx := context.Background()
	if _, err := a.AddTopic(ctx, "Math"); err != nil {
		t.Fatalf("add topic: %v", err)
	}
	for _, q := range []string{"1+1", "2+2"} {
		if _, err := a.AddCard(ctx, "Math", deck.CardInput{Front: q, Back: "even"}); err != nil {
			t.Fatalf("add card: %v", err)
		}
	}
	return a
}

func press(m *Model, key string) {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	m.Update(msg)
}

func TestRenderFooterPerScreen(t *testing.T) {
	m := NewModel(newTestApp(t, &memKV{data: map[string]string{}}), Options{})
	if out := m.renderFooter(); !strings.Contains(out, "enter study") {
		t.Fatalf("picker footer missing hint: %s", out)
	}
	press(m, "enter")
	if out := m.renderFooter(); !containsAll(out, []string{"Progress 0/2", "space reveal"}) {
		t.Fatalf("study footer missing segments: %s", out)
	}
	press(m, " ")
	if out := m.renderFooter(); !containsAll(out, []string{"1/y correct", "2/n incorrect"}) {
		t.Fatalf("revealed footer missing grade keys: %s", out)
	}
}

func TestStudyFlowToSummary(t *testing.T) {
	m := NewModel(newTestApp(t, &memKV{data: map[string]string{}}), Options{Topic: "Math"})
	if m.screen != studyScreen {
		t.Fatalf("expected configured topic to start a session")
	}
	press(m, "y")
	if !strings.Contains(m.status, "not revealed") {
		t.Fatalf("expected reveal error, got %q", m.status)
	}
	press(m, " ")
	press(m, "y")
	press(m, " ")
	press(m, "n")
	if m.screen != doneScreen {
		t.Fatalf("expected summary screen, got %v", m.screen)
	}
	if out := m.renderDone(); !strings.Contains(out, "Reviewed 2 · correct 1 · incorrect 1 · 50%") {
		t.Fatalf("unexpected summary: %s", out)
	}
	press(m, "enter")
	if m.screen != pickScreen {
		t.Fatalf("expected picker after summary")
	}
}

func TestPersistenceWarningInFooter(t *testing.T) {
	kv := &memKV{data: map[string]string{}}
	m := NewModel(newTestApp(t, kv), Options{Topic: "Math"})
	kv.failSet = true
	press(m, " ")
	press(m, "n")
	if !strings.Contains(m.renderFooter(), "failed to save") {
		t.Fatalf("expected persistence warning in footer")
	}
	if m.app.Snapshot().Index != 1 {
		t.Fatalf("session should advance despite save failure")
	}
}

func TestReminderTick(t *testing.T) {
	m := NewModel(newTestApp(t, &memKV{data: map[string]string{}}), Options{Reminder: true, Interval: time.Hour})
	if m.Init() == nil {
		t.Fatalf("expected reminder tick command")
	}
	m.Update(reminderTickMsg(clockStart.Add(30 * time.Minute)))
	if m.reminder.Visible() {
		t.Fatalf("reminder fired too early")
	}
	m.Update(reminderTickMsg(clockStart.Add(time.Hour)))
	if !m.reminder.Visible() {
		t.Fatalf("expected reminder after interval")
	}
	press(m, "enter")
	if m.reminder.Visible() {
		t.Fatalf("starting a session should hide the reminder")
	}
}

func TestCardMeta(t *testing.T) {
	m := NewModel(newTestApp(t, &memKV{data: map[string]string{}}), Options{Topic: "Math"})
	card := m.app.Snapshot().Current.Card
	if got := cardMeta(card); !strings.Contains(got, "never studied") {
		t.Fatalf("unexpected meta %q", got)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
