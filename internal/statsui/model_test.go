package statsui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tuicards/internal/app"
	"github.com/verte-zerg/tuicards/internal/deck"
	"github.com/verte-zerg/tuicards/internal/logging"
	"github.com/verte-zerg/tuicards/internal/model"
)

type memKV map[string]string

func (m memKV) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

func (m memKV) Set(_ context.Context, key, value string) error {
	m[key] = value
	return nil
}

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	a := app.New(memKV{}, app.WithClock(app.ClockFunc(func() time.Time { return now })), app.WithLogger(logging.Discard()))
	ctx := context.Background()
	for _, topic := range []string{"Math", "Art"} {
		if _, err := a.AddTopic(ctx, topic); err != nil {
			t.Fatalf("add topic: %v", err)
		}
		if _, err := a.AddCard(ctx, topic, deck.CardInput{Front: "q", Back: "a"}); err != nil {
			t.Fatalf("add card: %v", err)
		}
	}
	if err := a.StartSession("Math"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := a.Reveal(); err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if err := a.Answer(ctx, model.Correct); err != nil {
		t.Fatalf("answer: %v", err)
	}
	return a
}

func TestOverviewContent(t *testing.T) {
	m := NewModel(newTestApp(t), 0)
	if m.days != DefaultDays {
		t.Fatalf("expected default days, got %d", m.days)
	}
	out := renderOverview(m.report, 100)
	for _, want := range []string{"Reviews", "Accuracy", "100%", "Daily reviews", "2025-03-10", "Most studied: Math"} {
		if !strings.Contains(out, want) {
			t.Fatalf("overview missing %q:\n%s", want, out)
		}
	}
}

func TestRecommendationsTab(t *testing.T) {
	m := NewModel(newTestApp(t), 7)
	out := renderRecommendations(m.recs)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and two rows, got %q", out)
	}
	if !strings.Contains(lines[1], "Art") || !strings.Contains(lines[1], "never studied") {
		t.Fatalf("unstudied topic should rank first: %q", lines[1])
	}
}

func TestTopicTableRows(t *testing.T) {
	m := NewModel(newTestApp(t), 7)
	_, rows := buildTopicTableData(m.report.Topics)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Math" || rows[0][5] != "100%" {
		t.Fatalf("unexpected Math row %v", rows[0])
	}
	if rows[1][5] != "-" {
		t.Fatalf("expected no accuracy for Art, got %v", rows[1])
	}
}

func TestTabsAndDays(t *testing.T) {
	m := NewModel(newTestApp(t), 7)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.activeTab != tabTopics {
		t.Fatalf("expected wrap to last tab, got %d", m.activeTab)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("=")})
	if m.days != 14 || len(m.report.Daily) != 14 {
		t.Fatalf("expected 14 days, got %d/%d", m.days, len(m.report.Daily))
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("-")})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("-")})
	if m.days != 7 {
		t.Fatalf("expected floor of 7 days, got %d", m.days)
	}
	view := m.View()
	if got := len(strings.Split(view, "\n")); got != 30 {
		t.Fatalf("expected view to fill 30 lines, got %d", got)
	}
}

func TestWindowSteps(t *testing.T) {
	if nextWindow(90) != 90 || nextWindow(10) != 14 {
		t.Fatalf("unexpected nextWindow")
	}
	if prevWindow(30) != 14 || prevWindow(3) != 7 {
		t.Fatalf("unexpected prevWindow")
	}
}

func TestFitLines(t *testing.T) {
	out := fitLines("ab\ncd\nef", 4, 2)
	if out != "ab  \ncd  " {
		t.Fatalf("unexpected fitLines output %q", out)
	}
	if truncateLine("abcdefgh", 5) != "ab..." {
		t.Fatalf("unexpected truncation")
	}
}
