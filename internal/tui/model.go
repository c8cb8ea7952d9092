// Package tui provides the Bubble Tea study interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuicards/internal/app"
	"github.com/verte-zerg/tuicards/internal/model"
	"github.com/verte-zerg/tuicards/internal/reminder"
	"github.com/verte-zerg/tuicards/internal/session"
	"github.com/verte-zerg/tuicards/internal/stats"
)

type screen int

const (
	pickScreen screen = iota
	studyScreen
	doneScreen
)

// Options configures the study screen.
type Options struct {
	Topic        string
	Reminder     bool
	Interval     time.Duration
	PollInterval time.Duration
}

type reminderTickMsg time.Time

// Model implements the Bubble Tea study UI.
type Model struct {
	app      *app.App
	opts     Options
	reminder *reminder.Reminder

	width  int
	height int

	screen  screen
	topics  []string
	cursor  int
	summary session.Summary
	status  string
	warning string
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	frontStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	backStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	reminderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#1F1F1F")).Background(lipgloss.Color("#C89A3A")).Padding(0, 1)
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs a study TUI model. If opts.Topic names an existing
// topic the session starts immediately.
func NewModel(a *app.App, opts Options) *Model {
	if opts.PollInterval <= 0 {
		opts.PollInterval = reminder.DefaultPollInterval
	}
	m := &Model{
		app:      a,
		opts:     opts,
		reminder: reminder.New(opts.Interval, a.Now()),
		topics:   a.Topics().Names(),
	}
	if opts.Topic != "" {
		for i, name := range m.topics {
			if name == opts.Topic {
				m.cursor = i
				m.start()
				break
			}
		}
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if !m.opts.Reminder {
		return nil
	}
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.opts.PollInterval, func(t time.Time) tea.Msg {
		return reminderTickMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case reminderTickMsg:
		m.reminder.Check(time.Time(msg), m.app.Studying())
		return m, m.tick()
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m, m.handleKey(msg.String())
	default:
		return m, nil
	}
}

func (m *Model) handleKey(key string) tea.Cmd {
	if key == "x" && m.reminder.Visible() {
		m.reminder.Dismiss()
		return nil
	}
	switch m.screen {
	case pickScreen:
		return m.handlePickKey(key)
	case studyScreen:
		m.handleStudyKey(key)
	case doneScreen:
		switch key {
		case "enter", "esc", " ":
			m.screen = pickScreen
		case "q":
			return tea.Quit
		}
	}
	return nil
}

func (m *Model) handlePickKey(key string) tea.Cmd {
	switch key {
	case "q", "esc":
		return tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.topics)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.start()
	}
	return nil
}

func (m *Model) handleStudyKey(key string) {
	m.status = ""
	var err error
	switch key {
	case "esc", "q":
		m.app.ExitSession()
		m.screen = pickScreen
		return
	case " ", "enter":
		err = m.app.Reveal()
	case "1", "y":
		err = m.answer(model.Correct)
	case "2", "n":
		err = m.answer(model.Incorrect)
	case "right", "l":
		err = m.app.Next()
	case "left", "h":
		err = m.app.Previous()
	default:
		return
	}
	m.report(err)
}

func (m *Model) start() {
	if len(m.topics) == 0 {
		return
	}
	m.status = ""
	if err := m.app.StartSession(m.topics[m.cursor]); err != nil {
		m.report(err)
		return
	}
	m.reminder.Dismiss()
	m.screen = studyScreen
}

func (m *Model) answer(outcome model.Outcome) error {
	err := m.app.Answer(context.Background(), outcome)
	var perr *model.PersistenceError
	if err != nil && !errors.As(err, &perr) {
		return err
	}
	snap := m.app.Snapshot()
	if snap.State == session.Completed {
		m.summary = snap.Summary
		m.app.ExitSession()
		m.screen = doneScreen
	}
	return err
}

func (m *Model) report(err error) {
	if err == nil {
		return
	}
	var perr *model.PersistenceError
	if errors.As(err, &perr) {
		m.warning = err.Error()
		return
	}
	m.status = err.Error()
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	switch m.screen {
	case studyScreen:
		content = m.renderCard()
	case doneScreen:
		content = m.renderDone()
	default:
		content = m.renderPicker()
	}
	if m.status != "" {
		content += "\n\n" + warningStyle.Render(m.status)
	}
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n" + footer
	}
	body := content
	if m.reminder.Visible() {
		body = reminderStyle.Render("Time to study! Pick a topic to review. (x to dismiss)") + "\n\n" + body
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	}
	bodyHeight := m.height - 1
	placed := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, body)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return placed + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	w := int(float64(m.width) * 0.70)
	if w < 1 {
		return 0
	}
	return w
}

func (m *Model) renderPicker() string {
	if len(m.topics) == 0 {
		return pendingStyle.Render("No topics yet. Add one with: tuicards topic add <name>")
	}
	lines := []string{titleStyle.Render("Choose a topic"), ""}
	collection := m.app.Topics()
	for i, name := range m.topics {
		cards, _ := collection.Cards(name)
		line := fmt.Sprintf("%s (%d cards)", name, len(cards))
		if i == m.cursor {
			lines = append(lines, selectedStyle.Render("> "+line))
		} else {
			lines = append(lines, pendingStyle.Render("  "+line))
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderCard() string {
	snap := m.app.Snapshot()
	card := snap.Current.Card
	width := m.contentWidth()
	header := fmt.Sprintf("%s · card %d/%d · #%s", snap.Topic, snap.Index+1, snap.Len, card.Number.String())
	lines := []string{titleStyle.Render(header), ""}
	for _, l := range wrapText(card.Front, width) {
		lines = append(lines, frontStyle.Render(l))
	}
	lines = append(lines, "")
	if snap.Revealed {
		for _, l := range wrapText(card.Back, width) {
			lines = append(lines, backStyle.Render(l))
		}
	} else {
		lines = append(lines, pendingStyle.Render("(space to reveal)"))
	}
	lines = append(lines, "", pendingStyle.Render(cardMeta(card)))
	return strings.Join(lines, "\n")
}

func cardMeta(card model.Card) string {
	seen := "never studied"
	if card.Studied() {
		seen = "last studied " + card.LastStudied.Format("2006-01-02 15:04")
	}
	return fmt.Sprintf("difficulty %d · %d✓ %d✗ · %s", card.Difficulty, card.CorrectCount, card.IncorrectCount, seen)
}

func (m *Model) renderDone() string {
	s := m.summary
	lines := []string{
		titleStyle.Render("Session complete"),
		"",
		fmt.Sprintf("Reviewed %d · correct %d · incorrect %d · %d%%", s.Reviewed, s.Correct, s.Incorrect, stats.Percentage(s.Correct, s.Reviewed)),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	var segments []string
	switch m.screen {
	case studyScreen:
		snap := m.app.Snapshot()
		segments = append(segments, fmt.Sprintf("Progress %d/%d", snap.Summary.Reviewed, snap.Len))
		if snap.Revealed {
			segments = append(segments, "1/y correct", "2/n incorrect")
		} else {
			segments = append(segments, "space reveal", "←/→ browse")
		}
		segments = append(segments, "esc topics")
	case doneScreen:
		segments = append(segments, "enter topics", "q quit")
	default:
		segments = append(segments, "↑/↓ select", "enter study", "q quit")
	}
	footer := footerStyle.Render(strings.Join(segments, "  "))
	if m.warning != "" {
		footer += "  " + warningStyle.Render(m.warning)
	}
	return footer
}
