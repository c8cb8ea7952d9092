// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuicards/internal/app"
	"github.com/verte-zerg/tuicards/internal/recommend"
	"github.com/verte-zerg/tuicards/internal/stats"
)

const (
	tabOverview = iota
	tabRecommendations
	tabTopics
)

// DefaultDays is the initial length of the daily activity chart.
const DefaultDays = 7

var dayWindows = []int{7, 14, 30, 90}

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	app  *app.App
	days int

	report stats.Report
	recs   []recommend.Recommendation

	tabs        []string
	activeTab   int
	viewports   []viewport.Model
	topicTable  table.Model
	tableLayout tableLayout

	width  int
	height int
}

type tableLayout struct {
	width  int
	height int
}

// NewModel constructs a stats UI model.
func NewModel(a *app.App, days int) *Model {
	if days <= 0 {
		days = DefaultDays
	}
	m := &Model{
		app:  a,
		days: days,
		tabs: []string{"Overview", "Recommendations", "Topics"},
	}
	m.topicTable = buildTopicTable(nil, 0, 1)
	m.initViewports()
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.days = nextWindow(m.days)
			m.refreshReport()
			return m, nil
		case "-":
			m.days = prevWindow(m.days)
			m.refreshReport()
			return m, nil
		case "g", "home":
			if m.activeTab == tabTopics {
				m.topicTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabTopics {
				m.topicTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabTopics {
				var cmd tea.Cmd
				m.topicTable, cmd = m.topicTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderHelp(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.setTopicTableSize(m.width, vpHeight)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabTopics {
		m.topicTable.Focus()
	} else {
		m.topicTable.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	summary := fmt.Sprintf("Topics: %d  Reviews: %d  Chart: last %d days", len(m.report.Topics), m.report.Overall.Total, m.days)
	return tabs + "\n" + padLines(headerStyle.Render(truncateLine(summary, m.width)), m.width)
}

func (m *Model) renderHelp() string {
	return headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Days: -/=  Quit: q")
}

func (m *Model) renderBody(height int) string {
	if m.activeTab == tabTopics {
		if len(m.report.Topics) == 0 {
			return fitLines("No topics found.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.topicTable.View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) refreshReport() {
	m.report = m.app.Report(m.days)
	m.recs = m.app.Recommend()
	cols, rows := buildTopicTableData(m.report.Topics)
	m.topicTable.SetColumns(cols)
	m.topicTable.SetRows(rows)
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report, width))
	m.viewports[tabRecommendations].SetContent(renderRecommendations(m.recs))
}

func renderOverview(report stats.Report, width int) string {
	cards := renderSummaryCards(report, width)
	var buf bytes.Buffer
	if err := stats.RenderDaily(&buf, report.Daily, width); err != nil {
		return fmt.Sprintf("Failed to render activity: %v", err)
	}
	out := cards + "\n\n" + buf.String()
	if len(report.Busiest) > 0 {
		out += "\nMost studied: " + strings.Join(report.Busiest, ", ")
	}
	return strings.TrimRight(out, "\n")
}

func renderSummaryCards(report stats.Report, width int) string {
	accuracy := "-"
	if report.Overall.Total > 0 {
		accuracy = fmt.Sprintf("%d%%", report.Overall.Percentage)
	}
	difficult := 0
	for _, t := range report.Topics {
		difficult += t.Difficult
	}
	cards := []string{
		metricCard("Reviews", fmt.Sprintf("%d", report.Overall.Total)),
		metricCard("Accuracy", accuracy),
		metricCard("Today", fmt.Sprintf("%d", report.Today.Total)),
		metricCard("Topics", fmt.Sprintf("%d", len(report.Topics))),
		metricCard("Difficult", fmt.Sprintf("%d", difficult)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderRecommendations(recs []recommend.Recommendation) string {
	var buf bytes.Buffer
	if err := recommend.Render(&buf, recs); err != nil {
		return fmt.Sprintf("Failed to render recommendations: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func topicColumns() []table.Column {
	return []table.Column{
		{Title: "Topic", Width: 20},
		{Title: "Cards", Width: 6},
		{Title: "Difficult", Width: 9},
		{Title: "Correct", Width: 7},
		{Title: "Incorrect", Width: 9},
		{Title: "Accuracy", Width: 8},
	}
}

func buildTopicTableData(topics []stats.TopicRow) ([]table.Column, []table.Row) {
	rows := make([]table.Row, 0, len(topics))
	for _, t := range topics {
		acc := "-"
		if t.Summary.Total > 0 {
			acc = fmt.Sprintf("%d%%", t.Summary.Percentage)
		}
		rows = append(rows, table.Row{
			truncateLine(t.Topic, 20),
			fmt.Sprintf("%d", t.Cards),
			fmt.Sprintf("%d", t.Difficult),
			fmt.Sprintf("%d", t.Summary.Correct),
			fmt.Sprintf("%d", t.Summary.Incorrect),
			acc,
		})
	}
	return topicColumns(), rows
}

func buildTopicTable(topics []stats.TopicRow, width, height int) table.Model {
	cols, rows := buildTopicTableData(topics)
	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithHeight(max(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(topicTableStyles())
	return t
}

func (m *Model) setTopicTableSize(width, height int) {
	viewportHeight := max(1, height-1)
	if m.tableLayout.width == width && m.tableLayout.height == viewportHeight {
		return
	}
	m.tableLayout.width = width
	m.tableLayout.height = viewportHeight
	m.topicTable.SetWidth(width)
	m.topicTable.SetHeight(viewportHeight)
}

func topicTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func nextWindow(days int) int {
	for _, w := range dayWindows {
		if w > days {
			return w
		}
	}
	return dayWindows[len(dayWindows)-1]
}

func prevWindow(days int) int {
	for i := len(dayWindows) - 1; i >= 0; i-- {
		if dayWindows[i] < days {
			return dayWindows[i]
		}
	}
	return dayWindows[0]
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
