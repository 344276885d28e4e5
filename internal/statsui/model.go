// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/knagaya/kakitori/internal/model"
	"github.com/knagaya/kakitori/internal/stats"
	"github.com/knagaya/kakitori/internal/store"
)

const (
	tabOverview = iota
	tabCharacters
)

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
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
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
	store *store.Store

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	overview  viewport.Model
	charTable table.Model

	width  int
	height int
}

// NewModel constructs a stats UI model.
func NewModel(st *store.Store) *Model {
	m := &Model{
		store: st,
		tabs:  []string{"Overview", "Characters"},
	}
	m.overview = viewport.New(0, 0)
	m.charTable = buildCharTable(nil, 0, 1)
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
		case "g", "home":
			if m.activeTab == tabCharacters {
				m.charTable.GotoTop()
			} else {
				m.overview.GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabCharacters {
				m.charTable.GotoBottom()
			} else {
				m.overview.GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabCharacters {
				var cmd tea.Cmd
				m.charTable, cmd = m.charTable.Update(msg)
				return m, cmd
			}
			var cmd tea.Cmd
			m.overview, cmd = m.overview.Update(msg)
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
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
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
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	m.charTable.SetWidth(m.width)
	m.charTable.SetHeight(maxInt(1, bodyHeight-1))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := (m.activeTab + delta + count) % count
	m.activeTab = next
	if m.activeTab == tabCharacters {
		m.charTable.Focus()
	} else {
		m.charTable.Blur()
	}
}

func (m *Model) renderHeader() string {
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

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderBody() string {
	if m.activeTab == tabCharacters {
		if len(m.report.Records) == 0 {
			return "No practice history found."
		}
		return tableMutedStyle.Render(m.charTable.View())
	}
	return m.overview.View()
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store)
	if err != nil {
		m.errMsg = err.Error()
		m.overview.SetContent("Failed to load stats.")
		return
	}
	m.errMsg = ""
	m.report = report
	width := m.width
	if width <= 0 {
		width = 80
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.charTable = buildCharTable(m.report.Records, width, bodyHeight)
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if m.errMsg != "" {
		m.overview.SetContent("Failed to load stats.")
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.overview.SetContent(renderOverview(m.report.Records, width))
}

func renderOverview(records map[string]model.PerformanceRecord, width int) string {
	if len(records) == 0 {
		return "No practice history found."
	}
	cards := renderSummaryCards(records, width)
	weak := renderWeakest(records)
	var buf bytes.Buffer
	if err := stats.RenderSummary(&buf, records); err != nil {
		return fmt.Sprintf("Failed to render summary: %v", err)
	}
	return strings.TrimRight(cards+"\n\n"+weak+"\n\n"+buf.String(), "\n")
}

func renderSummaryCards(records map[string]model.PerformanceRecord, width int) string {
	var attempts, errors, redraws int
	best := 0
	for _, rec := range records {
		attempts += rec.TotalAttempts
		errors += rec.ShapeErrors + rec.DirectionErrors
		redraws += rec.Redraws
		if rec.ConsecutiveCorrect > best {
			best = rec.ConsecutiveCorrect
		}
	}
	errRate := 0.0
	if attempts > 0 {
		errRate = float64(errors) / float64(attempts)
	}
	cards := []string{
		metricCard("Characters", fmt.Sprintf("%d", len(records))),
		metricCard("Attempts", fmt.Sprintf("%d", attempts)),
		metricCard("Error Rate", fmt.Sprintf("%.1f%%", errRate*100)),
		metricCard("Redraws", fmt.Sprintf("%d", redraws)),
		metricCard("Best Streak", fmt.Sprintf("%d", best)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func renderWeakest(records map[string]model.PerformanceRecord) string {
	weak := stats.SelectWeak(records, 5)
	if len(weak) == 0 {
		return ""
	}
	return headerStyle.Render("Needs practice: ") + strings.Join(weak, " ")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func buildCharTable(records map[string]model.PerformanceRecord, width, height int) table.Model {
	columns := []table.Column{
		{Title: "Char", Width: 4},
		{Title: "Attempts", Width: 8},
		{Title: "Streak", Width: 6},
		{Title: "Shape Err", Width: 9},
		{Title: "Dir Err", Width: 7},
		{Title: "Redraws", Width: 7},
		{Title: "Error Rate", Width: 10},
		{Title: "Time (s)", Width: 8},
	}
	glyphs := make([]string, 0, len(records))
	for glyph := range records {
		glyphs = append(glyphs, glyph)
	}
	// Weakest characters first, matching the plain-text report.
	sort.Slice(glyphs, func(i, j int) bool {
		ri := records[glyphs[i]]
		rj := records[glyphs[j]]
		ei := stats.ErrorRate(ri)
		ej := stats.ErrorRate(rj)
		if ei != ej {
			return ei > ej
		}
		if ri.ConsecutiveCorrect != rj.ConsecutiveCorrect {
			return ri.ConsecutiveCorrect < rj.ConsecutiveCorrect
		}
		return glyphs[i] < glyphs[j]
	})
	rows := make([]table.Row, 0, len(glyphs))
	for _, glyph := range glyphs {
		rec := records[glyph]
		rows = append(rows, table.Row{
			glyph,
			fmt.Sprintf("%d", rec.TotalAttempts),
			fmt.Sprintf("%d", rec.ConsecutiveCorrect),
			fmt.Sprintf("%d", rec.ShapeErrors),
			fmt.Sprintf("%d", rec.DirectionErrors),
			fmt.Sprintf("%d", rec.Redraws),
			fmt.Sprintf("%.1f%%", stats.ErrorRate(rec)*100),
			fmt.Sprintf("%.1f", float64(rec.TotalTimeMs)/1000.0),
		})
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(maxInt(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(charTableStyles())
	return t
}

func charTableStyles() table.Styles {
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

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
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
