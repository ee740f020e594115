// Package boardui provides the Bubble Tea leaderboard and profile viewer.
package boardui

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typesymphony/internal/stats"
)

const (
	tabLeaderboard = iota
	tabProfile
)

const trendWindow = 3

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
	helpStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea leaderboard UI.
type Model struct {
	src stats.UserSource

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	board     table.Model
	profile   viewport.Model

	width  int
	height int
}

// NewModel constructs a viewer over src and loads the first report.
func NewModel(src stats.UserSource) *Model {
	m := &Model{
		src:     src,
		tabs:    []string{"Leaderboard", "Profile"},
		board:   newBoardTable(),
		profile: viewport.New(0, 0),
	}
	m.board.Focus()
	m.refresh()
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
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "r":
			m.refresh()
			return m, nil
		}
		var cmd tea.Cmd
		if m.activeTab == tabLeaderboard {
			m.board, cmd = m.board.Update(msg)
		} else {
			m.profile, cmd = m.profile.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	header := m.renderTabs()
	bodyHeight := m.bodyHeight()
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	return strings.Join([]string{header, body, m.renderFooter()}, "\n")
}

func (m *Model) refresh() {
	report, err := stats.BuildReport(context.Background(), m.src)
	if err != nil {
		m.errMsg = err.Error()
		m.profile.SetContent("Failed to load profile.")
		return
	}
	m.errMsg = ""
	m.report = report
	m.board.SetRows(boardRows(report))
	m.profile.SetContent(renderProfile(report, m.width))
}

func (m *Model) moveTab(delta int) {
	m.activeTab = (m.activeTab + delta + len(m.tabs)) % len(m.tabs)
	if m.activeTab == tabLeaderboard {
		m.board.Focus()
	} else {
		m.board.Blur()
	}
}

func (m *Model) bodyHeight() int {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	footerHeight := 1
	if m.errMsg != "" {
		footerHeight++
	}
	h := m.height - tabsHeight - footerHeight
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	h := m.bodyHeight()
	m.profile.Width = m.width
	m.profile.Height = h
	if m.errMsg == "" {
		m.profile.SetContent(renderProfile(m.report, m.width))
	}
	m.board.SetWidth(m.width)
	m.board.SetHeight(maxInt(1, h-1))
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

func (m *Model) renderBody() string {
	if m.activeTab == tabProfile {
		return m.profile.View()
	}
	if len(m.report.Leaderboard) == 0 {
		return "No players yet."
	}
	return tableMutedStyle.Render(m.board.View())
}

func (m *Model) renderFooter() string {
	help := helpStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Reload: r  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func newBoardTable() table.Model {
	widths := []int{5, 20, 9, 9, 8, 6}
	columns := make([]table.Column, len(stats.LeaderboardHeaders))
	for i, title := range stats.LeaderboardHeaders {
		columns[i] = table.Column{Title: title, Width: widths[i]}
	}
	t := table.New(table.WithColumns(columns), table.WithHeight(10))
	t.SetStyles(boardStyles())
	return t
}

func boardRows(report stats.Report) []table.Row {
	raw := stats.LeaderboardRows(report.Leaderboard)
	rows := make([]table.Row, len(raw))
	for i, r := range raw {
		rows[i] = table.Row(r)
	}
	return rows
}

func boardStyles() table.Styles {
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

func renderProfile(report stats.Report, width int) string {
	if report.Profile == nil {
		return "Sign in to see your profile."
	}
	var buf bytes.Buffer
	if err := stats.RenderProfile(&buf, *report.Profile, trendWindow); err != nil {
		return fmt.Sprintf("Failed to render profile: %v", err)
	}
	if width <= 0 {
		width = 80
	}
	buf.WriteString("\n")
	if err := stats.RenderHistory(&buf, *report.Profile, width, trendWindow); err != nil {
		return fmt.Sprintf("Failed to render history: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
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
