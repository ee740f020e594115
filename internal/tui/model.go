// Package tui provides the Bubble Tea game screen.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/verte-zerg/typesymphony/internal/model"
	"github.com/verte-zerg/typesymphony/internal/session"
)

// ScoreRecorder persists a finished game for a user.
type ScoreRecorder interface {
	AppendScore(ctx context.Context, userID string, rec model.ScoreRecord) error
}

// Options configures the game screen.
type Options struct {
	// Player is the signed-in user. A zero ID plays as guest and nothing is saved.
	Player       model.User
	Recorder     ScoreRecorder
	AdvanceDelay time.Duration
	Clock        session.Clock
	// Sound rings Bell when a scene or the game completes.
	Sound bool
	Bell  io.Writer
}

type phase int

const (
	phaseReady phase = iota
	phaseTyping
	phaseSceneDone
	phaseGameDone
)

// Model implements the Bubble Tea game UI.
type Model struct {
	opts  Options
	sess  *session.Session
	sched *teaScheduler

	width  int
	height int

	lastScene model.SceneResult
	hasScene  bool
	final     model.ScoreRecord

	lastWPM int
	bestWPM int
	hasLast bool

	errMsg string
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	noticeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#7FBF7F"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// NewModel constructs the game screen over scenes.
func NewModel(scenes []model.Scene, opts Options) (*Model, error) {
	m := &Model{
		opts:  opts,
		sched: newTeaScheduler(),
	}
	sess, err := session.New(scenes, session.Options{
		Clock:        opts.Clock,
		Scheduler:    m.sched,
		AdvanceDelay: opts.AdvanceDelay,
		Events: session.Events{
			OnSceneComplete: m.onSceneComplete,
			OnGameComplete:  m.onGameComplete,
		},
	})
	if err != nil {
		return nil, err
	}
	m.sess = sess
	m.loadFooterStats()
	return m, nil
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
	case timerFiredMsg:
		m.sched.fire(msg.id)
	case tea.KeyMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			return m, cmd
		}
	}
	return m, m.sched.drain()
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.sess.Reset()
		return tea.Quit
	case tea.KeyCtrlR:
		m.sess.Reset()
		m.hasScene = false
		m.errMsg = ""
	case tea.KeyEnter:
		switch m.phase() {
		case phaseReady, phaseGameDone:
			m.hasScene = false
			m.errMsg = ""
			if err := m.sess.Start(0); err != nil {
				m.errMsg = err.Error()
			}
		case phaseSceneDone:
			m.sess.Advance()
		}
	case tea.KeyBackspace, tea.KeyDelete:
		m.sess.Backspace()
	case tea.KeySpace:
		m.sess.Type(' ')
	case tea.KeyRunes:
		m.sess.Type(msg.Runes...)
	}
	return nil
}

func (m *Model) phase() phase {
	switch {
	case m.sess.GameComplete():
		return phaseGameDone
	case m.sess.State().Active:
		return phaseTyping
	case m.sess.AdvancePending():
		return phaseSceneDone
	default:
		return phaseReady
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.phase() == phaseGameDone {
		return m.place(m.renderResult())
	}
	target := m.sess.Target()
	typed := m.sess.State().Typed
	cursorIndex := -1
	if m.phase() == phaseTyping && len(typed) < len(target) {
		cursorIndex = len(typed)
	}
	styledRunes := buildStyledRunes(target, typed, cursorIndex)

	contentWidth := int(float64(m.width) * 0.70)
	if contentWidth < 1 {
		contentWidth = 1
	}
	text := renderStyledRunes(styledRunes)
	if m.width > 0 {
		text = lipgloss.NewStyle().Width(contentWidth).Render(wrapStyledRunes(styledRunes, contentWidth))
	}
	parts := []string{m.renderHeader(), "", text, "", m.renderStatus()}
	return m.place(strings.Join(parts, "\n"))
}

func (m *Model) place(content string) string {
	if m.width == 0 || m.height == 0 {
		return content + "\n" + m.renderFooter()
	}
	footer := m.renderFooter()
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderHeader() string {
	sc := m.sess.Scene()
	title := titleStyle.Render(fmt.Sprintf("Scene %d: %s", sc.Index+1, sc.Title))
	count := footerStyle.Render(fmt.Sprintf("%d of %d", m.sess.State().SceneIndex+1, m.sess.SceneCount()))
	return title + "  " + count
}

func (m *Model) renderStatus() string {
	if m.errMsg != "" {
		return errorStyle.Render(m.errMsg)
	}
	switch m.phase() {
	case phaseReady:
		return footerStyle.Render("Press Enter to start")
	case phaseSceneDone:
		if !m.hasScene {
			return ""
		}
		return noticeStyle.Render(fmt.Sprintf("Scene complete! %d WPM · %d%%  Next scene coming up (Enter to skip)", m.lastScene.WPM, m.lastScene.Accuracy))
	default:
		return ""
	}
}

func (m *Model) renderResult() string {
	lines := []string{
		titleStyle.Render("Story complete!"),
		"",
		fmt.Sprintf("%d WPM · %d%% accuracy", m.final.WPM, m.final.Accuracy),
		"",
	}
	for _, r := range m.sess.Results() {
		lines = append(lines, footerStyle.Render(fmt.Sprintf("Scene %d  %-24s %3d WPM  %3d%%  %d mistakes", r.Index+1, r.Title, r.WPM, r.Accuracy, r.Mistakes)))
	}
	lines = append(lines, "")
	if m.errMsg != "" {
		lines = append(lines, errorStyle.Render(m.errMsg))
	} else if m.opts.Player.ID == "" {
		lines = append(lines, footerStyle.Render("Playing as guest, score not saved."))
	}
	lines = append(lines, footerStyle.Render("Enter: play again  Esc: quit"))
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	target := m.sess.Target()
	state := m.sess.State()
	progress := 0
	if len(target) > 0 {
		progress = int(float64(len(state.Typed)) / float64(len(target)) * 100)
	}
	segments := []string{
		fmt.Sprintf("Progress %d%%", progress),
		fmt.Sprintf("Errors %d", state.Errors),
	}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %d WPM", m.lastWPM), fmt.Sprintf("Best %d WPM", m.bestWPM))
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) loadFooterStats() {
	for _, s := range m.opts.Player.Scores {
		m.trackScore(s)
	}
}

func (m *Model) trackScore(s model.ScoreRecord) {
	m.lastWPM = s.WPM
	if !m.hasLast || s.WPM > m.bestWPM {
		m.bestWPM = s.WPM
	}
	m.hasLast = true
}

func (m *Model) onSceneComplete(r model.SceneResult) {
	m.lastScene = r
	m.hasScene = true
	log.Debug().Int("scene", r.Index).Int("wpm", r.WPM).Int("accuracy", r.Accuracy).Msg("scene complete")
	m.ring()
}

func (m *Model) onGameComplete(rec model.ScoreRecord) {
	m.final = rec
	m.trackScore(rec)
	log.Info().Int("wpm", rec.WPM).Int("accuracy", rec.Accuracy).Msg("game complete")
	if m.opts.Player.ID == "" || m.opts.Recorder == nil {
		return
	}
	if err := m.opts.Recorder.AppendScore(context.Background(), m.opts.Player.ID, rec); err != nil {
		log.Error().Err(err).Str("user", m.opts.Player.ID).Msg("failed to save score")
		m.errMsg = fmt.Sprintf("Failed to save score: %v", err)
	}
}

func (m *Model) ring() {
	if !m.opts.Sound || m.opts.Bell == nil {
		return
	}
	if _, err := io.WriteString(m.opts.Bell, "\a"); err != nil {
		log.Debug().Err(err).Msg("bell failed")
	}
}
