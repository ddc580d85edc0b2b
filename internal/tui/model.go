// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/wpmtest/internal/generator"
	"github.com/verte-zerg/wpmtest/internal/model"
	"github.com/verte-zerg/wpmtest/internal/session"
	"github.com/verte-zerg/wpmtest/internal/stats"
)

const saveTimeout = 2 * time.Second

// Recorder persists finished sessions.
type Recorder interface {
	InsertSession(ctx context.Context, stats model.SessionStats, chars []model.CharStats) (int64, error)
}

// deadlineMsg ends the session of the matching epoch.
type deadlineMsg struct {
	epoch int
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	config   model.Config
	recorder Recorder
	gen      *generator.Generator
	words    []string
	logger   *zap.Logger
	now      func() time.Time

	session *session.Session
	timer   timer.Model
	epoch   int

	keys keyMap
	help help.Model

	width  int
	height int

	showExplain bool
	notice      string
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#1A8CFF"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#800000")).Background(lipgloss.Color("#F2A2A0"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	durationStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E")).Padding(0, 1)
	activeDuration   = durationStyle.Foreground(lipgloss.Color("#F0F0F0")).Bold(true).Underline(true)
	clockStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	resultLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	resultValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	resultCardStyle  = lipgloss.NewStyle().
				Padding(0, 2).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	captionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs a typing TUI model.
func NewModel(cfg model.Config, recorder Recorder, gen *generator.Generator, words []string, logger *zap.Logger) (*Model, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Model{
		config:   cfg,
		recorder: recorder,
		gen:      gen,
		words:    words,
		logger:   logger,
		now:      time.Now,
		keys:     defaultKeyMap(),
		help:     help.New(),
	}
	s, err := session.New(m.generateText(), session.Options{
		DurationSec: cfg.DurationSec,
		LineWidth:   cfg.LineWidth,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	m.session = s
	m.timer = newCountdown(s.DurationSec())
	return m, nil
}

func newCountdown(sec int) timer.Model {
	return timer.NewWithInterval(time.Duration(sec)*time.Second, time.Second)
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
		m.help.Width = msg.Width
		return m, nil
	case timer.TickMsg:
		if msg.ID != m.timer.ID() || m.session.State() != session.Running {
			return m, nil
		}
		before := m.timer.Timeout
		var cmd tea.Cmd
		m.timer, cmd = m.timer.Update(msg)
		if m.timer.Timeout < before {
			m.session.Tick()
		}
		return m, cmd
	case deadlineMsg:
		if msg.epoch != m.epoch {
			return m, nil
		}
		m.finish()
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Reset):
		m.reset()
		return nil
	}

	switch m.session.State() {
	case session.Finished:
		switch {
		case key.Matches(msg, m.keys.Restart):
			m.reset()
		case key.Matches(msg, m.keys.Explain):
			m.showExplain = !m.showExplain
		case key.Matches(msg, m.keys.PrevDuration):
			m.shiftDuration(-1)
		case key.Matches(msg, m.keys.NextDuration):
			m.shiftDuration(1)
		}
		return nil
	case session.Idle:
		switch {
		case key.Matches(msg, m.keys.PrevDuration):
			m.shiftDuration(-1)
			return nil
		case key.Matches(msg, m.keys.NextDuration):
			m.shiftDuration(1)
			return nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Clear):
		m.session.Clear()
		return nil
	case key.Matches(msg, m.keys.Backspace):
		m.session.Backspace()
		return nil
	}

	switch msg.Type {
	case tea.KeySpace:
		return m.typeRunes([]rune{' '})
	case tea.KeyRunes:
		if msg.Alt || msg.Paste {
			return nil
		}
		return m.typeRunes(msg.Runes)
	default:
		return nil
	}
}

func (m *Model) typeRunes(runes []rune) tea.Cmd {
	var cmd tea.Cmd
	if m.session.Start(m.now()) {
		cmd = m.startTimers()
		m.logger.Info("session started",
			zap.String("session_id", m.session.ID()),
			zap.Int("duration_sec", m.session.DurationSec()),
		)
	}
	for _, r := range runes {
		if !m.session.Type(r) {
			m.logger.Debug("input ignored", zap.String("session_id", m.session.ID()), zap.Int("cursor", m.session.Cursor()))
			break
		}
	}
	return cmd
}

// startTimers schedules the display tick and the deadline for the current epoch.
func (m *Model) startTimers() tea.Cmd {
	epoch := m.epoch
	deadline := tea.Tick(time.Duration(m.session.DurationSec())*time.Second, func(time.Time) tea.Msg {
		return deadlineMsg{epoch: epoch}
	})
	return tea.Batch(m.timer.Init(), deadline)
}

// cancelTimers invalidates every pending tick and deadline.
func (m *Model) cancelTimers() {
	m.epoch++
	m.timer = newCountdown(m.session.DurationSec())
}

func (m *Model) shiftDuration(delta int) {
	idx := 0
	for i, d := range model.Durations {
		if d == m.session.DurationSec() {
			idx = i
		}
	}
	idx = (idx + delta + len(model.Durations)) % len(model.Durations)
	m.config.DurationSec = model.Durations[idx]
	if m.session.State() == session.Finished {
		m.reset()
	}
	if err := m.session.SetDuration(m.config.DurationSec); err != nil {
		m.logger.Warn("failed to set duration", zap.Error(err))
		return
	}
	m.cancelTimers()
}

func (m *Model) reset() {
	if m.session.State() == session.Running {
		m.logger.Info("session reset", zap.String("session_id", m.session.ID()), zap.Int("typed", m.session.Cursor()))
	}
	if err := m.session.Reset(m.generateText()); err != nil {
		m.logger.Error("failed to reset session", zap.Error(err))
	}
	m.cancelTimers()
	m.showExplain = false
	m.notice = ""
}

func (m *Model) finish() {
	res, ok := m.session.Finish(m.now())
	if !ok {
		return
	}
	m.cancelTimers()
	m.logger.Info("session finished",
		zap.String("session_id", m.session.ID()),
		zap.Int("wpm", res.RoundedWPM()),
		zap.Float64("accuracy", res.Accuracy),
		zap.Int("errors", res.Errors),
		zap.Int("typed", res.Typed),
	)
	m.record(res)
}

func (m *Model) record(res stats.Result) {
	if m.recorder == nil || res.Typed == 0 {
		return
	}
	entry := model.SessionStats{
		UUID:        m.session.ID(),
		StartedAt:   m.session.StartedAt(),
		EndedAt:     m.session.EndedAt(),
		DurationSec: m.session.DurationSec(),
		Typed:       res.Typed,
		Errors:      res.Errors,
		WPM:         res.WPM,
		Accuracy:    res.Accuracy,
		CapsPct:     m.config.CapsPct,
		NumbersPct:  m.config.NumbersPct,
		WordList:    m.config.WordListLabel(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if _, err := m.recorder.InsertSession(ctx, entry, m.session.CharStats()); err != nil {
		m.logger.Error("failed to save session", zap.String("session_id", entry.UUID), zap.Error(err))
		m.notice = "could not save this result"
	}
}

func (m *Model) generateText() string {
	return m.gen.Text(m.words, generator.Options{
		Count:      m.config.Words,
		CapsPct:    m.config.CapsPct,
		NumbersPct: m.config.NumbersPct,
	})
}

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	if m.session.State() == session.Finished {
		body = m.renderResults()
	} else {
		body = m.renderText()
	}
	parts := []string{m.renderHeader(), "", body, "", m.help.ShortHelpView(m.helpBindings())}
	content := lipgloss.JoinVertical(lipgloss.Left, parts...)
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) renderHeader() string {
	segments := make([]string, 0, len(model.Durations)+1)
	for _, d := range model.Durations {
		label := fmt.Sprintf("%ds", d)
		if d == m.session.DurationSec() {
			segments = append(segments, activeDuration.Render(label))
		} else {
			segments = append(segments, durationStyle.Render(label))
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, segments...)
	return header + "  " + clockStyle.Render(m.session.Clock())
}

func (m *Model) textWidth() int {
	width := m.session.Window().LineWidth() + 1
	if m.width > 0 && m.width < width {
		width = m.width
	}
	return width
}

// renderText draws the window's lines. A line wider than the terminal folds
// onto extra rows instead of being cut.
func (m *Model) renderText() string {
	runes := buildStyledRunes(m.session.Cells())
	fold := 0
	if m.width > 0 && m.width < m.session.Window().LineWidth()+1 {
		fold = m.width
	}
	var lines []string
	for _, span := range m.session.Lines() {
		lines = append(lines, wrapStyledLines(runes[span.Start:span.End], fold)...)
	}
	text := strings.Join(lines, "\n")
	if m.session.State() == session.Idle {
		text += "\n\n" + captionStyle.Render("start typing to begin the test")
	}
	return text
}

func (m *Model) renderResults() string {
	res := m.session.Result()
	column := func(label, value string) string {
		return lipgloss.JoinVertical(lipgloss.Center, resultLabelStyle.Render(label), resultValueStyle.Render(value))
	}
	card := resultCardStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top,
		column("wpm", fmt.Sprintf("%d", res.RoundedWPM())),
		"    ",
		column("accuracy", res.AccuracyString()),
		"    ",
		column("errors", fmt.Sprintf("%d", res.Errors)),
	))
	parts := []string{card}
	if m.notice != "" {
		parts = append(parts, noticeStyle.Render(m.notice))
	}
	if m.showExplain {
		parts = append(parts, renderMarkdown(explainMarkdown(res, m.session.DurationSec()), m.textWidth()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) helpBindings() []key.Binding {
	switch m.session.State() {
	case session.Finished:
		return []key.Binding{m.keys.Restart, m.keys.Explain, m.keys.PrevDuration, m.keys.Quit}
	case session.Running:
		return []key.Binding{m.keys.Reset, m.keys.Clear, m.keys.Quit}
	default:
		return []key.Binding{m.keys.PrevDuration, m.keys.Quit}
	}
}
