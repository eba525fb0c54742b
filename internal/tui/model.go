// Package tui provides the Bubble Tea stroke practice interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/bihua/internal/generator"
	"github.com/verte-zerg/bihua/internal/model"
	"github.com/verte-zerg/bihua/internal/practice"
	statsPkg "github.com/verte-zerg/bihua/internal/stats"
	"github.com/verte-zerg/bihua/internal/writing"
)

const animFPS = 12

// ProgressSource provides recent progress for weak-character focus.
type ProgressSource interface {
	RecentProgress(ctx context.Context, window int) ([]writing.WritingProgress, error)
}

type animTickMsg struct {
	seq int
}

// Model implements the Bubble Tea practice UI.
type Model struct {
	config   model.Config
	svc      *practice.Service
	progress ProgressSource
	gen      *generator.Generator
	ids      []string
	weakSet  map[string]struct{}
	logger   logrus.FieldLogger

	width  int
	height int

	char    writing.WritingCharacter
	capture *writing.Capture
	anim    *writing.Animation
	animSeq int

	last       *practice.Result
	showResult bool
	status     string

	submitted int
	passed    int
}

var (
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	metaStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	feedbackStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#D0D0D0"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

const helpLine = "drag to draw · enter submit · esc clear · h stroke order · n next · ctrl+c quit"

// NewModel constructs a practice TUI model and starts the first character.
func NewModel(cfg model.Config, svc *practice.Service, progress ProgressSource, gen *generator.Generator, ids []string, logger logrus.FieldLogger) *Model {
	m := &Model{
		config:   cfg,
		svc:      svc,
		progress: progress,
		gen:      gen,
		ids:      ids,
		weakSet:  map[string]struct{}{},
		logger:   logger,
		capture:  writing.NewCapture(layoutBoard(0, 0).cellSize()),
		anim:     writing.NewAnimation(0, cfg.FramesPerStroke),
	}
	if cfg.FocusWeak {
		m.refreshWeakSet()
	}
	m.nextCharacter()
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
		m.capture.MinSpacing = layoutBoard(m.width, m.height).cellSize()
		return m, nil
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	case animTickMsg:
		if msg.seq != m.animSeq {
			return m, nil
		}
		if m.anim.Tick() {
			return m, animTick(m.animSeq)
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.abandon()
			return m, tea.Quit
		case tea.KeyEsc:
			m.handleEsc()
			return m, nil
		case tea.KeyEnter:
			m.submit()
			return m, nil
		case tea.KeyRunes:
			switch string(msg.Runes) {
			case "h":
				return m, m.playAnimation()
			case "n":
				m.nextCharacter()
			}
			return m, nil
		default:
			return m, nil
		}
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.char.ID == "" {
		return m.center(statusStyle.Render(m.status))
	}
	b := layoutBoard(m.width, m.height)
	lines := make([]string, 0, b.rows+reservedRows)
	lines = append(lines, m.center(m.renderHeader()), "")
	lines = append(lines, m.renderBoard(b))
	lines = append(lines, "")
	feedback := m.feedbackLines()
	for i := 0; i < feedbackRows; i++ {
		line := ""
		if i < len(feedback) {
			line = feedback[i]
		}
		lines = append(lines, m.center(line))
	}
	lines = append(lines, m.center(m.renderFooter()), m.center(footerStyle.Render(helpLine)))
	return strings.Join(lines, "\n")
}

func (m *Model) center(s string) string {
	if m.width <= 0 {
		return s
	}
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, s)
}

func (m *Model) renderHeader() string {
	meta := []string{m.char.Pinyin}
	if m.char.HanViet != "" {
		meta = append(meta, m.char.HanViet)
	}
	if m.char.Meaning != "" {
		meta = append(meta, m.char.Meaning)
	}
	if m.char.HSKLevel > 0 {
		meta = append(meta, fmt.Sprintf("HSK %d", m.char.HSKLevel))
	}
	meta = append(meta, fmt.Sprintf("%d strokes", m.char.StrokeCount))
	return headerStyle.Render(m.char.Character) + "  " + metaStyle.Render(strings.Join(meta, " · "))
}

func (m *Model) renderBoard(b board) string {
	r := newRaster(b)
	r.guide()

	if m.anim.Phase() != writing.AnimationIdle {
		done, t := m.anim.Progress()
		r.reference(m.char.OrderedStrokes(), done, t)
	}
	if m.showResult && m.last != nil {
		scores := m.last.Evaluation.StrokeScores
		for i, s := range m.last.Strokes {
			layer := layerPoor
			if i < len(scores) {
				layer = scoreLayer(scores[i])
			}
			r.polyline(layer, s.Points)
		}
	}
	for _, s := range m.svc.Strokes() {
		r.polyline(layerDrawn, s.Points)
	}
	r.polyline(layerActive, m.capture.Points())
	return r.render()
}

func (m *Model) feedbackLines() []string {
	width := m.width - 4
	if width <= 0 {
		width = 60
	}
	var out []string
	if m.status != "" {
		for _, line := range wrapText(m.status, width) {
			out = append(out, statusStyle.Render(line))
		}
	}
	if m.showResult && m.last != nil {
		eval := m.last.Evaluation
		paragraphs := append(append([]string{}, eval.Feedback...), eval.Suggestions...)
		for _, line := range wrapAll(paragraphs, width, feedbackRows) {
			out = append(out, feedbackStyle.Render(line))
		}
	}
	if len(out) > feedbackRows {
		out = out[:feedbackRows]
	}
	return out
}

func (m *Model) renderFooter() string {
	if m.char.ID == "" {
		return ""
	}
	segments := []string{fmt.Sprintf("Stroke %d/%d", len(m.svc.Strokes()), m.char.StrokeCount)}
	if session, ok := m.svc.Session(); ok {
		segments = append(segments, fmt.Sprintf("Attempt %d", session.Attempts+1))
	}
	if m.last != nil {
		segments = append(segments, fmt.Sprintf("Last %d%%", m.last.Evaluation.OverallScore))
	}
	if p := m.svc.Progress(); p != nil {
		segments = append(segments, fmt.Sprintf("Avg %.1f%% · Best %d%% · %s · streak %d",
			p.AverageAccuracy, p.BestAccuracy, p.MasteryLevel, p.StreakDays))
	}
	if m.submitted > 0 {
		segments = append(segments, fmt.Sprintf("Passed %d/%d", m.passed, m.submitted))
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	b := layoutBoard(m.width, m.height)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !b.contains(msg.X, msg.Y) {
			return
		}
		if session, ok := m.svc.Session(); !ok || session.IsCompleted {
			m.status = "Character completed, press n for the next one"
			return
		}
		m.anim.Stop()
		m.animSeq++
		m.showResult = false
		m.status = ""
		m.capture.Down(b.toCanvas(msg.X, msg.Y))
	case tea.MouseActionMotion:
		if m.capture.Active() {
			m.capture.Move(b.toCanvas(msg.X, msg.Y))
		}
	case tea.MouseActionRelease:
		if !m.capture.Active() {
			return
		}
		m.capture.Move(b.toCanvas(msg.X, msg.Y))
		stroke, ok := m.capture.Up()
		if !ok {
			return
		}
		if err := m.svc.AddStroke(stroke); err != nil {
			m.logger.WithError(err).Warn("stroke rejected")
			m.status = err.Error()
		}
	}
}

func (m *Model) handleEsc() {
	switch {
	case m.capture.Active():
		m.capture.Cancel()
	case len(m.svc.Strokes()) > 0:
		m.svc.ClearAttempt()
		m.capture.Reset()
		m.status = "Attempt cleared"
	default:
		m.showResult = false
		m.status = ""
	}
}

func (m *Model) submit() {
	if m.capture.Active() {
		return
	}
	res, err := m.svc.Submit(context.Background())
	switch {
	case errors.Is(err, practice.ErrNoStrokes):
		m.status = "Draw the strokes first"
		return
	case errors.Is(err, writing.ErrSessionCompleted):
		m.status = "Character completed, press n for the next one"
		return
	case err != nil:
		m.logger.WithError(err).Error("failed to submit attempt")
		m.status = fmt.Sprintf("Could not save attempt: %v", err)
		return
	}

	m.capture.Reset()
	m.last = &res
	m.showResult = true
	m.submitted++
	if res.Session.IsCompleted {
		m.passed++
		m.status = fmt.Sprintf("Passed with %d%%, press n for the next character", res.Evaluation.OverallScore)
		if m.config.FocusWeak {
			m.refreshWeakSet()
		}
		return
	}
	m.status = fmt.Sprintf("%d%% is below %d%%, try again (h shows the stroke order)",
		res.Evaluation.OverallScore, writing.PassScore)
}

func (m *Model) playAnimation() tea.Cmd {
	if m.capture.Active() {
		return nil
	}
	m.anim.Start()
	m.animSeq++
	if m.anim.Phase() != writing.AnimationPlaying {
		return nil
	}
	return animTick(m.animSeq)
}

func animTick(seq int) tea.Cmd {
	return tea.Tick(time.Second/animFPS, func(time.Time) tea.Msg {
		return animTickMsg{seq: seq}
	})
}

// abandon ends the current session, recording it when at least one attempt was scored.
func (m *Model) abandon() {
	progress, err := m.svc.Abandon(context.Background())
	if err != nil {
		m.logger.WithError(err).Error("failed to record abandoned session")
		return
	}
	if progress != nil && m.config.FocusWeak {
		m.refreshWeakSet()
	}
}

func (m *Model) nextCharacter() {
	m.abandon()
	if len(m.ids) == 0 {
		m.char = writing.WritingCharacter{}
		m.status = "No characters to practice"
		return
	}

	var id string
	if m.config.FocusWeak && len(m.weakSet) > 0 {
		id = m.gen.NextWeighted(m.ids, m.char.ID, m.weakSet, m.config.WeakFactor)
	} else {
		id = m.gen.Next(m.ids, m.char.ID)
	}
	char, err := m.svc.Start(context.Background(), id)
	if err != nil {
		m.logger.WithError(err).WithField("character", id).Error("failed to start session")
		m.char = writing.WritingCharacter{}
		m.status = fmt.Sprintf("Could not start %s: %v", id, err)
		return
	}
	m.char = char
	m.capture.Reset()
	m.anim = writing.NewAnimation(len(char.Strokes), m.config.FramesPerStroke)
	m.animSeq++
	m.last = nil
	m.showResult = false
	m.status = ""
}

func (m *Model) refreshWeakSet() {
	if m.progress == nil {
		return
	}
	recent, err := m.progress.RecentProgress(context.Background(), m.config.WeakWindow)
	if err != nil {
		m.logger.WithError(err).Error("failed to load recent progress")
		return
	}
	if len(recent) == 0 {
		m.logger.Debug("no progress yet for weak-character focus; choosing uniformly")
		m.weakSet = map[string]struct{}{}
		return
	}
	m.weakSet = statsPkg.SelectWeakChars(recent, m.config.WeakTop)
}
