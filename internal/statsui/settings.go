package statsui

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/bihua/internal/model"
	"github.com/verte-zerg/bihua/internal/practicelist"
	"github.com/verte-zerg/bihua/internal/stats"
)

const (
	fieldCharacter = iota
	fieldSince
	fieldLast
	fieldWindow
)

var (
	errSettingsChar   = errors.New("character must be a single Han glyph")
	errSettingsLast   = errors.New("last must be 0 or a positive number of sessions")
	errSettingsWindow = errors.New("window must be a number of sessions, at least 1")
)

var formStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder(), true).
	BorderForeground(lipgloss.Color("#C89A3A")).
	Padding(0, 1)

// settingsForm edits the stats filter. Values are validated together on apply.
type settingsForm struct {
	fields []textinput.Model
	focus  int
	err    string
}

func newSettingsForm(cfg model.StatsConfig, width int) *settingsForm {
	f := &settingsForm{fields: []textinput.Model{
		settingsInput("Character ", "人"),
		settingsInput("Since     ", "2024-03-01 or 7d"),
		settingsInput("Last      ", "all"),
		settingsInput("Window    ", "5"),
	}}
	f.fields[fieldCharacter].SetValue(cfg.Character)
	if cfg.Since != nil {
		f.fields[fieldSince].SetValue(cfg.Since.Format("2006-01-02"))
	}
	if cfg.Last > 0 {
		f.fields[fieldLast].SetValue(strconv.Itoa(cfg.Last))
	}
	f.fields[fieldWindow].SetValue(strconv.Itoa(cfg.CurveWindow))
	for i := range f.fields {
		f.fields[i].Width = max(10, min(width, 60)-lipgloss.Width(f.fields[i].Prompt)-4)
	}
	return f
}

func settingsInput(prompt, placeholder string) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.Placeholder = placeholder
	return in
}

func (f *settingsForm) focusField(i int) tea.Cmd {
	f.focus = (i + len(f.fields)) % len(f.fields)
	var cmd tea.Cmd
	for j := range f.fields {
		if j == f.focus {
			cmd = f.fields[j].Focus()
		} else {
			f.fields[j].Blur()
		}
	}
	return cmd
}

func (f *settingsForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.fields[f.focus], cmd = f.fields[f.focus].Update(msg)
	return cmd
}

// apply parses the form into a copy of base. base.Chars is kept.
func (f *settingsForm) apply(base model.StatsConfig, now time.Time) (model.StatsConfig, error) {
	value := func(i int) string { return strings.TrimSpace(f.fields[i].Value()) }
	cfg := base

	cfg.Character = value(fieldCharacter)
	if cfg.Character != "" && !practicelist.FilterHan(cfg.Character) {
		return base, errSettingsChar
	}

	since, err := stats.ParseSince(value(fieldSince), now)
	if err != nil {
		return base, err
	}
	cfg.Since = since

	cfg.Last = 0
	if v := value(fieldLast); v != "" && v != "all" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return base, errSettingsLast
		}
		cfg.Last = n
	}

	n, err := strconv.Atoi(value(fieldWindow))
	if err != nil || n < 1 {
		return base, errSettingsWindow
	}
	cfg.CurveWindow = n
	return cfg, nil
}

func (f *settingsForm) view() string {
	lines := []string{cardValueStyle.Render("Filter sessions")}
	for _, in := range f.fields {
		lines = append(lines, in.View())
	}
	if f.err != "" {
		lines = append(lines, errorStyle.Render(f.err))
	}
	return formStyle.Render(strings.Join(lines, "\n"))
}
