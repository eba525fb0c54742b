// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/bihua/internal/model"
	"github.com/verte-zerg/bihua/internal/stats"
	"github.com/verte-zerg/bihua/internal/writing"
)

// Catalog lists the reference characters a learner can practise.
type Catalog interface {
	writing.CharacterRepository
	All() []writing.WritingCharacter
}

const (
	tabOverview = iota
	tabCharacters
	tabMastery
	tabCurves
	tabCount
)

var tabNames = [tabCount]string{"Overview", "Characters", "Mastery", "Curves"}

const (
	chartRows     = 10
	fallbackWidth = 80
	topCurves     = 5
)

// windowSteps are the moving average windows cycled with [ and ].
var windowSteps = []int{1, 3, 5, 10, 20, 50}

// Model implements the Bubble Tea stats UI.
type Model struct {
	source  stats.Source
	catalog Catalog
	cfg     model.StatsConfig
	now     func() time.Time

	report stats.Report
	board  stats.MasteryBoard
	err    error

	tab    int
	pages  [tabCount]viewport.Model
	table  table.Model
	rowIDs []string
	pinned []string

	settings *settingsForm

	width  int
	height int
}

// NewModel loads the first report. Characters named in cfg.Chars start pinned to the
// curves tab.
func NewModel(source stats.Source, catalog Catalog, cfg model.StatsConfig) *Model {
	m := &Model{
		source:  source,
		catalog: catalog,
		cfg:     cfg,
		now:     time.Now,
		pinned:  glyphs(cfg.Chars),
	}
	for i := range m.pages {
		m.pages[i] = viewport.New(0, 0)
	}
	m.table = table.New(table.WithColumns(characterColumns), table.WithFocused(true), table.WithHeight(1))
	m.table.SetStyles(tableStyles())
	m.reload()
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
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		m.renderPages()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.settings != nil {
			return m.updateSettings(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q":
		return m, tea.Quit
	case "tab", "right", "l":
		m.setTab(m.tab + 1)
		return m, nil
	case "shift+tab", "left", "h":
		m.setTab(m.tab - 1)
		return m, nil
	case "1", "2", "3", "4":
		m.setTab(int(key[0] - '1'))
		return m, nil
	case "]", "[":
		step := 1
		if key == "[" {
			step = -1
		}
		m.cfg.CurveWindow = stepWindow(m.cfg.CurveWindow, step)
		m.reload()
		return m, nil
	case "/":
		m.settings = newSettingsForm(m.cfg, m.width)
		return m, m.settings.focusField(0)
	}

	switch m.tab {
	case tabCharacters:
		switch {
		case msg.Type == tea.KeySpace || msg.String() == " ":
			m.togglePin(m.selectedID())
			m.refreshTable()
			return m, nil
		case msg.Type == tea.KeyEnter:
			if id := m.selectedID(); id != "" && !slices.Contains(m.pinned, id) {
				m.pinned = append([]string{id}, m.pinned...)
			}
			m.refreshTable()
			m.renderPages()
			m.setTab(tabCurves)
			return m, nil
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	case tabCurves:
		if msg.String() == "c" {
			m.pinned = nil
			m.refreshTable()
			m.renderPages()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.pages[m.tab], cmd = m.pages[m.tab].Update(msg)
	return m, cmd
}

func (m *Model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.settings = nil
		return m, nil
	case tea.KeyEnter:
		cfg, err := m.settings.apply(m.cfg, m.now())
		if err != nil {
			m.settings.err = err.Error()
			return m, nil
		}
		m.settings = nil
		m.cfg = cfg
		m.reload()
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		return m, m.settings.focusField(m.settings.focus + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return m, m.settings.focusField(m.settings.focus - 1)
	}
	return m, m.settings.update(msg)
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	header := m.renderHeader()
	footer := m.renderFooter()
	bodyHeight := max(1, m.height-lipgloss.Height(header)-lipgloss.Height(footer))
	var body string
	switch {
	case m.settings != nil:
		body = m.settings.view()
	case m.tab == tabCharacters:
		body = m.charactersView()
	default:
		body = m.pages[m.tab].View()
	}
	return strings.Join([]string{
		fitBlock(header, m.width, lipgloss.Height(header)),
		fitBlock(body, m.width, bodyHeight),
		fitBlock(footer, m.width, lipgloss.Height(footer)),
	}, "\n")
}

func (m *Model) reload() {
	report, err := stats.BuildReport(context.Background(), m.source, m.catalog, m.cfg)
	m.err = err
	if err == nil {
		m.report = report
		m.board = stats.BuildMasteryBoard(m.catalog.All(), report.Progress)
	}
	m.refreshTable()
	m.renderPages()
}

func (m *Model) setTab(tab int) {
	m.tab = (tab + tabCount) % tabCount
	if m.tab == tabCharacters {
		m.table.Focus()
	} else {
		m.table.Blur()
	}
}

func (m *Model) bodyHeight() int {
	return max(1, m.height-lipgloss.Height(m.renderHeader())-lipgloss.Height(m.renderFooter()))
}

func (m *Model) resize() {
	h := m.bodyHeight()
	for i := range m.pages {
		m.pages[i].Width = m.width
		m.pages[i].Height = h
	}
	m.table.SetWidth(m.width)
	m.table.SetHeight(max(2, h-detailRows))
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return fallbackWidth
	}
	return m.width
}

func (m *Model) renderPages() {
	if m.err != nil {
		for i := range m.pages {
			m.pages[i].SetContent("Failed to load stats.")
		}
		return
	}
	width := m.contentWidth()
	m.pages[tabOverview].SetContent(overviewPage(m.report, m.board, m.cfg.CurveWindow, width))
	m.pages[tabMastery].SetContent(masteryPage(m.board, width))
	m.pages[tabCurves].SetContent(curvesPage(m.report, m.curveChars(), len(m.pinned) > 0, m.cfg.CurveWindow, width))
}

// curveChars returns the pinned characters, or the most practised ones when none are
// pinned.
func (m *Model) curveChars() []string {
	if len(m.pinned) > 0 {
		return m.pinned
	}
	return stats.TopCharsByAttempts(m.report.Progress, topCurves)
}

func (m *Model) togglePin(id string) {
	if id == "" {
		return
	}
	if i := slices.Index(m.pinned, id); i >= 0 {
		m.pinned = slices.Delete(m.pinned, i, i+1)
	} else {
		m.pinned = append(m.pinned, id)
	}
	m.renderPages()
}

func (m *Model) selectedID() string {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.rowIDs) {
		return ""
	}
	return m.rowIDs[i]
}

// stepWindow moves to the next larger (step > 0) or smaller preset window.
func stepWindow(current, step int) int {
	if step > 0 {
		for _, w := range windowSteps {
			if w > current {
				return w
			}
		}
		return windowSteps[len(windowSteps)-1]
	}
	for i := len(windowSteps) - 1; i >= 0; i-- {
		if windowSteps[i] < current {
			return windowSteps[i]
		}
	}
	return windowSteps[0]
}
