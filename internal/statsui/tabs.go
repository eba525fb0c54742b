package statsui

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/verte-zerg/bihua/internal/model"
	"github.com/verte-zerg/bihua/internal/stats"
	"github.com/verte-zerg/bihua/internal/writing"
)

var (
	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#B0B0B0")).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle  = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	glyphStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

// Level colours follow the stroke score colours of the practice board.
var levelStyles = map[writing.MasteryLevel]lipgloss.Style{
	writing.MasteryMastered:   lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")),
	writing.MasteryPracticing: lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")),
	writing.MasteryLearning:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")),
}

const (
	detailRows  = 2
	trendLength = 10
	pinMark     = "•"
)

var characterColumns = []table.Column{
	{Title: " ", Width: 1},
	{Title: "Char", Width: 4},
	{Title: "Pinyin", Width: 8},
	{Title: "Hán Việt", Width: 9},
	{Title: "Mastery", Width: 10},
	{Title: "Tries", Width: 5},
	{Title: "Best", Width: 4},
	{Title: "Avg", Width: 5},
	{Title: "Trend", Width: trendLength},
	{Title: "Streak", Width: 6},
	{Title: "Last", Width: 10},
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1, 0, 0)
	s.Cell = s.Cell.Padding(0, 1, 0, 0)
	s.Selected = s.Selected.Foreground(lipgloss.Color("#F0F0F0")).Background(lipgloss.Color("#303030")).Bold(true)
	return s
}

func (m *Model) renderHeader() string {
	tabs := make([]string, tabCount)
	for i, name := range tabNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if i == m.tab {
			tabs[i] = activeTabStyle.Render(label)
		} else {
			tabs[i] = tabStyle.Render(label)
		}
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	return bar + "\n" + mutedStyle.Render(truncate(filterSummary(m.cfg), m.width))
}

func filterSummary(cfg model.StatsConfig) string {
	char, since, last := "any", "any", "all"
	if cfg.Character != "" {
		char = cfg.Character
	}
	if cfg.Since != nil {
		since = cfg.Since.Format("2006-01-02")
	}
	if cfg.Last > 0 {
		last = strconv.Itoa(cfg.Last)
	}
	return fmt.Sprintf("char %s · since %s · last %s · window %d", char, since, last, cfg.CurveWindow)
}

func (m *Model) renderFooter() string {
	var help string
	switch {
	case m.settings != nil:
		help = "tab/↓ next field · shift+tab/↑ previous · enter apply · esc cancel"
	case m.tab == tabCharacters:
		help = "↑/↓ select · space pin · enter show curves · [/] window · / filter · q quit"
	case m.tab == tabCurves:
		help = "←/→ tabs · c clear pins · [/] window · / filter · q quit"
	default:
		help = "←/→ tabs · ↑/↓ scroll · [/] window · / filter · q quit"
	}
	help = mutedStyle.Render(truncate(help, m.width))
	if m.err != nil && m.settings == nil {
		return help + "\n" + errorStyle.Render(truncate(m.err.Error(), m.width))
	}
	return help
}

func overviewPage(report stats.Report, board stats.MasteryBoard, window, width int) string {
	if len(report.Sessions) == 0 {
		return "No sessions yet. Practise a few characters with bihua first."
	}
	sum := stats.Summarize(report.Sessions)
	recent := stats.Summarize(report.WindowSessions)
	bestStreak := lo.Max(lo.Map(report.Progress, func(p writing.WritingProgress, _ int) int { return p.StreakDays }))
	counts := stats.MasteryCounts(report.Progress)
	cards := []string{
		card("Sessions", strconv.Itoa(sum.Sessions)),
		card("Passed", fmt.Sprintf("%.0f%%", sum.PassRate()*100)),
		card("Avg", fmt.Sprintf("%.1f%%", sum.AvgAccuracy)),
		card(fmt.Sprintf("Last %d", len(report.WindowSessions)), fmt.Sprintf("%.1f%%", recent.AvgAccuracy)),
		card("Best", fmt.Sprintf("%d%%", sum.BestAccuracy)),
		card("Avg time", formatSeconds(sum.AvgCompletion)),
		card("Mastered", fmt.Sprintf("%d/%d", counts[writing.MasteryMastered], board.Total())),
		card("Streak", fmt.Sprintf("%dd", bestStreak)),
	}
	var grid string
	if width < 80 {
		grid = strings.Join(cards, "\n")
	} else {
		grid = lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.JoinHorizontal(lipgloss.Top, cards[:4]...),
			lipgloss.JoinHorizontal(lipgloss.Top, cards[4:]...),
		)
	}
	grid += "\n" + masteryTally(counts)
	var buf bytes.Buffer
	if err := stats.RenderCurvesWithSize(&buf, report.Sessions, window, width, chartRows, true); err != nil {
		return grid + "\n\n" + errorStyle.Render(err.Error())
	}
	return strings.TrimRight(grid+"\n\n"+buf.String(), "\n")
}

// masteryTally lists practised characters per level, strongest first.
func masteryTally(counts map[writing.MasteryLevel]int) string {
	parts := make([]string, 0, len(stats.BoardLevels))
	for _, level := range stats.BoardLevels {
		parts = append(parts, levelStyles[level].Render(fmt.Sprintf("%s %d", level, counts[level])))
	}
	return strings.Join(parts, mutedStyle.Render(" · "))
}

func card(label, value string) string {
	return cardStyle.Render(cardLabelStyle.Render(label) + "\n" + cardValueStyle.Render(value))
}

func formatSeconds(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// refreshTable rebuilds the character rows, weakest average first, keeping the cursor on
// the same character when it is still listed.
func (m *Model) refreshTable() {
	selected := m.selectedID()
	trends := lo.GroupBy(m.report.Sessions, func(s model.SessionAggregate) string { return s.CharacterID })
	rows := slices.Clone(m.report.Chars)
	slices.SortStableFunc(rows, func(a, b model.CharAggregate) int {
		switch {
		case a.Progress.AverageAccuracy < b.Progress.AverageAccuracy:
			return -1
		case a.Progress.AverageAccuracy > b.Progress.AverageAccuracy:
			return 1
		}
		return strings.Compare(a.Character, b.Character)
	})

	m.rowIDs = m.rowIDs[:0]
	tableRows := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		p := r.Progress
		id := p.CharacterID
		pin := ""
		if slices.Contains(m.pinned, id) {
			pin = pinMark
		}
		tableRows = append(tableRows, table.Row{
			pin,
			r.Character,
			r.Pinyin,
			r.HanViet,
			string(p.MasteryLevel),
			strconv.Itoa(p.TotalAttempts),
			strconv.Itoa(p.BestAccuracy),
			fmt.Sprintf("%.1f", p.AverageAccuracy),
			stats.Sparkline(recentAccuracy(trends[id], trendLength)),
			strconv.Itoa(p.StreakDays),
			p.LastPracticed.Local().Format("2006-01-02"),
		})
		m.rowIDs = append(m.rowIDs, id)
	}
	m.table.SetRows(tableRows)
	if i := slices.Index(m.rowIDs, selected); i >= 0 {
		m.table.SetCursor(i)
	}
}

func recentAccuracy(sessions []model.SessionAggregate, n int) []float64 {
	if len(sessions) > n {
		sessions = sessions[len(sessions)-n:]
	}
	return lo.Map(sessions, func(s model.SessionAggregate, _ int) float64 { return float64(s.Accuracy) })
}

func (m *Model) charactersView() string {
	if len(m.rowIDs) == 0 {
		return "No character progress yet."
	}
	return m.table.View() + "\n" + m.characterDetail()
}

// characterDetail describes the selected character from the catalogue.
func (m *Model) characterDetail() string {
	id := m.selectedID()
	c, ok := m.catalog.GetByID(id)
	if !ok {
		return mutedStyle.Render(id + " is not in the current dataset")
	}
	parts := []string{glyphStyle.Render(c.Character)}
	if c.Pinyin != "" {
		parts = append(parts, c.Pinyin)
	}
	if c.HanViet != "" {
		parts = append(parts, "Hán Việt "+c.HanViet)
	}
	if c.Meaning != "" {
		parts = append(parts, c.Meaning)
	}
	if c.HSKLevel > 0 {
		parts = append(parts, fmt.Sprintf("HSK %d", c.HSKLevel))
	}
	parts = append(parts, fmt.Sprintf("%d strokes", c.StrokeCount))
	return strings.Join(parts, " · ")
}

func masteryPage(board stats.MasteryBoard, width int) string {
	if board.Total() == 0 {
		return "No characters in the dataset."
	}
	var sections []string
	for _, level := range stats.BoardLevels {
		sections = append(sections, boardSection(string(level), levelStyles[level], board.Levels[level], width))
	}
	sections = append(sections, boardSection("unpractised", mutedStyle, board.Unpractised, width))
	return strings.Join(sections, "\n\n")
}

func boardSection(label string, style lipgloss.Style, glyphs []string, width int) string {
	heading := style.Bold(true).Render(fmt.Sprintf("%s (%d)", label, len(glyphs)))
	if len(glyphs) == 0 {
		return heading + "\n" + mutedStyle.Render("-")
	}
	body := lipgloss.NewStyle().Width(max(10, width)).Render(style.Render(strings.Join(glyphs, " ")))
	return heading + "\n" + body
}

func curvesPage(report stats.Report, chars []string, pinned bool, window, width int) string {
	if len(report.Sessions) == 0 {
		return "No sessions yet."
	}
	if len(chars) == 0 {
		return "No characters to chart. Pin some on the Characters tab."
	}
	source := "most practised"
	if pinned {
		source = "pinned"
	}
	header := mutedStyle.Render(fmt.Sprintf("%s: %s", source, strings.Join(chars, " ")))
	var buf bytes.Buffer
	if err := stats.RenderCharCurvesWithSize(&buf, report.Sessions, chars, window, width, chartRows, true); err != nil {
		return header + "\n" + errorStyle.Render(err.Error())
	}
	return strings.TrimRight(header+"\n"+buf.String(), "\n")
}
