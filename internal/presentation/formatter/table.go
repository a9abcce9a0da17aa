package formatter

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/penwyp/go-claude-sessions/internal/config"
	"github.com/penwyp/go-claude-sessions/internal/core/model"
	"github.com/penwyp/go-claude-sessions/internal/store"
	"github.com/penwyp/go-claude-sessions/internal/util"
)

const (
	defaultTableWidth = 120
	minTableWidth     = 60
	minFlexWidth      = 12
	displayTimeLayout = "2006-01-02 15:04"
	recentDays        = 7
	usageBarWidth     = 32
)

type TableFormatter struct {
	// Width is the maximum line width in terminal columns.
	Width int
	// Color enables ANSI titles and usage coloring.
	Color bool
	Now   func() time.Time
}

// NewTableFormatter sizes the table to stdout, with colors when stdout is a terminal.
func NewTableFormatter() *TableFormatter {
	width, isTerminal := terminalWidth(os.Stdout)
	return &TableFormatter{Width: width, Color: isTerminal, Now: time.Now}
}

func terminalWidth(f *os.File) (int, bool) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return defaultTableWidth, false
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width < minTableWidth {
		return defaultTableWidth, true
	}
	util.LogDebugf("Terminal width %d", width)
	return width, true
}

type column struct {
	header string
	right  bool
	// flex columns are truncated to keep the table within Width.
	flex bool
}

// renderTable draws a bordered table. Widths are measured in display columns.
func (f *TableFormatter) renderTable(w io.Writer, cols []column, rows [][]string) error {
	widths := make([]int, len(cols))
	for i, col := range cols {
		widths[i] = util.GetDisplayWidth(col.header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if cw := util.GetDisplayWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	total := 1
	for _, width := range widths {
		total += width + 3
	}
	if f.Width > 0 && total > f.Width {
		for i, col := range cols {
			if !col.flex {
				continue
			}
			shrunk := widths[i] - (total - f.Width)
			if shrunk < minFlexWidth {
				shrunk = minFlexWidth
			}
			if shrunk < widths[i] {
				total -= widths[i] - shrunk
				widths[i] = shrunk
			}
		}
	}

	var b strings.Builder
	border := func(left, middle, right string) {
		b.WriteString(left)
		for i, width := range widths {
			b.WriteString(strings.Repeat("─", width+2))
			if i < len(widths)-1 {
				b.WriteString(middle)
			}
		}
		b.WriteString(right)
		b.WriteByte('\n')
	}
	line := func(cells []string) {
		b.WriteString("│")
		for i, cell := range cells {
			cell = util.TruncateToWidth(cell, widths[i])
			b.WriteString(" ")
			b.WriteString(util.PadToWidth(cell, widths[i], !cols[i].right))
			b.WriteString(" │")
		}
		b.WriteByte('\n')
	}

	headers := make([]string, len(cols))
	for i, col := range cols {
		headers[i] = col.header
	}

	border("┌", "┬", "┐")
	line(headers)
	border("├", "┼", "┤")
	for _, row := range rows {
		line(row)
	}
	border("└", "┴", "┘")

	_, err := io.WriteString(w, b.String())
	return err
}

func (f *TableFormatter) title(s string) string {
	if f.Color {
		return util.FormatDataTitle(s)
	}
	return s
}

func (f *TableFormatter) header(s string) string {
	if f.Color {
		return util.FormatHeaderTitle(s)
	}
	return s
}

func (f *TableFormatter) now() time.Time {
	if f.Now == nil {
		return time.Now()
	}
	return f.Now()
}

func modelName(m *string) string {
	if m == nil || *m == "" {
		return "-"
	}
	return util.SimplifyModelName(*m)
}

func (f *TableFormatter) FormatSessions(w io.Writer, sessions []model.SessionSummary) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}

	cols := []column{
		{header: "Session"},
		{header: "Project"},
		{header: "Msgs", right: true},
		{header: "Tokens", right: true},
		{header: "Model"},
		{header: "Last Active"},
		{header: "First Message", flex: true},
	}
	now := f.now()
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, []string{
			s.Id,
			s.ProjectName,
			fmt.Sprintf("%d", s.MessageCount),
			util.FormatNumber(s.TotalTokens),
			modelName(s.Model),
			util.FormatRelative(s.LastActivity, now),
			s.FirstMessage,
		})
	}
	return f.renderTable(w, cols, rows)
}

// FormatMessages prints the conversation as a transcript, one block per message.
func (f *TableFormatter) FormatMessages(w io.Writer, messages []model.Message) error {
	if len(messages) == 0 {
		_, err := fmt.Fprintln(w, "No messages.")
		return err
	}

	tp := util.GetTimeProvider()
	var (
		b     strings.Builder
		total uint64
	)
	for i, m := range messages {
		header := fmt.Sprintf("%s · %s", m.Type, tp.FormatTimestamp(m.Timestamp, "2006-01-02 15:04:05"))
		if m.Type == model.EntryAssistant {
			header += " · " + modelName(m.Model)
			if tokens := m.TotalTokens(); tokens > 0 {
				header += " · " + util.FormatTokens(tokens) + " tokens"
			}
		}
		if f.Color {
			color := util.ColorGreen
			if m.Type == model.EntryAssistant {
				color = util.ColorCyan
			}
			header = util.ColorBold + color + header + util.ColorReset
		}

		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(header)
		b.WriteByte('\n')
		content := strings.TrimRight(m.Content, "\n")
		if content == "" {
			content = "(no text)"
		}
		b.WriteString(content)
		b.WriteByte('\n')
		total += m.TotalTokens()
	}
	fmt.Fprintf(&b, "\n%d messages, %s tokens\n", len(messages), util.FormatTokens(total))

	_, err := io.WriteString(w, b.String())
	return err
}

func (f *TableFormatter) FormatStats(w io.Writer, report *StatsReport) error {
	s := report.Stats
	tp := util.GetTimeProvider()
	var b strings.Builder

	kv := func(key, value string) {
		b.WriteString("  ")
		b.WriteString(util.PadToWidth(key, 18, true))
		b.WriteString(value)
		b.WriteByte('\n')
	}

	b.WriteString(f.header("Usage Overview"))
	b.WriteByte('\n')
	kv("Total sessions", util.FormatTokens(uint64(s.TotalSessions)))
	kv("Total messages", util.FormatTokens(uint64(s.TotalMessages)))
	kv("Total tokens", util.FormatTokens(report.TotalTokens))
	if report.PrimaryModel != "" {
		kv("Primary model", util.SimplifyModelName(report.PrimaryModel))
	}
	cost := util.FormatCurrency(report.TotalCost)
	if report.CostEstimated {
		cost += " (includes estimates)"
	}
	kv("Cost", cost)
	if s.FirstSessionDate != nil {
		kv("First session", tp.FormatTimestamp(*s.FirstSessionDate, displayTimeLayout))
	}
	kv("Last computed", s.LastComputed)
	if s.LongestSession != nil {
		longest := time.Duration(s.LongestSession.Duration) * time.Millisecond
		kv("Longest session", fmt.Sprintf("%s · %s · %d messages",
			s.LongestSession.SessionId, util.FormatDuration(longest), s.LongestSession.MessageCount))
	}

	b.WriteByte('\n')
	b.WriteString(f.title("Today"))
	b.WriteByte('\n')
	kv("Messages", util.FormatTokens(uint64(s.MessagesToday)))
	kv("Sessions", util.FormatTokens(uint64(s.SessionsToday)))
	tokens := util.FormatTokens(s.TokensToday)
	if report.DailyTokenLimit > 0 {
		bar := util.CreateProgressBar(report.TodayUsagePercent, usageBarWidth)
		if f.Color {
			bar = util.PercentageColor(report.TodayUsagePercent) + bar + util.ColorReset
		}
		tokens = fmt.Sprintf("%s / %s %s %.1f%%",
			tokens, util.FormatTokens(uint64(report.DailyTokenLimit)), bar, report.TodayUsagePercent)
	}
	kv("Tokens", tokens)

	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	if len(report.Models) > 0 {
		if _, err := fmt.Fprintf(w, "\n%s\n", f.title("Models")); err != nil {
			return err
		}
		cols := []column{
			{header: "Model"},
			{header: "Input", right: true},
			{header: "Output", right: true},
			{header: "Cache Create", right: true},
			{header: "Cache Read", right: true},
			{header: "Cost (USD)", right: true},
		}
		rows := make([][]string, 0, len(report.Models))
		for _, m := range report.Models {
			modelCost := util.FormatCurrency(m.Cost)
			if m.Estimated {
				modelCost = "~" + modelCost
			}
			rows = append(rows, []string{
				util.SimplifyModelName(m.Model),
				util.FormatTokens(m.InputTokens),
				util.FormatTokens(m.OutputTokens),
				util.FormatTokens(m.CacheCreation),
				util.FormatTokens(m.CacheRead),
				modelCost,
			})
		}
		if err := f.renderTable(w, cols, rows); err != nil {
			return err
		}
	}

	if len(s.DailyActivity) > 0 {
		if _, err := fmt.Fprintf(w, "\n%s\n", f.title("Recent Activity")); err != nil {
			return err
		}
		days := s.DailyActivity
		if len(days) > recentDays {
			days = days[len(days)-recentDays:]
		}
		cols := []column{
			{header: "Date"},
			{header: "Messages", right: true},
			{header: "Sessions", right: true},
			{header: "Tool Calls", right: true},
		}
		rows := make([][]string, 0, len(days))
		for _, d := range days {
			rows = append(rows, []string{
				d.Date,
				util.FormatTokens(uint64(d.MessageCount)),
				util.FormatTokens(uint64(d.SessionCount)),
				util.FormatTokens(uint64(d.ToolCallCount)),
			})
		}
		if err := f.renderTable(w, cols, rows); err != nil {
			return err
		}
	}
	return nil
}

func (f *TableFormatter) FormatProjects(w io.Writer, projects []model.ProjectInfo) error {
	if len(projects) == 0 {
		_, err := fmt.Fprintln(w, "No Claude projects found.")
		return err
	}

	cols := []column{
		{header: "Name"},
		{header: "Path", flex: true},
		{header: "Transcripts", right: true},
		{header: "Last Modified"},
	}
	now := f.now()
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		modified := "-"
		if p.LastModified != "" {
			modified = util.FormatRelative(p.LastModified, now)
		}
		rows = append(rows, []string{p.Name, p.Path, fmt.Sprintf("%d", p.Transcripts), modified})
	}
	return f.renderTable(w, cols, rows)
}

func (f *TableFormatter) FormatTracked(w io.Writer, projects []store.Project) error {
	if len(projects) == 0 {
		_, err := fmt.Fprintln(w, "No tracked projects. Add one with: go-claude-sessions track <path>")
		return err
	}

	cols := []column{
		{header: "ID"},
		{header: "Name"},
		{header: "Path", flex: true},
		{header: "Updated"},
	}
	tp := util.GetTimeProvider()
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{p.ID, p.Name, p.Path, tp.FormatTimestamp(p.UpdatedAt, displayTimeLayout)})
	}
	return f.renderTable(w, cols, rows)
}

func (f *TableFormatter) FormatTasks(w io.Writer, tasks []store.Task) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, "No tasks. Add one with: go-claude-sessions tasks add <project> <content>")
		return err
	}

	cols := []column{
		{header: "ID"},
		{header: "Project"},
		{header: "Status"},
		{header: "Task", flex: true},
		{header: "Updated"},
	}
	tp := util.GetTimeProvider()
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{t.ID, t.ProjectName, string(t.Status),
			strings.Join(strings.Fields(t.Content), " "), tp.FormatTimestamp(t.UpdatedAt, displayTimeLayout)})
	}
	return f.renderTable(w, cols, rows)
}

func (f *TableFormatter) FormatConfig(w io.Writer, cfg config.Config) error {
	entries := cfg.Entries()
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Key, e.Value})
	}
	return f.renderTable(w, []column{{header: "Key"}, {header: "Value"}}, rows)
}
