package formatter

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-claude-sessions/internal/config"
	"github.com/penwyp/go-claude-sessions/internal/core/model"
	"github.com/penwyp/go-claude-sessions/internal/store"
	"github.com/penwyp/go-claude-sessions/internal/util"
)

var fixedNow = time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }
func u64Ptr(n uint64) *uint64 { return &n }

func sampleSessions() []model.SessionSummary {
	return []model.SessionSummary{
		{
			Id:           "0b6e3c52-8f0e-4a55-9a39-0d1b0f0c7a11",
			ProjectPath:  "/work/api",
			ProjectName:  "api",
			FirstMessage: "Fix the login bug that happens when the session cookie expires during a long running upload",
			MessageCount: 12,
			TotalTokens:  15300,
			Model:        strPtr("claude-sonnet-4-20250514"),
			StartedAt:    "2025-07-15T09:00:00.000Z",
			LastActivity: "2025-07-15T10:00:00Z",
		},
		{
			Id:           "s2",
			ProjectPath:  "/work/web",
			ProjectName:  "web",
			FirstMessage: model.NoMessagesPlaceholder,
			MessageCount: 1,
			StartedAt:    "2025-07-14T09:00:00.000Z",
			LastActivity: "2025-07-14T09:00:00.000Z",
		},
	}
}

func sampleMessages() []model.Message {
	return []model.Message{
		{Uuid: "u1", SessionId: "s1", Type: model.EntryUser, Content: "hello, \"world\"", Timestamp: "2025-07-15T09:00:00.000Z"},
		{
			Uuid:         "a1",
			ParentUuid:   strPtr("u1"),
			SessionId:    "s1",
			Type:         model.EntryAssistant,
			Content:      "line one\nline two",
			Model:        strPtr("claude-opus-4-20250514"),
			InputTokens:  u64Ptr(1200),
			OutputTokens: u64Ptr(34),
			Timestamp:    "2025-07-15T09:00:05.000Z",
		},
	}
}

func sampleStats() *model.AggregateStats {
	first := "2025-06-01T08:00:00.000Z"
	return &model.AggregateStats{
		TotalSessions:    12,
		TotalMessages:    345,
		LastComputed:     "2025-07-14",
		FirstSessionDate: &first,
		DailyActivity: []model.DailyActivity{
			{Date: "2025-07-14", MessageCount: 40, SessionCount: 3, ToolCallCount: 12},
			{Date: "2025-07-15", MessageCount: 5, SessionCount: 2, ToolCallCount: 1},
		},
		ModelUsage: map[string]model.ModelUsage{
			"claude-sonnet-4-20250514":  {InputTokens: 1000, OutputTokens: 4000, CostUsd: 1.25},
			"claude-opus-4-20250514":    {InputTokens: 1_000_000},
			"claude-3-5-haiku-20241022": {},
		},
		LongestSession: &model.LongestSession{SessionId: "s-long", Duration: 7_200_000, MessageCount: 88},
		TokensToday:    1500,
		MessagesToday:  5,
		SessionsToday:  2,
	}
}

func newTestTable() *TableFormatter {
	return &TableFormatter{Width: 120, Now: func() time.Time { return fixedNow }}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format string
		want   interface{}
	}{
		{"", &TableFormatter{}},
		{"table", &TableFormatter{}},
		{"JSON", &JSONFormatter{}},
		{"csv", &CSVFormatter{}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			f, err := NewFormatter(tt.format)
			require.NoError(t, err)
			assert.IsType(t, tt.want, f)
		})
	}

	_, err := NewFormatter("yaml")
	assert.Error(t, err)
}

func TestNewStatsReport(t *testing.T) {
	report := NewStatsReport(sampleStats(), 50000)

	assert.Equal(t, uint64(1000+4000+1_000_000), report.TotalTokens)
	assert.Equal(t, "claude-sonnet-4-20250514", report.PrimaryModel)
	assert.InDelta(t, 1.25+15.0, report.TotalCost, 1e-9)
	assert.True(t, report.CostEstimated)
	assert.InDelta(t, 3.0, report.TodayUsagePercent, 1e-9)

	require.Len(t, report.Models, 3)
	assert.Equal(t, "claude-opus-4-20250514", report.Models[0].Model)
	assert.True(t, report.Models[0].Estimated)
	assert.Equal(t, "claude-sonnet-4-20250514", report.Models[1].Model)
	assert.False(t, report.Models[1].Estimated)
	assert.Equal(t, "claude-3-5-haiku-20241022", report.Models[2].Model)
	assert.False(t, report.Models[2].Estimated, "zero usage has nothing to estimate")
}

func TestNewStatsReportWithoutLimit(t *testing.T) {
	report := NewStatsReport(&model.AggregateStats{ModelUsage: map[string]model.ModelUsage{}}, 0)

	assert.Equal(t, 0.0, report.TodayUsagePercent)
	assert.Empty(t, report.PrimaryModel)
	assert.NotNil(t, report.Models)
}

func TestJSONSessions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter().FormatSessions(&buf, sampleSessions()))

	var decoded []map[string]interface{}
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "api", decoded[0]["project_name"])
	assert.Equal(t, float64(12), decoded[0]["message_count"])
	assert.Equal(t, "claude-sonnet-4-20250514", decoded[0]["model"])
	assert.Nil(t, decoded[1]["model"])
	assert.Contains(t, decoded[1], "model")
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}

func TestJSONEmptyListsAreArrays(t *testing.T) {
	f := NewJSONFormatter()

	var buf bytes.Buffer
	require.NoError(t, f.FormatSessions(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())

	buf.Reset()
	require.NoError(t, f.FormatTracked(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestJSONStats(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter().FormatStats(&buf, NewStatsReport(sampleStats(), 50000)))

	var decoded map[string]interface{}
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &decoded))
	stats, ok := decoded["stats"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(12), stats["total_sessions"])
	assert.Equal(t, float64(1500), stats["tokens_today"])
	usage := stats["model_usage"].(map[string]interface{})
	sonnet := usage["claude-sonnet-4-20250514"].(map[string]interface{})
	assert.Equal(t, 1.25, sonnet["costUsd"])
	assert.Equal(t, float64(1005000), decoded["total_tokens"])
	assert.Equal(t, "claude-sonnet-4-20250514", decoded["primary_model"])
}

func TestJSONConfig(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter().FormatConfig(&buf, config.Default()))

	var decoded map[string]interface{}
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, true, decoded["launch_on_startup"])
	assert.Equal(t, float64(50000), decoded["daily_token_limit"])
}

func readCSV(t *testing.T, data string) [][]string {
	t.Helper()
	records, err := csv.NewReader(strings.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestCSVSessions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVFormatter().FormatSessions(&buf, sampleSessions()))

	records := readCSV(t, buf.String())
	require.Len(t, records, 3)
	assert.Equal(t, "id", records[0][0])
	assert.Equal(t, []string{
		"s2", "web", "/work/web", "1", "0", "", "2025-07-14T09:00:00.000Z", "2025-07-14T09:00:00.000Z", "No messages",
	}, records[2])
}

func TestCSVMessagesQuotesContent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVFormatter().FormatMessages(&buf, sampleMessages()))

	records := readCSV(t, buf.String())
	require.Len(t, records, 3)
	assert.Equal(t, "hello, \"world\"", records[1][8])
	assert.Equal(t, "", records[1][6], "absent token counts are empty")
	assert.Equal(t, "line one\nline two", records[2][8])
	assert.Equal(t, "u1", records[2][1])
	assert.Equal(t, "1200", records[2][6])
}

func TestCSVStats(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVFormatter().FormatStats(&buf, NewStatsReport(sampleStats(), 0)))

	records := readCSV(t, buf.String())
	require.Len(t, records, 4)
	assert.Equal(t, "claude-opus-4-20250514", records[1][0])
	assert.Equal(t, "15.0000", records[1][6])
	assert.Equal(t, "true", records[1][7])
}

func TestCSVEmptyWritesHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVFormatter().FormatProjects(&buf, nil))

	records := readCSV(t, buf.String())
	assert.Len(t, records, 1)
}

func assertFitsWidth(t *testing.T, output string, width int) {
	t.Helper()
	for _, line := range strings.Split(strings.TrimRight(output, "\n"), "\n") {
		assert.LessOrEqual(t, util.GetDisplayWidth(line), width, "line too wide: %q", line)
	}
}

func TestTableSessions(t *testing.T) {
	var buf bytes.Buffer
	f := newTestTable()
	require.NoError(t, f.FormatSessions(&buf, sampleSessions()))

	out := buf.String()
	assert.Contains(t, out, "0b6e3c52-8f0e-4a55-9a39-0d1b0f0c7a11")
	assert.Contains(t, out, "Sonnet-4")
	assert.Contains(t, out, "15.3K")
	assert.Contains(t, out, "2 hours ago")
	assert.Contains(t, out, "Fix the login bug")
	assert.Contains(t, out, "…", "long first message is cut to fit")
	assert.True(t, strings.HasPrefix(out, "┌"))
	assertFitsWidth(t, out, f.Width)
}

func TestTableSessionsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newTestTable().FormatSessions(&buf, nil))
	assert.Equal(t, "No sessions found.\n", buf.String())
}

func TestTableMessages(t *testing.T) {
	require.NoError(t, util.InitializeTimeProvider("UTC"))

	var buf bytes.Buffer
	require.NoError(t, newTestTable().FormatMessages(&buf, sampleMessages()))

	out := buf.String()
	assert.Contains(t, out, "user · 2025-07-15 09:00:00")
	assert.Contains(t, out, "assistant · 2025-07-15 09:00:05 · Opus-4 · 1,234 tokens")
	assert.Contains(t, out, "line one\nline two\n")
	assert.Contains(t, out, "2 messages, 1,234 tokens")
}

func TestTableStats(t *testing.T) {
	require.NoError(t, util.InitializeTimeProvider("UTC"))

	var buf bytes.Buffer
	require.NoError(t, newTestTable().FormatStats(&buf, NewStatsReport(sampleStats(), 50000)))

	out := buf.String()
	assert.Contains(t, out, "Total sessions")
	assert.Contains(t, out, "1,005,000")
	assert.Contains(t, out, "Primary model     Sonnet-4")
	assert.Contains(t, out, "$16.25 (includes estimates)")
	assert.Contains(t, out, "s-long · 2h 0m · 88 messages")
	assert.Contains(t, out, "1,500 / 50,000 [")
	assert.Contains(t, out, "3.0%")
	assert.Contains(t, out, "~$15.00")
	assert.Contains(t, out, "2025-07-15")
	assert.NotContains(t, out, util.ColorReset)
}

func TestTableStatsWithoutLimit(t *testing.T) {
	var buf bytes.Buffer
	stats := &model.AggregateStats{LastComputed: "2025-07-15", ModelUsage: map[string]model.ModelUsage{}}
	require.NoError(t, newTestTable().FormatStats(&buf, NewStatsReport(stats, 0)))

	out := buf.String()
	assert.NotContains(t, out, "[")
	assert.NotContains(t, out, "Models")
	assert.NotContains(t, out, "Recent Activity")
}

func TestTableProjects(t *testing.T) {
	var buf bytes.Buffer
	f := newTestTable()
	projects := []model.ProjectInfo{
		{Path: "/work/api", Name: "api", Transcripts: 3, LastModified: "2025-07-15T11:00:00Z"},
		{Path: "/work/" + strings.Repeat("deep/", 40) + "leaf", Name: "leaf"},
	}
	require.NoError(t, f.FormatProjects(&buf, projects))

	out := buf.String()
	assert.Contains(t, out, "1 hour ago")
	assert.Contains(t, out, " - ")
	assertFitsWidth(t, out, f.Width)
}

func TestTableTrackedAndConfig(t *testing.T) {
	require.NoError(t, util.InitializeTimeProvider("UTC"))
	f := newTestTable()

	var buf bytes.Buffer
	require.NoError(t, f.FormatTracked(&buf, []store.Project{
		{ID: "id-1", Name: "api", Path: "/work/api", UpdatedAt: "2025-07-01T12:00:01.000000000Z"},
	}))
	assert.Contains(t, buf.String(), "2025-07-01 12:00")

	buf.Reset()
	require.NoError(t, f.FormatTracked(&buf, nil))
	assert.Contains(t, buf.String(), "No tracked projects")

	buf.Reset()
	require.NoError(t, f.FormatConfig(&buf, config.Default()))
	assert.Contains(t, buf.String(), "daily_token_limit")
	assert.Contains(t, buf.String(), "50000")
}

func TestFormatTasks(t *testing.T) {
	require.NoError(t, util.InitializeTimeProvider("UTC"))
	tasks := []store.Task{{
		ID: "t-1", ProjectID: "p-1", ProjectName: "api", Content: "write\nnotes, quickly",
		Status: store.TaskInProgress, CreatedAt: "2025-07-01T12:00:01.000000000Z", UpdatedAt: "2025-07-01T12:30:00.000000000Z",
	}}

	var buf bytes.Buffer
	require.NoError(t, newTestTable().FormatTasks(&buf, tasks))
	assert.Contains(t, buf.String(), "write notes, quickly")
	assert.Contains(t, buf.String(), "in_progress")
	assert.Contains(t, buf.String(), "2025-07-01 12:30")

	buf.Reset()
	require.NoError(t, newTestTable().FormatTasks(&buf, nil))
	assert.Contains(t, buf.String(), "No tasks")

	buf.Reset()
	require.NoError(t, NewCSVFormatter().FormatTasks(&buf, tasks))
	records := readCSV(t, buf.String())
	require.Len(t, records, 2)
	assert.Equal(t, "project_name", records[0][2])
	assert.Equal(t, "write\nnotes, quickly", records[1][3])

	buf.Reset()
	require.NoError(t, NewJSONFormatter().FormatTasks(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}
