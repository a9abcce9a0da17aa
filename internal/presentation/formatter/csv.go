package formatter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/penwyp/go-claude-sessions/internal/config"
	"github.com/penwyp/go-claude-sessions/internal/core/model"
	"github.com/penwyp/go-claude-sessions/internal/store"
)

type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

func writeCSV(w io.Writer, headers []string, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return err
	}
	if err := cw.WriteAll(records); err != nil {
		return err
	}
	return cw.Error()
}

func u64(n uint64) string { return strconv.FormatUint(n, 10) }

func optional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optionalUint(n *uint64) string {
	if n == nil {
		return ""
	}
	return u64(*n)
}

func (f *CSVFormatter) FormatSessions(w io.Writer, sessions []model.SessionSummary) error {
	headers := []string{
		"id", "project_name", "project_path", "message_count", "total_tokens",
		"model", "started_at", "last_activity", "first_message",
	}
	records := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		records = append(records, []string{
			s.Id,
			s.ProjectName,
			s.ProjectPath,
			u64(uint64(s.MessageCount)),
			u64(s.TotalTokens),
			optional(s.Model),
			s.StartedAt,
			s.LastActivity,
			s.FirstMessage,
		})
	}
	return writeCSV(w, headers, records)
}

func (f *CSVFormatter) FormatMessages(w io.Writer, messages []model.Message) error {
	headers := []string{
		"uuid", "parent_uuid", "session_id", "type", "timestamp",
		"model", "input_tokens", "output_tokens", "content",
	}
	records := make([][]string, 0, len(messages))
	for _, m := range messages {
		records = append(records, []string{
			m.Uuid,
			optional(m.ParentUuid),
			m.SessionId,
			m.Type,
			m.Timestamp,
			optional(m.Model),
			optionalUint(m.InputTokens),
			optionalUint(m.OutputTokens),
			m.Content,
		})
	}
	return writeCSV(w, headers, records)
}

// FormatStats writes one row per model; the overall figures are in the json output.
func (f *CSVFormatter) FormatStats(w io.Writer, report *StatsReport) error {
	headers := []string{
		"model", "input_tokens", "output_tokens", "cache_creation_tokens",
		"cache_read_tokens", "web_search_requests", "cost_usd", "cost_estimated",
	}
	records := make([][]string, 0, len(report.Models))
	for _, m := range report.Models {
		records = append(records, []string{
			m.Model,
			u64(m.InputTokens),
			u64(m.OutputTokens),
			u64(m.CacheCreation),
			u64(m.CacheRead),
			u64(uint64(m.WebSearchRequests)),
			strconv.FormatFloat(m.Cost, 'f', 4, 64),
			strconv.FormatBool(m.Estimated),
		})
	}
	return writeCSV(w, headers, records)
}

func (f *CSVFormatter) FormatProjects(w io.Writer, projects []model.ProjectInfo) error {
	headers := []string{"name", "path", "dir", "transcripts", "last_modified"}
	records := make([][]string, 0, len(projects))
	for _, p := range projects {
		records = append(records, []string{p.Name, p.Path, p.Dir, strconv.Itoa(p.Transcripts), p.LastModified})
	}
	return writeCSV(w, headers, records)
}

func (f *CSVFormatter) FormatTracked(w io.Writer, projects []store.Project) error {
	headers := []string{"id", "name", "path", "created_at", "updated_at"}
	records := make([][]string, 0, len(projects))
	for _, p := range projects {
		records = append(records, []string{p.ID, p.Name, p.Path, p.CreatedAt, p.UpdatedAt})
	}
	return writeCSV(w, headers, records)
}

func (f *CSVFormatter) FormatTasks(w io.Writer, tasks []store.Task) error {
	headers := []string{"id", "project_id", "project_name", "content", "status", "created_at", "updated_at"}
	records := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, []string{t.ID, t.ProjectID, t.ProjectName, t.Content, string(t.Status), t.CreatedAt, t.UpdatedAt})
	}
	return writeCSV(w, headers, records)
}

func (f *CSVFormatter) FormatConfig(w io.Writer, cfg config.Config) error {
	entries := cfg.Entries()
	records := make([][]string, 0, len(entries))
	for _, e := range entries {
		records = append(records, []string{e.Key, e.Value})
	}
	return writeCSV(w, []string{"key", "value"}, records)
}
