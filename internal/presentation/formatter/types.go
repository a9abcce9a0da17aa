package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-claude-sessions/internal/config"
	"github.com/penwyp/go-claude-sessions/internal/core/model"
	"github.com/penwyp/go-claude-sessions/internal/core/pricing"
	"github.com/penwyp/go-claude-sessions/internal/data/stats"
	"github.com/penwyp/go-claude-sessions/internal/store"
	"github.com/penwyp/go-claude-sessions/internal/util"
)

const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatCSV   = "csv"
)

// Formatter renders query results in one output format.
type Formatter interface {
	FormatSessions(w io.Writer, sessions []model.SessionSummary) error
	FormatMessages(w io.Writer, messages []model.Message) error
	FormatStats(w io.Writer, report *StatsReport) error
	FormatProjects(w io.Writer, projects []model.ProjectInfo) error
	FormatTracked(w io.Writer, projects []store.Project) error
	FormatTasks(w io.Writer, tasks []store.Task) error
	FormatConfig(w io.Writer, cfg config.Config) error
}

// NewFormatter returns the formatter for format ("table", "json" or "csv").
func NewFormatter(format string) (Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatTable:
		return NewTableFormatter(), nil
	case FormatJSON:
		return NewJSONFormatter(), nil
	case FormatCSV:
		return NewCSVFormatter(), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (use table, json or csv)", format)
	}
}

// ModelDetail is one model's lifetime usage with its cost.
type ModelDetail struct {
	Model             string  `json:"model"`
	InputTokens       uint64  `json:"input_tokens"`
	OutputTokens      uint64  `json:"output_tokens"`
	CacheCreation     uint64  `json:"cache_creation_tokens"`
	CacheRead         uint64  `json:"cache_read_tokens"`
	WebSearchRequests uint32  `json:"web_search_requests"`
	Cost              float64 `json:"cost_usd"`
	// Estimated is set when Cost was computed from the price table.
	Estimated bool `json:"cost_estimated"`
}

// StatsReport is the stats view plus the derived figures shown to the user.
type StatsReport struct {
	Stats             *model.AggregateStats `json:"stats"`
	TotalTokens       uint64                `json:"total_tokens"`
	PrimaryModel      string                `json:"primary_model,omitempty"`
	TotalCost         float64               `json:"total_cost_usd"`
	CostEstimated     bool                  `json:"cost_estimated"`
	DailyTokenLimit   uint32                `json:"daily_token_limit"`
	TodayUsagePercent float64               `json:"today_usage_percent"`
	Models            []ModelDetail         `json:"models"`
}

// NewStatsReport derives totals, primary model, costs and the daily limit usage.
func NewStatsReport(s *model.AggregateStats, dailyTokenLimit uint32) *StatsReport {
	report := &StatsReport{
		Stats:           s,
		TotalTokens:     stats.TotalTokens(s),
		DailyTokenLimit: dailyTokenLimit,
		Models:          make([]ModelDetail, 0, len(s.ModelUsage)),
	}
	if name, ok := stats.PrimaryModel(s); ok {
		report.PrimaryModel = name
	}
	report.TotalCost, report.CostEstimated = pricing.TotalCost(s.ModelUsage)
	if dailyTokenLimit > 0 {
		report.TodayUsagePercent = float64(s.TokensToday) * 100 / float64(dailyTokenLimit)
	}

	names := make([]string, 0, len(s.ModelUsage))
	for name := range s.ModelUsage {
		names = append(names, name)
	}
	for _, name := range util.SortModels(names) {
		usage := s.ModelUsage[name]
		cost, estimated := pricing.UsageCost(name, usage)
		report.Models = append(report.Models, ModelDetail{
			Model:             name,
			InputTokens:       usage.InputTokens,
			OutputTokens:      usage.OutputTokens,
			CacheCreation:     usage.CacheCreationInputTokens,
			CacheRead:         usage.CacheReadInputTokens,
			WebSearchRequests: usage.WebSearchRequests,
			Cost:              cost,
			Estimated:         estimated && cost > 0,
		})
	}
	return report
}
