// Package stats loads Claude Code's stats-cache.json and derives the reporting
// view, including today's activity.
package stats

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-claude-sessions/internal/core/model"
	"github.com/penwyp/go-claude-sessions/internal/data/paths"
	"github.com/penwyp/go-claude-sessions/internal/util"
)

var (
	// ErrStatsNotFound means there is no stats cache yet.
	ErrStatsNotFound = errors.New("stats cache not found")
	// ErrStatsParse means the stats cache exists but is not a valid document.
	ErrStatsParse = errors.New("failed to parse stats cache")
)

// Loader reads the stats cache through a resolver.
type Loader struct {
	resolver *paths.Resolver
	// Now supplies the clock used for the today window.
	Now func() time.Time
}

// NewLoader creates a loader using the wall clock.
func NewLoader(resolver *paths.Resolver) *Loader {
	return &Loader{resolver: resolver, Now: time.Now}
}

// Load reads and normalizes the stats cache.
func (l *Loader) Load() (*model.AggregateStats, error) {
	path, ok := l.resolver.StatsCachePath()
	if !ok {
		return nil, fmt.Errorf("%w: %w", ErrStatsNotFound, paths.ErrHomeUnavailable)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrStatsNotFound, path)
		}
		return nil, fmt.Errorf("failed to read stats cache: %w", err)
	}

	raw, err := Decode(data)
	if err != nil {
		return nil, err
	}

	stats := Normalize(raw, util.TodayUTC(l.Now()))
	util.LogDebug("Stats cache loaded",
		util.F("path", path), util.F("models", len(stats.ModelUsage)), util.F("days", len(stats.DailyActivity)))
	return stats, nil
}

// Decode parses a stats cache document. Absent fields take their zero value;
// a malformed document or a wrongly typed field is an error.
func Decode(data []byte) (*model.StatsCache, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrStatsParse)
	}

	var raw *model.StatsCache
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStatsParse, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: document is null", ErrStatsParse)
	}
	return raw, nil
}

// Normalize builds the reporting view for the given UTC day (YYYY-MM-DD).
func Normalize(raw *model.StatsCache, today string) *model.AggregateStats {
	stats := &model.AggregateStats{
		TotalSessions:    raw.TotalSessions,
		TotalMessages:    raw.TotalMessages,
		LastComputed:     today,
		FirstSessionDate: raw.FirstSessionDate,
		DailyActivity:    raw.DailyActivity,
		ModelUsage:       raw.ModelUsage,
		LongestSession:   raw.LongestSession,
	}
	if raw.LastComputedDate != nil {
		stats.LastComputed = *raw.LastComputedDate
	}
	if stats.DailyActivity == nil {
		stats.DailyActivity = []model.DailyActivity{}
	}
	if stats.ModelUsage == nil {
		stats.ModelUsage = map[string]model.ModelUsage{}
	}

	for _, day := range raw.DailyActivity {
		if day.Date == today {
			stats.MessagesToday = day.MessageCount
			stats.SessionsToday = day.SessionCount
			break
		}
	}

	for _, day := range raw.DailyModelTokens {
		if day.Date == today {
			for _, tokens := range day.TokensByModel {
				stats.TokensToday += tokens
			}
			break
		}
	}

	return stats
}

// TotalTokens sums input and output tokens over every model. Cache tokens and
// cost are not included.
func TotalTokens(stats *model.AggregateStats) uint64 {
	var total uint64
	for _, usage := range stats.ModelUsage {
		total += usage.InputTokens + usage.OutputTokens
	}
	return total
}

// PrimaryModel returns the model with the most output tokens. Ties resolve in
// map iteration order, so the winner among equals is unspecified.
func PrimaryModel(stats *model.AggregateStats) (string, bool) {
	var (
		best      string
		bestCount uint64
		found     bool
	)
	for name, usage := range stats.ModelUsage {
		if !found || usage.OutputTokens >= bestCount {
			best, bestCount, found = name, usage.OutputTokens, true
		}
	}
	return best, found
}
