package model

// DailyActivity is one per-day entry of the stats cache.
type DailyActivity struct {
	Date          string `json:"date"`
	MessageCount  uint32 `json:"messageCount"`
	SessionCount  uint32 `json:"sessionCount"`
	ToolCallCount uint32 `json:"toolCallCount"`
}

// DailyModelTokens holds one day's token totals keyed by model.
type DailyModelTokens struct {
	Date          string            `json:"date"`
	TokensByModel map[string]uint64 `json:"tokensByModel"`
}

// ModelUsage is the lifetime usage of a single model.
type ModelUsage struct {
	InputTokens              uint64  `json:"inputTokens"`
	OutputTokens             uint64  `json:"outputTokens"`
	CacheReadInputTokens     uint64  `json:"cacheReadInputTokens"`
	CacheCreationInputTokens uint64  `json:"cacheCreationInputTokens"`
	WebSearchRequests        uint32  `json:"webSearchRequests"`
	CostUsd                  float64 `json:"costUsd"`
}

// LongestSession describes the longest recorded session.
type LongestSession struct {
	SessionId    string `json:"sessionId"`
	Duration     uint64 `json:"duration"`
	MessageCount uint32 `json:"messageCount"`
	Timestamp    string `json:"timestamp"`
}

// StatsCache mirrors ~/.claude/stats-cache.json. Absent fields decode to zero values.
type StatsCache struct {
	Version          uint32                `json:"version"`
	LastComputedDate *string               `json:"lastComputedDate"`
	DailyActivity    []DailyActivity       `json:"dailyActivity"`
	DailyModelTokens []DailyModelTokens    `json:"dailyModelTokens"`
	ModelUsage       map[string]ModelUsage `json:"modelUsage"`
	TotalSessions    uint32                `json:"totalSessions"`
	TotalMessages    uint32                `json:"totalMessages"`
	LongestSession   *LongestSession       `json:"longestSession"`
	FirstSessionDate *string               `json:"firstSessionDate"`
	HourCounts       map[string]uint32     `json:"hourCounts"`
}

// AggregateStats is the normalized reporting view of the stats cache.
type AggregateStats struct {
	TotalSessions    uint32                `json:"total_sessions"`
	TotalMessages    uint32                `json:"total_messages"`
	LastComputed     string                `json:"last_computed"`
	FirstSessionDate *string               `json:"first_session_date"`
	DailyActivity    []DailyActivity       `json:"daily_activity"`
	ModelUsage       map[string]ModelUsage `json:"model_usage"`
	LongestSession   *LongestSession       `json:"longest_session"`
	TokensToday      uint64                `json:"tokens_today"`
	MessagesToday    uint32                `json:"messages_today"`
	SessionsToday    uint32                `json:"sessions_today"`
}
