package interaction

import (
	"fmt"
	"sort"
	"strings"

	"github.com/penwyp/go-claude-sessions/internal/core/model"
	"github.com/penwyp/go-claude-sessions/internal/util"
)

// SortField represents the field to sort sessions by
type SortField int

const (
	SortByRecent SortField = iota
	SortByStarted
	SortByTokens
	SortByMessages
)

var sortFieldNames = map[string]SortField{
	"recent":   SortByRecent,
	"started":  SortByStarted,
	"tokens":   SortByTokens,
	"messages": SortByMessages,
}

// ParseSortField maps a --sort flag value to a field.
func ParseSortField(name string) (SortField, error) {
	if field, ok := sortFieldNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return field, nil
	}
	return SortByRecent, fmt.Errorf("unknown sort field %q (use recent, started, tokens or messages)", name)
}

// SortOrder represents the sort order
type SortOrder int

const (
	SortDescending SortOrder = iota
	SortAscending
)

// SessionSorter handles sorting of sessions
type SessionSorter struct {
	field SortField
	order SortOrder
}

// NewSessionSorter creates a sorter; the zero configuration is most recent first.
func NewSessionSorter(field SortField, order SortOrder) *SessionSorter {
	return &SessionSorter{field: field, order: order}
}

// Sort orders sessions in place. Equal keys keep their relative order.
func (s *SessionSorter) Sort(sessions []model.SessionSummary) {
	sort.SliceStable(sessions, func(i, j int) bool {
		var cmp int

		switch s.field {
		case SortByRecent:
			cmp = util.CompareTimestamps(sessions[i].LastActivity, sessions[j].LastActivity)
		case SortByStarted:
			cmp = util.CompareTimestamps(sessions[i].StartedAt, sessions[j].StartedAt)
		case SortByTokens:
			cmp = compareUint(sessions[i].TotalTokens, sessions[j].TotalTokens)
		case SortByMessages:
			cmp = compareUint(uint64(sessions[i].MessageCount), uint64(sessions[j].MessageCount))
		}

		if s.order == SortDescending {
			return cmp > 0
		}
		return cmp < 0
	})
}

func compareUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
