package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-claude-sessions/internal/core/model"
)

func sessions() []model.SessionSummary {
	return []model.SessionSummary{
		{Id: "a", StartedAt: "2025-07-01T09:00:00Z", LastActivity: "2025-07-03T09:00:00Z", TotalTokens: 50, MessageCount: 9},
		{Id: "b", StartedAt: "2025-07-02T09:00:00Z", LastActivity: "2025-07-02T10:00:00Z", TotalTokens: 500, MessageCount: 2},
		{Id: "c", StartedAt: "2025-06-30T09:00:00Z", LastActivity: "2025-07-04T09:00:00Z", TotalTokens: 50, MessageCount: 4},
	}
}

func ids(list []model.SessionSummary) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.Id
	}
	return out
}

func TestSessionSorter(t *testing.T) {
	tests := []struct {
		name  string
		field SortField
		order SortOrder
		want  []string
	}{
		{"recent desc", SortByRecent, SortDescending, []string{"c", "a", "b"}},
		{"recent asc", SortByRecent, SortAscending, []string{"b", "a", "c"}},
		{"started desc", SortByStarted, SortDescending, []string{"b", "a", "c"}},
		{"tokens desc keeps ties stable", SortByTokens, SortDescending, []string{"b", "a", "c"}},
		{"messages asc", SortByMessages, SortAscending, []string{"b", "c", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := sessions()
			NewSessionSorter(tt.field, tt.order).Sort(list)
			assert.Equal(t, tt.want, ids(list))
		})
	}
}

func TestParseSortField(t *testing.T) {
	field, err := ParseSortField(" Tokens ")
	require.NoError(t, err)
	assert.Equal(t, SortByTokens, field)

	_, err = ParseSortField("cost")
	assert.Error(t, err)
}
