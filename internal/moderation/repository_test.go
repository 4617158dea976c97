package moderation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildFilters(t *testing.T) {
	from := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		filters    Filters
		wantWhere  string
		wantArgs   []interface{}
		wantArgIdx int
	}{
		{
			name:       "no filters",
			filters:    Filters{},
			wantWhere:  "TRUE",
			wantArgs:   []interface{}{},
			wantArgIdx: 1,
		},
		{
			name:       "flagged only",
			filters:    Filters{IsFlagged: boolPtr(false)},
			wantWhere:  "TRUE AND is_flagged = $1",
			wantArgs:   []interface{}{false},
			wantArgIdx: 2,
		},
		{
			name:       "empty salon id ignored",
			filters:    Filters{SalonID: strPtr("")},
			wantWhere:  "TRUE",
			wantArgs:   []interface{}{},
			wantArgIdx: 1,
		},
		{
			name:       "all filters",
			filters:    Filters{IsFlagged: boolPtr(true), SalonID: strPtr("s1"), DateFrom: &from, DateTo: &to},
			wantWhere:  "TRUE AND is_flagged = $1 AND salon_id::text = $2 AND created_at >= $3 AND created_at < $4",
			wantArgs:   []interface{}{true, "s1", from, to},
			wantArgIdx: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args, argIdx := buildFilters(tt.filters)
			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
			assert.Equal(t, tt.wantArgIdx, argIdx)
		})
	}
}

func TestCountPredicatesExcludeDeleted(t *testing.T) {
	for _, kind := range []CountKind{CountTotal, CountFlagged, CountWithoutResponse, CountHighRisk} {
		assert.Contains(t, countPredicates[kind], "deleted_at IS NULL", string(kind))
	}
}
