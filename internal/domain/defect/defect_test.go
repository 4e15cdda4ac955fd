package defect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefect(t *testing.T) {
	t.Run("normalizes issue key", func(t *testing.T) {
		d, err := NewDefect("  osf-1234  ", "Checkout fails", EnvironmentACC)
		require.NoError(t, err)
		assert.Equal(t, "OSF-1234", d.IssueKey)
		assert.Equal(t, EnvironmentACC, d.Environment)
	})

	t.Run("rejects empty issue key", func(t *testing.T) {
		_, err := NewDefect("   ", "Checkout fails", EnvironmentACC)
		assert.Error(t, err)
	})

	t.Run("rejects unknown environment", func(t *testing.T) {
		_, err := NewDefect("OSF-1", "x", Environment("prod"))
		assert.Error(t, err)
	})
}

func TestParseEnvironment(t *testing.T) {
	tests := []struct {
		input   string
		want    Environment
		wantErr bool
	}{
		{"acc", EnvironmentACC, false},
		{"SIT", EnvironmentSIT, false},
		{" Acc ", EnvironmentACC, false},
		{"prod", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseEnvironment(tt.input)
		if tt.wantErr {
			assert.Error(t, err, tt.input)
			continue
		}
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got)
	}
}

func TestDefect_IsResolved(t *testing.T) {
	tests := []struct {
		resolution string
		want       bool
	}{
		{"Closed", true},
		{"Resolved", true},
		{"Done", true},
		{"Fixed in 2.4", true},
		{"Verified by QA", true},
		{"Won't Fix", false},
		{"Open", false},
		{"", false},
	}

	for _, tt := range tests {
		d := Defect{IssueKey: "OSF-1", Resolution: tt.resolution}
		assert.Equal(t, tt.want, d.IsResolved(), tt.resolution)
	}
}

func TestDefect_SearchText(t *testing.T) {
	d := Defect{
		Summary:        "Order stuck in PENDING",
		Description:    "Payment callback never arrives",
		FixDescription: "Retry the callback handler",
		OSFSystem:      "Payment Gateway",
		Comment:        "seen on acc only",
	}

	text := d.SearchText()
	assert.Contains(t, text, "Order stuck in PENDING")
	assert.Contains(t, text, "Retry the callback handler")
	assert.Contains(t, text, "Payment Gateway")

	empty := Defect{}
	assert.Empty(t, empty.SearchText())
}

func TestDefect_DocumentQuery(t *testing.T) {
	d := Defect{
		Summary:        "Order stuck in PENDING",
		Description:    "Payment callback never arrives",
		OSFSystem:      "Payment Gateway",
		FixDescription: "Retry the callback handler",
		Comment:        "22/Mar/24 9:05 AM; long triage trail",
	}

	query := d.DocumentQuery()
	assert.Equal(t, "Order stuck in PENDING Payment callback never arrives Payment Gateway Retry the callback handler", query)
	assert.NotContains(t, query, "triage trail")

	sparse := Defect{Summary: "Checkout 500"}
	assert.Equal(t, "Checkout 500", sparse.DocumentQuery())
}

func TestDefect_CommentTimeline(t *testing.T) {
	d := Defect{
		Comment: "22/Mar/24 9:05 AM; retested, still failing 21/Mar/24 10:15 AM; first analysis done",
	}

	entries := d.CommentTimeline()
	require.Len(t, entries, 2)

	// Oldest first regardless of order in the raw field
	assert.True(t, entries[0].Timestamp.Before(entries[1].Timestamp))
	assert.Equal(t, "first analysis done", entries[0].Text)
	assert.Equal(t, "retested, still failing", entries[1].Text)

	first := time.Date(2024, time.March, 21, 10, 15, 0, 0, time.UTC)
	assert.Equal(t, first, entries[0].Timestamp)
}

func TestDefect_CommentTimeline_NoTimestamps(t *testing.T) {
	d := Defect{Comment: "just a plain note"}
	assert.Nil(t, d.CommentTimeline())
}

func TestParseSearchColumn(t *testing.T) {
	col, err := ParseSearchColumn("summary")
	require.NoError(t, err)
	assert.Equal(t, ColumnSummary, col)

	_, err = ParseSearchColumn("priority")
	assert.Error(t, err)
}
