package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSchedule(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{
			"success": true,
			"date": "2026-03-02",
			"schedule": [
				{"task_id": 1, "title": "read", "start_time": "2026-03-02T09:00:00", "end_time": "2026-03-02T09:45:00", "priority_score": 250, "confidence": 0.8}
			],
			"total_tasks": 1
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	resp, err := c.GenerateSchedule(context.Background(), "2026-03-02")
	require.NoError(t, err)

	assert.Equal(t, "/ai/generate-schedule", gotPath)
	assert.Equal(t, map[string]string{"date": "2026-03-02"}, gotBody)
	assert.True(t, resp.Success)
	require.Len(t, resp.Schedule, 1)
	assert.Equal(t, int64(1), resp.Schedule[0].TaskID)
	assert.Equal(t, 250.0, resp.Schedule[0].PriorityScore)
}

func TestWeeklySchedule(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{
			"success": true,
			"start_date": "2026-03-02",
			"end_date": "2026-03-08",
			"weekly_schedule": {"2026-03-02": [], "2026-03-03": [{"task_id": 2, "title": "gym"}]},
			"total_tasks": 1
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	resp, err := c.WeeklySchedule(context.Background(), "2026-03-02")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"start_date": "2026-03-02"}, gotBody)
	require.Len(t, resp.WeeklySchedule, 2)
	assert.Equal(t, "gym", resp.WeeklySchedule["2026-03-03"][0].Title)
}

func TestCalculateDuration(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		expected int
	}{
		{
			name:     "45 minutes",
			start:    "2026-03-02T09:00:00",
			end:      "2026-03-02T09:45:00",
			expected: 45,
		},
		{
			name:     "negative when end precedes start",
			start:    "2026-03-02T10:00:00",
			end:      "2026-03-02T09:30:00",
			expected: -30,
		},
		{
			name:     "rounds seconds",
			start:    "2026-03-02T09:00:00",
			end:      "2026-03-02T09:30:40",
			expected: 31,
		},
		{
			name:     "space-separated layout",
			start:    "2026-03-02 09:00:00",
			end:      "2026-03-02 10:30:00",
			expected: 90,
		},
		{
			name:     "rfc3339 with offset",
			start:    "2026-03-02T09:00:00+02:00",
			end:      "2026-03-02T10:00:00+02:00",
			expected: 60,
		},
		{
			name:     "unparseable start",
			start:    "not a time",
			end:      "2026-03-02T10:00:00",
			expected: 0,
		},
		{
			name:     "unparseable end",
			start:    "2026-03-02T09:00:00",
			end:      "",
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CalculateDuration(tt.start, tt.end))
		})
	}
}

func TestFormatTimeRange(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		expected string
	}{
		{
			name:     "zero padded",
			start:    "2026-03-02T09:05:00",
			end:      "2026-03-02T10:00:00",
			expected: "09:05 - 10:00",
		},
		{
			name:     "afternoon stays 24h",
			start:    "2026-03-02 13:30:00",
			end:      "2026-03-02 15:45:00",
			expected: "13:30 - 15:45",
		},
		{
			name:     "unparseable yields empty",
			start:    "whenever",
			end:      "2026-03-02T10:00:00",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatTimeRange(tt.start, tt.end))
		})
	}
}

func TestPriorityTier(t *testing.T) {
	tests := []struct {
		score    float64
		expected Tier
	}{
		{1500, TierA},
		{1000, TierA},
		{999.9, TierB},
		{250, TierB},
		{200, TierB},
		{150, TierC},
		{100, TierC},
		{99.9, TierD},
		{50, TierD},
		{0, TierD},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, PriorityTier(tt.score), "score %v", tt.score)
	}
}
