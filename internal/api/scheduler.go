package api

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/planterm/planterm/internal/model"
)

// GenerateSchedule asks the server to compute the schedule for one day.
// Date format: YYYY-MM-DD.
func (c *Client) GenerateSchedule(ctx context.Context, date string) (*model.GenerateScheduleResponse, error) {
	body := struct {
		Date string `json:"date"`
	}{Date: date}

	var resp model.GenerateScheduleResponse
	if err := c.do(ctx, http.MethodPost, "/ai/generate-schedule", nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Recommendations fetches free-form scheduling advice for one day.
func (c *Client) Recommendations(ctx context.Context, date string) (*model.RecommendationsResponse, error) {
	body := struct {
		Date string `json:"date"`
	}{Date: date}

	var resp model.RecommendationsResponse
	if err := c.do(ctx, http.MethodPost, "/ai/get-recommendations", nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AnalyzeWorkPatterns fetches the server's completion-history analysis.
func (c *Client) AnalyzeWorkPatterns(ctx context.Context) (*model.WorkPatternsResponse, error) {
	var resp model.WorkPatternsResponse
	if err := c.do(ctx, http.MethodGet, "/ai/analyze-work-patterns", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// WeeklySchedule asks the server to compute a week of schedules
// starting at startDate (YYYY-MM-DD).
func (c *Client) WeeklySchedule(ctx context.Context, startDate string) (*model.WeeklyScheduleResponse, error) {
	body := struct {
		StartDate string `json:"start_date"`
	}{StartDate: startDate}

	var resp model.WeeklyScheduleResponse
	if err := c.do(ctx, http.MethodPost, "/ai/get-weekly-schedule", nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// timeLayouts are the timestamp shapes the backend emits.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// CalculateDuration returns the whole minutes between two timestamps,
// rounded; negative when end precedes start. Unparseable input yields 0.
func CalculateDuration(startTime, endTime string) int {
	start, err := parseTime(startTime)
	if err != nil {
		return 0
	}
	end, err := parseTime(endTime)
	if err != nil {
		return 0
	}
	return int(math.Round(end.Sub(start).Minutes()))
}

// FormatTimeRange renders two timestamps as zero-padded 24-hour
// "HH:MM - HH:MM". Unparseable input yields "".
func FormatTimeRange(startTime, endTime string) string {
	start, err := parseTime(startTime)
	if err != nil {
		return ""
	}
	end, err := parseTime(endTime)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%02d:%02d - %02d:%02d", start.Hour(), start.Minute(), end.Hour(), end.Minute())
}

// Tier is the display grouping for a schedule item's priority score.
type Tier int

const (
	TierA Tier = iota // regular scheduled blocks
	TierB             // high priority
	TierC             // medium priority
	TierD             // low priority
)

// PriorityTier maps a priority score to its display tier. Thresholds
// 1000, 200 and 100 are inclusive lower bounds.
func PriorityTier(score float64) Tier {
	switch {
	case score >= 1000:
		return TierA
	case score >= 200:
		return TierB
	case score >= 100:
		return TierC
	}
	return TierD
}
