package domain

import (
	"time"
)

// History query pagination bounds.
const (
	DefaultHistoryLimit = 100
	MaxHistoryLimit     = 1000
)

// Accepted formats for start_date / end_date query parameters.
var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// HistoryQuery is the store-level specification for a historical read:
// an inclusive timestamp range (either bound optional), newest-first sort,
// then skip and limit.
type HistoryQuery struct {
	Start *time.Time
	End   *time.Time
	Limit int
	Skip  int
}

// NewHistoryQuery translates raw query parameters into a HistoryQuery.
// Date strings that fail to parse are rejected before any store interaction.
// Both bounds, when present, apply to the same timestamp range predicate.
func NewHistoryQuery(startDate, endDate string, limit, skip int) (HistoryQuery, error) {
	q := HistoryQuery{Limit: limit, Skip: skip}

	if startDate != "" {
		t, err := parseDate(startDate)
		if err != nil {
			return HistoryQuery{}, &ValidationError{Field: "start_date", Reason: "is not a valid ISO-8601 date"}
		}
		q.Start = &t
	}
	if endDate != "" {
		t, err := parseDate(endDate)
		if err != nil {
			return HistoryQuery{}, &ValidationError{Field: "end_date", Reason: "is not a valid ISO-8601 date"}
		}
		q.End = &t
	}

	if q.Limit <= 0 {
		q.Limit = DefaultHistoryLimit
	}
	if q.Limit > MaxHistoryLimit {
		q.Limit = MaxHistoryLimit
	}
	if q.Skip < 0 {
		q.Skip = 0
	}
	return q, nil
}

// NewWindowQuery bounds a summary window: readings from now-hours up to now,
// capped at SummaryQueryCap records.
func NewWindowQuery(now time.Time, hours int) HistoryQuery {
	start := now.Add(-time.Duration(hours) * time.Hour)
	return HistoryQuery{Start: &start, Limit: SummaryQueryCap}
}

func parseDate(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
