package models

import "time"

// ReplacementRow is one normalized row of an upstream replacement table.
// Group may name several groups joined by "/". Rows live for exactly one
// fetch cycle.
type ReplacementRow struct {
	Group             string `json:"group"`
	PairNum           string `json:"pair_num"`
	ScheduledLesson   string `json:"scheduled_lesson"`
	ReplacementLesson string `json:"replacement_lesson"`
	Classroom         string `json:"classroom"`
}

// ReplacementSnapshot is one complete fetch result across both upstream
// sources. A snapshot is immutable after publication and replaced as a
// whole on each refresh; readers never observe a partially built one.
//
// Errors holds per-source failure descriptions. A snapshot with empty
// Rows and non-empty Errors means "fetch failed", which callers must not
// confuse with "no replacements announced".
type ReplacementSnapshot struct {
	Rows       []ReplacementRow `json:"rows"`
	Date       *time.Time       `json:"date,omitempty"` // day the rows apply to, nil if unparsed
	DateText   string           `json:"date_text"`      // raw announcement text from source 1
	FetchedAt  time.Time        `json:"fetched_at"`
	Errors     []string         `json:"errors,omitempty"`
	Generation string           `json:"generation"` // unique per refresh, keys the merged cache
}
