// Package model defines shared data structures.
package model

import "time"

// Quiz modes recorded in the session log.
const (
	ModeFixed   = "fixed"
	ModeEndless = "endless"
)

// SessionStats captures a completed quiz session.
type SessionStats struct {
	StartedAt  time.Time
	EndedAt    time.Time
	List       string
	Mode       string
	Answered   int
	Correct    int
	DurationMs int64
}

// WordStats stores per-word results for a session.
type WordStats struct {
	Word      string
	Correct   int
	Incorrect int
}

// WordAggregate aggregates word results across sessions.
type WordAggregate struct {
	Word      string
	Correct   int
	Incorrect int
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID  int64
	EndedAt    time.Time
	Mode       string
	Answered   int
	Correct    int
	DurationMs int64
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	List   string
	Since  *time.Time
	Last   int
	Window int
}
