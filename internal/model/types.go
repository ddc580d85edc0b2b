// Package model defines shared data structures.
package model

import "time"

// Durations lists the selectable test lengths in seconds.
var Durations = []int{15, 30, 60, 120}

// DefaultDuration is the test length used when nothing else is configured.
const DefaultDuration = 60

// Config defines test settings.
type Config struct {
	DurationSec  int
	Words        int
	CapsPct      float64
	NumbersPct   float64
	WordListPath string
	LineWidth    int
}

// WordListLabel names the word source for stored sessions.
func (c Config) WordListLabel() string {
	if c.WordListPath == "" {
		return "builtin"
	}
	return c.WordListPath
}

// ValidDuration reports whether sec is one of the selectable durations.
func ValidDuration(sec int) bool {
	for _, d := range Durations {
		if d == sec {
			return true
		}
	}
	return false
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Since       *time.Time
	Last        int
	CurveWindow int
}

// SessionStats captures a completed typing session.
type SessionStats struct {
	UUID        string
	StartedAt   time.Time
	EndedAt     time.Time
	DurationSec int
	Typed       int
	Errors      int
	WPM         float64
	Accuracy    float64
	CapsPct     float64
	NumbersPct  float64
	WordList    string
}

// CharStats stores per-character stats for a session.
type CharStats struct {
	Char      string
	Correct   int
	Incorrect int
}

// CharAggregate aggregates character stats across sessions.
type CharAggregate struct {
	Char      string
	Correct   int
	Incorrect int
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID   int64
	EndedAt     time.Time
	DurationSec int
	Typed       int
	Errors      int
}
