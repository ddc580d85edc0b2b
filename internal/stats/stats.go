// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"math"
	"strings"
)

const (
	charsPerWord = 5
	sparkChars   = " .:-=+*#%@"
)

// Result holds the final figures of a session.
type Result struct {
	Typed    int
	Errors   int
	Accuracy float64
	WPM      float64
}

// Calculate compares typed against reference and derives the session figures
// for a test of durationSec seconds.
func Calculate(typed, reference []rune, durationSec int) Result {
	errors := 0
	for i, r := range typed {
		if i >= len(reference) || r != reference[i] {
			errors++
		}
	}
	return Metrics(len(typed), errors, durationSec)
}

// Metrics derives accuracy and WPM from character counts.
func Metrics(typed, errors, durationSec int) Result {
	if typed <= 0 {
		return Result{}
	}
	res := Result{Typed: typed, Errors: errors}
	res.Accuracy = float64(typed-errors) / float64(typed)
	if durationSec > 0 {
		res.WPM = float64(typed) / charsPerWord * (60 / float64(durationSec)) * res.Accuracy
	}
	return res
}

// RoundedWPM returns WPM rounded to the nearest integer.
func (r Result) RoundedWPM() int {
	return int(math.Round(r.WPM))
}

// AccuracyPercent returns accuracy as a percentage with one decimal of precision.
func (r Result) AccuracyPercent() float64 {
	return math.Round(r.Accuracy*1000) / 10
}

// AccuracyString formats accuracy for display: "0%" with no input, "100%"
// when perfect, one decimal otherwise.
func (r Result) AccuracyString() string {
	if r.Typed == 0 {
		return "0%"
	}
	return FormatPercent(r.AccuracyPercent())
}

// FormatPercent renders a percentage the way results are shown.
func FormatPercent(pct float64) string {
	if pct == 100 {
		return "100%"
	}
	return fmt.Sprintf("%.1f%%", pct)
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 || len(values) == 0 {
		copy(out, values)
		return out
	}
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}
