package stats

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/verte-zerg/wpmtest/internal/model"
)

const recentRows = 10

// Source provides stored sessions for reports.
type Source interface {
	ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error)
	ListCharAggregatesForSessions(ctx context.Context, sessionIDs []int64) ([]model.CharAggregate, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions    []model.SessionAggregate
	CurveWindow int
	CharAggs    []model.CharAggregate
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, src Source, cfg model.StatsConfig) (Report, error) {
	sessions, err := src.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list sessions: %w", err)
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}
	ids := make([]int64, len(sessions))
	for i, s := range sessions {
		ids[i] = s.SessionID
	}
	charAggs, err := src.ListCharAggregatesForSessions(ctx, ids)
	if err != nil {
		return Report{}, fmt.Errorf("failed to aggregate characters: %w", err)
	}
	return Report{
		Sessions:    sessions,
		CurveWindow: cfg.CurveWindow,
		CharAggs:    charAggs,
	}, nil
}

// Render writes the whole report.
func (r Report) Render(w io.Writer, weakTop int) error {
	if err := RenderSummary(w, r.Sessions); err != nil {
		return err
	}
	if len(r.Sessions) == 0 {
		return nil
	}
	if err := RenderCurves(w, r.Sessions, r.CurveWindow); err != nil {
		return err
	}
	if err := RenderRecent(w, r.Sessions, recentRows); err != nil {
		return err
	}
	return RenderCharTable(w, WeakestChars(r.CharAggs, weakTop))
}

// RenderSummary prints a summary block for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var totalWPM, totalAcc, bestWPM float64
	for _, s := range sessions {
		res := Metrics(s.Typed, s.Errors, s.DurationSec)
		totalWPM += res.WPM
		totalAcc += res.Accuracy
		bestWPM = max(bestWPM, res.WPM)
	}
	count := float64(len(sessions))
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", len(sessions)),
		fmt.Sprintf("Avg WPM: %.1f", totalWPM/count),
		fmt.Sprintf("Best WPM: %.1f", bestWPM),
		fmt.Sprintf("Avg Accuracy: %.1f%%", totalAcc/count*100),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints moving-average sparklines for WPM and accuracy.
func RenderCurves(w io.Writer, sessions []model.SessionAggregate, window int) error {
	wpms := make([]float64, len(sessions))
	accs := make([]float64, len(sessions))
	for i, s := range sessions {
		res := Metrics(s.Typed, s.Errors, s.DurationSec)
		wpms[i] = res.WPM
		accs[i] = res.Accuracy * 100
	}
	if _, err := fmt.Fprintf(w, "Learning Curves (window %d)\n", max(window, 1)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "WPM      |%s|\n", Sparkline(MovingAverage(wpms, window))); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Accuracy |%s|\n\n", Sparkline(MovingAverage(accs, window))); err != nil {
		return err
	}
	return nil
}

// RenderRecent prints the last n sessions, newest first.
func RenderRecent(w io.Writer, sessions []model.SessionAggregate, n int) error {
	if _, err := fmt.Fprintln(w, "Recent Sessions"); err != nil {
		return err
	}
	headers := []string{"Ended", "Duration", "WPM", "Accuracy", "Errors"}
	rows := make([][]string, 0, n)
	for i := len(sessions) - 1; i >= 0 && len(rows) < n; i-- {
		s := sessions[i]
		res := Metrics(s.Typed, s.Errors, s.DurationSec)
		rows = append(rows, []string{
			s.EndedAt.Local().Format(time.DateTime),
			fmt.Sprintf("%ds", s.DurationSec),
			fmt.Sprintf("%d", res.RoundedWPM()),
			res.AccuracyString(),
			fmt.Sprintf("%d", s.Errors),
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true, 4: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderCharTable prints per-character aggregates in the given order.
func RenderCharTable(w io.Writer, aggs []model.CharAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No character stats found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Weakest Characters"); err != nil {
		return err
	}
	headers := []string{"Char", "Accuracy", "Correct", "Incorrect"}
	rows := make([][]string, 0, len(aggs))
	for _, agg := range aggs {
		rows = append(rows, []string{
			agg.Char,
			fmt.Sprintf("%.2f%%", charAccuracy(agg)*100),
			fmt.Sprintf("%d", agg.Correct),
			fmt.Sprintf("%d", agg.Incorrect),
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
