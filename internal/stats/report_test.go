package stats

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/wpmtest/internal/model"
	"github.com/verte-zerg/wpmtest/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "wpmtest.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	var ids []int64
	for i := 0; i < 3; i++ {
		start := time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
		end := start.Add(30 * time.Second)
		session := model.SessionStats{
			UUID:        fmt.Sprintf("s%d", i),
			StartedAt:   start,
			EndedAt:     end,
			DurationSec: 30,
			Typed:       150,
			Errors:      3,
			WordList:    "builtin",
		}
		charStats := []model.CharStats{
			{Char: "a", Correct: 5, Incorrect: 0},
			{Char: "b", Correct: 4, Incorrect: 1},
		}
		id, err := st.InsertSession(ctx, session, charStats)
		if err != nil {
			t.Fatalf("insert session: %v", err)
		}
		ids = append(ids, id)
	}

	report, err := BuildReport(ctx, st, model.StatsConfig{Last: 2, CurveWindow: 2})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(report.Sessions))
	}
	if report.Sessions[0].SessionID != ids[1] || report.Sessions[1].SessionID != ids[2] {
		t.Fatalf("unexpected session ids: %+v", report.Sessions)
	}
	if len(report.CharAggs) != 2 {
		t.Fatalf("expected 2 char aggregates, got %d", len(report.CharAggs))
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, 5); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Sessions: 2", "Avg WPM: 58.8", "Recent Sessions", "Weakest Characters", "98.0%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\na ") {
		t.Fatalf("never-mistyped char should not be listed:\n%s", out)
	}
}

func TestRenderEmptyReport(t *testing.T) {
	var buf bytes.Buffer
	if err := (Report{}).Render(&buf, 5); err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "No sessions found." {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}
