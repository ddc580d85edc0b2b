package session

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func longReference() []rune {
	words := []string{"alpha", "be", "gamma", "delta", "epsilon", "zeta", "eta", "theta", "iota", "kappa", "lambda"}
	var parts []string
	for i := 0; i < 120; i++ {
		parts = append(parts, words[i%len(words)])
	}
	return []rune(strings.Join(parts, " "))
}

func lastIndexSpace(ref []rune, limit int) int {
	return strings.LastIndex(string(ref[:min(limit+1, len(ref))]), " ")
}

func TestBoundary(t *testing.T) {
	ref := []rune("ab cd ef")
	assert.Equal(t, 3, Boundary(ref, 4))
	assert.Equal(t, 3, Boundary(ref, 2))
	assert.Equal(t, 0, Boundary(ref, 1))
	assert.Equal(t, 6, Boundary(ref, 100))
	assert.Equal(t, 0, Boundary([]rune("nospace"), 3))
}

func TestWindowPagesOneLineAtATime(t *testing.T) {
	ref := longReference()
	s := newRunning(t, string(ref))

	pages := 0
	for i, r := range ref {
		firstBefore, lastBefore := s.Window().Limits()
		hiddenBefore := s.Window().Hidden()
		require.True(t, s.Type(r))

		firstAfter, lastAfter := s.Window().Limits()
		lastSpace := lastIndexSpace(ref, lastBefore)
		crossed := lastBefore < len(ref) && lastSpace >= 0 && s.Cursor() >= lastSpace

		if !crossed {
			assert.Equal(t, firstBefore, firstAfter, "cursor %d", i+1)
			assert.Equal(t, hiddenBefore, s.Window().Hidden(), "cursor %d", i+1)
			continue
		}
		pages++
		assert.Equal(t, lastSpace, s.Cursor(), "paging happens exactly when the cursor reaches the boundary space")
		assert.Equal(t, firstBefore+DefaultLineWidth, firstAfter)
		assert.Equal(t, lastBefore+DefaultLineWidth, lastAfter)

		wantHidden := lastIndexSpace(ref, firstBefore) + 1
		assert.Equal(t, wantHidden, s.Window().Hidden())
		for j := 0; j < len(ref); j++ {
			assert.Equal(t, j < wantHidden, s.Hidden(j), "position %d after page %d", j, pages)
		}
	}
	assert.Greater(t, pages, 5, "typing to the end should page repeatedly")

	_, last := s.Window().Limits()
	assert.GreaterOrEqual(t, last, len(ref), "paging stops once the rest of the text fits")
}

func TestWindowBackspaceNeverUnhides(t *testing.T) {
	ref := longReference()
	s := newRunning(t, string(ref))
	typeString(s, string(ref[:170]))
	hidden := s.Window().Hidden()
	require.Positive(t, hidden)

	for i := 0; i < 30; i++ {
		s.Backspace()
	}
	assert.Equal(t, hidden, s.Window().Hidden())
}

func TestWindowShortTextNeverPages(t *testing.T) {
	s := newRunning(t, "short text that fits on one line")
	typeString(s, "short text that fits on one line")
	assert.Zero(t, s.Window().Hidden())
}

func TestWindowAdvanceHandlesBursts(t *testing.T) {
	ref := longReference()
	w := NewWindow(DefaultLineWidth, DefaultVisibleLines)
	assert.True(t, w.Advance(ref, 400))

	first, _ := w.Limits()
	wantHidden := lastIndexSpace(ref, first-DefaultLineWidth) + 1
	assert.Equal(t, wantHidden, w.Hidden())
	assert.False(t, w.Advance(ref, 400), "a settled window does not page again")
}

func TestSpansFollowPaging(t *testing.T) {
	cases := map[string]string{
		"mixed":    string(longReference()),
		"uniform":  strings.TrimSpace(strings.Repeat("abcdefghi ", 80)),
		"longword": strings.Repeat("x", 70) + " " + strings.TrimSpace(strings.Repeat("ab cde ", 60)),
	}
	for name, ref := range cases {
		t.Run(name, func(t *testing.T) {
			s := newRunning(t, ref)
			runes := []rune(ref)
			for i, r := range runes[:len(runes)-1] {
				require.True(t, s.Type(r))
				spans := s.Lines()
				require.NotEmpty(t, spans)
				require.LessOrEqual(t, len(spans), DefaultVisibleLines)
				assert.Equal(t, s.Window().Hidden(), spans[0].Start)
				for k := 1; k < len(spans); k++ {
					require.Equal(t, spans[k-1].End, spans[k].Start, "lines are contiguous")
				}
				cursor := s.Cursor()
				require.True(t, cursor >= spans[0].Start && cursor < spans[len(spans)-1].End,
					"rune %d: cursor %d outside %v", i, cursor, spans)
			}
		})
	}
}

func TestSpansEndAtLineBoundaries(t *testing.T) {
	ref := longReference()
	w := NewWindow(DefaultLineWidth, DefaultVisibleLines)
	spans := w.Spans(ref)
	require.Len(t, spans, 3)
	assert.Equal(t, Span{Start: 0, End: Boundary(ref, 55)}, spans[0])
	assert.Equal(t, Boundary(ref, 110), spans[1].End)
	assert.Equal(t, Boundary(ref, 165), spans[2].End)

	short := []rune("one two")
	assert.Equal(t, []Span{{Start: 0, End: 7}}, w.Spans(short))
}

func TestBackspaceStopsAtHiddenText(t *testing.T) {
	ref := longReference()
	s := newRunning(t, string(ref))
	typeString(s, string(ref[:200]))
	hidden := s.Window().Hidden()
	require.Positive(t, hidden)

	for s.Backspace() {
	}
	assert.Equal(t, hidden, s.Cursor())
	assert.Equal(t, hidden, s.Lines()[0].Start)
}
