package session

// Window pages the reference text one line at a time so that only a fixed
// number of lines stays visible. Lines break at the last space before each
// multiple of the line width.
type Window struct {
	lineWidth  int
	lines      int
	firstLimit int
	lastLimit  int
	hidden     int
}

// NewWindow returns a window showing lines rows of lineWidth characters.
func NewWindow(lineWidth, lines int) Window {
	w := Window{lineWidth: lineWidth, lines: lines}
	w.Reset()
	return w
}

// Reset restores the initial window position.
func (w *Window) Reset() {
	w.firstLimit = w.lineWidth
	w.lastLimit = w.lineWidth * w.lines
	w.hidden = 0
}

// Hidden returns the number of leading reference positions paged out of view.
func (w Window) Hidden() int {
	return w.hidden
}

// LineWidth returns the characters per line.
func (w Window) LineWidth() int {
	return w.lineWidth
}

// Lines returns how many lines stay visible.
func (w Window) Lines() int {
	return w.lines
}

// Limits returns the current first-line and last-line character limits.
func (w Window) Limits() (first, last int) {
	return w.firstLimit, w.lastLimit
}

// Boundary returns the index just past the last space at or before limit,
// or 0 when there is none.
func Boundary(ref []rune, limit int) int {
	if limit >= len(ref) {
		limit = len(ref) - 1
	}
	for i := limit; i >= 0; i-- {
		if ref[i] == ' ' {
			return i + 1
		}
	}
	return 0
}

// Span is a half-open range of reference positions shown on one line.
type Span struct {
	Start int
	End   int
}

// Spans returns the visible lines of ref. Line k ends just past the last
// space at or before firstLimit+k*lineWidth; the last line of the text runs
// to its end. A word longer than the line is cut at the limit.
func (w Window) Spans(ref []rune) []Span {
	spans := make([]Span, 0, w.lines)
	start := w.hidden
	for k := 0; k < w.lines && start < len(ref); k++ {
		limit := w.firstLimit + k*w.lineWidth
		end := len(ref)
		if limit < len(ref) {
			end = Boundary(ref, limit)
			if end <= start {
				end = limit + 1
			}
		}
		spans = append(spans, Span{Start: start, End: end})
		start = end
	}
	return spans
}

// Advance pages the window while the cursor sits at or past the last
// position of the last visible line. It reports whether any paging happened.
func (w *Window) Advance(ref []rune, cursor int) bool {
	paged := false
	for {
		spans := w.Spans(ref)
		if len(spans) < w.lines {
			break
		}
		last := spans[len(spans)-1].End
		if last >= len(ref) || cursor < last-1 {
			break
		}
		w.hidden = spans[0].End
		w.firstLimit += w.lineWidth
		w.lastLimit += w.lineWidth
		paged = true
	}
	return paged
}
