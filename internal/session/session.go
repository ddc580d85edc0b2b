// Package session implements the typing test state machine: the reference
// text, the typed input, per-position marks, line paging, and the countdown.
// It holds no timers; callers drive it with Start, Tick and Finish.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/wpmtest/internal/model"
	"github.com/verte-zerg/wpmtest/internal/stats"
)

// Defaults for the visible text area.
const (
	DefaultLineWidth    = 55
	DefaultVisibleLines = 3
)

var (
	// ErrInvalidDuration is returned for durations outside model.Durations.
	ErrInvalidDuration = errors.New("invalid duration")
	// ErrRunning is returned when a setting cannot change mid-test.
	ErrRunning = errors.New("session is running")
	// ErrEmptyReference is returned when there is no text to type.
	ErrEmptyReference = errors.New("reference text is empty")
)

// State is the lifecycle stage of a session.
type State int

const (
	Idle State = iota
	Running
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Finished:
		return "finished"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Mark classifies one reference position.
type Mark int

const (
	Pending Mark = iota
	Correct
	Incorrect
)

// Cell is the render state of one reference position.
type Cell struct {
	Rune   rune
	Typed  rune
	Mark   Mark
	Cursor bool
	Hidden bool
}

// Options configures a session.
type Options struct {
	DurationSec  int
	LineWidth    int
	VisibleLines int
}

func (o Options) withDefaults() Options {
	if o.DurationSec == 0 {
		o.DurationSec = model.DefaultDuration
	}
	if o.LineWidth == 0 {
		o.LineWidth = DefaultLineWidth
	}
	if o.VisibleLines == 0 {
		o.VisibleLines = DefaultVisibleLines
	}
	return o
}

// Session is a single typing test.
type Session struct {
	id        string
	opts      Options
	reference []rune
	typed     []rune
	marks     []Mark
	state     State
	remaining int
	window    Window
	startedAt time.Time
	endedAt   time.Time
	result    stats.Result
}

// New returns an idle session for reference.
func New(reference string, opts Options) (*Session, error) {
	opts = opts.withDefaults()
	if !model.ValidDuration(opts.DurationSec) {
		return nil, fmt.Errorf("%w: %ds", ErrInvalidDuration, opts.DurationSec)
	}
	if opts.LineWidth < 1 || opts.VisibleLines < 1 {
		return nil, fmt.Errorf("line width and visible lines must be positive")
	}
	s := &Session{
		opts:   opts,
		window: NewWindow(opts.LineWidth, opts.VisibleLines),
	}
	if err := s.Reset(reference); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset returns the session to Idle with a new reference text.
func (s *Session) Reset(reference string) error {
	ref := []rune(reference)
	if len(ref) == 0 {
		return ErrEmptyReference
	}
	s.id = uuid.NewString()
	s.reference = ref
	s.typed = s.typed[:0]
	s.marks = make([]Mark, len(ref))
	s.state = Idle
	s.remaining = s.opts.DurationSec
	s.window.Reset()
	s.startedAt = time.Time{}
	s.endedAt = time.Time{}
	s.result = stats.Result{}
	return nil
}

// SetDuration changes the test length. Not allowed while running.
func (s *Session) SetDuration(sec int) error {
	if s.state == Running {
		return ErrRunning
	}
	if !model.ValidDuration(sec) {
		return fmt.Errorf("%w: %ds", ErrInvalidDuration, sec)
	}
	s.opts.DurationSec = sec
	s.remaining = sec
	return nil
}

// Start moves an idle session to Running. It reports whether the transition
// happened; repeat calls return false.
func (s *Session) Start(now time.Time) bool {
	if s.state != Idle {
		return false
	}
	s.state = Running
	s.startedAt = now
	return true
}

// Type appends r to the input. It returns false when the input is ignored
// because the session is not running or the reference is exhausted.
func (s *Session) Type(r rune) bool {
	if s.state != Running || len(s.typed) >= len(s.reference) {
		return false
	}
	i := len(s.typed)
	s.typed = append(s.typed, r)
	if r == s.reference[i] {
		s.marks[i] = Correct
	} else {
		s.marks[i] = Incorrect
	}
	s.window.Advance(s.reference, len(s.typed))
	return true
}

// Backspace removes the last typed character. Empty input is a no-op, and
// so is deleting into text that has been paged out of view.
func (s *Session) Backspace() bool {
	if s.state != Running || len(s.typed) <= s.window.Hidden() {
		return false
	}
	i := len(s.typed) - 1
	s.typed = s.typed[:i]
	s.marks[i] = Pending
	s.window.Advance(s.reference, len(s.typed))
	return true
}

// Clear drops all input and restores the initial window.
func (s *Session) Clear() {
	if s.state == Finished {
		return
	}
	s.typed = s.typed[:0]
	for i := range s.marks {
		s.marks[i] = Pending
	}
	s.window.Reset()
}

// Tick consumes one second of the countdown and returns what is left.
func (s *Session) Tick() int {
	if s.state == Running && s.remaining > 0 {
		s.remaining--
	}
	return s.remaining
}

// Finish ends a running session and computes its result.
func (s *Session) Finish(now time.Time) (stats.Result, bool) {
	if s.state != Running {
		return s.result, false
	}
	s.state = Finished
	s.endedAt = now
	s.remaining = 0
	s.result = stats.Calculate(s.typed, s.reference, s.opts.DurationSec)
	return s.result, true
}

// ID identifies the current test; it changes on every Reset.
func (s *Session) ID() string { return s.id }

// State returns the lifecycle stage.
func (s *Session) State() State { return s.state }

// Reference returns a copy of the reference text.
func (s *Session) Reference() []rune { return append([]rune(nil), s.reference...) }

// Typed returns a copy of the input so far.
func (s *Session) Typed() []rune { return append([]rune(nil), s.typed...) }

// Cursor is the index of the next position to type.
func (s *Session) Cursor() int { return len(s.typed) }

// Remaining returns the countdown in seconds.
func (s *Session) Remaining() int { return s.remaining }

// DurationSec returns the configured test length.
func (s *Session) DurationSec() int { return s.opts.DurationSec }

// StartedAt returns when the first keystroke arrived.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// EndedAt returns when the session finished.
func (s *Session) EndedAt() time.Time { return s.endedAt }

// Result returns the final figures; zero until Finish.
func (s *Session) Result() stats.Result { return s.result }

// Window returns the paging state.
func (s *Session) Window() Window { return s.window }

// Lines returns the reference ranges currently on screen, top to bottom.
func (s *Session) Lines() []Span { return s.window.Spans(s.reference) }

// Clock formats the countdown as m:ss.
func (s *Session) Clock() string { return FormatClock(s.remaining) }

// Mark returns the classification of position i.
func (s *Session) Mark(i int) Mark {
	if i < 0 || i >= len(s.marks) {
		return Pending
	}
	return s.marks[i]
}

// Hidden reports whether position i has been paged out of view.
func (s *Session) Hidden(i int) bool {
	return i < s.window.Hidden()
}

// Errors counts incorrect positions in the current input.
func (s *Session) Errors() int {
	n := 0
	for _, m := range s.marks[:len(s.typed)] {
		if m == Incorrect {
			n++
		}
	}
	return n
}

// Cells returns the render state of every reference position.
func (s *Session) Cells() []Cell {
	cells := make([]Cell, len(s.reference))
	cursor := -1
	if s.state != Finished && len(s.typed) < len(s.reference) {
		cursor = len(s.typed)
	}
	for i, r := range s.reference {
		cells[i] = Cell{
			Rune:   r,
			Mark:   s.marks[i],
			Cursor: i == cursor,
			Hidden: s.Hidden(i),
		}
		if i < len(s.typed) {
			cells[i].Typed = s.typed[i]
		}
	}
	return cells
}

// CharStats tallies correct and incorrect input per reference character,
// skipping spaces.
func (s *Session) CharStats() []model.CharStats {
	index := map[rune]int{}
	var out []model.CharStats
	for i, typed := range s.typed {
		want := s.reference[i]
		if want == ' ' {
			continue
		}
		pos, ok := index[want]
		if !ok {
			pos = len(out)
			index[want] = pos
			out = append(out, model.CharStats{Char: string(want)})
		}
		if typed == want {
			out[pos].Correct++
		} else {
			out[pos].Incorrect++
		}
	}
	return out
}

// FormatClock renders seconds as m:ss.
func FormatClock(sec int) string {
	if sec < 0 {
		sec = 0
	}
	return fmt.Sprintf("%d:%02d", sec/60, sec%60)
}
