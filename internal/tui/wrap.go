package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/wpmtest/internal/session"
)

type role int

const (
	rolePending role = iota
	roleCurrentWord
	roleCorrect
	roleIncorrect
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
	role    role
	cursor  bool
}

var roleStyles = map[role]lipgloss.Style{
	rolePending:     pendingStyle,
	roleCurrentWord: currentWordStyle,
	roleCorrect:     correctStyle,
	roleIncorrect:   incorrectStyle,
}

func buildStyledRunes(cells []session.Cell) []styledRune {
	cursorIndex := -1
	for i, c := range cells {
		if c.Cursor {
			cursorIndex = i
			break
		}
	}
	currentWord := wordForCursor(findWords(cells), cursorIndex)

	out := make([]styledRune, 0, len(cells))
	for i, c := range cells {
		displayed := c.Rune
		r := rolePending
		switch c.Mark {
		case session.Correct:
			r = roleCorrect
		case session.Incorrect:
			r = roleIncorrect
			if c.Rune == ' ' {
				displayed = '•'
			}
		default:
			if c.Rune != ' ' && currentWord != nil && i >= currentWord.start && i < currentWord.end {
				r = roleCurrentWord
			}
		}
		style := roleStyles[r]
		if c.Cursor {
			style = style.Underline(true)
		}
		out = append(out, styledRune{
			s:       style.Render(string(displayed)),
			width:   runewidth.RuneWidth(displayed),
			isSpace: c.Rune == ' ',
			role:    r,
			cursor:  c.Cursor,
		})
	}
	return out
}

type wordRange struct {
	start int
	end   int
}

func findWords(cells []session.Cell) []wordRange {
	words := []wordRange{}
	start := -1
	for i, c := range cells {
		if c.Rune == ' ' {
			if start != -1 {
				words = append(words, wordRange{start: start, end: i})
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		words = append(words, wordRange{start: start, end: len(cells)})
	}
	return words
}

// wordForCursor returns the word holding the cursor, or the next word when
// the cursor sits on a space.
func wordForCursor(words []wordRange, cursorIndex int) *wordRange {
	if len(words) == 0 || cursorIndex < 0 {
		return nil
	}
	for i, w := range words {
		if cursorIndex < w.end {
			return &words[i]
		}
	}
	return nil
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledLines breaks runes into lines no wider than width, breaking after
// the last space that fits. The breaking space stays at the end of its line
// so the cursor remains visible on it.
func wrapStyledLines(runes []styledRune, width int) []string {
	if width <= 0 {
		return []string{renderStyledRunes(runes)}
	}
	var lines []string
	line := make([]styledRune, 0, width)
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				lines = append(lines, renderStyledRunes(line[:lastSpaceIdx+1]))
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
			} else {
				lines = append(lines, renderStyledRunes(line))
				line = line[:0]
			}
			lineWidth = lineWidthOf(line)
			lastSpaceIdx = lastSpaceIndex(line)
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	if len(line) > 0 {
		lines = append(lines, renderStyledRunes(line))
	}
	return lines
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
