package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/verte-zerg/wpmtest/internal/stats"
)

const explainTemplate = `## How is this calculated?

Every character counts, spaces included. A character is an **error** when it
differs from the text at the same position.

| | |
|---|---|
| characters typed | %d |
| errors | %d |
| accuracy | (%d - %d) / %d = **%s** |
| wpm | (%d / 5) × (60 / %d) × accuracy = **%d** |

A "word" is five characters. Gross speed is scaled to a minute and then
multiplied by accuracy, so errors cost speed.
`

func explainMarkdown(res stats.Result, durationSec int) string {
	return fmt.Sprintf(explainTemplate,
		res.Typed, res.Errors,
		res.Typed, res.Errors, res.Typed, res.AccuracyString(),
		res.Typed, durationSec, res.RoundedWPM(),
	)
}

// renderMarkdown renders md for the terminal, falling back to plain text.
func renderMarkdown(md string, width int) string {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
