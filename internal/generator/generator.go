// Package generator builds typing text sequences.
package generator

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// DefaultWords is how many words a test text holds.
const DefaultWords = 250

// Options controls text decoration.
type Options struct {
	Count      int
	CapsPct    float64
	NumbersPct float64
}

// Generator produces randomized typing text.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource returns a Generator drawing from src.
func NewWithSource(src rand.Source) *Generator {
	return &Generator{rnd: rand.New(src)}
}

// Shuffle returns count words taken from a shuffled copy of words. When the
// list is shorter than count it is reshuffled and reused.
func (g *Generator) Shuffle(words []string, count int) []string {
	if len(words) == 0 || count <= 0 {
		return nil
	}
	pool := make([]string, len(words))
	copy(pool, words)
	result := make([]string, 0, count)
	for len(result) < count {
		g.rnd.Shuffle(len(pool), func(i, j int) {
			pool[i], pool[j] = pool[j], pool[i]
		})
		take := min(count-len(result), len(pool))
		result = append(result, pool[:take]...)
	}
	return result
}

// Text shuffles words and joins them into a reference text, applying
// capitals and numbers per opts.
func (g *Generator) Text(words []string, opts Options) string {
	count := opts.Count
	if count <= 0 {
		count = DefaultWords
	}
	picked := g.Shuffle(words, count)
	for i, word := range picked {
		word = applyNumbers(g.rnd, word, opts.NumbersPct)
		picked[i] = applyCaps(g.rnd, word, opts.CapsPct)
	}
	return strings.Join(picked, " ")
}

func applyCaps(rnd *rand.Rand, word string, capsPct float64) string {
	if capsPct <= 0 || rnd.Float64() > capsPct {
		return word
	}
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// applyNumbers replaces word with one to four random digits.
func applyNumbers(rnd *rand.Rand, word string, numbersPct float64) string {
	if numbersPct <= 0 || rnd.Float64() > numbersPct {
		return word
	}
	digits := 1 + rnd.Intn(4)
	var b strings.Builder
	for i := 0; i < digits; i++ {
		b.WriteString(strconv.Itoa(rnd.Intn(10)))
	}
	return b.String()
}
