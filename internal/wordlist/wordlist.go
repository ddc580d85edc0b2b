// Package wordlist loads word lists from files or the embedded default.
package wordlist

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed words.txt
var builtin string

// Default returns the embedded English word list.
func Default() []string {
	words, err := parse(strings.NewReader(builtin), lowerASCII)
	if err != nil {
		panic(fmt.Sprintf("embedded word list: %v", err))
	}
	return words
}

// Load returns the embedded list when path is empty, otherwise the file at path.
func Load(path string) ([]string, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadWords(path)
}

// LoadWords reads whitespace-separated words from the provided file path.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = file.Close()
	}()
	words, err := parse(file, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return words, nil
}

// parse splits r into words, dropping those keep rejects when keep is set.
func parse(r io.Reader, keep func(string) bool) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		for _, word := range strings.Fields(scanner.Text()) {
			if keep != nil && !keep(word) {
				continue
			}
			words = append(words, word)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}

// lowerASCII accepts words made only of a-z.
func lowerASCII(word string) bool {
	for _, r := range word {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return word != ""
}
