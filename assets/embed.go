// Package assets embeds static game content.
package assets

import (
	"bufio"
	"embed"
	"strings"
)

//go:embed puzzles.txt
var FS embed.FS

// readLines returns trimmed, non-empty, non-comment lines of an embedded file.
func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// PuzzleLines returns the raw puzzle template records.
func PuzzleLines() ([]string, error) {
	return readLines("puzzles.txt")
}
