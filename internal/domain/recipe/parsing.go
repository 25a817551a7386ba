package recipe

import (
	"regexp"
	"strings"
)

var (
	listBulletPrefix = regexp.MustCompile(`^[-•\s]+`)
	numberedStep     = regexp.MustCompile(`\d+\.\s`)
	numberedSplit    = regexp.MustCompile(`\n?\d+\.\s+`)
	blankLineSplit   = regexp.MustCompile(`\n\s*\n`)
)

// ParseIngredientLines splits hand-entered ingredient text into one
// ingredient per line. Leading dashes and bullets are stripped so
// pasted lists come out clean, and blank lines are dropped.
func ParseIngredientLines(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = listBulletPrefix.ReplaceAllString(strings.TrimSpace(line), "")
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// ParseStepBlocks splits hand-entered preparation text into steps.
// Text carrying "1. " style numbering splits on the numbers; anything
// else splits on blank lines.
func ParseStepBlocks(raw string) []string {
	var parts []string
	if numberedStep.MatchString(raw) {
		parts = numberedSplit.Split(strings.TrimSpace(raw), -1)
	} else {
		parts = blankLineSplit.Split(raw, -1)
	}

	var out []string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
