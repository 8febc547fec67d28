// Package workspace owns the projects root: directory naming, writing
// generated manifests to disk and rendering them for display.
package workspace

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	maxSlugLength = 32
	fallbackSlug  = "project"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Slug derives a project directory name from task text.
// Accents are folded first so "café" becomes "cafe".
func Slug(task string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), task)
	if err != nil {
		folded = task
	}
	s := nonAlphanumeric.ReplaceAllString(strings.ToLower(strings.TrimSpace(folded)), "-")
	s = strings.Trim(s, "-")
	if len(s) > maxSlugLength {
		s = strings.TrimRight(s[:maxSlugLength], "-")
	}
	if s == "" {
		return fallbackSlug
	}
	return s
}
