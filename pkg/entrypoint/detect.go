// Package entrypoint picks the single file of a generated project that
// should be compiled and run.
package entrypoint

import (
	"path"
	"path/filepath"
	"strings"
)

// conventional entry-point basenames, most likely first.
var exactNames = []struct {
	name     string
	priority int
}{
	{"main.py", 100},
	{"app.py", 90},
	{"run.py", 85},
	{"main.go", 85},
	{"index.js", 80},
	{"main.js", 80},
	{"main.rs", 80},
	{"app.js", 75},
	{"main.rb", 75},
	{"server.js", 70},
	{"main.php", 70},
	{"Main.java", 65},
	{"App.java", 60},
	{"main.cpp", 55},
	{"main.c", 50},
	{"Program.cs", 45},
	{"main.cs", 40},
	{"index.html", 35},
	{"main.html", 30},
}

var extensionScores = map[string]int{
	".py":   90,
	".go":   85,
	".js":   80,
	".rs":   80,
	".rb":   75,
	".java": 70,
	".php":  70,
	".cpp":  60,
	".c":    50,
	".cs":   40,
	".ts":   35,
	".html": 20,
}

// only the first matching keyword counts.
var keywordBonuses = []struct {
	keyword string
	bonus   int
}{
	{"main", 20},
	{"app", 15},
	{"index", 10},
	{"server", 5},
	{"run", 5},
	{"start", 5},
}

const rootBonus = 5

// Candidate is a scored file.
type Candidate struct {
	Path  string
	Score int
	Exact bool
}

// Detect returns the entry point among paths, or false when none qualifies.
// The result depends only on the input order and contents.
func Detect(paths []string) (string, bool) {
	c, ok := Best(paths)
	return c.Path, ok
}

// Best returns the winning candidate with its score.
func Best(paths []string) (Candidate, bool) {
	var best Candidate
	found := false

	for _, p := range paths {
		if prio, ok := exactPriority(basename(p)); ok {
			if !found || prio > best.Score {
				best = Candidate{Path: p, Score: prio, Exact: true}
				found = true
			}
		}
	}
	if found {
		return best, true
	}

	for _, p := range paths {
		score, ok := Score(p)
		if ok && score > best.Score {
			best = Candidate{Path: p, Score: score}
			found = true
		}
	}
	return best, found
}

// Score rates a non-conventional filename as an entry point.
func Score(p string) (int, bool) {
	score, ok := extensionScores[strings.ToLower(filepath.Ext(p))]
	if !ok {
		return 0, false
	}
	base := strings.ToLower(basename(p))
	for _, kw := range keywordBonuses {
		if strings.Contains(base, kw.keyword) {
			score += kw.bonus
			break
		}
	}
	if isRoot(p) {
		score += rootBonus
	}
	return score, true
}

func exactPriority(base string) (int, bool) {
	for _, e := range exactNames {
		if e.name == base {
			return e.priority, true
		}
	}
	return 0, false
}

// basename handles both separators since model output may use either.
func basename(p string) string {
	return path.Base(strings.ReplaceAll(p, "\\", "/"))
}

func isRoot(p string) bool {
	p = strings.TrimPrefix(p, "./")
	return !strings.ContainsAny(p, "/\\")
}
