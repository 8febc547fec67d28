package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/alantheprice/vibecode/pkg/manifest"
	"github.com/alantheprice/vibecode/pkg/utils"
)

// WrittenFile reports one file materialized on disk.
type WrittenFile struct {
	Path         string
	Created      bool
	Changed      bool
	LinesAdded   int
	LinesRemoved int
}

// SkippedFile is a manifest entry that was not written.
type SkippedFile struct {
	Path   string
	Reason string
}

// Report describes one Write call.
type Report struct {
	Dir     string
	Written []WrittenFile
	Skipped []SkippedFile
}

// Writer materializes manifests under a projects root.
type Writer struct {
	root      string
	protected *ignore.GitIgnore
	logger    *utils.Logger
}

// NewWriter creates a writer for root. Entries matching a protected pattern
// (gitignore syntax) are never written.
func NewWriter(root string, protected []string, logger *utils.Logger) *Writer {
	w := &Writer{root: root, logger: logger}
	if len(protected) > 0 {
		w.protected = ignore.CompileIgnoreLines(protected...)
	}
	return w
}

// Root returns the projects root.
func (w *Writer) Root() string {
	return w.root
}

// ProjectDir returns the directory for a project identifier.
func (w *Writer) ProjectDir(project string) string {
	return filepath.Join(w.root, project)
}

// Write overwrites every file of the manifest under the project directory,
// creating directories as needed. A failed file is reported in the returned
// error and the remaining files are still attempted. There is no rollback.
func (w *Writer) Write(project string, files []manifest.File) (Report, error) {
	dir := w.ProjectDir(project)
	report := Report{Dir: dir}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return report, utils.NewFileSystemError("create project directory", dir, err)
	}

	var errs []error
	for _, f := range files {
		rel, reason := w.resolve(f.Filename)
		if reason != "" {
			w.logger.Logf("Skipping %s: %s", f.Filename, reason)
			report.Skipped = append(report.Skipped, SkippedFile{Path: f.Filename, Reason: reason})
			continue
		}

		written, err := writeFile(filepath.Join(dir, rel), f.Content)
		if err != nil {
			errs = append(errs, utils.NewFileSystemError("write file", filepath.Join(dir, rel), err))
			continue
		}
		written.Path = filepath.ToSlash(rel)
		report.Written = append(report.Written, written)
		w.logger.LogWorkspaceOperation("write", fmt.Sprintf("%s (+%d -%d)", filepath.Join(dir, rel), written.LinesAdded, written.LinesRemoved))
	}

	return report, errors.Join(errs...)
}

// resolve converts a manifest filename into a safe relative path, or returns
// why it must be skipped.
func (w *Writer) resolve(name string) (string, string) {
	slashed := strings.ReplaceAll(strings.TrimSpace(name), "\\", "/")
	if slashed == "" {
		return "", "empty filename"
	}
	if strings.HasPrefix(slashed, "/") || filepath.IsAbs(name) || filepath.VolumeName(name) != "" {
		return "", "absolute paths are not allowed"
	}
	clean := filepath.Clean(filepath.FromSlash(slashed))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", "path escapes the project directory"
	}
	if w.protected != nil && w.protected.MatchesPath(filepath.ToSlash(clean)) {
		return "", "path is protected"
	}
	return clean, ""
}

func writeFile(path, content string) (WrittenFile, error) {
	var result WrittenFile

	previous, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		result.Created = true
		result.Changed = true
		result.LinesAdded = countLines(content)
	case err != nil:
		return result, err
	default:
		if string(previous) != content {
			result.Changed = true
			result.LinesAdded, result.LinesRemoved = lineChanges(string(previous), content)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return result, err
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return result, err
	}
	return result, nil
}

func lineChanges(before, after string) (added, removed int) {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			added += countLines(d.Text)
		case diffmatchpatch.DiffDelete:
			removed += countLines(d.Text)
		}
	}
	return added, removed
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}
