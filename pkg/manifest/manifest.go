// Package manifest turns model responses into validated lists of generated files.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyManifest is returned when a response decodes but lists no files.
	ErrEmptyManifest = errors.New("no files found in response")
	// ErrMissingFiles is returned when a response has no "files" key.
	ErrMissingFiles = errors.New(`response has no "files" key`)
)

// File is one generated file: a relative path and its full text.
type File struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

type document struct {
	Files *[]File `json:"files"`
}

// Normalize strips a surrounding code fence and repairs a single-quoted
// dictionary literal.
func Normalize(raw string) string {
	text := raw
	if strings.HasPrefix(strings.TrimSpace(text), "```") {
		lines := strings.Split(strings.TrimSpace(text), "\n")
		if len(lines) >= 2 {
			text = strings.Join(lines[1:len(lines)-1], "\n")
		} else {
			text = ""
		}
	}
	if strings.HasPrefix(strings.TrimSpace(text), "{'files'") {
		text = strings.ReplaceAll(text, "'", `"`)
	}
	return text
}

// Decode parses one response into files. It never calls the model.
func Decode(raw string) ([]File, error) {
	text := Normalize(raw)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("empty response")
	}

	files, err := decodeStrict(text)
	if err == nil {
		return files, nil
	}
	if extracted, ok := extractObject(text); ok && extracted != strings.TrimSpace(text) {
		if files, xerr := decodeStrict(extracted); xerr == nil {
			return files, nil
		}
	}
	return nil, err
}

func decodeStrict(text string) ([]File, error) {
	var doc document
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if doc.Files == nil {
		return nil, ErrMissingFiles
	}
	files := *doc.Files
	if len(files) == 0 {
		return nil, ErrEmptyManifest
	}
	for i := range files {
		files[i].Filename = strings.TrimSpace(files[i].Filename)
		if files[i].Filename == "" {
			return nil, fmt.Errorf("file entry %d has no filename", i)
		}
	}
	return files, nil
}

// extractObject returns the span from the first '{' to the last '}'.
func extractObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return strings.TrimSpace(text[start : end+1]), true
}

// Encode renders files as the canonical {"files": [...]} document.
func Encode(files []File) string {
	if files == nil {
		files = []File{}
	}
	data, err := json.Marshal(struct {
		Files []File `json:"files"`
	}{files})
	if err != nil {
		// File holds only strings
		panic(err)
	}
	return string(data)
}

// Paths returns the filenames in manifest order.
func Paths(files []File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Filename
	}
	return out
}

// Clone returns an independent copy of files.
func Clone(files []File) []File {
	if files == nil {
		return nil
	}
	return append([]File(nil), files...)
}
