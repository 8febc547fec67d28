package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alantheprice/vibecode/pkg/manifest"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		task string
		want string
	}{
		{"Write a script that prints hello", "write-a-script-that-prints-hello"},
		{"  Build a REST API!!  ", "build-a-rest-api"},
		{"Café crème résumé", "cafe-creme-resume"},
		{"!!!", "project"},
		{"", "project"},
		{"a very long task description that keeps going", "a-very-long-task-description-tha"},
		{"exactly thirty one characters x - tail", "exactly-thirty-one-characters-x"},
	}

	for _, tt := range tests {
		t.Run(tt.task, func(t *testing.T) {
			got := Slug(tt.task)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), 32)
		})
	}
}

func TestWriter_RoundTripAndIdempotence(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root, []string{".git/"}, nil)
	files := []manifest.File{
		{Filename: "main.py", Content: "print('héllo')\n"},
		{Filename: "pkg/util/helpers.py", Content: "def f():\n    return 1"},
		{Filename: "empty.txt", Content: ""},
	}

	first, err := w.Write("demo", files)
	require.NoError(t, err)
	require.Len(t, first.Written, 3)
	assert.True(t, first.Written[0].Created)
	assert.Equal(t, 1, first.Written[0].LinesAdded)
	assert.Equal(t, 2, first.Written[1].LinesAdded)
	assert.Equal(t, "pkg/util/helpers.py", first.Written[1].Path)

	second, err := w.Write("demo", files)
	require.NoError(t, err)
	for _, wf := range second.Written {
		assert.False(t, wf.Created)
		assert.False(t, wf.Changed)
	}

	for _, f := range files {
		data, err := os.ReadFile(filepath.Join(root, "demo", filepath.FromSlash(f.Filename)))
		require.NoError(t, err)
		assert.Equal(t, []byte(f.Content), data)
	}
}

func TestWriter_ReportsLineChanges(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root, nil, nil)

	_, err := w.Write("p", []manifest.File{{Filename: "a.py", Content: "one\ntwo\nthree\n"}})
	require.NoError(t, err)

	report, err := w.Write("p", []manifest.File{{Filename: "a.py", Content: "one\n2\nthree\nfour\n"}})
	require.NoError(t, err)
	require.Len(t, report.Written, 1)
	got := report.Written[0]
	assert.True(t, got.Changed)
	assert.Equal(t, 2, got.LinesAdded)
	assert.Equal(t, 1, got.LinesRemoved)
}

func TestWriter_SkipsUnsafePaths(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(filepath.Join(root, "projects"), []string{".git/", "*.pem"}, nil)

	report, err := w.Write("p", []manifest.File{
		{Filename: "../escape.py", Content: "x"},
		{Filename: "a/../../escape.py", Content: "x"},
		{Filename: "/etc/passwd", Content: "x"},
		{Filename: ".git/HEAD", Content: "x"},
		{Filename: "certs/key.pem", Content: "x"},
		{Filename: "  ", Content: "x"},
		{Filename: "ok/../main.py", Content: "print(1)"},
	})
	require.NoError(t, err)

	require.Len(t, report.Written, 1)
	assert.Equal(t, "main.py", report.Written[0].Path)
	assert.Len(t, report.Skipped, 6)
	assert.NoFileExists(t, filepath.Join(root, "escape.py"))
	assert.NoFileExists(t, filepath.Join(root, "projects", "p", ".git", "HEAD"))
}

func TestWriter_ContinuesAfterFailure(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root, nil, nil)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "p", "blocked"), 0755))

	report, err := w.Write("p", []manifest.File{
		{Filename: "blocked", Content: "cannot replace a directory"},
		{Filename: "main.py", Content: "print(1)"},
	})

	assert.Error(t, err)
	require.Len(t, report.Written, 1)
	assert.Equal(t, "main.py", report.Written[0].Path)
}

func TestTree(t *testing.T) {
	files := []manifest.File{
		{Filename: "src/utils/helpers.py"},
		{Filename: "main.py"},
		{Filename: "src/app.py"},
		{Filename: "README.md"},
	}

	assert.Equal(t, []string{
		"README.md",
		"main.py",
		"src",
		"├── app.py",
		"└── utils",
		"    └── helpers.py",
	}, Tree(files))
	assert.Empty(t, Tree(nil))
}
