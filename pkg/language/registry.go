package language

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
)

func interpreted(name string, exts []string, runtime ...string) Handler {
	return Handler{
		Name:       name,
		Extensions: exts,
		Executable: true,
		runtime:    &Tool{Kind: Runtime, Candidates: runtime, VersionArgs: []string{"--version"}},
		run: func(tool, file string) (string, []string) {
			return tool, []string{file}
		},
	}
}

func native(name, ext, compiler string) Handler {
	return Handler{
		Name:       name,
		Extensions: []string{ext},
		Executable: true,
		compiler:   &Tool{Kind: Compiler, Candidates: []string{compiler}, VersionArgs: []string{"--version"}},
		compile: func(tool, file string) (string, []string) {
			return tool, []string{file, "-o", stem(file)}
		},
		run: func(_, file string) (string, []string) {
			return "./" + stem(file), nil
		},
		artifact: stem,
	}
}

func document(name string, exts ...string) Handler {
	return Handler{Name: name, Extensions: exts}
}

var builtin = []Handler{
	interpreted("Python", []string{".py"}, "python3", "python"),
	interpreted("JavaScript", []string{".js"}, "node"),
	{
		Name:       "TypeScript",
		Extensions: []string{".ts"},
		Executable: true,
		compiler:   &Tool{Kind: Compiler, Candidates: []string{"tsc"}, VersionArgs: []string{"--version"}},
		runtime:    &Tool{Kind: Runtime, Candidates: []string{"node"}, VersionArgs: []string{"--version"}},
		compile: func(tool, file string) (string, []string) {
			return tool, []string{file}
		},
		run: func(tool, file string) (string, []string) {
			return tool, []string{strings.TrimSuffix(file, filepath.Ext(file)) + ".js"}
		},
	},
	{
		Name:       "Java",
		Extensions: []string{".java"},
		Executable: true,
		compiler:   &Tool{Kind: Compiler, Candidates: []string{"javac"}, VersionArgs: []string{"-version"}},
		runtime:    &Tool{Kind: Runtime, Candidates: []string{"java"}, VersionArgs: []string{"-version"}},
		compile: func(tool, file string) (string, []string) {
			return tool, []string{file}
		},
		run: func(tool, file string) (string, []string) {
			return tool, []string{"-cp", filepath.Dir(file), stem(file)}
		},
	},
	native("C++", ".cpp", "g++"),
	native("C", ".c", "gcc"),
	{
		Name:       "C#",
		Extensions: []string{".cs"},
		Executable: true,
		compiler:   &Tool{Kind: Compiler, Candidates: []string{"csc", "mcs"}, VersionArgs: []string{"-version"}},
		runtime:    &Tool{Kind: Runtime, Candidates: []string{"mono"}, VersionArgs: []string{"--version"}},
		compile: func(tool, file string) (string, []string) {
			return tool, []string{"-out:" + stem(file) + ".exe", file}
		},
		run: func(tool, file string) (string, []string) {
			return tool, []string{stem(file) + ".exe"}
		},
	},
	{
		Name:       "Go",
		Extensions: []string{".go"},
		Executable: true,
		runtime:    &Tool{Kind: Runtime, Candidates: []string{"go"}, VersionArgs: []string{"version"}},
		run: func(tool, file string) (string, []string) {
			return tool, []string{"run", file}
		},
	},
	native("Rust", ".rs", "rustc"),
	interpreted("Ruby", []string{".rb"}, "ruby"),
	interpreted("PHP", []string{".php"}, "php"),
	document("HTML", ".html"),
	document("CSS", ".css"),
	document("JSON", ".json"),
	document("Markdown", ".md"),
	document("Text", ".txt"),
	document("XML", ".xml"),
	document("YAML", ".yaml", ".yml"),
}

// Registry resolves filenames to handlers in a fixed priority order.
type Registry struct {
	handlers []Handler
}

// NewRegistry builds a registry over handlers; order is resolution priority.
func NewRegistry(handlers ...Handler) *Registry {
	return &Registry{handlers: append([]Handler(nil), handlers...)}
}

// Default returns a registry over every built-in handler.
func Default() *Registry {
	return NewRegistry(builtin...)
}

// Resolve returns the first handler matching filename.
func (r *Registry) Resolve(filename string) (Handler, bool) {
	for _, h := range r.handlers {
		if h.Matches(filename) {
			return h, true
		}
	}
	return Handler{}, false
}

// Handlers returns the handlers in priority order.
func (r *Registry) Handlers() []Handler {
	return append([]Handler(nil), r.handlers...)
}

// Lookup finds a handler by display name under Unicode case folding.
func (r *Registry) Lookup(name string) (Handler, bool) {
	fold := cases.Fold()
	want := fold.String(strings.TrimSpace(name))
	for _, h := range r.handlers {
		if fold.String(h.Name) == want {
			return h, true
		}
	}
	return Handler{}, false
}
