package workspace

import (
	"sort"
	"strings"

	"github.com/alantheprice/vibecode/pkg/manifest"
)

// Tree renders manifest paths as an ASCII tree, one line per node, with
// siblings sorted by name.
func Tree(files []manifest.File) []string {
	children := map[string]map[string]bool{}
	roots := map[string]bool{}

	for _, f := range files {
		parts := strings.Split(strings.ReplaceAll(f.Filename, "\\", "/"), "/")
		roots[parts[0]] = true
		for i := 1; i < len(parts); i++ {
			parent := strings.Join(parts[:i], "/")
			if children[parent] == nil {
				children[parent] = map[string]bool{}
			}
			children[parent][parts[i]] = true
		}
	}

	var lines []string
	var build func(prefix, path string)
	build = func(prefix, path string) {
		names := sortedKeys(children[path])
		for i, name := range names {
			last := i == len(names)-1
			connector, indent := "├── ", "│   "
			if last {
				connector, indent = "└── ", "    "
			}
			lines = append(lines, prefix+connector+name)
			build(prefix+indent, path+"/"+name)
		}
	}

	for _, r := range sortedKeys(roots) {
		lines = append(lines, r)
		build("", r)
	}
	return lines
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
