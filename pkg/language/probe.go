package language

import (
	"context"
	"strings"
	"time"

	"github.com/alantheprice/vibecode/pkg/process"
)

// Availability reports whether one tool can be used on this host.
type Availability struct {
	Handler   string
	Kind      ToolKind
	Tool      string
	Path      string
	Version   string
	Available bool
}

// Probe checks every tool the handler needs: a PATH lookup followed by a
// bounded version query.
func Probe(ctx context.Context, ex process.Executor, h Handler, timeout time.Duration) []Availability {
	var out []Availability
	for _, tool := range h.Tools() {
		a := Availability{Handler: h.Name, Kind: tool.Kind, Tool: tool.Name()}
		for _, c := range tool.Candidates {
			path, err := ex.LookPath(c)
			if err != nil {
				continue
			}
			a.Tool, a.Path, a.Available = c, path, true
			break
		}
		if a.Available && len(tool.VersionArgs) > 0 {
			res := ex.Run(ctx, process.Command{Name: a.Tool, Args: tool.VersionArgs, Timeout: timeout})
			if res.Success() {
				a.Version = firstLine(res.Combined())
			}
		}
		out = append(out, a)
	}
	return out
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
