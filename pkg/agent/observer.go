package agent

import "github.com/alantheprice/vibecode/pkg/manifest"

// Observer receives progress from the agent. Calls are made without the
// agent's lock held and may come from worker goroutines.
type Observer interface {
	OnStatus(status string)
	OnFiles(files []manifest.File)
	OnOutcome(out Outcome)
}

// NopObserver ignores everything.
type NopObserver struct{}

func (NopObserver) OnStatus(string)         {}
func (NopObserver) OnFiles([]manifest.File) {}
func (NopObserver) OnOutcome(Outcome)       {}
