package agent

// State is the position of a session in the attempt loop.
type State int

const (
	Idle State = iota
	AwaitingModel
	ParsingManifest
	Executing
	AwaitingFeedback
	Complete
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingModel:
		return "awaiting_model"
	case ParsingManifest:
		return "parsing_manifest"
	case Executing:
		return "executing"
	case AwaitingFeedback:
		return "awaiting_feedback"
	case Complete:
		return "complete"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the session has finished.
func (s State) Terminal() bool {
	return s == Complete || s == Failed
}
