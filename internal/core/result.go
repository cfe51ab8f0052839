package core

// Phase identifies which variant of a Result is active. Exactly one phase is
// active per submission; a new submission supersedes any prior one.
type Phase int

const (
	// PhaseIdle is the initial state before any submission.
	PhaseIdle Phase = iota

	// PhaseNeedsFiles means a submission was attempted with zero files.
	// This is an alternate UI state, not an error, and no request was sent.
	PhaseNeedsFiles

	// PhaseLoading means a request is in flight.
	PhaseLoading

	// PhaseError means the most recent request failed. Err carries the
	// user-facing message.
	PhaseError

	// PhaseSuccess means the most recent request returned recommendations.
	PhaseSuccess
)

// String returns the phase name for logging.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseNeedsFiles:
		return "needs-files"
	case PhaseLoading:
		return "loading"
	case PhaseError:
		return "error"
	case PhaseSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// Result is the observable state of the most recent submission.
type Result struct {
	Phase Phase

	// Generation tags the submission this result belongs to. Responses from
	// superseded generations are never delivered.
	Generation uint64

	// Markdown holds the recommendation text when Phase is PhaseSuccess.
	// It is untrusted LLM output and must be rendered, never executed.
	Markdown string

	// Err holds the normalized failure when Phase is PhaseError.
	Err error
}
