package domain

// StateKind is the phase of a form session.
type StateKind string

const (
	StateIdle       StateKind = "IDLE"
	StateValidating StateKind = "VALIDATING"
	StateSubmitting StateKind = "SUBMITTING"
	StateSuccess    StateKind = "SUCCESS"
	StateError      StateKind = "ERROR"
)

// SubmissionState is exactly one StateKind. Reason is only set for StateError.
type SubmissionState struct {
	Kind   StateKind `json:"kind"`
	Reason string    `json:"reason,omitempty"`
}

var (
	Idle       = SubmissionState{Kind: StateIdle}
	Validating = SubmissionState{Kind: StateValidating}
	Submitting = SubmissionState{Kind: StateSubmitting}
	Success    = SubmissionState{Kind: StateSuccess}
)

// Failed builds the Error(reason) state.
func Failed(reason string) SubmissionState {
	return SubmissionState{Kind: StateError, Reason: reason}
}

func (s SubmissionState) String() string {
	if s.Kind == StateError {
		return string(s.Kind) + "(" + s.Reason + ")"
	}
	return string(s.Kind)
}

// NoticeKind tells the presentation layer how to style a notice.
type NoticeKind string

const (
	NoticeSuccess     NoticeKind = "SUCCESS"
	NoticeDestructive NoticeKind = "DESTRUCTIVE"
)

// Notice is a user-visible toast emitted by the controller. Rendering it is
// up to whoever hosts the form.
type Notice struct {
	Kind        NoticeKind `json:"kind"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
}
