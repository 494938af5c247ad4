package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rgdevment/service-report/internal/domain"
)

// Sender is the outbound relay. One call is one request: implementations
// must not retry and must not inspect the response body.
type Sender interface {
	Send(ctx context.Context, payload domain.NotificationPayload) error
}

// Recorder receives submission telemetry.
type Recorder interface {
	SubmissionOutcome(outcome string)
	DispatchDuration(d time.Duration)
}

const (
	OutcomeInvalid = "invalid"
	OutcomeSent    = "sent"
	OutcomeFailed  = "failed"
)

type noopRecorder struct{}

func (noopRecorder) SubmissionOutcome(string)       {}
func (noopRecorder) DispatchDuration(time.Duration) {}

var (
	// ErrSubmissionInFlight is returned when Submit is called while a request is pending.
	ErrSubmissionInFlight = errors.New("a submission is already in flight")

	// ErrFormLocked is returned for edits attempted while Submitting.
	ErrFormLocked = errors.New("form is locked while submitting")

	ErrInvalidTransition = errors.New("invalid state transition")
	ErrUnknownField      = errors.New("unknown form field")
	ErrClosed            = errors.New("form session is closed")
)

// DefaultDispatchReason is shown when a relay fails without a message.
const DefaultDispatchReason = "Erro ao enviar dados"

// ValidationFailedError carries the per-field messages of a rejected submit.
type ValidationFailedError struct {
	Errors domain.ValidationErrors
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("validation failed: %d field(s)", len(e.Errors))
}

// DispatchError is a request level failure. Reason is shown to the operator verbatim.
type DispatchError struct {
	Reason string
	Err    error
}

func (e *DispatchError) Error() string {
	return e.Reason
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

func dispatchReason(err error) string {
	var de *DispatchError
	if errors.As(err, &de) && de.Reason != "" {
		return de.Reason
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return DefaultDispatchReason
}
