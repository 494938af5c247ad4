package service

import (
	"fmt"

	"github.com/rgdevment/service-report/internal/domain"
)

// EventKind is something that happened to a form session.
type EventKind string

const (
	EventSubmitRequested  EventKind = "SUBMIT_REQUESTED"
	EventValidationFailed EventKind = "VALIDATION_FAILED"
	EventValidationPassed EventKind = "VALIDATION_PASSED"
	EventWebhookSucceeded EventKind = "WEBHOOK_SUCCEEDED"
	EventWebhookFailed    EventKind = "WEBHOOK_FAILED"
	EventAutoResetElapsed EventKind = "AUTO_RESET_ELAPSED"
)

// Event carries Reason only for EventWebhookFailed.
type Event struct {
	Kind   EventKind
	Reason string
}

// Effect is work the host must perform after a transition, in order.
type Effect string

const (
	EffectValidate       Effect = "VALIDATE"
	EffectShowErrors     Effect = "SHOW_ERRORS"
	EffectNotifyInvalid  Effect = "NOTIFY_INVALID"
	EffectDispatch       Effect = "DISPATCH"
	EffectResetForm      Effect = "RESET_FORM"
	EffectNotifySuccess  Effect = "NOTIFY_SUCCESS"
	EffectStartAutoReset Effect = "START_AUTO_RESET"
	EffectShowFailure    Effect = "SHOW_FAILURE"
)

// Transition is the whole submission state machine as a pure function.
// Error is retried simply by submitting again; there is no dedicated retry event.
func Transition(s domain.SubmissionState, ev Event) (domain.SubmissionState, []Effect, error) {
	switch s.Kind {
	case domain.StateIdle, domain.StateError:
		if ev.Kind == EventSubmitRequested {
			return domain.Validating, []Effect{EffectValidate}, nil
		}

	case domain.StateValidating:
		switch ev.Kind {
		case EventValidationFailed:
			return domain.Idle, []Effect{EffectShowErrors, EffectNotifyInvalid}, nil
		case EventValidationPassed:
			return domain.Submitting, []Effect{EffectDispatch}, nil
		case EventSubmitRequested:
			return s, nil, ErrSubmissionInFlight
		}

	case domain.StateSubmitting:
		switch ev.Kind {
		case EventWebhookSucceeded:
			return domain.Success, []Effect{EffectResetForm, EffectNotifySuccess, EffectStartAutoReset}, nil
		case EventWebhookFailed:
			reason := ev.Reason
			if reason == "" {
				reason = DefaultDispatchReason
			}
			return domain.Failed(reason), []Effect{EffectShowFailure}, nil
		case EventSubmitRequested:
			return s, nil, ErrSubmissionInFlight
		}

	case domain.StateSuccess:
		if ev.Kind == EventAutoResetElapsed {
			return domain.Idle, nil, nil
		}
	}

	return s, nil, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, ev.Kind, s)
}
