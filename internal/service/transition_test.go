package service_test

import (
	"testing"

	"github.com/rgdevment/service-report/internal/domain"
	"github.com/rgdevment/service-report/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		Name    string
		From    domain.SubmissionState
		Event   service.Event
		To      domain.SubmissionState
		Effects []service.Effect
	}{
		{
			Name:    "idle submit validates",
			From:    domain.Idle,
			Event:   service.Event{Kind: service.EventSubmitRequested},
			To:      domain.Validating,
			Effects: []service.Effect{service.EffectValidate},
		},
		{
			Name:    "error submit validates again",
			From:    domain.Failed("HTTP 500"),
			Event:   service.Event{Kind: service.EventSubmitRequested},
			To:      domain.Validating,
			Effects: []service.Effect{service.EffectValidate},
		},
		{
			Name:    "invalid draft goes back to idle",
			From:    domain.Validating,
			Event:   service.Event{Kind: service.EventValidationFailed},
			To:      domain.Idle,
			Effects: []service.Effect{service.EffectShowErrors, service.EffectNotifyInvalid},
		},
		{
			Name:    "valid draft dispatches",
			From:    domain.Validating,
			Event:   service.Event{Kind: service.EventValidationPassed},
			To:      domain.Submitting,
			Effects: []service.Effect{service.EffectDispatch},
		},
		{
			Name:  "relay success",
			From:  domain.Submitting,
			Event: service.Event{Kind: service.EventWebhookSucceeded},
			To:    domain.Success,
			Effects: []service.Effect{
				service.EffectResetForm, service.EffectNotifySuccess, service.EffectStartAutoReset,
			},
		},
		{
			Name:    "relay failure keeps reason",
			From:    domain.Submitting,
			Event:   service.Event{Kind: service.EventWebhookFailed, Reason: "HTTP 500"},
			To:      domain.Failed("HTTP 500"),
			Effects: []service.Effect{service.EffectShowFailure},
		},
		{
			Name:    "relay failure without reason",
			From:    domain.Submitting,
			Event:   service.Event{Kind: service.EventWebhookFailed},
			To:      domain.Failed(service.DefaultDispatchReason),
			Effects: []service.Effect{service.EffectShowFailure},
		},
		{
			Name:  "timer returns to idle",
			From:  domain.Success,
			Event: service.Event{Kind: service.EventAutoResetElapsed},
			To:    domain.Idle,
		},
	}

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			next, effects, err := service.Transition(tc.From, tc.Event)
			require.NoError(t, err)
			assert.Equal(t, tc.To, next)
			assert.Equal(t, tc.Effects, effects)
		})
	}
}

func TestTransitionRejects(t *testing.T) {
	cases := []struct {
		Name  string
		From  domain.SubmissionState
		Event service.EventKind
		Err   error
	}{
		{"double submit", domain.Submitting, service.EventSubmitRequested, service.ErrSubmissionInFlight},
		{"submit while validating", domain.Validating, service.EventSubmitRequested, service.ErrSubmissionInFlight},
		{"submit on success screen", domain.Success, service.EventSubmitRequested, service.ErrInvalidTransition},
		{"stray relay result", domain.Idle, service.EventWebhookSucceeded, service.ErrInvalidTransition},
		{"timer outside success", domain.Idle, service.EventAutoResetElapsed, service.ErrInvalidTransition},
		{"validation result outside validating", domain.Failed("x"), service.EventValidationPassed, service.ErrInvalidTransition},
	}

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			next, effects, err := service.Transition(tc.From, service.Event{Kind: tc.Event})
			assert.ErrorIs(t, err, tc.Err)
			assert.Equal(t, tc.From, next)
			assert.Empty(t, effects)
		})
	}
}
