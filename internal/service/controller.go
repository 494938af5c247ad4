package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rgdevment/service-report/internal/domain"
	"github.com/rgdevment/service-report/internal/mask"
	"github.com/rgdevment/service-report/internal/platform/logger"
)

// DefaultAutoReset is how long the success state is shown before going idle.
const DefaultAutoReset = 3 * time.Second

var (
	invalidNotice = domain.Notice{
		Kind:        domain.NoticeDestructive,
		Title:       "Campos inválidos",
		Description: "Verifique os campos destacados",
	}
	successNotice = domain.Notice{
		Kind:        domain.NoticeSuccess,
		Title:       "Enviado com sucesso!",
		Description: "O relatório foi enviado para o WhatsApp",
	}
)

// Timer is the part of *time.Timer the controller needs.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d. time.AfterFunc satisfies it through AfterFunc.
type Scheduler func(d time.Duration, f func()) Timer

// AfterFunc is the production Scheduler.
func AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// View is a copy of everything a form renderer needs.
type View struct {
	State          domain.SubmissionState  `json:"state"`
	Fields         domain.ServiceReport    `json:"fields"`
	Errors         domain.ValidationErrors `json:"errors"`
	Notice         *domain.Notice          `json:"notice,omitempty"`
	LastSubmission string                  `json:"last_submission,omitempty"`
}

// Controller owns one form session: the draft, its errors and the
// SubmissionState. It drives Transition and performs the effects.
type Controller struct {
	mu sync.Mutex

	state  domain.SubmissionState
	draft  *domain.ServiceReport
	errors domain.ValidationErrors
	notice *domain.Notice

	validator *Validator
	builder   *PayloadBuilder
	sender    Sender

	log       logger.Logger
	recorder  Recorder
	schedule  Scheduler
	autoReset time.Duration
	onNotice  func(domain.Notice)

	// scratch for the effect loop
	lastValidation domain.ValidationErrors
	outbox         *domain.NotificationPayload
	submissionID   string

	resetTimer Timer
	closed     bool
}

// Option customises a Controller.
type Option func(*Controller)

func WithLogger(l logger.Logger) Option {
	return func(c *Controller) { c.log = l }
}

func WithRecorder(r Recorder) Option {
	return func(c *Controller) { c.recorder = r }
}

func WithScheduler(s Scheduler) Option {
	return func(c *Controller) { c.schedule = s }
}

func WithAutoReset(d time.Duration) Option {
	return func(c *Controller) { c.autoReset = d }
}

// WithNoticeHandler receives every notice as it is emitted. It is called with
// the controller lock held and must not call back into the Controller.
func WithNoticeHandler(f func(domain.Notice)) Option {
	return func(c *Controller) { c.onNotice = f }
}

func NewController(v *Validator, b *PayloadBuilder, s Sender, opts ...Option) (*Controller, error) {
	if v == nil || b == nil || s == nil {
		return nil, errors.New("validator, payload builder and sender are required")
	}

	c := &Controller{
		state:     domain.Idle,
		draft:     domain.NewServiceReport(),
		errors:    domain.ValidationErrors{},
		validator: v,
		builder:   b,
		sender:    s,
		log:       logger.NewNoOpLogger(),
		recorder:  noopRecorder{},
		schedule:  AfterFunc,
		autoReset: DefaultAutoReset,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SetField stores one text input, masking phone and amount. It returns the
// value as it should now be displayed.
func (c *Controller) SetField(field, value string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.editable(); err != nil {
		return "", err
	}

	switch field {
	case domain.FieldProfessional:
		c.draft.Professional = value
	case domain.FieldPhone:
		c.draft.PhoneRaw = mask.Phone(value)
		value = c.draft.PhoneRaw
	case domain.FieldAmount:
		c.draft.Amount = mask.Currency(value)
		value = c.draft.Amount
	case domain.FieldNotes:
		c.draft.Notes = value
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return value, nil
}

// SetService stores the service select plus its free-text variant.
func (c *Controller) SetService(choice domain.ServiceChoice) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.editable(); err != nil {
		return err
	}
	c.draft.Service = choice
	return nil
}

func (c *Controller) editable() error {
	if c.closed {
		return ErrClosed
	}
	if c.state.Kind == domain.StateSubmitting || c.state.Kind == domain.StateValidating {
		return ErrFormLocked
	}
	return nil
}

// Submit validates the draft and, when valid, sends it through the relay
// exactly once. It returns *ValidationFailedError, *DispatchError,
// ErrSubmissionInFlight, ErrInvalidTransition or nil on success.
//
// The lock is released while the relay call is pending, so Snapshot keeps
// working and a concurrent Submit is turned away by the state machine.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}

	id := uuid.NewString()
	log := c.log.WithFields(map[string]interface{}{"submissionId": id})

	c.outbox = nil
	if err := c.fire(Event{Kind: EventSubmitRequested}); err != nil {
		c.mu.Unlock()
		if errors.Is(err, ErrSubmissionInFlight) {
			log.Warn("submit rejected, request in flight", nil)
		}
		return err
	}

	if c.outbox == nil {
		errs := copyErrors(c.errors)
		c.mu.Unlock()

		c.recorder.SubmissionOutcome(OutcomeInvalid)
		log.Warn("submission rejected by validation", map[string]interface{}{
			"fields": len(errs),
		})
		return &ValidationFailedError{Errors: errs}
	}

	payload := *c.outbox
	c.outbox = nil
	c.submissionID = id
	c.mu.Unlock()

	log = log.WithFields(map[string]interface{}{"clientPhone": payload.Data.ClientPhone})
	log.Info("dispatching report", nil)

	start := time.Now()
	sendErr := c.sender.Send(ctx, payload)
	c.recorder.DispatchDuration(time.Since(start))

	c.mu.Lock()
	defer c.mu.Unlock()

	if sendErr != nil {
		reason := dispatchReason(sendErr)
		if err := c.fire(Event{Kind: EventWebhookFailed, Reason: reason}); err != nil {
			return err
		}
		c.recorder.SubmissionOutcome(OutcomeFailed)
		log.Error("dispatch failed", map[string]interface{}{
			"reason": reason,
			"error":  sendErr,
		})

		var de *DispatchError
		if errors.As(sendErr, &de) {
			return de
		}
		return &DispatchError{Reason: reason, Err: sendErr}
	}

	if err := c.fire(Event{Kind: EventWebhookSucceeded}); err != nil {
		return err
	}
	c.recorder.SubmissionOutcome(OutcomeSent)
	log.Info("report sent", nil)
	return nil
}

// fire runs one transition and its effects. Caller holds c.mu.
func (c *Controller) fire(ev Event) error {
	next, effects, err := Transition(c.state, ev)
	if err != nil {
		return err
	}
	c.state = next

	for _, eff := range effects {
		switch eff {
		case EffectValidate:
			c.lastValidation = c.validator.Validate(c.draft)
			follow := EventValidationPassed
			if !c.lastValidation.OK() {
				follow = EventValidationFailed
			}
			if err := c.fire(Event{Kind: follow}); err != nil {
				return err
			}

		case EffectShowErrors:
			c.errors = c.lastValidation

		case EffectNotifyInvalid:
			c.emit(invalidNotice)

		case EffectDispatch:
			c.errors = domain.ValidationErrors{}
			payload := c.builder.Build(c.draft)
			c.outbox = &payload

		case EffectResetForm:
			c.draft.Reset()
			c.errors = domain.ValidationErrors{}

		case EffectNotifySuccess:
			c.emit(successNotice)

		case EffectStartAutoReset:
			if !c.closed {
				c.resetTimer = c.schedule(c.autoReset, c.autoResetElapsed)
			}

		case EffectShowFailure:
			// the reason already lives on the Error state
		}
	}
	return nil
}

func (c *Controller) emit(n domain.Notice) {
	c.notice = &n
	if c.onNotice != nil {
		c.onNotice(n)
	}
}

func (c *Controller) autoResetElapsed() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.resetTimer = nil
	if err := c.fire(Event{Kind: EventAutoResetElapsed}); err != nil {
		c.log.Warn("auto reset ignored", map[string]interface{}{"error": err})
		return
	}
	c.notice = nil
}

// State returns the current SubmissionState.
func (c *Controller) State() domain.SubmissionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot copies the session for rendering.
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		State:          c.state,
		Fields:         *c.draft,
		Errors:         copyErrors(c.errors),
		LastSubmission: c.submissionID,
	}
	if c.notice != nil {
		n := *c.notice
		v.Notice = &n
	}
	return v
}

// Close ends the session and cancels a pending auto reset. An in-flight
// request still completes; its outcome is recorded but no timer is started.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	if c.resetTimer != nil {
		c.resetTimer.Stop()
		c.resetTimer = nil
	}
}

func copyErrors(in domain.ValidationErrors) domain.ValidationErrors {
	out := make(domain.ValidationErrors, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
