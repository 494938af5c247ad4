package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rgdevment/service-report/internal/domain"
	"github.com/rgdevment/service-report/internal/mask"
	"github.com/rgdevment/service-report/internal/platform/logger"
	"github.com/rgdevment/service-report/internal/service"
)

// ControllerFactory builds a fresh Controller for a new form session.
type ControllerFactory func() (*service.Controller, error)

type Handler struct {
	sessions *SessionStore
	factory  ControllerFactory
	locale   *mask.Locale
	timeout  time.Duration
	log      logger.Logger
}

// NewHandler wires the form API. timeout bounds each relay call; the call is
// detached from the client connection so a dropped browser cannot abort it.
func NewHandler(sessions *SessionStore, factory ControllerFactory, locale *mask.Locale, timeout time.Duration, log logger.Logger) *Handler {
	return &Handler{
		sessions: sessions,
		factory:  factory,
		locale:   locale,
		timeout:  timeout,
		log:      log,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/v1/services", h.ListServices)
	r.Post("/v1/mask/phone", h.MaskPhone)
	r.Post("/v1/mask/currency", h.MaskCurrency)

	r.Post("/v1/sessions", h.CreateSession)
	r.Get("/v1/sessions/{id}", h.GetSession)
	r.Patch("/v1/sessions/{id}", h.UpdateSession)
	r.Post("/v1/sessions/{id}/submit", h.SubmitSession)
	r.Delete("/v1/sessions/{id}", h.DeleteSession)
}

func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"services": domain.Catalogue})
}

func (h *Handler) MaskPhone(w http.ResponseWriter, r *http.Request) {
	var req MaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}

	masked := mask.Phone(req.Value)
	writeJSON(w, http.StatusOK, PhoneMaskResponse{
		Masked:    masked,
		Canonical: mask.ToE164(masked),
		Display:   mask.DisplayPhone(mask.Digits(masked)),
	})
}

func (h *Handler) MaskCurrency(w http.ResponseWriter, r *http.Request) {
	var req MaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}

	masked := mask.Currency(req.Value)
	value := mask.ParseCurrency(masked)
	writeJSON(w, http.StatusOK, CurrencyMaskResponse{
		Masked:  masked,
		Numeric: value,
		Display: h.locale.FormatCurrency(value),
	})
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctrl, err := h.factory()
	if err != nil {
		h.log.Error("failed to open form session", map[string]interface{}{"error": err})
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	id := h.sessions.Add(ctrl)
	h.log.Debug("form session opened", map[string]interface{}{"sessionId": id})
	writeJSON(w, http.StatusCreated, CreateSessionResponse{ID: id})
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ctrl.Snapshot())
}

func (h *Handler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.session(w, r)
	if !ok {
		return
	}

	var req UpdateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if choice, ok := req.Choice(); ok {
		if err := ctrl.SetService(choice); err != nil {
			h.writeControllerError(w, ctrl, err)
			return
		}
	}
	for field, value := range req.TextFields() {
		if _, err := ctrl.SetField(field, value); err != nil {
			h.writeControllerError(w, ctrl, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, ctrl.Snapshot())
}

func (h *Handler) SubmitSession(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.session(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), h.timeout)
	defer cancel()

	if err := ctrl.Submit(ctx); err != nil {
		h.writeControllerError(w, ctrl, err)
		return
	}
	writeJSON(w, http.StatusOK, ctrl.Snapshot())
}

func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if !h.sessions.Delete(chi.URLParam(r, "id")) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*service.Controller, bool) {
	ctrl, ok := h.sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return ctrl, true
}

func (h *Handler) writeControllerError(w http.ResponseWriter, ctrl *service.Controller, err error) {
	view := ctrl.Snapshot()

	var vErr *service.ValidationFailedError
	var dErr *service.DispatchError

	switch {
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Errors: vErr.Errors, View: &view})
	case errors.As(err, &dErr):
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: dErr.Reason, View: &view})
	case errors.Is(err, service.ErrSubmissionInFlight),
		errors.Is(err, service.ErrFormLocked),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrClosed):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: err.Error(), View: &view})
	case errors.Is(err, service.ErrUnknownField):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.log.Error("unexpected form error", map[string]interface{}{"error": err})
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
