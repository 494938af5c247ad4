// Package app assembles the form service from configuration. Both binaries
// build their controllers through it.
package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rgdevment/service-report/internal/config"
	"github.com/rgdevment/service-report/internal/mask"
	"github.com/rgdevment/service-report/internal/platform/logger"
	"github.com/rgdevment/service-report/internal/platform/metrics"
	"github.com/rgdevment/service-report/internal/platform/relay"
	"github.com/rgdevment/service-report/internal/service"
)

type App struct {
	Config  *config.Config
	Log     logger.Logger
	Locale  *mask.Locale
	Builder *service.PayloadBuilder
	Sender  service.Sender
	Metrics *metrics.Metrics
}

// New builds every long-lived collaborator. reg may be nil to skip metrics.
func New(ctx context.Context, cfg *config.Config, log logger.Logger, reg prometheus.Registerer) (*App, error) {
	locale, err := mask.NewLocale(cfg.Locale.Language, cfg.Locale.CurrencySymbol, cfg.Locale.Timezone)
	if err != nil {
		return nil, err
	}

	builder, err := service.NewPayloadBuilder(cfg.Relay.BusinessPhone, cfg.Form.BusinessName, locale)
	if err != nil {
		return nil, err
	}

	sender, err := NewSender(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:  cfg,
		Log:     log,
		Locale:  locale,
		Builder: builder,
		Sender:  sender,
	}
	if reg != nil {
		a.Metrics = metrics.New(reg, cfg.Relay.Driver)
	}
	return a, nil
}

// NewSender picks the relay driver.
func NewSender(ctx context.Context, cfg *config.Config) (service.Sender, error) {
	switch cfg.Relay.Driver {
	case config.DriverWebhook:
		return relay.NewWebhookClient(cfg.Relay.WebhookURL, nil, cfg.Relay.Timeout), nil
	case config.DriverSNS:
		client, err := relay.ConnectSNS(ctx, cfg.AWS.Region)
		if err != nil {
			return nil, err
		}
		return relay.NewSNSRelay(client), nil
	default:
		return nil, fmt.Errorf("unknown relay driver %q", cfg.Relay.Driver)
	}
}

// NewController opens one form session.
func (a *App) NewController(opts ...service.Option) (*service.Controller, error) {
	base := []service.Option{
		service.WithLogger(a.Log),
		service.WithAutoReset(a.Config.Form.AutoReset),
	}
	if a.Metrics != nil {
		base = append(base, service.WithRecorder(a.Metrics))
	}
	return service.NewController(service.NewValidator(), a.Builder, a.Sender, append(base, opts...)...)
}
