package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rgdevment/service-report/internal/app"
	"github.com/rgdevment/service-report/internal/domain"
	"github.com/rgdevment/service-report/internal/platform/logger"
	"github.com/rgdevment/service-report/internal/service"
)

var (
	submitService      string
	submitOther        string
	submitProfessional string
	submitPhone        string
	submitAmount       string
	submitNotes        string
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Send one service report through the configured relay",
	Long: `Fills a form session from flags and submits it once.

--service takes a catalogue entry. Use --service Outro --other "<text>"
for a service outside the catalogue. Exits non-zero when validation or the
relay fails.`,
	RunE: runSubmit,
}

func init() {
	f := submitCmd.Flags()
	f.StringVar(&submitService, "service", "", "catalogue service, or \""+domain.OtherServiceLabel+"\"")
	f.StringVar(&submitOther, "other", "", "free-text service when --service is \""+domain.OtherServiceLabel+"\"")
	f.StringVar(&submitProfessional, "professional", "", "name of the professional")
	f.StringVar(&submitPhone, "phone", "", "client phone, DDD + number")
	f.StringVar(&submitAmount, "amount", "", "amount charged, e.g. 150,00")
	f.StringVar(&submitNotes, "notes", "", "optional notes")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logr, err := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	defer func() { _ = logr.Sync() }()

	a, err := app.New(cmd.Context(), cfg, logr, nil)
	if err != nil {
		return err
	}

	ctrl, err := a.NewController()
	if err != nil {
		return err
	}
	defer ctrl.Close()

	if submitService != "" {
		if !domain.IsCatalogued(submitService) {
			return fmt.Errorf("unknown service %q, see the catalogue or use %q", submitService, domain.OtherServiceLabel)
		}
		if err := ctrl.SetService(domain.ChoiceFromSelect(submitService, submitOther)); err != nil {
			return err
		}
	}
	fields := map[string]string{
		domain.FieldProfessional: submitProfessional,
		domain.FieldPhone:        submitPhone,
		domain.FieldAmount:       submitAmount,
		domain.FieldNotes:        submitNotes,
	}
	for field, value := range fields {
		if _, err := ctrl.SetField(field, value); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	err = ctrl.Submit(cmd.Context())

	var invalid *service.ValidationFailedError
	if errors.As(err, &invalid) {
		fmt.Fprintln(out, "⚠️  Campos inválidos")
		keys := make([]string, 0, len(invalid.Errors))
		for k := range invalid.Errors {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(out, "  %s: %s\n", k, invalid.Errors[k])
		}
		return err
	}
	if err != nil {
		return err
	}

	view := ctrl.Snapshot()
	fmt.Fprintf(out, "✅ Enviado com sucesso! (%s)\n", view.LastSubmission)
	return nil
}
