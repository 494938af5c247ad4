package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgdevment/service-report/internal/domain"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		submitService, submitOther, submitProfessional = "", "", ""
		submitPhone, submitAmount, submitNotes = "", "", ""
	})
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func relayEnv(t *testing.T, url string) {
	t.Setenv("RELAY_WEBHOOK_URL", url)
	t.Setenv("RELAY_BUSINESS_PHONE", "+5544999999999")
	t.Setenv("LOGGING_LEVEL", "error")
	t.Setenv("LOCALE_TIMEZONE", "UTC")
}

func TestMaskPhoneCommand(t *testing.T) {
	out, err := execute(t, "mask", "phone", "11987654321")
	require.NoError(t, err)
	assert.Contains(t, out, "masked:    (11) 98765-4321")
	assert.Contains(t, out, "canonical: +5511987654321")
	assert.Contains(t, out, "valid:     true")
}

func TestMaskCurrencyCommand(t *testing.T) {
	out, err := execute(t, "mask", "currency", "1234.5")
	require.NoError(t, err)
	assert.Contains(t, out, "masked:  1234,5")
	assert.Contains(t, out, "numeric: 1234.50")
	assert.Contains(t, out, "display: R$ 1.234,50")
}

func TestSubmitCommandSendsReport(t *testing.T) {
	var (
		mu  sync.Mutex
		got domain.NotificationPayload
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	relayEnv(t, srv.URL)

	out, err := execute(t, "submit",
		"--service", domain.OtherServiceLabel,
		"--other", "Troca de areia",
		"--professional", "João",
		"--phone", "11987654321",
		"--amount", "150,00",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Enviado com sucesso!")

	mu.Lock()
	defer mu.Unlock()

	assert.Equal(t, []string{"+5511987654321", "+5544999999999"}, got.Recipients)
	assert.Equal(t, "Troca de areia", got.Data.Service)
	assert.Equal(t, domain.SourceTag, got.Source)
}

func TestSubmitCommandReportsInvalidFields(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()
	relayEnv(t, srv.URL)

	out, err := execute(t, "submit", "--professional", "Ana")
	require.Error(t, err)
	assert.Contains(t, out, "Campos inválidos")
	assert.Contains(t, out, "phone: Telefone inválido (DDD + número)")
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestSubmitCommandFailsOnRelayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	relayEnv(t, srv.URL)

	_, err := execute(t, "submit",
		"--service", "Aspiração",
		"--professional", "Ana",
		"--phone", "4433334444",
		"--amount", "80",
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 500: Internal Server Error")
}
