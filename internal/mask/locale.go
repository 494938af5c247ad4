package mask

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// TimestampLayout is DD/MM/YYYY HH:MM.
const TimestampLayout = "02/01/2006 15:04"

// Locale renders amounts and timestamps the way the deployment's operators
// read them.
type Locale struct {
	printer  *message.Printer
	symbol   string
	location *time.Location
	now      func() time.Time
}

// LocaleOption customises a Locale.
type LocaleOption func(*Locale)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) LocaleOption {
	return func(l *Locale) {
		l.now = now
	}
}

// NewLocale builds a Locale for a BCP 47 tag, a currency symbol and an IANA
// time zone name.
func NewLocale(tag, symbol, timezone string, opts ...LocaleOption) (*Locale, error) {
	lang, err := language.Parse(tag)
	if err != nil {
		return nil, fmt.Errorf("parse language tag %q: %w", tag, err)
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}

	l := &Locale{
		printer:  message.NewPrinter(lang),
		symbol:   symbol,
		location: loc,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Brazil is pt-BR, R$ and São Paulo time.
func Brazil(opts ...LocaleOption) *Locale {
	l, err := NewLocale("pt-BR", "R$", "America/Sao_Paulo", opts...)
	if err != nil {
		// tzdata missing on the host; keep going in UTC
		l = &Locale{
			printer:  message.NewPrinter(language.BrazilianPortuguese),
			symbol:   "R$",
			location: time.UTC,
			now:      time.Now,
		}
		for _, opt := range opts {
			opt(l)
		}
	}
	return l
}

// FormatCurrency renders value with the currency symbol, locale grouping and
// exactly two decimals, e.g. R$ 1.234,50.
func (l *Locale) FormatCurrency(value float64) string {
	sign := ""
	if value < 0 {
		sign = "-"
		value = math.Abs(value)
	}
	return sign + l.symbol + " " + l.printer.Sprintf("%.2f", value)
}

// Timestamp is the current wall clock in the locale's time zone.
func (l *Locale) Timestamp() string {
	return l.now().In(l.location).Format(TimestampLayout)
}
