package service

import (
	"errors"
	"strings"

	"github.com/rgdevment/service-report/internal/domain"
	"github.com/rgdevment/service-report/internal/mask"
)

// EmptyNotes stands in for missing notes in the message body.
const EmptyNotes = "—"

const messageTemplate = `🧾 *Relatório de Serviço — {{business}}*
• *Serviço:* {{service}}
• *Profissional:* {{professional}}
• *Cliente (WhatsApp):* {{phone}}
• *Valor cobrado:* {{amount}}
• *Observações:* {{notes}}

⏱️ *Data/Hora:* {{timestamp}}`

// PayloadBuilder turns a valid draft into the relay payload.
type PayloadBuilder struct {
	businessPhone string
	businessName  string
	locale        *mask.Locale
}

// NewPayloadBuilder refuses to build without a business number, so no
// submission can happen on an unconfigured deployment.
func NewPayloadBuilder(businessPhone, businessName string, locale *mask.Locale) (*PayloadBuilder, error) {
	if strings.TrimSpace(businessPhone) == "" {
		return nil, errors.New("business phone is required")
	}
	if locale == nil {
		return nil, errors.New("locale is required")
	}
	return &PayloadBuilder{
		businessPhone: businessPhone,
		businessName:  businessName,
		locale:        locale,
	}, nil
}

// Message renders the human readable block. Line order is consumed by people
// reading it on WhatsApp and must not change.
func (b *PayloadBuilder) Message(r *domain.ServiceReport) string {
	notes := strings.TrimSpace(r.Notes)
	if notes == "" {
		notes = EmptyNotes
	}

	replacer := strings.NewReplacer(
		"{{business}}", b.businessName,
		"{{service}}", r.Service.Resolve(),
		"{{professional}}", strings.TrimSpace(r.Professional),
		"{{phone}}", mask.ToE164(r.PhoneRaw),
		"{{amount}}", b.locale.FormatCurrency(mask.ParseCurrency(r.Amount)),
		"{{notes}}", notes,
		"{{timestamp}}", b.locale.Timestamp(),
	)
	return replacer.Replace(messageTemplate)
}

// Build assembles the payload: client first, business second.
func (b *PayloadBuilder) Build(r *domain.ServiceReport) domain.NotificationPayload {
	clientPhone := mask.ToE164(r.PhoneRaw)

	return domain.NotificationPayload{
		Recipients: []string{clientPhone, b.businessPhone},
		Message:    b.Message(r),
		Data: domain.NotificationData{
			Service:      r.Service.Resolve(),
			Professional: strings.TrimSpace(r.Professional),
			ClientPhone:  clientPhone,
			Notes:        strings.TrimSpace(r.Notes),
			Amount:       mask.ParseCurrency(r.Amount),
		},
		Source: domain.SourceTag,
	}
}
