package domain

import (
	"strings"
)

// ServiceKind distinguishes a catalogue entry from operator free text.
// Using a custom type prevents mixing the two when resolving the label.
type ServiceKind string

const (
	ServicePredefined ServiceKind = "PREDEFINED"
	ServiceCustom     ServiceKind = "CUSTOM"
)

// OtherServiceLabel is the catch-all catalogue option that switches the
// form to free text.
const OtherServiceLabel = "Outro"

// Catalogue is the fixed list of services offered in the form select,
// in display order. OtherServiceLabel is always last.
var Catalogue = []string{
	"Limpeza completa",
	"Tratamento químico",
	"Manutenção preventiva",
	"Troca de filtro",
	"Aspiração",
	"Análise de água",
	"Instalação de equipamento",
	"Reparo de bomba",
	OtherServiceLabel,
}

// ServiceChoice is a tagged variant: Predefined(label) | Custom(text).
// It is only collapsed to a single string by Resolve.
type ServiceChoice struct {
	Kind  ServiceKind `json:"kind"`
	Value string      `json:"value"`
}

// Predefined builds a catalogue choice.
func Predefined(label string) ServiceChoice {
	return ServiceChoice{Kind: ServicePredefined, Value: label}
}

// Custom builds a free-text choice.
func Custom(text string) ServiceChoice {
	return ServiceChoice{Kind: ServiceCustom, Value: text}
}

// ChoiceFromSelect maps the raw select value plus the conditional free-text
// input into a ServiceChoice. Selecting OtherServiceLabel means Custom.
func ChoiceFromSelect(selected, other string) ServiceChoice {
	if selected == OtherServiceLabel {
		return Custom(other)
	}
	return Predefined(selected)
}

// Resolve returns the label that goes on the report: the catalogue entry as
// is, or the trimmed free text.
func (c ServiceChoice) Resolve() string {
	if c.Kind == ServiceCustom {
		return strings.TrimSpace(c.Value)
	}
	return c.Value
}

// IsCatalogued reports whether label is one of the predefined services.
func IsCatalogued(label string) bool {
	for _, s := range Catalogue {
		if s == label {
			return true
		}
	}
	return false
}

// ServiceReport is the draft being filled in by the operator.
// It lives for one form session and is wiped on a successful send.
type ServiceReport struct {
	Service      ServiceChoice `json:"service"`
	Professional string        `json:"professional"`

	// PhoneRaw is always kept in its masked display form, e.g. (11) 98765-4321.
	PhoneRaw string `json:"phone"`

	// Amount is masked text with a comma decimal separator, e.g. 199,90.
	Amount string `json:"amount"`

	Notes string `json:"notes"`
}

// NewServiceReport is a factory for an empty draft.
func NewServiceReport() *ServiceReport {
	return &ServiceReport{}
}

// Reset clears every field of the draft.
func (r *ServiceReport) Reset() {
	*r = ServiceReport{}
}

// Field names used as keys in ValidationErrors and in the form contract.
const (
	FieldService      = "service"
	FieldProfessional = "professional"
	FieldPhone        = "phone"
	FieldAmount       = "amount"
	FieldNotes        = "notes"
)

// ValidationErrors maps a field name to a user-facing message.
// An empty map means the draft can be submitted.
type ValidationErrors map[string]string

// OK reports whether there are no errors.
func (v ValidationErrors) OK() bool {
	return len(v) == 0
}
