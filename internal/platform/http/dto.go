package http

import (
	"errors"

	"github.com/rgdevment/service-report/internal/domain"
	"github.com/rgdevment/service-report/internal/service"
)

type MaskRequest struct {
	Value string `json:"value"`
}

type PhoneMaskResponse struct {
	Masked    string `json:"masked"`
	Canonical string `json:"canonical"`
	Display   string `json:"display"`
}

type CurrencyMaskResponse struct {
	Masked  string  `json:"masked"`
	Numeric float64 `json:"numeric"`
	Display string  `json:"display"`
}

type CreateSessionResponse struct {
	ID string `json:"id"`
}

// UpdateSessionRequest carries any subset of the five form inputs. Absent
// fields are left alone.
type UpdateSessionRequest struct {
	Service      *string `json:"service"`
	ServiceOther *string `json:"service_other"`
	Professional *string `json:"professional"`
	Phone        *string `json:"phone"`
	Amount       *string `json:"amount"`
	Notes        *string `json:"notes"`
}

func (r *UpdateSessionRequest) Validate() error {
	if r.ServiceOther != nil && (r.Service == nil || *r.Service != domain.OtherServiceLabel) {
		return errors.New("service_other requires service to be " + domain.OtherServiceLabel)
	}
	if r.Service != nil && *r.Service != "" && !domain.IsCatalogued(*r.Service) {
		return errors.New("invalid service")
	}
	return nil
}

// Choice resolves the select plus free text into a ServiceChoice.
func (r *UpdateSessionRequest) Choice() (domain.ServiceChoice, bool) {
	if r.Service == nil {
		return domain.ServiceChoice{}, false
	}
	other := ""
	if r.ServiceOther != nil {
		other = *r.ServiceOther
	}
	return domain.ChoiceFromSelect(*r.Service, other), true
}

// TextFields lists the plain inputs present in the request, keyed by field name.
func (r *UpdateSessionRequest) TextFields() map[string]string {
	out := map[string]string{}
	if r.Professional != nil {
		out[domain.FieldProfessional] = *r.Professional
	}
	if r.Phone != nil {
		out[domain.FieldPhone] = *r.Phone
	}
	if r.Amount != nil {
		out[domain.FieldAmount] = *r.Amount
	}
	if r.Notes != nil {
		out[domain.FieldNotes] = *r.Notes
	}
	return out
}

type ErrorResponse struct {
	Error  string                  `json:"error"`
	Errors domain.ValidationErrors `json:"errors,omitempty"`
	View   *service.View           `json:"session,omitempty"`
}
