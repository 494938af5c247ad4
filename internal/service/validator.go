package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rgdevment/service-report/internal/domain"
	"github.com/rgdevment/service-report/internal/mask"
)

// Messages are the user-facing texts per field.
var Messages = map[string]string{
	domain.FieldService:      "Selecione um serviço",
	domain.FieldProfessional: "Nome do profissional é obrigatório",
	domain.FieldPhone:        "Telefone inválido (DDD + número)",
	domain.FieldAmount:       "Valor deve ser maior que zero",
}

// resolvedDraft is the draft after resolving the service choice, trimming
// and counting digits. Struct tags carry the rules.
type resolvedDraft struct {
	Service      string  `field:"service" validate:"required"`
	Professional string  `field:"professional" validate:"required"`
	PhoneDigits  string  `field:"phone" validate:"min=10,max=11"`
	Amount       float64 `field:"amount" validate:"gt=0"`
}

// Validator maps a draft to its field errors. It never stops at the first
// failure and has no side effects.
type Validator struct {
	validate *validator.Validate
	messages map[string]string
}

func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("field")
	})

	return &Validator{
		validate: v,
		messages: Messages,
	}
}

func (v *Validator) Validate(r *domain.ServiceReport) domain.ValidationErrors {
	draft := resolvedDraft{
		Service:      r.Service.Resolve(),
		Professional: strings.TrimSpace(r.Professional),
		PhoneDigits:  mask.Digits(r.PhoneRaw),
		Amount:       mask.ParseCurrency(r.Amount),
	}

	out := domain.ValidationErrors{}

	err := v.validate.Struct(draft)
	if err == nil {
		return out
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// only reachable on a programming error in resolvedDraft
		panic(err)
	}

	for _, fe := range fieldErrs {
		msg, ok := v.messages[fe.Field()]
		if !ok {
			msg = fe.Error()
		}
		out[fe.Field()] = msg
	}
	return out
}
