package domain

// SourceTag identifies this form as the origin of a notification.
const SourceTag = "cleanpool-form"

// NotificationPayload is the JSON body posted to the messaging relay.
// Once built it is never mutated.
type NotificationPayload struct {
	// Recipients holds exactly two E.164 numbers: the client first, then the business.
	Recipients []string         `json:"recipients"`
	Message    string           `json:"message"`
	Data       NotificationData `json:"data"`
	Source     string           `json:"source"`
}

// NotificationData is the flat, machine readable snapshot of the report.
type NotificationData struct {
	Service      string  `json:"servico"`
	Professional string  `json:"profissional"`
	ClientPhone  string  `json:"telefone_cliente"` // E.164
	Notes        string  `json:"observacoes"`      // "" when absent
	Amount       float64 `json:"valor_cobrado"`
}
