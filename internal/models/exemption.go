package models

import "time"

// ExemptionStatus is the adjudication state of a fee-exemption request
type ExemptionStatus string

const (
	ExemptionPendente   ExemptionStatus = "pendente"
	ExemptionDeferido   ExemptionStatus = "deferido"
	ExemptionIndeferido ExemptionStatus = "indeferido"
)

// ExemptionRequest is a fee-exemption request as reported by the backend
type ExemptionRequest struct {
	ID          string          `json:"id"`
	NoticeID    string          `json:"edital_id"`
	SubmittedAt time.Time       `json:"enviado_em"`
	Status      ExemptionStatus `json:"status"`
	Documentos  []string        `json:"documentos,omitempty"`
}

// ExemptionState is what the portal reports for a (user, notice) pair.
// An upstream 404 on the status probe means no request exists, which is a
// normal state and enables submission.
type ExemptionState struct {
	Exists    bool              `json:"exists"`
	CanSubmit bool              `json:"can_submit"`
	Request   *ExemptionRequest `json:"request,omitempty"`
}
