package models

import "time"

// NoticeStatus is the lifecycle state of an edital
type NoticeStatus string

const (
	StatusRascunho             NoticeStatus = "rascunho"
	StatusPublicado            NoticeStatus = "publicado"
	StatusEmAnalise            NoticeStatus = "em_analise"
	StatusInscricoesAbertas    NoticeStatus = "inscricoes_abertas"
	StatusInscricoesEncerradas NoticeStatus = "inscricoes_encerradas"
	StatusResultadoPreliminar  NoticeStatus = "resultado_preliminar"
	StatusResultadoFinal       NoticeStatus = "resultado_final"
	StatusEncerrado            NoticeStatus = "encerrado"
	StatusCancelado            NoticeStatus = "cancelado"
)

// ValidNoticeStatuses lists every lifecycle state
func ValidNoticeStatuses() []NoticeStatus {
	return []NoticeStatus{
		StatusRascunho,
		StatusPublicado,
		StatusEmAnalise,
		StatusInscricoesAbertas,
		StatusInscricoesEncerradas,
		StatusResultadoPreliminar,
		StatusResultadoFinal,
		StatusEncerrado,
		StatusCancelado,
	}
}

// IsValidNoticeStatus reports whether s is a known lifecycle state
func IsValidNoticeStatus(s string) bool {
	for _, status := range ValidNoticeStatuses() {
		if string(status) == s {
			return true
		}
	}
	return false
}

// Requisitos are the entry requirements of a cargo
type Requisitos struct {
	Escolaridade string `json:"escolaridade"`
	IdadeMinima  int    `json:"idade_minima,omitempty"`
	IdadeMaxima  int    `json:"idade_maxima,omitempty"`
}

// Cargo is a role with a vacancy count within a notice
type Cargo struct {
	Nome       string     `json:"nome"`
	Vagas      int        `json:"vagas"`
	Requisitos Requisitos `json:"requisitos"`
}

// Cota is one entry of the quota breakdown
type Cota struct {
	Tipo       string  `json:"tipo"`
	Percentual float64 `json:"percentual"`
}

// Notice is an exam notice (edital) as served by the concursos backend
type Notice struct {
	ID              string       `json:"id"`
	Titulo          string       `json:"titulo"`
	Descricao       string       `json:"descricao"`
	InscricaoInicio time.Time    `json:"inscricao_inicio"`
	InscricaoFim    time.Time    `json:"inscricao_fim"`
	DataProva       time.Time    `json:"data_prova"`
	Cargos          []Cargo      `json:"cargos"`
	Taxa            float64      `json:"taxa"`
	Cotas           []Cota       `json:"cotas,omitempty"`
	Documentos      []string     `json:"documentos,omitempty"`
	Status          NoticeStatus `json:"status"`
}

// NoticeInput is the payload assembled by the notice-creation wizard
type NoticeInput struct {
	Titulo          string   `json:"titulo"`
	Descricao       string   `json:"descricao"`
	InscricaoInicio string   `json:"inscricao_inicio"`
	InscricaoFim    string   `json:"inscricao_fim"`
	DataProva       string   `json:"data_prova"`
	Cargos          []Cargo  `json:"cargos"`
	Taxa            float64  `json:"taxa"`
	Cotas           []Cota   `json:"cotas,omitempty"`
	Documentos      []string `json:"documentos,omitempty"`
}

// NoticeDraft is the resumable wizard state of one admin, stored locally.
// The published notice itself is owned by the backend.
type NoticeDraft struct {
	CreatedBy string      `bson:"created_by" json:"created_by"`
	Step      int         `bson:"step" json:"step"`
	Notice    NoticeInput `bson:"notice" json:"notice"`
	UpdatedAt time.Time   `bson:"updated_at" json:"updated_at"`
}

// NoticeListParams are the pagination/filter/sort parameters of the listing
type NoticeListParams struct {
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
	Status  string `form:"status"`
	Query   string `form:"q"`
	SortBy  string `form:"sort_by"`
	Order   string `form:"order"`
}

// NoticeList is one page of notices plus pagination metadata
type NoticeList struct {
	Items   []Notice `json:"items"`
	Total   int      `json:"total"`
	Page    int      `json:"page"`
	PerPage int      `json:"per_page"`
}
