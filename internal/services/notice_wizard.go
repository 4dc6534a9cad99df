package services

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/edital360/portal/internal/logging"
	"github.com/edital360/portal/internal/models"
	"github.com/edital360/portal/internal/utils"
)

const dateLayout = "2006-01-02"

// NoticePublisher is the slice of the backend client the wizard needs
type NoticePublisher interface {
	CreateNotice(ctx context.Context, token string, input models.NoticeInput, attachment *Upload) *models.APIResult
}

// NoticeWizardService drives the admin notice-creation wizard. Step 1 gates
// on chronological date ordering; drafts are saved on every step so the
// wizard is resumable, but advancement requires a valid current step.
type NoticeWizardService struct {
	drafts      DraftStore
	backend     NoticePublisher
	maxPDFBytes int64
	logger      *logging.SafeLogger
}

// NewNoticeWizardService creates a notice-creation wizard service
func NewNoticeWizardService(drafts DraftStore, backend NoticePublisher, maxPDFBytes int64, logger *logging.SafeLogger) *NoticeWizardService {
	return &NoticeWizardService{
		drafts:      drafts,
		backend:     backend,
		maxPDFBytes: maxPDFBytes,
		logger:      logger,
	}
}

// Draft returns the admin's resumable draft, if any
func (s *NoticeWizardService) Draft(ctx context.Context, createdBy string) (*models.NoticeDraft, error) {
	return s.drafts.Load(ctx, createdBy)
}

// SaveStep validates the given step and saves the draft. The draft is saved
// even when invalid so no typing is lost; the wizard only advances past a
// valid step.
func (s *NoticeWizardService) SaveStep(ctx context.Context, createdBy string, step int, input models.NoticeInput, today time.Time) (*models.NoticeDraft, *utils.ValidationResult, error) {
	result := s.validateStep(step, input, today)

	draft := &models.NoticeDraft{
		CreatedBy: createdBy,
		Step:      step,
		Notice:    input,
	}
	if result.IsValid {
		draft.Step = step + 1
	}

	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, nil, err
	}

	return draft, result, nil
}

// Submit validates the whole draft plus the PDF attachment and publishes the
// notice. The draft is deleted once the backend accepts it.
func (s *NoticeWizardService) Submit(ctx context.Context, token, createdBy string, attachment *Upload, today time.Time) (*models.APIResult, *utils.ValidationResult, error) {
	draft, err := s.drafts.Load(ctx, createdBy)
	if err != nil {
		return nil, nil, err
	}

	validation := utils.NewValidationResult()
	for step := 1; step <= 3; step++ {
		validation.Merge(s.validateStep(step, draft.Notice, today))
	}
	validation.Merge(s.validateAttachment(attachment))
	if !validation.IsValid {
		return nil, validation, nil
	}

	result := s.backend.CreateNotice(ctx, token, draft.Notice, attachment)
	if !result.Success {
		return result, nil, nil
	}

	if err := s.drafts.Delete(ctx, createdBy); err != nil {
		s.logger.Warn("failed to delete notice draft after publish",
			zap.String("created_by", createdBy),
			zap.Error(err))
	}

	s.logger.Info("notice published",
		zap.String("titulo", draft.Notice.Titulo))
	return result, nil, nil
}

// ValidateDates applies the chronological gate of step 1:
// start must not be in the past, start <= end, and end < exam date.
func ValidateDates(input models.NoticeInput, today time.Time) *utils.ValidationResult {
	result := utils.NewValidationResult()

	start, startErr := time.Parse(dateLayout, input.InscricaoInicio)
	end, endErr := time.Parse(dateLayout, input.InscricaoFim)
	exam, examErr := time.Parse(dateLayout, input.DataProva)

	if input.InscricaoInicio == "" {
		result.AddError("inscricao_inicio", "Início das inscrições is required")
	} else if startErr != nil {
		result.AddError("inscricao_inicio", "Início das inscrições must be in YYYY-MM-DD format")
	}

	if input.InscricaoFim == "" {
		result.AddError("inscricao_fim", "Fim das inscrições is required")
	} else if endErr != nil {
		result.AddError("inscricao_fim", "Fim das inscrições must be in YYYY-MM-DD format")
	}

	if input.DataProva == "" {
		result.AddError("data_prova", "Data da prova is required")
	} else if examErr != nil {
		result.AddError("data_prova", "Data da prova must be in YYYY-MM-DD format")
	}

	if !result.IsValid {
		return result
	}

	day := today.Truncate(24 * time.Hour)
	if start.Before(day) {
		result.AddError("inscricao_inicio", "Início das inscrições must not be in the past")
	}
	if end.Before(start) {
		result.AddError("inscricao_fim", "Fim das inscrições must not be before the start")
	}
	if !exam.After(end) {
		result.AddError("data_prova", "Data da prova must be after the subscription window")
	}

	return result
}

func (s *NoticeWizardService) validateStep(step int, input models.NoticeInput, today time.Time) *utils.ValidationResult {
	switch step {
	case 1:
		return s.validateBasicStep(input, today)
	case 2:
		return s.validateCargosStep(input)
	case 3:
		return s.validateDetailsStep(input)
	}
	result := utils.NewValidationResult()
	result.AddError("step", "Unknown wizard step")
	return result
}

func (s *NoticeWizardService) validateBasicStep(input models.NoticeInput, today time.Time) *utils.ValidationResult {
	result := utils.NewValidationResult()

	if utils.SanitizeString(input.Titulo) == "" {
		result.AddError("titulo", "Título is required")
	}
	if utils.SanitizeString(input.Descricao) == "" {
		result.AddError("descricao", "Descrição is required")
	}
	result.Merge(ValidateDates(input, today))

	return result
}

func (s *NoticeWizardService) validateCargosStep(input models.NoticeInput) *utils.ValidationResult {
	result := utils.NewValidationResult()

	if len(input.Cargos) == 0 {
		result.AddError("cargos", "At least one cargo is required")
		return result
	}

	for i, cargo := range input.Cargos {
		field := "cargos[" + strconv.Itoa(i) + "]"
		if utils.SanitizeString(cargo.Nome) == "" {
			result.AddError(field+".nome", "Cargo nome is required")
		}
		if cargo.Vagas <= 0 {
			result.AddError(field+".vagas", "Cargo must have at least one vacancy")
		}
		if utils.SanitizeString(cargo.Requisitos.Escolaridade) == "" {
			result.AddError(field+".requisitos.escolaridade", "Cargo escolaridade requirement is required")
		}
		if cargo.Requisitos.IdadeMaxima > 0 && cargo.Requisitos.IdadeMaxima < cargo.Requisitos.IdadeMinima {
			result.AddError(field+".requisitos", "Idade máxima must not be below idade mínima")
		}
	}

	return result
}

func (s *NoticeWizardService) validateDetailsStep(input models.NoticeInput) *utils.ValidationResult {
	result := utils.NewValidationResult()

	if input.Taxa < 0 {
		result.AddError("taxa", "Taxa must not be negative")
	}

	var total float64
	for _, cota := range input.Cotas {
		if cota.Percentual < 0 || cota.Percentual > 100 {
			result.AddError("cotas", "Cota percentual must be between 0 and 100")
			break
		}
		total += cota.Percentual
	}
	if total > 100 {
		result.AddError("cotas", "Cota percentuais must not exceed 100 in total")
	}

	return result
}

func (s *NoticeWizardService) validateAttachment(attachment *Upload) *utils.ValidationResult {
	result := utils.NewValidationResult()

	if attachment == nil || len(attachment.Data) == 0 {
		result.AddError("anexo", "Notice PDF attachment is required")
		return result
	}
	if attachment.ContentType != "application/pdf" {
		result.AddError("anexo", "Attachment must be a PDF file")
	}
	if int64(len(attachment.Data)) > s.maxPDFBytes {
		result.AddError("anexo", "Attachment must not exceed 10MB")
	}

	return result
}
