package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/edital360/portal/internal/logging"
	"github.com/edital360/portal/internal/models"
	"github.com/edital360/portal/internal/utils"
)

// ExemptionBackend is the slice of the backend client the exemption flow needs
type ExemptionBackend interface {
	CheckExemption(ctx context.Context, token, noticeID string) (*models.ExemptionRequest, *models.APIResult)
	SubmitExemption(ctx context.Context, token, noticeID string, files []Upload) *models.APIResult
}

// ExemptionService handles fee-exemption status probes and submissions.
// File caps are enforced here before any bytes reach the backend.
type ExemptionService struct {
	backend       ExemptionBackend
	maxTotalBytes int64
	maxFiles      int
	logger        *logging.SafeLogger
}

// NewExemptionService creates an exemption service
func NewExemptionService(backend ExemptionBackend, maxTotalBytes int64, maxFiles int, logger *logging.SafeLogger) *ExemptionService {
	return &ExemptionService{
		backend:       backend,
		maxTotalBytes: maxTotalBytes,
		maxFiles:      maxFiles,
		logger:        logger,
	}
}

var allowedExemptionTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
}

// Status probes the backend for the user's exemption request on a notice.
// A missing request is a normal state and enables submission.
func (s *ExemptionService) Status(ctx context.Context, token, noticeID string) (*models.ExemptionState, *models.APIResult) {
	request, result := s.backend.CheckExemption(ctx, token, noticeID)
	if !result.Success {
		return nil, result
	}

	state := &models.ExemptionState{
		Exists:    request != nil,
		CanSubmit: request == nil,
		Request:   request,
	}
	return state, result
}

// Submit validates the evidence files and forwards them to the backend.
// Submission is refused when a request already exists for the notice.
func (s *ExemptionService) Submit(ctx context.Context, token, noticeID string, files []Upload) (*models.APIResult, *utils.ValidationResult, error) {
	validation := s.validateFiles(files)
	if !validation.IsValid {
		return nil, validation, nil
	}

	existing, probe := s.backend.CheckExemption(ctx, token, noticeID)
	if !probe.Success {
		return probe, nil, nil
	}
	if existing != nil {
		return nil, nil, models.ErrDuplicateRequest
	}

	result := s.backend.SubmitExemption(ctx, token, noticeID, files)
	if result.Success {
		s.logger.Info("exemption request submitted",
			zap.String("edital_id", noticeID),
			zap.Int("files", len(files)))
	}
	return result, nil, nil
}

func (s *ExemptionService) validateFiles(files []Upload) *utils.ValidationResult {
	result := utils.NewValidationResult()

	if len(files) == 0 {
		result.AddError("documentos", "At least one evidence document is required")
		return result
	}
	if len(files) > s.maxFiles {
		result.AddError("documentos", fmt.Sprintf("At most %d documents are allowed", s.maxFiles))
		return result
	}

	var total int64
	for _, f := range files {
		if !allowedExemptionTypes[f.ContentType] {
			result.AddError("documentos", "Documents must be PDF, JPEG or PNG files")
			return result
		}
		total += int64(len(f.Data))
	}
	if total > s.maxTotalBytes {
		result.AddError("documentos", "Documents must not exceed 50MB in total")
	}

	return result
}
