package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/edital360/portal/internal/logging"
	"github.com/edital360/portal/internal/models"
	"github.com/edital360/portal/internal/observability"
	"github.com/edital360/portal/internal/utils"
)

// Registrar is the slice of the backend client the wizard needs
type Registrar interface {
	Register(ctx context.Context, payload models.RegistrationPayload) *models.APIResult
}

// RegistrationService drives the multi-step registration wizard. Each step
// must validate before the wizard advances, and submission re-validates the
// whole payload in the declared field order.
type RegistrationService struct {
	store   StateStore
	backend Registrar
	ttl     time.Duration
	logger  *logging.SafeLogger
}

// NewRegistrationService creates a registration wizard service
func NewRegistrationService(store StateStore, backend Registrar, ttl time.Duration, logger *logging.SafeLogger) *RegistrationService {
	return &RegistrationService{
		store:   store,
		backend: backend,
		ttl:     ttl,
		logger:  logger,
	}
}

var validSexo = map[string]struct{}{
	"feminino":  {},
	"masculino": {},
	"outro":     {},
}

var validEscolaridade = map[string]struct{}{
	"fundamental":   {},
	"medio":         {},
	"superior":      {},
	"pos_graduacao": {},
}

// Start creates a new wizard instance
func (s *RegistrationService) Start(ctx context.Context) (*models.RegistrationState, error) {
	id, err := newWizardID()
	if err != nil {
		return nil, err
	}

	state := &models.RegistrationState{
		ID:        id,
		Step:      models.StepPersonal,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Save(ctx, state, s.ttl); err != nil {
		return nil, err
	}

	s.logger.Debug("registration wizard started", zap.String("wizard_id", id))
	return state, nil
}

// SavePersonal validates and stores step 1. An invalid step never advances
// the wizard.
func (s *RegistrationService) SavePersonal(ctx context.Context, id string, input models.PersonalInput) (*utils.ValidationResult, error) {
	state, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	input = sanitizePersonal(input)
	result := validatePersonal(input)
	if !result.IsValid {
		return result, nil
	}

	state.Personal = input
	if state.Step < models.StepContact {
		state.Step = models.StepContact
	}
	if err := s.store.Save(ctx, state, s.ttl); err != nil {
		return nil, err
	}
	return result, nil
}

// SaveContact validates and stores step 2
func (s *RegistrationService) SaveContact(ctx context.Context, id string, input models.ContactInput) (*utils.ValidationResult, error) {
	state, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if state.Step < models.StepContact {
		return nil, models.ErrStepIncomplete
	}

	input = sanitizeContact(input)
	result := validateContact(input)
	if !result.IsValid {
		return result, nil
	}

	state.Contact = input
	if state.Step < models.StepCredentials {
		state.Step = models.StepCredentials
	}
	if err := s.store.Save(ctx, state, s.ttl); err != nil {
		return nil, err
	}
	return result, nil
}

// SaveCredentials validates and stores step 3
func (s *RegistrationService) SaveCredentials(ctx context.Context, id string, input models.CredentialsInput) (*utils.ValidationResult, error) {
	state, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if state.Step < models.StepCredentials {
		return nil, models.ErrStepIncomplete
	}

	result := validateCredentials(input)
	if !result.IsValid {
		return result, nil
	}

	state.Credentials = input
	if err := s.store.Save(ctx, state, s.ttl); err != nil {
		return nil, err
	}
	return result, nil
}

// Submit re-validates the full wizard in declared field order, normalizes
// the payload and sends it to the backend. The wizard state is cleared once
// the backend accepts the registration.
func (s *RegistrationService) Submit(ctx context.Context, id string) (*models.APIResult, *utils.ValidationResult, error) {
	state, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	// Declared field order: personal, then address/contact, then credentials
	validation := utils.NewValidationResult()
	validation.Merge(validatePersonal(sanitizePersonal(state.Personal)))
	validation.Merge(validateContact(sanitizeContact(state.Contact)))
	validation.Merge(validateCredentials(state.Credentials))
	if !validation.IsValid {
		observability.RegistrationSubmissions.WithLabelValues("invalid").Inc()
		return nil, validation, nil
	}

	payload, err := normalizePayload(state)
	if err != nil {
		return nil, nil, err
	}

	result := s.backend.Register(ctx, payload)
	if !result.Success {
		observability.RegistrationSubmissions.WithLabelValues("rejected").Inc()
		s.logger.Info("registration rejected by backend",
			zap.String("wizard_id", id),
			zap.String("message", result.Message))
		return result, nil, nil
	}

	if err := s.store.Delete(ctx, id); err != nil {
		// The registration went through; a stale state entry only wastes TTL
		s.logger.Warn("failed to clear wizard state after submit",
			zap.String("wizard_id", id),
			zap.Error(err))
	}

	observability.RegistrationSubmissions.WithLabelValues("accepted").Inc()
	s.logger.Info("registration accepted",
		zap.String("cpf", observability.MaskCPF(payload.CPF)))
	return result, nil, nil
}

func sanitizePersonal(input models.PersonalInput) models.PersonalInput {
	return models.PersonalInput{
		Nome:           utils.SanitizeString(input.Nome),
		CPF:            utils.SanitizeString(input.CPF),
		DataNascimento: utils.SanitizeString(input.DataNascimento),
		Sexo:           utils.SanitizeString(input.Sexo),
		Escolaridade:   utils.SanitizeString(input.Escolaridade),
	}
}

func sanitizeContact(input models.ContactInput) models.ContactInput {
	out := models.ContactInput{
		CEP:            utils.SanitizeString(input.CEP),
		Estado:         utils.SanitizeString(input.Estado),
		Municipio:      utils.SanitizeString(input.Municipio),
		Bairro:         utils.SanitizeString(input.Bairro),
		Logradouro:     utils.SanitizeString(input.Logradouro),
		Numero:         utils.SanitizeString(input.Numero),
		Telefone:       utils.SanitizeString(input.Telefone),
		Celular:        utils.SanitizeString(input.Celular),
		Email:          utils.NormalizeEmail(input.Email),
		ConfirmarEmail: utils.NormalizeEmail(input.ConfirmarEmail),
	}
	if input.Complemento != nil {
		complemento := utils.SanitizeString(*input.Complemento)
		out.Complemento = &complemento
	}
	return out
}

// validatePersonal checks step 1 fields in declared order
func validatePersonal(input models.PersonalInput) *utils.ValidationResult {
	result := utils.NewValidationResult()

	if input.Nome == "" {
		result.AddError("nome", "Nome is required")
	} else if !utils.ValidName(input.Nome) {
		result.AddError("nome", "Nome must contain at least a first and last name")
	}

	if input.CPF == "" {
		result.AddError("cpf", "CPF is required")
	} else if !utils.ValidateCPF(input.CPF) {
		result.AddError("cpf", "CPF is invalid")
	}

	if input.DataNascimento == "" {
		result.AddError("data_nascimento", "Data de nascimento is required")
	} else if _, ok := utils.ParseBirthDate(input.DataNascimento, time.Now()); !ok {
		result.AddError("data_nascimento", "Data de nascimento must be a past date in YYYY-MM-DD format")
	}

	if input.Sexo == "" {
		result.AddError("sexo", "Sexo is required")
	} else if _, ok := validSexo[input.Sexo]; !ok {
		result.AddError("sexo", "Sexo must be one of: feminino, masculino, outro")
	}

	if input.Escolaridade == "" {
		result.AddError("escolaridade", "Escolaridade is required")
	} else if _, ok := validEscolaridade[input.Escolaridade]; !ok {
		result.AddError("escolaridade", "Escolaridade is not a valid option")
	}

	return result
}

// validateContact checks step 2 fields in declared order
func validateContact(input models.ContactInput) *utils.ValidationResult {
	result := utils.NewValidationResult()

	if input.CEP == "" {
		result.AddError("cep", "CEP is required")
	} else if !utils.ValidCEP(input.CEP) {
		result.AddError("cep", "CEP must be in format 00000-000 or 00000000")
	}

	if input.Estado == "" {
		result.AddError("estado", "Estado is required")
	} else if len(input.Estado) != 2 {
		result.AddError("estado", "Estado must be exactly 2 characters")
	}

	if input.Municipio == "" {
		result.AddError("municipio", "Municipio is required")
	}
	if input.Bairro == "" {
		result.AddError("bairro", "Bairro is required")
	}
	if input.Logradouro == "" {
		result.AddError("logradouro", "Logradouro is required")
	}
	if input.Numero == "" {
		result.AddError("numero", "Numero is required")
	}

	// Telefone is optional; celular is the required contact number
	if input.Telefone != "" && !utils.ValidPhone(input.Telefone) {
		result.AddError("telefone", "Telefone is not a valid phone number")
	}

	if input.Celular == "" {
		result.AddError("celular", "Celular is required")
	} else if !utils.ValidPhone(input.Celular) {
		result.AddError("celular", "Celular is not a valid phone number")
	}

	if input.Email == "" {
		result.AddError("email", "Email is required")
	} else if !utils.ValidEmail(input.Email) {
		result.AddError("email", "Invalid email format")
	}

	if input.ConfirmarEmail == "" {
		result.AddError("confirmar_email", "Confirmação de email is required")
	} else if input.Email != "" && input.ConfirmarEmail != input.Email {
		result.AddError("confirmar_email", "Email confirmation does not match")
	}

	return result
}

// validateCredentials checks step 3 fields in declared order
func validateCredentials(input models.CredentialsInput) *utils.ValidationResult {
	result := utils.NewValidationResult()

	if input.Senha == "" {
		result.AddError("senha", "Senha is required")
	} else if !utils.ValidPassword(input.Senha) {
		result.AddError("senha", "Senha must have at least 8 characters with uppercase, lowercase and digit")
	}

	if input.ConfirmarSenha == "" {
		result.AddError("confirmar_senha", "Confirmação de senha is required")
	} else if input.Senha != "" && input.ConfirmarSenha != input.Senha {
		result.AddError("confirmar_senha", "Password confirmation does not match")
	}

	return result
}

// normalizePayload strips formatting characters and lowercases the email
func normalizePayload(state *models.RegistrationState) (models.RegistrationPayload, error) {
	celular, err := utils.NormalizePhone(state.Contact.Celular)
	if err != nil {
		return models.RegistrationPayload{}, fmt.Errorf("failed to normalize celular: %w", err)
	}

	telefone := ""
	if state.Contact.Telefone != "" {
		telefone, err = utils.NormalizePhone(state.Contact.Telefone)
		if err != nil {
			return models.RegistrationPayload{}, fmt.Errorf("failed to normalize telefone: %w", err)
		}
	}

	return models.RegistrationPayload{
		Nome:           utils.SanitizeString(state.Personal.Nome),
		CPF:            utils.StripCPF(state.Personal.CPF),
		DataNascimento: state.Personal.DataNascimento,
		Sexo:           state.Personal.Sexo,
		Escolaridade:   state.Personal.Escolaridade,
		CEP:            utils.StripDigits(state.Contact.CEP),
		Estado:         state.Contact.Estado,
		Municipio:      state.Contact.Municipio,
		Bairro:         state.Contact.Bairro,
		Logradouro:     state.Contact.Logradouro,
		Numero:         state.Contact.Numero,
		Complemento:    state.Contact.Complemento,
		Telefone:       telefone,
		Celular:        celular,
		Email:          utils.NormalizeEmail(state.Contact.Email),
		Senha:          state.Credentials.Senha,
	}, nil
}

func newWizardID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate wizard ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}
