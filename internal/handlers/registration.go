package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/edital360/portal/internal/models"
	"github.com/edital360/portal/internal/observability"
	"github.com/edital360/portal/internal/services"
	"github.com/edital360/portal/internal/utils"
)

// PasswordStrengthRequest probes password strength while the user types
type PasswordStrengthRequest struct {
	Senha string `json:"senha"`
}

// PasswordStrengthResponse is the live strength feedback
type PasswordStrengthResponse struct {
	Score int    `json:"score"`
	Label string `json:"label"`
}

// StartRegistration godoc
// @Summary Iniciar cadastro
// @Description Cria uma nova sessão do assistente de cadastro em etapas.
// @Tags cadastro
// @Produce json
// @Success 201 {object} models.RegistrationState "Sessão criada"
// @Failure 500 {object} ErrorResponse "Erro interno do servidor"
// @Router /v1/cadastro [post]
func StartRegistration(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "StartRegistration")
	defer span.End()

	state, err := services.RegistrationInstance.Start(ctx)
	if err != nil {
		observability.Logger().Error("failed to start registration wizard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to start registration"})
		return
	}

	c.JSON(http.StatusCreated, state)
}

// SavePersonalStep godoc
// @Summary Salvar etapa de dados pessoais
// @Description Valida e grava a etapa 1 do cadastro. Etapa inválida não avança.
// @Tags cadastro
// @Accept json
// @Produce json
// @Param id path string true "ID da sessão de cadastro"
// @Param request body models.PersonalInput true "Dados pessoais"
// @Success 200 {object} utils.ValidationResult "Etapa gravada"
// @Failure 400 {object} ValidationErrorResponse "Campos inválidos"
// @Failure 404 {object} ErrorResponse "Sessão de cadastro não encontrada ou expirada"
// @Router /v1/cadastro/{id}/pessoal [put]
func SavePersonalStep(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "SavePersonalStep")
	defer span.End()

	var input models.PersonalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	validation, err := services.RegistrationInstance.SavePersonal(ctx, c.Param("id"), input)
	respondWizardStep(c, validation, err)
}

// SaveContactStep godoc
// @Summary Salvar etapa de contato e endereço
// @Description Valida e grava a etapa 2 do cadastro.
// @Tags cadastro
// @Accept json
// @Produce json
// @Param id path string true "ID da sessão de cadastro"
// @Param request body models.ContactInput true "Endereço e contato"
// @Success 200 {object} utils.ValidationResult "Etapa gravada"
// @Failure 400 {object} ValidationErrorResponse "Campos inválidos"
// @Failure 404 {object} ErrorResponse "Sessão de cadastro não encontrada ou expirada"
// @Failure 409 {object} ErrorResponse "Etapa anterior incompleta"
// @Router /v1/cadastro/{id}/contato [put]
func SaveContactStep(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "SaveContactStep")
	defer span.End()

	var input models.ContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	validation, err := services.RegistrationInstance.SaveContact(ctx, c.Param("id"), input)
	respondWizardStep(c, validation, err)
}

// SaveCredentialsStep godoc
// @Summary Salvar etapa de credenciais
// @Description Valida e grava a etapa 3 do cadastro.
// @Tags cadastro
// @Accept json
// @Produce json
// @Param id path string true "ID da sessão de cadastro"
// @Param request body models.CredentialsInput true "Senha e confirmação"
// @Success 200 {object} utils.ValidationResult "Etapa gravada"
// @Failure 400 {object} ValidationErrorResponse "Campos inválidos"
// @Failure 404 {object} ErrorResponse "Sessão de cadastro não encontrada ou expirada"
// @Failure 409 {object} ErrorResponse "Etapa anterior incompleta"
// @Router /v1/cadastro/{id}/credenciais [put]
func SaveCredentialsStep(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "SaveCredentialsStep")
	defer span.End()

	var input models.CredentialsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	validation, err := services.RegistrationInstance.SaveCredentials(ctx, c.Param("id"), input)
	respondWizardStep(c, validation, err)
}

// SubmitRegistration godoc
// @Summary Enviar cadastro
// @Description Revalida todas as etapas e envia o cadastro normalizado ao backend.
// @Tags cadastro
// @Produce json
// @Param id path string true "ID da sessão de cadastro"
// @Success 200 {object} models.APIResult "Cadastro aceito"
// @Failure 400 {object} ValidationErrorResponse "Cadastro incompleto ou inválido"
// @Failure 404 {object} ErrorResponse "Sessão de cadastro não encontrada ou expirada"
// @Failure 502 {object} models.APIResult "Backend indisponível"
// @Router /v1/cadastro/{id}/enviar [post]
func SubmitRegistration(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "SubmitRegistration")
	defer span.End()

	result, validation, err := services.RegistrationInstance.Submit(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, models.ErrWizardNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Registration session not found or expired"})
			return
		}
		observability.Logger().Error("registration submit failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to submit registration"})
		return
	}
	if validation != nil {
		respondValidation(c, validation)
		return
	}

	respondResult(c, result)
}

// PasswordStrength godoc
// @Summary Medir força da senha
// @Description Retorna a pontuação 0-100 e o rótulo de força da senha.
// @Tags cadastro
// @Accept json
// @Produce json
// @Param request body PasswordStrengthRequest true "Senha a medir"
// @Success 200 {object} PasswordStrengthResponse "Pontuação calculada"
// @Router /v1/cadastro/senha/forca [post]
func PasswordStrength(c *gin.Context) {
	var req PasswordStrengthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	score := utils.PasswordStrength(req.Senha)
	c.JSON(http.StatusOK, PasswordStrengthResponse{
		Score: score,
		Label: string(utils.StrengthLabel(score)),
	})
}

// respondWizardStep maps the common step outcomes onto HTTP responses
func respondWizardStep(c *gin.Context, validation *utils.ValidationResult, err error) {
	if err != nil {
		switch {
		case errors.Is(err, models.ErrWizardNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Registration session not found or expired"})
		case errors.Is(err, models.ErrStepIncomplete):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Complete the previous step first"})
		default:
			observability.Logger().Error("failed to save registration step", zap.Error(err))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to save step"})
		}
		return
	}
	if !validation.IsValid {
		respondValidation(c, validation)
		return
	}
	c.JSON(http.StatusOK, validation)
}
