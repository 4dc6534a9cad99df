package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/edital360/portal/internal/models"
	"github.com/edital360/portal/internal/observability"
	"github.com/edital360/portal/internal/services"
	"github.com/edital360/portal/internal/utils"
)

// GetProfile godoc
// @Summary Obter perfil do cidadão
// @Description Recupera o perfil do usuário autenticado no backend de concursos.
// @Tags perfil
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.UserProfile "Perfil obtido com sucesso"
// @Failure 401 {object} models.APIResult "Sessão expirada"
// @Failure 502 {object} models.APIResult "Backend indisponível"
// @Router /v1/perfil [get]
func GetProfile(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "GetProfile")
	defer span.End()

	profile, result := services.BackendClientInstance.GetProfile(ctx, tokenFromRequest(c))
	if !result.Success {
		respondResult(c, result)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary Atualizar perfil do cidadão
// @Description Atualiza os campos mutáveis do perfil. CPF, nome e data de nascimento não são alteráveis.
// @Tags perfil
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ProfileUpdateInput true "Campos mutáveis"
// @Success 200 {object} models.APIResult "Perfil atualizado"
// @Failure 400 {object} ValidationErrorResponse "Campos inválidos"
// @Failure 401 {object} models.APIResult "Sessão expirada"
// @Router /v1/perfil [put]
func UpdateProfile(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "UpdateProfile")
	defer span.End()

	var input models.ProfileUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	if validation := validateProfileUpdate(&input); !validation.IsValid {
		respondValidation(c, validation)
		return
	}

	result := services.BackendClientInstance.UpdateProfile(ctx, tokenFromRequest(c), input)
	if result.Success {
		observability.Logger().Info("profile updated")
	} else {
		observability.Logger().Debug("profile update rejected", zap.String("message", result.Message))
	}
	respondResult(c, result)
}

// validateProfileUpdate checks the mutable fields and normalizes them in place
func validateProfileUpdate(input *models.ProfileUpdateInput) *utils.ValidationResult {
	result := utils.NewValidationResult()

	input.Email = utils.NormalizeEmail(input.Email)
	if input.Email == "" {
		result.AddError("email", "Email is required")
	} else if !utils.ValidEmail(input.Email) {
		result.AddError("email", "Invalid email format")
	}

	if input.Celular == "" {
		result.AddError("celular", "Celular is required")
	} else if !utils.ValidPhone(input.Celular) {
		result.AddError("celular", "Celular is not a valid phone number")
	}

	if input.Telefone != "" && !utils.ValidPhone(input.Telefone) {
		result.AddError("telefone", "Telefone is not a valid phone number")
	}

	if input.Endereco.CEP != "" && !utils.ValidCEP(input.Endereco.CEP) {
		result.AddError("endereco.cep", "CEP must be in format 00000-000 or 00000000")
	}

	return result
}
