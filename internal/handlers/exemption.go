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
)

// GetExemptionStatus godoc
// @Summary Consultar isenção de taxa
// @Description Consulta o pedido de isenção do usuário para um edital. A ausência
// @Description de pedido é um estado normal e habilita o envio.
// @Tags isencao
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do edital"
// @Success 200 {object} models.ExemptionState "Estado da isenção"
// @Failure 401 {object} models.APIResult "Sessão expirada"
// @Failure 502 {object} models.APIResult "Backend indisponível"
// @Router /v1/editais/{id}/isencao [get]
func GetExemptionStatus(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "GetExemptionStatus")
	defer span.End()

	state, result := services.ExemptionInstance.Status(ctx, tokenFromRequest(c), c.Param("id"))
	if state == nil {
		respondResult(c, result)
		return
	}

	c.JSON(http.StatusOK, state)
}

// SubmitExemption godoc
// @Summary Enviar pedido de isenção
// @Description Envia o pedido de isenção de taxa com documentos comprobatórios.
// @Description Um pedido por edital; envio duplicado é recusado.
// @Tags isencao
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do edital"
// @Param documentos formData file true "Documentos comprobatórios (PDF, JPEG ou PNG, até 10 arquivos, 50MB no total)"
// @Success 201 {object} models.APIResult "Pedido registrado"
// @Failure 400 {object} ValidationErrorResponse "Documentos inválidos"
// @Failure 409 {object} ErrorResponse "Pedido já existente para o edital"
// @Router /v1/editais/{id}/isencao [post]
func SubmitExemption(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "SubmitExemption")
	defer span.End()

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Multipart form with documentos is required"})
		return
	}

	files := make([]services.Upload, 0, len(form.File["documentos"]))
	for _, header := range form.File["documentos"] {
		upload, err := uploadFromHeader("documentos", header)
		if err != nil {
			observability.Logger().Error("failed to read exemption document", zap.Error(err))
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Failed to read uploaded documents"})
			return
		}
		files = append(files, *upload)
	}

	result, validation, err := services.ExemptionInstance.Submit(ctx, tokenFromRequest(c), c.Param("id"), files)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateRequest) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: services.MsgDuplicateExemption})
			return
		}
		observability.Logger().Error("failed to submit exemption", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to submit exemption request"})
		return
	}
	if validation != nil {
		respondValidation(c, validation)
		return
	}
	if !result.Success {
		respondResult(c, result)
		return
	}

	c.JSON(http.StatusCreated, result)
}
