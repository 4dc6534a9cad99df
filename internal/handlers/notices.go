package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/edital360/portal/internal/middleware"
	"github.com/edital360/portal/internal/models"
	"github.com/edital360/portal/internal/observability"
	"github.com/edital360/portal/internal/services"
)

// ListNotices godoc
// @Summary Listar editais
// @Description Lista editais publicados com paginação, filtro por status e busca textual.
// @Tags editais
// @Produce json
// @Param page query int false "Número da página (padrão: 1)" minimum(1)
// @Param per_page query int false "Itens por página (padrão: 10, máximo: 100)" minimum(1) maximum(100)
// @Param status query string false "Filtro por status do edital"
// @Param q query string false "Busca textual no título"
// @Param sort_by query string false "Campo de ordenação"
// @Param order query string false "asc ou desc"
// @Success 200 {object} models.NoticeList "Página de editais"
// @Failure 400 {object} ErrorResponse "Parâmetros inválidos"
// @Failure 502 {object} models.APIResult "Backend indisponível"
// @Router /v1/editais [get]
func ListNotices(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "ListNotices")
	defer span.End()

	var params models.NoticeListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}
	if params.Status != "" && !models.IsValidNoticeStatus(params.Status) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Unknown status filter"})
		return
	}
	if params.PerPage > 100 {
		params.PerPage = 100
	}

	list, result := services.BackendClientInstance.ListNotices(ctx, params)
	if !result.Success {
		respondResult(c, result)
		return
	}

	c.JSON(http.StatusOK, list)
}

// GetNotice godoc
// @Summary Obter edital
// @Description Recupera um edital pelo seu identificador.
// @Tags editais
// @Produce json
// @Param id path string true "ID do edital"
// @Success 200 {object} models.Notice "Edital encontrado"
// @Failure 404 {object} models.APIResult "Edital não encontrado"
// @Router /v1/editais/{id} [get]
func GetNotice(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "GetNotice")
	defer span.End()

	notice, result := services.BackendClientInstance.GetNotice(ctx, c.Param("id"))
	if !result.Success {
		respondResult(c, result)
		return
	}

	c.JSON(http.StatusOK, notice)
}

// GetNoticeDraft godoc
// @Summary Obter rascunho de edital
// @Description Recupera o rascunho retomável do assistente de criação do admin.
// @Tags editais
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.NoticeDraft "Rascunho encontrado"
// @Failure 404 {object} ErrorResponse "Nenhum rascunho em andamento"
// @Router /v1/editais/rascunho [get]
func GetNoticeDraft(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "GetNoticeDraft")
	defer span.End()

	cpf, err := middleware.CPFFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Claims not found"})
		return
	}

	draft, err := services.NoticeWizardInstance.Draft(ctx, cpf)
	if err != nil {
		if errors.Is(err, models.ErrDraftNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "No draft in progress"})
			return
		}
		observability.Logger().Error("failed to load notice draft", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to load draft"})
		return
	}

	c.JSON(http.StatusOK, draft)
}

// SaveNoticeStep godoc
// @Summary Salvar etapa do rascunho de edital
// @Description Valida e grava uma etapa do assistente de criação. O rascunho é
// @Description preservado mesmo inválido; a etapa só avança quando válida.
// @Tags editais
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param step path int true "Número da etapa (1-3)"
// @Param request body models.NoticeInput true "Conteúdo do edital"
// @Success 200 {object} models.NoticeDraft "Rascunho gravado"
// @Failure 400 {object} ValidationErrorResponse "Campos inválidos"
// @Router /v1/editais/rascunho/{step} [put]
func SaveNoticeStep(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "SaveNoticeStep")
	defer span.End()

	cpf, err := middleware.CPFFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Claims not found"})
		return
	}

	step, err := strconv.Atoi(c.Param("step"))
	if err != nil || step < 1 || step > 3 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Step must be between 1 and 3"})
		return
	}

	var input models.NoticeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	draft, validation, err := services.NoticeWizardInstance.SaveStep(ctx, cpf, step, input, time.Now().UTC())
	if err != nil {
		observability.Logger().Error("failed to save notice draft", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to save draft"})
		return
	}
	if !validation.IsValid {
		respondValidation(c, validation)
		return
	}

	c.JSON(http.StatusOK, draft)
}

// PublishNotice godoc
// @Summary Publicar edital
// @Description Revalida o rascunho completo, confere o PDF anexado e publica o
// @Description edital no backend de concursos.
// @Tags editais
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param anexo formData file true "PDF do edital (máximo 10MB)"
// @Success 201 {object} models.APIResult "Edital publicado"
// @Failure 400 {object} ValidationErrorResponse "Rascunho ou anexo inválido"
// @Failure 404 {object} ErrorResponse "Nenhum rascunho em andamento"
// @Router /v1/editais [post]
func PublishNotice(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "PublishNotice")
	defer span.End()

	cpf, err := middleware.CPFFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Claims not found"})
		return
	}

	attachment, err := readUpload(c, "anexo")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Failed to read attachment"})
		return
	}

	result, validation, err := services.NoticeWizardInstance.Submit(ctx, tokenFromRequest(c), cpf, attachment, time.Now().UTC())
	if err != nil {
		if errors.Is(err, models.ErrDraftNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "No draft in progress"})
			return
		}
		observability.Logger().Error("failed to publish notice", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to publish notice"})
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

// readUpload loads one optional multipart file into memory
func readUpload(c *gin.Context, field string) (*services.Upload, error) {
	header, err := c.FormFile(field)
	if err == http.ErrMissingFile || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return uploadFromHeader(field, header)
}

func uploadFromHeader(field string, header *multipart.FileHeader) (*services.Upload, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &services.Upload{
		FieldName:   field,
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
