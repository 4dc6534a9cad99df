package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/edital360/portal/internal/config"
	"github.com/edital360/portal/internal/middleware"
	"github.com/edital360/portal/internal/models"
	"github.com/edital360/portal/internal/observability"
	"github.com/edital360/portal/internal/services"
	"github.com/edital360/portal/internal/utils"
)

// LoginRequest is the login payload
type LoginRequest struct {
	CPF   string `json:"cpf" binding:"required"`
	Senha string `json:"senha" binding:"required"`
}

// ResetRequest asks for a password-reset email
type ResetRequest struct {
	Email string `json:"email" binding:"required"`
}

// NewPasswordRequest consumes a reset token
type NewPasswordRequest struct {
	Senha          string `json:"senha" binding:"required"`
	ConfirmarSenha string `json:"confirmar_senha" binding:"required"`
}

// Login godoc
// @Summary Autenticar cidadão
// @Description Autentica por CPF e senha e grava o token de sessão em cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credenciais"
// @Success 200 {object} models.APIResult "Autenticado com sucesso"
// @Failure 400 {object} ErrorResponse "CPF inválido ou payload malformado"
// @Failure 401 {object} models.APIResult "Credenciais incorretas"
// @Failure 429 {object} ErrorResponse "Muitas tentativas de login"
// @Router /v1/auth/login [post]
func Login(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "Login")
	defer span.End()

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "CPF and senha are required"})
		return
	}

	cpf := utils.StripCPF(req.CPF)
	if !utils.ValidateCPF(cpf) {
		observability.LoginAttempts.WithLabelValues("invalid_cpf").Inc()
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid CPF"})
		return
	}

	result, token := services.BackendClientInstance.Login(ctx, cpf, req.Senha)
	if !result.Success {
		observability.LoginAttempts.WithLabelValues("rejected").Inc()
		respondResult(c, result)
		return
	}

	cfg := config.AppConfig
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.TokenCookieName, token, int(cfg.TokenCookieTTL.Seconds()), "/", "", cfg.Environment != "development", true)

	if err := services.SessionInstance.Remember(ctx, cpf, token); err != nil {
		observability.Logger().Warn("session mirror unavailable", zap.Error(err))
	}

	observability.LoginAttempts.WithLabelValues("accepted").Inc()
	c.JSON(http.StatusOK, result)
}

// Logout godoc
// @Summary Encerrar sessão
// @Description Remove o cookie de sessão e invalida o espelho no servidor.
// @Tags auth
// @Produce json
// @Success 200 {object} models.APIResult "Sessão encerrada"
// @Router /v1/auth/logout [post]
func Logout(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "Logout")
	defer span.End()

	cfg := config.AppConfig
	if raw, err := c.Cookie(cfg.TokenCookieName); err == nil {
		if claims, err := models.ParseToken(raw); err == nil {
			if err := services.SessionInstance.Forget(ctx, claims.CPF); err != nil {
				observability.Logger().Warn("failed to forget session", zap.Error(err))
			}
		}
	}

	c.SetCookie(cfg.TokenCookieName, "", -1, "/", "", cfg.Environment != "development", true)
	c.JSON(http.StatusOK, models.APIResult{Success: true, Message: "Signed out"})
}

// RequestPasswordReset godoc
// @Summary Solicitar recuperação de senha
// @Description Envia o email de recuperação. Reenvio bloqueado durante o cooldown.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ResetRequest true "Email cadastrado"
// @Success 200 {object} models.APIResult "Email de recuperação enviado"
// @Failure 400 {object} ErrorResponse "Email inválido"
// @Failure 429 {object} ErrorResponse "Aguarde o cooldown para reenviar"
// @Router /v1/auth/recuperar [post]
func RequestPasswordReset(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "RequestPasswordReset")
	defer span.End()

	var req ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Email is required"})
		return
	}

	email := utils.NormalizeEmail(req.Email)
	if !utils.ValidEmail(email) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid email format"})
		return
	}

	allowed, remaining, err := services.SessionInstance.TryResetRequest(ctx, email)
	if err != nil {
		observability.Logger().Error("reset cooldown check failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to process request"})
		return
	}
	if !allowed {
		seconds := int(remaining.Round(time.Second).Seconds())
		c.Header("Retry-After", strconv.Itoa(seconds))
		c.JSON(http.StatusTooManyRequests, ErrorResponse{
			Error: "Wait " + strconv.Itoa(seconds) + "s before requesting another email",
		})
		return
	}

	respondResult(c, services.BackendClientInstance.RequestPasswordReset(ctx, email))
}

// ValidateResetToken godoc
// @Summary Validar token de recuperação
// @Description Verifica se o token de recuperação ainda pode ser consumido.
// @Tags auth
// @Produce json
// @Param token path string true "Token de recuperação"
// @Success 200 {object} models.APIResult "Token válido"
// @Failure 404 {object} models.APIResult "Token desconhecido ou expirado"
// @Router /v1/auth/recuperar/{token} [get]
func ValidateResetToken(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "ValidateResetToken")
	defer span.End()

	respondResult(c, services.BackendClientInstance.ValidateResetToken(ctx, c.Param("token")))
}

// ResetPassword godoc
// @Summary Redefinir senha
// @Description Consome o token de recuperação e grava a nova senha.
// @Tags auth
// @Accept json
// @Produce json
// @Param token path string true "Token de recuperação"
// @Param request body NewPasswordRequest true "Nova senha"
// @Success 200 {object} models.APIResult "Senha redefinida"
// @Failure 400 {object} ErrorResponse "Senha fraca ou confirmação divergente"
// @Router /v1/auth/recuperar/{token} [post]
func ResetPassword(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "ResetPassword")
	defer span.End()

	var req NewPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Senha and confirmação are required"})
		return
	}

	if !utils.ValidPassword(req.Senha) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Senha must have at least 8 characters with uppercase, lowercase and digit"})
		return
	}
	if req.Senha != req.ConfirmarSenha {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Password confirmation does not match"})
		return
	}

	respondResult(c, services.BackendClientInstance.ResetPassword(ctx, c.Param("token"), req.Senha))
}

// tokenFromRequest is the session token the API client forwards upstream
func tokenFromRequest(c *gin.Context) string {
	return middleware.TokenFromContext(c)
}
