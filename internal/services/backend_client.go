package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/edital360/portal/internal/config"
	"github.com/edital360/portal/internal/logging"
	"github.com/edital360/portal/internal/models"
	"github.com/edital360/portal/internal/observability"
	"github.com/edital360/portal/internal/utils"
)

// User-facing fallback messages keyed by upstream status code. The server's
// own message wins when present; raw transport errors never reach callers.
const (
	MsgInvalidInput       = "Invalid input data"
	MsgSessionExpired     = "Session expired, please sign in again"
	MsgForbidden          = "You do not have permission to perform this action"
	MsgNotFound           = "Resource not found"
	MsgServerError        = "Server error, please try again later"
	MsgDuplicateExemption = "You already have an exemption request for this notice"
)

// BackendClient talks to the concursos backend REST API. Every operation
// returns a normalized APIResult; no operation retries automatically.
type BackendClient struct {
	baseURL string
	client  *http.Client
	logger  *logging.SafeLogger
}

// Upload is one file forwarded to the backend as multipart content
type Upload struct {
	FieldName   string
	FileName    string
	ContentType string
	Data        []byte
}

// NewBackendClient creates a client for the configured backend
func NewBackendClient(cfg *config.Config, logger *logging.SafeLogger) *BackendClient {
	return &BackendClient{
		baseURL: cfg.BackendBaseURL,
		client: &http.Client{
			Timeout: cfg.BackendTimeout,
		},
		logger: logger,
	}
}

// upstreamEnvelope is the JSON shape the backend wraps responses in
type upstreamEnvelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func statusMessage(code int) string {
	switch code {
	case http.StatusBadRequest:
		return MsgInvalidInput
	case http.StatusUnauthorized:
		return MsgSessionExpired
	case http.StatusForbidden:
		return MsgForbidden
	case http.StatusNotFound:
		return MsgNotFound
	default:
		return MsgServerError
	}
}

func failure(message string) *models.APIResult {
	return &models.APIResult{Success: false, Message: message}
}

// do performs one request and normalizes the response. The returned status
// code is 0 on transport failure.
func (c *BackendClient) do(ctx context.Context, operation, method, path, token string, body io.Reader, contentType string) (*models.APIResult, int) {
	ctx, span := utils.TraceUpstreamCall(ctx, operation)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		utils.RecordErrorInSpan(span, err)
		observability.UpstreamRequests.WithLabelValues(operation, "error").Inc()
		return failure(MsgServerError), 0
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		// Timeouts and offline hosts take the generic server-error path
		c.logger.Error("upstream request failed",
			zap.String("operation", operation),
			zap.Error(err))
		utils.RecordErrorInSpan(span, err)
		observability.UpstreamRequests.WithLabelValues(operation, "error").Inc()
		return failure(MsgServerError), 0
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("failed to read upstream response",
			zap.String("operation", operation),
			zap.Error(err))
		observability.UpstreamRequests.WithLabelValues(operation, "error").Inc()
		return failure(MsgServerError), resp.StatusCode
	}

	var envelope upstreamEnvelope
	_ = json.Unmarshal(respBody, &envelope)

	observability.UpstreamRequests.WithLabelValues(operation, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		data := envelope.Data
		if len(data) == 0 {
			data = respBody
		}
		return &models.APIResult{
			Success: true,
			Message: envelope.Message,
			Data:    data,
		}, resp.StatusCode
	}

	message := envelope.Message
	if message == "" {
		message = statusMessage(resp.StatusCode)
	}

	c.logger.Debug("upstream returned error status",
		zap.String("operation", operation),
		zap.Int("status", resp.StatusCode),
		zap.String("message", message))

	return failure(message), resp.StatusCode
}

func (c *BackendClient) doJSON(ctx context.Context, operation, method, path, token string, payload interface{}) (*models.APIResult, int) {
	var body io.Reader
	contentType := ""
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return failure(MsgServerError), 0
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, operation, method, path, token, body, contentType)
}

// LoginResponse is the payload of a successful login
type LoginResponse struct {
	Token string `json:"token"`
}

// Login authenticates a citizen by CPF and password
func (c *BackendClient) Login(ctx context.Context, cpf, senha string) (*models.APIResult, string) {
	result, _ := c.doJSON(ctx, "login", http.MethodPost, "/auth/login", "", map[string]string{
		"cpf":   cpf,
		"senha": senha,
	})
	if !result.Success {
		return result, ""
	}

	var login LoginResponse
	if err := result.Decode(&login); err != nil || login.Token == "" {
		c.logger.Error("login response missing token", zap.Error(err))
		return failure(MsgServerError), ""
	}
	return result, login.Token
}

// Register submits a normalized registration payload
func (c *BackendClient) Register(ctx context.Context, payload models.RegistrationPayload) *models.APIResult {
	result, _ := c.doJSON(ctx, "register", http.MethodPost, "/usuarios", "", payload)
	return result
}

// GetProfile fetches the authenticated user's profile
func (c *BackendClient) GetProfile(ctx context.Context, token string) (*models.UserProfile, *models.APIResult) {
	result, _ := c.doJSON(ctx, "get_profile", http.MethodGet, "/usuarios/me", token, nil)
	if !result.Success {
		return nil, result
	}

	var profile models.UserProfile
	if err := result.Decode(&profile); err != nil {
		c.logger.Error("failed to decode profile", zap.Error(err))
		return nil, failure(MsgServerError)
	}
	return &profile, result
}

// UpdateProfile submits the mutable subset of profile fields
func (c *BackendClient) UpdateProfile(ctx context.Context, token string, input models.ProfileUpdateInput) *models.APIResult {
	result, _ := c.doJSON(ctx, "update_profile", http.MethodPut, "/usuarios/me", token, input)
	return result
}

// ListNotices fetches one page of notices
func (c *BackendClient) ListNotices(ctx context.Context, params models.NoticeListParams) (*models.NoticeList, *models.APIResult) {
	query := url.Values{}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.PerPage > 0 {
		query.Set("per_page", strconv.Itoa(params.PerPage))
	}
	if params.Status != "" {
		query.Set("status", params.Status)
	}
	if params.Query != "" {
		query.Set("q", params.Query)
	}
	if params.SortBy != "" {
		query.Set("sort_by", params.SortBy)
	}
	if params.Order != "" {
		query.Set("order", params.Order)
	}

	path := "/editais"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	result, _ := c.doJSON(ctx, "list_notices", http.MethodGet, path, "", nil)
	if !result.Success {
		return nil, result
	}

	var list models.NoticeList
	if err := result.Decode(&list); err != nil {
		c.logger.Error("failed to decode notice list", zap.Error(err))
		return nil, failure(MsgServerError)
	}
	return &list, result
}

// GetNotice fetches one notice by ID
func (c *BackendClient) GetNotice(ctx context.Context, id string) (*models.Notice, *models.APIResult) {
	result, _ := c.doJSON(ctx, "get_notice", http.MethodGet, "/editais/"+url.PathEscape(id), "", nil)
	if !result.Success {
		return nil, result
	}

	var notice models.Notice
	if err := result.Decode(&notice); err != nil {
		c.logger.Error("failed to decode notice", zap.Error(err))
		return nil, failure(MsgServerError)
	}
	return &notice, result
}

// CreateNotice publishes a new notice as multipart form data
func (c *BackendClient) CreateNotice(ctx context.Context, token string, input models.NoticeInput, attachment *Upload) *models.APIResult {
	noticeJSON, err := json.Marshal(input)
	if err != nil {
		return failure(MsgServerError)
	}

	uploads := []Upload{}
	if attachment != nil {
		uploads = append(uploads, *attachment)
	}

	body, contentType, err := buildMultipart(map[string]string{"edital": string(noticeJSON)}, uploads)
	if err != nil {
		c.logger.Error("failed to build multipart body", zap.Error(err))
		return failure(MsgServerError)
	}

	result, _ := c.do(ctx, "create_notice", http.MethodPost, "/editais", token, body, contentType)
	return result
}

// CheckExemption probes for an existing exemption request. An upstream 404
// is a normal negative result, not an error.
func (c *BackendClient) CheckExemption(ctx context.Context, token, noticeID string) (*models.ExemptionRequest, *models.APIResult) {
	result, code := c.doJSON(ctx, "check_exemption", http.MethodGet,
		"/editais/"+url.PathEscape(noticeID)+"/isencao", token, nil)

	if !result.Success {
		if code == http.StatusNotFound {
			return nil, &models.APIResult{Success: true}
		}
		return nil, result
	}

	var request models.ExemptionRequest
	if err := result.Decode(&request); err != nil {
		c.logger.Error("failed to decode exemption request", zap.Error(err))
		return nil, failure(MsgServerError)
	}
	return &request, result
}

// SubmitExemption submits a fee-exemption request with evidence files.
// A duplicate-submission conflict is remapped to its specific message.
func (c *BackendClient) SubmitExemption(ctx context.Context, token, noticeID string, files []Upload) *models.APIResult {
	body, contentType, err := buildMultipart(nil, files)
	if err != nil {
		c.logger.Error("failed to build multipart body", zap.Error(err))
		return failure(MsgServerError)
	}

	result, code := c.do(ctx, "submit_exemption", http.MethodPost,
		"/editais/"+url.PathEscape(noticeID)+"/isencao", token, body, contentType)

	if !result.Success && isDuplicateConflict(code, result.Message) {
		return failure(MsgDuplicateExemption)
	}
	return result
}

// isDuplicateConflict recognizes the backend's uniqueness violation
func isDuplicateConflict(code int, message string) bool {
	if code == http.StatusConflict {
		return true
	}
	return code == http.StatusBadRequest && message == "duplicate_request"
}

// RequestPasswordReset asks the backend to email a reset token
func (c *BackendClient) RequestPasswordReset(ctx context.Context, email string) *models.APIResult {
	result, _ := c.doJSON(ctx, "request_password_reset", http.MethodPost, "/auth/recuperar", "", map[string]string{
		"email": email,
	})
	return result
}

// ValidateResetToken checks whether a reset token is still consumable
func (c *BackendClient) ValidateResetToken(ctx context.Context, resetToken string) *models.APIResult {
	result, _ := c.doJSON(ctx, "validate_reset_token", http.MethodGet,
		"/auth/recuperar/"+url.PathEscape(resetToken), "", nil)
	return result
}

// ResetPassword consumes a reset token and sets the new password
func (c *BackendClient) ResetPassword(ctx context.Context, resetToken, senha string) *models.APIResult {
	result, _ := c.doJSON(ctx, "reset_password", http.MethodPost,
		"/auth/recuperar/"+url.PathEscape(resetToken), "", map[string]string{
			"senha": senha,
		})
	return result
}

// buildMultipart assembles a multipart/form-data body from plain fields and
// file uploads.
func buildMultipart(fields map[string]string, files []Upload) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", name, err)
		}
	}

	for _, file := range files {
		part, err := writer.CreateFormFile(file.FieldName, file.FileName)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create form file %s: %w", file.FileName, err)
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, "", fmt.Errorf("failed to write file %s: %w", file.FileName, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}
