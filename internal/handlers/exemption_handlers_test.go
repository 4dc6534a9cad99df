package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edital360/portal/internal/models"
	"github.com/edital360/portal/internal/services"
)

// scriptedExemptionBackend drives the exemption handlers in tests
type scriptedExemptionBackend struct {
	existing     *models.ExemptionRequest
	probeResult  *models.APIResult
	submitResult *models.APIResult
	submitted    []services.Upload
}

func (f *scriptedExemptionBackend) CheckExemption(ctx context.Context, token, noticeID string) (*models.ExemptionRequest, *models.APIResult) {
	if f.probeResult != nil {
		return f.existing, f.probeResult
	}
	return f.existing, &models.APIResult{Success: true}
}

func (f *scriptedExemptionBackend) SubmitExemption(ctx context.Context, token, noticeID string, files []services.Upload) *models.APIResult {
	f.submitted = files
	if f.submitResult != nil {
		return f.submitResult
	}
	return &models.APIResult{Success: true, Message: "received"}
}

func exemptionRouter(t *testing.T, backend *scriptedExemptionBackend) *gin.Engine {
	t.Helper()
	testConfig()

	services.ExemptionInstance = services.NewExemptionService(backend, 50<<20, 10, nil)
	t.Cleanup(func() { services.ExemptionInstance = nil })

	return authedRouter()
}

func TestGetExemptionStatus(t *testing.T) {
	t.Run("requires authentication", func(t *testing.T) {
		router := exemptionRouter(t, &scriptedExemptionBackend{})

		w := perform(router, jsonRequest(http.MethodGet, "/v1/editais/e1/isencao", nil, ""))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("no request yet", func(t *testing.T) {
		router := exemptionRouter(t, &scriptedExemptionBackend{})

		w := perform(router, jsonRequest(http.MethodGet, "/v1/editais/e1/isencao", nil, citizenToken()))
		require.Equal(t, http.StatusOK, w.Code)

		var state models.ExemptionState
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
		assert.False(t, state.Exists)
		assert.True(t, state.CanSubmit)
	})

	t.Run("pending request", func(t *testing.T) {
		router := exemptionRouter(t, &scriptedExemptionBackend{
			existing: &models.ExemptionRequest{ID: "i1", NoticeID: "e1", Status: models.ExemptionPendente},
		})

		w := perform(router, jsonRequest(http.MethodGet, "/v1/editais/e1/isencao", nil, citizenToken()))
		require.Equal(t, http.StatusOK, w.Code)

		var state models.ExemptionState
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
		assert.True(t, state.Exists)
		assert.False(t, state.CanSubmit)
	})
}

func TestSubmitExemption(t *testing.T) {
	submit := func(t *testing.T, router *gin.Engine, fields []string) *httptest.ResponseRecorder {
		t.Helper()
		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		for _, name := range fields {
			header := textproto.MIMEHeader{}
			header.Set("Content-Disposition", `form-data; name="documentos"; filename="`+name+`"`)
			header.Set("Content-Type", "application/pdf")
			part, err := writer.CreatePart(header)
			require.NoError(t, err)
			_, err = part.Write([]byte("%PDF-1.7"))
			require.NoError(t, err)
		}
		require.NoError(t, writer.Close())

		req := httptest.NewRequest(http.MethodPost, "/v1/editais/e1/isencao", &buf)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+citizenToken())
		return perform(router, req)
	}

	t.Run("rejects duplicate request", func(t *testing.T) {
		backend := &scriptedExemptionBackend{
			existing: &models.ExemptionRequest{ID: "i1", Status: models.ExemptionPendente},
		}
		router := exemptionRouter(t, backend)

		w := submit(t, router, []string{"comprovante.pdf"})
		require.Equal(t, http.StatusConflict, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, services.MsgDuplicateExemption, resp.Error)
		assert.Nil(t, backend.submitted)
	})

	t.Run("rejects empty form", func(t *testing.T) {
		router := exemptionRouter(t, &scriptedExemptionBackend{})

		w := submit(t, router, nil)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp ValidationErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "documentos", resp.Field)
	})
}
