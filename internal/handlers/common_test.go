package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/edital360/portal/internal/config"
	"github.com/edital360/portal/internal/middleware"
	"github.com/edital360/portal/internal/models"
	"github.com/edital360/portal/internal/redisclient"
	"github.com/edital360/portal/internal/services"
)

const testCookieName = "token"

func init() {
	gin.SetMode(gin.TestMode)
}

// testConfig installs a minimal config for handler tests
func testConfig() {
	config.AppConfig = &config.Config{
		Environment:       "development",
		TokenCookieName:   testCookieName,
		TokenCookieTTL:    24 * time.Hour,
		RegistrationTTL:   time.Hour,
		ResetCooldown:     60 * time.Second,
		AdminRole:         "edital360-admin",
		MaxNoticePDFBytes: 10 << 20,
		MaxExemptionBytes: 50 << 20,
		MaxExemptionFiles: 10,
	}
}

// unreachableSession returns a session service whose Redis mirror always
// fails fast; handlers treat the mirror as best-effort.
func unreachableSession() *services.SessionService {
	client := redis.NewClient(&redis.Options{
		Addr:        "localhost:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	return services.NewSessionService(redisclient.NewClient(client), 24*time.Hour, 60*time.Second, nil)
}

// createTestJWT creates an unsigned JWT; the portal never verifies signatures
func createTestJWT(cpf string, roles []string, exp time.Time) string {
	payload, _ := json.Marshal(map[string]interface{}{
		"exp":   exp.Unix(),
		"cpf":   cpf,
		"roles": roles,
	})
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".fake-signature"
}

// jsonRequest builds a JSON request with an optional bearer token
func jsonRequest(method, url string, body interface{}, token string) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func perform(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// memoryStateStore is an in-memory registration state store
type memoryStateStore struct {
	states map[string]models.RegistrationState
}

func newMemoryStateStore() *memoryStateStore {
	return &memoryStateStore{states: map[string]models.RegistrationState{}}
}

func (s *memoryStateStore) Save(ctx context.Context, state *models.RegistrationState, ttl time.Duration) error {
	s.states[state.ID] = *state
	return nil
}

func (s *memoryStateStore) Load(ctx context.Context, id string) (*models.RegistrationState, error) {
	state, ok := s.states[id]
	if !ok {
		return nil, models.ErrWizardNotFound
	}
	return &state, nil
}

func (s *memoryStateStore) Delete(ctx context.Context, id string) error {
	delete(s.states, id)
	return nil
}

// memoryDraftStore is an in-memory notice draft store
type memoryDraftStore struct {
	drafts map[string]models.NoticeDraft
}

func newMemoryDraftStore() *memoryDraftStore {
	return &memoryDraftStore{drafts: map[string]models.NoticeDraft{}}
}

func (s *memoryDraftStore) Save(ctx context.Context, draft *models.NoticeDraft) error {
	s.drafts[draft.CreatedBy] = *draft
	return nil
}

func (s *memoryDraftStore) Load(ctx context.Context, createdBy string) (*models.NoticeDraft, error) {
	draft, ok := s.drafts[createdBy]
	if !ok {
		return nil, models.ErrDraftNotFound
	}
	return &draft, nil
}

func (s *memoryDraftStore) Delete(ctx context.Context, createdBy string) error {
	delete(s.drafts, createdBy)
	return nil
}

// authedRouter wires the handler routes the way main does, with auth and
// admin middleware in place.
func authedRouter() *gin.Engine {
	router := gin.New()
	v1 := router.Group("/v1")

	v1.GET("/editais", ListNotices)
	v1.GET("/editais/:id", GetNotice)

	authed := v1.Group("", middleware.AuthMiddleware(testCookieName))
	authed.GET("/perfil", GetProfile)
	authed.PUT("/perfil", UpdateProfile)
	authed.GET("/editais/:id/isencao", GetExemptionStatus)
	authed.POST("/editais/:id/isencao", SubmitExemption)

	admin := authed.Group("", middleware.RequireAdmin("edital360-admin"))
	admin.GET("/editais/rascunho", GetNoticeDraft)
	admin.PUT("/editais/rascunho/:step", SaveNoticeStep)
	admin.POST("/editais", PublishNotice)

	return router
}
