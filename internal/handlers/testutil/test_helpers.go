package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/uiforge/uiforge/internal/ai"
	"github.com/uiforge/uiforge/internal/api"
	iauth "github.com/uiforge/uiforge/internal/auth"
	"github.com/uiforge/uiforge/internal/database"
	"github.com/uiforge/uiforge/internal/services"
	"github.com/uiforge/uiforge/pkg/mail"
	"github.com/uiforge/uiforge/pkg/response"
)

var codePattern = regexp.MustCompile(`\b(\d{4,10})\b`)

// CaptureMailer records outgoing messages so tests can read delivered codes.
type CaptureMailer struct {
	mu       sync.Mutex
	Messages []mail.Message
	Err      error
}

func (m *CaptureMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Messages = append(m.Messages, msg)
	return nil
}

// LastCode extracts the numeric passcode from the most recent message.
func (m *CaptureMailer) LastCode(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.Messages, "no mail captured")
	match := codePattern.FindStringSubmatch(m.Messages[len(m.Messages)-1].Body)
	require.NotNil(t, match, "no code found in mail body")
	return match[1]
}

// Env encapsulates a fully-wired API instance backed by an in-memory database for handler tests.
type Env struct {
	T      *testing.T
	DB     *gorm.DB
	Router *gin.Engine
	JWT    *iauth.JWTService
	Mailer *CaptureMailer
}

// Option customises the wiring of a test environment.
type Option func(*envConfig)

type envConfig struct {
	aiClient *ai.Client
	otpOpts  []services.OTPOption
}

// WithAIClient routes generation endpoints at the given client.
func WithAIClient(client *ai.Client) Option {
	return func(cfg *envConfig) { cfg.aiClient = client }
}

// WithOTPOptions forwards options to the passcode service.
func WithOTPOptions(opts ...services.OTPOption) Option {
	return func(cfg *envConfig) { cfg.otpOpts = append(cfg.otpOpts, opts...) }
}

// NewEnv provisions a fresh handler test environment with migrations applied.
func NewEnv(t *testing.T, opts ...Option) *Env {
	t.Helper()

	gin.SetMode(gin.TestMode)

	var cfg envConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every request on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))

	jwtSvc, err := iauth.NewJWTService(iauth.JWTConfig{
		Secret:         "test-suite-super-secret-key-32-bytes!!",
		Issuer:         "test-suite",
		AccessTokenTTL: time.Hour,
	})
	require.NoError(t, err)

	mailer := &CaptureMailer{}

	router, err := api.NewRouter(db, jwtSvc, mailer, cfg.aiClient, cfg.otpOpts...)
	require.NoError(t, err)

	return &Env{
		T:      t,
		DB:     db,
		Router: router,
		JWT:    jwtSvc,
		Mailer: mailer,
	}
}

// LoginResult bundles the JSON response from POST /api/auth/otp/verify.
type LoginResult struct {
	Token string `json:"token"`
	User  struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"user"`
}

// Login runs the full passcode flow for the given address and returns the issued token.
func (e *Env) Login(email string) LoginResult {
	e.T.Helper()

	sent := e.Request(http.MethodPost, "/api/auth/otp", map[string]string{"email": email}, "")
	require.Equal(e.T, http.StatusOK, sent.Code, sent.Body.String())

	code := e.Mailer.LastCode(e.T)

	verify := e.Request(http.MethodPost, "/api/auth/otp/verify", map[string]string{
		"email": email,
		"code":  code,
	}, "")
	require.Equal(e.T, http.StatusOK, verify.Code, verify.Body.String())

	resp := DecodeResponse(e.T, verify)
	require.True(e.T, resp.Success, verify.Body.String())

	var result LoginResult
	DecodeInto(e.T, resp.Data, &result)
	require.NotEmpty(e.T, result.Token)
	return result
}

// APIResponse represents the canonical API envelope returned by handlers.
type APIResponse struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Error   *response.ErrorInfo `json:"error"`
	Meta    *response.Meta      `json:"meta"`
}

// DecodeResponse parses the standard API response object from a recorder.
func DecodeResponse(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

// DecodeInto unmarshals the data payload into the provided destination.
func DecodeInto[T any](t *testing.T, raw json.RawMessage, dest *T) {
	t.Helper()
	if dest == nil {
		t.Fatal("destination must not be nil")
	}
	require.NoError(t, json.Unmarshal(raw, dest))
}

// Request executes an HTTP request against the test router, applying JSON encoding and auth headers automatically.
func (e *Env) Request(method, path string, body any, token string) *httptest.ResponseRecorder {
	e.T.Helper()

	var buf *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(e.T, err)
		buf = bytes.NewBuffer(data)
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, buf)
	require.NoError(e.T, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}
