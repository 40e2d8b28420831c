package handlers_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/uiforge/uiforge/internal/handlers/testutil"
	"github.com/uiforge/uiforge/internal/models"
	"github.com/uiforge/uiforge/internal/services"
)

var errSMTPDown = errors.New("smtp: connection refused")

func TestAuthHandler_PasscodeLoginFlow(t *testing.T) {
	env := testutil.NewEnv(t)

	login := env.Login("ada@example.com")
	require.Equal(t, "ada@example.com", login.User.Email)
	require.NotEmpty(t, login.User.ID)

	me := env.Request(http.MethodGet, "/api/auth/me", nil, login.Token)
	require.Equal(t, http.StatusOK, me.Code, me.Body.String())
	meResp := testutil.DecodeResponse(t, me)
	require.True(t, meResp.Success)
	var meData map[string]any
	testutil.DecodeInto(t, meResp.Data, &meData)
	require.Equal(t, login.User.ID, meData["id"])
	require.Equal(t, "ada@example.com", meData["email"])

	unauth := env.Request(http.MethodGet, "/api/auth/me", nil, "")
	require.Equal(t, http.StatusUnauthorized, unauth.Code)
}

func TestAuthHandler_VerifyRejectsWrongCode(t *testing.T) {
	env := testutil.NewEnv(t)

	sent := env.Request(http.MethodPost, "/api/auth/otp", map[string]string{"email": "bob@example.com"}, "")
	require.Equal(t, http.StatusOK, sent.Code)

	resp := env.Request(http.MethodPost, "/api/auth/otp/verify", map[string]string{
		"email": "bob@example.com",
		"code":  "000000",
	}, "")
	require.Equal(t, http.StatusUnauthorized, resp.Code)
	decoded := testutil.DecodeResponse(t, resp)
	require.False(t, decoded.Success)
	require.Equal(t, "CODE_REJECTED", decoded.Error.Code)
}

func TestAuthHandler_VerifyExpiredCodeLooksLikeInvalid(t *testing.T) {
	current := time.Now()
	env := testutil.NewEnv(t, testutil.WithOTPOptions(
		services.WithOTPClock(func() time.Time { return current }),
	))

	sent := env.Request(http.MethodPost, "/api/auth/otp", map[string]string{"email": "carol@example.com"}, "")
	require.Equal(t, http.StatusOK, sent.Code)
	code := env.Mailer.LastCode(t)

	current = current.Add(11 * time.Minute)

	resp := env.Request(http.MethodPost, "/api/auth/otp/verify", map[string]string{
		"email": "carol@example.com",
		"code":  code,
	}, "")
	require.Equal(t, http.StatusUnauthorized, resp.Code)
	decoded := testutil.DecodeResponse(t, resp)
	require.Equal(t, "CODE_REJECTED", decoded.Error.Code)

	// The expired code is consumed, so a retry within a fresh window still fails.
	current = current.Add(-11 * time.Minute)
	retry := env.Request(http.MethodPost, "/api/auth/otp/verify", map[string]string{
		"email": "carol@example.com",
		"code":  code,
	}, "")
	require.Equal(t, http.StatusUnauthorized, retry.Code)
}

func TestAuthHandler_VerifyCodeIsSingleUse(t *testing.T) {
	env := testutil.NewEnv(t)

	sent := env.Request(http.MethodPost, "/api/auth/otp", map[string]string{"email": "dave@example.com"}, "")
	require.Equal(t, http.StatusOK, sent.Code)
	code := env.Mailer.LastCode(t)

	payload := map[string]string{"email": "dave@example.com", "code": code}
	first := env.Request(http.MethodPost, "/api/auth/otp/verify", payload, "")
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())

	replay := env.Request(http.MethodPost, "/api/auth/otp/verify", payload, "")
	require.Equal(t, http.StatusUnauthorized, replay.Code)
}

func TestAuthHandler_RequestCodeValidation(t *testing.T) {
	env := testutil.NewEnv(t)

	resp := env.Request(http.MethodPost, "/api/auth/otp", map[string]string{"email": "not-an-email"}, "")
	require.Equal(t, http.StatusBadRequest, resp.Code)
	decoded := testutil.DecodeResponse(t, resp)
	require.False(t, decoded.Success)
	require.Equal(t, "BAD_REQUEST", decoded.Error.Code)
}

func TestAuthHandler_RequestCodeSucceedsWhenDeliveryFails(t *testing.T) {
	env := testutil.NewEnv(t)
	env.Mailer.Err = errSMTPDown

	resp := env.Request(http.MethodPost, "/api/auth/otp", map[string]string{"email": "erin@example.com"}, "")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	// The code was still persisted even though the email never went out.
	var count int64
	require.NoError(t, env.DB.Model(&models.LoginCode{}).Where("identifier = ?", "erin@example.com").Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestAuthHandler_LoginIsIdempotentPerUser(t *testing.T) {
	env := testutil.NewEnv(t)

	first := env.Login("frank@example.com")
	second := env.Login("frank@example.com")
	require.Equal(t, first.User.ID, second.User.ID)

	var count int64
	require.NoError(t, env.DB.Model(&models.User{}).Where("email = ?", "frank@example.com").Count(&count).Error)
	require.EqualValues(t, 1, count)
}
