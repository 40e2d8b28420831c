package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	iauth "github.com/uiforge/uiforge/internal/auth"
	"github.com/uiforge/uiforge/internal/middleware"
	"github.com/uiforge/uiforge/internal/services"
	appErrors "github.com/uiforge/uiforge/pkg/errors"
	"github.com/uiforge/uiforge/pkg/logger"
	"github.com/uiforge/uiforge/pkg/mail"
	"github.com/uiforge/uiforge/pkg/metrics"
	"github.com/uiforge/uiforge/pkg/response"
)

// AuthHandler manages the passwordless login flow (request code / verify / me).
type AuthHandler struct {
	otp   *services.OTPService
	users *services.UserService
	jwt   *iauth.JWTService
}

func NewAuthHandler(otp *services.OTPService, users *services.UserService, jwt *iauth.JWTService) *AuthHandler {
	return &AuthHandler{otp: otp, users: users, jwt: jwt}
}

type requestCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// POST /api/auth/otp
func (h *AuthHandler) RequestCode(c *gin.Context) {
	var req requestCodeRequest
	if !bindAndValidate(c, &req) {
		return
	}

	_, delivery, err := h.otp.Issue(c.Request.Context(), req.Email)
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer)
		return
	}

	switch {
	case delivery.Delivered:
		metrics.CodeIssued.WithLabelValues("delivered").Inc()
	case errors.Is(delivery.Reason, mail.ErrSMTPDisabled):
		metrics.CodeIssued.WithLabelValues("disabled").Inc()
	default:
		metrics.CodeIssued.WithLabelValues("failed").Inc()
	}

	// The response is identical whether or not the email could be sent so the
	// endpoint reveals nothing about mailer state or address validity.
	response.Success(c, http.StatusOK, gin.H{"sent": true})
}

type verifyCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6"`
}

// POST /api/auth/otp/verify
func (h *AuthHandler) VerifyCode(c *gin.Context) {
	var req verifyCodeRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.otp.Verify(c.Request.Context(), req.Email, req.Code); err != nil {
		switch {
		case errors.Is(err, services.ErrCodeExpired):
			metrics.CodeVerified.WithLabelValues("expired").Inc()
			response.Error(c, appErrors.ErrCodeRejected)
		case errors.Is(err, services.ErrCodeInvalid):
			metrics.CodeVerified.WithLabelValues("invalid").Inc()
			response.Error(c, appErrors.ErrCodeRejected)
		default:
			response.Error(c, appErrors.ErrInternalServer)
		}
		return
	}

	metrics.CodeVerified.WithLabelValues("valid").Inc()

	user, err := h.users.FindOrCreateByEmail(c.Request.Context(), req.Email, services.LoginMetadata{
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		logger.Error("failed to upsert user after code verification", zap.Error(err))
		response.Error(c, appErrors.ErrInternalServer)
		return
	}

	token, err := h.jwt.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
		},
	})
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"name":       user.Name,
		"created_at": user.CreatedAt,
	})
}
