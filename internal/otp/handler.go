package otp

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	sharedauth "jengahub-backend/internal/shared/auth"
	"jengahub-backend/internal/shared/server/respond"
)

// Handler exposes SMS OTP endpoints.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches OTP routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/send-sms-otp", h.send)
	rg.POST("/auth/verify-sms-otp", h.verify)
}

type sendRequest struct {
	Phone string `json:"phoneNumber"`
	Email string `json:"email"`
}

func (h *Handler) send(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	phone, err := h.Svc.Send(c.Request.Context(), req.Phone)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidPhone):
			respond.Error(c, http.StatusBadRequest, "validation_error", "enter a valid Kenyan phone number", []map[string]string{
				{"field": "phone", "issue": "invalid"},
			})
		case errors.Is(err, ErrRateLimited):
			respond.Error(c, http.StatusTooManyRequests, "rate_limited", "too many codes requested, try again later", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to send code", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{"sent": true, "phone": phone})
}

type verifyRequest struct {
	Phone string `json:"phoneNumber"`
	Code  string `json:"otpCode"`
	Email string `json:"email"`
}

func (h *Handler) verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	phone, err := h.Svc.Verify(c.Request.Context(), req.Phone, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidPhone):
			respond.Error(c, http.StatusBadRequest, "validation_error", "enter a valid Kenyan phone number", nil)
		case errors.Is(err, ErrNoChallenge):
			respond.Error(c, http.StatusBadRequest, "invalid_code", "no code was sent to this number", nil)
		case errors.Is(err, ErrCodeExpired):
			respond.Error(c, http.StatusBadRequest, "code_expired", "code expired, request a new one", nil)
		case errors.Is(err, ErrTooManyAttempts):
			respond.Error(c, http.StatusTooManyRequests, "too_many_attempts", "too many attempts, request a new code", nil)
		case errors.Is(err, ErrCodeInvalid):
			respond.Error(c, http.StatusBadRequest, "invalid_code", "incorrect code", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to verify code", nil)
		}
		return
	}

	token, err := sharedauth.SignJWT(sharedauth.Claims{Sub: "phone:" + phone, Email: req.Email})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to issue token", nil)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{"token": token, "phone": phone})
}
