package recovery

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"media-platform/pkg/apperrors"
	"media-platform/pkg/logger"
	"media-platform/pkg/ratelimit"
	"media-platform/utils"
)

// Handler exposes the recovery flow over HTTP. The rate limiter guards
// forgot-password only; reset-password is gated by possession of the token.
type Handler struct {
	service *Service
	limiter *ratelimit.Limiter
}

func NewHandler(service *Service, limiter *ratelimit.Limiter) *Handler {
	return &Handler{service: service, limiter: limiter}
}

// ForgotPassword handles POST /users/forgot-password
func (h *Handler) ForgotPassword(c echo.Context) error {
	log := logger.Get().WithComponent("recovery").WithRequestID(logger.GetRequestIDFromContext(c))

	req := new(ForgotPasswordRequest)
	if err := c.Bind(req); err != nil {
		log.Warn("Invalid forgot-password payload", logger.Err(err))
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(
			apperrors.ErrCodeValidationFailed,
			"Invalid request payload.",
		))
	}

	// Admission is checked before recording: a rejected request is not
	// logged as an attempt.
	ip := c.RealIP()
	over, err := h.limiter.OverLimit(ip)
	if err != nil {
		// Log unavailable: admit rather than block recovery.
		log.Warn("Rate limit log unreadable, admitting request", logger.Err(err), logger.RemoteIP(ip))
		over = false
	}
	if over {
		log.Warn("Recovery rate limit exceeded", logger.RemoteIP(ip))
		return apperrors.RespondWithError(c, apperrors.NewTooManyRequests(
			apperrors.ErrCodeRateLimitExceeded,
			"Too many recovery attempts. Please try again later.",
		))
	}
	if err := h.limiter.RecordAttempt(ip); err != nil {
		log.Warn("Failed to record recovery attempt", logger.Err(err), logger.RemoteIP(ip))
	}

	if err := h.service.IssueResetToken(c.Request().Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, ErrInvalidEmail):
			return apperrors.RespondWithError(c, apperrors.NewBadRequest(
				apperrors.ErrCodeInvalidEmail,
				"Invalid email address.",
			))
		case errors.Is(err, ErrEmailDispatch):
			log.Error("Recovery email dispatch failed", err)
			return apperrors.RespondWithError(c, apperrors.NewInternal(
				apperrors.ErrCodeEmailSendFailed,
				"Could not send the recovery email.",
				err,
			))
		default:
			log.Error("Failed to issue reset token", err)
			return apperrors.RespondWithError(c, apperrors.NewInternal(
				apperrors.ErrCodeDatabaseError,
				"Internal server error.",
				err,
			))
		}
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: forgotPasswordMessage})
}

// ResetPassword handles POST /users/reset-password
func (h *Handler) ResetPassword(c echo.Context) error {
	log := logger.Get().WithComponent("recovery").WithRequestID(logger.GetRequestIDFromContext(c))

	req := new(ResetPasswordRequest)
	if err := c.Bind(req); err != nil {
		log.Warn("Invalid reset-password payload", logger.Err(err))
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(
			apperrors.ErrCodeValidationFailed,
			"Invalid request payload.",
		))
	}

	if err := h.service.ConsumeResetToken(c.Request().Context(), req.Token, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, ErrTokenMissing):
			return apperrors.RespondWithError(c, apperrors.NewBadRequest(
				apperrors.ErrCodeRecoveryTokenMissing,
				"Reset token not provided.",
			))
		case errors.Is(err, ErrTokenInvalid):
			return apperrors.RespondWithError(c, apperrors.NewBadRequest(
				apperrors.ErrCodeRecoveryTokenInvalid,
				"Reset token is invalid.",
			))
		case errors.Is(err, ErrTokenExpired):
			return apperrors.RespondWithError(c, apperrors.NewBadRequest(
				apperrors.ErrCodeRecoveryTokenExpired,
				"Reset token has expired.",
			))
		case errors.Is(err, utils.ErrPasswordTooWeak):
			return apperrors.RespondWithError(c, apperrors.NewBadRequest(
				apperrors.ErrCodePasswordWeak,
				err.Error(),
			))
		case errors.Is(err, utils.ErrPasswordReused):
			return apperrors.RespondWithError(c, apperrors.NewBadRequest(
				apperrors.ErrCodePasswordReused,
				"The new password must differ from the previous one.",
			))
		default:
			log.Error("Failed to reset password", err)
			return apperrors.RespondWithError(c, apperrors.NewInternal(
				apperrors.ErrCodeDatabaseError,
				"Internal server error.",
				err,
			))
		}
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Password updated successfully."})
}
