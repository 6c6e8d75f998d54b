package captcha

import (
	"github.com/labstack/echo/v4"

	"media-platform/pkg/apperrors"
	"media-platform/pkg/captcha"
	"media-platform/pkg/logger"
)

// Handler exposes the challenge store over HTTP.
type Handler struct {
	store *captcha.Store
}

func NewHandler(store *captcha.Store) *Handler {
	return &Handler{store: store}
}

// Generate handles POST /captcha/generate. Each call mints a new challenge; nothing
// is consumed until the answer is checked.
func (h *Handler) Generate(c echo.Context) error {
	log := logger.Get().WithComponent("captcha").WithRequestID(logger.GetRequestIDFromContext(c))

	token, code, err := h.store.Generate()
	if err != nil {
		log.Error("Failed to generate challenge", err)
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeUnexpectedError,
			"Internal server error.",
			err,
		))
	}

	return apperrors.RespondWithSuccess(c, GenerateResponse{Token: token, Code: code})
}

// Verify handles POST /captcha/verify. The challenge is gone after one
// check regardless of the outcome, so a wrong answer forces a new one.
func (h *Handler) Verify(c echo.Context) error {
	log := logger.Get().WithComponent("captcha").WithRequestID(logger.GetRequestIDFromContext(c))

	req := new(VerifyRequest)
	if err := c.Bind(req); err != nil {
		log.Warn("Invalid captcha verification payload", logger.Err(err))
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(
			apperrors.ErrCodeValidationFailed,
			"Invalid request payload.",
		))
	}
	if req.Token == "" {
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(
			apperrors.ErrCodeMissingField,
			"Field 'token' is required.",
		))
	}

	valid := h.store.VerifyAndConsume(req.Token, req.Answer)
	if !valid {
		log.Info("Captcha verification failed")
	}
	return apperrors.RespondWithSuccess(c, VerifyResponse{Valid: valid})
}
