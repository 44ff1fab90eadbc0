package middleware

import (
	"errors"

	"learntrack/pkg/apperrors"

	"github.com/gofiber/fiber/v2"
)

// EngineErrorResponse maps engine errors onto HTTP responses. Policy denials
// and exhausted attempts are expected business outcomes and carry their reason
// so the UI can render a specific message; validation and state errors are
// caller contract violations; persistence failures are server errors.
func EngineErrorResponse(c *fiber.Ctx, err error) error {
	var ve *apperrors.ValidationError
	if errors.As(err, &ve) {
		return JsonResponse(c, fiber.StatusBadRequest, false, ve.Error(), nil)
	}
	var se *apperrors.StateError
	if errors.As(err, &se) {
		return JsonResponse(c, fiber.StatusConflict, false, se.Error(), nil)
	}
	var pd *apperrors.PolicyDeniedError
	if errors.As(err, &pd) {
		return JsonResponse(c, fiber.StatusForbidden, false, "Access denied!", fiber.Map{
			"reason": pd.Reason,
		})
	}
	var ae *apperrors.AttemptsExhaustedError
	if errors.As(err, &ae) {
		return JsonResponse(c, fiber.StatusForbidden, false, "No attempts left!", fiber.Map{
			"attempts_used": ae.Used,
			"max_attempts":  ae.Max,
		})
	}
	var pe *apperrors.PersistenceError
	if errors.As(err, &pe) {
		return JsonResponse(c, fiber.StatusInternalServerError, false, "Storage failure, please retry!", nil)
	}
	return JsonResponse(c, fiber.StatusInternalServerError, false, "Unexpected error!", nil)
}
