package trainingValidator

import (
	"strconv"

	trainingControllers "learntrack/controllers/training"
	"learntrack/middleware"

	"github.com/gofiber/fiber/v2"
)

// TrainingID validates the :id path param and stores it in the context
func TrainingID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("id"))
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid training id!", nil)
		}
		c.Locals("trainingID", uint(id))
		return c.Next()
	}
}

// SessionBody validates the open/heartbeat request body
func SessionBody() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(trainingControllers.SessionRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.UnitID == 0 {
			errors["unit_id"] = "Unit id is required!"
		}
		if reqData.UnitIndex <= 0 {
			errors["unit_index"] = "Unit index must be positive!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSession", reqData)
		return c.Next()
	}
}

// UnitIndex validates the :unit path param as a 1-based position
func UnitIndex() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idx, err := strconv.Atoi(c.Params("unit"))
		if err != nil || idx <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid unit index!", nil)
		}
		c.Locals("unitIndex", idx)
		return c.Next()
	}
}
