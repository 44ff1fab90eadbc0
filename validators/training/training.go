package trainingValidator

import (
	"strings"

	trainingControllers "learntrack/controllers/training"
	"learntrack/middleware"
	trainingModels "learntrack/models/training"

	"github.com/gofiber/fiber/v2"
)

func CreateTraining() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(trainingControllers.CreateTrainingRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		} else if len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if reqData.RequiredSeconds < 0 {
			errors["required_seconds"] = "Required seconds cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedTraining", reqData)
		return c.Next()
	}
}

func AddUnit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(trainingControllers.AddUnitRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}
		if strings.TrimSpace(reqData.ContentKey) == "" {
			errors["content_key"] = "Content key is required!"
		}
		if reqData.OrderIndex <= 0 {
			errors["order_index"] = "Order index must be positive!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUnit", reqData)
		return c.Next()
	}
}

func SetPolicy() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(trainingControllers.SetPolicyRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		switch reqData.Type {
		case trainingModels.PolicyFull, trainingModels.PolicyPreview:
		case trainingModels.PolicyTimeLimited:
			if reqData.TimeLimitDays == nil || *reqData.TimeLimitDays <= 0 {
				errors["time_limit_days"] = "Time limit days must be positive for time_limited policies!"
			}
		default:
			errors["type"] = "Type must be full, preview or time_limited!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPolicy", reqData)
		return c.Next()
	}
}
