package assessmentValidator

import (
	"strconv"
	"strings"

	assessmentControllers "learntrack/controllers/assessment"
	"learntrack/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// AssessmentID validates the :id path param and stores it in the context
func AssessmentID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("id"))
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid assessment id!", nil)
		}
		c.Locals("assessmentID", uint(id))
		return c.Next()
	}
}

// CreateAssessment validates the authoring body with struct tags
func CreateAssessment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(assessmentControllers.CreateAssessmentRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fe := range err.(validator.ValidationErrors) {
				errors[strings.ToLower(fe.Field())] = "Failed validation: " + fe.Tag()
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		// open questions carry no options; choice questions need at least one
		// correct option
		errors := make(map[string]string)
		for _, q := range reqData.Questions {
			if q.Type == "open" {
				if len(q.Options) > 0 {
					errors["questions"] = "Open questions cannot have options!"
				}
				continue
			}
			correct := 0
			for _, opt := range q.Options {
				if opt.IsCorrect {
					correct++
				}
			}
			if len(q.Options) < 2 {
				errors["questions"] = "Choice questions need at least two options!"
			} else if correct == 0 {
				errors["questions"] = "Choice questions need a correct option!"
			} else if (q.Type == "single" || q.Type == "true_false") && correct != 1 {
				errors["questions"] = "Single-answer questions need exactly one correct option!"
			}
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAssessment", reqData)
		return c.Next()
	}
}

// SubmitAttempt validates the answer sheet body
func SubmitAttempt() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(assessmentControllers.SubmitAttemptRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.AttemptToken) == "" {
			errors["attempt_token"] = "Attempt token is required!"
		}
		for _, ans := range reqData.Answers {
			if ans.QuestionID == 0 {
				errors["answers"] = "Each answer needs a question id!"
				break
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSubmit", reqData)
		return c.Next()
	}
}
