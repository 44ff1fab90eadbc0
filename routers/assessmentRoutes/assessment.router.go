package assessmentRoutes

import (
	controllers "learntrack/controllers/assessment"
	"learntrack/middleware"
	validators "learntrack/validators/assessment"
	trainingValidators "learntrack/validators/training"

	"github.com/gofiber/fiber/v2"
)

// SetupAssessmentRoutes sets up all assessment routes
func SetupAssessmentRoutes(app *fiber.App) {
	group := app.Group("/assessment")

	// Authoring
	group.Post("/create", middleware.JWTMiddleware, validators.CreateAssessment(), controllers.CreateAssessment)
	group.Post("/:id/publish", middleware.JWTMiddleware, validators.AssessmentID(), controllers.PublishAssessment)
	group.Get("/training/:id/list", middleware.JWTMiddleware, trainingValidators.TrainingID(), controllers.GetAssessmentList)

	// Attempts
	group.Post("/:id/attempt/start", middleware.JWTMiddleware, validators.AssessmentID(), controllers.StartAttempt)
	group.Post("/attempt/submit", middleware.JWTMiddleware, validators.SubmitAttempt(), controllers.SubmitAttempt)
	group.Get("/:id/attempt/best", middleware.JWTMiddleware, validators.AssessmentID(), controllers.GetBestAttempt)
}
