package trainingRoutes

import (
	controllers "learntrack/controllers/training"
	"learntrack/middleware"
	validators "learntrack/validators/training"

	"github.com/gofiber/fiber/v2"
)

// SetupTrainingRoutes sets up all training and session routes
func SetupTrainingRoutes(app *fiber.App) {
	group := app.Group("/training")

	// Catalogue
	group.Get("/list", middleware.JWTMiddleware, controllers.GetTrainingList)
	group.Post("/create", middleware.JWTMiddleware, validators.CreateTraining(), controllers.CreateTraining)
	group.Post("/:id/unit", middleware.JWTMiddleware, validators.TrainingID(), validators.AddUnit(), controllers.AddTrainingUnit)
	group.Post("/:id/policy", middleware.JWTMiddleware, validators.TrainingID(), validators.SetPolicy(), controllers.SetAccessPolicy)

	// Gated content access
	group.Get("/:id/access", middleware.JWTMiddleware, validators.TrainingID(), controllers.GetTrainingAccess)
	group.Get("/:id/unit/:unit/content", middleware.JWTMiddleware, validators.TrainingID(), validators.UnitIndex(), controllers.GetUnitContent)

	// Session lifecycle
	group.Post("/:id/session/open", middleware.JWTMiddleware, validators.TrainingID(), validators.SessionBody(), controllers.OpenSession)
	group.Post("/:id/session/heartbeat", middleware.JWTMiddleware, validators.TrainingID(), validators.SessionBody(), controllers.Heartbeat)
	group.Post("/:id/session/pause", middleware.JWTMiddleware, validators.TrainingID(), controllers.PauseSession)
	group.Post("/:id/session/resume", middleware.JWTMiddleware, validators.TrainingID(), controllers.ResumeSession)
	group.Post("/:id/session/complete", middleware.JWTMiddleware, validators.TrainingID(), controllers.CompleteSession)
}
