package main

import (
	"learntrack/config"
	assessmentControllers "learntrack/controllers/assessment"
	trainingControllers "learntrack/controllers/training"
	"learntrack/database"
	assessmentRoutes "learntrack/routers/assessmentRoutes"
	trainingRoutes "learntrack/routers/trainingRoutes"
	"learntrack/utils"

	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	trainingControllers.InitTrainingControllers()
	assessmentControllers.InitAssessmentControllers()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	trainingRoutes.SetupTrainingRoutes(app)
	assessmentRoutes.SetupAssessmentRoutes(app)

	utils.InitializeSessionScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
