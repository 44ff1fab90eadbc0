package controllers

import (
	"learntrack/database"
	"learntrack/middleware"
	trainingModels "learntrack/models/training"

	"github.com/gofiber/fiber/v2"
)

// CreateTraining creates a draft training
func CreateTraining(c *fiber.Ctx) error {
	reqData := c.Locals("validatedTraining").(*CreateTrainingRequest)

	tr := trainingModels.Training{
		Title:           reqData.Title,
		Description:     reqData.Description,
		RequiredSeconds: reqData.RequiredSeconds,
	}
	if err := database.Database.Db.Create(&tr).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create training!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Training created!", tr)
}

// AddTrainingUnit appends a content unit to a training
func AddTrainingUnit(c *fiber.Ctx) error {
	trainingID := c.Locals("trainingID").(uint)
	reqData := c.Locals("validatedUnit").(*AddUnitRequest)

	var tr trainingModels.Training
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", trainingID, false).First(&tr).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Training not found!", nil)
	}

	unit := trainingModels.TrainingUnit{
		TrainingID: trainingID,
		Title:      reqData.Title,
		ContentKey: reqData.ContentKey,
		OrderIndex: reqData.OrderIndex,
	}
	if err := database.Database.Db.Create(&unit).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add unit!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Unit added!", unit)
}

// SetAccessPolicy creates or replaces the single access policy of a training
func SetAccessPolicy(c *fiber.Ctx) error {
	trainingID := c.Locals("trainingID").(uint)
	reqData := c.Locals("validatedPolicy").(*SetPolicyRequest)

	var tr trainingModels.Training
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", trainingID, false).First(&tr).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Training not found!", nil)
	}

	pol := trainingModels.AccessPolicy{
		TrainingID:    trainingID,
		Type:          reqData.Type,
		TimeLimitDays: reqData.TimeLimitDays,
	}

	// at most one policy per training
	var existing trainingModels.AccessPolicy
	err := database.Database.Db.Where("training_id = ?", trainingID).First(&existing).Error
	if err == nil {
		existing.Type = pol.Type
		existing.TimeLimitDays = pol.TimeLimitDays
		if err := database.Database.Db.Save(&existing).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update policy!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Policy updated!", existing)
	}

	if err := database.Database.Db.Create(&pol).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to set policy!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Policy set!", pol)
}

// GetTrainingList returns published trainings with their unit counts
func GetTrainingList(c *fiber.Ctx) error {
	var trainings []trainingModels.Training
	if err := database.Database.Db.Where("is_deleted = ?", false).Find(&trainings).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch trainings!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Trainings fetched!", trainings)
}
