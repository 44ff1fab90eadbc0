package controllers

import (
	"time"

	"learntrack/database"
	"learntrack/middleware"
	trainingModels "learntrack/models/training"
	"learntrack/pkg/apperrors"
	"learntrack/policy"

	"github.com/gofiber/fiber/v2"
)

// checkAccess applies the early-completion lock and then the training's
// access policy for the given unit position. A nil return means the unit is
// visible to the user right now.
func checkAccess(c *fiber.Ctx, userID, trainingID uint, unitIndex int) error {
	progress, err := progressRepo.ReadProgress(userID, trainingID)
	if err != nil {
		return err
	}

	// a session completed before the required dwell time stays locked
	if progress != nil && progress.Status == trainingModels.StatusCompleted && progress.CompletedEarly {
		return apperrors.NewPolicyDenied(apperrors.ReasonEarlyCompletionLock)
	}

	pol, err := progressRepo.ReadPolicy(trainingID)
	if err != nil {
		return err
	}

	var totalUnits int64
	database.Database.Db.Model(&trainingModels.TrainingUnit{}).
		Where("training_id = ? AND is_deleted = ?", trainingID, false).
		Count(&totalUnits)

	d := policy.Evaluate(pol, progress, int(totalUnits), time.Now())
	return policy.CheckUnit(d, unitIndex)
}

// GetUnitContent gates one unit behind the access policy and returns a signed
// content URL for it. The URL is opaque and expiring; clients refresh when
// within 60s of expiry by calling again.
func GetUnitContent(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	trainingID := c.Locals("trainingID").(uint)
	unitIndex := c.Locals("unitIndex").(int)

	var unit trainingModels.TrainingUnit
	if err := database.Database.Db.Where("training_id = ? AND order_index = ? AND is_deleted = ?", trainingID, unitIndex, false).First(&unit).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Unit not found!", nil)
	}

	if err := checkAccess(c, userID, trainingID, unitIndex); err != nil {
		return middleware.EngineErrorResponse(c, err)
	}

	signed, err := contentStore.GetSignedContentUrl(trainingID, unit.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Content service unavailable!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content URL issued!", fiber.Map{
		"unit_id":    unit.ID,
		"title":      unit.Title,
		"url":        signed.URL,
		"expires_at": signed.ExpiresAt,
	})
}

// GetTrainingAccess reports the current policy decision for a training so the
// UI can show or hide units up front.
func GetTrainingAccess(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	trainingID := c.Locals("trainingID").(uint)

	progress, err := progressRepo.ReadProgress(userID, trainingID)
	if err != nil {
		return middleware.EngineErrorResponse(c, err)
	}
	if progress != nil && progress.Status == trainingModels.StatusCompleted && progress.CompletedEarly {
		return middleware.EngineErrorResponse(c, apperrors.NewPolicyDenied(apperrors.ReasonEarlyCompletionLock))
	}

	pol, err := progressRepo.ReadPolicy(trainingID)
	if err != nil {
		return middleware.EngineErrorResponse(c, err)
	}

	var totalUnits int64
	database.Database.Db.Model(&trainingModels.TrainingUnit{}).
		Where("training_id = ? AND is_deleted = ?", trainingID, false).
		Count(&totalUnits)

	d := policy.Evaluate(pol, progress, int(totalUnits), time.Now())
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Access evaluated!", d)
}
