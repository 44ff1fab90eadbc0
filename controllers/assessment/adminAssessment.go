package controllers

import (
	"learntrack/database"
	"learntrack/middleware"
	assessmentModels "learntrack/models/assessment"

	"github.com/gofiber/fiber/v2"
)

// CreateAssessment stores an assessment with its questions and options
func CreateAssessment(c *fiber.Ctx) error {
	reqData := c.Locals("validatedAssessment").(*CreateAssessmentRequest)

	a := assessmentModels.Assessment{
		TrainingID:       reqData.TrainingID,
		Title:            reqData.Title,
		PassThreshold:    reqData.PassThreshold,
		TimeLimitMinutes: reqData.TimeLimitMinutes,
		MaxAttempts:      reqData.MaxAttempts,
		QuestionCount:    reqData.QuestionCount,
		Randomize:        reqData.Randomize,
	}
	if err := database.Database.Db.Create(&a).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create assessment!", nil)
	}

	for _, qr := range reqData.Questions {
		q := assessmentModels.Question{
			AssessmentID: a.ID,
			Type:         qr.Type,
			Text:         qr.Text,
			Points:       qr.Points,
			OrderIndex:   qr.OrderIndex,
		}
		if err := database.Database.Db.Create(&q).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create question!", nil)
		}
		for _, or := range qr.Options {
			opt := assessmentModels.QuestionOption{
				QuestionID: q.ID,
				Text:       or.Text,
				IsCorrect:  or.IsCorrect,
				OrderIndex: or.OrderIndex,
			}
			if err := database.Database.Db.Create(&opt).Error; err != nil {
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create option!", nil)
			}
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assessment created!", a)
}

// PublishAssessment makes an assessment visible to learners
func PublishAssessment(c *fiber.Ctx) error {
	assessmentID := c.Locals("assessmentID").(uint)

	var a assessmentModels.Assessment
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", assessmentID, false).First(&a).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assessment not found!", nil)
	}

	a.IsPublished = true
	if err := database.Database.Db.Save(&a).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to publish assessment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assessment published!", a)
}

// GetAssessmentList lists published assessments for a training
func GetAssessmentList(c *fiber.Ctx) error {
	trainingID := c.Locals("trainingID").(uint)

	var list []assessmentModels.Assessment
	if err := database.Database.Db.Where("training_id = ? AND is_deleted = ? AND is_published = ?", trainingID, false, true).Find(&list).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch assessments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assessments fetched!", list)
}
