package controllers

import (
	"log"
	"time"

	"learntrack/config"
	"learntrack/database"
	"learntrack/middleware"
	trainingModels "learntrack/models/training"
	"learntrack/repository"
	"learntrack/session"
	"learntrack/utils"

	"github.com/gofiber/fiber/v2"
)

var (
	progressRepo repository.ProgressRepository
	sessions     *session.Manager
	contentStore *utils.ContentStore
)

// InitTrainingControllers wires the session manager and content store against
// the global database. Called once from main after ConnectDb.
func InitTrainingControllers() {
	progressRepo = repository.NewProgressRepo(database.Database.Db)
	sessions = session.NewManager(
		progressRepo,
		time.Duration(config.AppConfig.IdleThresholdSeconds)*time.Second,
		nil,
	)
	sessions.OnIdle = func(userID, trainingID, unitID uint) {
		log.Printf("[SESSION] User: %d idle on training: %d unit: %d, accrual stopped", userID, trainingID, unitID)
	}
	contentStore = utils.NewContentStore()
}

// OpenSession opens (or re-attaches to) the live session for a training and
// starts the activity timer on the requested unit.
func OpenSession(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	trainingID := c.Locals("trainingID").(uint)
	reqData := c.Locals("validatedSession").(*SessionRequest)

	var tr trainingModels.Training
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", trainingID, false, true).First(&tr).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Training not found!", nil)
	}

	if err := checkAccess(c, userID, trainingID, reqData.UnitIndex); err != nil {
		return middleware.EngineErrorResponse(c, err)
	}

	s, err := sessions.Open(userID, trainingID, reqData.UnitID)
	if err != nil {
		return middleware.EngineErrorResponse(c, err)
	}
	if err := s.Tracker.RecordPosition(reqData.UnitIndex, s.Timer.Total()); err != nil {
		return middleware.EngineErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Session opened!", fiber.Map{
		"status":             s.Tracker.Status(),
		"cumulative_seconds": s.Timer.Total(),
	})
}

// Heartbeat drives the activity timer: it advances the tick clock, registers
// input signals, handles unit changes as one flush+reset+start step and
// reduces the result into persisted progress.
func Heartbeat(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	trainingID := c.Locals("trainingID").(uint)
	reqData := c.Locals("validatedSession").(*SessionRequest)

	s := sessions.Get(userID, trainingID)
	if s == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "No open session!", nil)
	}

	var flush session.Flush
	switch {
	case reqData.UnitID != s.Timer.CurrentUnit():
		flush = s.Timer.SwitchUnit(reqData.UnitID)
	case reqData.Active:
		s.Timer.Touch()
		flush = s.Timer.Flush()
	default:
		flush = s.Timer.Flush()
	}

	if err := s.Tracker.RecordPosition(reqData.UnitIndex, s.Timer.Total()); err != nil {
		return middleware.EngineErrorResponse(c, err)
	}
	if err := s.Tracker.RecordUnitActivity(flush); err != nil {
		return middleware.EngineErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Heartbeat recorded!", fiber.Map{
		"status":             s.Tracker.Status(),
		"idle":               s.Timer.Idle(),
		"cumulative_seconds": s.Timer.Total(),
	})
}

// PauseSession suspends accrual and the idle clock, then records the paused
// state.
func PauseSession(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	trainingID := c.Locals("trainingID").(uint)

	s := sessions.Get(userID, trainingID)
	if s == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "No open session!", nil)
	}

	s.Timer.Pause()
	flush := s.Timer.Flush()
	if err := s.Tracker.Pause(); err != nil {
		return middleware.EngineErrorResponse(c, err)
	}
	if err := s.Tracker.RecordUnitActivity(flush); err != nil {
		return middleware.EngineErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Session paused!", fiber.Map{
		"status": s.Tracker.Status(),
	})
}

// ResumeSession restarts accrual with a fresh idle clock.
func ResumeSession(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	trainingID := c.Locals("trainingID").(uint)

	s := sessions.Get(userID, trainingID)
	if s == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "No open session!", nil)
	}

	if err := s.Tracker.Resume(); err != nil {
		return middleware.EngineErrorResponse(c, err)
	}
	s.Timer.Resume()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Session resumed!", fiber.Map{
		"status": s.Tracker.Status(),
	})
}

// CompleteSession closes the session for good. Completing before the
// training's required dwell time accrued marks the completion as early, which
// is permanent. A storage failure here is surfaced, never retried silently.
func CompleteSession(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	trainingID := c.Locals("trainingID").(uint)

	var tr trainingModels.Training
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", trainingID, false).First(&tr).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Training not found!", nil)
	}

	s := sessions.Get(userID, trainingID)
	if s == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "No open session!", nil)
	}

	s.Timer.Pause()
	flush := s.Timer.Flush()
	if err := s.Tracker.RecordUnitActivity(flush); err != nil {
		return middleware.EngineErrorResponse(c, err)
	}

	if err := s.Tracker.Complete(s.Timer.Total(), tr.RequiredSeconds); err != nil {
		return middleware.EngineErrorResponse(c, err)
	}
	sessions.Close(userID, trainingID)

	p := s.Tracker.Progress()
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Training completed!", fiber.Map{
		"status":          p.Status,
		"completed_at":    p.CompletedAt,
		"completed_early": p.CompletedEarly,
	})
}
