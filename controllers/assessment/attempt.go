package controllers

import (
	"log"
	"sync"

	"learntrack/assessment"
	"learntrack/database"
	"learntrack/middleware"
	assessmentModels "learntrack/models/assessment"
	"learntrack/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var (
	attemptRepo repository.AttemptRepository
	engine      *assessment.Engine

	openMu       sync.Mutex
	openAttempts = make(map[string]*openEntry)
)

type openEntry struct {
	attempt *assessment.OpenAttempt
	userID  uint
}

// InitAssessmentControllers wires the engine against the global database.
// Called once from main after ConnectDb.
func InitAssessmentControllers() {
	attemptRepo = repository.NewAttemptRepo(database.Database.Db)
	engine = assessment.NewEngine(attemptRepo, nil, nil)
}

type servedOption struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

type servedQuestion struct {
	ID      uint           `json:"id"`
	Type    string         `json:"type"`
	Text    string         `json:"text"`
	Points  int            `json:"points"`
	Options []servedOption `json:"options"`
}

// StartAttempt checks the attempt budget, selects the questions to serve and
// returns them without correctness flags, plus a token for submitting. Timed
// assessments arm a countdown that auto-submits whatever has been recorded.
func StartAttempt(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	assessmentID := c.Locals("assessmentID").(uint)

	var a assessmentModels.Assessment
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", assessmentID, false, true).First(&a).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assessment not found!", nil)
	}

	var pool []assessmentModels.Question
	database.Database.Db.Where("assessment_id = ? AND is_deleted = ?", a.ID, false).
		Order("order_index ASC").Find(&pool)

	options := make(map[uint][]assessmentModels.QuestionOption, len(pool))
	for _, q := range pool {
		var opts []assessmentModels.QuestionOption
		database.Database.Db.Where("question_id = ? AND is_deleted = ?", q.ID, false).
			Order("order_index ASC").Find(&opts)
		options[q.ID] = opts
	}

	used, err := attemptRepo.CountAttempts(userID, a.ID)
	if err != nil {
		return middleware.EngineErrorResponse(c, err)
	}

	oa, err := engine.StartAttempt(userID, &a, pool, options, used)
	if err != nil {
		return middleware.EngineErrorResponse(c, err)
	}

	token := uuid.NewString()
	oa.OnAutoSubmit = func(rec *assessmentModels.AttemptRecord, err error) {
		if err != nil {
			log.Printf("[ASSESSMENT] auto-submit failed for attempt %s: %v", token, err)
			return
		}
		openMu.Lock()
		delete(openAttempts, token)
		openMu.Unlock()
		log.Printf("[ASSESSMENT] attempt %s auto-submitted at %d%%", token, rec.ScorePercent)
	}

	openMu.Lock()
	openAttempts[token] = &openEntry{attempt: oa, userID: userID}
	openMu.Unlock()

	served := make([]servedQuestion, 0, len(oa.Questions()))
	for _, q := range oa.Questions() {
		sq := servedQuestion{ID: q.ID, Type: q.Type, Text: q.Text, Points: q.Points}
		for _, opt := range options[q.ID] {
			sq.Options = append(sq.Options, servedOption{ID: opt.ID, Text: opt.Text})
		}
		served = append(served, sq)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempt started!", fiber.Map{
		"attempt_token":     token,
		"questions":         served,
		"remaining_seconds": int(oa.Remaining().Seconds()),
		"attempts_used":     used,
	})
}

// SubmitAttempt grades the answer sheet of an open attempt. If the countdown
// already submitted it, the existing result comes back instead of a second
// record.
func SubmitAttempt(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	reqData := c.Locals("validatedSubmit").(*SubmitAttemptRequest)

	openMu.Lock()
	entry := openAttempts[reqData.AttemptToken]
	openMu.Unlock()
	if entry == nil || entry.userID != userID {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Attempt not found or already closed!", nil)
	}
	oa := entry.attempt

	for _, ans := range reqData.Answers {
		err := oa.RecordAnswer(assessmentModels.Answer{
			QuestionID:        ans.QuestionID,
			SelectedOptionIDs: ans.SelectedOptionIDs,
			Text:              ans.Text,
		})
		if err != nil {
			return middleware.EngineErrorResponse(c, err)
		}
	}

	rec, err := oa.Submit()
	if err != nil {
		return middleware.EngineErrorResponse(c, err)
	}

	openMu.Lock()
	delete(openAttempts, reqData.AttemptToken)
	openMu.Unlock()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempt submitted!", fiber.Map{
		"attempt_uid":   rec.AttemptUID,
		"score_percent": rec.ScorePercent,
		"passed":        rec.Passed,
		"completed_at":  rec.CompletedAt,
	})
}

// GetBestAttempt returns the user's best completed attempt: highest score,
// ties going to the earliest completion.
func GetBestAttempt(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	assessmentID := c.Locals("assessmentID").(uint)

	rec, err := attemptRepo.BestAttempt(userID, assessmentID)
	if err != nil {
		return middleware.EngineErrorResponse(c, err)
	}
	if rec == nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "No completed attempts yet!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Best attempt fetched!", fiber.Map{
		"attempt_uid":   rec.AttemptUID,
		"score_percent": rec.ScorePercent,
		"passed":        rec.Passed,
		"completed_at":  rec.CompletedAt,
	})
}
