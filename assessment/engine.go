package assessment

import (
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	assessmentModels "learntrack/models/assessment"
	"learntrack/pkg/apperrors"
	"learntrack/repository"

	"github.com/google/uuid"
)

// Engine scores assessments and records attempts. Question selection, answer
// scoring and percent computation are pure; SubmitAttempt performs exactly one
// persistence write and propagates its failure.
type Engine struct {
	attempts repository.AttemptRepository
	rand     *rand.Rand
	now      func() time.Time
}

// NewEngine builds an engine. rng is the source used for question shuffling;
// nil means a time-seeded source. Tests inject a fixed seed to assert exact
// orderings. A nil clock means time.Now.
func NewEngine(attempts repository.AttemptRepository, rng *rand.Rand, clock func() time.Time) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if clock == nil {
		clock = time.Now
	}
	return &Engine{attempts: attempts, rand: rng, now: clock}
}

// SubmitAttempt grades an answer sheet and persists one immutable attempt
// record. With maxAttempts set and already used up it returns
// AttemptsExhaustedError and writes nothing. A persistence failure is returned
// to the caller; a graded attempt is never dropped silently.
func (e *Engine) SubmitAttempt(userID uint, a *assessmentModels.Assessment, questions []assessmentModels.Question, options map[uint][]assessmentModels.QuestionOption, answers []assessmentModels.Answer, attemptsUsed int64, startedAt time.Time) (*assessmentModels.AttemptRecord, error) {
	if a.MaxAttempts != nil && attemptsUsed >= int64(*a.MaxAttempts) {
		return nil, apperrors.NewAttemptsExhausted(int(attemptsUsed), *a.MaxAttempts)
	}

	percent, err := ComputeScorePercent(questions, options, answers)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(answers)
	if err != nil {
		return nil, apperrors.NewValidation("answers", err.Error())
	}

	now := e.now()
	rec := &assessmentModels.AttemptRecord{
		AttemptUID:   uuid.NewString(),
		UserID:       userID,
		AssessmentID: a.ID,
		StartedAt:    startedAt,
		CompletedAt:  &now,
		ScorePercent: percent,
		Passed:       percent >= a.PassThreshold,
		Answers:      raw,
	}
	if err := e.attempts.InsertAttempt(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// OpenAttempt is one in-flight attempt. With a time limit set, a countdown
// started at StartAttempt fires exactly one auto-submit through the same
// SubmitAttempt path; the submitted flag keeps an explicit submit that races
// the countdown from writing a second record.
type OpenAttempt struct {
	mu        sync.Mutex
	engine    *Engine
	userID    uint
	a         *assessmentModels.Assessment
	questions []assessmentModels.Question
	options   map[uint][]assessmentModels.QuestionOption
	answers   map[uint]assessmentModels.Answer
	used      int64
	startedAt time.Time
	deadline  *time.Timer
	submitted bool
	record    *assessmentModels.AttemptRecord

	// OnAutoSubmit, when set, is told the outcome of a countdown submission.
	OnAutoSubmit func(*assessmentModels.AttemptRecord, error)
}

// StartAttempt checks the attempt budget, selects the questions to serve and,
// when the assessment is timed, arms the countdown.
func (e *Engine) StartAttempt(userID uint, a *assessmentModels.Assessment, pool []assessmentModels.Question, options map[uint][]assessmentModels.QuestionOption, attemptsUsed int64) (*OpenAttempt, error) {
	if a.MaxAttempts != nil && attemptsUsed >= int64(*a.MaxAttempts) {
		return nil, apperrors.NewAttemptsExhausted(int(attemptsUsed), *a.MaxAttempts)
	}
	oa := &OpenAttempt{
		engine:    e,
		userID:    userID,
		a:         a,
		questions: e.SelectQuestions(a, pool),
		options:   options,
		answers:   make(map[uint]assessmentModels.Answer),
		used:      attemptsUsed,
		startedAt: e.now(),
	}
	if a.TimeLimitMinutes != nil {
		oa.deadline = time.AfterFunc(time.Duration(*a.TimeLimitMinutes)*time.Minute, oa.autoSubmit)
	}
	return oa, nil
}

// Questions returns the served question set in serving order.
func (oa *OpenAttempt) Questions() []assessmentModels.Question {
	return oa.questions
}

// RecordAnswer stores the latest answer for a served question.
func (oa *OpenAttempt) RecordAnswer(ans assessmentModels.Answer) error {
	oa.mu.Lock()
	defer oa.mu.Unlock()
	if oa.submitted {
		return apperrors.NewState("record answer", "submitted")
	}
	for _, q := range oa.questions {
		if q.ID == ans.QuestionID {
			oa.answers[ans.QuestionID] = ans
			return nil
		}
	}
	return apperrors.NewValidation("question_id", "question not part of this attempt")
}

// Submit grades the recorded answers. Called after the countdown already
// submitted, it returns the existing record rather than writing a second one.
func (oa *OpenAttempt) Submit() (*assessmentModels.AttemptRecord, error) {
	oa.mu.Lock()
	defer oa.mu.Unlock()
	if oa.submitted {
		if oa.record != nil {
			return oa.record, nil
		}
		return nil, apperrors.NewState("submit", "submitted")
	}
	return oa.submitLocked()
}

func (oa *OpenAttempt) autoSubmit() {
	oa.mu.Lock()
	defer oa.mu.Unlock()
	if oa.submitted {
		return
	}
	rec, err := oa.submitLocked()
	if oa.OnAutoSubmit != nil {
		oa.OnAutoSubmit(rec, err)
	}
}

// submitLocked performs the single write. On persistence failure the
// submitted flag is cleared again, so the caller can retry explicitly; the
// failure itself is never swallowed.
func (oa *OpenAttempt) submitLocked() (*assessmentModels.AttemptRecord, error) {
	oa.submitted = true
	answers := make([]assessmentModels.Answer, 0, len(oa.answers))
	for _, q := range oa.questions {
		if a, ok := oa.answers[q.ID]; ok {
			answers = append(answers, a)
		}
	}
	rec, err := oa.engine.SubmitAttempt(oa.userID, oa.a, oa.questions, oa.options, answers, oa.used, oa.startedAt)
	if err != nil {
		var pe *apperrors.PersistenceError
		if errors.As(err, &pe) {
			oa.submitted = false
		}
		return nil, err
	}
	oa.record = rec
	if oa.deadline != nil {
		oa.deadline.Stop()
	}
	return rec, nil
}

// Remaining reports time left on a timed attempt; zero for untimed ones.
func (oa *OpenAttempt) Remaining() time.Duration {
	if oa.a.TimeLimitMinutes == nil {
		return 0
	}
	left := time.Duration(*oa.a.TimeLimitMinutes)*time.Minute - oa.engine.now().Sub(oa.startedAt)
	if left < 0 {
		return 0
	}
	return left
}
