package repository

import (
	"testing"
	"time"

	assessmentModels "learntrack/models/assessment"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func insertCompleted(t *testing.T, repo AttemptRepository, userID uint, score int, completedAt time.Time) {
	rec := &assessmentModels.AttemptRecord{
		AttemptUID:   uuid.NewString(),
		UserID:       userID,
		AssessmentID: 7,
		StartedAt:    completedAt.Add(-10 * time.Minute),
		CompletedAt:  &completedAt,
		ScorePercent: score,
		Passed:       score >= 60,
	}
	assert.NoError(t, repo.InsertAttempt(rec))
}

func TestCountAttempts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAttemptRepo(db)

	n, err := repo.CountAttempts(1, 7)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	insertCompleted(t, repo, 1, 40, base)
	insertCompleted(t, repo, 1, 70, base.Add(time.Hour))
	insertCompleted(t, repo, 2, 90, base) // another user

	n, err = repo.CountAttempts(1, 7)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestBestAttemptHighestScoreWins(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAttemptRepo(db)

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	insertCompleted(t, repo, 1, 55, base)
	insertCompleted(t, repo, 1, 80, base.Add(time.Hour))
	insertCompleted(t, repo, 1, 70, base.Add(2*time.Hour))

	best, err := repo.BestAttempt(1, 7)
	assert.NoError(t, err)
	assert.NotNil(t, best)
	assert.Equal(t, 80, best.ScorePercent)
}

func TestBestAttemptTieGoesToEarliestCompletion(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAttemptRepo(db)

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	insertCompleted(t, repo, 1, 90, base.Add(3*time.Hour))
	insertCompleted(t, repo, 1, 90, base.Add(time.Hour))
	insertCompleted(t, repo, 1, 60, base)

	best, err := repo.BestAttempt(1, 7)
	assert.NoError(t, err)
	assert.Equal(t, 90, best.ScorePercent)
	assert.Equal(t, base.Add(time.Hour).Unix(), best.CompletedAt.Unix())
}

func TestBestAttemptIgnoresOpenAttempts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAttemptRepo(db)

	open := &assessmentModels.AttemptRecord{
		AttemptUID:   uuid.NewString(),
		UserID:       1,
		AssessmentID: 7,
		StartedAt:    time.Now(),
	}
	assert.NoError(t, repo.InsertAttempt(open))

	best, err := repo.BestAttempt(1, 7)
	assert.NoError(t, err)
	assert.Nil(t, best)
}
