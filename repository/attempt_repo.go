package repository

import (
	"errors"

	assessmentModels "learntrack/models/assessment"
	"learntrack/pkg/apperrors"

	"gorm.io/gorm"
)

// AttemptRepository persists scored assessment attempts.
type AttemptRepository interface {
	// InsertAttempt writes exactly one new record. Records are never updated
	// once CompletedAt is set.
	InsertAttempt(rec *assessmentModels.AttemptRecord) error
	CountAttempts(userID, assessmentID uint) (int64, error)
	// BestAttempt returns the completed attempt with the highest score for a
	// (user, assessment) pair; ties are broken by earliest completion. Returns
	// nil, nil when the user has no completed attempts.
	BestAttempt(userID, assessmentID uint) (*assessmentModels.AttemptRecord, error)
}

type attemptRepo struct {
	db *gorm.DB
}

func NewAttemptRepo(db *gorm.DB) AttemptRepository {
	return &attemptRepo{db: db}
}

func (r *attemptRepo) InsertAttempt(rec *assessmentModels.AttemptRecord) error {
	if err := r.db.Create(rec).Error; err != nil {
		return apperrors.NewPersistence("insert attempt", err)
	}
	return nil
}

func (r *attemptRepo) CountAttempts(userID, assessmentID uint) (int64, error) {
	var n int64
	err := r.db.Model(&assessmentModels.AttemptRecord{}).
		Where("user_id = ? AND assessment_id = ?", userID, assessmentID).
		Count(&n).Error
	if err != nil {
		return 0, apperrors.NewPersistence("count attempts", err)
	}
	return n, nil
}

func (r *attemptRepo) BestAttempt(userID, assessmentID uint) (*assessmentModels.AttemptRecord, error) {
	var rec assessmentModels.AttemptRecord
	err := r.db.Where("user_id = ? AND assessment_id = ? AND completed_at IS NOT NULL", userID, assessmentID).
		Order("score_percent DESC, completed_at ASC").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewPersistence("best attempt", err)
	}
	return &rec, nil
}
