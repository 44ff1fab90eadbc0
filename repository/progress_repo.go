package repository

import (
	"errors"

	trainingModels "learntrack/models/training"
	"learntrack/pkg/apperrors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressRepository is the persistence boundary for session state. Every
// operation is atomic at single-record granularity; no multi-record
// transactions are used.
type ProgressRepository interface {
	// UpsertProgress writes the row keyed by (user_id, training_id), creating
	// it if absent. All mutable columns are set absolutely, so a retried write
	// is idempotent.
	UpsertProgress(p *trainingModels.TrainingProgress) error
	// UpsertUnitActivity writes the row keyed by (progress_id, unit_id).
	// SecondsSpent is set, never added, for the same reason.
	UpsertUnitActivity(a *trainingModels.ContentUnitActivity) error
	// ReadProgress returns nil, nil when no row exists yet.
	ReadProgress(userID, trainingID uint) (*trainingModels.TrainingProgress, error)
	// ReadPolicy returns nil, nil when the training has no policy row, which
	// callers treat as full access.
	ReadPolicy(trainingID uint) (*trainingModels.AccessPolicy, error)
}

type progressRepo struct {
	db *gorm.DB
}

func NewProgressRepo(db *gorm.DB) ProgressRepository {
	return &progressRepo{db: db}
}

func (r *progressRepo) UpsertProgress(p *trainingModels.TrainingProgress) error {
	// insert with a zero id so the (user_id, training_id) key decides between
	// insert and update, regardless of whether the caller knows the row id
	row := *p
	row.ID = 0
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "training_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"current_position", "cumulative_seconds", "status",
			"completed_at", "completed_early", "updated_at",
		}),
	}).Create(&row).Error
	if err != nil {
		return apperrors.NewPersistence("upsert progress", err)
	}
	if row.ID != 0 {
		p.ID = row.ID
		p.CreatedAt = row.CreatedAt
	}
	return nil
}

func (r *progressRepo) UpsertUnitActivity(a *trainingModels.ContentUnitActivity) error {
	row := *a
	row.ID = 0
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "progress_id"}, {Name: "unit_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"seconds_spent", "interaction_count", "last_activity_at", "updated_at",
		}),
	}).Create(&row).Error
	if err != nil {
		return apperrors.NewPersistence("upsert unit activity", err)
	}
	return nil
}

func (r *progressRepo) ReadProgress(userID, trainingID uint) (*trainingModels.TrainingProgress, error) {
	var p trainingModels.TrainingProgress
	err := r.db.Where("user_id = ? AND training_id = ?", userID, trainingID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewPersistence("read progress", err)
	}
	return &p, nil
}

func (r *progressRepo) ReadPolicy(trainingID uint) (*trainingModels.AccessPolicy, error) {
	var pol trainingModels.AccessPolicy
	err := r.db.Where("training_id = ?", trainingID).First(&pol).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewPersistence("read policy", err)
	}
	return &pol, nil
}
