package training

import (
	"time"

	"gorm.io/gorm"
)

// Progress statuses
const (
	StatusInProgress = "in_progress"
	StatusPaused     = "paused"
	StatusCompleted  = "completed"
)

// TrainingProgress tracks a user's session through a training. Exactly one row
// exists per (user, training); it is created on the first position update and
// mutated only by the session tracker.
type TrainingProgress struct {
	gorm.Model
	UserID            uint       `json:"user_id" gorm:"uniqueIndex:idx_user_training;not null"`
	TrainingID        uint       `json:"training_id" gorm:"uniqueIndex:idx_user_training;not null"`
	CurrentPosition   int        `json:"current_position" gorm:"default:0"` // unit index last seen
	CumulativeSeconds int64      `json:"cumulative_seconds" gorm:"default:0"`
	Status            string     `json:"status" gorm:"default:'in_progress'"` // in_progress, paused, completed
	CompletedAt       *time.Time `json:"completed_at"`
	CompletedEarly    bool       `json:"completed_early" gorm:"default:false"` // set once at completion, permanent
}

// ContentUnitActivity records time spent on one unit of one session. One row per
// (progress, unit); SecondsSpent is always set absolutely, never added to.
type ContentUnitActivity struct {
	gorm.Model
	ProgressID       uint      `json:"progress_id" gorm:"uniqueIndex:idx_progress_unit;not null"`
	UnitID           uint      `json:"unit_id" gorm:"uniqueIndex:idx_progress_unit;not null"`
	SecondsSpent     int64     `json:"seconds_spent" gorm:"default:0"`
	InteractionCount int       `json:"interaction_count" gorm:"default:0"`
	LastActivityAt   time.Time `json:"last_activity_at"`
}
