package training

import "gorm.io/gorm"

// Access policy types
const (
	PolicyFull        = "full"
	PolicyPreview     = "preview"
	PolicyTimeLimited = "time_limited"
)

// AccessPolicy gates content visibility for a training. At most one row per
// training; a training with no policy row is treated as full access.
type AccessPolicy struct {
	gorm.Model
	TrainingID    uint   `json:"training_id" gorm:"uniqueIndex;not null"`
	Type          string `json:"type" gorm:"default:'full'"` // full, preview, time_limited
	TimeLimitDays *int   `json:"time_limit_days"`            // required for time_limited
}
