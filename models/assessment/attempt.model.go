package assessment

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AttemptRecord stores one scored submission of an assessment. Once CompletedAt
// is set the record is immutable.
type AttemptRecord struct {
	gorm.Model
	AttemptUID   string         `json:"attempt_uid" gorm:"uniqueIndex"` // external reporting id
	UserID       uint           `json:"user_id" gorm:"index;not null"`
	AssessmentID uint           `json:"assessment_id" gorm:"index;not null"`
	StartedAt    time.Time      `json:"started_at"`
	CompletedAt  *time.Time     `json:"completed_at"`
	ScorePercent int            `json:"score_percent" gorm:"default:0"`
	Passed       bool           `json:"passed" gorm:"default:false"`
	Answers      datatypes.JSON `json:"answers"` // submitted answers keyed by question id
}

// Answer is one submitted answer, serialized into AttemptRecord.Answers.
type Answer struct {
	QuestionID        uint   `json:"question_id"`
	SelectedOptionIDs []uint `json:"selected_option_ids,omitempty"`
	Text              string `json:"text,omitempty"` // free text for open questions
}
