package assessment

import "gorm.io/gorm"

// Question types
const (
	TypeSingle    = "single"
	TypeMultiple  = "multiple"
	TypeTrueFalse = "true_false"
	TypeOpen      = "open"
)

// Assessment represents a scored test attached to a training
type Assessment struct {
	gorm.Model
	TrainingID       uint   `json:"training_id" gorm:"index;not null"`
	Title            string `json:"title"`
	PassThreshold    int    `json:"pass_threshold" gorm:"default:0"` // percent, 0-100
	TimeLimitMinutes *int   `json:"time_limit_minutes"`              // nil means untimed
	MaxAttempts      *int   `json:"max_attempts"`                    // nil means unlimited
	QuestionCount    int    `json:"question_count" gorm:"default:0"` // 0 means use all questions
	Randomize        bool   `json:"randomize" gorm:"default:false"`
	IsPublished      bool   `json:"is_published" gorm:"default:false"`
	IsDeleted        bool   `gorm:"default:false"`
}

// Question belongs to an assessment
type Question struct {
	gorm.Model
	AssessmentID uint   `json:"assessment_id" gorm:"index;not null"`
	Type         string `json:"type" gorm:"default:'single'"` // single, multiple, true_false, open
	Text         string `json:"text" gorm:"type:text"`
	Points       int    `json:"points" gorm:"default:1"`
	OrderIndex   int    `json:"order_index" gorm:"default:0"`
	IsDeleted    bool   `gorm:"default:false"`
}

// QuestionOption is one selectable answer for a question. Open questions have
// no options.
type QuestionOption struct {
	gorm.Model
	QuestionID uint   `json:"question_id" gorm:"index;not null"`
	Text       string `json:"text"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`
	OrderIndex int    `json:"order_index" gorm:"default:0"`
	IsDeleted  bool   `gorm:"default:false"`
}
