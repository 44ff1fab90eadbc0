package controllers

// CreateAssessmentRequest is the authoring body for an assessment with its
// questions. Validated with struct tags before it reaches the controller.
type CreateAssessmentRequest struct {
	TrainingID       uint              `json:"training_id" validate:"required"`
	Title            string            `json:"title" validate:"required,min=3"`
	PassThreshold    int               `json:"pass_threshold" validate:"min=0,max=100"`
	TimeLimitMinutes *int              `json:"time_limit_minutes" validate:"omitempty,min=1"`
	MaxAttempts      *int              `json:"max_attempts" validate:"omitempty,min=1"`
	QuestionCount    int               `json:"question_count" validate:"min=0"`
	Randomize        bool              `json:"randomize"`
	Questions        []QuestionRequest `json:"questions" validate:"required,min=1,dive"`
}

// QuestionRequest is one authored question.
type QuestionRequest struct {
	Type       string          `json:"type" validate:"required,oneof=single multiple true_false open"`
	Text       string          `json:"text" validate:"required"`
	Points     int             `json:"points" validate:"min=0"`
	OrderIndex int             `json:"order_index" validate:"min=0"`
	Options    []OptionRequest `json:"options" validate:"dive"`
}

// OptionRequest is one selectable option of an authored question.
type OptionRequest struct {
	Text       string `json:"text" validate:"required"`
	IsCorrect  bool   `json:"is_correct"`
	OrderIndex int    `json:"order_index" validate:"min=0"`
}

// AnswerRequest is one submitted answer.
type AnswerRequest struct {
	QuestionID        uint   `json:"question_id"`
	SelectedOptionIDs []uint `json:"selected_option_ids"`
	Text              string `json:"text"`
}

// SubmitAttemptRequest carries the full answer sheet for an open attempt.
type SubmitAttemptRequest struct {
	AttemptToken string          `json:"attempt_token"`
	Answers      []AnswerRequest `json:"answers"`
}
