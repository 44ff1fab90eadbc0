package controllers

// SessionRequest is the body for session open and heartbeat calls. UnitIndex
// is the 1-based position inside the training; UnitID is the unit row the
// timer counts against; Active marks that an input signal happened since the
// last heartbeat.
type SessionRequest struct {
	UnitID    uint `json:"unit_id"`
	UnitIndex int  `json:"unit_index"`
	Active    bool `json:"active"`
}

// CreateTrainingRequest is the admin body for creating a training.
type CreateTrainingRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	RequiredSeconds int64  `json:"required_seconds"`
}

// AddUnitRequest is the admin body for appending a unit to a training.
type AddUnitRequest struct {
	Title      string `json:"title"`
	ContentKey string `json:"content_key"`
	OrderIndex int    `json:"order_index"`
}

// SetPolicyRequest is the admin body for setting a training's access policy.
type SetPolicyRequest struct {
	Type          string `json:"type"`
	TimeLimitDays *int   `json:"time_limit_days"`
}
