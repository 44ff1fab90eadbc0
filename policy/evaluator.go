package policy

import (
	"time"

	trainingModels "learntrack/models/training"
	"learntrack/pkg/apperrors"
)

// PreviewUnitCap is how many leading units a preview policy exposes.
const PreviewUnitCap = 3

// UnitRange is an inclusive 1-based range of visible units.
type UnitRange struct {
	First int `json:"first"`
	Last  int `json:"last"`
}

// Decision is the outcome of evaluating a policy for one user's session.
type Decision struct {
	Allowed      bool       `json:"allowed"`
	Reason       string     `json:"reason,omitempty"`
	VisibleUnits *UnitRange `json:"visible_units,omitempty"`
}

// Evaluate computes current visibility for a training. policy may be nil,
// which means full access. progress may be nil when the user has not opened
// the training yet; for a time-limited policy the clock then starts now, not
// at policy creation. Callers apply the early-completion lock before calling
// this.
func Evaluate(policy *trainingModels.AccessPolicy, progress *trainingModels.TrainingProgress, totalUnits int, now time.Time) Decision {
	if policy == nil {
		return Decision{Allowed: true}
	}
	switch policy.Type {
	case trainingModels.PolicyFull, "":
		return Decision{Allowed: true}
	case trainingModels.PolicyPreview:
		last := PreviewUnitCap
		if totalUnits < last {
			last = totalUnits
		}
		return Decision{Allowed: true, VisibleUnits: &UnitRange{First: 1, Last: last}}
	case trainingModels.PolicyTimeLimited:
		days := 0
		if policy.TimeLimitDays != nil {
			days = *policy.TimeLimitDays
		}
		firstAccess := now
		if progress != nil {
			firstAccess = progress.CreatedAt
		}
		expiry := firstAccess.Add(time.Duration(days) * 24 * time.Hour)
		if now.After(expiry) {
			return Decision{Allowed: false, Reason: apperrors.ReasonExpired}
		}
		return Decision{Allowed: true}
	default:
		// unknown policy type is a data error; fail closed
		return Decision{Allowed: false, Reason: "unknown_policy"}
	}
}

// CheckUnit verifies that a unit index is inside the decision's visible range.
// It returns a PolicyDeniedError with the preview_limit reason when the unit
// is beyond the cap.
func CheckUnit(d Decision, unitIndex int) error {
	if !d.Allowed {
		return apperrors.NewPolicyDenied(d.Reason)
	}
	if d.VisibleUnits != nil && (unitIndex < d.VisibleUnits.First || unitIndex > d.VisibleUnits.Last) {
		return apperrors.NewPolicyDenied(apperrors.ReasonPreviewLimit)
	}
	return nil
}
