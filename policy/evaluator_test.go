package policy

import (
	"testing"
	"time"

	trainingModels "learntrack/models/training"
	"learntrack/pkg/apperrors"

	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func progressCreatedAt(t time.Time) *trainingModels.TrainingProgress {
	p := &trainingModels.TrainingProgress{Status: trainingModels.StatusInProgress}
	p.CreatedAt = t
	return p
}

func TestNoPolicyMeansFullAccess(t *testing.T) {
	d := Evaluate(nil, nil, 10, testNow)
	assert.True(t, d.Allowed)
	assert.Nil(t, d.VisibleUnits)
}

func TestFullPolicyAlwaysAllowed(t *testing.T) {
	pol := &trainingModels.AccessPolicy{Type: trainingModels.PolicyFull}
	d := Evaluate(pol, nil, 10, testNow)
	assert.True(t, d.Allowed)
	assert.Nil(t, d.VisibleUnits)
}

func TestPreviewCapsVisibleUnits(t *testing.T) {
	pol := &trainingModels.AccessPolicy{Type: trainingModels.PolicyPreview}

	d := Evaluate(pol, nil, 10, testNow)
	assert.True(t, d.Allowed)
	assert.Equal(t, &UnitRange{First: 1, Last: 3}, d.VisibleUnits)

	// shorter trainings expose everything they have
	d = Evaluate(pol, nil, 2, testNow)
	assert.Equal(t, &UnitRange{First: 1, Last: 2}, d.VisibleUnits)
}

func TestPreviewRejectsUnitsBeyondCap(t *testing.T) {
	pol := &trainingModels.AccessPolicy{Type: trainingModels.PolicyPreview}
	d := Evaluate(pol, nil, 10, testNow)

	assert.NoError(t, CheckUnit(d, 3))

	err := CheckUnit(d, 4)
	var pd *apperrors.PolicyDeniedError
	assert.ErrorAs(t, err, &pd)
	assert.Equal(t, apperrors.ReasonPreviewLimit, pd.Reason)
}

func TestTimeLimitedClockStartsOnFirstAccess(t *testing.T) {
	days := 30
	pol := &trainingModels.AccessPolicy{Type: trainingModels.PolicyTimeLimited, TimeLimitDays: &days}
	firstAccess := testNow.Add(-29*24*time.Hour - 23*time.Hour)

	// at T+29d23h the window is still open
	d := Evaluate(pol, progressCreatedAt(firstAccess), 10, testNow)
	assert.True(t, d.Allowed)

	// at T+30d1h it has expired
	late := testNow.Add(30*24*time.Hour + time.Hour)
	d = Evaluate(pol, progressCreatedAt(testNow), 10, late)
	assert.False(t, d.Allowed)
	assert.Equal(t, apperrors.ReasonExpired, d.Reason)
}

func TestTimeLimitedExpiryIsInclusive(t *testing.T) {
	days := 30
	pol := &trainingModels.AccessPolicy{Type: trainingModels.PolicyTimeLimited, TimeLimitDays: &days}

	expiry := testNow.Add(30 * 24 * time.Hour)
	d := Evaluate(pol, progressCreatedAt(testNow), 10, expiry)
	assert.True(t, d.Allowed)

	d = Evaluate(pol, progressCreatedAt(testNow), 10, expiry.Add(time.Second))
	assert.False(t, d.Allowed)
}

func TestTimeLimitedWithoutProgressStartsNow(t *testing.T) {
	days := 1
	pol := &trainingModels.AccessPolicy{Type: trainingModels.PolicyTimeLimited, TimeLimitDays: &days}

	// no progress record yet: the clock starts on this first access, so the
	// user is allowed in even if the policy itself is old
	d := Evaluate(pol, nil, 10, testNow)
	assert.True(t, d.Allowed)
}

func TestUnknownPolicyTypeFailsClosed(t *testing.T) {
	pol := &trainingModels.AccessPolicy{Type: "vip"}
	d := Evaluate(pol, nil, 10, testNow)
	assert.False(t, d.Allowed)
}

func TestCheckUnitOnDeniedDecision(t *testing.T) {
	d := Decision{Allowed: false, Reason: apperrors.ReasonExpired}
	err := CheckUnit(d, 1)
	var pd *apperrors.PolicyDeniedError
	assert.ErrorAs(t, err, &pd)
	assert.Equal(t, apperrors.ReasonExpired, pd.Reason)
}
