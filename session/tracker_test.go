package session

import (
	"errors"
	"testing"
	"time"

	trainingModels "learntrack/models/training"
	"learntrack/pkg/apperrors"

	"github.com/stretchr/testify/assert"
)

type fakeKey struct {
	userID     uint
	trainingID uint
}

// fakeProgressRepo mimics the unique-key upsert semantics of the storage
// boundary and can be told to fail the next writes.
type fakeProgressRepo struct {
	progress    map[fakeKey]trainingModels.TrainingProgress
	units       map[uint]trainingModels.ContentUnitActivity
	nextID      uint
	failNext    int
	upsertCalls int
	unitCalls   int
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{
		progress: make(map[fakeKey]trainingModels.TrainingProgress),
		units:    make(map[uint]trainingModels.ContentUnitActivity),
		nextID:   1,
	}
}

func (r *fakeProgressRepo) UpsertProgress(p *trainingModels.TrainingProgress) error {
	r.upsertCalls++
	if r.failNext > 0 {
		r.failNext--
		return apperrors.NewPersistence("upsert progress", errors.New("db down"))
	}
	key := fakeKey{userID: p.UserID, trainingID: p.TrainingID}
	if existing, ok := r.progress[key]; ok {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	} else {
		p.ID = r.nextID
		r.nextID++
		p.CreatedAt = time.Now()
	}
	r.progress[key] = *p
	return nil
}

func (r *fakeProgressRepo) UpsertUnitActivity(a *trainingModels.ContentUnitActivity) error {
	r.unitCalls++
	if r.failNext > 0 {
		r.failNext--
		return apperrors.NewPersistence("upsert unit activity", errors.New("db down"))
	}
	r.units[a.UnitID] = *a
	return nil
}

func (r *fakeProgressRepo) ReadProgress(userID, trainingID uint) (*trainingModels.TrainingProgress, error) {
	if p, ok := r.progress[fakeKey{userID: userID, trainingID: trainingID}]; ok {
		out := p
		return &out, nil
	}
	return nil, nil
}

func (r *fakeProgressRepo) ReadPolicy(trainingID uint) (*trainingModels.AccessPolicy, error) {
	return nil, nil
}

func newTestTracker(t *testing.T, repo *fakeProgressRepo) *Tracker {
	tr, err := NewTracker(repo, 1, 10, nil)
	assert.NoError(t, err)
	return tr
}

func TestRecordPositionCreatesThenUpdates(t *testing.T) {
	repo := newFakeProgressRepo()
	tr := newTestTracker(t, repo)

	assert.Equal(t, "not_started", tr.Status())

	assert.NoError(t, tr.RecordPosition(1, 10))
	assert.Equal(t, trainingModels.StatusInProgress, tr.Status())

	// non-decreasing sequence: the persisted value is always the last one
	assert.NoError(t, tr.RecordPosition(2, 40))
	assert.NoError(t, tr.RecordPosition(3, 95))

	stored := repo.progress[fakeKey{userID: 1, trainingID: 10}]
	assert.Equal(t, int64(95), stored.CumulativeSeconds)
	assert.Equal(t, 3, stored.CurrentPosition)
}

func TestRecordPositionIdempotent(t *testing.T) {
	repo := newFakeProgressRepo()
	tr := newTestTracker(t, repo)

	assert.NoError(t, tr.RecordPosition(2, 120))
	assert.NoError(t, tr.RecordPosition(2, 120))
	assert.NoError(t, tr.RecordPosition(2, 120))

	assert.Len(t, repo.progress, 1)
	stored := repo.progress[fakeKey{userID: 1, trainingID: 10}]
	assert.Equal(t, int64(120), stored.CumulativeSeconds)
}

func TestCompleteSetsEarlyFlag(t *testing.T) {
	repo := newFakeProgressRepo()
	tr := newTestTracker(t, repo)
	assert.NoError(t, tr.RecordPosition(1, 1800))

	assert.NoError(t, tr.Complete(1800, 3600))

	p := tr.Progress()
	assert.Equal(t, trainingModels.StatusCompleted, p.Status)
	assert.True(t, p.CompletedEarly)
	assert.NotNil(t, p.CompletedAt)
}

func TestCompleteAfterRequiredTimeIsNotEarly(t *testing.T) {
	repo := newFakeProgressRepo()
	tr := newTestTracker(t, repo)
	assert.NoError(t, tr.RecordPosition(1, 3700))

	assert.NoError(t, tr.Complete(3700, 3600))
	assert.False(t, tr.Progress().CompletedEarly)
}

func TestCompletedIsTerminal(t *testing.T) {
	repo := newFakeProgressRepo()
	tr := newTestTracker(t, repo)
	assert.NoError(t, tr.RecordPosition(1, 100))
	assert.NoError(t, tr.Complete(100, 3600))
	assert.True(t, tr.Progress().CompletedEarly)

	var se *apperrors.StateError
	assert.ErrorAs(t, tr.RecordPosition(2, 200), &se)
	assert.ErrorAs(t, tr.Pause(), &se)
	assert.ErrorAs(t, tr.Resume(), &se)
	assert.ErrorAs(t, tr.Complete(100, 3600), &se)

	// persisted state is untouched by the rejected calls
	stored := repo.progress[fakeKey{userID: 1, trainingID: 10}]
	assert.Equal(t, trainingModels.StatusCompleted, stored.Status)
	assert.True(t, stored.CompletedEarly)
}

func TestPauseResumeKeepCumulativeSeconds(t *testing.T) {
	repo := newFakeProgressRepo()
	tr := newTestTracker(t, repo)
	assert.NoError(t, tr.RecordPosition(1, 300))

	assert.NoError(t, tr.Pause())
	assert.Equal(t, trainingModels.StatusPaused, tr.Status())
	// pausing twice is a no-op, not an error
	assert.NoError(t, tr.Pause())

	assert.NoError(t, tr.Resume())
	assert.Equal(t, trainingModels.StatusInProgress, tr.Status())

	stored := repo.progress[fakeKey{userID: 1, trainingID: 10}]
	assert.Equal(t, int64(300), stored.CumulativeSeconds)
}

func TestPauseBeforeStartIsStateError(t *testing.T) {
	repo := newFakeProgressRepo()
	tr := newTestTracker(t, repo)

	var se *apperrors.StateError
	assert.ErrorAs(t, tr.Pause(), &se)
	assert.ErrorAs(t, tr.Resume(), &se)
	assert.ErrorAs(t, tr.Complete(0, 100), &se)
}

func TestPositionWriteFailureIsRetriedTransparently(t *testing.T) {
	repo := newFakeProgressRepo()
	tr := newTestTracker(t, repo)

	assert.NoError(t, tr.RecordPosition(1, 50))
	repo.failNext = 1

	// the failed write is not surfaced; time keeps accruing in memory
	assert.NoError(t, tr.RecordPosition(2, 80))
	stored := repo.progress[fakeKey{userID: 1, trainingID: 10}]
	assert.Equal(t, int64(50), stored.CumulativeSeconds)

	// the next write carries the latest absolute values
	assert.NoError(t, tr.RecordPosition(3, 110))
	stored = repo.progress[fakeKey{userID: 1, trainingID: 10}]
	assert.Equal(t, int64(110), stored.CumulativeSeconds)
	assert.Equal(t, 3, stored.CurrentPosition)
}

func TestUnitActivityRetryWritesAbsoluteValues(t *testing.T) {
	repo := newFakeProgressRepo()
	tr := newTestTracker(t, repo)
	assert.NoError(t, tr.RecordPosition(1, 10))

	repo.failNext = 1
	at := time.Now()
	assert.NoError(t, tr.RecordUnitActivity(Flush{UnitID: 4, Seconds: 100, Interactions: 2, At: at}))
	assert.Empty(t, repo.units)

	// retried on the next flush with the newer absolute value, never added
	assert.NoError(t, tr.RecordUnitActivity(Flush{UnitID: 4, Seconds: 130, Interactions: 3, At: at}))
	assert.Equal(t, int64(130), repo.units[4].SecondsSpent)
	assert.Equal(t, 3, repo.units[4].InteractionCount)
}

func TestCompleteFailureSurfacesAndDoesNotRetry(t *testing.T) {
	repo := newFakeProgressRepo()
	tr := newTestTracker(t, repo)
	assert.NoError(t, tr.RecordPosition(1, 700))

	repo.failNext = 1
	calls := repo.upsertCalls

	err := tr.Complete(700, 600)
	var pe *apperrors.PersistenceError
	assert.ErrorAs(t, err, &pe)

	// exactly one attempted write, no silent retry, state not completed
	assert.Equal(t, calls+1, repo.upsertCalls)
	assert.Equal(t, trainingModels.StatusInProgress, tr.Status())
	stored := repo.progress[fakeKey{userID: 1, trainingID: 10}]
	assert.Equal(t, trainingModels.StatusInProgress, stored.Status)

	// an explicit retry by the caller still works
	assert.NoError(t, tr.Complete(700, 600))
	assert.Equal(t, trainingModels.StatusCompleted, tr.Status())
}

func TestSessionEndToEnd(t *testing.T) {
	repo := newFakeProgressRepo()
	clock := newFakeClock()
	tr, err := NewTracker(repo, 1, 10, clock.Now)
	assert.NoError(t, err)
	timer := NewActivityTimer(0, clock.Now, nil)
	timer.Start(1)

	// three units accrue 200 + 200 + 205 seconds with steady activity
	dwell := []int64{200, 200, 205}
	for i, secs := range dwell {
		for accrued := int64(0); accrued < secs; {
			step := int64(20)
			if secs-accrued < step {
				step = secs - accrued
			}
			clock.Advance(time.Duration(step) * time.Second)
			timer.Touch()
			accrued += step
		}
		var f Flush
		if i < len(dwell)-1 {
			f = timer.SwitchUnit(uint(i + 2))
		} else {
			f = timer.Flush()
		}
		assert.NoError(t, tr.RecordPosition(i+1, timer.Total()))
		assert.NoError(t, tr.RecordUnitActivity(f))
	}

	assert.Equal(t, int64(605), timer.Total())
	assert.NoError(t, tr.Complete(timer.Total(), 600))

	p := tr.Progress()
	assert.Equal(t, trainingModels.StatusCompleted, p.Status)
	assert.False(t, p.CompletedEarly)
	assert.Equal(t, int64(605), p.CumulativeSeconds)
	assert.Equal(t, int64(200), repo.units[1].SecondsSpent)
	assert.Equal(t, int64(200), repo.units[2].SecondsSpent)
	assert.Equal(t, int64(205), repo.units[3].SecondsSpent)
}
