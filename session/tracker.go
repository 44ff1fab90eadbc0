package session

import (
	"errors"
	"log"
	"time"

	trainingModels "learntrack/models/training"
	"learntrack/pkg/apperrors"
	"learntrack/repository"
)

// Tracker is the authoritative progress state machine for one open session of
// one (user, training) pair. It reduces timer flushes into persisted state:
//
//	not_started → in_progress ⇄ paused → completed
//
// completed is terminal. Position and unit-activity writes are retried
// transparently on storage failure while state keeps accruing in memory;
// Complete never retries and surfaces storage failure to the caller.
type Tracker struct {
	repo       repository.ProgressRepository
	now        func() time.Time
	userID     uint
	trainingID uint

	progress     *trainingModels.TrainingProgress
	dirty        bool
	pendingUnits map[uint]trainingModels.ContentUnitActivity
}

// NewTracker loads any existing progress for the pair. A nil clock means
// time.Now.
func NewTracker(repo repository.ProgressRepository, userID, trainingID uint, clock func() time.Time) (*Tracker, error) {
	if clock == nil {
		clock = time.Now
	}
	p, err := repo.ReadProgress(userID, trainingID)
	if err != nil {
		return nil, err
	}
	return &Tracker{
		repo:         repo,
		now:          clock,
		userID:       userID,
		trainingID:   trainingID,
		progress:     p,
		pendingUnits: make(map[uint]trainingModels.ContentUnitActivity),
	}, nil
}

// Status returns the current state; "not_started" before the first position
// update.
func (t *Tracker) Status() string {
	if t.progress == nil {
		return "not_started"
	}
	return t.progress.Status
}

// Progress returns the in-memory progress record, nil before the first
// position update.
func (t *Tracker) Progress() *trainingModels.TrainingProgress {
	return t.progress
}

// RecordPosition sets the current unit index and the cumulative dwell time for
// the session, creating the progress row on first call. The write is absolute
// and keyed by (user, training), so repeating the same input is a no-op.
// Storage failures are retried on the next call; the caller never sees them.
func (t *Tracker) RecordPosition(unitIndex int, cumulativeSeconds int64) error {
	if t.progress != nil && t.progress.Status == trainingModels.StatusCompleted {
		return apperrors.NewState("record position", trainingModels.StatusCompleted)
	}
	if t.progress == nil {
		t.progress = &trainingModels.TrainingProgress{
			UserID:     t.userID,
			TrainingID: t.trainingID,
			Status:     trainingModels.StatusInProgress,
		}
	}
	t.progress.CurrentPosition = unitIndex
	t.progress.CumulativeSeconds = cumulativeSeconds
	t.persistProgress(false)
	return nil
}

// RecordUnitActivity reduces a timer flush into the per-unit activity row.
// Seconds are written absolutely, never added, so a retried write cannot
// double count. Failures are retried on the next flush.
func (t *Tracker) RecordUnitActivity(f Flush) error {
	if t.progress == nil {
		return apperrors.NewState("record unit activity", "not_started")
	}
	if t.progress.Status == trainingModels.StatusCompleted {
		return apperrors.NewState("record unit activity", trainingModels.StatusCompleted)
	}
	t.pendingUnits[f.UnitID] = trainingModels.ContentUnitActivity{
		ProgressID:       t.progress.ID,
		UnitID:           f.UnitID,
		SecondsSpent:     f.Seconds,
		InteractionCount: f.Interactions,
		LastActivityAt:   f.At,
	}
	t.flushPendingUnits()
	return nil
}

// Pause moves in_progress to paused without touching cumulative seconds.
// Pausing an already paused session is a no-op.
func (t *Tracker) Pause() error {
	return t.setStatus("pause", trainingModels.StatusPaused, trainingModels.StatusInProgress)
}

// Resume moves paused back to in_progress.
func (t *Tracker) Resume() error {
	return t.setStatus("resume", trainingModels.StatusInProgress, trainingModels.StatusPaused)
}

func (t *Tracker) setStatus(op, to, from string) error {
	if t.progress == nil {
		return apperrors.NewState(op, "not_started")
	}
	if t.progress.Status == trainingModels.StatusCompleted {
		return apperrors.NewState(op, trainingModels.StatusCompleted)
	}
	if t.progress.Status == to {
		return nil
	}
	if t.progress.Status != from {
		return apperrors.NewState(op, t.progress.Status)
	}
	prev := t.progress.Status
	t.progress.Status = to
	if err := t.repo.UpsertProgress(t.progress); err != nil {
		t.progress.Status = prev
		return err
	}
	t.backfillID()
	return nil
}

// Complete marks the session completed and records whether it happened before
// the required dwell time accrued. Completion is terminal and its write is
// never retried: a storage failure here is returned to the caller unchanged.
func (t *Tracker) Complete(totalSeconds, requiredSeconds int64) error {
	if t.progress == nil {
		return apperrors.NewState("complete", "not_started")
	}
	if t.progress.Status == trainingModels.StatusCompleted {
		return apperrors.NewState("complete", trainingModels.StatusCompleted)
	}
	now := t.now()
	next := *t.progress
	next.Status = trainingModels.StatusCompleted
	next.CompletedAt = &now
	next.CompletedEarly = totalSeconds < requiredSeconds
	next.CumulativeSeconds = totalSeconds
	if err := t.repo.UpsertProgress(&next); err != nil {
		return err
	}
	t.progress = &next
	t.backfillID()
	t.dirty = false
	return nil
}

// FlushPending retries any writes that failed earlier. Safe to call at any
// time; the buffered values are absolute.
func (t *Tracker) FlushPending() {
	if t.dirty {
		t.persistProgress(true)
	}
	t.flushPendingUnits()
}

func (t *Tracker) persistProgress(retry bool) {
	if err := t.repo.UpsertProgress(t.progress); err != nil {
		t.dirty = true
		if !retry {
			log.Printf("[SESSION] progress write deferred for user=%d training=%d: %v", t.userID, t.trainingID, err)
		}
		return
	}
	t.dirty = false
	t.backfillID()
}

func (t *Tracker) flushPendingUnits() {
	if t.progress == nil || t.progress.ID == 0 {
		// row id unknown until the first progress write lands
		return
	}
	for unitID, row := range t.pendingUnits {
		row.ProgressID = t.progress.ID
		if err := t.repo.UpsertUnitActivity(&row); err != nil {
			var pe *apperrors.PersistenceError
			if errors.As(err, &pe) {
				log.Printf("[SESSION] unit activity write deferred for unit=%d: %v", unitID, err)
			}
			t.pendingUnits[unitID] = row
			continue
		}
		delete(t.pendingUnits, unitID)
	}
}

func (t *Tracker) backfillID() {
	if t.progress.ID != 0 {
		return
	}
	if p, err := t.repo.ReadProgress(t.userID, t.trainingID); err == nil && p != nil {
		t.progress.ID = p.ID
		t.progress.CreatedAt = p.CreatedAt
	}
}
