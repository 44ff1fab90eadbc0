package session

import (
	"sync"
	"time"

	"learntrack/repository"
)

// Open is one live session: the tracker owning authoritative state and the
// timer feeding it. One pair is assumed active per (user, training); the
// manager only keys them, it does not arbitrate concurrent timers.
type Open struct {
	Tracker *Tracker
	Timer   *ActivityTimer
}

type sessionKey struct {
	userID     uint
	trainingID uint
}

// Manager hands out live sessions to the presentation layer.
type Manager struct {
	repo          repository.ProgressRepository
	idleThreshold time.Duration
	clock         func() time.Time

	// OnIdle, when set, is invoked once per idle episode with the session
	// identity and the unit the learner went idle on. It must not pause the
	// session; idleness only stops accrual.
	OnIdle func(userID, trainingID, unitID uint)

	mu   sync.Mutex
	open map[sessionKey]*Open
}

func NewManager(repo repository.ProgressRepository, idleThreshold time.Duration, clock func() time.Time) *Manager {
	return &Manager{
		repo:          repo,
		idleThreshold: idleThreshold,
		clock:         clock,
		open:          make(map[sessionKey]*Open),
	}
}

// Open returns the live session for the pair, creating tracker and timer on
// first use. The timer starts counting against the given unit.
func (m *Manager) Open(userID, trainingID, unitID uint) (*Open, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := sessionKey{userID: userID, trainingID: trainingID}
	if s, ok := m.open[key]; ok {
		return s, nil
	}

	tracker, err := NewTracker(m.repo, userID, trainingID, m.clock)
	if err != nil {
		return nil, err
	}
	var onIdle func(uint)
	if m.OnIdle != nil {
		notify := m.OnIdle
		onIdle = func(idleUnitID uint) {
			notify(userID, trainingID, idleUnitID)
		}
	}
	timer := NewActivityTimer(m.idleThreshold, m.clock, onIdle)
	timer.Start(unitID)

	s := &Open{Tracker: tracker, Timer: timer}
	m.open[key] = s
	return s, nil
}

// Get returns the live session for the pair, nil when none is open.
func (m *Manager) Get(userID, trainingID uint) *Open {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open[sessionKey{userID: userID, trainingID: trainingID}]
}

// Close drops the live session. Persisted state is untouched.
func (m *Manager) Close(userID, trainingID uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.open, sessionKey{userID: userID, trainingID: trainingID})
}
