package session

import "time"

// DefaultIdleThreshold is how long without an input signal before the timer
// stops accruing and raises an idle notification.
const DefaultIdleThreshold = 30 * time.Second

// Flush is the result of closing out a unit's counter. Seconds and
// Interactions are the absolute totals for that unit across the whole session,
// so persisting a Flush twice writes the same values.
type Flush struct {
	UnitID       uint
	Seconds      int64
	Interactions int
	At           time.Time
}

type unitAccrual struct {
	seconds      int64
	interactions int
}

// ActivityTimer is a per-unit stopwatch with idle detection. It accrues at
// 1-second resolution only while running and while the last input signal is
// within the idle threshold. Crossing the threshold raises the idle callback
// once; it never pauses the timer by itself.
//
// One timer serves one open session and is driven from a single cooperative
// loop: the caller delivers Tick, Touch and SwitchUnit calls in order, so no
// internal locking is done.
type ActivityTimer struct {
	idleThreshold time.Duration
	now           func() time.Time
	onIdle        func(unitID uint)

	unitID       uint
	unitSeconds  int64
	flushedTotal int64
	totals       map[uint]*unitAccrual
	interactions int
	lastTick     time.Time
	lastActivity time.Time
	running      bool
	idleNotified bool
	started      bool
}

// NewActivityTimer builds a timer. A zero idleThreshold means
// DefaultIdleThreshold; a nil clock means time.Now; onIdle may be nil.
func NewActivityTimer(idleThreshold time.Duration, clock func() time.Time, onIdle func(unitID uint)) *ActivityTimer {
	if idleThreshold <= 0 {
		idleThreshold = DefaultIdleThreshold
	}
	if clock == nil {
		clock = time.Now
	}
	return &ActivityTimer{
		idleThreshold: idleThreshold,
		now:           clock,
		onIdle:        onIdle,
		totals:        make(map[uint]*unitAccrual),
	}
}

// Start begins counting against the given unit.
func (t *ActivityTimer) Start(unitID uint) {
	now := t.now()
	t.unitID = unitID
	t.unitSeconds = 0
	t.interactions = 0
	t.lastTick = now
	t.lastActivity = now
	t.running = true
	t.idleNotified = false
	t.started = true
}

// Tick advances the counter to the current clock time. Whole seconds that fall
// before the idle cutoff accrue to the current unit; the first tick at or past
// the cutoff raises the idle notification.
func (t *ActivityTimer) Tick() {
	now := t.now()
	elapsed := int64(now.Sub(t.lastTick) / time.Second)
	if elapsed <= 0 {
		return
	}
	prev := t.lastTick
	t.lastTick = prev.Add(time.Duration(elapsed) * time.Second)
	if !t.running || !t.started {
		return
	}

	idleAt := t.lastActivity.Add(t.idleThreshold)
	active := elapsed
	if t.lastTick.After(idleAt) {
		active = int64(idleAt.Sub(prev) / time.Second)
		if active < 0 {
			active = 0
		}
		if active > elapsed {
			active = elapsed
		}
	}
	t.unitSeconds += active

	if !t.lastTick.Before(idleAt) && !t.idleNotified {
		t.idleNotified = true
		if t.onIdle != nil {
			t.onIdle(t.unitID)
		}
	}
}

// Touch registers an input signal: resets the idle clock and counts one
// interaction on the current unit.
func (t *ActivityTimer) Touch() {
	if !t.running || !t.started {
		return
	}
	t.Tick()
	t.lastActivity = t.now()
	t.idleNotified = false
	t.interactions++
}

// Pause stops accrual. The idle clock is suspended too; it restarts fresh on
// Resume.
func (t *ActivityTimer) Pause() {
	t.Tick()
	t.running = false
}

// Resume restarts accrual with a fresh idle clock.
func (t *ActivityTimer) Resume() {
	if !t.started {
		return
	}
	now := t.now()
	t.lastTick = now
	t.lastActivity = now
	t.idleNotified = false
	t.running = true
}

// SwitchUnit flushes the unit being left, zeroes its local counter and starts
// the new unit. The three steps happen inside this single call, so no tick can
// land between them.
func (t *ActivityTimer) SwitchUnit(unitID uint) Flush {
	t.Tick()
	f := t.flush()
	t.unitID = unitID
	now := t.now()
	t.lastActivity = now
	t.idleNotified = false
	return f
}

// Flush closes out the current unit's counter without switching units. The
// returned totals stay absolute, so the caller's write is idempotent.
func (t *ActivityTimer) Flush() Flush {
	t.Tick()
	return t.flush()
}

func (t *ActivityTimer) flush() Flush {
	acc, ok := t.totals[t.unitID]
	if !ok {
		acc = &unitAccrual{}
		t.totals[t.unitID] = acc
	}
	acc.seconds += t.unitSeconds
	acc.interactions += t.interactions
	t.flushedTotal += t.unitSeconds
	t.unitSeconds = 0
	t.interactions = 0
	return Flush{
		UnitID:       t.unitID,
		Seconds:      acc.seconds,
		Interactions: acc.interactions,
		At:           t.now(),
	}
}

// Total is the running sum of all accrued seconds across the session,
// including the not-yet-flushed current unit. It is never reset by a unit
// change.
func (t *ActivityTimer) Total() int64 {
	return t.flushedTotal + t.unitSeconds
}

// CurrentUnit returns the unit the timer is counting against.
func (t *ActivityTimer) CurrentUnit() uint { return t.unitID }

// Idle reports whether the idle threshold has been crossed since the last
// input signal.
func (t *ActivityTimer) Idle() bool { return t.idleNotified }

// Running reports whether the timer is accruing.
func (t *ActivityTimer) Running() bool { return t.running }
