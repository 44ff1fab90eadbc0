package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func TestTimerAccruesWhileActive(t *testing.T) {
	clock := newFakeClock()
	timer := NewActivityTimer(0, clock.Now, nil)
	timer.Start(1)

	clock.Advance(10 * time.Second)
	timer.Tick()

	assert.Equal(t, int64(10), timer.Total())
	assert.False(t, timer.Idle())
}

func TestTimerStopsAtIdleThreshold(t *testing.T) {
	clock := newFakeClock()
	idleUnits := []uint{}
	timer := NewActivityTimer(0, clock.Now, func(unitID uint) {
		idleUnits = append(idleUnits, unitID)
	})
	timer.Start(7)

	clock.Advance(10 * time.Second)
	timer.Tick()
	assert.Equal(t, int64(10), timer.Total())

	// 35s since the last input signal: only the first 30 accrue
	clock.Advance(25 * time.Second)
	timer.Tick()
	assert.Equal(t, int64(30), timer.Total())
	assert.True(t, timer.Idle())
	assert.Equal(t, []uint{7}, idleUnits)

	// fully idle now, nothing more accrues and no second notification
	clock.Advance(10 * time.Second)
	timer.Tick()
	assert.Equal(t, int64(30), timer.Total())
	assert.Equal(t, []uint{7}, idleUnits)
}

func TestTouchResetsIdleClock(t *testing.T) {
	clock := newFakeClock()
	timer := NewActivityTimer(0, clock.Now, nil)
	timer.Start(1)

	clock.Advance(45 * time.Second)
	timer.Tick()
	assert.Equal(t, int64(30), timer.Total())
	assert.True(t, timer.Idle())

	timer.Touch()
	assert.False(t, timer.Idle())

	clock.Advance(5 * time.Second)
	timer.Tick()
	assert.Equal(t, int64(35), timer.Total())
}

func TestTimerNeverAutoPauses(t *testing.T) {
	clock := newFakeClock()
	timer := NewActivityTimer(0, clock.Now, nil)
	timer.Start(1)

	clock.Advance(2 * time.Minute)
	timer.Tick()

	assert.True(t, timer.Running())
	assert.True(t, timer.Idle())

	// activity picks accrual right back up without any resume call
	timer.Touch()
	clock.Advance(3 * time.Second)
	timer.Tick()
	assert.Equal(t, int64(33), timer.Total())
}

func TestSwitchUnitFlushesAtomically(t *testing.T) {
	clock := newFakeClock()
	timer := NewActivityTimer(0, clock.Now, nil)
	timer.Start(1)

	clock.Advance(10 * time.Second)
	f := timer.SwitchUnit(2)

	assert.Equal(t, uint(1), f.UnitID)
	assert.Equal(t, int64(10), f.Seconds)
	// cumulative total survives the unit change
	assert.Equal(t, int64(10), timer.Total())
	assert.Equal(t, uint(2), timer.CurrentUnit())

	clock.Advance(7 * time.Second)
	f = timer.Flush()
	assert.Equal(t, uint(2), f.UnitID)
	assert.Equal(t, int64(7), f.Seconds)
	assert.Equal(t, int64(17), timer.Total())
}

func TestRevisitedUnitReportsAbsoluteSeconds(t *testing.T) {
	clock := newFakeClock()
	timer := NewActivityTimer(0, clock.Now, nil)
	timer.Start(1)

	clock.Advance(10 * time.Second)
	timer.SwitchUnit(2)
	clock.Advance(5 * time.Second)
	timer.SwitchUnit(1)
	clock.Advance(3 * time.Second)

	f := timer.Flush()
	assert.Equal(t, uint(1), f.UnitID)
	// absolute total for unit 1 across both visits, so a repeated write of
	// this flush cannot double count
	assert.Equal(t, int64(13), f.Seconds)
	assert.Equal(t, int64(18), timer.Total())
}

func TestPauseSuspendsAccrualAndIdleClock(t *testing.T) {
	clock := newFakeClock()
	timer := NewActivityTimer(0, clock.Now, nil)
	timer.Start(1)

	clock.Advance(10 * time.Second)
	timer.Pause()
	assert.Equal(t, int64(10), timer.Total())

	// a long pause neither accrues nor trips the idle warning
	clock.Advance(10 * time.Minute)
	timer.Tick()
	assert.Equal(t, int64(10), timer.Total())
	assert.False(t, timer.Idle())

	timer.Resume()
	clock.Advance(5 * time.Second)
	timer.Tick()
	assert.Equal(t, int64(15), timer.Total())
	assert.False(t, timer.Idle())
}

func TestTouchCountsInteractions(t *testing.T) {
	clock := newFakeClock()
	timer := NewActivityTimer(0, clock.Now, nil)
	timer.Start(1)

	timer.Touch()
	clock.Advance(2 * time.Second)
	timer.Touch()

	f := timer.Flush()
	assert.Equal(t, 2, f.Interactions)
	assert.Equal(t, int64(2), f.Seconds)
}
