// Package pomodoro implements the work/break cycle state machine. The timer
// never ticks on its own: the owning view drives Tick once per second (the
// TUI uses tea.Tick), which keeps the machine deterministic under test.
package pomodoro

import "time"

// State is the timer's lifecycle position.
type State int

const (
	Idle State = iota
	Running
	Paused
)

// Mode is the kind of interval being timed, orthogonal to State.
type Mode int

const (
	Work Mode = iota
	Break
	LongBreak
)

func (m Mode) String() string {
	switch m {
	case Break:
		return "break"
	case LongBreak:
		return "long break"
	default:
		return "work"
	}
}

// Options are the configured interval lengths. Validation happens at the
// configuration boundary; the timer trusts what it is given.
type Options struct {
	WorkMinutes      int
	BreakMinutes     int
	LongBreakMinutes int
	BeforeLongBreak  int // completed work sessions before a long break
}

// DefaultOptions is the classic 25/5/15 cycle with a long break every 4th
// pomodoro.
var DefaultOptions = Options{
	WorkMinutes:      25,
	BreakMinutes:     5,
	LongBreakMinutes: 15,
	BeforeLongBreak:  4,
}

// Patch carries partial option updates; nil fields keep the current value.
type Patch struct {
	WorkMinutes      *int
	BreakMinutes     *int
	LongBreakMinutes *int
	BeforeLongBreak  *int
}

// TickEvent is emitted every driven second while running.
type TickEvent struct {
	Remaining int // seconds
	Mode      Mode
}

// CompleteEvent is emitted when a mode's countdown reaches zero.
type CompleteEvent struct {
	Mode      Mode
	StartTime time.Time
	EndTime   time.Time
}

// Callbacks are configured at construction; either may be nil.
type Callbacks struct {
	Now        func() time.Time // defaults to time.Now
	OnTick     func(TickEvent)
	OnComplete func(CompleteEvent)
}

// Timer is the pomodoro state machine. Not safe for concurrent use; it lives
// on one event loop.
type Timer struct {
	opts      Options
	state     State
	mode      Mode
	remaining int // seconds
	startTime time.Time
	completed int // work sessions since the last long break
	cb        Callbacks
}

// New returns an idle timer in work mode with the full work duration loaded.
func New(opts Options, cb Callbacks) *Timer {
	if cb.Now == nil {
		cb.Now = time.Now
	}
	return &Timer{
		opts:      opts,
		mode:      Work,
		remaining: opts.WorkMinutes * 60,
		cb:        cb,
	}
}

// Start begins or resumes the countdown. Already running is a no-op. When
// resuming a partially-elapsed pause, the recorded start time is back-dated
// by the elapsed portion so the eventual completion event spans the whole
// interval.
func (t *Timer) Start() {
	if t.state == Running {
		return
	}

	now := t.cb.Now()
	full := t.fullDuration(t.mode)
	if t.state == Paused && t.remaining < full {
		elapsed := time.Duration(full-t.remaining) * time.Second
		t.startTime = now.Add(-elapsed)
	} else {
		t.startTime = now
	}
	t.state = Running
}

// Tick advances the countdown by one second. Ignored unless running.
func (t *Timer) Tick() {
	if t.state != Running {
		return
	}

	t.remaining--
	if t.cb.OnTick != nil {
		t.cb.OnTick(TickEvent{Remaining: t.remaining, Mode: t.mode})
	}
	if t.remaining <= 0 {
		t.complete()
	}
}

// Pause freezes the countdown. Ignored unless running.
func (t *Timer) Pause() {
	if t.state != Running {
		return
	}
	t.state = Paused
}

// Stop cancels the countdown and resets to a fresh work interval. The
// completed-pomodoro counter is kept.
func (t *Timer) Stop() {
	t.state = Idle
	t.mode = Work
	t.remaining = t.fullDuration(Work)
	t.startTime = time.Time{}
}

// Reset is Stop plus zeroing the completed-pomodoro counter.
func (t *Timer) Reset() {
	t.Stop()
	t.completed = 0
}

// UpdateOptions merges new durations. When idle, the remaining display is
// recomputed immediately for the current mode.
func (t *Timer) UpdateOptions(p Patch) {
	if p.WorkMinutes != nil {
		t.opts.WorkMinutes = *p.WorkMinutes
	}
	if p.BreakMinutes != nil {
		t.opts.BreakMinutes = *p.BreakMinutes
	}
	if p.LongBreakMinutes != nil {
		t.opts.LongBreakMinutes = *p.LongBreakMinutes
	}
	if p.BeforeLongBreak != nil {
		t.opts.BeforeLongBreak = *p.BeforeLongBreak
	}
	if t.state == Idle {
		t.remaining = t.fullDuration(t.mode)
	}
}

// SetStartTimeOffset retroactively back-dates the recorded start time, for
// "I started this N minutes ago" corrections. It does not touch the
// countdown and only applies while running.
func (t *Timer) SetStartTimeOffset(minutesAgo int) {
	if t.state != Running {
		return
	}
	t.startTime = t.cb.Now().Add(-time.Duration(minutesAgo) * time.Minute)
}

// State reports the lifecycle position.
func (t *Timer) State() State { return t.state }

// Mode reports the interval kind currently loaded.
func (t *Timer) Mode() Mode { return t.mode }

// Remaining reports the countdown in seconds.
func (t *Timer) Remaining() int { return t.remaining }

// Completed reports work sessions finished since the last long break.
func (t *Timer) Completed() int { return t.completed }

// StartTime reports the (possibly back-dated) start of the running interval.
func (t *Timer) StartTime() time.Time { return t.startTime }

// complete handles the countdown reaching zero: emit the interval, pick the
// next mode, and stop. The next phase never auto-starts.
func (t *Timer) complete() {
	finished := t.mode
	if t.cb.OnComplete != nil {
		t.cb.OnComplete(CompleteEvent{
			Mode:      finished,
			StartTime: t.startTime,
			EndTime:   t.cb.Now(),
		})
	}

	if finished == Work {
		t.completed++
		if t.completed >= t.opts.BeforeLongBreak {
			t.mode = LongBreak
			t.completed = 0
		} else {
			t.mode = Break
		}
	} else {
		t.mode = Work
	}

	t.remaining = t.fullDuration(t.mode)
	t.startTime = time.Time{}
	t.state = Idle
}

func (t *Timer) fullDuration(m Mode) int {
	switch m {
	case Break:
		return t.opts.BreakMinutes * 60
	case LongBreak:
		return t.opts.LongBreakMinutes * 60
	default:
		return t.opts.WorkMinutes * 60
	}
}
