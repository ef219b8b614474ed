package timer

import "time"

// Phase is the kind of period loaded in the timer.
type Phase string

const (
	PhaseFocus Phase = "focus"
	PhaseBreak Phase = "break"
)

const (
	DefaultFocusDuration = 25 * time.Minute
	DefaultBreakDuration = 5 * time.Minute

	// Durations picked with Select below this are breaks.
	breakThreshold = 10 * time.Minute
)

// SessionPort carries session requests to the ledger. Calls must not block:
// the result of RequestStart is reported back through Timer.SessionStarted.
type SessionPort interface {
	RequestStart(attempt uint64)
	RequestEnd(sessionID string)
}

// Ambient receives the side effects of timer transitions. FocusStarted
// turns focus mode on (wake lock, do-not-disturb, music); Paused only halts
// music and the wake lock; FocusEnded turns focus mode off entirely.
type Ambient interface {
	FocusStarted(newSession bool)
	FocusEnded()
	BreakStarted()
	Paused()
	PhaseCompleted(phase Phase)
}

type noopAmbient struct{}

func (noopAmbient) FocusStarted(bool) {}
func (noopAmbient) FocusEnded() {}
func (noopAmbient) BreakStarted() {}
func (noopAmbient) Paused() {}
func (noopAmbient) PhaseCompleted(Phase) {}

// Snapshot is a read-only view of the timer for rendering.
type Snapshot struct {
	Phase         Phase
	Running       bool
	Remaining     time.Duration
	Total         time.Duration
	SessionID     string
	StartInFlight bool
}
