package timer

import "time"

// Options configures a Timer.
type Options struct {
	FocusDuration time.Duration
	BreakDuration time.Duration
	// AutoContinue starts the next phase as soon as one expires.
	AutoContinue  bool
}

// Timer is the focus/break countdown state machine. It is not safe for
// concurrent use; one event loop owns it and feeds it ticks and results.
type Timer struct {
	sessions SessionPort
	ambient  Ambient
	options  Options

	phase     Phase
	running   bool
	remaining time.Duration
	total     time.Duration

	sessionID string
	// attempt identifies the latest start request. Responses carrying any
	// other attempt are stale.
	attempt   uint64
	inFlight  bool
}

// New returns a paused timer with the focus duration loaded.
func New(sessions SessionPort, ambient Ambient, options Options) *Timer {
	if options.FocusDuration <= 0 {
		options.FocusDuration = DefaultFocusDuration
	}
	if options.BreakDuration <= 0 {
		options.BreakDuration = DefaultBreakDuration
	}
	if ambient == nil {
		ambient = noopAmbient{}
	}

	t := &Timer{
		sessions: sessions,
		ambient:  ambient,
		options:  options,
	}
	t.load(options.FocusDuration, PhaseFocus)
	return t
}

// Start runs the countdown. It is a no-op while running. Entering a focus
// period with no open or pending session requests a new one.
func (t *Timer) Start() {
	if t.running {
		return
	}
	t.running = true

	if t.phase == PhaseBreak {
		t.ambient.BreakStarted()
		return
	}

	newSession := false
	if t.sessionID == "" && !t.inFlight {
		t.attempt++
		t.inFlight = true
		newSession = true
		t.sessions.RequestStart(t.attempt)
	}
	t.ambient.FocusStarted(newSession)
}

// Pause stops the countdown without closing the session.
func (t *Timer) Pause() {
	if !t.running {
		return
	}
	t.running = false
	t.ambient.Paused()
}

// Toggle starts a paused timer and pauses a running one.
func (t *Timer) Toggle() {
	if t.running {
		t.Pause()
		return
	}
	t.Start()
}

// Tick advances a running countdown by one second.
func (t *Timer) Tick() {
	if !t.running {
		return
	}
	t.remaining -= time.Second
	if t.remaining <= 0 {
		t.remaining = 0
		t.expire()
	}
}

// Reset stops the countdown, closes any open session, leaves focus mode and
// loads duration.
func (t *Timer) Reset(duration time.Duration, isBreak bool) {
	t.running = false
	t.closeSession()
	t.ambient.FocusEnded()

	phase := PhaseFocus
	if isBreak {
		phase = PhaseBreak
	}
	t.load(duration, phase)
}

// Select loads a preset duration. Presets under ten minutes are breaks.
func (t *Timer) Select(duration time.Duration) {
	if duration <= 0 {
		return
	}
	t.Reset(duration, duration < breakThreshold)
}

// SessionStarted reports the outcome of RequestStart(attempt). A stale
// response is never adopted; if the ledger did open a session for it, that
// session is closed right away.
func (t *Timer) SessionStarted(attempt uint64, sessionID string, err error) {
	if attempt != t.attempt || !t.inFlight {
		if err == nil && sessionID != "" {
			t.sessions.RequestEnd(sessionID)
		}
		return
	}

	t.inFlight = false
	if err != nil {
		// The period keeps running locally; the next focus start retries.
		return
	}
	t.sessionID = sessionID
}

// Snapshot returns the current state for display.
func (t *Timer) Snapshot() Snapshot {
	return Snapshot{
		Phase:         t.phase,
		Running:       t.running,
		Remaining:     t.remaining,
		Total:         t.total,
		SessionID:     t.sessionID,
		StartInFlight: t.inFlight,
	}
}

func (t *Timer) Phase() Phase { return t.phase }
func (t *Timer) Running() bool { return t.running }
func (t *Timer) Remaining() time.Duration { return t.remaining }
func (t *Timer) SessionID() string { return t.sessionID }

func (t *Timer) expire() {
	completed := t.phase
	t.running = false

	if completed == PhaseFocus {
		t.closeSession()
		t.ambient.FocusEnded()
		t.load(t.options.BreakDuration, PhaseBreak)
	} else {
		t.load(t.options.FocusDuration, PhaseFocus)
	}
	t.ambient.PhaseCompleted(completed)

	if t.options.AutoContinue {
		t.Start()
	}
}

// closeSession ends the open session, if any, and invalidates a pending
// start so its response gets closed on arrival.
func (t *Timer) closeSession() {
	if t.sessionID != "" {
		t.sessions.RequestEnd(t.sessionID)
		t.sessionID = ""
	}
	if t.inFlight {
		t.attempt++
		t.inFlight = false
	}
}

func (t *Timer) load(duration time.Duration, phase Phase) {
	t.phase = phase
	t.remaining = duration
	t.total = duration
}
