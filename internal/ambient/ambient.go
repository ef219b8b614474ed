// Package ambient renders the focus environment for the terminal client:
// the wake lock and do-not-disturb flags, the ambient sound, the quote shown
// at the start of a focus session and the completion notification.
package ambient

import (
	"errors"
	"log"

	"focus-starter/internal/models"
	"focus-starter/internal/timer"
)

// PremiumSound is locked until a reward is granted.
const PremiumSound = "cinematic drone"

// SoundTypes are the selectable ambient sounds, in display order.
var SoundTypes = []string{"rain", "forest", "ocean", "lofi", PremiumSound}

var ErrPremiumLocked = errors.New("premium sound is locked")

const (
	focusCompleteMessage = "Focus session complete! Time for a break."
	breakCompleteMessage = "Break is over! Time to focus."
	rewardMessage        = "Premium sound unlocked for this session!"
)

// RewardPort is called by the host when the user earns the premium reward.
type RewardPort interface {
	RewardGranted()
}

type RequestKind int

const (
	RequestMusic RequestKind = iota
	RequestQuote
)

// Request is a lookup the host must perform and report back through
// SoundResolved or QuoteResolved.
type Request struct {
	Kind      RequestKind
	SoundType string
}

// Status is what the status line shows.
type Status struct {
	WakeLock     bool
	DoNotDisturb bool
	MusicOn      bool
	SoundType    string
	SoundURL     string
	Quote        *models.Quote
	Notification string
	Premium      bool
}

// Controller implements timer.Ambient. It only records state and queues
// lookups; the owner drains them with TakeRequests.
type Controller struct {
	wakeLock     bool
	dnd          bool
	audioOn      bool
	soundType    string
	soundURL     string
	quote        *models.Quote
	notification string
	premium      bool
	bell         bool
	pending      []Request
}

var (
	_ timer.Ambient = (*Controller)(nil)
	_ RewardPort    = (*Controller)(nil)
)

func NewController(soundType string) *Controller {
	c := &Controller{soundType: SoundTypes[0]}
	if err := c.SelectSound(soundType); err != nil && soundType != "" {
		log.Printf("ambient: keeping %q: %v", c.soundType, err)
	}
	return c
}

func (c *Controller) FocusStarted(newSession bool) {
	c.dnd = true
	c.wakeLock = true
	c.audioOn = true
	c.notification = ""
	if newSession {
		c.pending = append(c.pending, Request{Kind: RequestQuote})
	}
	c.pending = append(c.pending, Request{Kind: RequestMusic, SoundType: c.soundType})
}

func (c *Controller) Paused() {
	c.audioOn = false
	c.wakeLock = false
}

func (c *Controller) FocusEnded() {
	c.dnd = false
	c.audioOn = false
	c.wakeLock = false
	c.quote = nil
}

func (c *Controller) BreakStarted() {
	c.notification = ""
}

func (c *Controller) PhaseCompleted(phase timer.Phase) {
	c.bell = true
	if phase == timer.PhaseFocus {
		c.notification = focusCompleteMessage
		return
	}
	c.notification = breakCompleteMessage
}

// RewardGranted unlocks the premium sound until the client exits.
func (c *Controller) RewardGranted() {
	c.premium = true
	c.notification = rewardMessage
}

// SelectSound changes the ambient sound used from the next focus start.
func (c *Controller) SelectSound(soundType string) error {
	if !knownSound(soundType) {
		return errors.New("unknown sound type")
	}
	if soundType == PremiumSound && !c.premium {
		return ErrPremiumLocked
	}
	if soundType != c.soundType {
		c.soundType = soundType
		c.soundURL = ""
	}
	return nil
}

// NextSound cycles to the next selectable sound.
func (c *Controller) NextSound() string {
	idx := 0
	for i, s := range SoundTypes {
		if s == c.soundType {
			idx = i
		}
	}
	for step := 1; step <= len(SoundTypes); step++ {
		candidate := SoundTypes[(idx+step)%len(SoundTypes)]
		if c.SelectSound(candidate) == nil {
			break
		}
	}
	return c.soundType
}

// SoundResolved records the outcome of a RequestMusic lookup. Failures are
// logged and leave the session silent.
func (c *Controller) SoundResolved(soundType, url string, err error) {
	if err != nil {
		log.Printf("ambient: music lookup for %q failed: %v", soundType, err)
		return
	}
	if soundType != c.soundType {
		return
	}
	c.soundURL = url
}

// QuoteResolved records the outcome of a RequestQuote lookup.
func (c *Controller) QuoteResolved(quote *models.Quote, err error) {
	if err != nil {
		log.Printf("ambient: quote lookup failed: %v", err)
		return
	}
	if !c.dnd {
		// Focus ended before the quote arrived.
		return
	}
	c.quote = quote
}

// TakeRequests returns and clears the queued lookups.
func (c *Controller) TakeRequests() []Request {
	out := c.pending
	c.pending = nil
	return out
}

// TakeBell reports whether a completion bell is due and clears it.
func (c *Controller) TakeBell() bool {
	ring := c.bell
	c.bell = false
	return ring
}

func (c *Controller) Status() Status {
	return Status{
		WakeLock:     c.wakeLock,
		DoNotDisturb: c.dnd,
		MusicOn:      c.audioOn && c.soundURL != "",
		SoundType:    c.soundType,
		SoundURL:     c.soundURL,
		Quote:        c.quote,
		Notification: c.notification,
		Premium:      c.premium,
	}
}

func knownSound(soundType string) bool {
	for _, s := range SoundTypes {
		if s == soundType {
			return true
		}
	}
	return false
}
