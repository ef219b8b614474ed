package tui

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"focus-starter/internal/ambient"
	"focus-starter/internal/timer"
)

// Options configures the timer screen.
type Options struct {
	UserID        string
	FocusDuration time.Duration
	BreakDuration time.Duration
	SoundType     string
	AutoContinue  bool
}

// Model is the Bubble Tea model of the focus timer screen. It owns the
// timer; every ledger call runs as a command whose result comes back as a
// message.
type Model struct {
	api      API
	port     *sessionPort
	timer    *timer.Timer
	ambient  *ambient.Controller
	presets  []time.Duration
	keys     keyMap
	help     help.Model
	progress progress.Model
	width    int
	quitting bool

	// awaitingStart holds the quit until a pending start answers, so the
	// session it opened can be closed.
	awaitingStart bool
}

func New(api API, opts Options) Model {
	if opts.FocusDuration <= 0 {
		opts.FocusDuration = timer.DefaultFocusDuration
	}
	if opts.BreakDuration <= 0 {
		opts.BreakDuration = timer.DefaultBreakDuration
	}

	port := &sessionPort{api: api, userID: opts.UserID}
	amb := ambient.NewController(opts.SoundType)
	tm := timer.New(port, amb, timer.Options{
		FocusDuration: opts.FocusDuration,
		BreakDuration: opts.BreakDuration,
		AutoContinue:  opts.AutoContinue,
	})

	bar := progress.New(progress.WithGradient(string(lavender), string(sapphire)), progress.WithoutPercentage())
	bar.Width = 40

	return Model{
		api:      api,
		port:     port,
		timer:    tm,
		ambient:  amb,
		presets:  []time.Duration{opts.FocusDuration, 50 * time.Minute, opts.BreakDuration, 15 * time.Minute},
		keys:     defaultKeyMap(),
		help:     help.New(),
		progress: bar,
	}
}

// Reward exposes the reward port so a host integration can unlock the
// premium sound.
func (m Model) Reward() ambient.RewardPort { return m.ambient }

func (m Model) Init() tea.Cmd { return tickCmd() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		if w := msg.Width - 12; w > 10 && w < 60 {
			m.progress.Width = w
		}
		return m, nil

	case tickMsg:
		if m.quitting {
			return m, nil
		}
		m.timer.Tick()
		return m, tea.Batch(append(m.drain(), tickCmd())...)

	case sessionStartedMsg:
		if msg.err != nil {
			log.Printf("tui: could not start session (attempt %d): %v", msg.attempt, msg.err)
		}
		m.timer.SessionStarted(msg.attempt, msg.sessionID, msg.err)
		if m.awaitingStart {
			m.awaitingStart = false
			return m, tea.Sequence(tea.Batch(m.port.take()...), tea.Quit)
		}
		return m, tea.Batch(m.drain()...)

	case quitTimeoutMsg:
		if m.awaitingStart {
			log.Printf("tui: quitting without an answer to the pending session start")
			m.awaitingStart = false
			return m, tea.Quit
		}
		return m, nil

	case sessionEndedMsg:
		logSessionEnded(msg)
		return m, nil

	case soundMsg:
		m.ambient.SoundResolved(msg.soundType, msg.url, msg.err)
		return m, nil

	case quoteMsg:
		m.ambient.QuoteResolved(msg.quote, msg.err)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.quitting && !key.Matches(msg, m.keys.Quit) {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.quitting {
			return m, tea.Quit
		}
		pending := m.timer.Snapshot().StartInFlight
		m.quitting = true
		m.timer.Reset(m.presets[0], false)
		ends := tea.Batch(m.port.take()...)
		if pending {
			m.awaitingStart = true
			return m, tea.Batch(ends, quitTimeoutCmd())
		}
		return m, tea.Sequence(ends, tea.Quit)

	case key.Matches(msg, m.keys.Toggle):
		m.timer.Toggle()

	case key.Matches(msg, m.keys.Reset):
		m.timer.Reset(m.presets[0], false)

	case key.Matches(msg, m.keys.Presets):
		idx := int(msg.String()[0] - '1')
		if idx >= 0 && idx < len(m.presets) {
			m.timer.Select(m.presets[idx])
		}

	case key.Matches(msg, m.keys.Sound):
		m.ambient.NextSound()
		if m.timer.Running() && m.timer.Phase() == timer.PhaseFocus {
			return m, fetchSoundCmd(m.api, m.ambient.Status().SoundType)
		}

	case key.Matches(msg, m.keys.Reward):
		m.ambient.RewardGranted()
	}

	return m, tea.Batch(m.drain()...)
}

// drain collects the commands queued by the timer and the ambient controller.
func (m Model) drain() []tea.Cmd {
	cmds := m.port.take()
	for _, req := range m.ambient.TakeRequests() {
		switch req.Kind {
		case ambient.RequestMusic:
			cmds = append(cmds, fetchSoundCmd(m.api, req.SoundType))
		case ambient.RequestQuote:
			cmds = append(cmds, fetchQuoteCmd(m.api))
		}
	}
	if m.ambient.TakeBell() {
		cmds = append(cmds, bellCmd())
	}
	return cmds
}

func (m Model) View() string {
	if m.quitting {
		if m.awaitingStart {
			return appStyle.Render(mutedStyle.Render("Closing session…"))
		}
		return ""
	}

	snap := m.timer.Snapshot()
	status := m.ambient.Status()

	phase := focusStyle.Render("Focus Session")
	if snap.Phase == timer.PhaseBreak {
		phase = breakStyle.Render("Break Time")
	}
	state := mutedStyle.Render("paused")
	if snap.Running {
		state = onStyle.Render("running")
	}

	elapsed := 0.0
	if snap.Total > 0 {
		elapsed = 1 - float64(snap.Remaining)/float64(snap.Total)
	}

	var body strings.Builder
	body.WriteString(phase + "  " + state + "\n\n")
	body.WriteString(clockStyle.Render(formatClock(snap.Remaining)) + "\n\n")
	body.WriteString(m.progress.ViewAs(elapsed) + "\n\n")
	body.WriteString(renderStatusLine(status, snap) + "\n")

	if status.Quote != nil {
		body.WriteString("\n" + quoteStyle.Render(fmt.Sprintf("“%s”", status.Quote.Text)) + "\n")
		body.WriteString(mutedStyle.Render("– "+status.Quote.Author) + "\n")
	}
	if status.Notification != "" {
		body.WriteString("\n" + hotStyle.Render(status.Notification) + "\n")
	}

	return appStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Focus Starter"),
		paneStyle.Render(body.String()),
		m.help.View(m.keys),
	))
}

func renderStatusLine(status ambient.Status, snap timer.Snapshot) string {
	flag := func(on bool, label string) string {
		if on {
			return onStyle.Render("● " + label)
		}
		return mutedStyle.Render("○ " + label)
	}

	sound := status.SoundType
	if status.Premium && sound == ambient.PremiumSound {
		sound = "✨ " + sound
	}

	parts := []string{
		flag(status.WakeLock, "wake lock"),
		flag(status.DoNotDisturb, "do not disturb"),
		flag(status.MusicOn, "♪ "+sound),
	}
	if snap.StartInFlight {
		parts = append(parts, mutedStyle.Render("saving…"))
	}
	return strings.Join(parts, "  ")
}

func formatClock(d time.Duration) string {
	secs := int(d / time.Second)
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
