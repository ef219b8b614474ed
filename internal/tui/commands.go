package tui

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"focus-starter/internal/models"
)

const (
	requestTimeout = 15 * time.Second
	// quitGrace bounds how long quit waits for a pending session start.
	quitGrace = 3 * time.Second
)

// API is the slice of the HTTP client the timer screen needs.
type API interface {
	StartSession(ctx context.Context, userID string) (string, error)
	EndSession(ctx context.Context, sessionID string) (int, error)
	Music(ctx context.Context, soundType string) (string, error)
	Quote(ctx context.Context) (*models.Quote, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type tickMsg time.Time

type sessionStartedMsg struct {
	attempt   uint64
	sessionID string
	err       error
}

type sessionEndedMsg struct {
	sessionID string
	duration  int
	err       error
}

type soundMsg struct {
	soundType string
	url       string
	err       error
}

type quitTimeoutMsg struct{}

type quoteMsg struct {
	quote *models.Quote
	err   error
}

// ─── session port ────────────────────────────────────────────────────────────

// sessionPort turns timer requests into commands. The timer calls it during
// Update; the model drains the queued commands before returning.
type sessionPort struct {
	api     API
	userID  string
	pending []tea.Cmd
}

func (p *sessionPort) RequestStart(attempt uint64) {
	api, userID := p.api, p.userID
	p.pending = append(p.pending, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		id, err := api.StartSession(ctx, userID)
		return sessionStartedMsg{attempt: attempt, sessionID: id, err: err}
	})
}

func (p *sessionPort) RequestEnd(sessionID string) {
	api := p.api
	p.pending = append(p.pending, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		duration, err := api.EndSession(ctx, sessionID)
		return sessionEndedMsg{sessionID: sessionID, duration: duration, err: err}
	})
}

func (p *sessionPort) take() []tea.Cmd {
	out := p.pending
	p.pending = nil
	return out
}

// ─── commands ────────────────────────────────────────────────────────────────

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func quitTimeoutCmd() tea.Cmd {
	return tea.Tick(quitGrace, func(time.Time) tea.Msg { return quitTimeoutMsg{} })
}

func fetchSoundCmd(api API, soundType string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		url, err := api.Music(ctx, soundType)
		return soundMsg{soundType: soundType, url: url, err: err}
	}
}

func fetchQuoteCmd(api API) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		quote, err := api.Quote(ctx)
		return quoteMsg{quote: quote, err: err}
	}
}

func bellCmd() tea.Cmd {
	return func() tea.Msg {
		fmt.Fprint(os.Stderr, "\a")
		return nil
	}
}

func logSessionEnded(msg sessionEndedMsg) {
	if msg.err != nil {
		log.Printf("tui: could not end session %s: %v", msg.sessionID, msg.err)
		return
	}
	log.Printf("tui: session %s ended after %ds", msg.sessionID, msg.duration)
}
