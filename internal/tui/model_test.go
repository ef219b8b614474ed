package tui

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"focus-starter/internal/models"
	"focus-starter/internal/timer"
)

type fakeAPI struct {
	starts  int
	ends    []string
	sounds  []string
	quotes  int
	nextID  int
	failAll bool
}

func (f *fakeAPI) StartSession(ctx context.Context, userID string) (string, error) {
	f.starts++
	if f.failAll {
		return "", fmt.Errorf("connection refused")
	}
	f.nextID++
	return fmt.Sprintf("s%d", f.nextID), nil
}

func (f *fakeAPI) EndSession(ctx context.Context, sessionID string) (int, error) {
	f.ends = append(f.ends, sessionID)
	return 60, nil
}

func (f *fakeAPI) Music(ctx context.Context, soundType string) (string, error) {
	f.sounds = append(f.sounds, soundType)
	return "https://cdn/" + soundType + ".mp3", nil
}

func (f *fakeAPI) Quote(ctx context.Context) (*models.Quote, error) {
	f.quotes++
	return &models.Quote{Text: "Focus.", Author: "Anon"}, nil
}

func press(m Model, k string) (Model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	return next.(Model), cmd
}

// collect runs cmd and any batched commands, returning the produced messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	// tea.Sequence wraps its commands in an unexported []tea.Cmd type.
	if v := reflect.ValueOf(msg); v.Kind() == reflect.Slice && v.Type().Elem() == reflect.TypeOf(tea.Cmd(nil)) {
		var out []tea.Msg
		for i := 0; i < v.Len(); i++ {
			c, _ := v.Index(i).Interface().(tea.Cmd)
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// deliver feeds the messages of cmd back into the model, following any
// commands the model returns in turn.
func deliver(m Model, cmd tea.Cmd) Model {
	queue := collect(cmd)
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]
		next, follow := m.Update(msg)
		m = next.(Model)
		queue = append(queue, collect(follow)...)
	}
	return m
}

func newTestModel(api *fakeAPI) Model {
	return New(api, Options{UserID: "user_1", FocusDuration: 3 * time.Second, BreakDuration: 2 * time.Second, SoundType: "rain"})
}

func TestStart_OpensSessionAndFetchesAmbient(t *testing.T) {
	api := &fakeAPI{}
	m := newTestModel(api)

	m, cmd := press(m, "s")
	m = deliver(m, cmd)

	if api.starts != 1 || m.timer.SessionID() != "s1" {
		t.Fatalf("expected session s1, starts=%d id=%q", api.starts, m.timer.SessionID())
	}
	if api.quotes != 1 || len(api.sounds) != 1 || api.sounds[0] != "rain" {
		t.Fatalf("expected quote and music lookups, quotes=%d sounds=%v", api.quotes, api.sounds)
	}

	status := m.ambient.Status()
	if !status.MusicOn || status.Quote == nil || !status.DoNotDisturb {
		t.Fatalf("unexpected ambient status %+v", status)
	}
	if !strings.Contains(m.View(), "“Focus.”") {
		t.Fatal("expected quote in view")
	}
}

func TestReset_EndsSession(t *testing.T) {
	api := &fakeAPI{}
	m := newTestModel(api)

	m, cmd := press(m, "s")
	m = deliver(m, cmd)
	m, cmd = press(m, "r")
	deliver(m, cmd)

	if len(api.ends) != 1 || api.ends[0] != "s1" {
		t.Fatalf("expected s1 to be ended, got %v", api.ends)
	}
}

func TestStaleStartIsClosed(t *testing.T) {
	api := &fakeAPI{}
	m := newTestModel(api)

	m, startCmd := press(m, "s")
	m, resetCmd := press(m, "r")
	deliver(m, resetCmd)
	m = deliver(m, startCmd)

	if m.timer.SessionID() != "" {
		t.Fatalf("stale session adopted: %q", m.timer.SessionID())
	}
	if len(api.ends) != 1 || api.ends[0] != "s1" {
		t.Fatalf("expected stale s1 to be closed, got %v", api.ends)
	}
}

func TestTicksExpireFocus(t *testing.T) {
	api := &fakeAPI{}
	m := newTestModel(api)

	m, cmd := press(m, "s")
	m = deliver(m, cmd)

	// Same path as a tickMsg, without waiting on the real ticker.
	for i := 0; i < 3; i++ {
		m.timer.Tick()
		m = deliver(m, tea.Batch(m.drain()...))
	}

	snap := m.timer.Snapshot()
	if snap.Phase != timer.PhaseBreak || snap.Running {
		t.Fatalf("expected paused break, got %+v", snap)
	}
	if len(api.ends) != 1 {
		t.Fatalf("expected the session to be ended on expiry, got %v", api.ends)
	}
	if !strings.Contains(m.View(), "Focus session complete!") {
		t.Fatal("expected completion notification in view")
	}
}

func TestStartFailureKeepsCounting(t *testing.T) {
	api := &fakeAPI{failAll: true}
	m := newTestModel(api)

	m, cmd := press(m, "s")
	m = deliver(m, cmd)

	if !m.timer.Running() || m.timer.SessionID() != "" {
		t.Fatalf("expected running timer without session, got %+v", m.timer.Snapshot())
	}
}

func TestPresetsAndReward(t *testing.T) {
	api := &fakeAPI{}
	m := newTestModel(api)

	m, _ = press(m, "3")
	if m.timer.Phase() != timer.PhaseBreak {
		t.Fatalf("preset 3 should load a break, got %s", m.timer.Phase())
	}
	m, _ = press(m, "2")
	if m.timer.Phase() != timer.PhaseFocus || m.timer.Remaining() != 50*time.Minute {
		t.Fatalf("preset 2 should load 50m focus, got %+v", m.timer.Snapshot())
	}

	m, _ = press(m, "u")
	if !m.ambient.Status().Premium {
		t.Fatal("expected premium unlocked")
	}
}

func TestQuitEndsOpenSession(t *testing.T) {
	api := &fakeAPI{}
	m := newTestModel(api)

	m, cmd := press(m, "s")
	m = deliver(m, cmd)
	m, cmd = press(m, "q")

	if !m.quitting {
		t.Fatal("expected quitting state")
	}
	if m.timer.SessionID() != "" {
		t.Fatal("quit must close the open session")
	}

	msgs := collect(cmd)
	if len(api.ends) != 1 || api.ends[0] != "s1" {
		t.Fatalf("expected s1 ended before exit, got %v", api.ends)
	}
	if !hasQuit(msgs) {
		t.Fatalf("expected quit after the end request, got %v", msgs)
	}
}

func TestQuitWaitsForPendingStart(t *testing.T) {
	api := &fakeAPI{}
	m := newTestModel(api)

	m, cmd := press(m, "s")
	var started tea.Msg
	for _, msg := range collect(cmd) {
		if _, ok := msg.(sessionStartedMsg); ok {
			started = msg
		}
	}
	if started == nil {
		t.Fatal("expected a session start request")
	}

	// Quit before the start answer arrives. The returned command only
	// carries the grace timer, so it is not run here.
	m, _ = press(m, "q")
	if !m.awaitingStart {
		t.Fatal("expected quit to wait for the pending start")
	}
	if !strings.Contains(m.View(), "Closing session") {
		t.Fatalf("unexpected view while closing: %q", m.View())
	}

	next, follow := m.Update(started)
	m = next.(Model)
	msgs := collect(follow)

	if m.awaitingStart {
		t.Fatal("expected wait to end once the start answered")
	}
	if len(api.ends) != 1 || api.ends[0] != "s1" {
		t.Fatalf("expected late session s1 to be closed, got %v", api.ends)
	}
	if !hasQuit(msgs) {
		t.Fatalf("expected quit after closing s1, got %v", msgs)
	}
}

func TestQuitGraceExpires(t *testing.T) {
	api := &fakeAPI{}
	m := newTestModel(api)

	m, _ = press(m, "s")
	m, _ = press(m, "q")
	if !m.awaitingStart {
		t.Fatal("expected quit to wait for the pending start")
	}

	next, cmd := m.Update(quitTimeoutMsg{})
	m = next.(Model)
	if m.awaitingStart || !hasQuit(collect(cmd)) {
		t.Fatal("expected quit once the grace period ran out")
	}
}

func TestSecondQuitForcesExit(t *testing.T) {
	m := newTestModel(&fakeAPI{})

	m, _ = press(m, "s")
	m, _ = press(m, "q")
	_, cmd := press(m, "q")
	if !hasQuit(collect(cmd)) {
		t.Fatal("expected a second quit to exit immediately")
	}
}

func hasQuit(msgs []tea.Msg) bool {
	for _, msg := range msgs {
		if _, ok := msg.(tea.QuitMsg); ok {
			return true
		}
	}
	return false
}

func TestRenderStats(t *testing.T) {
	out := RenderStats([]models.DailyTotal{
		{Date: "2026-03-09", TotalDurationSeconds: 600},
		{Date: "2026-03-10", TotalDurationSeconds: 1500},
	})
	if !strings.Contains(out, "2026-03-10") || !strings.Contains(out, "25.0") || !strings.Contains(out, "10.0") {
		t.Fatalf("unexpected chart:\n%s", out)
	}

	if !strings.Contains(RenderStats(nil), "No focus sessions") {
		t.Fatal("expected empty-state message")
	}
}

func TestFormatClock(t *testing.T) {
	if got := formatClock(1500 * time.Second); got != "25:00" {
		t.Fatalf("got %q", got)
	}
	if got := formatClock(65 * time.Second); got != "01:05" {
		t.Fatalf("got %q", got)
	}
}
