package practice

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/yegors/qso-trainer/internal/audio"
	"github.com/yegors/qso-trainer/internal/qso"
	"github.com/yegors/qso-trainer/internal/refdata"
	"github.com/yegors/qso-trainer/pkg/logger"
)

// stubPlayer simulates playback: it blocks until released, stopped, or
// a short timeout elapses.
type stubPlayer struct {
	mu      sync.Mutex
	playing int
	active  int
	block   chan struct{}
}

func newStubPlayer() *stubPlayer {
	return &stubPlayer{}
}

// blockNext makes the next PlayText call wait until the channel closes.
func (p *stubPlayer) blockNext() chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.block = make(chan struct{})
	return p.block
}

func (p *stubPlayer) PlayText(ctx context.Context, text string, sig *audio.Signals) error {
	p.mu.Lock()
	p.playing++
	p.active++
	block := p.block
	p.block = nil
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.active--
		p.mu.Unlock()
	}()

	deadline := time.After(5 * time.Second)
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if sig.Stopped() {
			return audio.ErrStopped
		}
		if block == nil && !sig.Paused() {
			return nil
		}
		select {
		case <-block:
			block = nil
		case <-time.After(5 * time.Millisecond):
		case <-deadline:
			return errors.New("stub playback deadline")
		}
	}
}

func (p *stubPlayer) plays() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// inFlight reports how many PlayText calls have not yet returned.
func (p *stubPlayer) inFlight() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

func newTestSession(t *testing.T, count int, player audio.Player) *Session {
	t.Helper()

	generator := qso.NewGenerator(refdata.New(), 42, logger.NewNop())
	session, err := NewSession(Config{
		QSOCount:  count,
		Verbosity: qso.VerbosityMinimal,
	}, generator, player, logger.NewNop())
	if err != nil {
		t.Fatalf("NewSession error: %v", err)
	}
	return session
}

func TestNewSessionValidation(t *testing.T) {
	t.Parallel()

	generator := qso.NewGenerator(refdata.New(), 1, logger.NewNop())

	_, err := NewSession(Config{QSOCount: 0, Verbosity: qso.VerbosityMinimal},
		generator, newStubPlayer(), logger.NewNop())
	var countErr *qso.InvalidCountError
	if !errors.As(err, &countErr) {
		t.Errorf("error type = %T, want *qso.InvalidCountError", err)
	}

	_, err = NewSession(Config{QSOCount: 5, Verbosity: qso.Verbosity("loud")},
		generator, newStubPlayer(), logger.NewNop())
	var verbosityErr *qso.InvalidVerbosityError
	if !errors.As(err, &verbosityErr) {
		t.Errorf("error type = %T, want *qso.InvalidVerbosityError", err)
	}
}

func TestStartSession(t *testing.T) {
	t.Parallel()

	session := newTestSession(t, 3, newStubPlayer())

	if err := session.StartSession(); err != nil {
		t.Fatalf("StartSession error: %v", err)
	}
	if session.State() != StateReady {
		t.Errorf("state = %q, want %q", session.State(), StateReady)
	}
	if session.CurrentQSO() == nil {
		t.Error("CurrentQSO is nil after start")
	}

	progress := session.Progress()
	if progress.Current != 1 || progress.Total != 3 {
		t.Errorf("progress = %+v, want current 1 total 3", progress)
	}
}

func TestPlayThroughToComplete(t *testing.T) {
	t.Parallel()

	player := newStubPlayer()
	session := newTestSession(t, 2, player)

	if err := session.StartSession(); err != nil {
		t.Fatalf("StartSession error: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := session.PlayCurrentQSO(); err != nil {
			t.Fatalf("PlayCurrentQSO error: %v", err)
		}
		if !session.WaitForPlaybackComplete(2 * time.Second) {
			t.Fatal("playback did not complete")
		}
		if session.State() != StateTranscribing {
			t.Fatalf("state = %q, want %q", session.State(), StateTranscribing)
		}
		if err := session.NextQSO(); err != nil {
			t.Fatalf("NextQSO error: %v", err)
		}
	}

	if session.State() != StateComplete {
		t.Errorf("state = %q, want %q", session.State(), StateComplete)
	}
	if session.CurrentQSO() != nil {
		t.Error("CurrentQSO not cleared on completion")
	}
	if player.plays() != 2 {
		t.Errorf("plays = %d, want 2", player.plays())
	}

	progress := session.Progress()
	if progress.Completed != 2 || progress.Played != 2 {
		t.Errorf("progress = %+v, want completed 2 played 2", progress)
	}
}

func TestSkipDrivesSessionToComplete(t *testing.T) {
	t.Parallel()

	session := newTestSession(t, 3, newStubPlayer())

	if err := session.StartSession(); err != nil {
		t.Fatalf("StartSession error: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := session.SkipCurrentQSO(); err != nil {
			t.Fatalf("SkipCurrentQSO %d error: %v", i, err)
		}
	}

	if session.State() != StateComplete {
		t.Errorf("state = %q, want %q", session.State(), StateComplete)
	}
	if session.CurrentQSO() != nil {
		t.Error("CurrentQSO not nil after skipping all QSOs")
	}
	if completed := session.Progress().Completed; completed != 0 {
		t.Errorf("completed = %d, want 0 (skips do not count)", completed)
	}
}

func TestNextQSOInvalidState(t *testing.T) {
	t.Parallel()

	session := newTestSession(t, 3, newStubPlayer())
	if err := session.StartSession(); err != nil {
		t.Fatalf("StartSession error: %v", err)
	}

	err := session.NextQSO()
	var stateErr *InvalidStateError
	if !errors.As(err, &stateErr) {
		t.Fatalf("NextQSO error type = %T, want *InvalidStateError", err)
	}
	if stateErr.State != StateReady {
		t.Errorf("error state = %q, want %q", stateErr.State, StateReady)
	}
	// The failed call must not change state.
	if session.State() != StateReady {
		t.Errorf("state = %q, want %q", session.State(), StateReady)
	}
}

func TestPauseResumeStop(t *testing.T) {
	t.Parallel()

	player := newStubPlayer()
	session := newTestSession(t, 1, player)
	if err := session.StartSession(); err != nil {
		t.Fatalf("StartSession error: %v", err)
	}

	release := player.blockNext()
	if err := session.PlayCurrentQSO(); err != nil {
		t.Fatalf("PlayCurrentQSO error: %v", err)
	}
	if session.State() != StatePlaying {
		t.Fatalf("state = %q, want %q", session.State(), StatePlaying)
	}

	if err := session.PausePlayback(); err != nil {
		t.Fatalf("PausePlayback error: %v", err)
	}
	if session.State() != StatePaused {
		t.Fatalf("state = %q, want %q", session.State(), StatePaused)
	}

	// Pausing twice is a state error.
	if err := session.PausePlayback(); err == nil {
		t.Error("second PausePlayback returned no error")
	}

	if err := session.ResumePlayback(); err != nil {
		t.Fatalf("ResumePlayback error: %v", err)
	}
	if session.State() != StatePlaying {
		t.Fatalf("state = %q, want %q", session.State(), StatePlaying)
	}

	// Stop while the player is still blocked; it polls the stop signal.
	if err := session.StopPlayback(); err != nil {
		t.Fatalf("StopPlayback error: %v", err)
	}
	if !session.WaitForPlaybackComplete(2 * time.Second) {
		t.Fatal("playback goroutine did not exit after stop")
	}
	close(release)

	if session.State() != StateStopped {
		t.Errorf("state = %q, want %q", session.State(), StateStopped)
	}
	// Stop must not count the QSO as played.
	if played := session.Progress().Played; played != 0 {
		t.Errorf("played = %d, want 0", played)
	}
}

func TestPlayFromPausedRestartsPlayback(t *testing.T) {
	t.Parallel()

	player := newStubPlayer()
	session := newTestSession(t, 1, player)
	if err := session.StartSession(); err != nil {
		t.Fatalf("StartSession error: %v", err)
	}

	release := player.blockNext()
	if err := session.PlayCurrentQSO(); err != nil {
		t.Fatalf("PlayCurrentQSO error: %v", err)
	}
	if err := session.PausePlayback(); err != nil {
		t.Fatalf("PausePlayback error: %v", err)
	}

	// Restarting from paused must stop the old playback task before the
	// new one begins; the old task must not stay parked on its signals.
	if err := session.PlayCurrentQSO(); err != nil {
		t.Fatalf("PlayCurrentQSO from paused error: %v", err)
	}
	close(release)

	if !session.WaitForPlaybackComplete(2 * time.Second) {
		t.Fatal("restarted playback did not complete")
	}
	if session.State() != StateTranscribing {
		t.Errorf("state = %q, want %q", session.State(), StateTranscribing)
	}
	if got := player.inFlight(); got != 0 {
		t.Errorf("playback calls still running = %d, want 0", got)
	}
	if player.plays() != 2 {
		t.Errorf("plays = %d, want 2", player.plays())
	}
	// Only the run that completed naturally counts as played.
	if played := session.Progress().Played; played != 1 {
		t.Errorf("played = %d, want 1", played)
	}
}

func TestSkipBeforeStart(t *testing.T) {
	t.Parallel()

	session := newTestSession(t, 3, newStubPlayer())

	err := session.SkipCurrentQSO()
	var stateErr *InvalidStateError
	if !errors.As(err, &stateErr) {
		t.Fatalf("SkipCurrentQSO error type = %T, want *InvalidStateError", err)
	}
	if session.State() != StateReady {
		t.Errorf("state = %q, want %q", session.State(), StateReady)
	}
	if got := session.Progress().Current; got != 1 {
		t.Errorf("progress current = %d, want 1", got)
	}
}

func TestReplayCurrentQSO(t *testing.T) {
	t.Parallel()

	session := newTestSession(t, 1, newStubPlayer())
	if err := session.StartSession(); err != nil {
		t.Fatalf("StartSession error: %v", err)
	}

	if err := session.ReplayCurrentQSO(); err == nil {
		t.Fatal("ReplayCurrentQSO from ready returned no error")
	}

	if err := session.PlayCurrentQSO(); err != nil {
		t.Fatalf("PlayCurrentQSO error: %v", err)
	}
	if !session.WaitForPlaybackComplete(2 * time.Second) {
		t.Fatal("playback did not complete")
	}

	if err := session.ReplayCurrentQSO(); err != nil {
		t.Fatalf("ReplayCurrentQSO error: %v", err)
	}
	if !session.WaitForPlaybackComplete(2 * time.Second) {
		t.Fatal("replay did not complete")
	}
	if played := session.Progress().Played; played != 2 {
		t.Errorf("played = %d, want 2", played)
	}
}

func TestResetSession(t *testing.T) {
	t.Parallel()

	player := newStubPlayer()
	session := newTestSession(t, 2, player)
	if err := session.StartSession(); err != nil {
		t.Fatalf("StartSession error: %v", err)
	}
	if err := session.PlayCurrentQSO(); err != nil {
		t.Fatalf("PlayCurrentQSO error: %v", err)
	}

	session.ResetSession()

	if session.State() != StateReady {
		t.Errorf("state = %q, want %q", session.State(), StateReady)
	}
	if session.CurrentQSO() != nil {
		t.Error("CurrentQSO survived reset")
	}
	if session.IsPlaybackActive() {
		t.Error("playback still active after reset")
	}

	progress := session.Progress()
	if progress.Completed != 0 || progress.Played != 0 {
		t.Errorf("progress = %+v, want zeroed counters", progress)
	}

	// A reset session can start again.
	if err := session.StartSession(); err != nil {
		t.Errorf("StartSession after reset error: %v", err)
	}
}

func TestCallbacks(t *testing.T) {
	t.Parallel()

	session := newTestSession(t, 1, newStubPlayer())

	var mu sync.Mutex
	var states []State
	playbackDone := make(chan struct{}, 1)

	session.OnStateChange(func(state State) {
		mu.Lock()
		states = append(states, state)
		mu.Unlock()
	})
	session.OnPlaybackComplete(func() {
		playbackDone <- struct{}{}
	})

	if err := session.StartSession(); err != nil {
		t.Fatalf("StartSession error: %v", err)
	}
	if err := session.PlayCurrentQSO(); err != nil {
		t.Fatalf("PlayCurrentQSO error: %v", err)
	}

	select {
	case <-playbackDone:
	case <-time.After(2 * time.Second):
		t.Fatal("playback-complete callback never fired")
	}

	mu.Lock()
	defer mu.Unlock()
	want := []State{StateReady, StatePlaying, StateTranscribing}
	if len(states) != len(want) {
		t.Fatalf("states = %v, want %v", states, want)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Fatalf("states = %v, want %v", states, want)
		}
	}
}
