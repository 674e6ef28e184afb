// Package practice drives a learner through a sequence of generated
// QSOs: play one over the audio collaborator, let the learner copy it,
// advance, repeat. The session is a small state machine; all mutation
// happens under one mutex except the playback stop/pause flags, which
// are shared with the background playback goroutine.
package practice

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/yegors/qso-trainer/internal/audio"
	"github.com/yegors/qso-trainer/internal/qso"
	"github.com/yegors/qso-trainer/pkg/logger"
)

// State names the session's position in its lifecycle.
type State string

const (
	StateReady        State = "ready"
	StatePlaying      State = "playing"
	StateTranscribing State = "transcribing"
	StatePaused       State = "paused"
	StateStopped      State = "stopped"
	StateComplete     State = "complete"
)

// InvalidStateError reports a lifecycle call made from a state that does
// not permit it. The state machine is left unchanged.
type InvalidStateError struct {
	Op    string
	State State
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s from state %q", e.Op, e.State)
}

// Progress reports where the learner is in the session.
type Progress struct {
	Current   int `json:"current"`
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Played    int `json:"played"`
}

// Config holds the session parameters validated at construction.
type Config struct {
	// QSOCount is the number of exchanges per session, within [1, 100].
	QSOCount int
	// Verbosity selects the exchange tier for every QSO in the session.
	Verbosity qso.Verbosity
	// Region1 and Region2 constrain the two stations' call sign regions.
	// Empty selects a weighted random region per station.
	Region1 string
	Region2 string
}

// Session sequences QSO playback and transcription. All lifecycle
// methods are safe for concurrent use, but callbacks fire on whichever
// goroutine completes the transition and must not block or re-enter the
// session synchronously.
type Session struct {
	mu sync.Mutex

	cfg       Config
	generator *qso.Generator
	player    audio.Player
	logger    *logger.Logger

	state     State
	records   []*qso.Record
	index     int
	completed int
	played    int

	sig          *audio.Signals
	playbackDone chan struct{}

	onStateChange      func(State)
	onProgress         func(current, total int)
	onPlaybackComplete func()
}

// resetWait bounds how long ResetSession blocks for an active playback
// goroutine to observe the stop signal.
const resetWait = 2 * time.Second

// NewSession creates a session in the ready state with no QSOs loaded;
// call StartSession to generate the exchange list.
func NewSession(cfg Config, generator *qso.Generator, player audio.Player, log *logger.Logger) (*Session, error) {
	if cfg.QSOCount < qso.MinBatchCount || cfg.QSOCount > qso.MaxBatchCount {
		return nil, &qso.InvalidCountError{Count: cfg.QSOCount}
	}
	if !cfg.Verbosity.Valid() {
		return nil, &qso.InvalidVerbosityError{Verbosity: string(cfg.Verbosity)}
	}
	if player == nil {
		return nil, errors.New("session requires an audio player")
	}

	return &Session{
		cfg:       cfg,
		generator: generator,
		player:    player,
		logger:    log.Named("practice-session"),
		state:     StateReady,
	}, nil
}

// OnStateChange registers the state-change callback. It fires on every
// transition with the new state name.
func (s *Session) OnStateChange(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onStateChange = fn
}

// OnProgress registers the progress callback, invoked with (current
// index + 1, total) on progress-relevant transitions.
func (s *Session) OnProgress(fn func(current, total int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onProgress = fn
}

// OnPlaybackComplete registers the callback fired when playback finishes
// naturally (not via stop).
func (s *Session) OnPlaybackComplete(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onPlaybackComplete = fn
}

// setState transitions and fires the state-change callback. Caller holds
// the lock; the callback runs outside it.
func (s *Session) setState(state State) {
	s.state = state
	fn := s.onStateChange
	if fn != nil {
		s.mu.Unlock()
		fn(state)
		s.mu.Lock()
	}
}

func (s *Session) notifyProgress() {
	fn := s.onProgress
	if fn != nil {
		current, total := s.index+1, s.cfg.QSOCount
		s.mu.Unlock()
		fn(current, total)
		s.mu.Lock()
	}
}

// StartSession generates a fresh QSO list and resets all counters. Valid
// from ready, complete, or stopped.
func (s *Session) StartSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateReady, StateComplete, StateStopped:
	default:
		return &InvalidStateError{Op: "start session", State: s.state}
	}

	records := make([]*qso.Record, 0, s.cfg.QSOCount)
	for i := 0; i < s.cfg.QSOCount; i++ {
		record, err := s.generator.GenerateQSO(s.cfg.Verbosity, s.cfg.Region1, s.cfg.Region2)
		if err != nil {
			return fmt.Errorf("failed to generate session QSOs: %w", err)
		}
		records = append(records, record)
	}

	s.records = records
	s.index = 0
	s.completed = 0
	s.played = 0
	s.sig = nil
	s.playbackDone = nil

	s.logger.Info("Session started",
		logger.Int("qso_count", s.cfg.QSOCount),
		logger.String("verbosity", string(s.cfg.Verbosity)))

	s.setState(StateReady)
	s.notifyProgress()
	return nil
}

// PlayCurrentQSO launches background playback of the current exchange.
// Valid from ready, transcribing, or paused. Exactly one playback
// goroutine runs at a time; the state guard rejects a second call while
// one is playing.
func (s *Session) PlayCurrentQSO() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateReady, StateTranscribing, StatePaused:
	default:
		return &InvalidStateError{Op: "play", State: s.state}
	}
	if len(s.records) == 0 || s.index >= len(s.records) {
		return &InvalidStateError{Op: "play", State: s.state}
	}

	// A paused playback task is still parked on its signals. Stop it and
	// wait for it to unwind before starting the replacement, so only one
	// playback task is ever active. Detaching the done channel first keeps
	// the old task from publishing a stopped transition on its way out.
	if s.sig != nil {
		s.sig.Resume()
		s.sig.Stop()
	}
	if old := s.playbackDone; old != nil {
		s.sig = nil
		s.playbackDone = nil
		s.waitLocked(old, resetWait)
	}

	text := s.records[s.index].FullText
	sig := audio.NewSignals()
	done := make(chan struct{})
	s.sig = sig
	s.playbackDone = done

	s.setState(StatePlaying)

	go s.runPlayback(text, sig, done)
	return nil
}

// runPlayback is the single background task per play call. Playback
// errors never propagate to the caller; they are logged and the session
// transitions to stopped.
func (s *Session) runPlayback(text string, sig *audio.Signals, done chan struct{}) {
	defer close(done)

	err := s.player.PlayText(context.Background(), text, sig)

	s.mu.Lock()
	defer s.mu.Unlock()

	// A reset may have superseded this run while playback unwound.
	if s.playbackDone != done {
		return
	}
	s.sig = nil
	s.playbackDone = nil

	switch {
	case err == nil:
		s.played++
		s.setState(StateTranscribing)
		fn := s.onPlaybackComplete
		if fn != nil {
			s.mu.Unlock()
			fn()
			s.mu.Lock()
		}
	case errors.Is(err, audio.ErrStopped):
		s.setState(StateStopped)
	default:
		s.logger.Error("Playback failed", logger.Error(err))
		s.setState(StateStopped)
	}
}

// ReplayCurrentQSO plays the current exchange again. Valid only from
// transcribing.
func (s *Session) ReplayCurrentQSO() error {
	s.mu.Lock()
	if s.state != StateTranscribing {
		state := s.state
		s.mu.Unlock()
		return &InvalidStateError{Op: "replay", State: state}
	}
	s.mu.Unlock()
	return s.PlayCurrentQSO()
}

// PausePlayback raises the pause signal. Valid only from playing.
func (s *Session) PausePlayback() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePlaying {
		return &InvalidStateError{Op: "pause", State: s.state}
	}
	if s.sig != nil {
		s.sig.Pause()
	}
	s.setState(StatePaused)
	return nil
}

// ResumePlayback clears the pause signal. Valid only from paused.
func (s *Session) ResumePlayback() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePaused {
		return &InvalidStateError{Op: "resume", State: s.state}
	}
	if s.sig != nil {
		s.sig.Resume()
	}
	s.setState(StatePlaying)
	return nil
}

// StopPlayback raises the stop signal. Valid from playing or paused; the
// background task observes the signal and finishes the transition to
// stopped itself, so State may still read playing briefly after this
// returns. WaitForPlaybackComplete bounds that window.
func (s *Session) StopPlayback() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StatePlaying, StatePaused:
	default:
		return &InvalidStateError{Op: "stop", State: s.state}
	}
	if s.sig != nil {
		s.sig.Resume()
		s.sig.Stop()
	}
	return nil
}

// NextQSO advances to the next exchange after transcription, counting
// the current one as completed. Valid only from transcribing; reaching
// the end clears the current QSO and completes the session.
func (s *Session) NextQSO() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateTranscribing {
		return &InvalidStateError{Op: "advance", State: s.state}
	}

	s.completed++
	s.advanceLocked()
	return nil
}

// SkipCurrentQSO advances without counting the current exchange as
// completed. Valid from ready, transcribing, playing, or paused; active
// playback is stopped first.
func (s *Session) SkipCurrentQSO() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateReady, StateTranscribing, StatePlaying, StatePaused:
	default:
		return &InvalidStateError{Op: "skip", State: s.state}
	}
	if len(s.records) == 0 || s.index >= len(s.records) {
		return &InvalidStateError{Op: "skip", State: s.state}
	}

	if s.sig != nil {
		s.sig.Resume()
		s.sig.Stop()
	}
	if done := s.playbackDone; done != nil {
		s.waitLocked(done, resetWait)
		s.sig = nil
		s.playbackDone = nil
	}

	s.advanceLocked()
	return nil
}

// advanceLocked moves the index forward and transitions to ready or
// complete. Caller holds the lock.
func (s *Session) advanceLocked() {
	s.index++
	if s.index >= s.cfg.QSOCount {
		s.records = nil
		s.setState(StateComplete)
		return
	}
	s.setState(StateReady)
	s.notifyProgress()
}

// ResetSession stops playback, waits briefly for the playback goroutine
// to unwind, and restores the session to its pre-start defaults. Valid
// from any state.
func (s *Session) ResetSession() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sig != nil {
		s.sig.Resume()
		s.sig.Stop()
	}
	if done := s.playbackDone; done != nil {
		s.waitLocked(done, resetWait)
	}

	s.records = nil
	s.index = 0
	s.completed = 0
	s.played = 0
	s.sig = nil
	s.playbackDone = nil

	s.logger.Info("Session reset")
	s.setState(StateReady)
}

// waitLocked drops the lock while waiting (bounded) for the playback
// goroutine, so that goroutine can finish its own locked bookkeeping.
func (s *Session) waitLocked(done chan struct{}, timeout time.Duration) {
	s.mu.Unlock()
	select {
	case <-done:
	case <-time.After(timeout):
		s.logger.Warn("Timed out waiting for playback to stop")
	}
	s.mu.Lock()
}

// CurrentQSO returns the exchange the learner is on, or nil once the
// session is complete.
func (s *Session) CurrentQSO() *qso.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.records) == 0 || s.index >= len(s.records) {
		return nil
	}
	return s.records[s.index]
}

// CurrentText returns the current exchange's rendered transcript.
func (s *Session) CurrentText() string {
	if record := s.CurrentQSO(); record != nil {
		return record.FullText
	}
	return ""
}

// CurrentElements returns the current exchange's answer key.
func (s *Session) CurrentElements() (qso.Elements, bool) {
	record := s.CurrentQSO()
	if record == nil {
		return qso.Elements{}, false
	}
	return record.Elements, true
}

// Progress reports the session counters.
func (s *Session) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := s.index + 1
	if current > s.cfg.QSOCount {
		current = s.cfg.QSOCount
	}
	return Progress{
		Current:   current,
		Total:     s.cfg.QSOCount,
		Completed: s.completed,
		Played:    s.played,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsPlaybackActive reports whether a playback goroutine is running.
func (s *Session) IsPlaybackActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playbackDone != nil
}

// WaitForPlaybackComplete blocks until the active playback goroutine
// finishes or the timeout elapses. Returns false on timeout; returns
// true immediately when no playback is active.
func (s *Session) WaitForPlaybackComplete(timeout time.Duration) bool {
	s.mu.Lock()
	done := s.playbackDone
	s.mu.Unlock()

	if done == nil {
		return true
	}
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
