// Package audio renders QSO transcripts as sound. The Morse player
// synthesizes CW sidetone as 16-bit PCM and paces playback in real time;
// the speech player delegates synthesis to a text-to-speech provider.
// Both honor the shared stop/pause signals so a practice session can
// interrupt playback from another goroutine.
package audio

import (
	"context"
	"sync/atomic"
)

// Player plays a transcript to completion. Implementations return nil on
// natural completion, ErrStopped when the stop signal fires mid-playback,
// and the context error when ctx is done.
type Player interface {
	PlayText(ctx context.Context, text string, sig *Signals) error
}

// Signals carries the stop and pause flags for one playback run. A fresh
// Signals is created per run; its methods are safe for concurrent use.
type Signals struct {
	stop  atomic.Bool
	pause atomic.Bool
}

// NewSignals returns a cleared signal set.
func NewSignals() *Signals {
	return &Signals{}
}

// Stop requests that playback end as soon as possible.
func (s *Signals) Stop() {
	s.stop.Store(true)
}

// Stopped reports whether a stop has been requested.
func (s *Signals) Stopped() bool {
	return s.stop.Load()
}

// Pause requests that playback hold at the next symbol boundary.
func (s *Signals) Pause() {
	s.pause.Store(true)
}

// Resume clears a pending pause.
func (s *Signals) Resume() {
	s.pause.Store(false)
}

// Paused reports whether playback should currently hold.
func (s *Signals) Paused() bool {
	return s.pause.Load()
}
