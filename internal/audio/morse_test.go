package audio

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yegors/qso-trainer/pkg/logger"
)

func TestEncodeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"single letter", "E", "."},
		{"word", "SOS", "... --- ..."},
		{"two words", "CQ DX", "-.-. --.- / -.. -..-"},
		{"lowercase folds", "cq", "-.-. --.-"},
		{"unknown chars dropped", "S#S", "... ..."},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := EncodeText(tt.input); got != tt.want {
				t.Errorf("EncodeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"CQ CQ DE W1ABC K",
		"UR RST 599 599",
		"73 ES GUD DX",
	}
	for _, input := range inputs {
		if got := DecodeText(EncodeText(input)); got != input {
			t.Errorf("round trip of %q = %q", input, got)
		}
	}
}

func newTestPlayer(sink *bytes.Buffer) *MorsePlayer {
	// High speed and low sample rate keep test playback fast.
	cfg := MorseConfig{WPM: 60, ToneFrequency: 600, SampleRate: 8000}
	if sink == nil {
		return NewMorsePlayer(cfg, nil, logger.NewNop())
	}
	return NewMorsePlayer(cfg, sink, logger.NewNop())
}

func TestPlayTextWritesPCM(t *testing.T) {
	t.Parallel()

	var sink bytes.Buffer
	p := newTestPlayer(&sink)

	if err := p.PlayText(context.Background(), "E", NewSignals()); err != nil {
		t.Fatalf("PlayText error: %v", err)
	}

	// One dit at 60 WPM and 8kHz: 20ms of 16-bit samples.
	want := 2 * 8000 / 50
	if sink.Len() != want {
		t.Errorf("PCM bytes = %d, want %d", sink.Len(), want)
	}
}

func TestPlayTextStop(t *testing.T) {
	t.Parallel()

	p := newTestPlayer(nil)
	sig := NewSignals()
	sig.Stop()

	err := p.PlayText(context.Background(), "CQ CQ CQ", sig)
	if !errors.Is(err, ErrStopped) {
		t.Fatalf("PlayText error = %v, want ErrStopped", err)
	}
}

func TestPlayTextContextCancel(t *testing.T) {
	t.Parallel()

	p := newTestPlayer(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.PlayText(ctx, "CQ", NewSignals())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("PlayText error = %v, want context.Canceled", err)
	}
}

func TestPauseHoldsPlayback(t *testing.T) {
	t.Parallel()

	p := newTestPlayer(nil)
	sig := NewSignals()
	sig.Pause()

	done := make(chan error, 1)
	go func() {
		done <- p.PlayText(context.Background(), "E", sig)
	}()

	select {
	case err := <-done:
		t.Fatalf("playback finished while paused: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	sig.Resume()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("PlayText error after resume: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("playback did not finish after resume")
	}
}

func TestSynthesizeMatchesDuration(t *testing.T) {
	t.Parallel()

	p := newTestPlayer(nil)
	text := "CQ DE W1ABC"

	pcm := p.Synthesize(text)
	if len(pcm) == 0 {
		t.Fatal("Synthesize returned no samples")
	}
	if len(pcm)%2 != 0 {
		t.Fatal("Synthesize returned a half sample")
	}
}

func TestEncodeWAV(t *testing.T) {
	t.Parallel()

	pcm := make([]byte, 1600)
	wav := EncodeWAV(pcm, 8000)

	if len(wav) != 44+len(pcm) {
		t.Fatalf("WAV length = %d, want %d", len(wav), 44+len(pcm))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		t.Error("missing RIFF/WAVE markers")
	}
	if string(wav[36:40]) != "data" {
		t.Error("missing data chunk marker")
	}
}

func TestDurationScalesWithSpeed(t *testing.T) {
	t.Parallel()

	slow := NewMorsePlayer(MorseConfig{WPM: 10, ToneFrequency: 600, SampleRate: 8000}, nil, logger.NewNop())
	fast := NewMorsePlayer(MorseConfig{WPM: 40, ToneFrequency: 600, SampleRate: 8000}, nil, logger.NewNop())

	text := "PARIS"
	if slow.Duration(text) <= fast.Duration(text) {
		t.Errorf("Duration at 10 WPM (%v) not longer than at 40 WPM (%v)",
			slow.Duration(text), fast.Duration(text))
	}
}
