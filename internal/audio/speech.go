package audio

import (
	"context"
	"fmt"
	"io"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/yegors/qso-trainer/pkg/logger"
)

// SpeechConfig holds the text-to-speech provider settings.
type SpeechConfig struct {
	APIKey string
	Model  string
	Voice  string
}

// SpeechPlayer renders transcripts as spoken audio through the OpenAI
// speech API. It is the voiced alternative to the Morse player for
// learners working on phone-style exchanges.
type SpeechPlayer struct {
	client oai.Client
	model  string
	voice  string
	sink   io.Writer
	logger *logger.Logger
}

// NewSpeechPlayer creates a speech player writing synthesized audio to
// the sink.
func NewSpeechPlayer(cfg SpeechConfig, sink io.Writer, log *logger.Logger) (*SpeechPlayer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("speech playback requires an API key")
	}
	if cfg.Model == "" {
		cfg.Model = string(oai.SpeechModelTTS1)
	}
	if cfg.Voice == "" {
		cfg.Voice = string(oai.AudioSpeechNewParamsVoiceAlloy)
	}

	return &SpeechPlayer{
		client: oai.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:  cfg.Model,
		voice:  cfg.Voice,
		sink:   sink,
		logger: log.Named("speech-player"),
	}, nil
}

// PlayText synthesizes the transcript and streams it to the sink in
// chunks, checking the stop and pause signals between chunks.
func (p *SpeechPlayer) PlayText(ctx context.Context, text string, sig *Signals) error {
	p.logger.Debug("Starting speech playback", logger.Int("text_length", len(text)))

	resp, err := p.client.Audio.Speech.New(ctx, oai.AudioSpeechNewParams{
		Model:          oai.SpeechModel(p.model),
		Input:          text,
		Voice:          oai.AudioSpeechNewParamsVoice(p.voice),
		ResponseFormat: oai.AudioSpeechNewParamsResponseFormatWAV,
	})
	if err != nil {
		return fmt.Errorf("failed to synthesize speech: %w", err)
	}
	defer resp.Body.Close()

	buf := make([]byte, 8192)
	for {
		if err := p.checkSignals(ctx, sig); err != nil {
			return err
		}

		n, err := resp.Body.Read(buf)
		if n > 0 && p.sink != nil {
			if _, werr := p.sink.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read synthesized audio: %w", err)
		}
	}

	p.logger.Debug("Speech playback complete")
	return nil
}

func (p *SpeechPlayer) checkSignals(ctx context.Context, sig *Signals) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if sig != nil && sig.Stopped() {
			return ErrStopped
		}
		if sig == nil || !sig.Paused() {
			return nil
		}
		if err := sleepCtx(ctx, 50*time.Millisecond); err != nil {
			return err
		}
	}
}
