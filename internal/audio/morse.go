package audio

import (
	"context"
	"errors"
	"io"
	"math"
	"strings"
	"time"

	"github.com/yegors/qso-trainer/pkg/logger"
)

// ErrStopped is returned when the stop signal interrupts playback before
// the transcript finishes.
var ErrStopped = errors.New("playback stopped")

// morseTable maps characters to their dit/dah sequences. Covers letters,
// digits, and the prosign punctuation that appears in CW exchanges.
var morseTable = map[rune]string{
	'A': ".-", 'B': "-...", 'C': "-.-.", 'D': "-..", 'E': ".", 'F': "..-.",
	'G': "--.", 'H': "....", 'I': "..", 'J': ".---", 'K': "-.-", 'L': ".-..",
	'M': "--", 'N': "-.", 'O': "---", 'P': ".--.", 'Q': "--.-", 'R': ".-.",
	'S': "...", 'T': "-", 'U': "..-", 'V': "...-", 'W': ".--", 'X': "-..-",
	'Y': "-.--", 'Z': "--..",
	'0': "-----", '1': ".----", '2': "..---", '3': "...--", '4': "....-",
	'5': ".....", '6': "-....", '7': "--...", '8': "---..", '9': "----.",
	'.': ".-.-.-", ',': "--..--", ':': "---...", '=': "-...-", '?': "..--..",
	'/': "-..-.",
}

var inverseMorseTable = func() map[string]rune {
	inv := make(map[string]rune, len(morseTable))
	for char, code := range morseTable {
		inv[code] = char
	}
	return inv
}()

// EncodeText converts text to Morse notation: characters become dit/dah
// groups separated by single spaces, word breaks become " / ".
// Characters without a Morse representation are dropped.
func EncodeText(text string) string {
	words := strings.Fields(strings.ToUpper(text))
	encoded := make([]string, 0, len(words))

	for _, word := range words {
		groups := make([]string, 0, len(word))
		for _, char := range word {
			if code, ok := morseTable[char]; ok {
				groups = append(groups, code)
			}
		}
		if len(groups) > 0 {
			encoded = append(encoded, strings.Join(groups, " "))
		}
	}

	return strings.Join(encoded, " / ")
}

// DecodeText converts Morse notation produced by EncodeText back to text.
// Unknown groups are dropped.
func DecodeText(morse string) string {
	var sb strings.Builder
	for _, word := range strings.Split(morse, " / ") {
		start := sb.Len()
		for _, group := range strings.Fields(word) {
			if char, ok := inverseMorseTable[group]; ok {
				sb.WriteRune(char)
			}
		}
		if sb.Len() > start {
			sb.WriteByte(' ')
		}
	}
	return strings.TrimRight(sb.String(), " ")
}

// MorseConfig holds the CW synthesis parameters.
type MorseConfig struct {
	// WPM is the keying speed in words per minute (PARIS standard).
	WPM int
	// ToneFrequency is the sidetone pitch in Hz.
	ToneFrequency float64
	// SampleRate is the PCM sample rate in Hz.
	SampleRate int
}

// DefaultMorseConfig returns a 20 WPM, 600 Hz sidetone at 44.1 kHz.
func DefaultMorseConfig() MorseConfig {
	return MorseConfig{
		WPM:           20,
		ToneFrequency: 600,
		SampleRate:    44100,
	}
}

// MorsePlayer renders transcripts as CW sidetone. PCM frames go to the
// sink (a stream broadcaster, usually); playback is paced in real time
// so session timing matches what a listener hears. A nil sink plays
// silently but keeps the pacing, which the tests rely on.
type MorsePlayer struct {
	cfg    MorseConfig
	sink   io.Writer
	unit   time.Duration
	logger *logger.Logger

	ditSamples []byte
	dahSamples []byte
}

// NewMorsePlayer creates a Morse player. Zero config fields fall back to
// the defaults.
func NewMorsePlayer(cfg MorseConfig, sink io.Writer, log *logger.Logger) *MorsePlayer {
	def := DefaultMorseConfig()
	if cfg.WPM <= 0 {
		cfg.WPM = def.WPM
	}
	if cfg.ToneFrequency <= 0 {
		cfg.ToneFrequency = def.ToneFrequency
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = def.SampleRate
	}

	// PARIS standard: one dit unit is 1.2s / WPM.
	unit := time.Duration(float64(time.Second) * 1.2 / float64(cfg.WPM))

	p := &MorsePlayer{
		cfg:    cfg,
		sink:   sink,
		unit:   unit,
		logger: log.Named("morse-player"),
	}
	p.ditSamples = p.synthesizeTone(unit)
	p.dahSamples = p.synthesizeTone(3 * unit)
	return p
}

// PlayText keys the transcript in real time. It checks the context, the
// stop signal, and the pause signal between symbols; pausing holds the
// current position until Resume or Stop.
func (p *MorsePlayer) PlayText(ctx context.Context, text string, sig *Signals) error {
	p.logger.Debug("Starting Morse playback",
		logger.Int("wpm", p.cfg.WPM),
		logger.Int("text_length", len(text)))

	for _, word := range strings.Fields(strings.ToUpper(text)) {
		for i, char := range word {
			code, ok := morseTable[char]
			if !ok {
				continue
			}
			if i > 0 {
				// Inter-character gap is 3 units; one unit already
				// follows each symbol.
				if err := p.wait(ctx, sig, 2*p.unit); err != nil {
					return err
				}
			}
			for j, symbol := range code {
				if j > 0 {
					if err := p.wait(ctx, sig, p.unit); err != nil {
						return err
					}
				}
				if err := p.keySymbol(ctx, sig, symbol); err != nil {
					return err
				}
			}
		}
		// Inter-word gap is 7 units.
		if err := p.wait(ctx, sig, 7*p.unit); err != nil {
			return err
		}
	}

	p.logger.Debug("Morse playback complete")
	return nil
}

func (p *MorsePlayer) keySymbol(ctx context.Context, sig *Signals, symbol rune) error {
	if err := p.checkSignals(ctx, sig); err != nil {
		return err
	}

	samples := p.ditSamples
	duration := p.unit
	if symbol == '-' {
		samples = p.dahSamples
		duration = 3 * p.unit
	}

	if p.sink != nil {
		if _, err := p.sink.Write(samples); err != nil {
			return err
		}
	}
	return sleepCtx(ctx, duration)
}

// wait sleeps for the given gap, blocking further while paused.
func (p *MorsePlayer) wait(ctx context.Context, sig *Signals, gap time.Duration) error {
	if err := p.checkSignals(ctx, sig); err != nil {
		return err
	}
	return sleepCtx(ctx, gap)
}

// checkSignals returns an error if playback must end, and otherwise
// blocks while the pause signal is held.
func (p *MorsePlayer) checkSignals(ctx context.Context, sig *Signals) error {
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

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Synthesize renders the whole transcript as raw 16-bit mono PCM, gaps
// included, without real-time pacing. Used by the WAV stream endpoint.
func (p *MorsePlayer) Synthesize(text string) []byte {
	var buf []byte
	for _, word := range strings.Fields(strings.ToUpper(text)) {
		for i, char := range word {
			code, ok := morseTable[char]
			if !ok {
				continue
			}
			if i > 0 {
				buf = append(buf, p.silence(2*p.unit)...)
			}
			for j, symbol := range code {
				if j > 0 {
					buf = append(buf, p.silence(p.unit)...)
				}
				if symbol == '-' {
					buf = append(buf, p.dahSamples...)
				} else {
					buf = append(buf, p.ditSamples...)
				}
			}
			buf = append(buf, p.silence(p.unit)...)
		}
		buf = append(buf, p.silence(6*p.unit)...)
	}
	return buf
}

// Duration reports how long the transcript takes to key at the
// configured speed.
func (p *MorsePlayer) Duration(text string) time.Duration {
	units := 0
	for _, word := range strings.Fields(strings.ToUpper(text)) {
		for i, char := range word {
			code, ok := morseTable[char]
			if !ok {
				continue
			}
			if i > 0 {
				units += 2
			}
			for j, symbol := range code {
				if j > 0 {
					units++
				}
				if symbol == '-' {
					units += 3
				} else {
					units++
				}
			}
		}
		units += 7
	}
	return time.Duration(units) * p.unit
}

// SampleRate returns the player's configured PCM sample rate.
func (p *MorsePlayer) SampleRate() int {
	return p.cfg.SampleRate
}

// synthesizeTone renders a sine burst of the given length with a short
// raised-cosine ramp at both ends to avoid key clicks.
func (p *MorsePlayer) synthesizeTone(d time.Duration) []byte {
	n := int(float64(p.cfg.SampleRate) * d.Seconds())
	ramp := p.cfg.SampleRate * 5 / 1000 // 5ms
	if ramp > n/2 {
		ramp = n / 2
	}

	samples := make([]byte, 2*n)
	for i := 0; i < n; i++ {
		v := math.Sin(2 * math.Pi * p.cfg.ToneFrequency * float64(i) / float64(p.cfg.SampleRate))
		switch {
		case i < ramp:
			v *= 0.5 * (1 - math.Cos(math.Pi*float64(i)/float64(ramp)))
		case i >= n-ramp:
			v *= 0.5 * (1 - math.Cos(math.Pi*float64(n-1-i)/float64(ramp)))
		}
		sample := int16(v * 0.8 * math.MaxInt16)
		samples[2*i] = byte(sample)
		samples[2*i+1] = byte(sample >> 8)
	}
	return samples
}

func (p *MorsePlayer) silence(d time.Duration) []byte {
	n := int(float64(p.cfg.SampleRate) * d.Seconds())
	return make([]byte, 2*n)
}
