// Package scoring compares learner answers against a QSO's element index
// and maintains running accuracy statistics. The generic matcher gives
// fractional credit for near-misses using an edit-distance similarity
// ratio; call signs and signal reports use stricter rules of their own.
package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/yegors/qso-trainer/internal/qso"
)

// DefaultFuzzyThreshold is the minimum similarity ratio that earns
// partial credit when no explicit threshold is configured.
const DefaultFuzzyThreshold = 0.8

// callsignThresholdFloor is the lowest threshold ever applied to call
// signs. Call signs are critical identifiers, so near-misses rarely earn
// partial credit regardless of the configured threshold.
const callsignThresholdFloor = 0.9

// Label classifies a scored element.
type Label string

const (
	LabelCorrect   Label = "correct"
	LabelPartial   Label = "partial"
	LabelIncorrect Label = "incorrect"
)

// ElementScore holds the outcome for a single answered field.
type ElementScore struct {
	Score   float64 `json:"score"`
	Label   Label   `json:"label"`
	Correct string  `json:"correct"`
	Answer  string  `json:"answer"`
}

// ScoreResult holds the outcome for one submitted QSO. TotalScore never
// exceeds MaxScore; the eight required fields always contribute to
// MaxScore, optional equipment fields only when answered.
type ScoreResult struct {
	TotalScore    float64                 `json:"total_score"`
	MaxScore      int                     `json:"max_score"`
	Percentage    float64                 `json:"percentage"`
	ElementScores map[string]ElementScore `json:"element_scores"`
	Correct       int                     `json:"correct"`
	Partial       int                     `json:"partial"`
	Incorrect     int                     `json:"incorrect"`
}

// TypeStats accumulates per-field-type results for the lifetime of a
// Scorer instance.
type TypeStats struct {
	Total        int     `json:"total"`
	Correct      int     `json:"correct"`
	Partial      int     `json:"partial"`
	Incorrect    int     `json:"incorrect"`
	AverageScore float64 `json:"average_score"`

	scoreSum float64
}

// Statistics reports the overall and per-field-type accuracy recorded
// since construction or the last reset.
type Statistics struct {
	TotalQuestions int                  `json:"total_questions"`
	Correct        int                  `json:"correct"`
	Partial        int                  `json:"partial"`
	Incorrect      int                  `json:"incorrect"`
	Accuracy       float64              `json:"accuracy"`
	ByElement      map[string]TypeStats `json:"by_element"`
}

// Scorer scores individual elements and whole QSOs. It is not safe for
// concurrent use; the API layer serializes access to it.
type Scorer struct {
	fuzzyThreshold float64
	partialCredit  bool
	caseSensitive  bool

	totalQuestions int
	totalCorrect   int
	totalPartial   int
	totalIncorrect int
	elementStats   map[string]*TypeStats
}

// NewScorer creates a scorer. fuzzyThreshold must be within [0, 1].
func NewScorer(fuzzyThreshold float64, partialCredit, caseSensitive bool) (*Scorer, error) {
	if fuzzyThreshold < 0.0 || fuzzyThreshold > 1.0 {
		return nil, fmt.Errorf("fuzzy threshold must be between 0.0 and 1.0, got %v", fuzzyThreshold)
	}

	return &Scorer{
		fuzzyThreshold: fuzzyThreshold,
		partialCredit:  partialCredit,
		caseSensitive:  caseSensitive,
		elementStats:   make(map[string]*TypeStats),
	}, nil
}

// normalize trims the answer, collapses interior whitespace, and folds
// case unless the scorer is case-sensitive.
func (s *Scorer) normalize(text string) string {
	text = strings.TrimSpace(text)
	if !s.caseSensitive {
		text = strings.ToUpper(text)
	}
	return strings.Join(strings.Fields(text), " ")
}

// similarity returns an edit-distance similarity ratio in [0, 1] between
// the two normalized strings.
func (s *Scorer) similarity(answer, correct string) float64 {
	answer = s.normalize(answer)
	correct = s.normalize(correct)
	if answer == "" || correct == "" {
		return 0.0
	}

	maxLen := len(answer)
	if len(correct) > maxLen {
		maxLen = len(correct)
	}
	distance := matchr.Levenshtein(answer, correct)
	return 1.0 - float64(distance)/float64(maxLen)
}

// ScoreElement scores one generic field. Empty answers are incorrect,
// exact normalized matches are correct, and close matches at or above
// the fuzzy threshold earn their similarity ratio as partial credit.
func (s *Scorer) ScoreElement(answer, correct, elementType string) (float64, Label) {
	return s.scoreWithThreshold(answer, correct, elementType, s.fuzzyThreshold)
}

// ScoreCallsign scores a call sign with the threshold raised to at least
// callsignThresholdFloor.
func (s *Scorer) ScoreCallsign(answer, correct string) (float64, Label) {
	threshold := math.Max(callsignThresholdFloor, s.fuzzyThreshold)
	return s.scoreWithThreshold(answer, correct, "callsign", threshold)
}

func (s *Scorer) scoreWithThreshold(answer, correct, elementType string, threshold float64) (float64, Label) {
	answerNorm := s.normalize(answer)
	correctNorm := s.normalize(correct)

	if answerNorm == "" {
		s.record(elementType, 0.0, LabelIncorrect)
		return 0.0, LabelIncorrect
	}
	if answerNorm == correctNorm {
		s.record(elementType, 1.0, LabelCorrect)
		return 1.0, LabelCorrect
	}

	if s.partialCredit {
		if ratio := s.similarity(answer, correct); ratio >= threshold {
			s.record(elementType, ratio, LabelPartial)
			return ratio, LabelPartial
		}
	}

	s.record(elementType, 0.0, LabelIncorrect)
	return 0.0, LabelIncorrect
}

// ScoreRST scores a 3-digit signal report. Exact matches are correct;
// otherwise, when both strings are exactly three characters, at least two
// matching positions earn the matching fraction as partial credit. Any
// length mismatch is incorrect.
func (s *Scorer) ScoreRST(answer, correct string) (float64, Label) {
	answerNorm := s.normalize(answer)
	correctNorm := s.normalize(correct)

	if answerNorm == "" {
		s.record("rst", 0.0, LabelIncorrect)
		return 0.0, LabelIncorrect
	}
	if answerNorm == correctNorm {
		s.record("rst", 1.0, LabelCorrect)
		return 1.0, LabelCorrect
	}

	if s.partialCredit && len(answerNorm) == 3 && len(correctNorm) == 3 {
		matches := 0
		for i := 0; i < 3; i++ {
			if answerNorm[i] == correctNorm[i] {
				matches++
			}
		}
		if matches >= 2 {
			score := float64(matches) / 3.0
			s.record("rst", score, LabelPartial)
			return score, LabelPartial
		}
	}

	s.record("rst", 0.0, LabelIncorrect)
	return 0.0, LabelIncorrect
}

type fieldSpec struct {
	key       string
	values    func(qso.Elements) []string
	index     int
	scoreFunc func(*Scorer, string, string) (float64, Label)
}

var requiredFields = []fieldSpec{
	{"callsign1", func(e qso.Elements) []string { return e.Callsigns }, 0, scoreCallsignField},
	{"callsign2", func(e qso.Elements) []string { return e.Callsigns }, 1, scoreCallsignField},
	{"name1", func(e qso.Elements) []string { return e.Names }, 0, genericField("name")},
	{"name2", func(e qso.Elements) []string { return e.Names }, 1, genericField("name")},
	{"qth1", func(e qso.Elements) []string { return e.QTHs }, 0, genericField("qth")},
	{"qth2", func(e qso.Elements) []string { return e.QTHs }, 1, genericField("qth")},
	{"rst1", func(e qso.Elements) []string { return e.RSTs }, 0, scoreRSTField},
	{"rst2", func(e qso.Elements) []string { return e.RSTs }, 1, scoreRSTField},
}

var optionalFields = []fieldSpec{
	{"rig1", func(e qso.Elements) []string { return e.Rigs }, 0, genericField("rig")},
	{"rig2", func(e qso.Elements) []string { return e.Rigs }, 1, genericField("rig")},
	{"antenna1", func(e qso.Elements) []string { return e.Antennas }, 0, genericField("antenna")},
	{"antenna2", func(e qso.Elements) []string { return e.Antennas }, 1, genericField("antenna")},
	{"power1", func(e qso.Elements) []string { return e.Powers }, 0, genericField("power")},
	{"power2", func(e qso.Elements) []string { return e.Powers }, 1, genericField("power")},
}

func scoreCallsignField(s *Scorer, answer, correct string) (float64, Label) {
	return s.ScoreCallsign(answer, correct)
}

func scoreRSTField(s *Scorer, answer, correct string) (float64, Label) {
	return s.ScoreRST(answer, correct)
}

func genericField(elementType string) func(*Scorer, string, string) (float64, Label) {
	return func(s *Scorer, answer, correct string) (float64, Label) {
		return s.ScoreElement(answer, correct, elementType)
	}
}

// ScoreQSO scores a complete submission against the element index. The
// eight required fields are always scored; equipment fields are scored
// only when the learner supplied a non-empty answer and the element
// index carries a value for them.
func (s *Scorer) ScoreQSO(answers map[string]string, elements qso.Elements) *ScoreResult {
	result := &ScoreResult{
		ElementScores: make(map[string]ElementScore),
	}

	for _, field := range requiredFields {
		s.scoreField(result, field, answers[field.key], elements)
	}
	for _, field := range optionalFields {
		answer, ok := answers[field.key]
		if !ok || answer == "" {
			continue
		}
		if len(field.values(elements)) <= field.index {
			continue
		}
		s.scoreField(result, field, answer, elements)
	}

	if result.MaxScore > 0 {
		result.Percentage = result.TotalScore / float64(result.MaxScore) * 100.0
	}

	return result
}

func (s *Scorer) scoreField(result *ScoreResult, field fieldSpec, answer string, elements qso.Elements) {
	correct := field.values(elements)[field.index]
	score, label := field.scoreFunc(s, answer, correct)

	result.ElementScores[field.key] = ElementScore{
		Score:   score,
		Label:   label,
		Correct: correct,
		Answer:  answer,
	}
	result.TotalScore += score
	result.MaxScore++

	switch label {
	case LabelCorrect:
		result.Correct++
	case LabelPartial:
		result.Partial++
	default:
		result.Incorrect++
	}
}

func (s *Scorer) record(elementType string, score float64, label Label) {
	s.totalQuestions++
	switch label {
	case LabelCorrect:
		s.totalCorrect++
	case LabelPartial:
		s.totalPartial++
	default:
		s.totalIncorrect++
	}

	stats, ok := s.elementStats[elementType]
	if !ok {
		stats = &TypeStats{}
		s.elementStats[elementType] = stats
	}
	stats.Total++
	stats.scoreSum += score
	switch label {
	case LabelCorrect:
		stats.Correct++
	case LabelPartial:
		stats.Partial++
	default:
		stats.Incorrect++
	}
}

// Statistics returns a snapshot of the running counters.
func (s *Scorer) Statistics() Statistics {
	stats := Statistics{
		TotalQuestions: s.totalQuestions,
		Correct:        s.totalCorrect,
		Partial:        s.totalPartial,
		Incorrect:      s.totalIncorrect,
		ByElement:      make(map[string]TypeStats, len(s.elementStats)),
	}
	if s.totalQuestions > 0 {
		stats.Accuracy = float64(s.totalCorrect) / float64(s.totalQuestions) * 100.0
	}
	for elementType, ts := range s.elementStats {
		snapshot := *ts
		if ts.Total > 0 {
			snapshot.AverageScore = ts.scoreSum / float64(ts.Total)
		}
		stats.ByElement[elementType] = snapshot
	}
	return stats
}

// ResetStatistics clears the running counters.
func (s *Scorer) ResetStatistics() {
	s.totalQuestions = 0
	s.totalCorrect = 0
	s.totalPartial = 0
	s.totalIncorrect = 0
	s.elementStats = make(map[string]*TypeStats)
}
