package scoring

import (
	"fmt"
	"sync"
	"time"

	"github.com/yegors/qso-trainer/internal/qso"
)

// SessionSummary aggregates every recorded ScoreResult for a practice
// session.
type SessionSummary struct {
	QSOCount          int            `json:"qso_count"`
	TotalScore        float64        `json:"total_score"`
	MaxScore          int            `json:"max_score"`
	AveragePercentage float64        `json:"average_percentage"`
	QSOScores         []*ScoreResult `json:"qso_scores"`
	Elements          Statistics     `json:"element_statistics"`
	StartedAt         time.Time      `json:"started_at,omitempty"`
}

// SessionScorer accumulates per-QSO results over a practice session.
// Safe for concurrent use.
type SessionScorer struct {
	mu        sync.Mutex
	scorer    *Scorer
	scores    []*ScoreResult
	startedAt time.Time
}

// NewSessionScorer wraps a Scorer with session-level accumulation. A nil
// scorer gets a default-configured one.
func NewSessionScorer(scorer *Scorer) *SessionScorer {
	if scorer == nil {
		scorer, _ = NewScorer(DefaultFuzzyThreshold, true, false)
	}
	return &SessionScorer{
		scorer:    scorer,
		startedAt: time.Now(),
	}
}

// ScoreQSO scores a submission against the element index and records the
// result in the session. The underlying scorer is not concurrency-safe,
// so scoring happens under the session lock.
func (s *SessionScorer) ScoreQSO(answers map[string]string, elements qso.Elements) *ScoreResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := s.scorer.ScoreQSO(answers, elements)
	s.scores = append(s.scores, result)
	return result
}

// Summary reports the session totals across all recorded QSOs.
func (s *SessionScorer) Summary() SessionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := SessionSummary{
		QSOCount:  len(s.scores),
		QSOScores: append([]*ScoreResult(nil), s.scores...),
		Elements:  s.scorer.Statistics(),
		StartedAt: s.startedAt,
	}

	var percentageSum float64
	for _, result := range s.scores {
		summary.TotalScore += result.TotalScore
		summary.MaxScore += result.MaxScore
		percentageSum += result.Percentage
	}
	if len(s.scores) > 0 {
		summary.AveragePercentage = percentageSum / float64(len(s.scores))
	}

	return summary
}

// Add records an already-computed result in the session.
func (s *SessionScorer) Add(result *ScoreResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores = append(s.scores, result)
}

// Get returns the recorded result at the given zero-based index.
func (s *SessionScorer) Get(index int) (*ScoreResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.scores) {
		return nil, fmt.Errorf("score index %d out of range [0, %d)", index, len(s.scores))
	}
	return s.scores[index], nil
}

// Count returns the number of recorded results.
func (s *SessionScorer) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.scores)
}

// Statistics returns the underlying scorer's running per-field counters.
func (s *SessionScorer) Statistics() Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scorer.Statistics()
}

// Reset drops all recorded results and clears the scorer's running
// statistics.
func (s *SessionScorer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores = nil
	s.scorer.ResetStatistics()
	s.startedAt = time.Now()
}
