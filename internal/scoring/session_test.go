package scoring

import (
	"math"
	"testing"

	"github.com/yegors/qso-trainer/internal/qso"
)

func testElements() qso.Elements {
	return qso.Elements{
		Callsigns: []string{"W1ABC", "G3YWX"},
		Names:     []string{"BOB", "IAN"},
		QTHs:      []string{"BOSTON", "LONDON"},
		RSTs:      []string{"599", "589"},
	}
}

func perfectAnswers() map[string]string {
	return map[string]string{
		"callsign1": "W1ABC", "callsign2": "G3YWX",
		"name1": "BOB", "name2": "IAN",
		"qth1": "BOSTON", "qth2": "LONDON",
		"rst1": "599", "rst2": "589",
	}
}

func TestSessionScorerSummary(t *testing.T) {
	t.Parallel()

	session := NewSessionScorer(nil)

	session.ScoreQSO(perfectAnswers(), testElements())

	wrong := perfectAnswers()
	wrong["qth1"] = "DALLAS"
	session.ScoreQSO(wrong, testElements())

	summary := session.Summary()
	if summary.QSOCount != 2 {
		t.Fatalf("QSOCount = %d, want 2", summary.QSOCount)
	}
	if summary.MaxScore != 16 {
		t.Errorf("MaxScore = %d, want 16", summary.MaxScore)
	}
	if math.Abs(summary.TotalScore-15.0) > 1e-9 {
		t.Errorf("TotalScore = %v, want 15", summary.TotalScore)
	}
	// Mean of 100% and 87.5%.
	if math.Abs(summary.AveragePercentage-93.75) > 1e-9 {
		t.Errorf("AveragePercentage = %v, want 93.75", summary.AveragePercentage)
	}
}

func TestSessionScorerGet(t *testing.T) {
	t.Parallel()

	session := NewSessionScorer(nil)
	session.ScoreQSO(perfectAnswers(), testElements())

	result, err := session.Get(0)
	if err != nil {
		t.Fatalf("Get(0) error: %v", err)
	}
	if result.MaxScore != 8 {
		t.Errorf("MaxScore = %d, want 8", result.MaxScore)
	}

	if _, err := session.Get(1); err == nil {
		t.Error("Get(1) returned no error for out-of-range index")
	}
	if _, err := session.Get(-1); err == nil {
		t.Error("Get(-1) returned no error for negative index")
	}
}

func TestSessionScorerReset(t *testing.T) {
	t.Parallel()

	session := NewSessionScorer(nil)
	session.ScoreQSO(perfectAnswers(), testElements())

	session.Reset()

	if session.Count() != 0 {
		t.Errorf("Count after reset = %d, want 0", session.Count())
	}
	if session.Statistics().TotalQuestions != 0 {
		t.Error("scorer statistics survived reset")
	}
}
