package signal

import (
	"math"
	"testing"

	"prospector/internal/taxonomy"
)

func newTestScorer(t *testing.T) *Scorer {
	t.Helper()
	cfg, err := taxonomy.Default()
	if err != nil {
		t.Fatalf("taxonomy.Default: %v", err)
	}
	return NewScorer(cfg)
}

func matchWithTotal(n int) MatchResult {
	return MatchResult{Total: n}
}

func TestScore_Formula(t *testing.T) {
	cfg := &taxonomy.Config{
		Categories:       []taxonomy.Category{{Name: "x", Patterns: []string{"x"}}},
		Weights:          taxonomy.Weights{Keyword: 1.0, Score: 0.5, Comment: 0.3},
		ProblemThreshold: 1.0,
		Limits:           taxonomy.Limits{Max: 100},
	}
	s := NewScorer(cfg)
	got, _ := s.Score(matchWithTotal(2), 100, 10)
	want := 2.0 + math.Log1p(100)*0.5 + math.Log1p(10)*0.3
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Score = %v, want %v", got, want)
	}
}

func TestScore_MonotonicInMatchCount(t *testing.T) {
	s := newTestScorer(t)
	prev := -1.0
	for total := 0; total <= 10; total++ {
		got, _ := s.Score(matchWithTotal(total), 50, 5)
		if got < prev {
			t.Fatalf("score decreased at total=%d: %v < %v", total, got, prev)
		}
		prev = got
	}
}

func TestScore_MonotonicInEngagement(t *testing.T) {
	s := newTestScorer(t)
	prev := -1.0
	for _, votes := range []int{0, 1, 10, 100, 1000, 10000} {
		got, _ := s.Score(matchWithTotal(2), votes, 0)
		if got < prev {
			t.Fatalf("score decreased at votes=%d: %v < %v", votes, got, prev)
		}
		prev = got
	}
}

func TestScore_NegativeEngagementFlooredAtZero(t *testing.T) {
	s := newTestScorer(t)
	zero, _ := s.Score(matchWithTotal(1), 0, 0)
	neg, _ := s.Score(matchWithTotal(1), -500, -3)
	if neg != zero {
		t.Errorf("negative engagement changed the score: %v != %v", neg, zero)
	}
}

func TestScore_EngagementAloneNeverQualifies(t *testing.T) {
	s := newTestScorer(t)
	score, isProblem := s.Score(matchWithTotal(0), 100000, 5000)
	if isProblem {
		t.Errorf("is_problem = true with zero matches (score %v)", score)
	}
	if score < s.Threshold() {
		t.Logf("note: engagement-only score %v is below threshold anyway", score)
	}
}

func TestScore_ThresholdClassification(t *testing.T) {
	s := newTestScorer(t)
	if _, isProblem := s.Score(matchWithTotal(1), 0, 0); !isProblem {
		t.Error("one keyword match at zero engagement should qualify at the default threshold")
	}
}

func TestScore_LogScalingBoundsOutliers(t *testing.T) {
	s := newTestScorer(t)
	// A post with one keyword and modest votes must outrank a keyword-free
	// post with enormous engagement.
	keyword, _ := s.Score(matchWithTotal(1), 100, 0)
	viral, _ := s.Score(matchWithTotal(0), 500, 0)
	if keyword <= viral {
		t.Errorf("keyword post %v should outrank viral no-signal post %v", keyword, viral)
	}
}
