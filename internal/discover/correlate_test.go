package discover

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"prospector/internal/reddit"
	"prospector/internal/signal"
)

// batchOf builds an Aggregate from (keywords, score) pairs, one post each.
func batchOf(t *testing.T, entries ...any) Aggregate {
	t.Helper()
	if len(entries)%2 != 0 {
		t.Fatal("batchOf wants keyword-list/score pairs")
	}
	var agg Aggregate
	for i := 0; i < len(entries); i += 2 {
		kws := entries[i].([]string)
		score := entries[i+1].(int)
		agg.Posts = append(agg.Posts, ScoredPost{
			Post:  reddit.Post{Score: score},
			Match: signal.MatchResult{Keywords: kws, Total: len(kws)},
		})
	}
	agg.Total = len(agg.Posts)
	return agg
}

func TestCorrelate_SingleBatchIsEmpty(t *testing.T) {
	batch := batchOf(t, []string{"frustrated", "broken"}, 100)
	if got := Correlate([]Aggregate{batch}); got != nil {
		t.Errorf("Correlate(single batch) = %v, want nil", got)
	}
	if got := Correlate(nil); got != nil {
		t.Errorf("Correlate(nil) = %v, want nil", got)
	}
}

func TestCorrelate_SupportCountsBatches(t *testing.T) {
	a := batchOf(t, []string{"frustrated", "unique-to-a"}, 10)
	b := batchOf(t, []string{"frustrated"}, 20)
	got := Correlate([]Aggregate{a, b})
	want := []Pattern{{Keyword: "frustrated", Support: 2, Engagement: 30}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("patterns mismatch (-want +got):\n%s", diff)
	}
}

func TestCorrelate_SingleBatchKeywordExcluded(t *testing.T) {
	a := batchOf(t, []string{"wish", "glitch"}, 5)
	b := batchOf(t, []string{"wish"}, 5)
	c := batchOf(t, []string{"broken"}, 5)
	got := Correlate([]Aggregate{a, b, c})
	for _, p := range got {
		if p.Keyword == "glitch" || p.Keyword == "broken" {
			t.Errorf("query-specific keyword %q leaked into patterns", p.Keyword)
		}
	}
	if len(got) != 1 || got[0].Keyword != "wish" {
		t.Errorf("patterns = %v, want only wish", got)
	}
}

func TestCorrelate_MultipleItemsSumEngagement(t *testing.T) {
	a := batchOf(t, []string{"broken"}, 10, []string{"broken"}, 15)
	b := batchOf(t, []string{"broken"}, 5)
	got := Correlate([]Aggregate{a, b})
	if len(got) != 1 {
		t.Fatalf("patterns = %v, want one", got)
	}
	if got[0].Support != 2 {
		t.Errorf("Support = %d, want 2 (two batches, not three posts)", got[0].Support)
	}
	if got[0].Engagement != 30 {
		t.Errorf("Engagement = %d, want 30", got[0].Engagement)
	}
}

func TestCorrelate_Ranking(t *testing.T) {
	a := batchOf(t, []string{"wish", "broken", "annoying"}, 10)
	b := batchOf(t, []string{"wish", "broken", "annoying"}, 10)
	c := batchOf(t, []string{"wish"}, 100)
	got := Correlate([]Aggregate{a, b, c})
	want := []Pattern{
		{Keyword: "wish", Support: 3, Engagement: 120},
		// Equal support and engagement: first-encounter order holds.
		{Keyword: "broken", Support: 2, Engagement: 20},
		{Keyword: "annoying", Support: 2, Engagement: 20},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ranking mismatch (-want +got):\n%s", diff)
	}
}

func TestCorrelate_EngagementBreaksSupportTies(t *testing.T) {
	a := batchOf(t, []string{"quiet"}, 1, []string{"loud"}, 50)
	b := batchOf(t, []string{"quiet"}, 1, []string{"loud"}, 50)
	got := Correlate([]Aggregate{a, b})
	if len(got) != 2 {
		t.Fatalf("patterns = %v, want two", got)
	}
	if got[0].Keyword != "loud" {
		t.Errorf("got[0] = %v, want loud first on engagement", got[0])
	}
}
