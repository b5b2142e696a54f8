package discover

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"prospector/internal/reddit"
	"prospector/internal/taxonomy"
)

func newTestEngine(t *testing.T, f Fetcher) *Engine {
	t.Helper()
	cfg, err := taxonomy.Default()
	if err != nil {
		t.Fatalf("taxonomy.Default: %v", err)
	}
	e, err := NewEngine(f, cfg)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func TestAggregate_EmptyBatch(t *testing.T) {
	e := newTestEngine(t, nil)
	agg := e.aggregatePosts(context.Background(), nil)
	if agg.Total != 0 || agg.Flagged != 0 {
		t.Errorf("Total=%d Flagged=%d, want zeros", agg.Total, agg.Flagged)
	}
	if len(agg.Posts) != 0 || len(agg.Keywords) != 0 {
		t.Errorf("Posts=%v Keywords=%v, want empty", agg.Posts, agg.Keywords)
	}
}

func TestAggregate_EndToEndScenario(t *testing.T) {
	e := newTestEngine(t, nil)
	posts := []reddit.Post{
		{ID: "a", Title: "I wish there was a tool for X", Score: 100},
		{ID: "b", Title: "this is frustrating, nothing works", Score: 5},
		{ID: "c", Title: "great day today", Score: 500},
	}
	agg := e.aggregatePosts(context.Background(), posts)

	if agg.Total != 3 {
		t.Fatalf("Total = %d, want 3", agg.Total)
	}
	if agg.Flagged != 2 {
		t.Errorf("Flagged = %d, want 2", agg.Flagged)
	}
	flagged := map[string]bool{}
	rank := map[string]int{}
	for i, sp := range agg.Posts {
		flagged[sp.Post.ID] = sp.IsProblem
		rank[sp.Post.ID] = i
	}
	if !flagged["a"] || !flagged["b"] {
		t.Errorf("posts a and b should be flagged, got %v", flagged)
	}
	if flagged["c"] {
		t.Error("post c has no problem language and must not be flagged")
	}
	// The wish post must outrank the high-engagement no-signal post.
	if rank["a"] > rank["c"] {
		t.Errorf("post a ranked %d, below post c at %d", rank["a"], rank["c"])
	}
}

func TestAggregate_KeywordCountsMergeAcrossItems(t *testing.T) {
	e := newTestEngine(t, nil)
	posts := []reddit.Post{
		{ID: "a", Title: "I wish this worked"},
		{ID: "b", Title: "wish someone would fix it"},
		{ID: "c", Title: "it is broken"},
	}
	agg := e.aggregatePosts(context.Background(), posts)
	want := []KeywordCount{{Keyword: "wish", Count: 2}, {Keyword: "broken", Count: 1}}
	if diff := cmp.Diff(want, agg.Keywords); diff != "" {
		t.Errorf("Keywords mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregate_KeywordTiesAlphabetical(t *testing.T) {
	e := newTestEngine(t, nil)
	posts := []reddit.Post{
		{ID: "a", Title: "so annoying and broken"},
	}
	agg := e.aggregatePosts(context.Background(), posts)
	want := []KeywordCount{{Keyword: "annoying", Count: 1}, {Keyword: "broken", Count: 1}}
	if diff := cmp.Diff(want, agg.Keywords); diff != "" {
		t.Errorf("Keywords mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregate_FetchOrderBreaksTies(t *testing.T) {
	e := newTestEngine(t, nil)
	// Identical text and engagement: ranking must preserve fetch order.
	posts := []reddit.Post{
		{ID: "first", Title: "wish it worked", Score: 10},
		{ID: "second", Title: "wish it worked", Score: 10},
		{ID: "third", Title: "wish it worked", Score: 10},
	}
	agg := e.aggregatePosts(context.Background(), posts)
	for i, want := range []string{"first", "second", "third"} {
		if agg.Posts[i].Post.ID != want {
			t.Errorf("Posts[%d] = %s, want %s", i, agg.Posts[i].Post.ID, want)
		}
	}
}

func TestAggregate_EngagementBreaksScoreTies(t *testing.T) {
	cfg, err := taxonomy.Default()
	if err != nil {
		t.Fatal(err)
	}
	// Zero the engagement weights so two posts with equal keyword totals tie
	// on problem score despite different vote counts.
	cfg.Weights.Score = 0
	cfg.Weights.Comment = 0
	e, err := NewEngine(nil, cfg)
	if err != nil {
		t.Fatal(err)
	}
	posts := []reddit.Post{
		{ID: "low", Title: "wish it worked", Score: 3},
		{ID: "high", Title: "wish it worked", Score: 50},
	}
	agg := e.aggregatePosts(context.Background(), posts)
	if agg.Posts[0].Post.ID != "high" {
		t.Errorf("Posts[0] = %s, want high (engagement tie-break)", agg.Posts[0].Post.ID)
	}
}

func TestAggregate_Averages(t *testing.T) {
	e := newTestEngine(t, nil)
	posts := []reddit.Post{
		{ID: "a", Title: "x", Score: 10, NumComments: 4},
		{ID: "b", Title: "y", Score: 30, NumComments: 8},
	}
	agg := e.aggregatePosts(context.Background(), posts)
	if agg.AvgScore != 20 {
		t.Errorf("AvgScore = %v, want 20", agg.AvgScore)
	}
	if agg.AvgComments != 6 {
		t.Errorf("AvgComments = %v, want 6", agg.AvgComments)
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	e := newTestEngine(t, nil)
	posts := []reddit.Post{
		{ID: "a", Title: "I hate how broken this is", Score: 42, NumComments: 7},
		{ID: "b", Title: "looking for alternatives", Score: 3},
		{ID: "c", Title: "neutral title", Score: 900, NumComments: 120},
	}
	first := e.aggregatePosts(context.Background(), posts)
	for i := 0; i < 10; i++ {
		again := e.aggregatePosts(context.Background(), posts)
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("run %d differed (-first +again):\n%s", i, diff)
		}
	}
}
