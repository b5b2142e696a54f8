// Package discover is the problem-detection engine: it runs the signal
// matcher and scorer over fetched batches, aggregates per-batch statistics,
// and cross-correlates patterns across independent query batches. The engine
// is computation-only and stateless between calls; all fetching goes through
// the Fetcher collaborator.
package discover

import (
	"context"

	"prospector/internal/reddit"
	"prospector/internal/signal"
)

// Fetcher supplies raw posts and comments. Implementations own their retry
// and rate-limit policy; the engine never retries.
type Fetcher interface {
	// Search runs a query against a subreddit ("" = all of Reddit).
	Search(ctx context.Context, query, subreddit string, limit int, sort, timeFilter string) ([]reddit.Post, error)
	// Posts fetches a subreddit listing (sort: hot, new, top, rising).
	Posts(ctx context.Context, subreddit, sort, timeFilter string, limit int) ([]reddit.Post, error)
	// PostWithComments fetches one post and up to commentLimit comments.
	PostWithComments(ctx context.Context, postID string, commentLimit int) (reddit.Post, []reddit.Comment, error)
}

// ScoredPost wraps a fetched post with its classification and score.
type ScoredPost struct {
	Post         reddit.Post        `json:"post"`
	Match        signal.MatchResult `json:"match"`
	ProblemScore float64            `json:"problem_score"`
	IsProblem    bool               `json:"is_problem"`
}

// ScoredComment wraps a fetched comment with its classification and score.
type ScoredComment struct {
	Comment      reddit.Comment     `json:"comment"`
	Match        signal.MatchResult `json:"match"`
	ProblemScore float64            `json:"problem_score"`
	IsProblem    bool               `json:"is_problem"`
}

// KeywordCount is one entry of a keyword frequency ranking.
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// Aggregate summarizes one scored batch. Posts are sorted by problem score
// descending, ties broken by engagement score descending, then original
// fetch order. Keywords are ranked by count descending, ties alphabetical.
type Aggregate struct {
	Posts       []ScoredPost   `json:"posts"`
	Keywords    []KeywordCount `json:"keywords,omitempty"`
	Flagged     int            `json:"flagged"`
	Total       int            `json:"total"`
	AvgScore    float64        `json:"avg_score"`
	AvgComments float64        `json:"avg_comments"`
}

// Pattern is a keyword recurring across independently fetched batches.
// Support counts the batches it appears in; Engagement sums the vote scores
// of the posts containing it.
type Pattern struct {
	Keyword    string `json:"keyword"`
	Support    int    `json:"support"`
	Engagement int    `json:"engagement"`
}

// SearchReport is the result of the search operation.
type SearchReport struct {
	Query     string    `json:"query"`
	Subreddit string    `json:"subreddit"`
	Aggregate Aggregate `json:"aggregate"`
}

// SubredditReport is the result of the subreddit analysis operation.
// TopKeywords and TopPosts are presentation slices of the full Aggregate.
type SubredditReport struct {
	Subreddit   string         `json:"subreddit"`
	Aggregate   Aggregate      `json:"aggregate"`
	TopKeywords []KeywordCount `json:"top_keywords,omitempty"`
	TopPosts    []ScoredPost   `json:"top_posts,omitempty"`
}

// TrendingReport is the result of the trending sweep.
type TrendingReport struct {
	Scope       []string  `json:"scope"`
	MinScore    int       `json:"min_score"`
	MinComments int       `json:"min_comments"`
	Aggregate   Aggregate `json:"aggregate"`
}

// PostReport is the single-post deep dive: the scored post, the comments
// that carry at least one problem keyword, keyword mention counts across
// post and comments, and opportunity one-liners derived from the top
// mentions.
type PostReport struct {
	Post          ScoredPost      `json:"post"`
	Comments      []ScoredComment `json:"comments,omitempty"`
	Mentions      []KeywordCount  `json:"mentions,omitempty"`
	Opportunities []string        `json:"opportunities,omitempty"`
}

// QueryBatch is one per-query result inside a pattern discovery run. Error
// is set when that query's fetch failed; its Aggregate is then empty.
type QueryBatch struct {
	Query     string    `json:"query"`
	Error     string    `json:"error,omitempty"`
	Aggregate Aggregate `json:"aggregate"`
}

// PatternsReport is the cross-query pattern discovery result.
type PatternsReport struct {
	Queries  []string     `json:"queries"`
	Batches  []QueryBatch `json:"batches"`
	Patterns []Pattern    `json:"patterns,omitempty"`
}
