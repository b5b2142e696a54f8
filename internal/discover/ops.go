package discover

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"prospector/internal/logging"
	"prospector/internal/reddit"
	"prospector/internal/signal"
	"prospector/internal/taxonomy"
)

// Engine runs the five analysis operations. It is safe for concurrent use;
// all state is immutable after construction.
type Engine struct {
	fetcher  Fetcher
	matcher  *signal.Matcher
	scorer   *signal.Scorer
	cfg      *taxonomy.Config
	parallel int
	log      *slog.Logger
}

// NewEngine builds an engine over a fetch collaborator and a loaded
// taxonomy. The taxonomy must not be mutated afterwards.
func NewEngine(f Fetcher, cfg *taxonomy.Config) (*Engine, error) {
	matcher, err := signal.NewMatcher(cfg)
	if err != nil {
		return nil, fmt.Errorf("compile taxonomy: %w", err)
	}
	return &Engine{
		fetcher:  f,
		matcher:  matcher,
		scorer:   signal.NewScorer(cfg),
		cfg:      cfg,
		parallel: 4,
		log:      logging.New("discover"),
	}, nil
}

// SetParallel bounds concurrent per-item scoring and per-query fetching.
// Values below 1 are ignored.
func (e *Engine) SetParallel(n int) {
	if n >= 1 {
		e.parallel = n
	}
}

// --- requests ---

// SearchRequest drives the single-search operation.
type SearchRequest struct {
	Query      string
	Subreddit  string // "" = all of Reddit
	Limit      int    // 0 = default
	Sort       string // relevance (default), hot, top, new, comments
	TimeFilter string // hour, day, week (default), month, year, all
}

// AnalyzeRequest drives the subreddit sweep.
type AnalyzeRequest struct {
	Subreddit  string
	Limit      int
	Sort       string // top (default), hot, new, rising
	TimeFilter string
}

// TrendingRequest drives the trending sweep. Zero MinScore/MinComments use
// the configured defaults; pass -1 to disable a filter.
type TrendingRequest struct {
	Subreddits  []string // empty = r/all
	Limit       int
	MinScore    int
	MinComments int
}

// PostRequest drives the single-post deep dive.
type PostRequest struct {
	PostURL         string
	WithoutComments bool
	CommentLimit    int
}

// PatternsRequest drives cross-query pattern discovery.
type PatternsRequest struct {
	Queries       []string
	Subreddits    []string // optional scope; empty = all of Reddit
	PostsPerQuery int
}

var (
	searchSorts  = map[string]bool{"relevance": true, "hot": true, "top": true, "new": true, "comments": true}
	listingSorts = map[string]bool{"top": true, "hot": true, "new": true, "rising": true}
	timeFilters  = map[string]bool{"hour": true, "day": true, "week": true, "month": true, "year": true, "all": true}
)

func (e *Engine) clampLimit(limit, def int) (int, error) {
	if limit < 0 {
		return 0, invalidf("limit must be non-negative, got %d", limit)
	}
	if limit == 0 {
		return def, nil
	}
	if limit > e.cfg.Limits.Max {
		return e.cfg.Limits.Max, nil
	}
	return limit, nil
}

func pickSort(sort, def string, allowed map[string]bool) (string, error) {
	if sort == "" {
		return def, nil
	}
	if !allowed[sort] {
		return "", invalidf("unknown sort %q", sort)
	}
	return sort, nil
}

func pickTimeFilter(tf string) (string, error) {
	if tf == "" {
		return "week", nil
	}
	if !timeFilters[tf] {
		return "", invalidf("unknown time filter %q", tf)
	}
	return tf, nil
}

// --- operations ---

// Search fetches posts for a query and returns them ranked by problem score.
func (e *Engine) Search(ctx context.Context, req SearchRequest) (*SearchReport, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, invalidf("query is required")
	}
	limit, err := e.clampLimit(req.Limit, e.cfg.Limits.Search)
	if err != nil {
		return nil, err
	}
	srt, err := pickSort(req.Sort, "relevance", searchSorts)
	if err != nil {
		return nil, err
	}
	tf, err := pickTimeFilter(req.TimeFilter)
	if err != nil {
		return nil, err
	}

	posts, err := e.fetcher.Search(ctx, req.Query, req.Subreddit, limit, srt, tf)
	if err != nil {
		return nil, &FetchError{Op: "search", Err: err}
	}
	e.log.Debug("search fetched", "query", req.Query, "posts", len(posts))

	scope := req.Subreddit
	if scope == "" {
		scope = "all"
	}
	return &SearchReport{
		Query:     req.Query,
		Subreddit: scope,
		Aggregate: e.aggregatePosts(ctx, posts),
	}, nil
}

// AnalyzeSubreddit sweeps one subreddit and summarizes its problem talk.
func (e *Engine) AnalyzeSubreddit(ctx context.Context, req AnalyzeRequest) (*SubredditReport, error) {
	if strings.TrimSpace(req.Subreddit) == "" {
		return nil, invalidf("subreddit is required")
	}
	limit, err := e.clampLimit(req.Limit, e.cfg.Limits.Analyze)
	if err != nil {
		return nil, err
	}
	srt, err := pickSort(req.Sort, "top", listingSorts)
	if err != nil {
		return nil, err
	}
	tf, err := pickTimeFilter(req.TimeFilter)
	if err != nil {
		return nil, err
	}

	posts, err := e.fetcher.Posts(ctx, req.Subreddit, srt, tf, limit)
	if err != nil {
		return nil, &FetchError{Op: "subreddit " + req.Subreddit, Err: err}
	}

	agg := e.aggregatePosts(ctx, posts)
	return &SubredditReport{
		Subreddit:   req.Subreddit,
		Aggregate:   agg,
		TopKeywords: headKeywords(agg.Keywords, 10),
		TopPosts:    headPosts(agg.Posts, 10),
	}, nil
}

// Trending sweeps hot listings for high-engagement problem posts. The
// engagement filter runs in the engine and is idempotent, so a collaborator
// that pre-filters changes nothing.
func (e *Engine) Trending(ctx context.Context, req TrendingRequest) (*TrendingReport, error) {
	limit, err := e.clampLimit(req.Limit, e.cfg.Limits.Trending)
	if err != nil {
		return nil, err
	}
	minScore := req.MinScore
	if minScore == 0 {
		minScore = e.cfg.Limits.MinScore
	}
	minComments := req.MinComments
	if minComments == 0 {
		minComments = e.cfg.Limits.MinComments
	}

	var posts []reddit.Post
	scope := req.Subreddits
	if len(scope) == 0 {
		scope = []string{"all"}
		posts, err = e.fetcher.Posts(ctx, "all", "hot", "", limit*2)
		if err != nil {
			return nil, &FetchError{Op: "trending", Err: err}
		}
	} else {
		per := limit/len(scope) + 5
		var lastErr error
		var fetched bool
		for _, sub := range scope {
			p, err := e.fetcher.Posts(ctx, sub, "hot", "", per)
			if err != nil {
				e.log.Warn("trending fetch failed, skipping subreddit", "subreddit", sub, "error", err)
				lastErr = err
				continue
			}
			fetched = true
			posts = append(posts, p...)
		}
		// A subreddit that answered with zero posts is still a successful
		// fetch; the sweep fails only when every subreddit failed.
		if !fetched && lastErr != nil {
			return nil, &FetchError{Op: "trending", Err: lastErr}
		}
	}

	filtered := posts[:0:0]
	for _, p := range posts {
		if p.Score >= minScore && p.NumComments >= minComments {
			filtered = append(filtered, p)
		}
	}

	agg := e.aggregatePosts(ctx, filtered)
	agg.Posts = headPosts(agg.Posts, limit) // presentation cut, counts stay batch-wide
	return &TrendingReport{
		Scope:       scope,
		MinScore:    minScore,
		MinComments: minComments,
		Aggregate:   agg,
	}, nil
}

// PostInsights deep-dives one post: it scores the post and its comments and
// aggregates keyword mentions into opportunity hints.
func (e *Engine) PostInsights(ctx context.Context, req PostRequest) (*PostReport, error) {
	id, err := reddit.ParsePostURL(req.PostURL)
	if err != nil {
		return nil, invalidf("post_url: %v", err)
	}
	commentLimit, err := e.clampLimit(req.CommentLimit, e.cfg.Limits.Comments)
	if err != nil {
		return nil, err
	}
	if req.WithoutComments {
		commentLimit = 0
	}

	post, comments, err := e.fetcher.PostWithComments(ctx, id, commentLimit)
	if err != nil {
		return nil, &FetchError{Op: "post " + id, Err: err}
	}

	m := e.matcher.Match(post.Text())
	ps, isProblem := e.scorer.Score(m, post.Score, post.NumComments)
	report := &PostReport{
		Post: ScoredPost{Post: post, Match: m, ProblemScore: ps, IsProblem: isProblem},
	}

	mentions := make(map[string]int)
	for _, kw := range m.Keywords {
		mentions[kw]++
	}

	if !req.WithoutComments {
		for _, c := range comments {
			if c.Body == "" || c.Body == "[deleted]" || c.Body == "[removed]" {
				continue
			}
			cm := e.matcher.Match(c.Body)
			if cm.Total == 0 {
				continue
			}
			cs, cIsProblem := e.scorer.Score(cm, c.Score, 0)
			report.Comments = append(report.Comments, ScoredComment{
				Comment: c, Match: cm, ProblemScore: cs, IsProblem: cIsProblem,
			})
			for _, kw := range cm.Keywords {
				mentions[kw]++
			}
		}
	}

	report.Mentions = rankKeywords(mentions)
	for _, kc := range headKeywords(report.Mentions, 5) {
		report.Opportunities = append(report.Opportunities,
			fmt.Sprintf("Problem: %s (mentioned %d times)", kc.Keyword, kc.Count),
			fmt.Sprintf("Opportunity: build a solution addressing %q discussed in r/%s", kc.Keyword, post.Subreddit),
		)
	}
	return report, nil
}

// DiscoverPatterns fetches each query independently (concurrently), scores
// every batch, and correlates keywords across batches. Correlation starts
// only after every batch has completed. One failed query becomes a per-batch
// error; the call fails only when every query fails.
func (e *Engine) DiscoverPatterns(ctx context.Context, req PatternsRequest) (*PatternsReport, error) {
	if len(req.Queries) == 0 {
		return nil, invalidf("at least one query is required")
	}
	for _, q := range req.Queries {
		if strings.TrimSpace(q) == "" {
			return nil, invalidf("queries must be non-empty")
		}
	}
	perQuery, err := e.clampLimit(req.PostsPerQuery, e.cfg.Limits.PerQuery)
	if err != nil {
		return nil, err
	}

	scope := req.Subreddits
	if len(scope) == 0 {
		scope = []string{""}
	}

	batches := make([]QueryBatch, len(req.Queries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallel)
	for i, query := range req.Queries {
		g.Go(func() error {
			var all []reddit.Post
			var lastErr error
			var fetched bool
			for _, sub := range scope {
				posts, err := e.fetcher.Search(gctx, query, sub, perQuery, "relevance", "week")
				if err != nil {
					e.log.Warn("pattern query fetch failed", "query", query, "subreddit", sub, "error", err)
					lastErr = err
					continue
				}
				fetched = true
				all = append(all, posts...)
			}
			// Zero posts from a subreddit that answered is an empty batch,
			// not a failed one.
			if !fetched && lastErr != nil {
				batches[i] = QueryBatch{Query: query, Error: lastErr.Error()}
				return nil
			}
			batches[i] = QueryBatch{Query: query, Aggregate: e.aggregatePosts(gctx, all)}
			return nil
		})
	}
	_ = g.Wait() // per-query failures live in batches[i].Error

	var aggs []Aggregate
	var firstErr string
	for _, b := range batches {
		if b.Error != "" {
			if firstErr == "" {
				firstErr = b.Error
			}
			continue
		}
		aggs = append(aggs, b.Aggregate)
	}
	if len(aggs) == 0 {
		return nil, &FetchError{Op: "patterns", Err: fmt.Errorf("all queries failed: %s", firstErr)}
	}

	return &PatternsReport{
		Queries:  req.Queries,
		Batches:  batches,
		Patterns: Correlate(aggs),
	}, nil
}

func headKeywords(kcs []KeywordCount, n int) []KeywordCount {
	if len(kcs) <= n {
		return kcs
	}
	return kcs[:n]
}

func headPosts(posts []ScoredPost, n int) []ScoredPost {
	if len(posts) <= n {
		return posts
	}
	return posts[:n]
}
