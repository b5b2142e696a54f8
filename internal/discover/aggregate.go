package discover

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"prospector/internal/reddit"
)

// aggregatePosts scores every post and reduces the batch into an Aggregate.
// Scoring is a parallel map into an index-addressed slice followed by a
// single-goroutine reduce, so evaluation order never changes the output.
// An empty batch yields a valid zero Aggregate.
func (e *Engine) aggregatePosts(ctx context.Context, posts []reddit.Post) Aggregate {
	scored := make([]ScoredPost, len(posts))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(e.parallel)
	for i, p := range posts {
		g.Go(func() error {
			m := e.matcher.Match(p.Text())
			ps, isProblem := e.scorer.Score(m, p.Score, p.NumComments)
			scored[i] = ScoredPost{Post: p, Match: m, ProblemScore: ps, IsProblem: isProblem}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	return reduce(scored)
}

// reduce builds the Aggregate from scored items in fetch order.
func reduce(scored []ScoredPost) Aggregate {
	agg := Aggregate{Total: len(scored)}
	if len(scored) == 0 {
		return agg
	}

	counts := make(map[string]int)
	var sumScore, sumComments int
	for _, s := range scored {
		if s.IsProblem {
			agg.Flagged++
		}
		sumScore += s.Post.Score
		sumComments += s.Post.NumComments
		for _, kw := range s.Match.Keywords {
			counts[kw]++
		}
	}
	agg.AvgScore = float64(sumScore) / float64(len(scored))
	agg.AvgComments = float64(sumComments) / float64(len(scored))
	agg.Keywords = rankKeywords(counts)

	// Stable sort keeps original fetch order as the final tie-break.
	agg.Posts = make([]ScoredPost, len(scored))
	copy(agg.Posts, scored)
	sort.SliceStable(agg.Posts, func(i, j int) bool {
		a, b := agg.Posts[i], agg.Posts[j]
		if a.ProblemScore != b.ProblemScore {
			return a.ProblemScore > b.ProblemScore
		}
		return a.Post.Score > b.Post.Score
	})
	return agg
}

// rankKeywords orders a frequency map by count descending, ties alphabetical.
func rankKeywords(counts map[string]int) []KeywordCount {
	if len(counts) == 0 {
		return nil
	}
	out := make([]KeywordCount, 0, len(counts))
	for kw, n := range counts {
		out = append(out, KeywordCount{Keyword: kw, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Keyword < out[j].Keyword
	})
	return out
}
