package discover

import "sort"

// Correlate finds keywords recurring across independently fetched batches.
// A keyword qualifies only when it appears in at least two batches; a
// keyword seen in a single batch is query-specific noise and stays in that
// batch's own Aggregate. With fewer than two input batches the result is
// always empty.
//
// Ranking is support descending, then aggregate engagement descending;
// remaining ties preserve first-encounter order (batch order, then the
// batch's post order).
func Correlate(batches []Aggregate) []Pattern {
	if len(batches) < 2 {
		return nil
	}

	type acc struct {
		batches    map[int]struct{}
		engagement int
		ord        int
	}
	byKeyword := make(map[string]*acc)
	ord := 0

	for bi, batch := range batches {
		for _, sp := range batch.Posts {
			for _, kw := range sp.Match.Keywords {
				a := byKeyword[kw]
				if a == nil {
					a = &acc{batches: make(map[int]struct{}), ord: ord}
					ord++
					byKeyword[kw] = a
				}
				a.batches[bi] = struct{}{}
				a.engagement += sp.Post.Score
			}
		}
	}

	type entry struct {
		p   Pattern
		ord int
	}
	var qualified []entry
	for kw, a := range byKeyword {
		if len(a.batches) < 2 {
			continue
		}
		qualified = append(qualified, entry{
			p:   Pattern{Keyword: kw, Support: len(a.batches), Engagement: a.engagement},
			ord: a.ord,
		})
	}
	if len(qualified) == 0 {
		return nil
	}

	sort.Slice(qualified, func(i, j int) bool {
		a, b := qualified[i], qualified[j]
		if a.p.Support != b.p.Support {
			return a.p.Support > b.p.Support
		}
		if a.p.Engagement != b.p.Engagement {
			return a.p.Engagement > b.p.Engagement
		}
		return a.ord < b.ord
	})

	out := make([]Pattern, len(qualified))
	for i, q := range qualified {
		out[i] = q.p
	}
	return out
}
