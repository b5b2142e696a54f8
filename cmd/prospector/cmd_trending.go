package main

import (
	"github.com/spf13/cobra"

	"prospector/internal/discover"
)

var trendingFlags struct {
	subreddits  []string
	limit       int
	minScore    int
	minComments int
}

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Sweep hot listings for high-engagement problem posts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}
		report, err := engine.Trending(cmd.Context(), discover.TrendingRequest{
			Subreddits:  trendingFlags.subreddits,
			Limit:       trendingFlags.limit,
			MinScore:    trendingFlags.minScore,
			MinComments: trendingFlags.minComments,
		})
		if err != nil {
			return err
		}
		return printJSON(report)
	},
}

func init() {
	trendingCmd.Flags().StringSliceVar(&trendingFlags.subreddits, "subreddits", nil, "subreddits to sweep (without r/); empty sweeps all of Reddit")
	trendingCmd.Flags().IntVar(&trendingFlags.limit, "limit", 0, "number of posts to return (default 30, max 100)")
	trendingCmd.Flags().IntVar(&trendingFlags.minScore, "min-score", 0, "minimum upvote score (default 10)")
	trendingCmd.Flags().IntVar(&trendingFlags.minComments, "min-comments", 0, "minimum comment count (default 5)")
}
