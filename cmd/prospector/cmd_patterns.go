package main

import (
	"github.com/spf13/cobra"

	"prospector/internal/discover"
)

var patternsFlags struct {
	subreddits    []string
	postsPerQuery int
}

var patternsCmd = &cobra.Command{
	Use:   "patterns <query> [query...]",
	Short: "Discover problem patterns recurring across multiple queries",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}
		report, err := engine.DiscoverPatterns(cmd.Context(), discover.PatternsRequest{
			Queries:       args,
			Subreddits:    patternsFlags.subreddits,
			PostsPerQuery: patternsFlags.postsPerQuery,
		})
		if err != nil {
			return err
		}
		return printJSON(report)
	},
}

func init() {
	patternsCmd.Flags().StringSliceVar(&patternsFlags.subreddits, "subreddits", nil, "subreddits to limit the searches to")
	patternsCmd.Flags().IntVar(&patternsFlags.postsPerQuery, "per-query", 0, "posts to analyze per query (default 10)")
}
