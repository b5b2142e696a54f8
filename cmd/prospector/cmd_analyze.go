package main

import (
	"github.com/spf13/cobra"

	"prospector/internal/discover"
)

var analyzeFlags struct {
	limit      int
	sort       string
	timeFilter string
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <subreddit>",
	Short: "Analyze a subreddit for common problems and pain points",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}
		report, err := engine.AnalyzeSubreddit(cmd.Context(), discover.AnalyzeRequest{
			Subreddit:  args[0],
			Limit:      analyzeFlags.limit,
			Sort:       analyzeFlags.sort,
			TimeFilter: analyzeFlags.timeFilter,
		})
		if err != nil {
			return err
		}
		return printJSON(report)
	},
}

func init() {
	analyzeCmd.Flags().IntVar(&analyzeFlags.limit, "limit", 0, "number of posts to analyze (default 50, max 100)")
	analyzeCmd.Flags().StringVar(&analyzeFlags.sort, "sort", "", "sort order: top, hot, new, rising")
	analyzeCmd.Flags().StringVar(&analyzeFlags.timeFilter, "time", "", "time filter: hour, day, week, month, year, all")
}
