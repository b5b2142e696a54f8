package main

import (
	"github.com/spf13/cobra"

	"prospector/internal/discover"
)

var searchFlags struct {
	subreddit  string
	limit      int
	sort       string
	timeFilter string
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search Reddit for posts indicating problems or unmet needs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}
		report, err := engine.Search(cmd.Context(), discover.SearchRequest{
			Query:      args[0],
			Subreddit:  searchFlags.subreddit,
			Limit:      searchFlags.limit,
			Sort:       searchFlags.sort,
			TimeFilter: searchFlags.timeFilter,
		})
		if err != nil {
			return err
		}
		return printJSON(report)
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchFlags.subreddit, "subreddit", "", "limit search to a subreddit (without r/)")
	searchCmd.Flags().IntVar(&searchFlags.limit, "limit", 0, "number of posts to return (default 20, max 100)")
	searchCmd.Flags().StringVar(&searchFlags.sort, "sort", "", "sort order: relevance, hot, top, new, comments")
	searchCmd.Flags().StringVar(&searchFlags.timeFilter, "time", "", "time filter: hour, day, week, month, year, all")
}
