package main

import (
	"github.com/spf13/cobra"

	"prospector/internal/discover"
)

var postFlags struct {
	noComments   bool
	commentLimit int
}

var postCmd = &cobra.Command{
	Use:   "post <url>",
	Short: "Deep-dive one post and its comments for problem signals",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}
		report, err := engine.PostInsights(cmd.Context(), discover.PostRequest{
			PostURL:         args[0],
			WithoutComments: postFlags.noComments,
			CommentLimit:    postFlags.commentLimit,
		})
		if err != nil {
			return err
		}
		return printJSON(report)
	},
}

func init() {
	postCmd.Flags().BoolVar(&postFlags.noComments, "no-comments", false, "skip comment analysis")
	postCmd.Flags().IntVar(&postFlags.commentLimit, "comment-limit", 0, "number of comments to analyze (default 20)")
}
