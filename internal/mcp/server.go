// Package mcp exposes the discovery engine as MCP tools over stdio. It is
// pure dispatch: validate arguments, call the engine, return the plain
// report structs. All scoring semantics live in internal/discover.
package mcp

import (
	"context"
	"fmt"

	"prospector/internal/discover"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP SDK server around one discovery engine.
type Server struct {
	MCPServer *sdkmcp.Server

	engine *discover.Engine
}

// NewServer creates an MCP server with the five problem-discovery tools
// registered.
func NewServer(engine *discover.Engine) *Server {
	s := &Server{engine: engine}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "prospector", Version: "dev"},
		nil,
	)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "search_reddit_problems",
		Description: "Search Reddit for posts that likely indicate problems or unmet needs. Returns results sorted by problem score.",
	}, s.handleSearch)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "analyze_subreddit_problems",
		Description: "Analyze a subreddit to identify common problems, pain points, and unmet needs. Returns aggregated insights.",
	}, s.handleAnalyze)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "get_trending_problems",
		Description: "Get trending high-engagement discussions that indicate problems or pain points.",
	}, s.handleTrending)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "get_startup_ideas_from_post",
		Description: "Analyze a specific Reddit post (by URL) to extract problem-solution opportunities from the post and its comments.",
	}, s.handlePost)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "discover_problem_patterns",
		Description: "Discover problem patterns recurring across multiple search queries. A pattern must appear in at least two query batches.",
	}, s.handlePatterns)
}

// --- tool input types ---

type searchInput struct {
	Query      string `json:"query" jsonschema:"search query to find problem-related posts"`
	Subreddit  string `json:"subreddit,omitempty" jsonschema:"limit search to a specific subreddit (without r/)"`
	Limit      int    `json:"limit,omitempty" jsonschema:"number of posts to return (default 20, max 100)"`
	Sort       string `json:"sort,omitempty" jsonschema:"sort order: relevance, hot, top, new, comments (default relevance)"`
	TimeFilter string `json:"time_filter,omitempty" jsonschema:"time filter for top sort: hour, day, week, month, year, all (default week)"`
}

type analyzeInput struct {
	Subreddit  string `json:"subreddit" jsonschema:"name of the subreddit to analyze (without r/)"`
	Limit      int    `json:"limit,omitempty" jsonschema:"number of posts to analyze (default 50, max 100)"`
	Sort       string `json:"sort,omitempty" jsonschema:"sort order: top, hot, new, rising (default top)"`
	TimeFilter string `json:"time_filter,omitempty" jsonschema:"time filter: hour, day, week, month, year, all (default week)"`
}

type trendingInput struct {
	Subreddits  []string `json:"subreddits,omitempty" jsonschema:"subreddits to sweep (without r/); empty sweeps all of Reddit"`
	Limit       int      `json:"limit,omitempty" jsonschema:"number of posts to return (default 30, max 100)"`
	MinScore    int      `json:"min_score,omitempty" jsonschema:"minimum upvote score (default 10)"`
	MinComments int      `json:"min_comments,omitempty" jsonschema:"minimum number of comments (default 5)"`
}

type postInput struct {
	PostURL         string `json:"post_url" jsonschema:"full URL or permalink to the Reddit post"`
	IncludeComments *bool  `json:"include_comments,omitempty" jsonschema:"include top comments in the analysis (default true)"`
	CommentLimit    int    `json:"comment_limit,omitempty" jsonschema:"number of comments to analyze (default 20)"`
}

type patternsInput struct {
	Queries       []string `json:"queries" jsonschema:"search queries to analyze for common patterns"`
	Subreddits    []string `json:"subreddits,omitempty" jsonschema:"subreddits to limit the searches to"`
	PostsPerQuery int      `json:"posts_per_query,omitempty" jsonschema:"posts to analyze per query (default 10)"`
}

// --- handlers ---

func (s *Server) handleSearch(ctx context.Context, _ *sdkmcp.CallToolRequest, in searchInput) (*sdkmcp.CallToolResult, discover.SearchReport, error) {
	report, err := s.engine.Search(ctx, discover.SearchRequest{
		Query:      in.Query,
		Subreddit:  in.Subreddit,
		Limit:      in.Limit,
		Sort:       in.Sort,
		TimeFilter: in.TimeFilter,
	})
	if err != nil {
		return nil, discover.SearchReport{}, fmt.Errorf("search_reddit_problems: %w", err)
	}
	return nil, *report, nil
}

func (s *Server) handleAnalyze(ctx context.Context, _ *sdkmcp.CallToolRequest, in analyzeInput) (*sdkmcp.CallToolResult, discover.SubredditReport, error) {
	report, err := s.engine.AnalyzeSubreddit(ctx, discover.AnalyzeRequest{
		Subreddit:  in.Subreddit,
		Limit:      in.Limit,
		Sort:       in.Sort,
		TimeFilter: in.TimeFilter,
	})
	if err != nil {
		return nil, discover.SubredditReport{}, fmt.Errorf("analyze_subreddit_problems: %w", err)
	}
	return nil, *report, nil
}

func (s *Server) handleTrending(ctx context.Context, _ *sdkmcp.CallToolRequest, in trendingInput) (*sdkmcp.CallToolResult, discover.TrendingReport, error) {
	report, err := s.engine.Trending(ctx, discover.TrendingRequest{
		Subreddits:  in.Subreddits,
		Limit:       in.Limit,
		MinScore:    in.MinScore,
		MinComments: in.MinComments,
	})
	if err != nil {
		return nil, discover.TrendingReport{}, fmt.Errorf("get_trending_problems: %w", err)
	}
	return nil, *report, nil
}

func (s *Server) handlePost(ctx context.Context, _ *sdkmcp.CallToolRequest, in postInput) (*sdkmcp.CallToolResult, discover.PostReport, error) {
	report, err := s.engine.PostInsights(ctx, discover.PostRequest{
		PostURL:         in.PostURL,
		WithoutComments: in.IncludeComments != nil && !*in.IncludeComments,
		CommentLimit:    in.CommentLimit,
	})
	if err != nil {
		return nil, discover.PostReport{}, fmt.Errorf("get_startup_ideas_from_post: %w", err)
	}
	return nil, *report, nil
}

func (s *Server) handlePatterns(ctx context.Context, _ *sdkmcp.CallToolRequest, in patternsInput) (*sdkmcp.CallToolResult, discover.PatternsReport, error) {
	report, err := s.engine.DiscoverPatterns(ctx, discover.PatternsRequest{
		Queries:       in.Queries,
		Subreddits:    in.Subreddits,
		PostsPerQuery: in.PostsPerQuery,
	})
	if err != nil {
		return nil, discover.PatternsReport{}, fmt.Errorf("discover_problem_patterns: %w", err)
	}
	return nil, *report, nil
}
