package reddit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"prospector/internal/logging"
)

const (
	defaultBaseURL  = "https://oauth.reddit.com"
	defaultTokenURL = "https://www.reddit.com/api/v1/access_token"
	defaultAgent    = "prospector/1.0"
)

// ErrNotFound is returned when a subreddit or post does not exist.
var ErrNotFound = errors.New("not found")

// StatusError is a non-200 API response other than 404.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("reddit API status %d: %s", e.Code, e.Body)
}

// Config holds Reddit API connection settings. ClientID/ClientSecret come
// from a script-type app; with both empty the client still works against a
// BaseURL override (tests).
type Config struct {
	ClientID     string
	ClientSecret string
	UserAgent    string
	BaseURL      string // default https://oauth.reddit.com
	TokenURL     string // default https://www.reddit.com/api/v1/access_token
}

// Client fetches posts and comments. All calls go through a shared rate
// limiter (Reddit allows 60 requests/minute for OAuth clients). Safe for
// concurrent use once constructed.
type Client struct {
	// HTTPClient is the OAuth2 client-credentials transport built at
	// construction. Tests may replace it before first use; it must not be
	// reassigned while calls are in flight.
	HTTPClient *http.Client

	cfg     Config
	limiter *rate.Limiter
}

// NewClient returns a client with the given config. The OAuth2 transport is
// built once here, never lazily, so concurrent first calls share one token
// source.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	if cfg.TokenURL == "" {
		cfg.TokenURL = defaultTokenURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultAgent
	}
	creds := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
	}
	return &Client{
		HTTPClient: creds.Client(context.Background()),
		cfg:        cfg,
		limiter:    rate.NewLimiter(rate.Limit(1), 5),
	}
}

// Search runs a query. sort "relevance"/"comments" go through the search
// endpoint; "hot"/"top"/"new"/"rising" fall back to the listing endpoints,
// mirroring how browsing sorts work on Reddit itself. Empty subreddit
// searches r/all.
func (c *Client) Search(ctx context.Context, query, subreddit string, limit int, sort, timeFilter string) ([]Post, error) {
	sub := subreddit
	if sub == "" {
		sub = "all"
	}
	switch sort {
	case "hot", "top", "new", "rising":
		return c.Posts(ctx, sub, sort, timeFilter, limit)
	}
	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("restrict_sr", "1")
	q.Set("raw_json", "1")
	if sort != "" {
		q.Set("sort", sort)
	}
	if timeFilter != "" {
		q.Set("t", timeFilter)
	}
	var lst listing
	if err := c.get(ctx, fmt.Sprintf("/r/%s/search", url.PathEscape(sub)), q, &lst); err != nil {
		return nil, err
	}
	return lst.posts(), nil
}

// Posts fetches a subreddit listing: sort is one of hot, new, top, rising.
// timeFilter applies to the top sort only.
func (c *Client) Posts(ctx context.Context, subreddit, sort, timeFilter string, limit int) ([]Post, error) {
	if subreddit == "" {
		subreddit = "all"
	}
	if sort == "" {
		sort = "hot"
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("raw_json", "1")
	if sort == "top" && timeFilter != "" {
		q.Set("t", timeFilter)
	}
	var lst listing
	path := fmt.Sprintf("/r/%s/%s", url.PathEscape(subreddit), sort)
	if err := c.get(ctx, path, q, &lst); err != nil {
		return nil, err
	}
	return lst.posts(), nil
}

// PostWithComments fetches a single post and up to commentLimit comments,
// walking reply chains depth-first the way the comment page lists them.
func (c *Client) PostWithComments(ctx context.Context, postID string, commentLimit int) (Post, []Comment, error) {
	q := url.Values{}
	q.Set("raw_json", "1")
	if commentLimit > 0 {
		q.Set("limit", strconv.Itoa(commentLimit))
	}
	var pages []listing
	if err := c.get(ctx, "/comments/"+url.PathEscape(postID), q, &pages); err != nil {
		return Post{}, nil, err
	}
	if len(pages) == 0 || len(pages[0].Data.Children) == 0 {
		return Post{}, nil, fmt.Errorf("post %s: %w", postID, ErrNotFound)
	}
	post := pages[0].Data.Children[0].Data.post()
	var comments []Comment
	if len(pages) > 1 {
		comments = collectComments(pages[1].Data.Children, commentLimit)
	}
	return post, comments, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	u := c.cfg.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	logging.New("reddit").Debug("GET", "path", path)
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", path, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// ParsePostURL extracts the submission ID from a reddit post URL or
// permalink (".../comments/<id>/...").
func ParsePostURL(raw string) (string, error) {
	_, after, found := strings.Cut(raw, "/comments/")
	if !found {
		return "", fmt.Errorf("no /comments/ segment in %q", raw)
	}
	id, _, _ := strings.Cut(after, "/")
	id, _, _ = strings.Cut(id, "?")
	if id == "" {
		return "", fmt.Errorf("empty post ID in %q", raw)
	}
	return id, nil
}

// --- wire shapes ---

type listing struct {
	Data struct {
		Children []child `json:"children"`
	} `json:"data"`
}

type child struct {
	Kind string    `json:"kind"`
	Data childData `json:"data"`
}

type childData struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Selftext    string          `json:"selftext"`
	Body        string          `json:"body"`
	Author      string          `json:"author"`
	Subreddit   string          `json:"subreddit"`
	Score       int             `json:"score"`
	NumComments int             `json:"num_comments"`
	CreatedUTC  float64         `json:"created_utc"`
	Permalink   string          `json:"permalink"`
	Replies     json.RawMessage `json:"replies"`
}

func (d childData) post() Post {
	return Post{
		ID:          d.ID,
		Title:       d.Title,
		Body:        d.Selftext,
		Author:      d.Author,
		Subreddit:   d.Subreddit,
		Score:       d.Score,
		NumComments: d.NumComments,
		CreatedUTC:  int64(d.CreatedUTC),
		Permalink:   d.Permalink,
	}
}

func (d childData) comment() Comment {
	return Comment{
		ID:         d.ID,
		Body:       d.Body,
		Author:     d.Author,
		Score:      d.Score,
		CreatedUTC: int64(d.CreatedUTC),
		Permalink:  d.Permalink,
	}
}

func (l listing) posts() []Post {
	out := make([]Post, 0, len(l.Data.Children))
	for _, ch := range l.Data.Children {
		if ch.Kind != "t3" {
			continue
		}
		out = append(out, ch.Data.post())
	}
	return out
}

// collectComments flattens t1 children depth-first up to limit. "more"
// stubs are skipped; the engine never requests continuation pages.
func collectComments(children []child, limit int) []Comment {
	var out []Comment
	var walk func([]child)
	walk = func(cs []child) {
		for _, ch := range cs {
			if limit > 0 && len(out) >= limit {
				return
			}
			if ch.Kind != "t1" {
				continue
			}
			out = append(out, ch.Data.comment())
			if len(ch.Data.Replies) > 0 && ch.Data.Replies[0] == '{' {
				var nested listing
				if err := json.Unmarshal(ch.Data.Replies, &nested); err == nil {
					walk(nested.Data.Children)
				}
			}
		}
	}
	walk(children)
	return out
}
