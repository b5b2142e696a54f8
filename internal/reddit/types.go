// Package reddit implements the fetch side of the pipeline: a thin Reddit
// API client over OAuth2 app-only auth. It returns raw post and comment
// records and never scores or caches anything. Retrying a failed fetch is
// the caller's decision, not the client's.
package reddit

// Post is a raw submission as fetched. Immutable once returned; owned by
// the invocation that fetched it.
type Post struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	Author      string `json:"author"`
	Subreddit   string `json:"subreddit"`
	Score       int    `json:"score"`
	NumComments int    `json:"num_comments"`
	CreatedUTC  int64  `json:"created_utc"`
	Permalink   string `json:"permalink"`
}

// Comment is a raw comment as fetched.
type Comment struct {
	ID         string `json:"id"`
	Body       string `json:"body"`
	Author     string `json:"author"`
	Score      int    `json:"score"`
	CreatedUTC int64  `json:"created_utc"`
	Permalink  string `json:"permalink"`
}

// URL returns the full reddit.com link for a post.
func (p Post) URL() string {
	return "https://reddit.com" + p.Permalink
}

// Text returns the title and body joined for keyword matching.
func (p Post) Text() string {
	if p.Body == "" {
		return p.Title
	}
	return p.Title + " " + p.Body
}
