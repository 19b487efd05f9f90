package googlenews

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed/rss"

	"github.com/jasmeetsingh/autoposter/config"
	"github.com/jasmeetsingh/autoposter/internal/helpers"
	"github.com/jasmeetsingh/autoposter/models"
)

const (
	defaultSource = "Google News"
	defaultDate   = "recent"
)

// Client queries the Google News RSS search feed. One Search call issues one
// feed request and yields at most the configured number of candidates.
type Client struct {
	endpoint      string
	language      string
	country       string
	userAgent     string
	perQuery      int
	snippetLength int
	httpClient    *http.Client
}

// New creates a feed client from the search configuration.
func New(cfg config.SearchConfig) *Client {
	return &Client{
		endpoint:      cfg.Endpoint,
		language:      cfg.Language,
		country:       cfg.Country,
		userAgent:     cfg.UserAgent,
		perQuery:      cfg.PerQuery,
		snippetLength: cfg.SnippetLength,
		httpClient:    &http.Client{Timeout: cfg.Timeout},
	}
}

// Search fetches one query's feed and returns its leading items as topic
// candidates. The feed rejects clients without a browser User-Agent.
func (c *Client) Search(ctx context.Context, query string) ([]models.TopicCandidate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(query), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status: %d", resp.StatusCode)
	}

	// The universal gofeed model drops the per-item <source> element this
	// feed carries, so parse with the RSS parser directly.
	parser := &rss.Parser{}
	feed, err := parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	limit := c.perQuery
	if limit > len(feed.Items) {
		limit = len(feed.Items)
	}

	candidates := make([]models.TopicCandidate, 0, limit)
	for _, item := range feed.Items[:limit] {
		candidates = append(candidates, c.toCandidate(item))
	}
	return candidates, nil
}

func (c *Client) buildURL(query string) string {
	params := url.Values{}
	params.Set("q", query)
	params.Set("hl", c.language)
	params.Set("gl", c.country)
	params.Set("ceid", c.ceid())
	return c.endpoint + "?" + params.Encode()
}

// ceid is the feed's country:language edition parameter, e.g. "US:en".
func (c *Client) ceid() string {
	lang := c.language
	if i := strings.IndexByte(lang, '-'); i > 0 {
		lang = lang[:i]
	}
	return c.country + ":" + lang
}

func (c *Client) toCandidate(item *rss.Item) models.TopicCandidate {
	// Descriptions arrive as HTML fragments; strip them to plain text,
	// decode leftover entities, then bound the snippet length.
	snippet := html.UnescapeString(helpers.SanitizeHTMLStrict(item.Description))
	if runes := []rune(snippet); len(runes) > c.snippetLength {
		snippet = string(runes[:c.snippetLength])
	}

	source := defaultSource
	if item.Source != nil && strings.TrimSpace(item.Source.Title) != "" {
		source = item.Source.Title
	}

	date := defaultDate
	if strings.TrimSpace(item.PubDate) != "" {
		date = item.PubDate
	}

	return models.TopicCandidate{
		Title:  strings.TrimSpace(item.Title),
		Body:   snippet,
		Source: source,
		Date:   date,
	}
}
