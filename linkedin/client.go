package linkedin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jasmeetsingh/autoposter/config"
	"github.com/jasmeetsingh/autoposter/models"
)

const (
	userInfoPath = "/v2/userinfo"
	ugcPostsPath = "/v2/ugcPosts"

	restliProtocolVersion = "2.0.0"
	postIDHeader          = "x-restli-id"
	defaultPostID         = "Unknown"
)

// Identity resolves the authenticated actor URN when it is not already known.
type Identity interface {
	ResolveIdentity(ctx context.Context, tokens models.AuthTokens) (string, error)
}

// Publisher submits one post. A non-201 response is a failure result, not an
// error; errors are reserved for requests that never completed.
type Publisher interface {
	Publish(ctx context.Context, tokens models.AuthTokens, text string) (models.PublishResult, error)
}

// Client implements Identity and Publisher against the LinkedIn REST API.
type Client struct {
	endpoint   string
	version    string
	httpClient *http.Client
}

// NewClient creates an API client from the linkedin configuration.
func NewClient(cfg config.LinkedInConfig) *Client {
	return &Client{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		version:    cfg.Version,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// ResolveIdentity derives the actor URN from the userinfo subject claim.
// Failure here is terminal for a run; there is no retry.
func (c *Client) ResolveIdentity(ctx context.Context, tokens models.AuthTokens) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+userInfoPath, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("user info returned status %d: %s", resp.StatusCode, string(body))
	}

	var info struct {
		Sub string `json:"sub"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		return "", fmt.Errorf("failed to parse user info: %w", err)
	}
	if info.Sub == "" {
		return "", fmt.Errorf("user info missing subject claim")
	}
	return "urn:li:person:" + info.Sub, nil
}

type shareCommentary struct {
	Text string `json:"text"`
}

type shareContent struct {
	ShareCommentary    shareCommentary `json:"shareCommentary"`
	ShareMediaCategory string          `json:"shareMediaCategory"`
}

// postBody is the ugcPosts request document: fixed lifecycle, no media,
// public visibility, the post text as the only content.
type postBody struct {
	Author          string                  `json:"author"`
	LifecycleState  string                  `json:"lifecycleState"`
	SpecificContent map[string]shareContent `json:"specificContent"`
	Visibility      map[string]string       `json:"visibility"`
}

// Publish submits text as a new post authored by the tokens' person URN.
// HTTP 201 is the only success status; the created post id is read from the
// x-restli-id response header. Any other status yields a failure result
// carrying the raw response body. Nothing is retried or queued.
func (c *Client) Publish(ctx context.Context, tokens models.AuthTokens, text string) (models.PublishResult, error) {
	body := postBody{
		Author:         tokens.PersonURN,
		LifecycleState: "PUBLISHED",
		SpecificContent: map[string]shareContent{
			"com.linkedin.ugc.ShareContent": {
				ShareCommentary:    shareCommentary{Text: text},
				ShareMediaCategory: "NONE",
			},
		},
		Visibility: map[string]string{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return models.PublishResult{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+ugcPostsPath, bytes.NewBuffer(jsonData))
	if err != nil {
		return models.PublishResult{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	req.Header.Set("X-Restli-Protocol-Version", restliProtocolVersion)
	req.Header.Set("LinkedIn-Version", c.version)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.PublishResult{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.PublishResult{}, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		return models.PublishResult{Success: false, Error: string(respBody)}, nil
	}

	postID := resp.Header.Get(postIDHeader)
	if postID == "" {
		postID = defaultPostID
	}
	return models.PublishResult{Success: true, PostID: postID}, nil
}
