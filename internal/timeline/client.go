// Package timeline fetches recent posts from the authenticated user's
// reverse-chronological feed and enriches them with author metadata.
package timeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dghubble/oauth1"

	"newsagent/config"
	"newsagent/internal/runlog"
	"newsagent/models"
)

// FetchError carries the upstream status code and message when the
// feed call does not succeed.
type FetchError struct {
	StatusCode int
	Message    string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("timeline fetch failed: status %d: %s", e.StatusCode, e.Message)
}

// Client retrieves recent posts over a signed HTTP client. The signing
// mechanism itself is opaque: the oauth1 transport attaches a valid
// authorization header to every request.
type Client struct {
	baseURL    string
	maxResults int
	httpClient *http.Client
	rl         *runlog.Log
	logger     *log.Logger

	mu     sync.Mutex
	userID string // resolved once via /users/me
}

// New builds a client whose requests are signed with the configured
// user-context credentials.
func New(cfg config.TimelineConfig, rl *runlog.Log) *Client {
	oc := oauth1.NewConfig(cfg.APIKey, cfg.APISecret)
	token := oauth1.NewToken(cfg.AccessToken, cfg.AccessSecret)
	hc := oc.Client(oauth1.NoContext, token)
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	hc.Timeout = timeout
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 50
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		maxResults: maxResults,
		httpClient: hc,
		rl:         rl,
		logger:     log.New(log.Writer(), "[FETCH] ", log.LstdFlags),
	}
}

type meResponse struct {
	Data struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"data"`
}

type timelineResponse struct {
	Data []struct {
		ID            string               `json:"id"`
		Text          string               `json:"text"`
		AuthorID      string               `json:"author_id"`
		CreatedAt     time.Time            `json:"created_at"`
		PublicMetrics models.PublicMetrics `json:"public_metrics"`
	} `json:"data"`
	Includes struct {
		Users []models.User `json:"users"`
	} `json:"includes"`
}

// RecentPosts returns up to maxResults most-recent non-reply,
// non-repost posts from the caller's timeline, each enriched with the
// author's handle and verification status from the included-users list.
func (c *Client) RecentPosts(ctx context.Context) ([]models.Post, error) {
	c.rl.Info("Fetching recent posts from timeline")

	userID, err := c.resolveUserID(ctx)
	if err != nil {
		c.rl.Error("Timeline fetch failed: %v", err)
		return nil, err
	}

	params := url.Values{}
	params.Set("max_results", fmt.Sprintf("%d", c.maxResults))
	params.Set("exclude", "replies,retweets")
	params.Set("expansions", "author_id")
	params.Set("tweet.fields", "created_at,author_id,public_metrics")
	params.Set("user.fields", "username,verified")

	reqURL := fmt.Sprintf("%s/users/%s/timelines/reverse_chronological?%s", c.baseURL, userID, params.Encode())
	var result timelineResponse
	if err := c.getJSON(ctx, reqURL, &result); err != nil {
		c.rl.Error("Timeline fetch failed: %v", err)
		return nil, err
	}

	users := make(map[string]models.User, len(result.Includes.Users))
	for _, u := range result.Includes.Users {
		users[u.ID] = u
	}

	posts := make([]models.Post, 0, len(result.Data))
	for _, d := range result.Data {
		p := models.Post{
			ID:             d.ID,
			Text:           d.Text,
			AuthorID:       d.AuthorID,
			CreatedAt:      d.CreatedAt,
			Metrics:        d.PublicMetrics,
			AuthorUsername: "unknown",
		}
		if u, ok := users[d.AuthorID]; ok {
			p.AuthorUsername = u.Username
			p.AuthorVerified = u.Verified
		}
		posts = append(posts, p)
	}

	c.rl.Success("Fetched %d posts from timeline", len(posts))
	return posts, nil
}

// resolveUserID looks up the authenticated account once and caches it
// for the process lifetime.
func (c *Client) resolveUserID(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.userID != "" {
		return c.userID, nil
	}
	var me meResponse
	if err := c.getJSON(ctx, c.baseURL+"/users/me", &me); err != nil {
		return "", err
	}
	if me.Data.ID == "" {
		return "", &FetchError{StatusCode: http.StatusOK, Message: "users/me returned no account"}
	}
	c.logger.Printf("resolved timeline account @%s (%s)", me.Data.Username, me.Data.ID)
	c.userID = me.Data.ID
	return c.userID, nil
}

func (c *Client) getJSON(ctx context.Context, reqURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &FetchError{StatusCode: resp.StatusCode, Message: upstreamMessage(resp.Body, resp.Status)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// upstreamMessage pulls a human-readable error out of the response
// body, falling back to the HTTP status text.
func upstreamMessage(body io.Reader, fallback string) string {
	raw, _ := io.ReadAll(io.LimitReader(body, 1024))
	var apiErr struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(raw, &apiErr); err == nil {
		switch {
		case apiErr.Detail != "":
			return apiErr.Detail
		case apiErr.Title != "":
			return apiErr.Title
		case len(apiErr.Errors) > 0 && apiErr.Errors[0].Message != "":
			return apiErr.Errors[0].Message
		}
	}
	if s := strings.TrimSpace(string(raw)); s != "" {
		return s
	}
	return fallback
}
