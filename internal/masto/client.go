package masto

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// API defines the instance operations the stores depend on. It is
// implemented by *Client and by test doubles.
type API interface {
	VerifyCredentials(ctx context.Context) (*Account, error)
	GetAccount(ctx context.Context, id string) (*Account, error)
	LookupAccount(ctx context.Context, acct string) (*Account, error)
	GetRelationship(ctx context.Context, id string) (*Relationship, error)
	GetFeaturedTags(ctx context.Context, id string) ([]FeaturedTag, error)
	GetStatuses(ctx context.Context, id string, query StatusQuery) ([]Status, error)
	GetFollowedTags(ctx context.Context) ([]Tag, error)
	Follow(ctx context.Context, id string) (*Relationship, error)
	Unfollow(ctx context.Context, id string) (*Relationship, error)
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// Client talks to a Mastodon-compatible HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	token     string
	userAgent string
}

const (
	defaultUserAgent = "plume/0.1"
	requestTimeout   = 10 * time.Second
)

// NewClient builds a Client for the given instance base URL. The access
// token may be empty for anonymous reads of public endpoints.
func NewClient(server, token string) (*Client, error) {
	base, err := parseBaseURL(server)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		token:     token,
		userAgent: defaultUserAgent,
	}, nil
}

// VerifyCredentials returns the account that owns the access token.
func (c *Client) VerifyCredentials(ctx context.Context) (*Account, error) {
	var payload Account
	if err := c.get(ctx, "/api/v1/accounts/verify_credentials", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// GetAccount retrieves an account's profile by id.
func (c *Client) GetAccount(ctx context.Context, id string) (*Account, error) {
	var payload Account
	if err := c.get(ctx, "/api/v1/accounts/"+url.PathEscape(id), nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// LookupAccount resolves a handle like "alice@example.social" to an account
// without requiring authentication.
func (c *Client) LookupAccount(ctx context.Context, acct string) (*Account, error) {
	values := url.Values{}
	values.Set("acct", strings.TrimPrefix(strings.TrimSpace(acct), "@"))
	var payload Account
	if err := c.get(ctx, "/api/v1/accounts/lookup", values, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// GetRelationship retrieves the viewer's relationship to the account.
func (c *Client) GetRelationship(ctx context.Context, id string) (*Relationship, error) {
	values := url.Values{}
	values.Set("id[]", id)
	var payload []Relationship
	if err := c.get(ctx, "/api/v1/accounts/relationships", values, &payload); err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, &DecodeError{Op: "get relationship", Err: fmt.Errorf("empty relationship list for id %s", id)}
	}
	rel := payload[0]
	return &rel, nil
}

// GetFeaturedTags retrieves the hashtags the account features on its profile.
func (c *Client) GetFeaturedTags(ctx context.Context, id string) ([]FeaturedTag, error) {
	var payload []FeaturedTag
	path := "/api/v1/accounts/" + url.PathEscape(id) + "/featured_tags"
	if err := c.get(ctx, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// StatusQuery configures a statuses page request. MaxID is the pagination
// cursor: only statuses older than it are returned.
type StatusQuery struct {
	MaxID          string
	Limit          int
	ExcludeReplies bool
}

// GetStatuses retrieves one page of the account's statuses, newest first.
func (c *Client) GetStatuses(ctx context.Context, id string, query StatusQuery) ([]Status, error) {
	values := url.Values{}
	if query.MaxID != "" {
		values.Set("max_id", query.MaxID)
	}
	if query.Limit > 0 {
		values.Set("limit", strconv.Itoa(query.Limit))
	}
	if query.ExcludeReplies {
		values.Set("exclude_replies", "true")
	}
	var payload []Status
	path := "/api/v1/accounts/" + url.PathEscape(id) + "/statuses"
	if err := c.get(ctx, path, values, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// GetFollowedTags retrieves the full list of hashtags the current user follows.
func (c *Client) GetFollowedTags(ctx context.Context) ([]Tag, error) {
	values := url.Values{}
	values.Set("limit", "200")
	var payload []Tag
	if err := c.get(ctx, "/api/v1/followed_tags", values, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Follow requests to follow the account and returns the updated relationship.
func (c *Client) Follow(ctx context.Context, id string) (*Relationship, error) {
	return c.postRelationship(ctx, id, "follow")
}

// Unfollow stops following the account and returns the updated relationship.
func (c *Client) Unfollow(ctx context.Context, id string) (*Relationship, error) {
	return c.postRelationship(ctx, id, "unfollow")
}

func (c *Client) postRelationship(ctx context.Context, id, action string) (*Relationship, error) {
	var payload Relationship
	path := "/api/v1/accounts/" + url.PathEscape(id) + "/" + action
	rel := &url.URL{Path: path}
	if err := c.doURL(ctx, http.MethodPost, rel, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) get(ctx context.Context, path string, values url.Values, dest any) error {
	rel := &url.URL{Path: path}
	if len(values) > 0 {
		rel.RawQuery = values.Encode()
	}
	return c.doURL(ctx, http.MethodGet, rel, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, dest any) error {
	op := fmt.Sprintf("%s %s", strings.ToLower(method), rel.Path)

	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return &APIError{Op: op, StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return &DecodeError{Op: op, Err: err}
	}
	return nil
}

// readErrorMessage extracts the "error" field servers include in failure
// bodies. Anything unparseable is ignored.
func readErrorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Error)
}

func parseBaseURL(server string) (*url.URL, error) {
	trimmed := strings.TrimSpace(server)
	if trimmed == "" {
		return nil, fmt.Errorf("server url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse server %q: %w", server, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
