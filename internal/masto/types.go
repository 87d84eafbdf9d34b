package masto

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Account mirrors the account entity returned by /api/v1/accounts/:id.
type Account struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Acct           string    `json:"acct"`
	DisplayName    string    `json:"display_name"`
	Note           string    `json:"note"`
	URL            string    `json:"url"`
	Avatar         string    `json:"avatar"`
	Header         string    `json:"header"`
	Locked         bool      `json:"locked"`
	Bot            bool      `json:"bot"`
	CreatedAt      time.Time `json:"created_at"`
	FollowersCount int64     `json:"followers_count"`
	FollowingCount int64     `json:"following_count"`
	StatusesCount  int64     `json:"statuses_count"`
	Fields         []Field   `json:"fields"`
}

// Handle returns the account's handle with a leading @.
func (a Account) Handle() string {
	if a.Acct == "" {
		return ""
	}
	return "@" + a.Acct
}

// Field is one row of an account's profile metadata table. Value is HTML;
// VerifiedAt is set when the instance verified the linked URL.
type Field struct {
	Name       string     `json:"name"`
	Value      string     `json:"value"`
	VerifiedAt *time.Time `json:"verified_at"`
}

// Verified reports whether the field carries a verification timestamp.
func (f Field) Verified() bool {
	return f.VerifiedAt != nil
}

// Relationship is the viewer-to-account edge from /api/v1/accounts/relationships.
type Relationship struct {
	ID         string `json:"id"`
	Following  bool   `json:"following"`
	FollowedBy bool   `json:"followed_by"`
	Blocking   bool   `json:"blocking"`
	BlockedBy  bool   `json:"blocked_by"`
	Muting     bool   `json:"muting"`
	Requested  bool   `json:"requested"`
}

// FeaturedTag is a hashtag pinned to an account's profile.
type FeaturedTag struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	URL           string `json:"url"`
	StatusesCount int64  `json:"statuses_count,string"`
	LastStatusAt  string `json:"last_status_at"`
}

// Tag is a hashtag entity with recent usage history, as returned by
// /api/v1/followed_tags.
type Tag struct {
	Name      string       `json:"name"`
	URL       string       `json:"url"`
	History   []TagHistory `json:"history"`
	Following bool         `json:"following"`
}

// TagHistory is one day of aggregate usage for a tag. The API encodes the
// numbers as strings.
type TagHistory struct {
	Day      string `json:"day"`
	Uses     string `json:"uses"`
	Accounts string `json:"accounts"`
}

// Uses sums the recent per-day usage counts.
func (t Tag) Uses() int64 {
	var total int64
	for _, h := range t.History {
		if n, err := strconv.ParseInt(h.Uses, 10, 64); err == nil {
			total += n
		}
	}
	return total
}

// Accounts returns the most recent distinct-account count.
func (t Tag) Accounts() int64 {
	if len(t.History) == 0 {
		return 0
	}
	n, err := strconv.ParseInt(t.History[0].Accounts, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// Status is a single post from /api/v1/accounts/:id/statuses.
type Status struct {
	ID              string    `json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	Content         string    `json:"content"`
	SpoilerText     string    `json:"spoiler_text"`
	Visibility      string    `json:"visibility"`
	URL             string    `json:"url"`
	RepliesCount    int64     `json:"replies_count"`
	ReblogsCount    int64     `json:"reblogs_count"`
	FavouritesCount int64     `json:"favourites_count"`
	Account         *Account  `json:"account"`
	Reblog          *Status   `json:"reblog"`
}

// IsReblog reports whether the status is a boost wrapper around another post.
func (s Status) IsReblog() bool {
	return s.Reblog != nil
}

var (
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
	breakPattern = regexp.MustCompile(`(?i)<br\s*/?>|</p>\s*<p[^>]*>`)
)

// Plain strips HTML from the status content for terminal display. Rich
// rendering of entities and links belongs to the presentation layer; this
// only flattens markup into readable text.
func (s Status) Plain() string {
	return PlainText(s.Content)
}

// PlainText flattens an HTML fragment into plain text with newlines for
// paragraph and line breaks.
func PlainText(html string) string {
	text := breakPattern.ReplaceAllString(html, "\n")
	text = tagPattern.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "&nbsp;", " ")
	text = strings.ReplaceAll(text, "&amp;", "&")
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")
	text = strings.ReplaceAll(text, "&quot;", `"`)
	text = strings.ReplaceAll(text, "&#39;", "'")
	return strings.TrimSpace(text)
}
