package feed

import (
	"context"
	"errors"
	"sync"

	"github.com/seberle/plume/internal/masto"
)

// Pager is the generic paginated-fetch contract an infinite-scroll consumer
// drives, independent of the concrete item type.
type Pager interface {
	Refresh(ctx context.Context) error
	FetchNextPage(ctx context.Context) error
	Loading() bool
	Len() int
	Exhausted() bool
}

// Ensure Feed implements Pager at compile time.
var _ Pager = (*Feed)(nil)

// TabKind selects which data set the feed serves.
type TabKind int

const (
	TabStatuses TabKind = iota
	TabFollowedTags
)

// Tab is the selected tab together with its payload. The followed-tags
// branch carries its list inline; the statuses branch lives in the feed's
// paginated list.
type Tab struct {
	Kind TabKind
	Tags []masto.Tag
}

// ErrTagsUnavailable means the followed-tags tab was selected while viewing
// an account other than the current user.
var ErrTagsUnavailable = errors.New("followed tags are only available for the current user")

const defaultPageSize = 20

// Feed owns the ordered status list below the profile header, or the
// followed-tags list when the viewer selects that tab on their own profile.
// Pages are keyed by a max_id cursor derived from the last status; entries
// are deduplicated by id and a failed page never punches a hole in the list.
type Feed struct {
	api            masto.API
	pageSize       int
	excludeReplies bool

	mu            sync.Mutex
	accountID     string
	isCurrentUser bool
	tab           Tab
	statuses      []masto.Status
	seen          map[string]struct{}
	loading       bool
	exhausted     bool
	lastErr       error
	gen           uint64
	cancel        context.CancelFunc

	notify chan struct{}
}

// NewFeed builds a feed for the given account id. The id may be empty when
// the profile is opened by handle; Bind supplies it once resolved.
// excludeReplies carries the user's preference into every status query.
func NewFeed(api masto.API, accountID string, isCurrentUser bool, pageSize int, excludeReplies bool) *Feed {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Feed{
		api:            api,
		pageSize:       pageSize,
		excludeReplies: excludeReplies,
		accountID:      accountID,
		isCurrentUser:  isCurrentUser,
		seen:           make(map[string]struct{}),
		notify:         make(chan struct{}, 1),
	}
}

// Bind sets the account the feed fetches for. Used when the profile was
// opened by handle and the id only becomes known after resolution.
func (f *Feed) Bind(accountID string, isCurrentUser bool) {
	f.mu.Lock()
	f.accountID = accountID
	f.isCurrentUser = isCurrentUser
	f.mu.Unlock()
}

// Watch returns a coalesced signal channel that fires after every change.
func (f *Feed) Watch() <-chan struct{} {
	return f.notify
}

// Snapshot is an immutable view of the feed for rendering.
type Snapshot struct {
	Tab       Tab
	Statuses  []masto.Status
	Loading   bool
	Exhausted bool
	Err       error
}

// Snapshot returns a copy of the current feed state.
func (f *Feed) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap := Snapshot{
		Tab:       Tab{Kind: f.tab.Kind, Tags: cloneTags(f.tab.Tags)},
		Statuses:  cloneStatuses(f.statuses),
		Loading:   f.loading,
		Exhausted: f.exhausted,
		Err:       f.lastErr,
	}
	return snap
}

// Loading reports whether a fetch is in flight.
func (f *Feed) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

// Len returns the number of items in the active tab.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tab.Kind == TabFollowedTags {
		return len(f.tab.Tags)
	}
	return len(f.statuses)
}

// Exhausted reports whether the server has no older statuses to page in.
func (f *Feed) Exhausted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exhausted
}

// Refresh replaces the active tab's list wholesale: the first status page,
// or the full followed-tags list. Any in-flight fetch is superseded.
func (f *Feed) Refresh(ctx context.Context) error {
	f.mu.Lock()
	if f.accountID == "" {
		f.mu.Unlock()
		return nil
	}
	if f.tab.Kind == TabFollowedTags {
		f.mu.Unlock()
		return f.fetchFollowedTags(ctx)
	}
	gen, fetchCtx := f.beginFetchLocked(ctx)
	id := f.accountID
	f.mu.Unlock()
	f.signal()

	statuses, err := f.api.GetStatuses(fetchCtx, id, masto.StatusQuery{
		Limit:          f.pageSize,
		ExcludeReplies: f.excludeReplies,
	})
	return f.applyStatuses(gen, statuses, err, true)
}

// FetchNextPage appends the page of statuses older than the last one held.
// It is a no-op while a fetch is in flight, when the feed is exhausted, or
// on the followed-tags tab, which is fetched in one shot.
func (f *Feed) FetchNextPage(ctx context.Context) error {
	f.mu.Lock()
	if f.accountID == "" || f.loading || f.tab.Kind == TabFollowedTags {
		f.mu.Unlock()
		return nil
	}
	if len(f.statuses) == 0 {
		f.mu.Unlock()
		return f.Refresh(ctx)
	}
	if f.exhausted {
		f.mu.Unlock()
		return nil
	}
	cursor := f.statuses[len(f.statuses)-1].ID
	gen, fetchCtx := f.beginFetchLocked(ctx)
	id := f.accountID
	f.mu.Unlock()
	f.signal()

	statuses, err := f.api.GetStatuses(fetchCtx, id, masto.StatusQuery{
		MaxID:          cursor,
		Limit:          f.pageSize,
		ExcludeReplies: f.excludeReplies,
	})
	return f.applyStatuses(gen, statuses, err, false)
}

// EnsureInitial fetches the first page only when the list is still empty,
// so the profile pipeline can trigger it without risking a duplicate first
// page when the feed already ran on its own.
func (f *Feed) EnsureInitial(ctx context.Context) error {
	f.mu.Lock()
	populated := len(f.statuses) > 0 || f.loading || f.tab.Kind == TabFollowedTags
	f.mu.Unlock()
	if populated {
		return nil
	}
	return f.Refresh(ctx)
}

// SelectTab switches the active tab. The outgoing tab's in-flight fetch is
// cancelled and its late completion discarded. Selecting the followed-tags
// tab triggers its one-shot fetch.
func (f *Feed) SelectTab(ctx context.Context, kind TabKind) error {
	f.mu.Lock()
	if f.tab.Kind == kind {
		f.mu.Unlock()
		return nil
	}
	if kind == TabFollowedTags && !f.isCurrentUser {
		f.mu.Unlock()
		return ErrTagsUnavailable
	}
	f.supersedeLocked()
	f.tab.Kind = kind
	f.lastErr = nil
	f.mu.Unlock()
	f.signal()

	if kind == TabFollowedTags {
		return f.fetchFollowedTags(ctx)
	}
	return f.EnsureInitial(ctx)
}

func (f *Feed) fetchFollowedTags(ctx context.Context) error {
	f.mu.Lock()
	gen, fetchCtx := f.beginFetchLocked(ctx)
	f.mu.Unlock()
	f.signal()

	tags, err := f.api.GetFollowedTags(fetchCtx)

	f.mu.Lock()
	if gen != f.gen {
		f.mu.Unlock()
		return nil
	}
	f.finishFetchLocked()
	if err != nil {
		f.lastErr = err
		f.mu.Unlock()
		f.signal()
		return err
	}
	f.tab.Tags = tags
	f.lastErr = nil
	f.mu.Unlock()
	f.signal()
	return nil
}

// beginFetchLocked supersedes any in-flight fetch and opens a new
// generation. Caller holds f.mu.
func (f *Feed) beginFetchLocked(ctx context.Context) (uint64, context.Context) {
	f.supersedeLocked()
	f.gen++
	f.loading = true
	fetchCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	return f.gen, fetchCtx
}

// finishFetchLocked releases the settled fetch's resources. Caller holds
// f.mu and has already verified the generation.
func (f *Feed) finishFetchLocked() {
	f.loading = false
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}

func (f *Feed) supersedeLocked() {
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.gen++
}

func (f *Feed) applyStatuses(gen uint64, statuses []masto.Status, err error, replace bool) error {
	f.mu.Lock()
	if gen != f.gen {
		f.mu.Unlock()
		return nil
	}
	f.finishFetchLocked()
	if err != nil {
		f.lastErr = err
		f.mu.Unlock()
		f.signal()
		return err
	}
	f.lastErr = nil
	if replace {
		f.statuses = nil
		f.seen = make(map[string]struct{})
		f.exhausted = false
	}
	appended := 0
	for _, status := range statuses {
		if _, dup := f.seen[status.ID]; dup {
			continue
		}
		f.seen[status.ID] = struct{}{}
		f.statuses = append(f.statuses, status)
		appended++
	}
	if len(statuses) == 0 || (!replace && appended == 0) {
		f.exhausted = true
	}
	f.mu.Unlock()
	f.signal()
	return nil
}

func (f *Feed) signal() {
	select {
	case f.notify <- struct{}{}:
	default:
	}
}

func cloneStatuses(statuses []masto.Status) []masto.Status {
	if len(statuses) == 0 {
		return nil
	}
	dup := make([]masto.Status, len(statuses))
	copy(dup, statuses)
	return dup
}

func cloneTags(tags []masto.Tag) []masto.Tag {
	if len(tags) == 0 {
		return nil
	}
	dup := make([]masto.Tag, len(tags))
	copy(dup, tags)
	return dup
}
