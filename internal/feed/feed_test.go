package feed

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"

	"github.com/seberle/plume/internal/masto"
)

// fakeAPI implements masto.API for feed tests. Only the statuses and
// followed-tags endpoints are expected to be hit.
type fakeAPI struct {
	mu          sync.Mutex
	getStatuses func(ctx context.Context, id string, query masto.StatusQuery) ([]masto.Status, error)
	getTags     func(ctx context.Context) ([]masto.Tag, error)
	queries     []masto.StatusQuery
}

func (f *fakeAPI) GetStatuses(ctx context.Context, id string, query masto.StatusQuery) ([]masto.Status, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	fn := f.getStatuses
	f.mu.Unlock()
	if fn == nil {
		return nil, errors.New("unexpected GetStatuses")
	}
	return fn(ctx, id, query)
}

func (f *fakeAPI) GetFollowedTags(ctx context.Context) ([]masto.Tag, error) {
	f.mu.Lock()
	fn := f.getTags
	f.mu.Unlock()
	if fn == nil {
		return nil, errors.New("unexpected GetFollowedTags")
	}
	return fn(ctx)
}

func (f *fakeAPI) lastQuery() masto.StatusQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queries) == 0 {
		return masto.StatusQuery{}
	}
	return f.queries[len(f.queries)-1]
}

func (f *fakeAPI) VerifyCredentials(ctx context.Context) (*masto.Account, error) {
	return nil, errors.New("unexpected VerifyCredentials")
}

func (f *fakeAPI) GetAccount(ctx context.Context, id string) (*masto.Account, error) {
	return nil, errors.New("unexpected GetAccount")
}

func (f *fakeAPI) LookupAccount(ctx context.Context, acct string) (*masto.Account, error) {
	return nil, errors.New("unexpected LookupAccount")
}

func (f *fakeAPI) GetRelationship(ctx context.Context, id string) (*masto.Relationship, error) {
	return nil, errors.New("unexpected GetRelationship")
}

func (f *fakeAPI) GetFeaturedTags(ctx context.Context, id string) ([]masto.FeaturedTag, error) {
	return nil, errors.New("unexpected GetFeaturedTags")
}

func (f *fakeAPI) Follow(ctx context.Context, id string) (*masto.Relationship, error) {
	return nil, errors.New("unexpected Follow")
}

func (f *fakeAPI) Unfollow(ctx context.Context, id string) (*masto.Relationship, error) {
	return nil, errors.New("unexpected Unfollow")
}

// pagedStatuses serves pages of ids descending from newest, keyed by the
// max_id cursor, the way the real API does.
func pagedStatuses(newest, pageSize int) func(ctx context.Context, id string, query masto.StatusQuery) ([]masto.Status, error) {
	return func(ctx context.Context, id string, query masto.StatusQuery) ([]masto.Status, error) {
		start := newest
		if query.MaxID != "" {
			n, err := strconv.Atoi(query.MaxID)
			if err != nil {
				return nil, fmt.Errorf("bad cursor %q", query.MaxID)
			}
			start = n - 1
		}
		var page []masto.Status
		for i := start; i > 0 && len(page) < pageSize; i-- {
			page = append(page, masto.Status{ID: strconv.Itoa(i)})
		}
		return page, nil
	}
}

func TestRefreshAndFetchNextPage_CursorAndOrder(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{getStatuses: pagedStatuses(10, 4)}
	f := NewFeed(api, "123", false, 4, false)

	if err := f.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	snap := f.Snapshot()
	if len(snap.Statuses) != 4 || snap.Statuses[0].ID != "10" || snap.Statuses[3].ID != "7" {
		t.Fatalf("statuses = %v, want 10..7", ids(snap.Statuses))
	}

	if err := f.FetchNextPage(context.Background()); err != nil {
		t.Fatalf("FetchNextPage returned error: %v", err)
	}
	if got := api.lastQuery().MaxID; got != "7" {
		t.Fatalf("cursor = %q, want last-seen id 7", got)
	}
	snap = f.Snapshot()
	if len(snap.Statuses) != 8 || snap.Statuses[7].ID != "3" {
		t.Fatalf("statuses = %v, want 10..3 with no gap", ids(snap.Statuses))
	}
	if snap.Exhausted {
		t.Fatal("Exhausted = true, want false while pages remain")
	}

	// Drain the rest; the empty page marks exhaustion.
	if err := f.FetchNextPage(context.Background()); err != nil {
		t.Fatalf("FetchNextPage returned error: %v", err)
	}
	if err := f.FetchNextPage(context.Background()); err != nil {
		t.Fatalf("FetchNextPage returned error: %v", err)
	}
	snap = f.Snapshot()
	if len(snap.Statuses) != 10 {
		t.Fatalf("statuses = %v, want all 10", ids(snap.Statuses))
	}
	if !snap.Exhausted {
		t.Fatal("Exhausted = false, want true after final page")
	}
	if !f.Exhausted() || f.Len() != 10 || f.Loading() {
		t.Fatalf("Pager view = (exhausted %v, len %d, loading %v), want (true, 10, false)",
			f.Exhausted(), f.Len(), f.Loading())
	}
}

func TestRefresh_TwiceNeverDuplicates(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{getStatuses: pagedStatuses(6, 20)}
	f := NewFeed(api, "123", false, 20, false)

	if err := f.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if err := f.Refresh(context.Background()); err != nil {
		t.Fatalf("second Refresh returned error: %v", err)
	}

	snap := f.Snapshot()
	seen := map[string]bool{}
	for _, s := range snap.Statuses {
		if seen[s.ID] {
			t.Fatalf("duplicate status id %s in %v", s.ID, ids(snap.Statuses))
		}
		seen[s.ID] = true
	}
	if len(snap.Statuses) != 6 {
		t.Fatalf("statuses = %v, want 6 unique", ids(snap.Statuses))
	}
}

func TestFetchNextPage_OverlappingPageDeduplicates(t *testing.T) {
	t.Parallel()

	calls := 0
	api := &fakeAPI{}
	api.getStatuses = func(ctx context.Context, id string, query masto.StatusQuery) ([]masto.Status, error) {
		calls++
		if calls == 1 {
			return []masto.Status{{ID: "5"}, {ID: "4"}}, nil
		}
		// Server re-serves an already seen id alongside a new one.
		return []masto.Status{{ID: "4"}, {ID: "3"}}, nil
	}
	f := NewFeed(api, "123", false, 2, false)

	if err := f.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if err := f.FetchNextPage(context.Background()); err != nil {
		t.Fatalf("FetchNextPage returned error: %v", err)
	}

	snap := f.Snapshot()
	if got := ids(snap.Statuses); len(got) != 3 || got[0] != "5" || got[2] != "3" {
		t.Fatalf("statuses = %v, want [5 4 3]", got)
	}
}

func TestFetchNextPage_FailedPageLeavesListIntact(t *testing.T) {
	t.Parallel()

	calls := 0
	api := &fakeAPI{}
	api.getStatuses = func(ctx context.Context, id string, query masto.StatusQuery) ([]masto.Status, error) {
		calls++
		if calls == 1 {
			return []masto.Status{{ID: "2"}, {ID: "1"}}, nil
		}
		return nil, errors.New("page fetch failed")
	}
	f := NewFeed(api, "123", false, 2, false)

	if err := f.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if err := f.FetchNextPage(context.Background()); err == nil {
		t.Fatal("FetchNextPage returned nil, want error")
	}

	snap := f.Snapshot()
	if got := ids(snap.Statuses); len(got) != 2 || got[0] != "2" {
		t.Fatalf("statuses = %v, want [2 1] unchanged after failed page", got)
	}
	if snap.Err == nil {
		t.Fatal("snapshot error is nil, want recorded failure")
	}
	if snap.Loading {
		t.Fatal("Loading = true after settlement, want false")
	}
}

func TestSelectTab_DiscardsInFlightStatusesFetch(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once
	api := &fakeAPI{
		getStatuses: func(ctx context.Context, id string, query masto.StatusQuery) ([]masto.Status, error) {
			once.Do(func() { close(started) })
			<-release
			return []masto.Status{{ID: "99", Content: "stale"}}, nil
		},
		getTags: func(ctx context.Context) ([]masto.Tag, error) {
			return []masto.Tag{{Name: "birds"}}, nil
		},
	}
	f := NewFeed(api, "me", true, 20, false)

	done := make(chan error, 1)
	go func() { done <- f.Refresh(context.Background()) }()
	<-started

	if err := f.SelectTab(context.Background(), TabFollowedTags); err != nil {
		t.Fatalf("SelectTab returned error: %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("superseded Refresh returned error: %v", err)
	}

	snap := f.Snapshot()
	if snap.Tab.Kind != TabFollowedTags {
		t.Fatalf("tab = %v, want TabFollowedTags", snap.Tab.Kind)
	}
	if len(snap.Tab.Tags) != 1 || snap.Tab.Tags[0].Name != "birds" {
		t.Fatalf("tags = %#v, want birds", snap.Tab.Tags)
	}
	if len(snap.Statuses) != 0 {
		t.Fatalf("statuses = %v, want stale completion discarded", ids(snap.Statuses))
	}
	if f.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (tags tab)", f.Len())
	}
}

func TestSelectTab_RoundTripKeepsStatuses(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		getStatuses: pagedStatuses(3, 20),
		getTags: func(ctx context.Context) ([]masto.Tag, error) {
			return []masto.Tag{{Name: "birds"}}, nil
		},
	}
	f := NewFeed(api, "me", true, 20, false)

	if err := f.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if err := f.SelectTab(context.Background(), TabFollowedTags); err != nil {
		t.Fatalf("SelectTab(tags) returned error: %v", err)
	}
	if err := f.SelectTab(context.Background(), TabStatuses); err != nil {
		t.Fatalf("SelectTab(statuses) returned error: %v", err)
	}

	snap := f.Snapshot()
	if snap.Tab.Kind != TabStatuses {
		t.Fatalf("tab = %v, want TabStatuses", snap.Tab.Kind)
	}
	if len(snap.Statuses) != 3 {
		t.Fatalf("statuses = %v, want cached list kept across tab round trip", ids(snap.Statuses))
	}
}

func TestSelectTab_TagsRequireCurrentUser(t *testing.T) {
	t.Parallel()

	f := NewFeed(&fakeAPI{}, "123", false, 20, false)
	if err := f.SelectTab(context.Background(), TabFollowedTags); !errors.Is(err, ErrTagsUnavailable) {
		t.Fatalf("SelectTab error = %v, want ErrTagsUnavailable", err)
	}
}

func TestEnsureInitial_OnlyFetchesWhenEmpty(t *testing.T) {
	t.Parallel()

	calls := 0
	api := &fakeAPI{}
	api.getStatuses = func(ctx context.Context, id string, query masto.StatusQuery) ([]masto.Status, error) {
		calls++
		return []masto.Status{{ID: "1"}}, nil
	}
	f := NewFeed(api, "123", false, 20, false)

	if err := f.EnsureInitial(context.Background()); err != nil {
		t.Fatalf("EnsureInitial returned error: %v", err)
	}
	if err := f.EnsureInitial(context.Background()); err != nil {
		t.Fatalf("second EnsureInitial returned error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("status fetches = %d, want redundant first page avoided", calls)
	}
}

func TestRefresh_NoAccountBoundIsNoop(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{getStatuses: pagedStatuses(1, 20)}
	f := NewFeed(api, "", false, 20, false)

	if err := f.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if f.Len() != 0 || len(api.queries) != 0 {
		t.Fatalf("Len() = %d, queries = %d, want no fetch before Bind", f.Len(), len(api.queries))
	}

	f.Bind("123", false)
	if err := f.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh after Bind returned error: %v", err)
	}
	if f.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 after Bind", f.Len())
	}
}

func TestStatusQueries_CarryExcludeReplies(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{getStatuses: pagedStatuses(10, 3)}
	f := NewFeed(api, "123", false, 3, true)

	if err := f.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if err := f.FetchNextPage(context.Background()); err != nil {
		t.Fatalf("FetchNextPage returned error: %v", err)
	}

	if len(api.queries) != 2 {
		t.Fatalf("queries = %d, want 2", len(api.queries))
	}
	for i, q := range api.queries {
		if !q.ExcludeReplies {
			t.Fatalf("query %d = %+v, want ExcludeReplies set", i, q)
		}
	}
}

func ids(statuses []masto.Status) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, s.ID)
	}
	return out
}
