// Package feed is the paginated list below the account screen's header:
// the account's statuses, or the viewer's followed hashtags when that tab
// is selected on their own profile.
//
// # Pagination
//
// Statuses page forward with a max_id cursor taken from the last status
// held, newest first. Entries are deduplicated by id, so repeated refreshes
// and overlapping pages never produce duplicates, and a failed page simply
// does not extend the list. An empty page marks the feed exhausted.
//
// # Tabs and cancellation
//
// The active tab is a tagged value: the followed-tags branch carries its
// list as payload. Switching tabs cancels the in-flight fetch of the
// outgoing tab and bumps a generation counter; a completion whose
// generation no longer matches is discarded, never applied. Teardown works
// the same way, since every fetch context derives from the caller's.
//
// # Consumers
//
// The scrolling list drives the feed through the Pager interface
// (Refresh, FetchNextPage, Loading, Len, Exhausted) without knowing the
// item type, and re-renders from Snapshot on each Watch signal.
package feed
