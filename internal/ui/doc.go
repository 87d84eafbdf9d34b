// Package ui renders the account screen with Bubble Tea.
//
// The model is a pure consumer of the profile store and the status feed: it
// subscribes to their Watch channels, re-renders from snapshots, and routes
// every mutation (refresh, follow toggle, tab switch, next page) through
// the stores' operations as Bubble Tea commands. The Bubble Tea loop is the
// single task queue all state transitions land on.
package ui
