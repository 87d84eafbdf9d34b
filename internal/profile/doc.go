// Package profile is the state store behind the account screen's header:
// the profile itself, the viewer's relationship to it, the profile metadata
// fields and the featured hashtags.
//
// # State machine
//
// The profile fetch runs a four-phase machine (Idle, Loading, Loaded,
// Failed) carried by LoadState. Relationship and featured-tag fetches sit
// outside the machine: when they fail the previously held values are kept
// and the failure is only logged, so a flaky secondary fetch never blanks a
// usable screen. A store built from a Known account starts in Loaded
// without touching the network.
//
// # Coalescing and toggles
//
// Overlapping FetchAccount calls are coalesced with a generation counter:
// only the most recently started call may apply its result, so two
// in-flight fetches can never interleave their state transitions. Follow
// and Unfollow apply the toggle optimistically, then replace it with the
// server-confirmed relationship; on failure the exact pre-call relationship
// is restored and the error is returned to the caller. A toggle issued
// while another is in flight is rejected with ErrToggleInFlight rather than
// queued.
//
// # Consuming the store
//
// Consumers read Snapshot (a defensive copy) and subscribe to Watch, a
// coalesced signal channel that fires after every state change. The store
// is safe for use from multiple goroutines; the rendering layer must treat
// snapshots as read-only.
package profile
