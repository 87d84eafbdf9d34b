// Package app wires plume together: it loads the configuration and user
// preferences, builds the API client, identifies the viewer, constructs the
// profile store and status feed for the requested account, and hands them
// to the UI.
//
// The two fetch pipelines (profile and statuses) start concurrently from
// the UI's Init; neither waits for the other. Cancellation of the context
// passed to Run tears everything down, including in-flight fetches.
package app
