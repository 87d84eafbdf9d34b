// Package masto is the HTTP client for Mastodon-compatible instances.
//
// # Overview
//
// The package owns two things: the JSON entity types plume reads from the
// API (Account, Relationship, Status, FeaturedTag, Tag) and a small Client
// covering the handful of endpoints the account screen needs. It does not
// try to be a general API binding; every method maps to one request the
// profile or feed store actually issues.
//
// # Client
//
// Client normalizes the configured server value into a base URL (a bare
// host gets an https scheme), sends a bearer token when one is configured,
// and decodes JSON responses into the entity types. All methods take a
// context and respect its cancellation; the underlying http.Client also
// carries a 10 second timeout as a backstop.
//
// The API interface mirrors the Client's method set so the stores can be
// tested against in-memory doubles without a network.
//
// # Errors
//
// Failures are classified into three types:
//
//   - RequestError: the request never produced a response (transport
//     failure, timeout, cancelled context)
//   - DecodeError: the response body was not the expected JSON
//   - APIError: the server answered with a non-2xx status; NotAllowed()
//     distinguishes authorization and policy refusals (401/403/422)
//
// Callers that only care about the policy case can use IsNotAllowed.
package masto
