// Package client talks to the authentication API.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface):
//     Register, Login, GetProfile, UpdateProfile, DeleteProfile.
//  2. An HTTP implementation (see HTTPClient) bound to one configurable base
//     URL. Its transport attaches "Authorization: Bearer <token>" to every
//     request, taking the token from the request context (WithToken) or, when
//     absent, from the configured TokenSource.
//
// # Error Handling
//
// Non-2xx responses become *APIError values that wrap one of the sentinel
// errors below, so callers can match with errors.Is and still reach the
// server-provided message with errors.As or UserMessage. Transport failures
// wrap ErrUnavailable.
package client
