// Package client is the authenticated HTTP access layer for the Eventhub
// REST backend.
//
// # Overview
//
//  1. Resolver picks the backend base address on every request: an explicit
//     value if set, the production address when running on the production
//     host, the local development address otherwise.
//  2. Dispatcher builds and sends one HTTP request, attaching the stored
//     access token as a bearer credential.
//  3. Guard wraps the Dispatcher. On a 401 it refreshes the access token
//     once and replays the original request once. A failed refresh purges
//     the credential store and fires the auth-failure handlers.
//  4. HTTPClient exposes the backend endpoints as typed methods.
//
// # Errors
//
// Transport failures surface as *NetworkError (errors.Is(err, ErrUnavailable)),
// non-2xx responses as *HTTPError, rejected logins as *AuthError and per-field
// backend validation failures as *ValidationError.
//
// # Concurrency
//
// All types are safe for concurrent use. Concurrent 401s share one in-flight
// refresh call.
package client
