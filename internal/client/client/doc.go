// Package client is the transport layer of the bookflix client.
//
// # Overview
//
//  1. APIClient: the one HTTP client of the process. It decorates requests
//     with the bearer token from a TokenStore and an X-Request-ID, refreshes
//     the access token once on a 401 (shared between concurrent callers),
//     retries the original request once, and clears the session when the
//     refresh fails.
//  2. Local persistence bootstrap (InitDatabase, RunMigrations) that opens
//     the SQLite file holding the session and applies embedded goose
//     migrations.
//
// # Error Handling
//
// Failures match sentinel errors with errors.Is: ErrUnavailable,
// ErrUnauthorized, ErrForbidden, ErrNotFound, ErrSessionExpired. Non-2xx
// responses are *APIError values whose Message is ready for display.
package client
