// Package client is the HTTP gateway to the marketplace backend.
//
// # Overview
//
// The package provides:
//  1. The Client interface: signup, login, whoami, profile update, product
//     listing/detail, product create/update/delete and image download.
//  2. HTTPClient, the net/http implementation. Every call goes through one
//     request helper that sets the bearer token and a request id, enforces
//     the configured timeout and returns either the decoded body or an error.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) for the
//     SQLite file that keeps the bearer token between runs.
//
// # Error Handling
//
// Non-2xx responses become *APIError, which matches ErrUnauthorized,
// ErrNotFound and ErrUnavailable through errors.Is. Transport failures,
// including timeouts, become *common.NetworkError. Nothing is retried.
package client
