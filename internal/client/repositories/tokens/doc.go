// Package tokens persists the single bearer token that outlives client
// restarts. The token is stored under one fixed key in the local SQLite
// database and is the only client-persisted value.
package tokens
