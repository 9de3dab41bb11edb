// Package store provides SQLite-based storage for darkcti settings.
//
// The database holds one key/value table. The only key in use is
// ProviderKey, whose value is the JSON-encoded LLM provider configuration.
// modernc.org/sqlite keeps the binary CGO-free and the database a single
// file under the XDG data directory.
package store
