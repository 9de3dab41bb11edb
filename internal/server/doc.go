// Package server exposes a search session over HTTP.
//
// Routes:
//
//	GET    /health
//	GET    /metrics
//	POST   /api/v1/search             {"query": "..."}; ?stream=true for NDJSON progress
//	GET    /api/v1/result
//	DELETE /api/v1/result
//	GET    /api/v1/export/{format}    text, markdown or json; ?chart=true&alert=true
//	GET    /api/v1/status
//	GET    /api/v1/config
//	PUT    /api/v1/config
//	POST   /api/v1/config/test
//	GET    /api/v1/queries
//
// The server serves one session, so concurrent searches from different
// clients are refused with 409 exactly as a second search from the same
// client would be.
package server
