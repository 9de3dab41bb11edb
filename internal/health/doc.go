// Package health reports the status indicators shown next to searches:
// whether a Tor SOCKS5 proxy answers, whether an LLM provider is configured,
// and whether each dark web source is usable.
//
// No indicator reaches a hidden service. The Tor probe only speaks the
// SOCKS5 handshake with the local proxy, and every indicator is computed
// from injectable inputs so results are reproducible in tests.
package health
