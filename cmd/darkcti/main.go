// Package main provides the entry point for the darkcti CLI.
//
// darkcti simulates a dark web cyber threat intelligence search: it runs a
// query through timed search phases, matches it against sample IOCs and
// threat actors, and renders a report.
//
// Usage:
//
//	darkcti search "ransomware targeting banks"
//	darkcti search --list queries.txt --json
//	darkcti serve
//
// See --help for all available options.
package main

func main() {
	Execute()
}
