// Package config provides configuration structures and utilities for darkcti.
// It defines the options for searching, serving the HTTP API and report
// output, the LLM provider settings persisted between runs, and the optional
// .darkcti YAML file.
package config
