// Package config assembles the server configuration.
//
// Sources are layered; a later source overrides the non-zero fields of an
// earlier one:
//   - environment variables (caarlos0/env)
//   - command-line flags
//   - a JSON file named by CONFIG or -c
//
// Built-in defaults fill whatever is still zero, then the result is validated.
// [GetStructuredConfig] is the entry point for the server; tools that only
// touch the database use [GetStorageConfig].
package config
