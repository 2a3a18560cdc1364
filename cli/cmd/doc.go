// Package cmd implements the stylec subcommands: compile, eval, ast and
// init.
//
// Commands write their results to the kong context's Stdout, encoded as
// JSON or YAML with [encode].
package cmd

// ConfigIdentifier is the kong variable identifier containing the path to
// the configuration file.
var ConfigIdentifier = "config"
