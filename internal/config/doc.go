// Package config defines configuration structures for the emlfetch CLI.
//
// Configuration can be provided via:
//   - Command-line flags
//   - Environment variables (EML_ prefix)
//   - YAML configuration file
//
// Sources merge in that order of precedence, on top of Default().
package config
