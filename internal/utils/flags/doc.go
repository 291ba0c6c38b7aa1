// Package flags formats usage strings for enumerated command-line flags.
package flags
