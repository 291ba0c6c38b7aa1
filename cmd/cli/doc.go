// Package cli constructs the clawshield command-line interface, wiring the
// Cobra command hierarchy, configuration loader, and structured logging
// around the gateway audit, profile, skill lock, and exposure packages.
package cli
