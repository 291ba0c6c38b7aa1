// Package audit checks a gateway configuration for risky settings.
//
// Each rule emits Findings at one of four levels (pass, warn, fail, info).
// The resulting Report renders either as a human-readable summary or as JSON.
package audit
