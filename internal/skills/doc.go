// Package skills tracks the integrity of skill directories.
//
// A skill is a directory placed directly under one of the configured skill
// roots that contains a marker document (SKILL.md by default). Discovery
// hashes every skill's file tree into a SHA-256 digest, the lock store
// persists those digests as the workspace baseline, and Reconcile classifies
// the current snapshot against that baseline as OK, NEW, CHANGED, or MISSING.
// Skills are identified by absolute path, never by name.
package skills
