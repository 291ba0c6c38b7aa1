// Package profile renders hardened gateway configuration profiles and merges them into
// an existing gateway configuration document.
package profile
