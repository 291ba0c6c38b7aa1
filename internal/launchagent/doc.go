// Package launchagent renders a macOS LaunchAgent that keeps the exposure watcher running.
package launchagent
