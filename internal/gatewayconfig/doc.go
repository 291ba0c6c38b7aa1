// Package gatewayconfig locates and parses the agent gateway configuration.
//
// The gateway configuration is JSON that may carry comments and trailing
// commas. Load never fails outright: read and parse faults are reported in
// LoadResult.Error alongside an empty Config so that audit and integrity
// commands can keep going. Environment lookups happen once, in
// ProcessEnvironment, and every other function takes resolved values.
package gatewayconfig
