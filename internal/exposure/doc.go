// Package exposure reports whether anything listens on the gateway port beyond loopback.
//
// Listeners are discovered with lsof, falling back to netstat when lsof is
// unavailable or finds nothing. The watch command repeats the check on an
// interval until interrupted.
package exposure
