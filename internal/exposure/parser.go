package exposure

import (
	"strconv"
	"strings"
)

const (
	lsofProtocolColumnConstant  = "TCP"
	netstatListenMarkerConstant = "LISTEN"
	netstatTCPPrefixConstant    = "tcp"
)

// ParseLsof extracts listeners from `lsof -nP -iTCP:<port> -sTCP:LISTEN` output.
// The first line is a header.
func ParseLsof(output string) []Listener {
	lines := nonEmptyLines(output)
	if len(lines) < 2 {
		return nil
	}

	var listeners []Listener
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		for fieldIndex, field := range fields {
			if field != lsofProtocolColumnConstant || fieldIndex+1 >= len(fields) {
				continue
			}
			address := fields[fieldIndex+1]
			listeners = append(listeners, Listener{Command: fields[0], PID: fields[1], Address: address, Exposed: IsExposedAddress(address)})
			break
		}
	}
	return listeners
}

// ParseNetstat extracts listening sockets on port from `netstat -an` or `netstat -ano -p TCP` output.
// Unix rows carry queue counters before the local address; Windows rows do not.
func ParseNetstat(output string, port int) []Listener {
	portSuffixes := []string{":" + strconv.Itoa(port), "." + strconv.Itoa(port)}

	var listeners []Listener
	for _, line := range nonEmptyLines(output) {
		if !strings.Contains(line, netstatListenMarkerConstant) {
			continue
		}
		fields := strings.Fields(line)
		address := localAddress(fields)
		if len(address) == 0 || !hasAnySuffix(address, portSuffixes) {
			continue
		}
		listeners = append(listeners, Listener{Address: address, Raw: strings.TrimSpace(line), Exposed: IsExposedAddress(address)})
	}
	return listeners
}

func localAddress(fields []string) string {
	if len(fields) < 2 {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(fields[0]), netstatTCPPrefixConstant) && isNumeric(fields[1]) {
		if len(fields) < 4 {
			return ""
		}
		return fields[3]
	}
	return fields[1]
}

// IsLoopbackAddress reports whether the address is bound to loopback only.
func IsLoopbackAddress(address string) bool {
	normalizedAddress := strings.ToLower(address)
	switch {
	case strings.HasPrefix(normalizedAddress, "127."):
		return true
	case strings.HasPrefix(normalizedAddress, "localhost"):
		return true
	case strings.HasPrefix(normalizedAddress, "[::1]"):
		return true
	case normalizedAddress == "::1":
		return true
	default:
		return false
	}
}

// IsExposedAddress reports whether the address accepts connections from beyond loopback.
func IsExposedAddress(address string) bool {
	normalizedAddress := strings.ToLower(address)
	for _, wildcardPrefix := range []string{"*:", "0.0.0.0:", "[::]:", ":::"} {
		if strings.HasPrefix(normalizedAddress, wildcardPrefix) {
			return true
		}
	}
	return !IsLoopbackAddress(normalizedAddress)
}

func nonEmptyLines(output string) []string {
	var lines []string
	for _, line := range strings.Split(output, "\n") {
		if len(strings.TrimSpace(line)) > 0 {
			lines = append(lines, line)
		}
	}
	return lines
}

func hasAnySuffix(value string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(value, suffix) {
			return true
		}
	}
	return false
}

func isNumeric(value string) bool {
	_, parseError := strconv.Atoi(value)
	return parseError == nil
}
