package exposure_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/clawshield/internal/exposure"
)

const (
	lsofOutputConstant = `COMMAND   PID     USER   FD   TYPE             DEVICE SIZE/OFF NODE NAME
node    41233 operator   23u  IPv4 0x1234567890abcdef      0t0  TCP 127.0.0.1:18789 (LISTEN)
node    41233 operator   24u  IPv6 0x1234567890abcdf0      0t0  TCP *:18789 (LISTEN)
`
	linuxNetstatOutputConstant = `Active Internet connections (servers and established)
Proto Recv-Q Send-Q Local Address           Foreign Address         State
tcp        0      0 127.0.0.1:18789         0.0.0.0:*               LISTEN
tcp        0      0 0.0.0.0:22              0.0.0.0:*               LISTEN
tcp6       0      0 :::18789                :::*                    LISTEN
tcp        0      0 127.0.0.1:18789         127.0.0.1:51234         ESTABLISHED
`
	darwinNetstatOutputConstant = `Active Internet connections (including servers)
Proto Recv-Q Send-Q  Local Address          Foreign Address        (state)
tcp4       0      0  127.0.0.1.18789        *.*                    LISTEN
tcp46      0      0  *.18789                *.*                    LISTEN
`
	windowsNetstatOutputConstant = `
Active Connections

  Proto  Local Address          Foreign Address        State           PID
  TCP    0.0.0.0:18789          0.0.0.0:0              LISTENING       4120
  TCP    127.0.0.1:18789        0.0.0.0:0              LISTENING       4120
  TCP    0.0.0.0:445            0.0.0.0:0              LISTENING       4
`
)

func TestParseLsof(testInstance *testing.T) {
	testCases := []struct {
		name              string
		output            string
		expectedListeners []exposure.Listener
	}{
		{
			name:   "loopback_and_wildcard",
			output: lsofOutputConstant,
			expectedListeners: []exposure.Listener{
				{Command: "node", PID: "41233", Address: "127.0.0.1:18789", Exposed: false},
				{Command: "node", PID: "41233", Address: "*:18789", Exposed: true},
			},
		},
		{
			name:              "header_only",
			output:            "COMMAND PID USER FD TYPE DEVICE SIZE/OFF NODE NAME\n",
			expectedListeners: nil,
		},
		{
			name:              "empty",
			output:            "",
			expectedListeners: nil,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedListeners, exposure.ParseLsof(testCase.output))
		})
	}
}

func TestParseNetstat(testInstance *testing.T) {
	testCases := []struct {
		name              string
		output            string
		expectedAddresses []string
		expectedExposed   []bool
	}{
		{
			name:              "linux",
			output:            linuxNetstatOutputConstant,
			expectedAddresses: []string{"127.0.0.1:18789", ":::18789"},
			expectedExposed:   []bool{false, true},
		},
		{
			name:              "darwin",
			output:            darwinNetstatOutputConstant,
			expectedAddresses: []string{"127.0.0.1.18789", "*.18789"},
			expectedExposed:   []bool{false, true},
		},
		{
			name:              "windows",
			output:            windowsNetstatOutputConstant,
			expectedAddresses: []string{"0.0.0.0:18789", "127.0.0.1:18789"},
			expectedExposed:   []bool{true, false},
		},
		{
			name:              "no_listeners",
			output:            "Proto Recv-Q Send-Q Local Address Foreign Address State\n",
			expectedAddresses: nil,
			expectedExposed:   nil,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			listeners := exposure.ParseNetstat(testCase.output, exposure.DefaultPort)

			var addresses []string
			var exposed []bool
			for _, listener := range listeners {
				addresses = append(addresses, listener.Address)
				exposed = append(exposed, listener.Exposed)
				require.NotEmpty(testInstance, listener.Raw)
			}
			require.Equal(testInstance, testCase.expectedAddresses, addresses)
			require.Equal(testInstance, testCase.expectedExposed, exposed)
		})
	}
}

func TestAddressClassification(testInstance *testing.T) {
	testCases := []struct {
		address          string
		expectedLoopback bool
		expectedExposed  bool
	}{
		{address: "127.0.0.1:18789", expectedLoopback: true, expectedExposed: false},
		{address: "localhost:18789", expectedLoopback: true, expectedExposed: false},
		{address: "[::1]:18789", expectedLoopback: true, expectedExposed: false},
		{address: "::1", expectedLoopback: true, expectedExposed: false},
		{address: "0.0.0.0:18789", expectedLoopback: false, expectedExposed: true},
		{address: "*:18789", expectedLoopback: false, expectedExposed: true},
		{address: "[::]:18789", expectedLoopback: false, expectedExposed: true},
		{address: ":::18789", expectedLoopback: false, expectedExposed: true},
		{address: "192.168.1.20:18789", expectedLoopback: false, expectedExposed: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.address, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedLoopback, exposure.IsLoopbackAddress(testCase.address))
			require.Equal(testInstance, testCase.expectedExposed, exposure.IsExposedAddress(testCase.address))
		})
	}
}
