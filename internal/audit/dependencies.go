package audit

import (
	"os"

	"github.com/temirov/clawshield/internal/gatewayconfig"
)

// HostnameProvider resolves the name of the audited host.
type HostnameProvider func() (string, error)

// SnapshotProvider supplies the resolved gateway configuration.
type SnapshotProvider func() gatewayconfig.Snapshot

func resolveHostnameProvider(provider HostnameProvider) HostnameProvider {
	if provider == nil {
		return os.Hostname
	}
	return provider
}
