package audit

import (
	"github.com/temirov/clawshield/internal/gatewayconfig"
	"github.com/temirov/clawshield/internal/utils"
)

const unknownHostConstant = "unknown"

// Service produces audit reports.
type Service struct {
	clock            utils.Clock
	hostnameProvider HostnameProvider
}

// NewService constructs a Service. Nil collaborators fall back to the system clock and os.Hostname.
func NewService(clock utils.Clock, hostnameProvider HostnameProvider) *Service {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	return &Service{clock: clock, hostnameProvider: resolveHostnameProvider(hostnameProvider)}
}

// Run audits the loaded gateway configuration.
func (service *Service) Run(loadResult gatewayconfig.LoadResult) Report {
	host, hostError := service.hostnameProvider()
	if hostError != nil || len(host) == 0 {
		host = unknownHostConstant
	}

	findings := Evaluate(loadResult.Config, loadResult.Path, loadResult.Error)
	if findings == nil {
		findings = []Finding{}
	}

	return Report{
		GeneratedAt: service.clock.Now().UTC(),
		Host:        host,
		ConfigPath:  loadResult.Path,
		Findings:    findings,
	}
}
