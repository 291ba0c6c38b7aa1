package exposure

import (
	"fmt"
	"io"
	"strings"

	"github.com/temirov/clawshield/internal/ui"
)

const (
	checkFailedTemplateConstant     = "Exposure check failed: %s\n"
	noListenersTemplateConstant     = "No listeners detected on port %d.\n"
	listenersHeaderTemplateConstant = "Listeners on port %d (%s):\n"
	listenerLineTemplateConstant    = "- %s %s\n"
	exposedLabelConstant            = "EXPOSED"
	loopbackLabelConstant           = "LOOPBACK"
)

// WriteReport renders the report as human-readable text.
func WriteReport(writer io.Writer, styler ui.StatusStyler, report Report) error {
	var builder strings.Builder
	switch {
	case len(report.Error) > 0:
		fmt.Fprintf(&builder, checkFailedTemplateConstant, report.Error)
	case len(report.Listeners) == 0:
		fmt.Fprintf(&builder, noListenersTemplateConstant, report.Port)
	default:
		fmt.Fprintf(&builder, listenersHeaderTemplateConstant, report.Port, report.Tool)
		for _, listener := range report.Listeners {
			address := listener.Address
			if len(address) == 0 {
				address = listener.Raw
			}
			label := loopbackLabelConstant
			if listener.Exposed {
				label = exposedLabelConstant
			}
			fmt.Fprintf(&builder, listenerLineTemplateConstant, address, styler.Render(label))
		}
	}

	_, writeError := io.WriteString(writer, builder.String())
	return writeError
}
