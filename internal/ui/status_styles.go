package ui

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const (
	positiveLightColorConstant = "#1A7F37"
	positiveDarkColorConstant  = "#3FB950"
	neutralLightColorConstant  = "#0969DA"
	neutralDarkColorConstant   = "#58A6FF"
	cautionLightColorConstant  = "#9A6700"
	cautionDarkColorConstant   = "#D29922"
	criticalLightColorConstant = "#CF222E"
	criticalDarkColorConstant  = "#F85149"
)

type statusTone int

const (
	statusTonePlain statusTone = iota
	statusTonePositive
	statusToneNeutral
	statusToneCaution
	statusToneCritical
)

var statusLabelTones = map[string]statusTone{
	"OK":       statusTonePositive,
	"PASS":     statusTonePositive,
	"LOOPBACK": statusTonePositive,
	"NEW":      statusToneNeutral,
	"INFO":     statusToneNeutral,
	"CHANGED":  statusToneCaution,
	"WARN":     statusToneCaution,
	"MISSING":  statusToneCritical,
	"FAIL":     statusToneCritical,
	"EXPOSED":  statusToneCritical,
}

type fileDescriptorWriter interface {
	Fd() uintptr
}

// StatusStyler colors status labels such as OK, CHANGED, or EXPOSED when the destination is a terminal.
// Labels written to pipes, files, or buffers are returned unchanged.
type StatusStyler struct {
	enabled bool
	styles  map[statusTone]lipgloss.Style
}

// NewStatusStyler constructs a styler bound to the provided writer.
func NewStatusStyler(writer io.Writer) StatusStyler {
	descriptorWriter, hasDescriptor := writer.(fileDescriptorWriter)
	if !hasDescriptor || !term.IsTerminal(int(descriptorWriter.Fd())) {
		return StatusStyler{}
	}

	renderer := lipgloss.NewRenderer(writer)
	return StatusStyler{
		enabled: true,
		styles: map[statusTone]lipgloss.Style{
			statusTonePositive: renderer.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: positiveLightColorConstant, Dark: positiveDarkColorConstant}),
			statusToneNeutral:  renderer.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: neutralLightColorConstant, Dark: neutralDarkColorConstant}),
			statusToneCaution:  renderer.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: cautionLightColorConstant, Dark: cautionDarkColorConstant}),
			statusToneCritical: renderer.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: criticalLightColorConstant, Dark: criticalDarkColorConstant}),
		},
	}
}

// Enabled reports whether labels will carry terminal styling.
func (styler StatusStyler) Enabled() bool {
	return styler.enabled
}

// Render styles the label according to its meaning. Unknown labels are returned unchanged.
func (styler StatusStyler) Render(label string) string {
	if !styler.enabled {
		return label
	}

	tone, known := statusLabelTones[strings.ToUpper(strings.TrimSpace(label))]
	if !known || tone == statusTonePlain {
		return label
	}

	style, styled := styler.styles[tone]
	if !styled {
		return label
	}
	return style.Render(label)
}

// RenderPadded styles the label and pads it with trailing spaces to the requested width.
// Padding lies outside the styled region.
func (styler StatusStyler) RenderPadded(label string, width int) string {
	padding := width - len(label)
	if padding < 0 {
		padding = 0
	}
	return styler.Render(label) + strings.Repeat(" ", padding)
}
