package launchagent

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	// DefaultLabel is the LaunchAgent label used when none is configured.
	DefaultLabel = "com.clawshield.watch"
	// DefaultBinaryPath is the clawshield executable the agent launches by default.
	DefaultBinaryPath = "/usr/local/bin/clawshield"
	// DefaultIntervalSeconds is the watch interval used when none is configured.
	DefaultIntervalSeconds = 30
	// MinimumIntervalSeconds is the shortest accepted watch interval.
	MinimumIntervalSeconds = 5

	launchAgentsDirectoryConstant = "Library/LaunchAgents"
	plistExtensionConstant        = ".plist"
	watchArgumentConstant         = "watch"
	intervalArgumentConstant      = "--interval"
	plistHeaderConstant           = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
`
	labelLineTemplateConstant    = "  <key>Label</key><string>%s</string>\n"
	argumentsOpeningConstant     = "  <key>ProgramArguments</key>\n  <array>\n"
	argumentLineTemplateConstant = "    <string>%s</string>\n"
	plistFooterConstant          = `  </array>
  <key>RunAtLoad</key><true/>
  <key>KeepAlive</key><true/>
</dict>
</plist>
`
)

// Options describe the agent to render.
type Options struct {
	Label           string
	BinaryPath      string
	IntervalSeconds int
}

func (options Options) normalized() Options {
	if len(strings.TrimSpace(options.Label)) == 0 {
		options.Label = DefaultLabel
	}
	if len(strings.TrimSpace(options.BinaryPath)) == 0 {
		options.BinaryPath = DefaultBinaryPath
	}
	if options.IntervalSeconds <= 0 {
		options.IntervalSeconds = DefaultIntervalSeconds
	}
	if options.IntervalSeconds < MinimumIntervalSeconds {
		options.IntervalSeconds = MinimumIntervalSeconds
	}
	return options
}

// Render produces the plist document for options.
func Render(options Options) string {
	options = options.normalized()

	var builder strings.Builder
	builder.WriteString(plistHeaderConstant)
	fmt.Fprintf(&builder, labelLineTemplateConstant, escape(options.Label))
	builder.WriteString(argumentsOpeningConstant)
	for _, argument := range []string{options.BinaryPath, watchArgumentConstant, intervalArgumentConstant, strconv.Itoa(options.IntervalSeconds)} {
		fmt.Fprintf(&builder, argumentLineTemplateConstant, escape(argument))
	}
	builder.WriteString(plistFooterConstant)
	return builder.String()
}

// SuggestedPath returns the per-user LaunchAgents location for label.
func SuggestedPath(homeDirectory string, label string) string {
	if len(strings.TrimSpace(label)) == 0 {
		label = DefaultLabel
	}
	return filepath.Join(homeDirectory, launchAgentsDirectoryConstant, label+plistExtensionConstant)
}

func escape(value string) string {
	var buffer bytes.Buffer
	_ = xml.EscapeText(&buffer, []byte(value))
	return buffer.String()
}
