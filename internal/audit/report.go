package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/temirov/clawshield/internal/ui"
)

const (
	summaryTemplateConstant        = "Audit results: %d fail, %d warn, %d info, %d pass\n\n"
	findingTitleTemplateConstant   = "[%s] %s\n"
	findingDetailsTemplateConstant = "  %s\n"
	findingFixTemplateConstant     = "  Fix: %s\n"
	levelLabelWidthConstant        = 4
)

// WriteText renders the report as a summary line followed by one block per finding.
func WriteText(writer io.Writer, styler ui.StatusStyler, report Report) error {
	var builder strings.Builder
	fmt.Fprintf(&builder, summaryTemplateConstant, report.Count(LevelFail), report.Count(LevelWarn), report.Count(LevelInfo), report.Count(LevelPass))

	for _, finding := range report.Findings {
		label := styler.RenderPadded(strings.ToUpper(string(finding.Level)), levelLabelWidthConstant)
		fmt.Fprintf(&builder, findingTitleTemplateConstant, label, finding.Title)
		if len(finding.Details) > 0 {
			fmt.Fprintf(&builder, findingDetailsTemplateConstant, finding.Details)
		}
		if len(finding.Fix) > 0 {
			fmt.Fprintf(&builder, findingFixTemplateConstant, finding.Fix)
		}
		builder.WriteString("\n")
	}

	_, writeError := io.WriteString(writer, builder.String())
	return writeError
}

// WriteJSON renders the report as indented JSON.
func WriteJSON(writer io.Writer, report Report) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
