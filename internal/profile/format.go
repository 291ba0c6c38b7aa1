package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Snippet formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

const (
	snippetHeaderConstant            = "# Safe profile snippet (merge into openclaw.json)\n"
	snippetBindTemplateConstant      = "# Current gateway.bind: %s\n"
	unsetValueConstant               = "(unset)"
	dryRunHeaderConstant             = "Dry run (no changes written).\n"
	appliedHeaderConstant            = "Applied safe profile.\n"
	configLineTemplateConstant       = "Config: %s\n"
	backupLineTemplateConstant       = "Backup: %s\n"
	noChangesLineConstant            = "No changes needed.\n"
	changesHeaderConstant            = "Changes:\n"
	changeLineTemplateConstant       = "- %s: %s -> %s\n"
	writeHintLineConstant            = "Use --write to apply these changes.\n"
	unsupportedFormatMessageConstant = "unsupported snippet format"
)

// ErrUnsupportedFormat indicates a snippet format other than json or yaml.
var ErrUnsupportedFormat = errors.New(unsupportedFormatMessageConstant)

// WriteSnippet renders profile with a header naming the current gateway bind.
func WriteSnippet(writer io.Writer, profile Document, currentBind string, format string) error {
	var body []byte
	switch format {
	case FormatJSON, "":
		encoded, encodeError := json.MarshalIndent(profile, "", indentConstant)
		if encodeError != nil {
			return encodeError
		}
		body = append(encoded, '\n')
	case FormatYAML:
		encoded, encodeError := yaml.Marshal(profile)
		if encodeError != nil {
			return encodeError
		}
		body = encoded
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	if len(currentBind) == 0 {
		currentBind = unsetValueConstant
	}

	var builder strings.Builder
	builder.WriteString(snippetHeaderConstant)
	fmt.Fprintf(&builder, snippetBindTemplateConstant, currentBind)
	builder.Write(body)

	_, writeError := io.WriteString(writer, builder.String())
	return writeError
}

// ApplyReport describes an apply run for rendering.
type ApplyReport struct {
	ConfigPath string
	BackupPath string
	Written    bool
	Changes    []Change
}

// WriteApplyReport renders the change list of an apply run.
func WriteApplyReport(writer io.Writer, report ApplyReport) error {
	var builder strings.Builder
	if len(report.BackupPath) > 0 {
		fmt.Fprintf(&builder, backupLineTemplateConstant, report.BackupPath)
	}
	if report.Written {
		builder.WriteString(appliedHeaderConstant)
	} else {
		builder.WriteString(dryRunHeaderConstant)
	}
	fmt.Fprintf(&builder, configLineTemplateConstant, report.ConfigPath)

	if len(report.Changes) == 0 {
		builder.WriteString(noChangesLineConstant)
	} else {
		builder.WriteString(changesHeaderConstant)
		for _, change := range report.Changes {
			fmt.Fprintf(&builder, changeLineTemplateConstant, change.Path, renderValue(change.Before, change.BeforeSet), renderValue(change.After, change.AfterSet))
		}
	}

	if !report.Written {
		builder.WriteString(writeHintLineConstant)
	}

	_, writeError := io.WriteString(writer, builder.String())
	return writeError
}

func renderValue(value any, isSet bool) string {
	if !isSet {
		return unsetValueConstant
	}
	encoded, encodeError := json.Marshal(value)
	if encodeError != nil {
		return fmt.Sprint(value)
	}
	return string(encoded)
}
