package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/clawshield/internal/gatewayconfig"
)

const (
	pathsCommandUseConstant               = "paths"
	pathsCommandShortDescriptionConstant  = "Show detected config and workspace paths"
	pathsConfigLineTemplateConstant       = "Config: %s\n"
	pathsWorkspaceLineTemplateConstant    = "Workspace: %s\n"
	pathsSkillsHeaderConstant             = "Skill directories:\n"
	pathsSkillLineTemplateConstant        = "- %s\n"
	pathsToolConfigLineTemplateConstant   = "Tool config: %s\n"
	pathsGatewayErrorLineTemplateConstant = "Config error: %s\n"
	pathsUnexpectedArgumentsConstant      = "paths does not accept positional arguments"
)

var errPathsUnexpectedArguments = errors.New(pathsUnexpectedArgumentsConstant)

// pathsCommandBuilder assembles the paths command.
type pathsCommandBuilder struct {
	SnapshotProvider       func() gatewayconfig.Snapshot
	ToolConfigPathProvider func() string
}

func (builder *pathsCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   pathsCommandUseConstant,
		Short: pathsCommandShortDescriptionConstant,
		RunE:  builder.run,
	}
	return command, nil
}

func (builder *pathsCommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errPathsUnexpectedArguments
	}
	snapshot := builder.SnapshotProvider()
	toolConfigPath := ""
	if builder.ToolConfigPathProvider != nil {
		toolConfigPath = builder.ToolConfigPathProvider()
	}
	return writePaths(command.OutOrStdout(), snapshot, toolConfigPath)
}

func writePaths(writer io.Writer, snapshot gatewayconfig.Snapshot, toolConfigPath string) error {
	var builder strings.Builder
	fmt.Fprintf(&builder, pathsConfigLineTemplateConstant, snapshot.ConfigPath)
	if snapshot.Load.Failed() {
		fmt.Fprintf(&builder, pathsGatewayErrorLineTemplateConstant, snapshot.Load.Error)
	}
	fmt.Fprintf(&builder, pathsWorkspaceLineTemplateConstant, snapshot.WorkspacePath)
	if len(snapshot.SkillDirectories) > 0 {
		builder.WriteString(pathsSkillsHeaderConstant)
		for _, skillDirectory := range snapshot.SkillDirectories {
			fmt.Fprintf(&builder, pathsSkillLineTemplateConstant, skillDirectory)
		}
	}
	if len(toolConfigPath) > 0 {
		fmt.Fprintf(&builder, pathsToolConfigLineTemplateConstant, toolConfigPath)
	}

	_, writeError := io.WriteString(writer, builder.String())
	return writeError
}
