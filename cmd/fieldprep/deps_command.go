package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fieldprep/internal/deps"
	"fieldprep/internal/preflight"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Check the external media tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			statuses := deps.WithVersions(cmd.Context(), preflight.CheckSystemDeps(cfg))
			if asJSON {
				if err := writeJSON(cmd, statuses); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				for _, line := range dependencyLines(statuses, shouldColorize(out)) {
					fmt.Fprintln(out, line)
				}
			}
			if missing := deps.Missing(statuses); len(missing) > 0 {
				return fmt.Errorf("%d required tool(s) missing", len(missing))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func dependencyLines(statuses []deps.Status, colorize bool) []string {
	lines := renderSectionHeader("Media tools", colorize)
	var missing []string
	for _, status := range statuses {
		switch {
		case status.Available:
			message := status.Path
			if status.Detail != "" {
				message = fmt.Sprintf("%s (%s)", status.Detail, status.Path)
			}
			lines = append(lines, renderStatusLine(status.Name, statusOK, message, colorize))
		case status.Optional:
			lines = append(lines, renderStatusLine(status.Name, statusWarn, status.Detail+"; not needed while videos are disabled", colorize))
		default:
			lines = append(lines, renderStatusLine(status.Name, statusError, status.Detail, colorize))
			missing = append(missing, status.Name)
		}
	}
	if len(missing) > 0 {
		lines = append(lines, renderStatusLine("Missing", statusError, strings.Join(missing, ", ")+" (install ffmpeg or set [tools] in the config)", colorize))
	}
	return lines
}
