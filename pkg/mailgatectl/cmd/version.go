package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/supra126/worker-email-notifier/pkg/system"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show mailgatectl version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt := getRuntime(cmd)
			commit := system.Commit
			if commit == "" {
				commit = "unknown"
			}
			fmt.Fprintf(rt.writer, "mailgatectl %s (commit: %s)\n", system.Version, commit)
			return nil
		},
	}
}
