// Package cmd implements the mailgatectl command tree.
package cmd

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
)

type runtimeState struct {
	server   string
	platform string
	apiKey   string
	writer   io.Writer
}

type runtimeKey struct{}

func NewRootCommand(writer io.Writer) *cobra.Command {
	rt := &runtimeState{writer: writer}

	root := &cobra.Command{
		Use:           "mailgatectl",
		Short:         "Email gateway CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if rt.writer == nil {
				rt.writer = os.Stdout
			}
			if rt.server == "" {
				rt.server = os.Getenv("MAILGATECTL_SERVER")
			}
			if rt.apiKey == "" {
				rt.apiKey = os.Getenv("MAILGATECTL_API_KEY")
			}
		},
	}

	root.PersistentFlags().StringVar(&rt.server, "server", "", "Gateway base URL")
	root.PersistentFlags().StringVarP(&rt.platform, "platform", "p", "", "Platform id to act as")
	root.PersistentFlags().StringVar(&rt.apiKey, "api-key", "", "API key (falls back to MAILGATECTL_API_KEY, then the OS keyring)")

	root.SetContext(context.WithValue(context.Background(), runtimeKey{}, rt))

	root.AddCommand(
		NewSendCommand(),
		NewKeyCommand(),
		NewConfigCommand(),
		NewVersionCommand(),
	)

	return root
}

func getRuntime(cmd *cobra.Command) *runtimeState {
	rt, _ := cmd.Context().Value(runtimeKey{}).(*runtimeState)
	return rt
}
