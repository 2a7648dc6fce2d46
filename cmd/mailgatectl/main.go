package main

import (
	"fmt"
	"os"

	mailgatectlcmd "github.com/supra126/worker-email-notifier/pkg/mailgatectl/cmd"
)

func main() {
	root := mailgatectlcmd.NewRootCommand(os.Stdout)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
