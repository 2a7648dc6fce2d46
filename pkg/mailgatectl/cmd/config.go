package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/supra126/worker-email-notifier/pkg/config"
	"github.com/supra126/worker-email-notifier/pkg/validate"
)

func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect gateway configuration files",
	}
	cmd.AddCommand(newConfigValidateCommand())
	return cmd
}

func newConfigValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <path>",
		Short: "Check a gateway config file for problems",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := getRuntime(cmd)

			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}
			cfg.Defaults()

			problems := validateConfig(cfg)

			fmt.Fprintf(rt.writer, "%d platform(s), %d mailer binding(s)\n", len(cfg.Platforms), len(cfg.Mailers))
			for _, p := range problems {
				fmt.Fprintf(rt.writer, "problem: %s\n", p)
			}
			if len(problems) > 0 {
				return fmt.Errorf("config has %d problem(s)", len(problems))
			}
			fmt.Fprintln(rt.writer, "config OK")
			return nil
		},
	}
}

func validateConfig(cfg config.Config) []string {
	var problems []string

	bindings := map[string]bool{}
	for _, m := range cfg.Mailers {
		if m.Name == "" {
			problems = append(problems, "mailer binding without a name")
			continue
		}
		if m.Host == "" {
			problems = append(problems, fmt.Sprintf("mailer %q has no host", m.Name))
		}
		bindings[m.Name] = true
	}

	for id, p := range cfg.Platforms {
		if !validate.IsValidPlatformID(id) {
			problems = append(problems, fmt.Sprintf("platform id %q has an invalid format", id))
		}
		if p.SenderEmail == "" || p.SenderName == "" || p.Mailer == "" {
			problems = append(problems, fmt.Sprintf("platform %q is incomplete (senderEmail, senderName and mailer are required)", id))
			continue
		}
		if !validate.IsValidEmailAddress(p.SenderEmail) {
			problems = append(problems, fmt.Sprintf("platform %q has an invalid sender address %q", id, p.SenderEmail))
		}
		if !bindings[p.Mailer] {
			problems = append(problems, fmt.Sprintf("platform %q references unknown mailer %q", id, p.Mailer))
		}
	}

	return problems
}
