package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/supra126/worker-email-notifier/pkg/mailgatectl/client"
)

func NewSendCommand() *cobra.Command {
	var (
		to      []string
		subject string
		content string
		html    string
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send an email through the gateway",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt := getRuntime(cmd)
			if rt.server == "" {
				return errors.New("server is required, use --server or MAILGATECTL_SERVER")
			}
			if rt.platform == "" {
				return errors.New("platform is required, use --platform")
			}
			if len(to) == 0 {
				return errors.New("at least one --to recipient is required")
			}
			if content == "" && html == "" {
				return errors.New("one of --content or --html is required")
			}

			apiKey, err := resolveAPIKey(rt)
			if err != nil {
				return err
			}

			gw, err := client.New(client.WithServer(rt.server), client.WithAPIKey(apiKey))
			if err != nil {
				return err
			}

			resp, err := gw.Send(cmd.Context(), client.SendRequest{
				To:         to,
				Subject:    subject,
				Content:    content,
				HTML:       html,
				PlatformID: rt.platform,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(rt.writer, "%s (platform %s)\n", resp.Message, resp.Platform)
			for _, d := range resp.Details {
				if d.Status == "fulfilled" {
					fmt.Fprintf(rt.writer, "  %s: delivered\n", d.To)
				} else {
					fmt.Fprintf(rt.writer, "  %s: failed (%s)\n", d.To, d.Error)
				}
			}
			if !resp.Success {
				return errors.New("no recipient could be delivered to")
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&to, "to", nil, "Recipient address (repeatable)")
	cmd.Flags().StringVarP(&subject, "subject", "s", "", "Email subject")
	cmd.Flags().StringVar(&content, "content", "", "Plain-text body")
	cmd.Flags().StringVar(&html, "html", "", "HTML body")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}
