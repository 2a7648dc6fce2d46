package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zalando/go-keyring"
)

const keyringService = "mailgatectl"

// keyringUser maps a platform id to its keyring account. The shared key is
// stored under a fixed account name.
func keyringUser(platform string) string {
	if platform == "" {
		return "shared"
	}
	return platform
}

func NewKeyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage API keys in the OS keyring",
	}
	cmd.AddCommand(newKeySetCommand(), newKeyShowCommand(), newKeyDeleteCommand())
	return cmd
}

func newKeySetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <api-key>",
		Short: "Store an API key for the selected platform",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := getRuntime(cmd)
			user := keyringUser(rt.platform)
			if err := keyring.Set(keyringService, user, args[0]); err != nil {
				return fmt.Errorf("failed to store key: %w", err)
			}
			fmt.Fprintf(rt.writer, "API key stored for %q\n", user)
			return nil
		},
	}
}

func newKeyShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored API key for the selected platform",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt := getRuntime(cmd)
			user := keyringUser(rt.platform)
			key, err := keyring.Get(keyringService, user)
			if errors.Is(err, keyring.ErrNotFound) {
				return fmt.Errorf("no API key stored for %q", user)
			}
			if err != nil {
				return fmt.Errorf("failed to read key: %w", err)
			}
			fmt.Fprintln(rt.writer, key)
			return nil
		},
	}
}

func newKeyDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Remove the stored API key for the selected platform",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt := getRuntime(cmd)
			user := keyringUser(rt.platform)
			if err := keyring.Delete(keyringService, user); err != nil {
				return fmt.Errorf("failed to delete key: %w", err)
			}
			fmt.Fprintf(rt.writer, "API key deleted for %q\n", user)
			return nil
		},
	}
}

// resolveAPIKey returns the key from the flag or environment, falling back
// to the OS keyring.
func resolveAPIKey(rt *runtimeState) (string, error) {
	if rt.apiKey != "" {
		return rt.apiKey, nil
	}
	key, err := keyring.Get(keyringService, keyringUser(rt.platform))
	if errors.Is(err, keyring.ErrNotFound) {
		return "", errors.New("no API key given and none stored in the keyring, use --api-key or 'mailgatectl key set'")
	}
	if err != nil {
		return "", fmt.Errorf("failed to read key from keyring: %w", err)
	}
	return key, nil
}
