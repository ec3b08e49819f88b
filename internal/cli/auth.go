package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/zalando/go-keyring"
)

func (a *app) authCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the model API key in the OS keychain",
	}

	set := &cobra.Command{
		Use:   "set [key]",
		Short: "Store the API key",
		Long:  `Stores the key in the OS keychain. Without an argument the key is read from standard input.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := ""
			if len(args) == 1 {
				key = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("reading key: %w", err)
				}
				key = line
			}
			key = strings.TrimSpace(key)
			if key == "" {
				return fmt.Errorf("an API key is required")
			}
			if err := keyring.Set(keyringService, keyringUser, key); err != nil {
				return fmt.Errorf("storing key in keychain: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s API key stored.\n", color.GreenString("✓"))
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete",
		Short: "Remove the stored API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := keyring.Delete(keyringService, keyringUser)
			if err != nil && !errors.Is(err, keyring.ErrNotFound) {
				return fmt.Errorf("removing key from keychain: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s API key removed.\n", color.GreenString("✓"))
			return nil
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Report whether a key is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := keyring.Get(keyringService, keyringUser)
			switch {
			case err == nil:
				fmt.Fprintf(cmd.OutOrStdout(), "%s API key is stored in the keychain.\n", color.GreenString("✓"))
			case errors.Is(err, keyring.ErrNotFound):
				fmt.Fprintf(cmd.OutOrStdout(), "%s No API key stored.\n", color.YellowString("!"))
			default:
				return fmt.Errorf("reading keychain: %w", err)
			}
			return nil
		},
	}

	cmd.AddCommand(set, del, status)
	return cmd
}
