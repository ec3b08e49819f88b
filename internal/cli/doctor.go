package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/frherrer/component-architect/internal/config"
	"github.com/frherrer/component-architect/internal/llm"
)

const pingTimeout = 5 * time.Second

func (a *app) doctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that the configured model and design tokens are usable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			ok := color.GreenString("✓")
			bad := color.RedString("✗")
			failed := 0

			if _, err := config.LoadTokens(cfg.DesignTokens); err != nil {
				fmt.Fprintf(out, "%s design tokens: %v\n", bad, err)
				failed++
			} else {
				fmt.Fprintf(out, "%s design tokens: %s\n", ok, cfg.DesignTokens)
			}

			client, err := llm.New(cfg.Model, a.apiKey(cfg))
			if err != nil {
				fmt.Fprintf(out, "%s model client: %v\n", bad, err)
				failed++
			} else {
				ctx, cancel := context.WithTimeout(cmd.Context(), pingTimeout)
				defer cancel()
				if err := client.Ping(ctx); err != nil {
					fmt.Fprintf(out, "%s %s: %v\n", bad, client.Name(), err)
					failed++
				} else {
					fmt.Fprintf(out, "%s %s reachable\n", ok, client.Name())
				}
			}

			if failed > 0 {
				return &ExitError{Code: 1, Message: fmt.Sprintf("%d check(s) failed", failed)}
			}
			return nil
		},
	}
}
