package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/frherrer/component-architect/internal/config"
)

func (a *app) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the comparch.yaml configuration and design token file",
		Long:  `Loads the configuration file and the design tokens it points at, and checks for missing or invalid values.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}

			tokens, err := config.LoadTokens(cfg.DesignTokens)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Configuration file %q is valid.\n", color.GreenString("✓"), a.cfgFile)
			fmt.Fprintf(out, "%s Design tokens %q: %d token(s), %d allowed color(s).\n",
				color.GreenString("✓"), cfg.DesignTokens, tokens.Len(), len(tokens.Colors()))
			for _, name := range cfg.Validation.RequiredTokens {
				if tokens.Get(name) == "" {
					fmt.Fprintf(out, "%s Required token %q has no value and will not be checked.\n",
						color.YellowString("!"), name)
				}
			}
			return nil
		},
	}
}
