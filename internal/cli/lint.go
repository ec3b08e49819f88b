package cli

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/frherrer/component-architect/internal/checks"
	"github.com/frherrer/component-architect/internal/config"
	"github.com/frherrer/component-architect/internal/domain"
	"github.com/frherrer/component-architect/internal/scanner"
)

type lintOptions struct {
	watch    bool
	excludes []string
}

func (a *app) lintCommand() *cobra.Command {
	opts := &lintOptions{}
	cmd := &cobra.Command{
		Use:   "lint <dir>",
		Short: "Validate existing components on disk",
		Long: `Finds every {name}.component.{ts,html,css} group below dir and runs the same
structural and design token checks used during generation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			tokens, err := config.LoadTokens(cfg.DesignTokens)
			if err != nil {
				return err
			}
			l := &linter{
				scanner:   scanner.NewScanner(true),
				validator: checks.NewDefaultValidator(cfg.Validation),
				tokens:    tokens,
				excludes:  opts.excludes,
			}

			out := cmd.OutOrStdout()
			failed, err := l.run(out, args[0])
			if err != nil {
				return err
			}
			if !opts.watch {
				if failed > 0 {
					return &ExitError{Code: 1, Message: fmt.Sprintf("%d component(s) failed validation", failed)}
				}
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.watch(ctx, out, l, args[0])
		},
	}
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-lint whenever a component file changes")
	cmd.Flags().StringSliceVar(&opts.excludes, "exclude", []string{"**/node_modules/**"}, "glob patterns to skip")
	return cmd
}

func (a *app) watch(ctx context.Context, out io.Writer, l *linter, dir string) error {
	w, err := scanner.NewWatcher(scanner.DefaultDebounce, l.excludes, a.log)
	if err != nil {
		return err
	}
	return w.Run(ctx, dir, func(path string) {
		fmt.Fprintf(out, "\n%s changed\n", path)
		if _, err := l.run(out, dir); err != nil {
			a.log.WithError(err).Error("Lint failed")
		}
	})
}

type linter struct {
	scanner   *scanner.FileScanner
	validator *checks.Validator
	tokens    config.Tokens
	excludes  []string
}

// run lints every component under dir and returns how many failed.
func (l *linter) run(out io.Writer, dir string) (int, error) {
	components, err := l.scanner.Components(dir, l.excludes)
	if err != nil {
		return 0, err
	}
	if len(components) == 0 {
		fmt.Fprintf(out, "No components found under %s\n", dir)
		return 0, nil
	}

	failed := 0
	for _, c := range components {
		files, err := c.Load()
		if err != nil {
			return failed, err
		}
		issues := l.lint(files)
		if len(issues) == 0 {
			fmt.Fprintf(out, "%s %s\n", color.GreenString("✓"), c.Name())
			continue
		}
		failed++
		fmt.Fprintf(out, "%s %s\n", color.RedString("✗"), c.Name())
		for _, issue := range issues {
			fmt.Fprintf(out, "  %s\n", issue)
		}
	}
	fmt.Fprintf(out, "%d component(s), %d failed\n", len(components), failed)
	return failed, nil
}

// lint applies the presence gate before the full validator, as generation does.
func (l *linter) lint(files domain.FileSet) []domain.Issue {
	if missing := checks.CheckPresence(files); len(missing) > 0 {
		return missing
	}
	return l.validator.Validate(files, l.tokens).Issues()
}
