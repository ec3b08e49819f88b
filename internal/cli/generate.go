package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/frherrer/component-architect/internal/checks"
	"github.com/frherrer/component-architect/internal/config"
	"github.com/frherrer/component-architect/internal/domain"
	"github.com/frherrer/component-architect/internal/history"
	"github.com/frherrer/component-architect/internal/llm"
	"github.com/frherrer/component-architect/internal/pipeline"
	"github.com/frherrer/component-architect/internal/prompt"
	"github.com/frherrer/component-architect/internal/report"
	"github.com/frherrer/component-architect/internal/sanitize"
	"github.com/frherrer/component-architect/internal/scanner"
	"github.com/frherrer/component-architect/internal/writer"
)

// extendContextLimit caps how much of an existing component is fed back as context.
const extendContextLimit = 400

// exitRejected is the process exit code for a rejected component.
const exitRejected = 2

type generateOptions struct {
	report    string
	extend    string
	noHistory bool
}

func (a *app) generateCommand() *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate [description]",
		Short: "Generate a component from a description",
		Long: `Asks the model for a component, validates it and requests at most one repair.
Accepted components are written to the output directory. A rejected component is
written too, for inspection, and the command exits with code 2.

Without a description argument the description is read from standard input.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}

			description := ""
			if len(args) == 1 {
				description = args[0]
			} else {
				description, err = readDescription(cmd.InOrStdin(), cmd.OutOrStdout())
				if err != nil {
					return err
				}
			}
			if strings.TrimSpace(description) == "" {
				return fmt.Errorf("a component description is required")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.runGenerate(ctx, cmd.OutOrStdout(), cfg, description, opts)
		},
	}
	cmd.Flags().StringVar(&opts.report, "report", "", "write a run report (.md or .html)")
	cmd.Flags().StringVar(&opts.extend, "extend", "", "directory of an existing component to use as context")
	cmd.Flags().BoolVar(&opts.noHistory, "no-history", false, "don't record the run in the history database")
	return cmd
}

func readDescription(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Describe the component: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading description: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// runGenerate wires all components and runs the pipeline.
func (a *app) runGenerate(ctx context.Context, out io.Writer, cfg *config.Config, description string, opts *generateOptions) error {
	tokens, err := config.LoadTokens(cfg.DesignTokens)
	if err != nil {
		return err
	}

	sanitizer, err := sanitize.NewSanitizer(cfg.Sanitize)
	if err != nil {
		return err
	}

	engine, err := prompt.NewEngine(cfg.Templates.Directory)
	if err != nil {
		return fmt.Errorf("failed to create prompt engine: %w", err)
	}

	client, err := llm.New(cfg.Model, a.apiKey(cfg))
	if err != nil {
		return err
	}
	a.log.Infof("Using model %s", client.Name())

	collaborator := pipeline.NewModelCollaborator(client, engine, cfg.Validation.RequiredMarkers)
	pipeOpts := []pipeline.Option{
		pipeline.WithSanitizer(sanitizer),
		pipeline.WithPersister(writer.New(cfg.Output.Directory, cfg.Output.DryRun, a.log)),
	}

	if cfg.History.Enabled && !opts.noHistory {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			a.log.WithError(err).Warn("History disabled for this run")
		} else {
			defer store.Close()
			pipeOpts = append(pipeOpts, pipeline.WithRecorder(store))
		}
	}

	req := pipeline.Request{Prompt: description}
	if opts.extend != "" {
		excerpt, err := scanner.LogicExcerpt(opts.extend, extendContextLimit)
		if err != nil {
			return err
		}
		req.Context = excerpt
	}

	p := pipeline.New(collaborator, collaborator, checks.NewDefaultValidator(cfg.Validation), tokens, a.log, pipeOpts...)
	res, err := p.Execute(ctx, req)
	if err != nil {
		return err
	}

	printResult(out, res)

	if opts.report != "" {
		if err := report.WriteFile(opts.report, res); err != nil {
			return err
		}
		fmt.Fprintf(out, "Report written to %s\n", opts.report)
	}

	if !res.Valid {
		return &ExitError{Code: exitRejected, Message: res.Summary()}
	}
	return nil
}

func printResult(out io.Writer, res *domain.Result) {
	for _, w := range res.Warnings {
		fmt.Fprintf(out, "%s %s\n", color.YellowString("!"), w)
	}
	for _, attempt := range res.Log {
		mark := color.GreenString("✓")
		if !attempt.Passed {
			mark = color.RedString("✗")
		}
		fmt.Fprintf(out, "%s attempt %d (%s): %d error(s)\n", mark, attempt.Ordinal, attempt.Phase, len(attempt.Errors))
	}
	for _, e := range res.ErrorStrings() {
		fmt.Fprintf(out, "  %s\n", e)
	}

	status := color.New(color.FgGreen, color.Bold)
	if !res.Valid {
		status = color.New(color.FgRed, color.Bold)
	}
	status.Fprintf(out, "%s: %s\n", res.State, res.Summary())

	for _, key := range domain.FileKeys {
		if path, ok := res.SavedPaths[key]; ok {
			fmt.Fprintf(out, "  %s\n", path)
		}
	}
}
