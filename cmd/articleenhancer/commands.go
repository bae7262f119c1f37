package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"ArticlesEnhancer/internal/app"
	"ArticlesEnhancer/internal/config"
	"ArticlesEnhancer/internal/logging"
	"ArticlesEnhancer/internal/usecase"
)

type cliOptions struct {
	configPath string
	logLevel   string
}

func (o *cliOptions) load() (config.Config, *slog.Logger) {
	cfg := config.Load(o.configPath)
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	return cfg, logging.New(cfg.Logging.Level, cfg.Logging.Format)
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:           "articleenhancer",
		Short:         "Poll the article store and rewrite pending articles with research context",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWorker(cmd.Context(), opts)
		},
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML config file (or set ARTICLE_ENHANCER_CONFIG)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override logging level (debug, info, warn, error)")

	root.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Start the liveness server and the enhancement loop",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runWorker(cmd.Context(), opts)
			},
		},
		&cobra.Command{
			Use:   "cycle",
			Short: "Run exactly one enhancement cycle and exit",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runCycle(cmd, opts)
			},
		},
		&cobra.Command{
			Use:   "research <topic>",
			Short: "Print the research snippets gathered for a topic",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runResearch(cmd, opts, strings.Join(args, " "))
			},
		},
	)
	return root
}

func runWorker(ctx context.Context, opts *cliOptions) error {
	cfg, logger := opts.load()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("init application: %w", err)
	}
	defer func() {
		if err := application.Close(context.Background()); err != nil {
			logger.Warn("close application", "error", err)
		}
	}()

	if err := application.Run(ctx); err != nil {
		logger.Error("application stopped", "error", err)
		return err
	}
	return nil
}

func runCycle(cmd *cobra.Command, opts *cliOptions) error {
	cfg, logger := opts.load()

	application, err := app.New(cmd.Context(), cfg, logger)
	if err != nil {
		return fmt.Errorf("init application: %w", err)
	}
	defer func() { _ = application.Close(context.Background()) }()

	result := application.RunOnce(cmd.Context())
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "cycle %s: %s\n", result.ID, result.Outcome)
	if result.ArticleKey != "" || result.Title != "" {
		fmt.Fprintf(out, "article %s (%s), snippets=%d fallback=%t kept_original=%t\n",
			result.ArticleKey, result.Title, result.Snippets, result.FallbackResearch, result.KeptOriginal)
	}

	switch result.Outcome {
	case usecase.OutcomeStoreUnavailable, usecase.OutcomePersistFailed, usecase.OutcomeMissingID:
		return fmt.Errorf("cycle finished with outcome %s", result.Outcome)
	}
	return nil
}

func runResearch(cmd *cobra.Command, opts *cliOptions, topic string) error {
	cfg, logger := opts.load()

	gatherer, err := app.NewResearcher(cfg, logger)
	if err != nil {
		return err
	}

	snippets := gatherer.Gather(cmd.Context(), topic)
	fmt.Fprintln(cmd.OutOrStdout(), usecase.FormatSnippets(snippets))
	return nil
}
