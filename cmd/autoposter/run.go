package main

import (
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jasmeetsingh/autoposter/config"
	"github.com/jasmeetsingh/autoposter/internal/history"
	"github.com/jasmeetsingh/autoposter/internal/pipeline"
	"github.com/jasmeetsingh/autoposter/internal/telemetry"
	"github.com/jasmeetsingh/autoposter/linkedin"
	"github.com/jasmeetsingh/autoposter/news/googlenews"
	groq_provider "github.com/jasmeetsingh/autoposter/provider/groq"
)

func runCMD() *cobra.Command {
	var dryRun bool
	var cfgPath string

	var run = &cobra.Command{
		Use:   "run",
		Short: "Search trending topics, generate a post and publish it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			logger := log.New(os.Stderr, "[RUN] ", log.LstdFlags)
			logger.Printf("LinkedIn AI Auto Poster")

			runner := newRunner(cfg, logger, telemetry.NewMetrics(), cmd.OutOrStdout())
			return runner.Run(ctx, dryRun)
		},
	}
	run.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "generate the post without publishing it")
	run.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is .)")

	return run
}

func newRunner(cfg *config.Config, logger *log.Logger, metrics *telemetry.Metrics, out io.Writer) *pipeline.Runner {
	feed := googlenews.New(cfg.Search)
	llm := groq_provider.New(cfg.LLM.APIKey, cfg.LLM.Endpoint, cfg.LLM.Model, cfg.LLM.MaxTokens, cfg.LLM.Timeout)
	client := linkedin.NewClient(cfg.LinkedIn)
	store := history.NewStore(cfg.History)
	return pipeline.NewRunner(cfg, logger, metrics, out, feed, llm, client, client, store)
}
