// Package pipeline coordinates one end-to-end posting run: collect trending
// topics, pick one, generate the post, publish it, and record it.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/jasmeetsingh/autoposter/config"
	"github.com/jasmeetsingh/autoposter/internal/agent"
	"github.com/jasmeetsingh/autoposter/internal/history"
	"github.com/jasmeetsingh/autoposter/internal/telemetry"
	"github.com/jasmeetsingh/autoposter/linkedin"
	"github.com/jasmeetsingh/autoposter/models"
	"github.com/jasmeetsingh/autoposter/news"
	"github.com/jasmeetsingh/autoposter/provider"
	"github.com/jasmeetsingh/autoposter/topics"
)

// Runner holds every stage of the posting pipeline behind narrow
// interfaces so each one is substitutable in tests.
type Runner struct {
	cfg     *config.Config
	logger  *log.Logger
	metrics *telemetry.Metrics
	out     io.Writer

	feed      news.SearchFeed
	llm       provider.ChatCompletion
	identity  linkedin.Identity
	publisher linkedin.Publisher
	store     *history.Store
}

func NewRunner(cfg *config.Config, logger *log.Logger, metrics *telemetry.Metrics, out io.Writer,
	feed news.SearchFeed, llm provider.ChatCompletion, identity linkedin.Identity, publisher linkedin.Publisher,
	store *history.Store) *Runner {
	return &Runner{
		cfg:       cfg,
		logger:    logger,
		metrics:   metrics,
		out:       out,
		feed:      feed,
		llm:       llm,
		identity:  identity,
		publisher: publisher,
		store:     store,
	}
}

// Run executes one posting run. Credentials are validated before any
// network call; a dry run stops after printing the generated post.
func (r *Runner) Run(ctx context.Context, dryRun bool) error {
	runID := uuid.New().String()
	startTime := time.Now()
	r.metrics.Runs.Inc()
	defer func() {
		r.metrics.RunDuration.Observe(time.Since(startTime).Seconds())
	}()

	r.logger.Printf("starting run %s (dry run: %v)", runID, dryRun)

	if r.cfg.LLM.APIKey == "" {
		return fmt.Errorf("llm api key is not set (set GROQ_API_KEY)")
	}
	tokens, err := linkedin.LoadTokens(r.cfg.LinkedIn)
	if err != nil {
		return fmt.Errorf("loading linkedin tokens: %w", err)
	}

	hist, err := r.store.Load()
	if err != nil {
		r.logger.Printf("warn: loading history failed: %v", err)
		hist = models.History{}
	}

	cands, failures := news.Collect(ctx, r.feed, r.cfg.Search.Queries, r.cfg.Search.MaxQueries, r.logger)
	r.metrics.SearchFailures.Add(float64(failures))

	cands = topics.Dedupe(cands, r.cfg.Search.MaxTopics)
	cands = topics.FilterRecent(cands, hist)
	if len(cands) == 0 {
		r.logger.Printf("no fresh topics found, using fallback list")
		cands = topics.Fallback()
		if len(cands) > r.cfg.Search.MaxTopics {
			cands = cands[:r.cfg.Search.MaxTopics]
		}
	}
	r.logger.Printf("considering %d topics", len(cands))

	selector := agent.NewSelector(r.llm, r.cfg.LLM.SelectionTemperature, r.logger)
	decision, err := selector.Pick(ctx, cands)
	if err != nil {
		return err
	}
	r.logger.Printf("selected topic %q (%s)", decision.SelectedTopic, decision.PostType)

	generator := agent.NewGenerator(r.llm, r.cfg.LLM.GenerationTemperature)
	post, err := generator.Write(ctx, decision)
	if err != nil {
		return err
	}

	if dryRun {
		r.logger.Printf("dry run, skipping publish")
		fmt.Fprintln(r.out, post)
		return nil
	}

	if tokens.PersonURN == "" {
		urn, err := r.identity.ResolveIdentity(ctx, tokens)
		if err != nil {
			return fmt.Errorf("resolving linkedin identity: %w", err)
		}
		tokens.PersonURN = urn
	}

	result, err := r.publisher.Publish(ctx, tokens, post)
	if err != nil {
		r.metrics.PublishFailures.Inc()
		return fmt.Errorf("publishing post: %w", err)
	}
	if !result.Success {
		r.metrics.PublishFailures.Inc()
		return fmt.Errorf("linkedin rejected the post: %s", result.Error)
	}
	r.metrics.Published.Inc()

	entry := models.HistoryEntry{
		Date:        time.Now().Format(time.RFC3339),
		Topic:       decision.SelectedTopic,
		PostPreview: history.Preview(post),
		PostID:      result.PostID,
		RunID:       runID,
	}
	if err := r.store.Append(entry); err != nil {
		r.logger.Printf("warn: recording history failed: %v", err)
	}

	r.logger.Printf("completed run %s in %v", runID, time.Since(startTime))
	fmt.Fprintf(r.out, "Published: %s\n", result.PostID)
	return nil
}
