package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jasmeetsingh/autoposter/config"
	"github.com/jasmeetsingh/autoposter/internal/history"
	"github.com/jasmeetsingh/autoposter/internal/telemetry"
	"github.com/jasmeetsingh/autoposter/models"
	"github.com/jasmeetsingh/autoposter/provider"
)

const (
	decisionReply = `{"selected_topic": "Kotlin 2.0 released", "why_selected": "hot", "post_angle": "what it changes", "post_type": "technical_tip"}`
	postReply     = `"K2 is now the default compiler. Builds got measurably faster. Worth testing this week."`
	postText      = `K2 is now the default compiler. Builds got measurably faster. Worth testing this week.`
)

type fakeFeed struct {
	results []models.TopicCandidate
	err     error
	calls   int
}

func (f *fakeFeed) Search(ctx context.Context, query string) ([]models.TopicCandidate, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

type fakeLLM struct {
	replies []string
	errs    []error
	calls   [][]provider.Message
	temps   []float64
}

func (f *fakeLLM) Complete(ctx context.Context, messages []provider.Message, temperature float64) (string, error) {
	i := len(f.calls)
	f.calls = append(f.calls, messages)
	f.temps = append(f.temps, temperature)
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.replies) {
		return f.replies[i], nil
	}
	return "", nil
}

type fakeIdentity struct {
	urn   string
	err   error
	calls int
}

func (f *fakeIdentity) ResolveIdentity(ctx context.Context, tokens models.AuthTokens) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.urn, f.err
}

type fakePublisher struct {
	result    models.PublishResult
	err       error
	gotText   string
	gotTokens models.AuthTokens
	calls     int
}

func (f *fakePublisher) Publish(ctx context.Context, tokens models.AuthTokens, text string) (models.PublishResult, error) {
	f.calls++
	f.gotTokens = tokens
	f.gotText = text
	if f.err != nil {
		return models.PublishResult{}, f.err
	}
	return f.result, nil
}

type fixture struct {
	runner    *Runner
	cfg       *config.Config
	feed      *fakeFeed
	llm       *fakeLLM
	identity  *fakeIdentity
	publisher *fakePublisher
	store     *history.Store
	out       *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dir := t.TempDir()
	cfg := &config.Config{
		Search: config.SearchConfig{
			Queries:    []string{"android development"},
			MaxQueries: 1,
			PerQuery:   3,
			MaxTopics:  5,
		},
		LLM: config.LLMConfig{
			APIKey:                "gsk-test",
			SelectionTemperature:  0.5,
			GenerationTemperature: 0.8,
		},
		LinkedIn: config.LinkedInConfig{
			TokenFile: filepath.Join(dir, "linkedin_tokens.json"),
		},
		History: config.HistoryConfig{
			File:  filepath.Join(dir, "post_history.json"),
			Limit: 50,
		},
	}

	f := &fixture{
		cfg: cfg,
		feed: &fakeFeed{results: []models.TopicCandidate{
			{Title: "Kotlin 2.0 released", Body: "K2 is default", Source: "Android Weekly", Date: "recent"},
			{Title: "Compose 1.7 stable", Body: "new modifiers", Source: "Android Developers Blog", Date: "recent"},
		}},
		llm:       &fakeLLM{replies: []string{decisionReply, postReply}},
		identity:  &fakeIdentity{urn: "urn:li:person:resolved"},
		publisher: &fakePublisher{result: models.PublishResult{Success: true, PostID: "urn:li:share:9"}},
		store:     history.NewStore(cfg.History),
		out:       &bytes.Buffer{},
	}
	f.runner = NewRunner(cfg, log.New(io.Discard, "", 0), telemetry.NewMetrics(), f.out,
		f.feed, f.llm, f.identity, f.publisher, f.store)
	return f
}

func setEnvTokens(t *testing.T) {
	t.Helper()
	t.Setenv("LINKEDIN_ACCESS_TOKEN", "env-token")
	t.Setenv("LINKEDIN_PERSON_URN", "urn:li:person:env")
}

func clearEnvTokens(t *testing.T) {
	t.Helper()
	t.Setenv("LINKEDIN_ACCESS_TOKEN", "")
	t.Setenv("LINKEDIN_PERSON_URN", "")
}

func TestRun_DryRunPrintsPostAndSkipsPublish(t *testing.T) {
	setEnvTokens(t)
	f := newFixture(t)

	if err := f.runner.Run(context.Background(), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := f.out.String(); !strings.Contains(got, postText) {
		t.Fatalf("expected post content on output, got %q", got)
	}
	if strings.Contains(f.out.String(), postReply) {
		t.Fatal("expected surrounding quotes to be stripped")
	}
	if f.publisher.calls != 0 {
		t.Fatalf("expected no publish in dry run, got %d calls", f.publisher.calls)
	}
	if f.identity.calls != 0 {
		t.Fatalf("expected no identity lookup in dry run, got %d calls", f.identity.calls)
	}
	if len(f.llm.temps) != 2 || f.llm.temps[0] != 0.5 || f.llm.temps[1] != 0.8 {
		t.Fatalf("unexpected temperatures %v", f.llm.temps)
	}

	h, err := f.store.Load()
	if err != nil {
		t.Fatalf("loading history: %v", err)
	}
	if len(h.Posts) != 0 {
		t.Fatalf("expected empty history after dry run, got %d posts", len(h.Posts))
	}
}

func TestRun_PublishRecordsHistory(t *testing.T) {
	clearEnvTokens(t)
	f := newFixture(t)
	body := `{"access_token": "file-token"}`
	if err := os.WriteFile(f.cfg.LinkedIn.TokenFile, []byte(body), 0o600); err != nil {
		t.Fatalf("writing token file: %v", err)
	}

	if err := f.runner.Run(context.Background(), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.identity.calls != 1 {
		t.Fatalf("expected one identity lookup, got %d", f.identity.calls)
	}
	if f.publisher.gotTokens.PersonURN != "urn:li:person:resolved" {
		t.Fatalf("expected resolved urn on publish, got %q", f.publisher.gotTokens.PersonURN)
	}
	if f.publisher.gotText != postText {
		t.Fatalf("unexpected post text %q", f.publisher.gotText)
	}
	if got := f.out.String(); !strings.Contains(got, "Published: urn:li:share:9") {
		t.Fatalf("expected publish confirmation, got %q", got)
	}

	h, err := f.store.Load()
	if err != nil {
		t.Fatalf("loading history: %v", err)
	}
	if len(h.Posts) != 1 {
		t.Fatalf("expected one history entry, got %d", len(h.Posts))
	}
	entry := h.Posts[0]
	if entry.Topic != "Kotlin 2.0 released" {
		t.Fatalf("unexpected topic %q", entry.Topic)
	}
	if entry.PostPreview != postText+"..." {
		t.Fatalf("unexpected preview %q", entry.PostPreview)
	}
	if entry.PostID != "urn:li:share:9" {
		t.Fatalf("unexpected post id %q", entry.PostID)
	}
	if entry.RunID == "" {
		t.Fatal("expected run id on history entry")
	}
	if _, err := time.Parse(time.RFC3339, entry.Date); err != nil {
		t.Fatalf("expected RFC3339 date, got %q", entry.Date)
	}
}

func TestRun_EnvURNSkipsIdentityLookup(t *testing.T) {
	setEnvTokens(t)
	f := newFixture(t)

	if err := f.runner.Run(context.Background(), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.identity.calls != 0 {
		t.Fatalf("expected no identity lookup, got %d calls", f.identity.calls)
	}
	if f.publisher.gotTokens.PersonURN != "urn:li:person:env" {
		t.Fatalf("unexpected urn %q", f.publisher.gotTokens.PersonURN)
	}
}

func TestRun_MissingAPIKeyFailsBeforeSearch(t *testing.T) {
	setEnvTokens(t)
	f := newFixture(t)
	f.cfg.LLM.APIKey = ""

	if err := f.runner.Run(context.Background(), false); err == nil {
		t.Fatal("expected error for missing api key")
	}
	if f.feed.calls != 0 {
		t.Fatalf("expected no search without credentials, got %d calls", f.feed.calls)
	}
}

func TestRun_MissingTokensFailsBeforeSearch(t *testing.T) {
	clearEnvTokens(t)
	f := newFixture(t)

	err := f.runner.Run(context.Background(), false)
	if !errors.Is(err, models.ErrNoTokens) {
		t.Fatalf("expected ErrNoTokens, got %v", err)
	}
	if f.feed.calls != 0 {
		t.Fatalf("expected no search without credentials, got %d calls", f.feed.calls)
	}
}

func TestRun_EmptyFeedFallsBack(t *testing.T) {
	setEnvTokens(t)
	f := newFixture(t)
	f.feed.results = nil

	if err := f.runner.Run(context.Background(), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.llm.calls) < 1 {
		t.Fatal("expected a selection call")
	}
	prompt := f.llm.calls[0][1].Content
	if !strings.Contains(prompt, "Kotlin 2.0 and the future of Android development") {
		t.Fatalf("expected fallback topics in selection prompt, got %q", prompt)
	}
}

func TestRun_RecentTopicFiltersToFallback(t *testing.T) {
	setEnvTokens(t)
	f := newFixture(t)
	f.feed.results = []models.TopicCandidate{
		{Title: "Fresh feed topic", Body: "body", Source: "src", Date: "recent"},
	}
	if err := f.store.Append(models.HistoryEntry{Topic: "Fresh feed topic"}); err != nil {
		t.Fatalf("seeding history: %v", err)
	}

	if err := f.runner.Run(context.Background(), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prompt := f.llm.calls[0][1].Content
	if strings.Contains(prompt, "Fresh feed topic") {
		t.Fatalf("expected recently posted topic to be dropped, got %q", prompt)
	}
	if !strings.Contains(prompt, "Kotlin 2.0 and the future of Android development") {
		t.Fatalf("expected fallback topics in selection prompt, got %q", prompt)
	}
}

func TestRun_RejectedPublishIsError(t *testing.T) {
	setEnvTokens(t)
	f := newFixture(t)
	f.publisher.result = models.PublishResult{Success: false, Error: `{"message": "duplicate"}`}

	err := f.runner.Run(context.Background(), false)
	if err == nil {
		t.Fatal("expected error for rejected post")
	}
	if !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected rejection body in error, got %v", err)
	}

	h, loadErr := f.store.Load()
	if loadErr != nil {
		t.Fatalf("loading history: %v", loadErr)
	}
	if len(h.Posts) != 0 {
		t.Fatalf("expected no history entry for rejected post, got %d", len(h.Posts))
	}
}

func TestRun_LLMTransportErrorAborts(t *testing.T) {
	setEnvTokens(t)
	f := newFixture(t)
	f.llm.errs = []error{&provider.TransportError{StatusCode: 500, Body: "boom"}}

	err := f.runner.Run(context.Background(), false)
	var transportErr *provider.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if f.publisher.calls != 0 {
		t.Fatalf("expected no publish after llm failure, got %d calls", f.publisher.calls)
	}
}

func TestNextFire_Specs(t *testing.T) {
	base := time.Date(2025, 5, 1, 9, 3, 0, 0, time.UTC)

	tests := []struct {
		name string
		spec string
		want time.Time
	}{
		{"daily", "@daily", base.Add(24 * time.Hour)},
		{"hourly", "@hourly", base.Add(time.Hour)},
		{"five field", "*/5 * * * *", time.Date(2025, 5, 1, 9, 5, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := nextFire(tt.spec, base)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestNextFire_InvalidSpecIsError(t *testing.T) {
	if _, err := nextFire("not a cron spec", time.Now()); err == nil {
		t.Fatal("expected error for invalid spec")
	}
}

func TestSchedule_InvalidSpecFailsBeforeRunning(t *testing.T) {
	setEnvTokens(t)
	f := newFixture(t)

	err := Schedule(context.Background(), f.runner, "bogus spec", true, log.New(io.Discard, "", 0))
	if err == nil {
		t.Fatal("expected error for invalid cron spec")
	}
	if f.feed.calls != 0 {
		t.Fatalf("expected no run with invalid spec, got %d searches", f.feed.calls)
	}
}

func TestSchedule_RunsImmediatelyThenWaits(t *testing.T) {
	setEnvTokens(t)
	f := newFixture(t)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := Schedule(ctx, f.runner, "@hourly", true, log.New(io.Discard, "", 0))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if f.feed.calls != 1 {
		t.Fatalf("expected exactly one immediate run, got %d", f.feed.calls)
	}
}
