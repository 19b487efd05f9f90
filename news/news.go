package news

import (
	"context"
	"log"

	"github.com/jasmeetsingh/autoposter/models"
)

// SearchFeed is the narrow surface the pipeline needs from a topic source.
type SearchFeed interface {
	Search(ctx context.Context, query string) ([]models.TopicCandidate, error)
}

// Collect issues up to maxQueries queries against feed and concatenates the
// successful results in query order. A failing query is logged and skipped so
// partial results survive; the failure count is returned for reporting. The
// candidate slice may be empty.
func Collect(ctx context.Context, feed SearchFeed, queries []string, maxQueries int, logger *log.Logger) ([]models.TopicCandidate, int) {
	if maxQueries > 0 && len(queries) > maxQueries {
		queries = queries[:maxQueries]
	}

	var (
		all      []models.TopicCandidate
		failures int
	)
	for i, query := range queries {
		if ctx.Err() != nil {
			logger.Printf("warn: search aborted: %v", ctx.Err())
			failures += len(queries) - i
			break
		}
		results, err := feed.Search(ctx, query)
		if err != nil {
			logger.Printf("warn: search %q failed: %v", query, err)
			failures++
			continue
		}
		all = append(all, results...)
	}
	return all, failures
}
