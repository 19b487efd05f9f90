package topics

import (
	"strings"

	"github.com/jasmeetsingh/autoposter/models"
)

// Dedupe filters candidates by lower-cased title, keeping the first
// occurrence of each title in order, dropping empty titles, and truncating
// the result to max entries.
func Dedupe(cands []models.TopicCandidate, max int) []models.TopicCandidate {
	seen := make(map[string]struct{}, len(cands))
	unique := make([]models.TopicCandidate, 0, len(cands))
	for _, c := range cands {
		if c.Title == "" {
			continue
		}
		key := strings.ToLower(c.Title)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, c)
	}
	if max > 0 && len(unique) > max {
		unique = unique[:max]
	}
	return unique
}

// FilterRecent drops candidates whose lower-cased title matches a topic
// already present in history. Best-effort repetition guard; it runs before
// the empty-check so a fully repeated result set falls back instead of
// reposting.
func FilterRecent(cands []models.TopicCandidate, history models.History) []models.TopicCandidate {
	if len(cands) == 0 || len(history.Posts) == 0 {
		return cands
	}

	recent := make(map[string]struct{}, len(history.Posts))
	for _, p := range history.Posts {
		if topic := strings.ToLower(strings.TrimSpace(p.Topic)); topic != "" {
			recent[topic] = struct{}{}
		}
	}

	kept := make([]models.TopicCandidate, 0, len(cands))
	for _, c := range cands {
		if _, ok := recent[strings.ToLower(c.Title)]; ok {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

// Fallback returns the fixed catalog substituted when search yields nothing.
// Callers receive fresh copies.
func Fallback() []models.TopicCandidate {
	return []models.TopicCandidate{
		{
			Title:  "Kotlin 2.0 and the future of Android development",
			Body:   "Kotlin 2.0 brings major improvements to the language including better performance and new features",
			Source: "Android Weekly",
			Date:   "recent",
		},
		{
			Title:  "Jetpack Compose performance optimization techniques",
			Body:   "Best practices for building smooth 60fps UIs with Compose including recomposition optimization",
			Source: "Android Developers Blog",
			Date:   "recent",
		},
		{
			Title:  "Android 15 new features for developers",
			Body:   "Latest Android version brings new APIs and capabilities for app developers",
			Source: "Google",
			Date:   "recent",
		},
		{
			Title:  "Health Connect SDK integration patterns",
			Body:   "Building health and fitness apps with Google Health Connect SDK best practices",
			Source: "Android Health",
			Date:   "recent",
		},
		{
			Title:  "Modern Android app architecture with MVI pattern",
			Body:   "Moving beyond MVVM to Model-View-Intent for better state management",
			Source: "ProAndroidDev",
			Date:   "recent",
		},
	}
}
