package models

import "errors"

// ErrNoTokens is returned when neither the environment nor the token file
// yields LinkedIn credentials.
var ErrNoTokens = errors.New("linkedin tokens not found")

// TopicCandidate is a single search-derived topic eligible for selection.
// Candidates are considered equal when their lower-cased titles match.
type TopicCandidate struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	Source string `json:"source"`
	Date   string `json:"date"`
}

type PostType string

const (
	PostTypeTechnicalTip  PostType = "technical_tip"
	PostTypeCareerInsight PostType = "career_insight"
	PostTypeTrendAnalysis PostType = "trend_analysis"
	PostTypePersonalStory PostType = "personal_story"
	PostTypeHotTake       PostType = "hot_take"
)

// TopicDecision is the selector's verdict: which candidate to write about and
// from what angle. Produced once per run and immutable afterwards.
type TopicDecision struct {
	SelectedTopic string   `json:"selected_topic"`
	WhySelected   string   `json:"why_selected"`
	PostAngle     string   `json:"post_angle"`
	PostType      PostType `json:"post_type"`
}

// AuthTokens holds the pre-authorized LinkedIn credentials. PersonURN may be
// empty, in which case the publisher resolves it from the userinfo endpoint.
type AuthTokens struct {
	AccessToken string `json:"access_token"`
	PersonURN   string `json:"person_urn"`
}

// PublishResult reports the outcome of a publish attempt. Error carries the
// raw response body on failure.
type PublishResult struct {
	Success bool   `json:"success"`
	PostID  string `json:"post_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HistoryEntry is one published post as recorded in the history file.
type HistoryEntry struct {
	Date        string `json:"date"`
	Topic       string `json:"topic"`
	PostPreview string `json:"post_preview"`
	PostID      string `json:"post_id"`
	RunID       string `json:"run_id,omitempty"`
}

// History is the persisted sequence of entries, oldest first, capped by the
// recorder to the most recent entries.
type History struct {
	Posts []HistoryEntry `json:"posts"`
}
