package dto

import (
	"time"
)

// ClassifyArticle is one article sent for classification
type ClassifyArticle struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// ClassifyRequest is the body of POST {classifier}/classify
type ClassifyRequest struct {
	Topic    string            `json:"topic"`
	Keywords []string          `json:"keywords"`
	Articles []ClassifyArticle `json:"articles"`
}

// ClassifyResult is one scored article of a classify response
type ClassifyResult struct {
	ID          uint    `json:"id"`
	HealthScore int     `json:"healthScore"`
	EcoScore    int     `json:"ecoScore"`
	EconScore   int     `json:"econScore"`
	Confidence  float64 `json:"confidence"`
	Reasoning   string  `json:"reasoning"`
}

// ClassifyResponse is the body returned by the classifier
type ClassifyResponse struct {
	Results []ClassifyResult `json:"results"`
}

// SkippedTopic is a candidate whose prior score was kept
type SkippedTopic struct {
	TopicID uint   `json:"topicId"`
	Slug    string `json:"slug"`
	Error   string `json:"error"`
}

// RunReport summarizes a batch run
type RunReport struct {
	Actor      string         `json:"actor"`
	Success    bool           `json:"success"`
	Candidates int            `json:"candidates"`
	Scored     int            `json:"scored"`
	Failed     int            `json:"failed"`
	Articles   int            `json:"articles"`
	Skipped    []SkippedTopic `json:"skipped"`
	StartedAt  time.Time      `json:"startedAt"`
	FinishedAt time.Time      `json:"finishedAt"`
	DurationMs int64          `json:"durationMs"`
}

// TopicScoredEvent is published to the topics.scored topic after a topic's
// update commits
type TopicScoredEvent struct {
	TopicID       uint      `json:"topicId"`
	Slug          string    `json:"slug"`
	Name          string    `json:"name"`
	Score         int       `json:"score"`
	PreviousScore int       `json:"previousScore"`
	Change        int       `json:"change"`
	Urgency       string    `json:"urgency"`
	HealthScore   int       `json:"healthScore"`
	EcoScore      int       `json:"ecoScore"`
	EconScore     int       `json:"econScore"`
	ArticleCount  int       `json:"articleCount"`
	ScoredAt      time.Time `json:"scoredAt"`
}
