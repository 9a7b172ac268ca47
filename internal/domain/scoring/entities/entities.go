package entities

import (
	"time"

	topicentities "github.com/sidtheone/ecoticker-sub001/internal/domain/topic/entities"
)

// Candidate is a topic with the articles no batch run has consumed yet
type Candidate struct {
	Topic    topicentities.Topic
	Keywords []string
	Articles []topicentities.Article
}

// ArticleScore is the classifier's assessment of one article. Sub-scores
// are 0-100 and confidence is 0-1.
type ArticleScore struct {
	ArticleID   uint
	HealthScore int
	EcoScore    int
	EconScore   int
	Confidence  float64
	Reasoning   string
}

// Aggregate is a topic's score derived from its article scores
type Aggregate struct {
	Score       int
	HealthScore int
	EcoScore    int
	EconScore   int
	Reasoning   string

	// Severities is the combined score of each classified article
	Severities map[uint]int
}

// TopicScore is everything one committed topic update writes
type TopicScore struct {
	TopicID   uint
	Aggregate Aggregate
	Day       time.Time
	ScoredAt  time.Time
}

// ScoredTopic is a topic after its update committed
type ScoredTopic struct {
	ID            uint
	Slug          string
	Name          string
	CurrentScore  int
	PreviousScore int
	Urgency       topicentities.Urgency
	HealthScore   int
	EcoScore      int
	EconScore     int
	ArticleCount  int
}
