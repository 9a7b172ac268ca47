package dto

import (
	"time"
)

// TickerItem is one entry of the score ticker
type TickerItem struct {
	Name   string `json:"name"`
	Slug   string `json:"slug"`
	Score  int    `json:"score"`
	Change int    `json:"change"`
}

// Mover is a topic ranked by the size of its latest score change
type Mover struct {
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	CurrentScore  int    `json:"currentScore"`
	PreviousScore int    `json:"previousScore"`
	Change        int    `json:"change"`
	Urgency       string `json:"urgency"`
}

// TopicSummary is a topic as listed to readers
type TopicSummary struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Category      string    `json:"category"`
	Region        string    `json:"region"`
	CurrentScore  int       `json:"currentScore"`
	PreviousScore int       `json:"previousScore"`
	Change        int       `json:"change"`
	Urgency       string    `json:"urgency"`
	ImpactSummary string    `json:"impactSummary"`
	ImageURL      string    `json:"imageUrl"`
	ArticleCount  int       `json:"articleCount"`
	Hidden        bool      `json:"hidden"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// HistoryPoint is one day of a topic's score sparkline
type HistoryPoint struct {
	Date        string `json:"date"`
	Score       int    `json:"score"`
	HealthScore int    `json:"healthScore"`
	EcoScore    int    `json:"ecoScore"`
	EconScore   int    `json:"econScore"`
}

// TopicDetail is a topic with its keywords and recent history
type TopicDetail struct {
	ID             uint           `json:"id"`
	Name           string         `json:"name"`
	Slug           string         `json:"slug"`
	Category       string         `json:"category"`
	Region         string         `json:"region"`
	CurrentScore   int            `json:"currentScore"`
	PreviousScore  int            `json:"previousScore"`
	Change         int            `json:"change"`
	Urgency        string         `json:"urgency"`
	ImpactSummary  string         `json:"impactSummary"`
	ImageURL       string         `json:"imageUrl"`
	ArticleCount   int            `json:"articleCount"`
	HealthScore    int            `json:"healthScore"`
	EcoScore       int            `json:"ecoScore"`
	EconScore      int            `json:"econScore"`
	ScoreReasoning string         `json:"scoreReasoning"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	Keywords       []string       `json:"keywords"`
	History        []HistoryPoint `json:"history"`
}

// CreateTopicRequest is the payload of POST /admin/topics
type CreateTopicRequest struct {
	Name          string   `json:"name" validate:"required,max=200"`
	Slug          string   `json:"slug" validate:"required,max=200,slug"`
	Category      string   `json:"category" validate:"required,oneof=air_quality deforestation ocean climate pollution biodiversity wildlife energy waste water"`
	Region        string   `json:"region" validate:"max=128"`
	ImpactSummary string   `json:"impactSummary" validate:"max=2000"`
	ImageURL      string   `json:"imageUrl" validate:"omitempty,url,max=2048"`
	Keywords      []string `json:"keywords" validate:"max=50,dive,required,max=128"`
}

// UpdateTopicRequest is the payload of PATCH /admin/topics/{id}.
// Nil fields are left unchanged.
type UpdateTopicRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=1,max=200"`
	Category      *string `json:"category" validate:"omitempty,oneof=air_quality deforestation ocean climate pollution biodiversity wildlife energy waste water"`
	Region        *string `json:"region" validate:"omitempty,max=128"`
	ImpactSummary *string `json:"impactSummary" validate:"omitempty,max=2000"`
	ImageURL      *string `json:"imageUrl" validate:"omitempty,url,max=2048"`
	Hidden        *bool   `json:"hidden"`
}

// Empty reports whether the request names no field
func (r UpdateTopicRequest) Empty() bool {
	return r.Name == nil && r.Category == nil && r.Region == nil &&
		r.ImpactSummary == nil && r.ImageURL == nil && r.Hidden == nil
}

// DeleteTopicsRequest is the payload of DELETE /admin/topics. Topics named
// by ids and topics with at most articleCount articles are both removed.
type DeleteTopicsRequest struct {
	IDs          []int64 `json:"ids" validate:"max=1000,dive,gt=0"`
	ArticleCount *int    `json:"articleCount" validate:"omitempty,gte=0"`
}

func (r DeleteTopicsRequest) HasFilter() bool {
	return len(r.IDs) > 0 || r.ArticleCount != nil
}

func (r DeleteTopicsRequest) FilterFields() []string {
	return []string{"ids", "articleCount"}
}

// CreateArticleRequest is the payload of POST /admin/articles
type CreateArticleRequest struct {
	TopicID     int64      `json:"topicId" validate:"required,gt=0"`
	Title       string     `json:"title" validate:"required,max=500"`
	URL         string     `json:"url" validate:"required,url,max=2048"`
	Source      string     `json:"source" validate:"max=200"`
	Summary     string     `json:"summary" validate:"max=10000"`
	ImageURL    string     `json:"imageUrl" validate:"omitempty,url,max=2048"`
	PublishedAt *time.Time `json:"publishedAt"`
	SourceType  string     `json:"sourceType" validate:"omitempty,oneof=api rss manual"`
}

// DeleteArticlesRequest is the payload of DELETE /admin/articles.
// Set criteria are combined with AND.
type DeleteArticlesRequest struct {
	IDs     []int64 `json:"ids" validate:"max=1000,dive,gt=0"`
	URL     *string `json:"url" validate:"omitempty,url"`
	TopicID *int64  `json:"topicId" validate:"omitempty,gt=0"`
	Source  *string `json:"source" validate:"omitempty,min=1,max=200"`
}

func (r DeleteArticlesRequest) HasFilter() bool {
	return len(r.IDs) > 0 || r.URL != nil || r.TopicID != nil || r.Source != nil
}

func (r DeleteArticlesRequest) FilterFields() []string {
	return []string{"ids", "url", "topicId", "source"}
}

// DeleteResponse reports how many rows a deletion removed
type DeleteResponse struct {
	Deleted int64 `json:"deleted"`
}

// ArticleIngestedEvent is consumed from the articles.ingested topic
type ArticleIngestedEvent struct {
	TopicSlug  string   `json:"topicSlug" validate:"required,max=200,slug"`
	TopicName  string   `json:"topicName" validate:"max=200"`
	Category   string   `json:"category" validate:"omitempty,oneof=air_quality deforestation ocean climate pollution biodiversity wildlife energy waste water"`
	Region     string   `json:"region" validate:"max=128"`
	Keywords   []string `json:"keywords" validate:"max=50,dive,required,max=128"`
	Title      string   `json:"title" validate:"required,max=500"`
	URL        string   `json:"url" validate:"required,url,max=2048"`
	Source     string   `json:"source" validate:"max=200"`
	Summary    string   `json:"summary"`
	ImageURL   string   `json:"imageUrl" validate:"omitempty,url,max=2048"`
	SourceType string   `json:"sourceType" validate:"omitempty,oneof=api rss manual"`

	// PublishedAt is free-form; the consumer parses it into PublishedTime
	PublishedAt   string     `json:"publishedAt"`
	PublishedTime *time.Time `json:"-"`
}
