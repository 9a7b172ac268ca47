package entities

import (
	"time"
)

// Topic represents a tracked environmental subject with a time-varying severity score
type Topic struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"not null" json:"name"`
	Slug           string    `gorm:"not null;uniqueIndex" json:"slug"`
	Category       Category  `gorm:"type:varchar(32);not null;index" json:"category"`
	Region         string    `gorm:"type:varchar(128)" json:"region"`
	CurrentScore   int       `gorm:"not null" json:"currentScore"`
	PreviousScore  int       `gorm:"not null" json:"previousScore"`
	Urgency        Urgency   `gorm:"type:varchar(16);not null" json:"urgency"`
	ImpactSummary  string    `gorm:"type:text" json:"impactSummary"`
	ImageURL       string    `gorm:"type:text" json:"imageUrl"`
	ArticleCount   int       `gorm:"not null" json:"articleCount"`
	HealthScore    int       `gorm:"not null" json:"healthScore"`
	EcoScore       int       `gorm:"not null" json:"ecoScore"`
	EconScore      int       `gorm:"not null" json:"econScore"`
	ScoreReasoning string    `gorm:"type:text" json:"scoreReasoning"`
	Hidden         bool      `gorm:"not null;index" json:"hidden"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName returns the table name for Topic
func (Topic) TableName() string {
	return "topics"
}

// Change is the signed delta between the two most recent scores
func (t *Topic) Change() int {
	return t.CurrentScore - t.PreviousScore
}

// Article is a news item owned by exactly one topic
type Article struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	TopicID     uint       `gorm:"not null;index" json:"topicId"`
	Title       string     `gorm:"not null" json:"title"`
	URL         string     `gorm:"not null;uniqueIndex" json:"url"`
	Source      string     `gorm:"type:varchar(200);index" json:"source"`
	Summary     string     `gorm:"type:text" json:"summary"`
	ImageURL    string     `gorm:"type:text" json:"imageUrl"`
	PublishedAt *time.Time `json:"publishedAt"`
	SourceType  SourceType `gorm:"type:varchar(16)" json:"sourceType"`
	// ClassifiedAt is set by the batch run that consumed the article
	ClassifiedAt *time.Time `gorm:"index" json:"classifiedAt,omitempty"`
	Severity     *int       `json:"severity,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName returns the table name for Article
func (Article) TableName() string {
	return "articles"
}

// ScoreHistory is the per-day snapshot of a topic's score
type ScoreHistory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TopicID     uint      `gorm:"not null;uniqueIndex:idx_score_history_topic_day,priority:1" json:"topicId"`
	RecordedAt  time.Time `gorm:"type:date;not null;uniqueIndex:idx_score_history_topic_day,priority:2;index" json:"recordedAt"`
	Score       int       `gorm:"not null" json:"score"`
	HealthScore int       `gorm:"not null" json:"healthScore"`
	EcoScore    int       `gorm:"not null" json:"ecoScore"`
	EconScore   int       `gorm:"not null" json:"econScore"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName returns the table name for ScoreHistory
func (ScoreHistory) TableName() string {
	return "score_history"
}

// Keyword is a search term attached to a topic
type Keyword struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TopicID   uint      `gorm:"not null;uniqueIndex:idx_topic_keyword,priority:1" json:"topicId"`
	Keyword   string    `gorm:"type:varchar(128);not null;uniqueIndex:idx_topic_keyword,priority:2" json:"keyword"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName returns the table name for Keyword
func (Keyword) TableName() string {
	return "topic_keywords"
}

// DayUTC truncates t to the start of its UTC calendar day
func DayUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ArticleFilter selects articles for deletion. Set criteria are combined with AND.
type ArticleFilter struct {
	IDs     []uint
	URL     *string
	TopicID *uint
	Source  *string
}

// Empty reports whether the filter has no criteria
func (f ArticleFilter) Empty() bool {
	return len(f.IDs) == 0 && f.URL == nil && f.TopicID == nil && f.Source == nil
}
