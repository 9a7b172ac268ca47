package deps

import (
	"context"
	"time"

	"github.com/sidtheone/ecoticker-sub001/internal/domain/topic/entities"
)

// TopicStore defines the interface for topic, article and keyword data access.
// Every method joins the transaction carried by ctx if any.
type TopicStore interface {
	// Ticker returns visible topics by current score, highest first
	Ticker(ctx context.Context, limit int) ([]entities.Topic, error)

	// Movers returns visible topics by absolute score change, largest first
	Movers(ctx context.Context, limit int) ([]entities.Topic, error)

	// ListVisible returns visible topics, optionally restricted to a category
	ListVisible(ctx context.Context, category entities.Category) ([]entities.Topic, error)

	GetBySlug(ctx context.Context, slug string) (*entities.Topic, error)
	GetByID(ctx context.Context, id uint) (*entities.Topic, error)
	Create(ctx context.Context, topic *entities.Topic) error

	// Update applies column updates to a topic and returns the fresh row
	Update(ctx context.Context, id uint, updates map[string]interface{}) (*entities.Topic, error)

	// DeleteTopics removes topics with their keywords, history and articles
	// in one transaction and returns the number of topics removed
	DeleteTopics(ctx context.Context, ids []uint) (int64, error)

	// TopicIDsWithArticleCountAtMost returns ids of topics with at most n articles
	TopicIDsWithArticleCountAtMost(ctx context.Context, n int) ([]uint, error)

	// History returns score snapshots recorded on or after since, oldest first
	History(ctx context.Context, topicID uint, since time.Time) ([]entities.ScoreHistory, error)

	Keywords(ctx context.Context, topicID uint) ([]string, error)

	// AddKeywords attaches keywords, ignoring ones already present
	AddKeywords(ctx context.Context, topicID uint, keywords []string) (int64, error)

	CreateArticle(ctx context.Context, article *entities.Article) error

	// DeleteArticles removes articles matching every criterion of the filter
	DeleteArticles(ctx context.Context, filter entities.ArticleFilter) (int64, error)
}

// Transactor runs fn inside a single storage transaction
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// AuditRecorder appends privileged actions to the audit log
type AuditRecorder interface {
	Record(ctx context.Context, action, actor, target string, metadata map[string]interface{}) error
}

// ReadCache caches the ticker and movers read models
type ReadCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Invalidate(ctx context.Context, keys ...string) error
}
