package deps

import (
	"context"

	"github.com/sidtheone/ecoticker-sub001/internal/domain/scoring/dto"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/scoring/entities"
)

// ScoreStore defines the data access of batch runs
type ScoreStore interface {
	// Candidates returns topics that have unclassified articles, by topic id
	Candidates(ctx context.Context) ([]entities.Candidate, error)

	// ApplyScore rotates the topic's scores, upserts the day's history row
	// and stamps the classified articles. Callers run it in a transaction.
	ApplyScore(ctx context.Context, score entities.TopicScore) (*entities.ScoredTopic, error)
}

// Classifier scores articles of one topic
type Classifier interface {
	Classify(ctx context.Context, req dto.ClassifyRequest) ([]entities.ArticleScore, error)
}

// AggregationPolicy reduces article scores to a topic score
type AggregationPolicy interface {
	Aggregate(results []entities.ArticleScore) (entities.Aggregate, error)
}

// Transactor runs fn inside a single storage transaction
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// AuditRecorder appends privileged actions to the audit log
type AuditRecorder interface {
	Record(ctx context.Context, action, actor, target string, metadata map[string]interface{}) error
	RecordFailure(ctx context.Context, action, actor, target string, metadata map[string]interface{}) error
}

// ReadCache is invalidated after scores change
type ReadCache interface {
	Invalidate(ctx context.Context, keys ...string) error
}

// EventPublisher publishes score changes to downstream consumers
type EventPublisher interface {
	PublishTopicScored(ctx context.Context, event dto.TopicScoredEvent) error
}
