package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sidtheone/ecoticker-sub001/internal/domain/topic/deps"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/topic/entities"
	topicerrors "github.com/sidtheone/ecoticker-sub001/internal/domain/topic/errors"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/database"
	pkgerrors "github.com/sidtheone/ecoticker-sub001/pkg/errors"
)

type topicRepository struct {
	db *gorm.DB
}

// NewTopicRepository creates a new topic repository
func NewTopicRepository(db *gorm.DB) deps.TopicStore {
	return &topicRepository{
		db: db,
	}
}

func (r *topicRepository) visible(ctx context.Context) *gorm.DB {
	return database.Conn(ctx, r.db).Where("hidden = ?", false)
}

// Ticker returns visible topics by current score
func (r *topicRepository) Ticker(ctx context.Context, limit int) ([]entities.Topic, error) {
	var topics []entities.Topic
	err := r.visible(ctx).
		Order("current_score DESC").
		Order("id ASC").
		Limit(limit).
		Find(&topics).Error
	if err != nil {
		return nil, pkgerrors.WrapDatabaseError("failed to load ticker", err)
	}
	return topics, nil
}

// Movers returns visible topics by absolute score change
func (r *topicRepository) Movers(ctx context.Context, limit int) ([]entities.Topic, error) {
	var topics []entities.Topic
	err := r.visible(ctx).
		Order("ABS(current_score - previous_score) DESC").
		Order("current_score DESC").
		Order("id ASC").
		Limit(limit).
		Find(&topics).Error
	if err != nil {
		return nil, pkgerrors.WrapDatabaseError("failed to load movers", err)
	}
	return topics, nil
}

// ListVisible returns visible topics by current score
func (r *topicRepository) ListVisible(ctx context.Context, category entities.Category) ([]entities.Topic, error) {
	q := r.visible(ctx)
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var topics []entities.Topic
	if err := q.Order("current_score DESC").Order("id ASC").Find(&topics).Error; err != nil {
		return nil, pkgerrors.WrapDatabaseError("failed to list topics", err)
	}
	return topics, nil
}

// GetBySlug retrieves a topic by slug
func (r *topicRepository) GetBySlug(ctx context.Context, slug string) (*entities.Topic, error) {
	var topic entities.Topic
	if err := database.Conn(ctx, r.db).Where("slug = ?", slug).First(&topic).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, topicerrors.ErrTopicNotFound
		}
		return nil, pkgerrors.WrapDatabaseError("failed to get topic", err)
	}
	return &topic, nil
}

// GetByID retrieves a topic by id
func (r *topicRepository) GetByID(ctx context.Context, id uint) (*entities.Topic, error) {
	var topic entities.Topic
	if err := database.Conn(ctx, r.db).First(&topic, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, topicerrors.ErrTopicNotFound
		}
		return nil, pkgerrors.WrapDatabaseError("failed to get topic", err)
	}
	return &topic, nil
}

// Create inserts a topic
func (r *topicRepository) Create(ctx context.Context, topic *entities.Topic) error {
	if err := database.Conn(ctx, r.db).Create(topic).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return topicerrors.ErrTopicAlreadyExists
		}
		return pkgerrors.WrapDatabaseError("failed to create topic", err)
	}
	return nil
}

// Update applies column updates and returns the updated topic
func (r *topicRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (*entities.Topic, error) {
	topic, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := database.Conn(ctx, r.db).Model(topic).Updates(updates).Error; err != nil {
		return nil, pkgerrors.WrapDatabaseError("failed to update topic", err)
	}

	return r.GetByID(ctx, id)
}

// DeleteTopics removes topics and every row referencing them, children
// first, as one unit
func (r *topicRepository) DeleteTopics(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	var deleted int64
	err := database.Conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("topic_id IN ?", ids).Delete(&entities.Keyword{}).Error; err != nil {
			return err
		}
		if err := tx.Where("topic_id IN ?", ids).Delete(&entities.ScoreHistory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("topic_id IN ?", ids).Delete(&entities.Article{}).Error; err != nil {
			return err
		}

		res := tx.Where("id IN ?", ids).Delete(&entities.Topic{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, pkgerrors.WrapDatabaseError("failed to delete topics", err)
	}

	return deleted, nil
}

// TopicIDsWithArticleCountAtMost returns ids of topics with at most n stored articles.
// Counts are taken from the articles table, not the scored article_count column.
func (r *topicRepository) TopicIDsWithArticleCountAtMost(ctx context.Context, n int) ([]uint, error) {
	var ids []uint
	err := database.Conn(ctx, r.db).
		Table("topics AS t").
		Joins("LEFT JOIN articles AS a ON a.topic_id = t.id").
		Group("t.id").
		Having("COUNT(a.id) <= ?", n).
		Order("t.id ASC").
		Pluck("t.id", &ids).Error
	if err != nil {
		return nil, pkgerrors.WrapDatabaseError("failed to select topics by article count", err)
	}
	return ids, nil
}

// History returns score snapshots since a day, oldest first
func (r *topicRepository) History(ctx context.Context, topicID uint, since time.Time) ([]entities.ScoreHistory, error) {
	var history []entities.ScoreHistory
	err := database.Conn(ctx, r.db).
		Where("topic_id = ? AND recorded_at >= ?", topicID, entities.DayUTC(since)).
		Order("recorded_at ASC").
		Find(&history).Error
	if err != nil {
		return nil, pkgerrors.WrapDatabaseError("failed to load score history", err)
	}
	return history, nil
}

// Keywords returns the keywords of a topic in alphabetical order
func (r *topicRepository) Keywords(ctx context.Context, topicID uint) ([]string, error) {
	keywords := []string{}
	err := database.Conn(ctx, r.db).
		Model(&entities.Keyword{}).
		Where("topic_id = ?", topicID).
		Order("keyword ASC").
		Pluck("keyword", &keywords).Error
	if err != nil {
		return nil, pkgerrors.WrapDatabaseError("failed to load keywords", err)
	}
	return keywords, nil
}

// AddKeywords attaches keywords that are not attached yet
func (r *topicRepository) AddKeywords(ctx context.Context, topicID uint, keywords []string) (int64, error) {
	if len(keywords) == 0 {
		return 0, nil
	}

	rows := make([]entities.Keyword, 0, len(keywords))
	for _, kw := range keywords {
		rows = append(rows, entities.Keyword{TopicID: topicID, Keyword: kw})
	}

	res := database.Conn(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "topic_id"}, {Name: "keyword"}},
			DoNothing: true,
		}).
		Create(&rows)
	if res.Error != nil {
		return 0, pkgerrors.WrapDatabaseError("failed to add keywords", res.Error)
	}
	return res.RowsAffected, nil
}

// CreateArticle inserts an article
func (r *topicRepository) CreateArticle(ctx context.Context, article *entities.Article) error {
	if err := database.Conn(ctx, r.db).Create(article).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return topicerrors.ErrArticleAlreadyExists
		}
		return pkgerrors.WrapDatabaseError("failed to create article", err)
	}
	return nil
}

// DeleteArticles removes articles matching the filter. An empty filter
// deletes nothing.
func (r *topicRepository) DeleteArticles(ctx context.Context, filter entities.ArticleFilter) (int64, error) {
	if filter.Empty() {
		return 0, nil
	}

	q := database.Conn(ctx, r.db)
	if len(filter.IDs) > 0 {
		q = q.Where("id IN ?", filter.IDs)
	}
	if filter.URL != nil {
		q = q.Where("url = ?", *filter.URL)
	}
	if filter.TopicID != nil {
		q = q.Where("topic_id = ?", *filter.TopicID)
	}
	if filter.Source != nil {
		q = q.Where("source = ?", *filter.Source)
	}

	res := q.Delete(&entities.Article{})
	if res.Error != nil {
		return 0, pkgerrors.WrapDatabaseError("failed to delete articles", res.Error)
	}
	return res.RowsAffected, nil
}
