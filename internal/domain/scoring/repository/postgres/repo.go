package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sidtheone/ecoticker-sub001/internal/domain/scoring/deps"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/scoring/entities"
	scoringerrors "github.com/sidtheone/ecoticker-sub001/internal/domain/scoring/errors"
	topicentities "github.com/sidtheone/ecoticker-sub001/internal/domain/topic/entities"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/database"
	pkgerrors "github.com/sidtheone/ecoticker-sub001/pkg/errors"
)

type scoreRepository struct {
	db *gorm.DB
}

// NewScoreRepository creates a new score repository
func NewScoreRepository(db *gorm.DB) deps.ScoreStore {
	return &scoreRepository{
		db: db,
	}
}

// Candidates returns topics with unclassified articles together with those
// articles and the topic keywords
func (r *scoreRepository) Candidates(ctx context.Context) ([]entities.Candidate, error) {
	conn := database.Conn(ctx, r.db)

	var articles []topicentities.Article
	err := conn.
		Where("classified_at IS NULL").
		Order("topic_id ASC").
		Order("id ASC").
		Find(&articles).Error
	if err != nil {
		return nil, pkgerrors.WrapDatabaseError("failed to load unclassified articles", err)
	}
	if len(articles) == 0 {
		return nil, nil
	}

	byTopic := make(map[uint][]topicentities.Article)
	topicIDs := make([]uint, 0)
	for _, a := range articles {
		if _, ok := byTopic[a.TopicID]; !ok {
			topicIDs = append(topicIDs, a.TopicID)
		}
		byTopic[a.TopicID] = append(byTopic[a.TopicID], a)
	}

	var topics []topicentities.Topic
	if err := conn.Where("id IN ?", topicIDs).Order("id ASC").Find(&topics).Error; err != nil {
		return nil, pkgerrors.WrapDatabaseError("failed to load candidate topics", err)
	}

	var keywords []topicentities.Keyword
	err = conn.
		Where("topic_id IN ?", topicIDs).
		Order("keyword ASC").
		Find(&keywords).Error
	if err != nil {
		return nil, pkgerrors.WrapDatabaseError("failed to load candidate keywords", err)
	}
	keywordsByTopic := make(map[uint][]string)
	for _, k := range keywords {
		keywordsByTopic[k.TopicID] = append(keywordsByTopic[k.TopicID], k.Keyword)
	}

	candidates := make([]entities.Candidate, 0, len(topics))
	for _, t := range topics {
		candidates = append(candidates, entities.Candidate{
			Topic:    t,
			Keywords: keywordsByTopic[t.ID],
			Articles: byTopic[t.ID],
		})
	}
	return candidates, nil
}

// ApplyScore writes one topic's batch result
func (r *scoreRepository) ApplyScore(ctx context.Context, score entities.TopicScore) (*entities.ScoredTopic, error) {
	conn := database.Conn(ctx, r.db)
	agg := score.Aggregate

	var topic topicentities.Topic
	if err := conn.First(&topic, score.TopicID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, scoringerrors.ErrTopicGone
		}
		return nil, pkgerrors.WrapDatabaseError("failed to load topic", err)
	}

	for articleID, severity := range agg.Severities {
		err := conn.Model(&topicentities.Article{}).
			Where("id = ? AND topic_id = ?", articleID, score.TopicID).
			Updates(map[string]interface{}{
				"classified_at": score.ScoredAt,
				"severity":      severity,
			}).Error
		if err != nil {
			return nil, pkgerrors.WrapDatabaseError("failed to stamp classified article", err)
		}
	}

	var articleCount int64
	if err := conn.Model(&topicentities.Article{}).Where("topic_id = ?", score.TopicID).Count(&articleCount).Error; err != nil {
		return nil, pkgerrors.WrapDatabaseError("failed to count topic articles", err)
	}

	// previous_score reads the pre-update current_score
	err := conn.Model(&topicentities.Topic{}).Where("id = ?", topic.ID).Updates(map[string]interface{}{
		"previous_score":  gorm.Expr("current_score"),
		"current_score":   agg.Score,
		"health_score":    agg.HealthScore,
		"eco_score":       agg.EcoScore,
		"econ_score":      agg.EconScore,
		"urgency":         topicentities.UrgencyFor(agg.Score),
		"score_reasoning": agg.Reasoning,
		"article_count":   articleCount,
		"updated_at":      score.ScoredAt,
	}).Error
	if err != nil {
		return nil, pkgerrors.WrapDatabaseError("failed to update topic score", err)
	}

	history := topicentities.ScoreHistory{
		TopicID:     score.TopicID,
		RecordedAt:  topicentities.DayUTC(score.Day),
		Score:       agg.Score,
		HealthScore: agg.HealthScore,
		EcoScore:    agg.EcoScore,
		EconScore:   agg.EconScore,
	}
	err = conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "topic_id"}, {Name: "recorded_at"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "health_score", "eco_score", "econ_score"}),
	}).Create(&history).Error
	if err != nil {
		return nil, pkgerrors.WrapDatabaseError("failed to upsert score history", err)
	}

	return &entities.ScoredTopic{
		ID:            topic.ID,
		Slug:          topic.Slug,
		Name:          topic.Name,
		CurrentScore:  agg.Score,
		PreviousScore: topic.CurrentScore,
		Urgency:       topicentities.UrgencyFor(agg.Score),
		HealthScore:   agg.HealthScore,
		EcoScore:      agg.EcoScore,
		EconScore:     agg.EconScore,
		ArticleCount:  int(articleCount),
	}, nil
}
