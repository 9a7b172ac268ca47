package buissines

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog"

	"github.com/sidtheone/ecoticker-sub001/internal/domain/topic/deps"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/topic/dto"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/topic/entities"
	topicerrors "github.com/sidtheone/ecoticker-sub001/internal/domain/topic/errors"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/cache"
	"github.com/sidtheone/ecoticker-sub001/pkg/mapfn"
	"github.com/sidtheone/ecoticker-sub001/pkg/validator"
)

const (
	TickerLimit = 15
	MoversLimit = 5
	HistoryDays = 30
)

// Audit actions of topic mutations
const (
	ActionTopicCreate   = "topic.create"
	ActionTopicUpdate   = "topic.update"
	ActionTopicDelete   = "topic.delete"
	ActionArticleCreate = "article.create"
	ActionArticleDelete = "article.delete"
)

// UseCase implements topic reads, admin mutations and article ingestion
type UseCase struct {
	store     deps.TopicStore
	tx        deps.Transactor
	audit     deps.AuditRecorder
	cache     deps.ReadCache
	validator *validator.Validator
	now       func() time.Time
	logger    zerolog.Logger
}

// NewUseCase creates a new topic use case
func NewUseCase(
	store deps.TopicStore,
	tx deps.Transactor,
	audit deps.AuditRecorder,
	readCache deps.ReadCache,
	v *validator.Validator,
	logger zerolog.Logger,
) *UseCase {
	return &UseCase{
		store:     store,
		tx:        tx,
		audit:     audit,
		cache:     readCache,
		validator: v,
		now:       time.Now,
		logger:    logger,
	}
}

// Ticker returns the top topics by current score
func (u *UseCase) Ticker(ctx context.Context) ([]dto.TickerItem, error) {
	var items []dto.TickerItem
	if u.cached(ctx, cache.KeyTicker, &items) {
		return items, nil
	}

	topics, err := u.store.Ticker(ctx, TickerLimit)
	if err != nil {
		return nil, err
	}

	items = mapfn.ConvertSlice(topics, func(t entities.Topic) dto.TickerItem {
		return dto.TickerItem{Name: t.Name, Slug: t.Slug, Score: t.CurrentScore, Change: t.Change()}
	})
	u.populate(ctx, cache.KeyTicker, items)
	return items, nil
}

// Movers returns the topics with the largest absolute score change
func (u *UseCase) Movers(ctx context.Context) ([]dto.Mover, error) {
	var movers []dto.Mover
	if u.cached(ctx, cache.KeyMovers, &movers) {
		return movers, nil
	}

	topics, err := u.store.Movers(ctx, MoversLimit)
	if err != nil {
		return nil, err
	}

	movers = mapfn.ConvertSlice(topics, func(t entities.Topic) dto.Mover {
		return dto.Mover{
			Name:          t.Name,
			Slug:          t.Slug,
			CurrentScore:  t.CurrentScore,
			PreviousScore: t.PreviousScore,
			Change:        t.Change(),
			Urgency:       string(entities.UrgencyFor(t.CurrentScore)),
		}
	})
	u.populate(ctx, cache.KeyMovers, movers)
	return movers, nil
}

// ListTopics returns visible topics, optionally restricted to one category
func (u *UseCase) ListTopics(ctx context.Context, category string) ([]dto.TopicSummary, error) {
	c := entities.Category(category)
	if c != "" && !c.Valid() {
		return nil, topicerrors.ErrUnknownCategory
	}

	topics, err := u.store.ListVisible(ctx, c)
	if err != nil {
		return nil, err
	}
	return mapfn.ConvertSlice(topics, toSummary), nil
}

// GetTopic returns a visible topic with keywords and its recent history
func (u *UseCase) GetTopic(ctx context.Context, slug string) (*dto.TopicDetail, error) {
	topic, err := u.store.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if topic.Hidden {
		return nil, topicerrors.ErrTopicNotFound
	}

	keywords, err := u.store.Keywords(ctx, topic.ID)
	if err != nil {
		return nil, err
	}

	history, err := u.store.History(ctx, topic.ID, u.now().UTC().AddDate(0, 0, -(HistoryDays-1)))
	if err != nil {
		return nil, err
	}

	var detail dto.TopicDetail
	if err := copier.Copy(&detail, topic); err != nil {
		return nil, fmt.Errorf("failed to map topic: %w", err)
	}
	detail.Change = topic.Change()
	detail.Urgency = string(entities.UrgencyFor(topic.CurrentScore))
	detail.Keywords = keywords
	detail.History = mapfn.ConvertSlice(history, func(h entities.ScoreHistory) dto.HistoryPoint {
		return dto.HistoryPoint{
			Date:        h.RecordedAt.UTC().Format(time.DateOnly),
			Score:       h.Score,
			HealthScore: h.HealthScore,
			EcoScore:    h.EcoScore,
			EconScore:   h.EconScore,
		}
	})

	return &detail, nil
}

// CreateTopic creates a topic with its keywords
func (u *UseCase) CreateTopic(ctx context.Context, actor string, req dto.CreateTopicRequest) (*dto.TopicSummary, error) {
	req, err := validator.Validate(u.validator, req)
	if err != nil {
		return nil, err
	}

	topic := &entities.Topic{
		Name:          req.Name,
		Slug:          req.Slug,
		Category:      entities.Category(req.Category),
		Region:        req.Region,
		ImpactSummary: req.ImpactSummary,
		ImageURL:      req.ImageURL,
		Urgency:       entities.UrgencyFor(0),
	}
	keywords := normalizeKeywords(req.Keywords)

	err = u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.store.Create(ctx, topic); err != nil {
			return err
		}
		if _, err := u.store.AddKeywords(ctx, topic.ID, keywords); err != nil {
			return err
		}
		return u.audit.Record(ctx, ActionTopicCreate, actor, topicTarget(topic.ID), map[string]interface{}{
			"slug":     topic.Slug,
			"category": topic.Category,
			"keywords": len(keywords),
		})
	})
	if err != nil {
		u.logger.Error().Err(err).Str("slug", req.Slug).Msg("Failed to create topic")
		return nil, err
	}

	u.invalidate(ctx)
	u.logger.Info().Uint("topic_id", topic.ID).Str("slug", topic.Slug).Str("actor", actor).Msg("Topic created")

	summary := toSummary(*topic)
	return &summary, nil
}

// UpdateTopic changes topic metadata or visibility
func (u *UseCase) UpdateTopic(ctx context.Context, actor string, id uint, req dto.UpdateTopicRequest) (*dto.TopicSummary, error) {
	if req.Empty() {
		return nil, topicerrors.ErrEmptyUpdate
	}
	req, err := validator.Validate(u.validator, req)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Category != nil {
		updates["category"] = entities.Category(*req.Category)
	}
	if req.Region != nil {
		updates["region"] = *req.Region
	}
	if req.ImpactSummary != nil {
		updates["impact_summary"] = *req.ImpactSummary
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.Hidden != nil {
		updates["hidden"] = *req.Hidden
	}

	var updated *entities.Topic
	err = u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		if updated, err = u.store.Update(ctx, id, updates); err != nil {
			return err
		}
		return u.audit.Record(ctx, ActionTopicUpdate, actor, topicTarget(id), map[string]interface{}{
			"fields": updatedFields(updates),
		})
	})
	if err != nil {
		return nil, err
	}

	u.invalidate(ctx)
	u.logger.Info().Uint("topic_id", id).Str("actor", actor).Msg("Topic updated")

	summary := toSummary(*updated)
	return &summary, nil
}

// DeleteTopics removes the topics named by id and, when articleCount is
// set, every topic with at most that many articles
func (u *UseCase) DeleteTopics(ctx context.Context, actor string, req dto.DeleteTopicsRequest) (*dto.DeleteResponse, error) {
	req, err := validator.Validate(u.validator, req)
	if err != nil {
		return nil, err
	}

	ids := mapfn.ConvertSlice(req.IDs, func(id int64) uint { return uint(id) })

	var deleted int64
	err = u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if req.ArticleCount != nil {
			sparse, err := u.store.TopicIDsWithArticleCountAtMost(ctx, *req.ArticleCount)
			if err != nil {
				return err
			}
			ids = append(ids, sparse...)
		}
		ids = mapfn.Unique(ids)

		var err error
		if deleted, err = u.store.DeleteTopics(ctx, ids); err != nil {
			return err
		}

		metadata := map[string]interface{}{
			"ids":     ids,
			"deleted": deleted,
		}
		if req.ArticleCount != nil {
			metadata["articleCount"] = *req.ArticleCount
		}
		return u.audit.Record(ctx, ActionTopicDelete, actor, "topics", metadata)
	})
	if err != nil {
		u.logger.Error().Err(err).Str("actor", actor).Msg("Failed to delete topics")
		return nil, err
	}

	u.invalidate(ctx)
	u.logger.Info().Int64("deleted", deleted).Str("actor", actor).Msg("Topics deleted")

	return &dto.DeleteResponse{Deleted: deleted}, nil
}

// CreateArticle attaches a new article to an existing topic
func (u *UseCase) CreateArticle(ctx context.Context, actor string, req dto.CreateArticleRequest) (*entities.Article, error) {
	req, err := validator.Validate(u.validator, req)
	if err != nil {
		return nil, err
	}

	sourceType := entities.SourceType(req.SourceType)
	if sourceType == "" {
		sourceType = entities.SourceTypeManual
	}
	article := &entities.Article{
		TopicID:     uint(req.TopicID),
		Title:       req.Title,
		URL:         req.URL,
		Source:      req.Source,
		Summary:     req.Summary,
		ImageURL:    req.ImageURL,
		PublishedAt: req.PublishedAt,
		SourceType:  sourceType,
	}

	err = u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := u.store.GetByID(ctx, article.TopicID); err != nil {
			return err
		}
		if err := u.store.CreateArticle(ctx, article); err != nil {
			return err
		}
		return u.audit.Record(ctx, ActionArticleCreate, actor, fmt.Sprintf("article:%d", article.ID), map[string]interface{}{
			"topicId": article.TopicID,
			"url":     article.URL,
		})
	})
	if err != nil {
		return nil, err
	}

	u.logger.Info().Uint("article_id", article.ID).Uint("topic_id", article.TopicID).Str("actor", actor).Msg("Article created")
	return article, nil
}

// DeleteArticles removes articles matching every given criterion
func (u *UseCase) DeleteArticles(ctx context.Context, actor string, req dto.DeleteArticlesRequest) (*dto.DeleteResponse, error) {
	req, err := validator.Validate(u.validator, req)
	if err != nil {
		return nil, err
	}

	filter := entities.ArticleFilter{
		IDs:    mapfn.ConvertSlice(req.IDs, func(id int64) uint { return uint(id) }),
		URL:    req.URL,
		Source: req.Source,
	}
	if req.TopicID != nil {
		topicID := uint(*req.TopicID)
		filter.TopicID = &topicID
	}

	var deleted int64
	err = u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		if deleted, err = u.store.DeleteArticles(ctx, filter); err != nil {
			return err
		}
		return u.audit.Record(ctx, ActionArticleDelete, actor, "articles", map[string]interface{}{
			"filter":  req,
			"deleted": deleted,
		})
	})
	if err != nil {
		return nil, err
	}

	u.logger.Info().Int64("deleted", deleted).Str("actor", actor).Msg("Articles deleted")
	return &dto.DeleteResponse{Deleted: deleted}, nil
}

// IngestArticle stores an ingested article under the topic named by its slug.
// An unknown topic is created when the event carries a category. It reports
// false when the article url is already stored.
func (u *UseCase) IngestArticle(ctx context.Context, event dto.ArticleIngestedEvent) (bool, error) {
	event, err := validator.Validate(u.validator, event)
	if err != nil {
		return false, err
	}

	sourceType := entities.SourceType(event.SourceType)
	if sourceType == "" {
		sourceType = entities.SourceTypeAPI
	}

	var article *entities.Article
	err = u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		topic, err := u.store.GetBySlug(ctx, event.TopicSlug)
		if errors.Is(err, topicerrors.ErrTopicNotFound) {
			topic, err = u.createIngestedTopic(ctx, event)
		}
		if err != nil {
			return err
		}

		article = &entities.Article{
			TopicID:     topic.ID,
			Title:       event.Title,
			URL:         event.URL,
			Source:      event.Source,
			Summary:     event.Summary,
			ImageURL:    event.ImageURL,
			PublishedAt: event.PublishedTime,
			SourceType:  sourceType,
		}
		if err := u.store.CreateArticle(ctx, article); err != nil {
			return err
		}

		_, err = u.store.AddKeywords(ctx, topic.ID, normalizeKeywords(event.Keywords))
		return err
	})
	if errors.Is(err, topicerrors.ErrArticleAlreadyExists) {
		u.logger.Debug().Str("url", event.URL).Msg("Skipping already ingested article")
		return false, nil
	}
	if err != nil {
		return false, err
	}

	u.logger.Info().
		Uint("article_id", article.ID).
		Uint("topic_id", article.TopicID).
		Str("topic_slug", event.TopicSlug).
		Msg("Article ingested")
	return true, nil
}

func (u *UseCase) createIngestedTopic(ctx context.Context, event dto.ArticleIngestedEvent) (*entities.Topic, error) {
	category := entities.Category(event.Category)
	if !category.Valid() {
		return nil, topicerrors.ErrTopicNotFound
	}

	name := event.TopicName
	if name == "" {
		name = event.TopicSlug
	}
	topic := &entities.Topic{
		Name:     name,
		Slug:     event.TopicSlug,
		Category: category,
		Region:   event.Region,
		Urgency:  entities.UrgencyFor(0),
	}
	if err := u.store.Create(ctx, topic); err != nil {
		return nil, err
	}

	u.logger.Info().Uint("topic_id", topic.ID).Str("slug", topic.Slug).Msg("Topic created from ingestion")
	return topic, nil
}

func (u *UseCase) cached(ctx context.Context, key string, dest interface{}) bool {
	found, err := u.cache.Get(ctx, key, dest)
	if err != nil {
		u.logger.Warn().Err(err).Str("key", key).Msg("Read cache unavailable")
		return false
	}
	return found
}

func (u *UseCase) populate(ctx context.Context, key string, value interface{}) {
	if err := u.cache.Set(ctx, key, value); err != nil {
		u.logger.Warn().Err(err).Str("key", key).Msg("Failed to populate read cache")
	}
}

func (u *UseCase) invalidate(ctx context.Context) {
	if err := u.cache.Invalidate(ctx, cache.KeyTicker, cache.KeyMovers); err != nil {
		u.logger.Warn().Err(err).Msg("Failed to invalidate read cache")
	}
}

func toSummary(t entities.Topic) dto.TopicSummary {
	return dto.TopicSummary{
		ID:            t.ID,
		Name:          t.Name,
		Slug:          t.Slug,
		Category:      string(t.Category),
		Region:        t.Region,
		CurrentScore:  t.CurrentScore,
		PreviousScore: t.PreviousScore,
		Change:        t.Change(),
		Urgency:       string(entities.UrgencyFor(t.CurrentScore)),
		ImpactSummary: t.ImpactSummary,
		ImageURL:      t.ImageURL,
		ArticleCount:  t.ArticleCount,
		Hidden:        t.Hidden,
		UpdatedAt:     t.UpdatedAt,
	}
}

func topicTarget(id uint) string {
	return fmt.Sprintf("topic:%d", id)
}

func updatedFields(updates map[string]interface{}) []string {
	fields := make([]string, 0, len(updates))
	for k := range updates {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields
}

func normalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			out = append(out, kw)
		}
	}
	return mapfn.Unique(out)
}
