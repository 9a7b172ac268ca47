package buissines

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	auditpostgres "github.com/sidtheone/ecoticker-sub001/internal/domain/audit/repository/postgres"
	auditbuissines "github.com/sidtheone/ecoticker-sub001/internal/domain/audit/usecase/buissines"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/topic/deps"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/topic/dto"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/topic/entities"
	topicerrors "github.com/sidtheone/ecoticker-sub001/internal/domain/topic/errors"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/topic/repository/postgres"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/cache"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/database"
	"github.com/sidtheone/ecoticker-sub001/internal/testutil"
	pkgerrors "github.com/sidtheone/ecoticker-sub001/pkg/errors"
	"github.com/sidtheone/ecoticker-sub001/pkg/validator"
)

const actor = "admin@10.0.0.1"

// memoryCache is an in-process deps.ReadCache
type memoryCache struct {
	entries     map[string][]byte
	invalidated []string
	getErr      error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if c.getErr != nil {
		return false, c.getErr
	}
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	return nil
}

func (c *memoryCache) Invalidate(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.entries, key)
	}
	c.invalidated = append(c.invalidated, keys...)
	return nil
}

// mockAuditRecorder is a mock implementation of deps.AuditRecorder
type mockAuditRecorder struct {
	recordFunc func(ctx context.Context, action, actor, target string, metadata map[string]interface{}) error
}

func (m *mockAuditRecorder) Record(ctx context.Context, action, actor, target string, metadata map[string]interface{}) error {
	if m.recordFunc != nil {
		return m.recordFunc(ctx, action, actor, target, metadata)
	}
	return nil
}

type fixture struct {
	db    *gorm.DB
	uc    *UseCase
	cache *memoryCache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	audit := auditbuissines.NewUseCase(auditpostgres.NewAuditRepository(db), validator.New(), zerolog.Nop())
	return newFixtureWithAudit(t, db, audit)
}

func newFixtureWithAudit(t *testing.T, db *gorm.DB, audit deps.AuditRecorder) *fixture {
	t.Helper()
	c := newMemoryCache()
	uc := NewUseCase(
		postgres.NewTopicRepository(db),
		database.NewTransactor(db),
		audit,
		c,
		validator.New(),
		zerolog.Nop(),
	)
	return &fixture{db: db, uc: uc, cache: c}
}

func (f *fixture) seed(t *testing.T, slug string, current, previous, articles int) *entities.Topic {
	t.Helper()
	topic := &entities.Topic{
		Name:          "Topic " + slug,
		Slug:          slug,
		Category:      entities.CategoryAirQuality,
		CurrentScore:  current,
		PreviousScore: previous,
		Urgency:       entities.UrgencyFor(current),
		ArticleCount:  articles,
	}
	require.NoError(t, f.db.Create(topic).Error)
	return topic
}

func TestMovers_ReportsChangeAndUrgency(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "delhi-smog", 55, 40, 3)

	movers, err := f.uc.Movers(context.Background())
	require.NoError(t, err)
	require.Len(t, movers, 1)
	assert.Equal(t, dto.Mover{
		Name:          "Topic delhi-smog",
		Slug:          "delhi-smog",
		CurrentScore:  55,
		PreviousScore: 40,
		Change:        15,
		Urgency:       "moderate",
	}, movers[0])
}

func TestTicker_ServedFromCacheUntilInvalidated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	topic := f.seed(t, "reef", 70, 60, 1)

	first, err := f.uc.Ticker(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Contains(t, f.cache.entries, cache.KeyTicker)

	// a change behind the use case is not visible while the entry is cached
	require.NoError(t, f.db.Model(topic).Update("current_score", 10).Error)
	cached, err := f.uc.Ticker(ctx)
	require.NoError(t, err)
	assert.Equal(t, 70, cached[0].Score)

	require.NoError(t, f.cache.Invalidate(ctx, cache.KeyTicker))
	fresh, err := f.uc.Ticker(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, fresh[0].Score)
}

func TestTicker_CacheErrorFallsBackToStore(t *testing.T) {
	f := newFixture(t)
	f.cache.getErr = errors.New("connection refused")
	f.seed(t, "reef", 70, 60, 1)

	items, err := f.uc.Ticker(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []dto.TickerItem{{Name: "Topic reef", Slug: "reef", Score: 70, Change: 10}}, items)
}

func TestListTopics_UnknownCategory(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.ListTopics(context.Background(), "space")
	assert.True(t, pkgerrors.IsValidationError(err))
}

func TestGetTopic_HiddenIsNotFound(t *testing.T) {
	f := newFixture(t)
	topic := f.seed(t, "secret", 10, 10, 0)
	require.NoError(t, f.db.Model(topic).Update("hidden", true).Error)

	_, err := f.uc.GetTopic(context.Background(), "secret")
	assert.ErrorIs(t, err, topicerrors.ErrTopicNotFound)
}

func TestGetTopic_WithKeywordsAndHistory(t *testing.T) {
	f := newFixture(t)
	topic := f.seed(t, "amazon", 82, 75, 4)
	require.NoError(t, f.db.Create(&entities.Keyword{TopicID: topic.ID, Keyword: "logging"}).Error)

	today := entities.DayUTC(time.Now())
	for _, day := range []time.Time{today.AddDate(0, 0, -40), today.AddDate(0, 0, -1), today} {
		require.NoError(t, f.db.Create(&entities.ScoreHistory{TopicID: topic.ID, RecordedAt: day, Score: 80}).Error)
	}

	detail, err := f.uc.GetTopic(context.Background(), "amazon")
	require.NoError(t, err)
	assert.Equal(t, topic.ID, detail.ID)
	assert.Equal(t, 7, detail.Change)
	assert.Equal(t, "breaking", detail.Urgency)
	assert.Equal(t, "air_quality", detail.Category)
	assert.Equal(t, []string{"logging"}, detail.Keywords)
	require.Len(t, detail.History, 2)
	assert.Equal(t, today.Format(time.DateOnly), detail.History[1].Date)
}

func TestCreateTopic_RecordsAuditAndInvalidatesCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	summary, err := f.uc.CreateTopic(ctx, actor, dto.CreateTopicRequest{
		Name:     "Delhi smog",
		Slug:     "delhi-smog",
		Category: "air_quality",
		Keywords: []string{"Smog", " pm2.5 ", "smog"},
	})
	require.NoError(t, err)
	assert.Equal(t, "delhi-smog", summary.Slug)
	assert.Equal(t, "informational", summary.Urgency)

	assert.Equal(t, int64(2), testutil.Count(t, f.db, "topic_keywords", "topic_id = ?", summary.ID))
	assert.Equal(t, int64(1), testutil.Count(t, f.db, "audit_log", "action = ? AND actor = ?", ActionTopicCreate, actor))
	assert.ElementsMatch(t, []string{cache.KeyTicker, cache.KeyMovers}, f.cache.invalidated)
}

func TestCreateTopic_InvalidPayload(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.CreateTopic(context.Background(), actor, dto.CreateTopicRequest{Name: "x", Slug: "Not A Slug", Category: "space"})
	require.Error(t, err)

	var verr *pkgerrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Details, 2)
	assert.Zero(t, testutil.Count(t, f.db, "topics", ""))
}

func TestCreateTopic_AuditFailureRollsBack(t *testing.T) {
	db := testutil.NewDB(t)
	f := newFixtureWithAudit(t, db, &mockAuditRecorder{
		recordFunc: func(ctx context.Context, action, actor, target string, metadata map[string]interface{}) error {
			return pkgerrors.WrapDatabaseError("failed to create audit entry", errors.New("disk full"))
		},
	})

	_, err := f.uc.CreateTopic(context.Background(), actor, dto.CreateTopicRequest{
		Name:     "Delhi smog",
		Slug:     "delhi-smog",
		Category: "air_quality",
		Keywords: []string{"smog"},
	})
	require.Error(t, err)

	assert.Zero(t, testutil.Count(t, db, "topics", ""))
	assert.Zero(t, testutil.Count(t, db, "topic_keywords", ""))
	assert.Empty(t, f.cache.invalidated)
}

func TestCreateTopic_DuplicateSlug(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "reef", 0, 0, 0)

	_, err := f.uc.CreateTopic(context.Background(), actor, dto.CreateTopicRequest{Name: "Reef", Slug: "reef", Category: "ocean"})
	assert.ErrorIs(t, err, topicerrors.ErrTopicAlreadyExists)
}

func TestUpdateTopic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	topic := f.seed(t, "reef", 40, 30, 0)

	_, err := f.uc.UpdateTopic(ctx, actor, topic.ID, dto.UpdateTopicRequest{})
	assert.ErrorIs(t, err, topicerrors.ErrEmptyUpdate)

	hidden := true
	region := "Pacific"
	updated, err := f.uc.UpdateTopic(ctx, actor, topic.ID, dto.UpdateTopicRequest{Hidden: &hidden, Region: &region})
	require.NoError(t, err)
	assert.True(t, updated.Hidden)
	assert.Equal(t, "Pacific", updated.Region)
	assert.Equal(t, int64(1), testutil.Count(t, f.db, "audit_log", "action = ?", ActionTopicUpdate))

	_, err = f.uc.UpdateTopic(ctx, actor, 999, dto.UpdateTopicRequest{Hidden: &hidden})
	assert.ErrorIs(t, err, topicerrors.ErrTopicNotFound)
}

func (f *fixture) addArticles(t *testing.T, topic *entities.Topic, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := f.uc.CreateArticle(context.Background(), actor, dto.CreateArticleRequest{
			TopicID: int64(topic.ID),
			Title:   fmt.Sprintf("%s story %d", topic.Slug, i),
			URL:     fmt.Sprintf("https://news.example.com/%s/%d", topic.Slug, i),
		})
		require.NoError(t, err)
	}
}

func TestDeleteTopics_UnionOfIDsAndArticleCount(t *testing.T) {
	f := newFixture(t)
	named := f.seed(t, "named", 50, 50, 0)
	sparse := f.seed(t, "sparse", 50, 50, 0)
	busy := f.seed(t, "busy", 50, 50, 0)
	f.addArticles(t, named, 3)
	f.addArticles(t, sparse, 1)
	f.addArticles(t, busy, 3)

	threshold := 2
	resp, err := f.uc.DeleteTopics(context.Background(), actor, dto.DeleteTopicsRequest{
		IDs:          []int64{int64(named.ID), int64(sparse.ID)},
		ArticleCount: &threshold,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Deleted)

	assert.Equal(t, int64(1), testutil.Count(t, f.db, "topics", ""))
	assert.Equal(t, int64(1), testutil.Count(t, f.db, "topics", "id = ?", busy.ID))
	assert.Equal(t, int64(1), testutil.Count(t, f.db, "audit_log", "action = ?", ActionTopicDelete))
}

func TestDeleteTopics_ArticleCountUsesStoredArticles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	// never scored, so the article_count column is still zero
	pending := f.seed(t, "pending", 0, 0, 0)
	f.addArticles(t, pending, 3)
	// scored once, articles since removed
	stale := f.seed(t, "stale", 40, 40, 5)

	zero := 0
	resp, err := f.uc.DeleteTopics(ctx, actor, dto.DeleteTopicsRequest{ArticleCount: &zero})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Deleted)

	assert.Equal(t, int64(1), testutil.Count(t, f.db, "topics", "id = ?", pending.ID))
	assert.Equal(t, int64(0), testutil.Count(t, f.db, "topics", "id = ?", stale.ID))
	assert.Equal(t, int64(3), testutil.Count(t, f.db, "articles", "topic_id = ?", pending.ID))
}

func TestDeleteTopics_RequiresFilter(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "keep", 0, 0, 0)

	_, err := f.uc.DeleteTopics(context.Background(), actor, dto.DeleteTopicsRequest{})
	require.Error(t, err)

	var verr *pkgerrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Details, "filter: at least one of ids, articleCount is required")
	assert.Equal(t, int64(1), testutil.Count(t, f.db, "topics", ""))
}

func TestCreateAndDeleteArticles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	topic := f.seed(t, "reef", 0, 0, 0)

	article, err := f.uc.CreateArticle(ctx, actor, dto.CreateArticleRequest{
		TopicID: int64(topic.ID),
		Title:   "Bleaching spreads",
		URL:     "https://news.example.com/bleaching",
		Source:  "reuters",
	})
	require.NoError(t, err)
	assert.Equal(t, entities.SourceTypeManual, article.SourceType)

	_, err = f.uc.CreateArticle(ctx, actor, dto.CreateArticleRequest{
		TopicID: 999,
		Title:   "Orphan",
		URL:     "https://news.example.com/orphan",
	})
	assert.ErrorIs(t, err, topicerrors.ErrTopicNotFound)

	source := "reuters"
	resp, err := f.uc.DeleteArticles(ctx, actor, dto.DeleteArticlesRequest{Source: &source})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Deleted)

	assert.Equal(t, int64(1), testutil.Count(t, f.db, "audit_log", "action = ?", ActionArticleCreate))
	assert.Equal(t, int64(1), testutil.Count(t, f.db, "audit_log", "action = ?", ActionArticleDelete))
}

func TestIngestArticle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	event := dto.ArticleIngestedEvent{
		TopicSlug: "mekong-drought",
		TopicName: "Mekong drought",
		Category:  "water",
		Keywords:  []string{"drought", "Mekong"},
		Title:     "River levels hit record low",
		URL:       "https://news.example.com/mekong",
	}

	created, err := f.uc.IngestArticle(ctx, event)
	require.NoError(t, err)
	assert.True(t, created)

	topic, err := postgres.NewTopicRepository(f.db).GetBySlug(ctx, "mekong-drought")
	require.NoError(t, err)
	assert.Equal(t, entities.CategoryWater, topic.Category)
	assert.Equal(t, int64(1), testutil.Count(t, f.db, "articles", "topic_id = ? AND source_type = ?", topic.ID, entities.SourceTypeAPI))
	assert.Equal(t, int64(2), testutil.Count(t, f.db, "topic_keywords", "topic_id = ?", topic.ID))

	created, err = f.uc.IngestArticle(ctx, event)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, int64(1), testutil.Count(t, f.db, "articles", ""))

	// ingestion is not a privileged action
	assert.Zero(t, testutil.Count(t, f.db, "audit_log", ""))
}

func TestIngestArticle_UnknownTopicWithoutCategory(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.IngestArticle(context.Background(), dto.ArticleIngestedEvent{
		TopicSlug: "unknown",
		Title:     "t",
		URL:       "https://news.example.com/x",
	})
	assert.ErrorIs(t, err, topicerrors.ErrTopicNotFound)
	assert.Zero(t, testutil.Count(t, f.db, "topics", ""))
}
