package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	auditpostgres "github.com/sidtheone/ecoticker-sub001/internal/domain/audit/repository/postgres"
	auditbuissines "github.com/sidtheone/ecoticker-sub001/internal/domain/audit/usecase/buissines"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/topic/entities"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/topic/repository/postgres"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/topic/usecase/buissines"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/cache"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/database"
	"github.com/sidtheone/ecoticker-sub001/internal/testutil"
	pkgerrors "github.com/sidtheone/ecoticker-sub001/pkg/errors"
	"github.com/sidtheone/ecoticker-sub001/pkg/validator"
)

func newHandlers(t *testing.T) (*Handlers, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	v := validator.New()
	uc := buissines.NewUseCase(
		postgres.NewTopicRepository(db),
		database.NewTransactor(db),
		auditbuissines.NewUseCase(auditpostgres.NewAuditRepository(db), v, zerolog.Nop()),
		cache.NoopCache{},
		v,
		zerolog.Nop(),
	)
	return NewHandlers(uc, zerolog.Nop()), db
}

func TestHandleArticleIngested_ParsesLoosePublishDate(t *testing.T) {
	h, db := newHandlers(t)

	msg := []byte(`{
		"topicSlug": "great-barrier-reef",
		"topicName": "Great Barrier Reef",
		"category": "ocean",
		"title": "Mass bleaching confirmed",
		"url": "https://news.example.com/reef",
		"sourceType": "rss",
		"publishedAt": "Mon, 12 Oct 2026 09:30:00 +0200"
	}`)
	require.NoError(t, h.HandleArticleIngested(context.Background(), msg))

	var article entities.Article
	require.NoError(t, db.Where("url = ?", "https://news.example.com/reef").First(&article).Error)
	require.NotNil(t, article.PublishedAt)
	assert.True(t, time.Date(2026, 10, 12, 7, 30, 0, 0, time.UTC).Equal(*article.PublishedAt))
	assert.Equal(t, entities.SourceTypeRSS, article.SourceType)
}

func TestHandleArticleIngested_UnparseableDateIsDropped(t *testing.T) {
	h, db := newHandlers(t)

	msg := []byte(`{"topicSlug":"reef","category":"ocean","title":"t","url":"https://news.example.com/x","publishedAt":"sometime soon"}`)
	require.NoError(t, h.HandleArticleIngested(context.Background(), msg))

	var article entities.Article
	require.NoError(t, db.First(&article).Error)
	assert.Nil(t, article.PublishedAt)
}

func TestHandleArticleIngested_InvalidPayload(t *testing.T) {
	h, _ := newHandlers(t)

	err := h.HandleArticleIngested(context.Background(), []byte(`{not json`))
	assert.True(t, pkgerrors.IsValidationError(err))

	err = h.HandleArticleIngested(context.Background(), []byte(`{"topicSlug":"Bad Slug","title":"t","url":"nope"}`))
	assert.True(t, pkgerrors.IsValidationError(err))
}
