package buissines

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/sidtheone/ecoticker-sub001/config"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/scoring/deps"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/scoring/dto"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/scoring/entities"
	topicentities "github.com/sidtheone/ecoticker-sub001/internal/domain/topic/entities"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/cache"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/metrics"
	"github.com/sidtheone/ecoticker-sub001/pkg/mapfn"
)

// Audit actions of batch runs
const (
	ActionBatchRun         = "batch.run"
	ActionBatchRunFailed   = "batch.run_failed"
	ActionBatchTopicFailed = "batch.topic_failed"
)

// Clock returns the current time
type Clock func() time.Time

// Settings bound a batch run
type Settings struct {
	BatchSize    int
	GroupSize    int
	MaxRetries   int
	RetryBackoff time.Duration
	CallTimeout  time.Duration
	RunTimeout   time.Duration
}

// SettingsFromConfig derives run settings from configuration
func SettingsFromConfig(classifierCfg *config.ClassifierConfig, batchCfg *config.BatchConfig) Settings {
	return Settings{
		BatchSize:    classifierCfg.BatchSize,
		GroupSize:    classifierCfg.GroupSize,
		MaxRetries:   classifierCfg.MaxRetries,
		RetryBackoff: classifierCfg.RetryBackoff,
		CallTimeout:  classifierCfg.Timeout,
		RunTimeout:   batchCfg.RunTimeout,
	}
}

// UseCase is the batch scoring orchestrator
type UseCase struct {
	store      deps.ScoreStore
	classifier deps.Classifier
	policy     deps.AggregationPolicy
	tx         deps.Transactor
	audit      deps.AuditRecorder
	cache      deps.ReadCache
	publisher  deps.EventPublisher
	metrics    *metrics.Metrics
	settings   Settings
	clock      Clock
	logger     zerolog.Logger

	// sleep waits between classifier retries
	sleep func(ctx context.Context, d time.Duration) error
}

// NewUseCase creates a new batch scoring use case
func NewUseCase(
	store deps.ScoreStore,
	classifier deps.Classifier,
	policy deps.AggregationPolicy,
	tx deps.Transactor,
	audit deps.AuditRecorder,
	readCache deps.ReadCache,
	publisher deps.EventPublisher,
	m *metrics.Metrics,
	settings Settings,
	logger zerolog.Logger,
) *UseCase {
	return &UseCase{
		store:      store,
		classifier: classifier,
		policy:     policy,
		tx:         tx,
		audit:      audit,
		cache:      readCache,
		publisher:  publisher,
		metrics:    m,
		settings:   settings,
		clock:      time.Now,
		logger:     logger,
		sleep:      sleepCtx,
	}
}

// topicOutcome is the result of one candidate
type topicOutcome struct {
	candidate entities.Candidate
	scored    *entities.ScoredTopic
	articles  int
	err       error
}

// Run scores every topic with unclassified articles. Classification runs
// outside transactions; each topic's update commits on its own, so a failed
// or interrupted run keeps every topic that already committed. The run is
// detached from the caller's cancellation. A skipped topic that cannot be
// written to the audit log fails the run after its scores are kept.
func (u *UseCase) Run(ctx context.Context, actor string) (*dto.RunReport, error) {
	ctx = context.WithoutCancel(ctx)
	if u.settings.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.settings.RunTimeout)
		defer cancel()
	}

	started := u.clock().UTC()
	log := u.logger.With().Str("actor", actor).Logger()

	candidates, err := u.store.Candidates(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load batch candidates")
		return nil, err
	}
	log.Info().Int("candidates", len(candidates)).Msg("Batch run started")

	outcomes := make([]topicOutcome, 0, len(candidates))
	for _, group := range mapfn.Chunk(candidates, u.settings.GroupSize) {
		outcomes = append(outcomes, u.scoreGroup(ctx, group)...)
	}

	report := &dto.RunReport{
		Actor:      actor,
		Candidates: len(candidates),
		Skipped:    []dto.SkippedTopic{},
		StartedAt:  started,
	}
	var auditErrs []error
	for _, o := range outcomes {
		if o.err != nil {
			report.Failed++
			report.Skipped = append(report.Skipped, dto.SkippedTopic{
				TopicID: o.candidate.Topic.ID,
				Slug:    o.candidate.Topic.Slug,
				Error:   o.err.Error(),
			})
			if err := u.recordTopicFailure(ctx, actor, o); err != nil {
				auditErrs = append(auditErrs, err)
			}
			continue
		}
		report.Scored++
		report.Articles += o.articles
	}

	report.Success = len(candidates) == 0 || report.Scored > 0
	report.FinishedAt = u.clock().UTC()
	report.DurationMs = report.FinishedAt.Sub(started).Milliseconds()

	if report.Scored > 0 {
		if err := u.cache.Invalidate(ctx, cache.KeyTicker, cache.KeyMovers); err != nil {
			log.Warn().Err(err).Msg("Failed to invalidate read cache after batch run")
		}
	}

	outcome := "success"
	switch {
	case len(candidates) == 0:
		outcome = "empty"
	case !report.Success:
		outcome = "failed"
	case report.Failed > 0:
		outcome = "partial"
	}
	u.metrics.RecordBatchRun(outcome, report.Scored, report.Failed,
		report.FinishedAt.Sub(started).Seconds(), float64(report.FinishedAt.Unix()))

	if err := u.recordRun(ctx, actor, report); err != nil {
		return nil, err
	}
	if len(auditErrs) > 0 {
		log.Error().Int("missing", len(auditErrs)).Msg("Batch run finished with skipped topics missing from the audit log")
		return nil, fmt.Errorf("failed to audit %d skipped topics: %w", len(auditErrs), errors.Join(auditErrs...))
	}

	log.Info().
		Int("candidates", report.Candidates).
		Int("scored", report.Scored).
		Int("failed", report.Failed).
		Int("articles", report.Articles).
		Int64("duration_ms", report.DurationMs).
		Str("outcome", outcome).
		Msg("Batch run finished")

	return report, nil
}

// scoreGroup classifies the topics of one keyword group concurrently
func (u *UseCase) scoreGroup(ctx context.Context, group []entities.Candidate) []topicOutcome {
	outcomes := make([]topicOutcome, len(group))

	var g errgroup.Group
	for i, candidate := range group {
		g.Go(func() error {
			outcomes[i] = u.scoreTopic(ctx, candidate)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

// scoreTopic classifies one topic's articles and commits its update
func (u *UseCase) scoreTopic(ctx context.Context, candidate entities.Candidate) topicOutcome {
	out := topicOutcome{candidate: candidate}
	topic := candidate.Topic

	var scores []entities.ArticleScore
	for _, batch := range mapfn.Chunk(candidate.Articles, u.settings.BatchSize) {
		req := dto.ClassifyRequest{
			Topic:    topic.Name,
			Keywords: candidate.Keywords,
			Articles: mapfn.ConvertSlice(batch, func(a topicentities.Article) dto.ClassifyArticle {
				return dto.ClassifyArticle{ID: a.ID, Title: a.Title, Text: a.Summary}
			}),
		}
		if req.Keywords == nil {
			req.Keywords = []string{}
		}

		batchScores, err := u.classifyWithRetry(ctx, topic, req)
		if err != nil {
			out.err = err
			return out
		}
		scores = append(scores, batchScores...)
	}

	agg, err := u.policy.Aggregate(scores)
	if err != nil {
		out.err = fmt.Errorf("failed to aggregate scores: %w", err)
		return out
	}

	now := u.clock().UTC()
	var scored *entities.ScoredTopic
	err = u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		scored, err = u.store.ApplyScore(ctx, entities.TopicScore{
			TopicID:   topic.ID,
			Aggregate: agg,
			Day:       now,
			ScoredAt:  now,
		})
		return err
	})
	if err != nil {
		out.err = err
		return out
	}

	out.scored = scored
	out.articles = len(scores)

	u.logger.Info().
		Uint("topic_id", topic.ID).
		Str("slug", topic.Slug).
		Int("previous_score", scored.PreviousScore).
		Int("score", scored.CurrentScore).
		Int("articles", len(scores)).
		Msg("Topic scored")

	u.publish(ctx, scored, now)
	return out
}

// classifyWithRetry calls the classifier with exponential backoff. Each
// attempt gets its own deadline.
func (u *UseCase) classifyWithRetry(ctx context.Context, topic topicentities.Topic, req dto.ClassifyRequest) ([]entities.ArticleScore, error) {
	backoff := u.settings.RetryBackoff
	var lastErr error

	for attempt := 0; attempt <= u.settings.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := u.sleep(ctx, backoff); err != nil {
				return nil, lastErr
			}
			backoff *= 2
		}

		callCtx, cancel := ctx, context.CancelFunc(func() {})
		if u.settings.CallTimeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, u.settings.CallTimeout)
		}
		scores, err := u.classifier.Classify(callCtx, req)
		cancel()
		if err == nil {
			return scores, nil
		}

		lastErr = err
		u.logger.Warn().Err(err).
			Uint("topic_id", topic.ID).
			Int("attempt", attempt+1).
			Int("articles", len(req.Articles)).
			Msg("Classifier call failed")
	}

	return nil, lastErr
}

func (u *UseCase) publish(ctx context.Context, scored *entities.ScoredTopic, at time.Time) {
	event := dto.TopicScoredEvent{
		TopicID:       scored.ID,
		Slug:          scored.Slug,
		Name:          scored.Name,
		Score:         scored.CurrentScore,
		PreviousScore: scored.PreviousScore,
		Change:        scored.CurrentScore - scored.PreviousScore,
		Urgency:       string(scored.Urgency),
		HealthScore:   scored.HealthScore,
		EcoScore:      scored.EcoScore,
		EconScore:     scored.EconScore,
		ArticleCount:  scored.ArticleCount,
		ScoredAt:      at,
	}
	if err := u.publisher.PublishTopicScored(ctx, event); err != nil {
		u.logger.Warn().Err(err).Uint("topic_id", scored.ID).Msg("Failed to publish topic scored event")
	}
}

func (u *UseCase) recordTopicFailure(ctx context.Context, actor string, o topicOutcome) error {
	err := u.audit.RecordFailure(ctx, ActionBatchTopicFailed, actor, fmt.Sprintf("topic:%d", o.candidate.Topic.ID), map[string]interface{}{
		"slug":     o.candidate.Topic.Slug,
		"articles": len(o.candidate.Articles),
		"error":    o.err.Error(),
	})
	if err != nil {
		u.logger.Error().Err(err).Uint("topic_id", o.candidate.Topic.ID).Msg("Failed to audit skipped topic")
	}
	return err
}

func (u *UseCase) recordRun(ctx context.Context, actor string, report *dto.RunReport) error {
	metadata := map[string]interface{}{
		"candidates": report.Candidates,
		"scored":     report.Scored,
		"failed":     report.Failed,
		"articles":   report.Articles,
		"durationMs": report.DurationMs,
	}

	if report.Success {
		return u.audit.Record(ctx, ActionBatchRun, actor, "batch", metadata)
	}
	return u.audit.RecordFailure(ctx, ActionBatchRunFailed, actor, "batch", metadata)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
