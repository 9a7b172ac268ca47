package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/sidtheone/ecoticker-sub001/config"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/scoring/deps"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/scoring/dto"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/scoring/entities"
	scoringerrors "github.com/sidtheone/ecoticker-sub001/internal/domain/scoring/errors"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/metrics"
	pkgerrors "github.com/sidtheone/ecoticker-sub001/pkg/errors"
)

const serviceName = "classifier"

// maxErrorBody bounds how much of a failed response is kept for logs
const maxErrorBody = 512

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// NewClient creates the classifier client. Per-call deadlines come from the
// caller's context.
func NewClient(cfg *config.ClassifierConfig, m *metrics.Metrics, logger zerolog.Logger) deps.Classifier {
	client := &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{},
		metrics:    m,
		logger:     logger,
	}

	logger.Info().
		Str("base_url", client.baseURL).
		Bool("authenticated", cfg.APIKey != "").
		Msg("Classifier client initialized")

	return client
}

// Classify sends one batch of articles and returns their scores. Transport
// failures, non-200 responses, undecodable bodies and out of range scores
// are ExternalServiceErrors.
func (c *Client) Classify(ctx context.Context, req dto.ClassifyRequest) ([]entities.ArticleScore, error) {
	articles := make([]dto.ClassifyArticle, len(req.Articles))
	for i, a := range req.Articles {
		a.Text = PlainText(a.Text)
		articles[i] = a
	}
	req.Articles = articles

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode classify request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/classify", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.RecordClassifierCall("error", time.Since(start).Seconds())
		return nil, pkgerrors.NewExternalServiceError(serviceName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.RecordClassifierCall("error", time.Since(start).Seconds())
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn().
			Int("status_code", resp.StatusCode).
			Str("topic", req.Topic).
			Str("body", string(snippet)).
			Msg("Unexpected status code from classifier")
		return nil, pkgerrors.NewExternalServiceError(serviceName, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var result dto.ClassifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.metrics.RecordClassifierCall("error", time.Since(start).Seconds())
		return nil, pkgerrors.NewExternalServiceError(serviceName, fmt.Errorf("failed to decode response: %w", err))
	}
	c.metrics.RecordClassifierCall("success", time.Since(start).Seconds())

	return c.toScores(req, result.Results)
}

// toScores keeps results for articles that were sent, in request order
func (c *Client) toScores(req dto.ClassifyRequest, results []dto.ClassifyResult) ([]entities.ArticleScore, error) {
	byID := make(map[uint]dto.ClassifyResult, len(results))
	for _, r := range results {
		byID[r.ID] = r
	}

	scores := make([]entities.ArticleScore, 0, len(req.Articles))
	for _, a := range req.Articles {
		r, ok := byID[a.ID]
		if !ok {
			c.logger.Debug().Uint("article_id", a.ID).Str("topic", req.Topic).Msg("Classifier skipped article")
			continue
		}
		if !inRange(r) {
			return nil, pkgerrors.NewExternalServiceError(serviceName,
				fmt.Errorf("article %d: %w", r.ID, scoringerrors.ErrInvalidScore))
		}
		scores = append(scores, entities.ArticleScore{
			ArticleID:   r.ID,
			HealthScore: r.HealthScore,
			EcoScore:    r.EcoScore,
			EconScore:   r.EconScore,
			Confidence:  r.Confidence,
			Reasoning:   r.Reasoning,
		})
	}

	if len(scores) == 0 {
		return nil, pkgerrors.NewExternalServiceError(serviceName, scoringerrors.ErrNoResults)
	}
	return scores, nil
}

func inRange(r dto.ClassifyResult) bool {
	for _, s := range []int{r.HealthScore, r.EcoScore, r.EconScore} {
		if s < 0 || s > 100 {
			return false
		}
	}
	return r.Confidence >= 0 && r.Confidence <= 1
}

// PlainText strips markup from an article summary and collapses whitespace
func PlainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
