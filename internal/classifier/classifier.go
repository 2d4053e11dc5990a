// Package classifier scores timeline posts for newsworthiness through
// the completion provider and filters them to the relevance threshold.
package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"golang.org/x/time/rate"

	"newsagent/config"
	"newsagent/internal/helpers"
	"newsagent/internal/runlog"
	"newsagent/internal/telemetry"
	"newsagent/models"
)

const systemPrompt = `You are a news analyst that evaluates social media posts for newsworthiness.

RULES:
1. Judge whether the post reports genuine, verifiable news
2. Prefer firsthand reporting over commentary, opinion or jokes
3. Weigh the author's verification status when judging credibility
4. Personal updates and promotional content are not news

RESPONSE FORMAT:
Respond ONLY with valid JSON in the following format:
{
  "is_news": true,
  "news_score": 0.0,
  "category": "Technology|Finance|Health|Politics|Sports|Entertainment|Science|Other",
  "headline": "a short headline for the story",
  "summary": "a two-sentence summary of the story"
}
Do not include any other text or explanation.`

// CompletionProvider is the scoring service: given a prompt, it
// returns generated text.
type CompletionProvider interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Classifier runs posts through the provider one at a time. A rate
// limiter enforces the fixed pause between scoring calls; this is a
// self-imposed limit, not an adaptive backoff.
type Classifier struct {
	provider     CompletionProvider
	minRelevance float64
	limiter      *rate.Limiter
	rl           *runlog.Log
	logger       *log.Logger
}

// New builds a classifier with the configured threshold and call interval.
func New(cfg config.ClassifyConfig, provider CompletionProvider, rl *runlog.Log) *Classifier {
	interval := cfg.CallInterval
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &Classifier{
		provider:     provider,
		minRelevance: cfg.MinRelevance,
		limiter:      rate.NewLimiter(rate.Every(interval), 1),
		rl:           rl,
		logger:       log.New(log.Writer(), "[CLASSIFY] ", log.LstdFlags),
	}
}

// Classify scores posts strictly sequentially and returns the items
// meeting the threshold. Per-post failures are logged and skipped; the
// pass never aborts for them. The only error returned is context
// cancellation.
func (c *Classifier) Classify(ctx context.Context, posts []models.Post) ([]models.NewsItem, error) {
	var items []models.NewsItem
	for _, post := range posts {
		if err := c.limiter.Wait(ctx); err != nil {
			return items, err
		}

		raw, err := c.provider.Complete(ctx, systemPrompt, userPrompt(post))
		if err != nil {
			if ctx.Err() != nil {
				return items, ctx.Err()
			}
			c.rl.Error("Failed to score post %s: %v", post.ID, err)
			telemetry.ClassifyFailuresTotal.Inc()
			continue
		}

		cls, err := parseClassification(raw)
		if err != nil {
			c.rl.Error("Failed to parse verdict for post %s: %v", post.ID, err)
			telemetry.ClassifyFailuresTotal.Inc()
			continue
		}

		accepted := cls.IsNews && cls.NewsScore >= c.minRelevance
		c.rl.Info("Scored \"%s\": news=%t score=%.2f accepted=%t",
			helpers.Truncate(post.Text, 60), cls.IsNews, cls.NewsScore, accepted)
		if !accepted {
			continue
		}
		items = append(items, models.NewsItem{
			Post:           post,
			Classification: cls,
			ClassifiedAt:   time.Now().UTC(),
		})
	}
	return items, nil
}

func userPrompt(post models.Post) string {
	return fmt.Sprintf(`POST:
%s

AUTHOR: @%s (verified: %t)
ENGAGEMENT: %d reposts, %d replies, %d likes`,
		post.Text, post.AuthorUsername, post.AuthorVerified,
		post.Metrics.RetweetCount, post.Metrics.ReplyCount, post.Metrics.LikeCount)
}

// parseClassification normalizes the raw reply (stripping any code
// fence) and decodes it into the expected structure. No best-effort
// salvage is attempted on malformed replies.
func parseClassification(raw string) (models.Classification, error) {
	jsonStr, err := helpers.ExtractJSON(raw)
	if err != nil {
		return models.Classification{}, err
	}
	var cls models.Classification
	if err := json.Unmarshal([]byte(jsonStr), &cls); err != nil {
		return models.Classification{}, fmt.Errorf("decode classification: %w", err)
	}
	if cls.NewsScore < 0 || cls.NewsScore > 1 {
		return models.Classification{}, fmt.Errorf("news_score %v out of range", cls.NewsScore)
	}
	cls.Category = models.NormalizeCategory(string(cls.Category))
	return cls, nil
}
