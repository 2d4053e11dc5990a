package classifier

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"newsagent/config"
	"newsagent/internal/runlog"
	"newsagent/models"
)

// fakeProvider maps post text to a canned reply or error.
type fakeProvider struct {
	replies map[string]string
	errs    map[string]error
	calls   []string
}

func (f *fakeProvider) Complete(ctx context.Context, system, user string) (string, error) {
	f.calls = append(f.calls, user)
	for text, err := range f.errs {
		if strings.Contains(user, text) {
			return "", err
		}
	}
	for text, reply := range f.replies {
		if strings.Contains(user, text) {
			return reply, nil
		}
	}
	return "", fmt.Errorf("no canned reply for prompt: %s", user)
}

func testConfig() config.ClassifyConfig {
	return config.ClassifyConfig{MinRelevance: 0.7, CallInterval: time.Millisecond}
}

func post(id, text string) models.Post {
	return models.Post{ID: id, Text: text, AuthorUsername: "reporter", AuthorVerified: true}
}

func TestClassifyAppliesThreshold(t *testing.T) {
	provider := &fakeProvider{replies: map[string]string{
		"big story":   `{"is_news":true,"news_score":0.9,"category":"Technology","headline":"Big Story","summary":"It happened. Twice."}`,
		"small story": `{"is_news":false,"news_score":0.2,"category":"Other","headline":"Small","summary":"Nothing much."}`,
		"almost news": `{"is_news":true,"news_score":0.5,"category":"Science","headline":"Almost","summary":"Close. Not close enough."}`,
	}}
	c := New(testConfig(), provider, runlog.New(0))

	items, err := c.Classify(context.Background(), []models.Post{
		post("1", "big story"), post("2", "small story"), post("3", "almost news"),
	})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Post.ID != "1" {
		t.Errorf("expected post 1 accepted, got %s", items[0].Post.ID)
	}
	if items[0].Classification.Category != models.CategoryTechnology {
		t.Errorf("unexpected category: %s", items[0].Classification.Category)
	}
	if items[0].ClassifiedAt.IsZero() {
		t.Error("expected ClassifiedAt to be set")
	}
}

func TestClassifyScoringFailureSkipsAndContinues(t *testing.T) {
	provider := &fakeProvider{
		errs: map[string]error{"doomed post": fmt.Errorf("API returned status: 503")},
		replies: map[string]string{
			"good post": `{"is_news":true,"news_score":0.8,"category":"Politics","headline":"H","summary":"S. S."}`,
		},
	}
	rl := runlog.New(0)
	c := New(testConfig(), provider, rl)

	items, err := c.Classify(context.Background(), []models.Post{
		post("p", "doomed post"), post("q", "good post"),
	})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(items) != 1 || items[0].Post.ID != "q" {
		t.Fatalf("expected only post q classified, got %+v", items)
	}
	if len(provider.calls) != 2 {
		t.Fatalf("expected both posts scored, got %d calls", len(provider.calls))
	}

	var sawError bool
	for _, e := range rl.Entries() {
		if e.Level == runlog.LevelError {
			sawError = true
		}
	}
	if !sawError {
		t.Error("expected an error log entry for the failed post")
	}
}

func TestClassifyUnparsableReplySkipped(t *testing.T) {
	provider := &fakeProvider{replies: map[string]string{
		"garbled": "I could not decide, sorry!",
	}}
	c := New(testConfig(), provider, runlog.New(0))

	items, err := c.Classify(context.Background(), []models.Post{post("1", "garbled")})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no items, got %d", len(items))
	}
}

func TestClassifyStripsCodeFence(t *testing.T) {
	provider := &fakeProvider{replies: map[string]string{
		"fenced": "```json\n{\"is_news\":true,\"news_score\":0.95,\"category\":\"Finance\",\"headline\":\"H\",\"summary\":\"S. S.\"}\n```",
	}}
	c := New(testConfig(), provider, runlog.New(0))

	items, err := c.Classify(context.Background(), []models.Post{post("1", "fenced")})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected fenced reply parsed, got %d items", len(items))
	}
}

func TestClassifyNormalizesUnknownCategory(t *testing.T) {
	provider := &fakeProvider{replies: map[string]string{
		"weird": `{"is_news":true,"news_score":0.8,"category":"Gossip","headline":"H","summary":"S. S."}`,
	}}
	c := New(testConfig(), provider, runlog.New(0))

	items, err := c.Classify(context.Background(), []models.Post{post("1", "weird")})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(items) != 1 || items[0].Classification.Category != models.CategoryOther {
		t.Fatalf("expected category normalized to Other, got %+v", items)
	}
}

func TestClassifyOutOfRangeScoreRejected(t *testing.T) {
	provider := &fakeProvider{replies: map[string]string{
		"inflated": `{"is_news":true,"news_score":3.5,"category":"Other","headline":"H","summary":"S."}`,
	}}
	c := New(testConfig(), provider, runlog.New(0))

	items, err := c.Classify(context.Background(), []models.Post{post("1", "inflated")})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(items) != 0 {
		t.Fatal("expected out-of-range score to be skipped")
	}
}

func TestClassifyContextCancellation(t *testing.T) {
	provider := &fakeProvider{replies: map[string]string{
		"a": `{"is_news":false,"news_score":0.1,"category":"Other","headline":"H","summary":"S."}`,
	}}
	c := New(config.ClassifyConfig{MinRelevance: 0.7, CallInterval: time.Hour}, provider, runlog.New(0))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.Classify(ctx, []models.Post{post("1", "a"), post("2", "a")})
	if err == nil {
		t.Fatal("expected context error when the pause outlives the deadline")
	}
}
