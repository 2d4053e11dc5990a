package notifier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"newsagent/internal/runlog"
	"newsagent/models"
)

type fakeMailer struct {
	sent    int
	subject string
	body    string
	err     error
}

func (f *fakeMailer) Send(ctx context.Context, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent++
	f.subject = subject
	f.body = body
	return nil
}

func item(cat models.Category, headline, handle string) models.NewsItem {
	return models.NewsItem{
		Post: models.Post{AuthorUsername: handle},
		Classification: models.Classification{
			IsNews:    true,
			NewsScore: 0.9,
			Category:  cat,
			Headline:  headline,
			Summary:   "Something happened. It mattered.",
		},
		ClassifiedAt: time.Now(),
	}
}

func TestBuildDigestGroupsByCategory(t *testing.T) {
	items := []models.NewsItem{
		item(models.CategoryTechnology, "Chip launch", "techie"),
		item(models.CategoryFinance, "Rates held", "banker"),
		item(models.CategoryTechnology, "Outage resolved", "sre"),
	}
	subject, body := BuildDigest(items, time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC))

	if subject != "News Digest: 3 stories from your timeline" {
		t.Errorf("unexpected subject: %q", subject)
	}
	if !strings.Contains(body, "== Technology (2 stories) ==") {
		t.Errorf("missing technology header with count:\n%s", body)
	}
	if !strings.Contains(body, "== Finance (1 story) ==") {
		t.Errorf("missing finance header with singular count:\n%s", body)
	}
	// insertion order of first occurrence: Technology before Finance
	if strings.Index(body, "== Technology") > strings.Index(body, "== Finance") {
		t.Errorf("expected Technology section first:\n%s", body)
	}
	if !strings.Contains(body, "Source: @sre") {
		t.Errorf("missing source handle:\n%s", body)
	}
	if !strings.Contains(body, "3 stories across 2 categories") {
		t.Errorf("missing footer stats:\n%s", body)
	}
	if !strings.Contains(body, "Generated at Sat, 29 Aug 2026 12:00:00 UTC") {
		t.Errorf("missing generation timestamp:\n%s", body)
	}
}

func TestBuildDigestSingleItem(t *testing.T) {
	subject, _ := BuildDigest([]models.NewsItem{item(models.CategoryHealth, "H", "doc")}, time.Now())
	if subject != "News Digest: 1 story from your timeline" {
		t.Errorf("unexpected singular subject: %q", subject)
	}
}

func TestNotifyRejectsEmptyInput(t *testing.T) {
	m := &fakeMailer{}
	s := NewService(m, "me@example.com", runlog.New(0))
	if err := s.Notify(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty input")
	}
	if m.sent != 0 {
		t.Fatalf("mailer must not be invoked for empty input, sent=%d", m.sent)
	}
}

func TestNotifySendFailure(t *testing.T) {
	m := &fakeMailer{err: fmt.Errorf("connection refused")}
	s := NewService(m, "me@example.com", runlog.New(0))
	err := s.Notify(context.Background(), []models.NewsItem{item(models.CategoryOther, "H", "x")})
	if err == nil {
		t.Fatal("expected error")
	}
	var ne *NotifyError
	if !errors.As(err, &ne) {
		t.Fatalf("expected NotifyError, got %T", err)
	}
}

func TestNotifySuccessLogsEntry(t *testing.T) {
	m := &fakeMailer{}
	rl := runlog.New(0)
	s := NewService(m, "me@example.com", rl)
	if err := s.Notify(context.Background(), []models.NewsItem{item(models.CategoryScience, "H", "x")}); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if m.sent != 1 {
		t.Fatalf("expected one send, got %d", m.sent)
	}
	entries := rl.Entries()
	if len(entries) != 1 || entries[0].Level != runlog.LevelSuccess {
		t.Fatalf("expected success log entry, got %+v", entries)
	}
}
