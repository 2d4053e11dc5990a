package agent

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"newsagent/internal/runlog"
	"newsagent/internal/telemetry"
	"newsagent/models"
)

// CycleTimeout bounds a single fetch-classify-notify pass.
const CycleTimeout = 10 * time.Minute

// Fetcher returns the most recent timeline posts.
type Fetcher interface {
	RecentPosts(ctx context.Context) ([]models.Post, error)
}

// Classifier scores posts and keeps the newsworthy ones.
type Classifier interface {
	Classify(ctx context.Context, posts []models.Post) ([]models.NewsItem, error)
}

// Notifier delivers a digest built from the given items.
type Notifier interface {
	Notify(ctx context.Context, items []models.NewsItem) error
}

// Agent orchestrates the pipeline and owns the run state. A cycle
// only executes while the agent is active, and at most one cycle runs
// at a time.
type Agent struct {
	fetcher    Fetcher
	classifier Classifier
	notifier   Notifier
	state      *RunState
	rl         *runlog.Log
	logger     *log.Logger

	inFlight atomic.Bool
}

func New(fetcher Fetcher, classifier Classifier, notifier Notifier, state *RunState, rl *runlog.Log) *Agent {
	return &Agent{
		fetcher:    fetcher,
		classifier: classifier,
		notifier:   notifier,
		state:      state,
		rl:         rl,
		logger:     log.New(log.Writer(), "[AGENT] ", log.LstdFlags),
	}
}

// Start activates the agent and kicks off one immediate cycle in the
// background. The second return value is a human-readable message for
// the control surface.
func (a *Agent) Start() (bool, string) {
	if !a.state.TryActivate() {
		return false, "agent is already running"
	}
	a.rl.Info("agent started")
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), CycleTimeout)
		defer cancel()
		a.RunCycle(ctx)
	}()
	return true, "agent started"
}

// Stop deactivates the agent. It always succeeds, even when the agent
// is already idle. A cycle already in flight finishes; no new cycles
// begin afterwards.
func (a *Agent) Stop() (bool, string) {
	a.state.Deactivate()
	a.rl.Info("agent stopped")
	return true, "agent stopped"
}

func (a *Agent) Active() bool {
	return a.state.Running()
}

func (a *Agent) Status() Snapshot {
	return a.state.Snapshot()
}

func (a *Agent) Logs() []runlog.Entry {
	return a.rl.Entries()
}

// RunCycle executes one fetch-classify-notify pass. It is a no-op when
// the agent is inactive or another cycle is still in flight. Stage
// failures are logged and end the cycle without touching the counters.
func (a *Agent) RunCycle(ctx context.Context) {
	if !a.state.Running() {
		return
	}
	if !a.inFlight.CompareAndSwap(false, true) {
		a.logger.Println("cycle skipped, previous cycle still in flight")
		return
	}
	defer a.inFlight.Store(false)

	runID := uuid.NewString()[:8]
	a.logger.Printf("cycle %s starting", runID)
	telemetry.CyclesTotal.Inc()

	posts, err := a.fetcher.RecentPosts(ctx)
	if err != nil {
		telemetry.FetchFailuresTotal.Inc()
		a.logger.Printf("cycle %s fetch failed: %v", runID, err)
		return
	}

	items, err := a.classifier.Classify(ctx, posts)
	if err != nil {
		a.logger.Printf("cycle %s classification aborted: %v", runID, err)
		return
	}

	if len(items) > 0 {
		if err := a.notifier.Notify(ctx, items); err != nil {
			telemetry.NotifyFailuresTotal.Inc()
			a.rl.Error("digest delivery failed: %v", err)
			a.logger.Printf("cycle %s notify failed: %v", runID, err)
			return
		}
		a.state.RecordEmailSent()
		telemetry.EmailsSentTotal.Inc()
	} else {
		a.rl.Info("no newsworthy posts this cycle")
	}

	a.state.RecordCycle(len(posts))
	telemetry.PostsProcessedTotal.Add(float64(len(posts)))
	a.logger.Printf("cycle %s done: %d posts, %d newsworthy", runID, len(posts), len(items))
}
