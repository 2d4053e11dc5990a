package agent

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gorhill/cronexpr"
)

// Scheduler fires agent cycles on a cron expression. It checks once a
// minute whether the next activation since the last fire has passed,
// so a failed cycle does not re-fire on every tick.
type Scheduler struct {
	expr   *cronexpr.Expression
	agent  *Agent
	logger *log.Logger

	lastFired time.Time
	stop      chan struct{}
	done      chan struct{}
}

func NewScheduler(spec string, a *Agent) (*Scheduler, error) {
	expr, err := cronexpr.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("parsing cron expression %q: %w", spec, err)
	}
	return &Scheduler{
		expr:   expr,
		agent:  a,
		logger: log.New(log.Writer(), "[SCHED] ", log.LstdFlags),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}, nil
}

// Start launches the tick loop. Call Stop to terminate it.
func (s *Scheduler) Start() {
	s.lastFired = time.Now()
	go s.loop()
}

func (s *Scheduler) Stop() {
	close(s.stop)
	<-s.done
}

func (s *Scheduler) loop() {
	defer close(s.done)
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			if !s.due(now) {
				continue
			}
			s.lastFired = now
			if !s.agent.Active() {
				continue
			}
			s.logger.Println("scheduled cycle firing")
			ctx, cancel := context.WithTimeout(context.Background(), CycleTimeout)
			s.agent.RunCycle(ctx)
			cancel()
		}
	}
}

func (s *Scheduler) due(now time.Time) bool {
	next := s.expr.Next(s.lastFired)
	return !next.IsZero() && !next.After(now)
}
