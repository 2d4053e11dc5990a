// Package telemetry registers the agent's prometheus collectors,
// exposed by the server on /metrics.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newsagent_cycles_total",
		Help: "Pipeline cycles attempted.",
	})
	PostsProcessedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newsagent_posts_processed_total",
		Help: "Timeline posts run through classification.",
	})
	EmailsSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newsagent_emails_sent_total",
		Help: "Digest emails submitted to the SMTP relay.",
	})
	FetchFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newsagent_fetch_failures_total",
		Help: "Timeline fetches that aborted a cycle.",
	})
	ClassifyFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newsagent_classify_failures_total",
		Help: "Posts skipped because scoring failed or was unparsable.",
	})
	NotifyFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newsagent_notify_failures_total",
		Help: "Digest emails that failed to send.",
	})
)
