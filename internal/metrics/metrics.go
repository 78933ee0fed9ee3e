package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pvestal/vacavibes/internal/db"
)

var (
	accountsDesc = prometheus.NewDesc(
		"vacavibes_accounts_total",
		"Total number of registered accounts",
		nil,
		nil,
	)
	linkEdgesDesc = prometheus.NewDesc(
		"vacavibes_link_edges_total",
		"Number of link edges by status",
		[]string{"status"},
		nil,
	)
	submissionsDesc = prometheus.NewDesc(
		"vacavibes_submissions_total",
		"Number of submissions by status",
		[]string{"status"},
		nil,
	)
)

// Counters for request-path outcomes. Registered lazily by Init.
var (
	linkRequestOutcomes  *prometheus.CounterVec
	scoreUpdateOutcomes  *prometheus.CounterVec
	authEvents           *prometheus.CounterVec
	notificationFailures prometheus.Counter
)

// DirectoryCollector is a custom Prometheus collector that reads account,
// link and submission counts from the database on each scrape.
type DirectoryCollector struct {
	db *db.DB
}

// Describe sends the metric descriptors to the channel.
func (c *DirectoryCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- accountsDesc
	ch <- linkEdgesDesc
	ch <- submissionsDesc
}

// Collect queries the database for current counts and emits them as gauges.
func (c *DirectoryCollector) Collect(ch chan<- prometheus.Metric) {
	ctx := context.Background()

	accounts, err := c.db.GetAccountCount(ctx)
	if err != nil {
		slog.Error("failed to collect account count", "error", err)
	} else {
		ch <- prometheus.MustNewConstMetric(accountsDesc, prometheus.GaugeValue, float64(accounts))
	}

	edges, err := c.db.GetLinkEdgeCountsByStatus(ctx)
	if err != nil {
		slog.Error("failed to collect link edge counts", "error", err)
	} else {
		for status, count := range edges {
			ch <- prometheus.MustNewConstMetric(linkEdgesDesc, prometheus.GaugeValue, float64(count), status)
		}
	}

	subs, err := c.db.GetSubmissionCountsByStatus(ctx)
	if err != nil {
		slog.Error("failed to collect submission counts", "error", err)
	} else {
		for status, count := range subs {
			ch <- prometheus.MustNewConstMetric(submissionsDesc, prometheus.GaugeValue, float64(count), status)
		}
	}
}

var initOnce sync.Once

// Init registers the custom collector and the outcome counters.
// Must be called once at startup.
func Init(database *db.DB) {
	initOnce.Do(func() {
		prometheus.MustRegister(&DirectoryCollector{db: database})

		linkRequestOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vacavibes_link_request_outcomes_total",
			Help: "Link request operations by outcome",
		}, []string{"operation", "outcome"})
		scoreUpdateOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vacavibes_score_update_outcomes_total",
			Help: "Score update operations by role and outcome",
		}, []string{"role", "outcome"})
		authEvents = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vacavibes_auth_events_total",
			Help: "Login and logout events",
		}, []string{"kind"})
		notificationFailures = promauto.NewCounter(prometheus.CounterOpts{
			Name: "vacavibes_notification_failures_total",
			Help: "Email notification deliveries that failed",
		})
	})
}

// RecordLinkOutcome records the outcome of a link operation
// (request, approve, deny, delete).
func RecordLinkOutcome(operation, outcome string) {
	if linkRequestOutcomes == nil {
		return
	}
	linkRequestOutcomes.WithLabelValues(operation, outcome).Inc()
}

// RecordScoreOutcome records the outcome of a score update by role.
func RecordScoreOutcome(role, outcome string) {
	if scoreUpdateOutcomes == nil {
		return
	}
	scoreUpdateOutcomes.WithLabelValues(role, outcome).Inc()
}

// RecordAuthEvent counts a login or logout.
func RecordAuthEvent(kind string) {
	if authEvents == nil {
		return
	}
	authEvents.WithLabelValues(kind).Inc()
}

// RecordNotificationFailure counts a failed email delivery.
func RecordNotificationFailure() {
	if notificationFailures == nil {
		return
	}
	notificationFailures.Inc()
}
