// Package metrics holds Prometheus instruments that are used across the
// application.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CachedSites = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cached_sites",
			Help: "Number of published sites currently loaded in memory.",
		})

	SiteLoadTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "site_load_total",
			Help: "Cold loads of a published site into the cache.",
		})

	SiteLoadErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "site_load_errors_total",
			Help: "Failed site resolutions (missing slug or backend error).",
		})

	SiteEvictTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "site_evict_total",
			Help: "Sites evicted from the cache on idle TTL or LRU pressure.",
		})

	PublishTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "site_publish_total",
			Help: "Successful site-configuration publishes.",
		})

	PublicRenderTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "public_render_total",
			Help: "Public site pages rendered.",
		})

	LeadsCapturedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leads_captured_total",
			Help: "Leads accepted from the public contact form.",
		})

	WebhookFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_failures_total",
			Help: "Outbound automation webhooks that failed (never retried).",
		},
		[]string{"event"})

	AIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_requests_total",
			Help: "Generative-AI calls by kind and outcome.",
		},
		[]string{"kind", "outcome"})
)
