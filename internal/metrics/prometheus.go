/*-------------------------------------------------------------------------
 *
 * prometheus.go
 *    Prometheus metrics for warehouse-management
 *
 * Copyright (c) 2024-2026, Hazem Saifelnasr
 *
 * IDENTIFICATION
 *    warehouse-management/internal/metrics/prometheus.go
 *
 *-------------------------------------------------------------------------
 */

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	/* Request metrics */
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warehouse_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "warehouse_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	/* Access control metrics */
	authorizationChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warehouse_authorization_checks_total",
			Help: "Total number of access control evaluations",
		},
		[]string{"entity", "decision"},
	)

	grantCacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warehouse_grant_cache_lookups_total",
			Help: "Total number of permission grant cache lookups",
		},
		[]string{"result"},
	)

	/* Approval workflow metrics */
	approvalSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warehouse_approval_submissions_total",
			Help: "Total number of approval workflow submissions",
		},
		[]string{"entity", "action", "outcome"},
	)

	approvalResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warehouse_approval_resolutions_total",
			Help: "Total number of approval workflow resolutions",
		},
		[]string{"entity", "action", "decision", "outcome"},
	)

	pendingApprovalsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "warehouse_pending_approvals",
			Help: "Number of pending approval requests",
		},
	)

	/* Database connection pool metrics */
	dbPoolOpenConns = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "warehouse_db_pool_open_connections",
			Help: "Number of open database connections",
		},
		[]string{"database"},
	)

	dbPoolIdleConns = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "warehouse_db_pool_idle_connections",
			Help: "Number of idle database connections",
		},
		[]string{"database"},
	)

	dbPoolInUseConns = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "warehouse_db_pool_in_use_connections",
			Help: "Number of database connections in use",
		},
		[]string{"database"},
	)
)

/* RecordHTTPRequest records an HTTP request */
func RecordHTTPRequest(method, endpoint, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

/* RecordAuthorizationCheck records an access control decision */
func RecordAuthorizationCheck(entity string, allowed bool) {
	decision := "deny"
	if allowed {
		decision = "allow"
	}
	authorizationChecksTotal.WithLabelValues(entity, decision).Inc()
}

/* RecordGrantCacheLookup records a grant cache hit or miss */
func RecordGrantCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	grantCacheLookupsTotal.WithLabelValues(result).Inc()
}

/* RecordApprovalSubmission records a workflow submission outcome */
func RecordApprovalSubmission(entity, action, outcome string) {
	approvalSubmissionsTotal.WithLabelValues(entity, action, outcome).Inc()
}

/* RecordApprovalResolution records a workflow resolution outcome */
func RecordApprovalResolution(entity, action, decision, outcome string) {
	approvalResolutionsTotal.WithLabelValues(entity, action, decision, outcome).Inc()
}

/* SetPendingApprovals sets the pending approvals gauge */
func SetPendingApprovals(count int64) {
	pendingApprovalsGauge.Set(float64(count))
}

/* UpdateDBPoolStats updates the connection pool gauges */
func UpdateDBPoolStats(database string, open, idle, inUse int) {
	dbPoolOpenConns.WithLabelValues(database).Set(float64(open))
	dbPoolIdleConns.WithLabelValues(database).Set(float64(idle))
	dbPoolInUseConns.WithLabelValues(database).Set(float64(inUse))
}

/* Handler returns the Prometheus metrics HTTP handler */
func Handler() http.Handler {
	return promhttp.Handler()
}
