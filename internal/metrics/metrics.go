// Package metrics provides Prometheus metrics collection for the app runtime.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, path, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// InitializationsTotal tracks app initialization runs by outcome.
	InitializationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_initializations_total",
			Help: "Total number of app initialization runs",
		},
		[]string{"status"},
	)

	// InitializationDuration tracks how long an initialization run takes.
	InitializationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "app_initialization_duration_seconds",
			Help:    "App initialization duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		},
	)

	// AssetDownloadsTotal tracks asset cache activity by kind and result.
	AssetDownloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_downloads_total",
			Help: "Total number of asset cache lookups by result (hit, downloaded, error)",
		},
		[]string{"kind", "result"},
	)

	// PermissionRequestsTotal tracks device permission requests by capability and result.
	PermissionRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "permission_requests_total",
			Help: "Total number of device permission requests",
		},
		[]string{"capability", "result"},
	)

	// AnalyticsEventsTotal tracks analytics events forwarded to providers.
	AnalyticsEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_events_total",
			Help: "Total number of analytics events forwarded to providers",
		},
		[]string{"provider", "result"},
	)

	// PushNotificationsTotal tracks push notifications sent by provider and result.
	PushNotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "push_notifications_total",
			Help: "Total number of push notifications sent",
		},
		[]string{"provider", "result"},
	)
)

// PrometheusMiddleware returns a Gin middleware that collects HTTP metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration)
		HTTPRequestTotal.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordInitialization records metrics for an app initialization run.
func RecordInitialization(duration time.Duration, status string) {
	InitializationDuration.Observe(duration.Seconds())
	InitializationsTotal.WithLabelValues(status).Inc()
}

// RecordAssetDownload records an asset cache lookup result.
func RecordAssetDownload(kind, result string) {
	AssetDownloadsTotal.WithLabelValues(kind, result).Inc()
}

// RecordPermissionRequest records a device permission request result.
func RecordPermissionRequest(capability, result string) {
	PermissionRequestsTotal.WithLabelValues(capability, result).Inc()
}

// RecordAnalyticsEvent records an analytics event forwarded to a provider.
func RecordAnalyticsEvent(provider, result string) {
	AnalyticsEventsTotal.WithLabelValues(provider, result).Inc()
}

// RecordPushNotification records a push notification send attempt.
func RecordPushNotification(provider, result string) {
	PushNotificationsTotal.WithLabelValues(provider, result).Inc()
}
