package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	// activity-api metrics
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "activity_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"route", "method", "code"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "activity_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	ActiveRequests = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "activity_active_requests",
		Help: "Current in-flight requests",
	})

	// log metrics
	AppendTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "activity_append_total",
		Help: "Entries appended",
	}, []string{"subject_kind", "event_kind"})

	PageDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "activity_page_duration_seconds",
		Help:    "Time to read and decode one activity page",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"subject_kind"})

	UnregisteredDecoderTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "activity_unregistered_decoder_total",
		Help: "Stored entries read without a registered decoder",
	}, []string{"event_kind", "revision"})

	MalformedPayloadTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "activity_malformed_payload_total",
		Help: "Stored payloads that failed to decode",
	}, []string{"event_kind", "revision"})
)

func RegisterAll(reg prometheus.Registerer) {
	reg.MustRegister(
		HTTPRequestsTotal, HTTPRequestDuration, ActiveRequests,
		AppendTotal, PageDuration, UnregisteredDecoderTotal, MalformedPayloadTotal,
	)
}
