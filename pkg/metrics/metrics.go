package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Request pipeline metrics
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "email_gateway_requests_total",
		Help: "Total number of send requests by final outcome",
	}, []string{"outcome"})
	RequestsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "email_gateway_requests_rejected_total",
		Help: "Total number of send requests rejected before dispatch, by reason",
	}, []string{"reason"})
	RequestsRateLimited = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "email_gateway_requests_ratelimited_total",
		Help: "Total number of requests rejected by the rate limiter",
	}, []string{"scope"})

	// Delivery metrics
	DeliverySuccess = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "email_gateway_delivery_success_total",
		Help: "Total number of successful per-recipient deliveries",
	}, []string{"platform"})
	DeliveryFailure = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "email_gateway_delivery_failure_total",
		Help: "Total number of failed per-recipient deliveries",
	}, []string{"platform"})

	// Mail transport metrics
	MailSendSuccess = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "email_gateway_mail_send_success_total",
		Help: "Total number of successful SMTP sends",
	}, []string{"host"})
	MailSendFailure = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "email_gateway_mail_send_failure_total",
		Help: "Total number of failed SMTP sends",
	}, []string{"host"})

	// Audit sink metrics
	AuditEventsWritten = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "email_gateway_audit_events_written_total",
		Help: "Total number of audit events written, by sink",
	}, []string{"sink"})
	AuditEventsDropped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "email_gateway_audit_events_dropped_total",
		Help: "Total number of audit events dropped, by sink",
	}, []string{"sink"})
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestsRejected)
	prometheus.MustRegister(RequestsRateLimited)
	prometheus.MustRegister(DeliverySuccess)
	prometheus.MustRegister(DeliveryFailure)
	prometheus.MustRegister(MailSendSuccess)
	prometheus.MustRegister(MailSendFailure)
	prometheus.MustRegister(AuditEventsWritten)
	prometheus.MustRegister(AuditEventsDropped)
}

// MetricsHandler returns an http.Handler exposing Prometheus metrics.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
