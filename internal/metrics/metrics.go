package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
	AssistantReplies = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "aichat_assistant_replies_total",
		Help: "Assistant turns by outcome",
	}, []string{"outcome"})
	VerificationMails = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "aichat_verification_mails_total",
		Help: "Verification mails by result",
	}, []string{"result"})
	MessagesSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "aichat_messages_sent_total",
		Help: "User messages persisted, by kind",
	}, []string{"kind"})
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal, HTTPRequestDuration, AssistantReplies, VerificationMails, MessagesSent)
}
