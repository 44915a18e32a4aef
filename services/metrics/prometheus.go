package metricsvc

import (
	"net/http"
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ecowaste/dashboard/core/quiz"
)

const namespace = "ecowaste"

// Service holds the gateway's counters on a registry of its own.
type Service struct {
	registry *prom.Registry

	quizParsed  *prom.CounterVec
	quizIssues  *prom.CounterVec
	upstreamErr *prom.CounterVec
	requests    *prom.HistogramVec
}

var _ quiz.Recorder = (*Service)(nil)

func NewService() *Service {
	s := &Service{
		registry: prom.NewRegistry(),
		quizParsed: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "quiz_parsed_total",
			Help:      "Quizzes normalized, by the parse step that produced them.",
		}, []string{"method"}),
		quizIssues: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "quiz_issues_total",
			Help:      "Consistency issues found in normalized quizzes.",
		}, []string{"issue"}),
		upstreamErr: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_failures_total",
			Help:      "Failed calls to the backend, by kind.",
		}, []string{"kind"}),
		requests: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of handled HTTP requests.",
			Buckets:   prom.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	s.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		s.quizParsed,
		s.quizIssues,
		s.upstreamErr,
		s.requests,
	)
	return s
}

func (s *Service) QuizParsed(method quiz.Method, issues []quiz.Issue) {
	s.quizParsed.WithLabelValues(string(method)).Inc()
	for _, issue := range issues {
		s.quizIssues.WithLabelValues(string(issue)).Inc()
	}
}

// UpstreamFailed counts a failed backend call; kind is e.g. "timeout", "unavailable" or "status_502".
func (s *Service) UpstreamFailed(kind string) {
	s.upstreamErr.WithLabelValues(kind).Inc()
}

func (s *Service) ObserveRequest(method, route string, status int, took time.Duration) {
	s.requests.WithLabelValues(method, route, strconv.Itoa(status)).Observe(took.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (s *Service) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry})
}
