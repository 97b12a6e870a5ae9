// Package server serves the dashboard and JSON API over a loaded selection
// of notifications. Records are read-only after New; every request filters
// its own copy of the selection.
package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/KaramelBytes/rasff-lens/internal/dataset"
	"github.com/KaramelBytes/rasff-lens/internal/query"
)

//go:embed web/dashboard.html
var webFS embed.FS

// Asker answers questions; *query.Engine satisfies it.
type Asker interface {
	Ask(ctx context.Context, recs []dataset.Record, question string) (query.Result, error)
}

// Options configure a Server.
type Options struct {
	Name    string
	Records []dataset.Record
	// Asker is nil when natural-language questions are disabled.
	Asker        Asker
	QueryTimeout time.Duration
	// ProductLabel translates product categories for display.
	ProductLabel func(string) string
}

// Server holds the gin engine, the loaded records and the metrics registry.
type Server struct {
	engine   *gin.Engine
	opts     Options
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	queries  *prometheus.CounterVec
	records  prometheus.Gauge
}

// New builds the server and its routes.
func New(opts Options) (*Server, error) {
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = 120 * time.Second
	}
	if opts.ProductLabel == nil {
		opts.ProductLabel = func(s string) string { return s }
	}
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"selected": selected,
	}).ParseFS(webFS, "web/dashboard.html")
	if err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.SetHTMLTemplate(tmpl)

	s := &Server{engine: engine, opts: opts, registry: prometheus.NewRegistry()}
	s.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rasff",
		Name:      "http_requests_total",
		Help:      "Dashboard requests by route and status",
	}, []string{"route", "status"})
	s.latency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "rasff",
		Name:      "http_request_duration_seconds",
		Help:      "Dashboard request latency by route",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
	s.queries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rasff",
		Name:      "queries_total",
		Help:      "Natural-language questions by outcome",
	}, []string{"outcome"})
	s.records = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "rasff",
		Name:      "records_loaded",
		Help:      "Notifications loaded by the dashboard",
	})
	s.registry.MustRegister(s.requests, s.latency, s.queries, s.records)
	s.records.Set(float64(len(opts.Records)))

	engine.Use(gin.Recovery(), s.observe)
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.engine.GET("/", s.dashboard)
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "records": len(s.opts.Records), "ask": s.opts.Asker != nil})
	})
	s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	api := s.engine.Group("/api")
	{
		api.GET("/stats", s.apiStats)
		api.GET("/records", s.apiRecords)
		api.GET("/chi2", s.apiChi2)
		api.GET("/drill", s.apiDrill)
		api.POST("/ask", s.apiAsk)
	}
}

// observe logs each request and feeds the request metrics.
func (s *Server) observe(c *gin.Context) {
	start := time.Now()
	c.Next()
	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	status := c.Writer.Status()
	s.requests.WithLabelValues(route, http.StatusText(status)).Inc()
	s.latency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	log.Debug().Str("method", c.Request.Method).Str("route", route).Int("status", status).
		Dur("elapsed", time.Since(start)).Msg("request")
}

// Handler exposes the routes, mainly for httptest.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.opts.QueryTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	log.Info().Str("addr", addr).Int("records", len(s.opts.Records)).Msg("dashboard listening")
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
