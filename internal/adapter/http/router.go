package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"exchange-rate-cache/internal/metrics"
	"exchange-rate-cache/pkg/logger"
)

// unmatchedRouteLabel is the metric path label for requests no route serves.
const unmatchedRouteLabel = "other"

type Router struct {
	handler  *Handler
	log      *logger.Logger
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	routes   map[string]struct{}
}

func NewRouter(handler *Handler, log *logger.Logger, metrics *metrics.Metrics, gatherer prometheus.Gatherer) *Router {
	return &Router{
		handler:  handler,
		log:      log,
		metrics:  metrics,
		gatherer: gatherer,
		routes:   make(map[string]struct{}),
	}
}

func (r *Router) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()

		crw := &customResponseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(crw, req)

		duration := time.Since(start)
		path := r.routeLabel(req.URL.Path)
		r.metrics.HTTPRequestDuration.WithLabelValues(path, req.Method).Observe(duration.Seconds())
		r.metrics.HTTPRequestsTotal.WithLabelValues(path, req.Method, strconv.Itoa(crw.statusCode/100)+"xx").Inc()

		r.log.Info("HTTP request",
			"method", req.Method,
			"path", req.URL.Path,
			"query", req.URL.RawQuery,
			"status", crw.statusCode,
			"duration", duration,
			"remote_addr", req.RemoteAddr,
		)
	})
}

func (r *Router) routeLabel(path string) string {
	if _, ok := r.routes[path]; ok {
		return path
	}
	return unmatchedRouteLabel
}

func (r *Router) handle(mux *http.ServeMux, pattern string, handler http.HandlerFunc) {
	r.routes[pattern] = struct{}{}
	mux.HandleFunc(pattern, handler)
}

type customResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (crw *customResponseWriter) WriteHeader(code int) {
	crw.statusCode = code
	crw.ResponseWriter.WriteHeader(code)
}

func (r *Router) SetupRoutes() http.Handler {
	mux := http.NewServeMux()

	r.handle(mux, "/api/v1/convert", r.handler.ConvertHandler)
	r.handle(mux, "/api/v1/rates", r.handler.RatesHandler)
	r.handle(mux, "/api/v1/refresh", r.handler.RefreshHandler)

	r.handle(mux, "/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	rootMux := http.NewServeMux()
	rootMux.Handle("/", r.loggingMiddleware(mux))
	rootMux.Handle("/metrics", promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{}))

	return rootMux
}
