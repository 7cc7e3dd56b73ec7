package httpapi

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/leadgenhq/d7-lead-proxy/internal/metrics"
	"github.com/leadgenhq/d7-lead-proxy/internal/ratelimit"
	"github.com/leadgenhq/d7-lead-proxy/internal/service"
)

// Deps carries everything the HTTP surface needs; main() wires it once.
type Deps struct {
	Service service.SearchService
	Limiter ratelimit.Store
	Metrics *metrics.Metrics
	Logger  *zap.Logger

	Env            string
	Version        string
	AllowedOrigins []string
	RateWindow     time.Duration
	RateMax        int
	TrustProxy     bool
	Start          time.Time
}

// NewHandler assembles the mux and the middleware chain. Chain order,
// outermost first: recover, request id, access log, metrics, CORS, body
// limit, rate limit.
func NewHandler(d Deps) http.Handler {
	mux := http.NewServeMux()

	mh := MetaHandler{
		Env:        d.Env,
		Version:    d.Version,
		Start:      d.Start,
		RateWindow: d.RateWindow,
		RateMax:    d.RateMax,
	}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: mh.Health,
	}))
	mux.HandleFunc("/api/info", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: mh.Info,
	}))
	mux.Handle("/metrics", metrics.Handler())

	sh := SearchHandler{Service: d.Service, Logger: d.Logger}
	mux.HandleFunc("/api/d7/search", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.Search,
	}))
	mux.HandleFunc("/api/d7/results", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.Results,
	}))
	mux.HandleFunc("/api/d7/full-search", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.FullSearch,
	}))

	mux.HandleFunc("/", mh.NotFound)

	return Chain(mux,
		Recover(d.Logger),
		RequestID,
		AccessLog(d.Logger),
		Instrument(d.Metrics),
		CORS(d.AllowedOrigins),
		BodyLimit,
		RateLimit(d.Limiter, d.TrustProxy, d.Metrics, d.Logger),
	)
}
