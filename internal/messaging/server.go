package messaging

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"github.com/runnerr0/historyremover/internal/logger"
)

// ServerConfig configures the daemon's HTTP surface.
type ServerConfig struct {
	Version string
	// Token guards POST /message. Empty disables authentication.
	Token             string
	MaxRequestSize    int64
	RequestsPerSecond float64
	Burst             int
	// Metrics is mounted at GET /metrics when set.
	Metrics http.Handler
	Logger  *slog.Logger
}

// NewServer returns the daemon's HTTP handler, answering requests with h.
func NewServer(h Handler, cfg ServerConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = logger.Discard()
	}
	s := &server{handler: h, cfg: cfg, log: cfg.Logger}

	r := chi.NewRouter()
	r.Get("/status", s.handleStatus)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Group(func(r chi.Router) {
		if cfg.Token != "" {
			r.Use(bearerAuth(cfg.Token))
		}
		if cfg.RequestsPerSecond > 0 {
			r.Use(rateLimit(rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), max(cfg.Burst, 1)), s.log))
		}
		r.Post(MessagePath, s.handleMessage)
	})

	return r
}

type server struct {
	handler Handler
	cfg     ServerConfig
	log     *slog.Logger
}

func (s *server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.cfg.Version,
	})
}

func (s *server) handleMessage(w http.ResponseWriter, r *http.Request) {
	if s.cfg.MaxRequestSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxRequestSize)
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpError(w, http.StatusRequestEntityTooLarge, "request body exceeds %d bytes", tooLarge.Limit)
			return
		}
		httpError(w, http.StatusBadRequest, "invalid request body: %v", err)
		return
	}

	start := time.Now()
	resp, err := s.handler.Handle(r.Context(), req)
	if err != nil {
		resp = Fail(err)
	}

	s.log.Info("message",
		slog.String("action", string(req.Action)),
		slog.String("request_id", req.ID),
		slog.Bool("success", resp.Success),
		slog.Duration("duration", time.Since(start)),
	)

	writeJSON(w, http.StatusOK, resp)
}

func bearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) || subtle.ConstantTimeCompare([]byte(auth[len(prefix):]), []byte(token)) != 1 {
				httpError(w, http.StatusUnauthorized, "invalid or missing bearer token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func rateLimit(limiter *rate.Limiter, log *slog.Logger) func(http.Handler) http.Handler {
	retryAfter := int(math.Ceil(1.0 / float64(limiter.Limit())))
	if retryAfter < 1 {
		retryAfter = 1
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				log.Warn("rate limit exceeded", slog.String("remote_addr", r.RemoteAddr))
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				httpError(w, http.StatusTooManyRequests, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, format string, args ...any) {
	writeJSON(w, code, Fail(fmt.Errorf(format, args...)))
}
