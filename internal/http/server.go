package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"cantiere/internal/cache"
	"cantiere/internal/core"
	"cantiere/internal/kv"
	"cantiere/internal/log"
	"cantiere/internal/services"
)

// Server exposes the ledger as a JSON API.
type Server struct {
	http.Server
	ledger      *services.Ledger
	logger      *log.Logger
	rateLimiter *rateLimiter

	// Project summaries are cheap to compute but hot on dashboards, so
	// they are cached and purged whenever any collection changes.
	summaryCache *cache.LRUCache[core.ProjectSummary]
	stopJanitor  chan struct{}

	watchCancels []func()
	shutdownOnce sync.Once
}

// Simple in-memory rate limiter
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

// startCleanup runs periodic cleanup to remove stale client entries
func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupStaleEntries removes client entries older than 10 minutes
func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		if rl.stopCleanup != nil {
			close(rl.stopCleanup)
		}
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]

	if !exists {
		rl.clients[clientIP] = &clientInfo{
			lastRequest: now,
			requests:    1,
		}
		return true
	}

	// Reset counter if more than 1 minute has passed
	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	// Allow up to 60 requests per minute
	client.requests++
	client.lastRequest = now

	return client.requests <= 60
}

// NewServer configures the API routes, returning a ready-to-run http.Server.
func NewServer(addr string, ledger *services.Ledger, logger *log.Logger) *Server {
	mux := http.NewServeMux()

	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentHTTP)
	}

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		ledger:       ledger,
		logger:       logger,
		rateLimiter:  newRateLimiter(),
		summaryCache: cache.NewLRUCache[core.ProjectSummary](100, 5*time.Minute),
		stopJanitor:  make(chan struct{}),
	}
	go s.startCacheJanitor()

	// Any collection change may shift a project's totals, so a single
	// event purges every cached summary rather than chasing dependencies.
	for _, key := range []string{kv.KeyProjects, kv.KeyExpenses, kv.KeyPayments} {
		events, cancel := ledger.Watch(key)
		s.watchCancels = append(s.watchCancels, cancel)
		go s.invalidateOn(events)
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/api/forms", s.withAPIHeaders(s.handleForms))
	mux.HandleFunc("/api/projects", s.withAPIHeaders(s.handleProjects))
	mux.HandleFunc("/api/projects/{id}", s.withAPIHeaders(s.handleProjectByID))
	mux.HandleFunc("/api/projects/{id}/expenses", s.withAPIHeaders(s.handleProjectExpenses))
	mux.HandleFunc("/api/projects/{id}/payments", s.withAPIHeaders(s.handleProjectPayments))
	mux.HandleFunc("/api/projects/{id}/summary", s.withAPIHeaders(s.handleProjectSummary))
	mux.HandleFunc("/api/expenses", s.withAPIHeaders(s.handleExpenses))
	mux.HandleFunc("/api/payments", s.withAPIHeaders(s.handlePayments))

	return s
}

// invalidateOn purges the summary cache on every collection change. It
// returns once the watch is cancelled, which closes the event channel.
func (s *Server) invalidateOn(events <-chan kv.Event) {
	for range events {
		s.summaryCache.Purge()
	}
}

// startCacheJanitor evicts expired summaries on a fixed cadence so idle
// entries do not sit in the cache until their slot is reused.
func (s *Server) startCacheJanitor() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.summaryCache.CleanExpired()
		case <-s.stopJanitor:
			return
		}
	}
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		for _, cancel := range s.watchCancels {
			cancel()
		}
		close(s.stopJanitor)
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withAPIHeaders adds security headers, rate limiting, and request logging.
func (s *Server) withAPIHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Extract client IP (considering proxies)
		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		logger := s.logger.With(log.FieldRequestID, requestID)
		ctx := context.WithValue(r.Context(), log.LoggerContextKey, logger)
		r = r.WithContext(ctx)

		logger.InfoContext(ctx, "Request started",
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldRemoteAddr, clientIP)

		// Rate limit mutating requests only
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			logger.WarnContext(ctx, "Rate limit exceeded",
				log.FieldRemoteAddr, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		logger.InfoContext(ctx, "Request completed",
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rw.statusCode,
			log.FieldDuration, duration.Milliseconds(),
			log.FieldRemoteAddr, clientIP)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
