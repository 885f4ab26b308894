package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/osse101/TapStake_Go/internal/arena"
	"github.com/osse101/TapStake_Go/internal/cashout"
	"github.com/osse101/TapStake_Go/internal/handler"
	"github.com/osse101/TapStake_Go/internal/logger"
	"github.com/osse101/TapStake_Go/internal/match"
	"github.com/osse101/TapStake_Go/internal/metrics"
	"github.com/osse101/TapStake_Go/internal/run"
	"github.com/osse101/TapStake_Go/internal/wallet"
)

// Options configures the HTTP surface
type Options struct {
	Port           int
	TrustedProxies []string
	RateLimit      int
	FundingEnabled bool
	ServiceName    string
	Version        string
	// Ready is pinged by /readyz; nil means always ready
	Ready handler.Pinger
}

// Services are the domain services the routes call into
type Services struct {
	Wallets  wallet.Service
	Cashouts cashout.Service
	Matches  match.Service
	Runs     run.Service
	Arena    arena.Service
}

type Server struct {
	httpServer *http.Server
}

// NewServer creates a new Server instance
func NewServer(opts Options, svc Services) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           NewRouter(opts, svc),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// NewRouter builds the route tree
func NewRouter(opts Options, svc Services) http.Handler {
	r := chi.NewRouter()

	// Outermost first
	r.Use(SecurityHeadersMiddleware())
	r.Use(RateLimitMiddleware(opts.TrustedProxies, NewRateLimiter(opts.RateLimit, RateLimitWindow)))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBodySize))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(opts.Ready))
	r.Get("/version", handler.HandleVersion(opts.ServiceName, opts.Version))
	r.Handle("/metrics", promhttp.Handler())

	walletHandler := handler.NewWalletHandler(svc.Wallets, svc.Cashouts, opts.FundingEnabled)
	cashoutHandler := handler.NewCashoutHandler(svc.Cashouts, svc.Wallets)
	matchHandler := handler.NewMatchHandler(svc.Matches, svc.Arena, svc.Runs)
	runHandler := handler.NewRunHandler(svc.Arena)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/wallet", func(r chi.Router) {
			r.Post("/fund", walletHandler.HandleFund)
			r.Post("/withdraw", walletHandler.HandleWithdraw)
			r.Get("/{playerId}", walletHandler.HandleGetWallet)
		})

		r.Route("/cashout", func(r chi.Router) {
			r.Post("/create", cashoutHandler.HandleCreate)
			r.Get("/list", cashoutHandler.HandleList)
			r.Post("/reset", cashoutHandler.HandleReset)
			r.Post("/{id}/approve", cashoutHandler.HandleApprove)
			r.Post("/{id}/reject", cashoutHandler.HandleReject)
		})

		r.Route("/match", func(r chi.Router) {
			r.Post("/create", matchHandler.HandleCreate)
			r.Get("/{id}", matchHandler.HandleGet)
			r.Post("/{id}/stake", matchHandler.HandleStake)
			r.Post("/{id}/start", matchHandler.HandleStart)
			r.Post("/{id}/end", matchHandler.HandleEnd)
			r.Get("/{id}/runs", matchHandler.HandleRuns)
		})

		r.Post("/run/verify", runHandler.HandleVerify)
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// loggingMiddleware tags each request with an id and logs start and
// completion. Secrets in headers are redacted.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isQuietPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()

		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = logger.GenerateRequestID()
		}
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)
		w.Header().Set(HeaderRequestID, requestID)

		log := logger.FromContext(ctx)
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, handler.HeaderAdminToken) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
