// Package httpapi exposes the server's HTTP/JSON contract: account signup,
// login with session-token issuance, and the bearer-token-guarded sync
// endpoint.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/tetherhq/tether/internal/logging"
	"github.com/tetherhq/tether/internal/server/models"
)

// userService is the minimal service surface the transport needs. The real
// services.UserService satisfies it; tests can provide a lightweight stub.
type userService interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	Sync(ctx context.Context, userID int64, localData json.RawMessage) (json.RawMessage, error)
}

type HTTPServer struct {
	address        string
	logger         logging.Logger
	users          userService
	jwtSecret      []byte
	requestTimeout time.Duration
}

func NewHTTPServer(a string, l logging.Logger, us userService, secretKey string, requestTimeout time.Duration) (*HTTPServer, error) {
	return &HTTPServer{
		address:        a,
		logger:         l.With("module", "http_server"),
		users:          us,
		jwtSecret:      []byte(secretKey),
		requestTimeout: requestTimeout,
	}, nil
}

// Handler builds the full request pipeline: route mux wrapped with the
// request-id and per-request-timeout middleware.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /signup", s.handleSignup)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("POST /sync", s.requireAuth(s.handleSync))
	mux.HandleFunc("GET /ping", s.handlePing)

	return s.withRequestID(s.withTimeout(mux))
}

func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
