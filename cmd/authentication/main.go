// This is a development token issuer: it signs tokens for an existing user id
// with the API's shared secret, without checking any password.
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gartstein/observatorio/internal/observatorio/auth"
	"github.com/gartstein/observatorio/internal/observatorio/config"
	"github.com/gartstein/observatorio/internal/observatorio/handlers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// TokenRequest names the user the token is issued for.
type TokenRequest struct {
	ID    uint   `json:"id"`
	Email string `json:"email,omitempty"`
}

// TokenResponse represents the response structure
type TokenResponse struct {
	Token string `json:"token"`
}

func tokenHandler(secret string, respond *handlers.Responder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == 0 {
			respond.Message(w, http.StatusBadRequest, "body must be {\"id\": <user id>}")
			return
		}

		claims := map[string]any{"id": req.ID}
		if req.Email != "" {
			claims["email"] = req.Email
		}
		token, err := auth.GenerateToken(claims, secret)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, TokenResponse{Token: token})
	}
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Post("/token", tokenHandler(cfg.JWTSecret, handlers.NewResponder(logger, cfg.ExposeErrors)))

	server := handlers.NewServer(cfg.AuthPort, r, logger.Named("authentication"))
	if err := server.Start(); err != nil {
		logger.Fatal("Failed to start authentication service", zap.Error(err))
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case <-stop:
	case err := <-server.Errors():
		if err != nil {
			logger.Error("Authentication service failed", zap.Error(err))
		}
	}
	server.Stop()
}
