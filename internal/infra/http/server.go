package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"telegram-group-manager/internal/config"
)

// UpdateDispatcher consumes decoded Telegram updates. Implemented by the
// telegram router; nil when the bot runs in polling mode.
type UpdateDispatcher interface {
	HandleUpdate(ctx context.Context, up tgbotapi.Update)
}

// Server is the HTTP boundary: the Telegram webhook, a liveness page, a
// health endpoint, and Prometheus metrics.
type Server struct {
	cfg        *config.Config
	dispatcher UpdateDispatcher
	log        *zerolog.Logger
	server     *http.Server
}

func NewServer(cfg *config.Config, dispatcher UpdateDispatcher, logger *zerolog.Logger) *Server {
	return &Server{
		cfg:        cfg,
		dispatcher: dispatcher,
		log:        logger,
	}
}

// Routes builds the router. Split out so tests can drive it with httptest.
func (s *Server) Routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/webhook/telegram", s.handleTelegramWebhook)

	return r
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.HTTP.Port),
		Handler: s.Routes(),
	}
	s.log.Info().Int("port", s.cfg.HTTP.Port).Msg("http server listening")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "Hello, BOT is running!")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

func (s *Server) handleTelegramWebhook(w http.ResponseWriter, r *http.Request) {
	if s.dispatcher == nil {
		http.Error(w, "webhook disabled", http.StatusServiceUnavailable)
		return
	}
	if secret := s.cfg.Bot.WebhookSecret; secret != "" {
		if r.URL.Query().Get("secret") != secret {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
	}

	var up tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&up); err != nil {
		s.log.Warn().Err(err).Msg("malformed webhook payload")
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	s.dispatcher.HandleUpdate(r.Context(), up)
	w.WriteHeader(http.StatusOK)
}
