// SPDX-License-Identifier: GPL-3.0-or-later

// Copyright (c) 2025 Spruce Health

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go/client"
	"golang.org/x/time/rate"

	"github.com/sprucehealth/virtualholder/config"
	"github.com/sprucehealth/virtualholder/engine"
	"github.com/sprucehealth/virtualholder/logging"
	"github.com/sprucehealth/virtualholder/metrics"
	"github.com/sprucehealth/virtualholder/model"
	"github.com/sprucehealth/virtualholder/twiml"
)

const (
	defaultRateLimitRPS   = 20
	defaultRateLimitBurst = 40
)

const (
	endpointCall       = "call"
	endpointConference = "conference"
	endpointSMS        = "sms"
)

// Server exposes the engine as Twilio webhooks
type Server struct {
	Addr      string
	cfg       config.Config
	engine    engine.Engine
	logger    logrus.FieldLogger
	metrics   *metrics.Metrics
	limiter   *rate.Limiter
	validator *client.RequestValidator
	server    *http.Server
}

// New creates a server for e
func New(cfg config.Config, e engine.Engine, logger logrus.FieldLogger, m *metrics.Metrics) *Server {
	addr := cfg.HTTPAddr
	if addr == "" {
		addr = ":8080"
	}
	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = defaultRateLimitRPS
	}
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = defaultRateLimitBurst
	}
	validator := client.NewRequestValidator(cfg.AuthToken)
	s := &Server{
		Addr:      addr,
		cfg:       cfg,
		engine:    e,
		logger:    logger,
		metrics:   m,
		limiter:   rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
		validator: &validator,
	}
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	r.Route(s.cfg.BasePath, func(r chi.Router) {
		r.Use(s.rateLimit)
		if s.cfg.ValidateSignature {
			r.Use(s.validateSignature)
		}
		for _, method := range []string{http.MethodGet, http.MethodPost} {
			r.MethodFunc(method, "/call", s.handleCall)
			r.MethodFunc(method, "/conference", s.handleConference)
			r.MethodFunc(method, "/sms", s.handleSMS)
		}
	})

	return r
}

// Start starts the server and blocks until it stops
func (s *Server) Start() error {
	s.logger.WithField("addr", s.Addr).Info("Webhook server listening")
	return s.server.ListenAndServe()
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":     "ok",
		"conference": s.cfg.ConferenceName,
	})
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	defer s.observe(endpointCall, time.Now())
	ev, ok := s.parseEvent(w, r)
	if !ok {
		return
	}
	s.writeDocument(w, r, s.engine.HandleCall(r.Context(), ev))
}

func (s *Server) handleConference(w http.ResponseWriter, r *http.Request) {
	defer s.observe(endpointConference, time.Now())
	ev, ok := s.parseEvent(w, r)
	if !ok {
		return
	}
	s.writeDocument(w, r, s.engine.HandleConference(r.Context(), ev))
}

func (s *Server) handleSMS(w http.ResponseWriter, r *http.Request) {
	defer s.observe(endpointSMS, time.Now())
	ev, ok := s.parseEvent(w, r)
	if !ok {
		return
	}
	body, err := twiml.RenderMessage(s.engine.HandleMessage(r.Context(), ev))
	if err != nil {
		logging.FromContext(r.Context(), s.logger).WithError(err).Error("Failed to render message reply")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", twiml.ContentType)
	_, _ = w.Write([]byte(body))
}

func (s *Server) parseEvent(w http.ResponseWriter, r *http.Request) (model.CallEvent, bool) {
	if err := r.ParseForm(); err != nil {
		logging.FromContext(r.Context(), s.logger).WithError(err).Warn("Malformed webhook form")
		http.Error(w, "malformed form", http.StatusBadRequest)
		return model.CallEvent{}, false
	}
	return model.EventFromValues(r.Form), true
}

// writeDocument writes doc, or an empty acknowledgment when doc is nil
func (s *Server) writeDocument(w http.ResponseWriter, r *http.Request, doc *twiml.Response) {
	if doc == nil {
		w.WriteHeader(http.StatusOK)
		return
	}
	body, err := twiml.Render(doc)
	if err != nil {
		logging.FromContext(r.Context(), s.logger).WithError(err).Error("Failed to render document")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", twiml.ContentType)
	_, _ = w.Write([]byte(body))
}

func (s *Server) observe(endpoint string, started time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveWebhook(endpoint, time.Since(started))
	}
}
