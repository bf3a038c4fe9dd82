// SPDX-License-Identifier: GPL-3.0-or-later

// Copyright (c) 2025 Spruce Health

package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sprucehealth/virtualholder/logging"
)

// SignatureHeader carries Twilio's request signature
const SignatureHeader = "X-Twilio-Signature"

// RequestIDHeader echoes the id every request is logged under
const RequestIDHeader = "X-Request-Id"

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		id := uuid.NewString()
		entry := s.logger.WithFields(logrus.Fields{
			"request_id": id,
			"method":     r.Method,
			"path":       r.URL.Path,
		})
		w.Header().Set(RequestIDHeader, id)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(logging.WithEntry(r.Context(), entry)))

		entry.WithFields(logrus.Fields{
			"status":      ww.Status(),
			"duration_ms": time.Since(started).Milliseconds(),
		}).Debug("Request complete")
	})
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			if s.metrics != nil {
				s.metrics.RateLimited.Inc()
			}
			logging.FromContext(r.Context(), s.logger).Warn("Rate limited webhook")
			http.Error(w, "too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// validateSignature rejects webhooks not signed with the account's auth
// token. The signed URL is the public one Twilio was configured with.
func (s *Server) validateSignature(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := logging.FromContext(r.Context(), s.logger)
		if err := r.ParseForm(); err != nil {
			logger.WithError(err).Warn("Malformed webhook form")
			http.Error(w, "malformed form", http.StatusBadRequest)
			return
		}

		params := make(map[string]string, len(r.PostForm))
		for k, vs := range r.PostForm {
			if len(vs) > 0 {
				params[k] = vs[0]
			}
		}

		publicURL := s.cfg.PublicScheme + "://" + s.cfg.DomainName + r.URL.RequestURI()
		if !s.validator.Validate(publicURL, params, r.Header.Get(SignatureHeader)) {
			logger.WithField("url", publicURL).Warn("Rejected webhook with invalid signature")
			http.Error(w, "invalid signature", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
