// SPDX-License-Identifier: GPL-3.0-or-later

// Copyright (c) 2025 Spruce Health

package engine

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/sprucehealth/virtualholder/logging"
	"github.com/sprucehealth/virtualholder/metrics"
	"github.com/sprucehealth/virtualholder/model"
	"github.com/sprucehealth/virtualholder/phonenumber"
	"github.com/sprucehealth/virtualholder/telephony"
	"github.com/sprucehealth/virtualholder/twiml"
)

// Engine handles the virtual holder webhooks. A nil document means the
// webhook is acknowledged with an empty body.
type Engine interface {
	// HandleCall is the inbound gate for calls to the virtual number
	HandleCall(ctx context.Context, ev model.CallEvent) *twiml.Response
	// HandleConference drives the bridge from each callback
	HandleConference(ctx context.Context, ev model.CallEvent) *twiml.Response
	// HandleMessage returns the reply text for an inbound SMS
	HandleMessage(ctx context.Context, ev model.CallEvent) string
}

// Normalizer validates destination input. *phonenumber.Normalizer satisfies it.
type Normalizer interface {
	Normalize(raw string) (phonenumber.Number, error)
}

// Config is the static configuration of the flow
type Config struct {
	// OwnerNumber is the owner's real phone number, compared verbatim to From
	OwnerNumber string
	// OwnerName is spoken in prompts
	OwnerName string
	// CallerID is the virtual number outbound calls are placed from
	CallerID string
	// ConferenceName is the bridge every leg joins
	ConferenceName string
	// PublicScheme and DomainName form absolute callback URLs
	PublicScheme string
	DomainName   string
	// BasePath prefixes every webhook route, e.g. /virtual-holder
	BasePath string
}

// EngineImpl is the concrete implementation of Engine
type EngineImpl struct {
	cfg        Config
	routes     routes
	client     telephony.Client
	normalizer Normalizer
	logger     logrus.FieldLogger
	metrics    *metrics.Metrics
}

var _ Engine = (*EngineImpl)(nil)

// Option configures the engine
type Option func(*EngineImpl)

// WithTelephonyClient sets the platform client
func WithTelephonyClient(client telephony.Client) Option {
	return func(e *EngineImpl) {
		e.client = client
	}
}

// WithNormalizer sets the destination number normalizer
func WithNormalizer(n Normalizer) Option {
	return func(e *EngineImpl) {
		e.normalizer = n
	}
}

// WithLogger sets the logger used when a request carries none
func WithLogger(logger logrus.FieldLogger) Option {
	return func(e *EngineImpl) {
		e.logger = logger
	}
}

// WithMetrics records step and platform action counters
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *EngineImpl) {
		e.metrics = m
	}
}

// New creates an engine. Without WithTelephonyClient every platform action
// fails and is logged.
func New(cfg Config, opts ...Option) *EngineImpl {
	if cfg.PublicScheme == "" {
		cfg.PublicScheme = "https"
	}
	if cfg.OwnerName == "" {
		cfg.OwnerName = "the owner"
	}
	e := &EngineImpl{
		cfg:        cfg,
		routes:     newRoutes(cfg),
		client:     unconfiguredClient{},
		normalizer: phonenumber.NewNormalizer("US"),
		logger:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the engine's configuration with defaults applied
func (e *EngineImpl) Config() Config {
	return e.cfg
}

// HandleMessage returns the fixed auto-reply for inbound texts
func (e *EngineImpl) HandleMessage(ctx context.Context, ev model.CallEvent) string {
	e.log(ctx, ev).WithField("from", ev.From).Info("Rejecting inbound message")
	e.countStep("sms", "reply")
	return messageReply
}

func (e *EngineImpl) log(ctx context.Context, ev model.CallEvent) logrus.FieldLogger {
	logger := logging.FromContext(ctx, e.logger)
	if ev.CallSID != "" {
		logger = logger.WithField("call_sid", ev.CallSID.String())
	}
	return logger
}

func (e *EngineImpl) countStep(endpoint, step string) {
	if e.metrics != nil {
		e.metrics.WebhookEvents.WithLabelValues(endpoint, step).Inc()
	}
}
