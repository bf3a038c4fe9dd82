// SPDX-License-Identifier: GPL-3.0-or-later

// Copyright (c) 2025 Spruce Health

package engine

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sprucehealth/virtualholder/model"
	"github.com/sprucehealth/virtualholder/telephony"
	"github.com/sprucehealth/virtualholder/twiml"
)

const (
	invalidNumberMessage = "You've entered an invalid number. Please try again."

	// bridgeCapacity is the owner and the callee
	bridgeCapacity = 2
	joinEvent      = "join"

	// The callee may wait on hold for about half an hour
	callbackPromptTimeout = 1800 * time.Second
	callbackPromptLoop    = 900
	callbackPromptDigits  = 1
)

// HandleConference dispatches a bridge webhook to the handler for its step
func (e *EngineImpl) HandleConference(ctx context.Context, ev model.CallEvent) *twiml.Response {
	step := StepFor(ev)
	logger := e.log(ctx, ev).WithFields(logrus.Fields{
		"step":     step.Name(),
		"callback": string(ev.Callback),
	})
	e.countStep("conference", step.Name())

	switch s := step.(type) {
	case AwaitDestination:
		return e.awaitDestination(logger, s)
	case JoinWait:
		e.joinWait(ctx, logger, s)
		return nil
	case DialPrompt:
		return e.dialPrompt(logger)
	case OutboundDial:
		return e.outboundDial(logger)
	case DialConference:
		return e.dialConference(logger)
	default:
		logger.Warn("Ignoring unknown callback")
		return nil
	}
}

// awaitDestination validates the keyed destination and puts the owner in the
// bridge. The join callback carries the destination so it can be dialed once
// the bridge exists.
func (e *EngineImpl) awaitDestination(logger logrus.FieldLogger, s AwaitDestination) *twiml.Response {
	number, err := e.normalizer.Normalize(s.Digits)
	if err != nil {
		logger.WithError(err).Info("Rejected destination")
		if e.metrics != nil {
			e.metrics.InvalidDestination.Inc()
		}
		return twiml.NewResponse(
			twiml.NewSay(invalidNumberMessage),
			twiml.NewRedirect(e.routes.call()),
		)
	}

	logger.WithField("to", number.E164).Info("Creating bridge")
	joinCallback := e.routes.conference(model.CallbackJoin, url.Values{
		model.ParamDestination: {number.E164},
	})
	return twiml.NewResponse(
		twiml.NewSay(fmt.Sprintf("Calling %s. You can hang up when you hear the music, or you can stay on the line.", number.Speech)),
		twiml.NewDialConference(
			twiml.NewConference(e.cfg.ConferenceName,
				twiml.WithStartOnEnter(true),
				twiml.WithEndOnExit(false),
				twiml.WithMaxParticipants(bridgeCapacity),
				twiml.WithStatusCallback(joinCallback, joinEvent),
			),
			twiml.WithHangupOnStar(),
			twiml.WithDialAction(e.routes.conference(model.CallbackDial, nil)),
		),
	)
}

// joinWait reacts to a participant entering the bridge. The first join dials
// the destination. Any later join checks whether the owner is still there
// and calls them back when the callee is alone.
func (e *EngineImpl) joinWait(ctx context.Context, logger logrus.FieldLogger, s JoinWait) {
	logger = logger.WithField("sequence_number", s.SequenceNumber)

	if s.First() {
		logger.WithField("to", s.Destination).Info("Dialing destination")
		e.placeCall(ctx, logger, s.Destination, model.CallbackDial)
		return
	}

	participants, out := e.client.ListParticipants(ctx, s.ConferenceSID)
	if !out.OK() {
		e.acknowledge(logger.WithField("conference_sid", s.ConferenceSID.String()), out)
		return
	}
	logger = logger.WithField("participants", len(participants))
	if len(participants) != 1 {
		logger.Info("Owner still in bridge")
		return
	}
	logger.Info("Calling owner back")
	e.placeCall(ctx, logger, e.cfg.OwnerNumber, model.CallbackDialConference)
}

func (e *EngineImpl) placeCall(ctx context.Context, logger logrus.FieldLogger, to string, next model.CallbackKind) {
	answerURL, err := e.routes.absolute(e.routes.conference(next, nil))
	if err != nil {
		e.acknowledge(logger, telephony.Failed(telephony.ActionPlaceCall, err))
		return
	}
	out := e.client.PlaceCall(ctx, telephony.CallRequest{
		To:   to,
		From: e.cfg.CallerID,
		URL:  answerURL,
	})
	e.acknowledge(logger, out)
}

// dialPrompt keeps the callee on the line with a repeating prompt to call the
// owner back. When the gather times out the fallback dial reaches the virtual
// number and then the outbound-dial step.
func (e *EngineImpl) dialPrompt(logger logrus.FieldLogger) *twiml.Response {
	logger.Info("Prompting callee to call owner back")
	action := e.routes.conference(model.CallbackOutboundDial, nil)
	return twiml.NewResponse(
		twiml.NewGather(action, "", callbackPromptDigits, callbackPromptTimeout,
			twiml.NewSayLoop(fmt.Sprintf("Press any key to call back %s.", e.cfg.OwnerName), callbackPromptLoop),
		),
		twiml.NewDialNumber(e.cfg.CallerID,
			twiml.WithHangupOnStar(),
			twiml.WithDialAction(action),
		),
	)
}

// outboundDial puts the callee back in the bridge. Its join callback has no
// destination so it is treated as a later join.
func (e *EngineImpl) outboundDial(logger logrus.FieldLogger) *twiml.Response {
	logger.Info("Returning callee to bridge")
	return twiml.NewResponse(
		twiml.NewSay(fmt.Sprintf("Calling %s", e.cfg.OwnerName)),
		twiml.NewDialConference(
			twiml.NewConference(e.cfg.ConferenceName,
				twiml.WithStatusCallback(e.routes.conference(model.CallbackJoin, nil), joinEvent),
			),
		),
	)
}

// dialConference brings the owner's callback leg into the bridge. The bridge
// ends when the owner leaves.
func (e *EngineImpl) dialConference(logger logrus.FieldLogger) *twiml.Response {
	logger.Info("Joining owner to bridge")
	return twiml.NewResponse(
		twiml.NewDialConference(
			twiml.NewConference(e.cfg.ConferenceName, twiml.WithEndOnExit(true)),
		),
	)
}
