// SPDX-License-Identifier: GPL-3.0-or-later

// Copyright (c) 2025 Spruce Health

package engine

import (
	"context"
	"time"

	"github.com/sprucehealth/virtualholder/model"
	"github.com/sprucehealth/virtualholder/twiml"
)

const (
	destinationPrompt      = "Enter the number you would like to call. Press the # when you're done."
	destinationFinishOnKey = "#"
	destinationTimeout     = 30 * time.Second
	messageReply           = "This number does not accept text messages at this time."
)

// HandleCall connects callers to the owner and prompts the owner for a
// destination. From is compared to the owner number verbatim.
func (e *EngineImpl) HandleCall(ctx context.Context, ev model.CallEvent) *twiml.Response {
	logger := e.log(ctx, ev).WithField("from", ev.From)

	if ev.From != e.cfg.OwnerNumber {
		logger.Info("Connecting caller to owner")
		e.countStep("call", "connect_owner")
		return twiml.NewResponse(twiml.NewDialNumber(e.cfg.OwnerNumber))
	}

	logger.Info("Prompting owner for destination")
	e.countStep("call", "prompt_destination")
	return twiml.NewResponse(
		twiml.NewGather(
			e.routes.conference(model.CallbackNone, nil),
			destinationFinishOnKey,
			0,
			destinationTimeout,
			twiml.NewSay(destinationPrompt),
		),
	)
}
