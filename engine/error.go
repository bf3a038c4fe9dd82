// SPDX-License-Identifier: GPL-3.0-or-later

// Copyright (c) 2025 Spruce Health

package engine

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go/client"

	"github.com/sprucehealth/virtualholder/model"
	"github.com/sprucehealth/virtualholder/telephony"
)

// ErrNoTelephonyClient is reported when the engine was built without a client
var ErrNoTelephonyClient = errors.New("telephony client not configured")

// acknowledge records a best-effort platform action. Failures are logged and
// otherwise ignored; the webhook still completes with its usual response and
// the flow stalls until the next callback.
func (e *EngineImpl) acknowledge(logger logrus.FieldLogger, out telephony.Outcome) {
	if e.metrics != nil {
		e.metrics.PlatformActions.WithLabelValues(out.Action, out.Label()).Inc()
	}
	if out.OK() {
		entry := logger.WithField("action", out.Action)
		if out.SID != "" {
			entry = entry.WithField("sid", out.SID.String())
		}
		entry.Info("Platform action succeeded")
		return
	}

	fields := logrus.Fields{"action": out.Action}
	var restErr *client.TwilioRestError
	if errors.As(out.Err, &restErr) {
		fields["twilio_code"] = restErr.Code
		fields["twilio_status"] = restErr.Status
	}
	logger.WithFields(fields).WithError(out.Err).Error("Platform action failed")
}

type unconfiguredClient struct{}

func (unconfiguredClient) PlaceCall(context.Context, telephony.CallRequest) telephony.Outcome {
	return telephony.Failed(telephony.ActionPlaceCall, ErrNoTelephonyClient)
}

func (unconfiguredClient) ListParticipants(context.Context, model.SID) ([]telephony.Participant, telephony.Outcome) {
	return nil, telephony.Failed(telephony.ActionListParticipants, ErrNoTelephonyClient)
}
