// SPDX-License-Identifier: GPL-3.0-or-later

// Copyright (c) 2025 Spruce Health

package telephony

import (
	"context"

	"github.com/sprucehealth/virtualholder/model"
)

// Client is the subset of the telephony platform the bridging flow drives
type Client interface {
	// PlaceCall starts an outbound call whose answer URL is req.URL
	PlaceCall(ctx context.Context, req CallRequest) Outcome
	// ListParticipants returns the current occupants of a conference
	ListParticipants(ctx context.Context, conferenceSID model.SID) ([]Participant, Outcome)
}

// CallRequest describes an outbound call
type CallRequest struct {
	To   string
	From string
	URL  string
}

// Participant is a call currently in a conference
type Participant struct {
	CallSID model.SID
	Label   string
}

// Outcome is the result of a best-effort platform action. Callers decide
// explicitly what a failure means; the bridging flow logs it and carries on.
type Outcome struct {
	Action string
	// SID identifies the created resource, when there is one
	SID model.SID
	Err error
}

// Succeeded returns a successful outcome for action
func Succeeded(action string, sid model.SID) Outcome {
	return Outcome{Action: action, SID: sid}
}

// Failed returns a failed outcome for action
func Failed(action string, err error) Outcome {
	return Outcome{Action: action, Err: err}
}

// OK reports whether the action succeeded
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Label is the metrics label for the outcome
func (o Outcome) Label() string {
	if o.Err != nil {
		return "failed"
	}
	return "ok"
}

// Action names
const (
	ActionPlaceCall        = "place_call"
	ActionListParticipants = "list_participants"
)
