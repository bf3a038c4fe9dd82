// SPDX-License-Identifier: GPL-3.0-or-later

// Copyright (c) 2025 Spruce Health

package model

import "net/url"

// SID represents a Twilio Session ID (CA... for calls, CF... for conferences)
type SID string

func (s SID) String() string {
	return string(s)
}

// CallbackKind is the discriminator threaded through every callback URL as
// the "callback" query parameter. It identifies which step of the bridging
// flow an inbound webhook belongs to.
type CallbackKind string

const (
	CallbackNone           CallbackKind = ""
	CallbackJoin           CallbackKind = "join"
	CallbackDial           CallbackKind = "dial"
	CallbackOutboundDial   CallbackKind = "outbound-dial"
	CallbackDialConference CallbackKind = "dial-conference"
)

// IsKnown reports whether the discriminator names a step of the flow
func (k CallbackKind) IsKnown() bool {
	switch k {
	case CallbackNone, CallbackJoin, CallbackDial, CallbackOutboundDial, CallbackDialConference:
		return true
	default:
		return false
	}
}

// Webhook form and query parameter names
const (
	ParamCallSid        = "CallSid"
	ParamFrom           = "From"
	ParamDigits         = "Digits"
	ParamSequenceNumber = "SequenceNumber"
	ParamConferenceSid  = "ConferenceSid"
	ParamCallback       = "callback"
	ParamDestination    = "to"
)

// FirstSequenceNumber is the SequenceNumber of the first participant
// joining a conference.
const FirstSequenceNumber = "1"

// CallEvent is a single webhook invocation from the platform. It is built
// per request, consumed once and never persisted.
type CallEvent struct {
	CallSID        SID          `json:"call_sid,omitempty"`
	From           string       `json:"from"`
	Digits         string       `json:"digits,omitempty"`
	Callback       CallbackKind `json:"callback,omitempty"`
	SequenceNumber string       `json:"sequence_number,omitempty"`
	// Destination is the lowercase "to" query parameter attached to the
	// first join callback. It is distinct from the platform's "To" field.
	Destination   string `json:"to,omitempty"`
	ConferenceSID SID    `json:"conference_sid,omitempty"`
}

// IsFirstJoin reports whether the event is the first participant's join
// carrying a destination to dial.
func (ev CallEvent) IsFirstJoin() bool {
	return ev.SequenceNumber == FirstSequenceNumber && ev.Destination != ""
}

// EventFromValues builds a CallEvent from merged form and query values, the
// way the platform delivers them to a webhook.
func EventFromValues(values url.Values) CallEvent {
	return CallEvent{
		CallSID:        SID(values.Get(ParamCallSid)),
		From:           values.Get(ParamFrom),
		Digits:         values.Get(ParamDigits),
		Callback:       CallbackKind(values.Get(ParamCallback)),
		SequenceNumber: values.Get(ParamSequenceNumber),
		Destination:    values.Get(ParamDestination),
		ConferenceSID:  SID(values.Get(ParamConferenceSid)),
	}
}
