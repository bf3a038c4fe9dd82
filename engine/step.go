// SPDX-License-Identifier: GPL-3.0-or-later

// Copyright (c) 2025 Spruce Health

package engine

import "github.com/sprucehealth/virtualholder/model"

// Step is the position of a webhook within the bridging flow. The flow keeps
// no session; each step is recovered from the callback discriminator and the
// fields the platform sends with it.
type Step interface {
	isStep()
	Name() string
}

// AwaitDestination handles the owner's keyed-in destination
type AwaitDestination struct {
	Digits string
}

// JoinWait handles a participant entering the bridge
type JoinWait struct {
	SequenceNumber string
	Destination    string
	ConferenceSID  model.SID
}

// First reports whether this is the first join and a destination is attached
func (s JoinWait) First() bool {
	return model.CallEvent{SequenceNumber: s.SequenceNumber, Destination: s.Destination}.IsFirstJoin()
}

// DialPrompt runs once the dial into the bridge has completed
type DialPrompt struct{}

// OutboundDial runs once the callee asks to reach the owner
type OutboundDial struct{}

// DialConference runs when the owner answers the callback call
type DialConference struct{}

// Unknown is any other discriminator
type Unknown struct {
	Callback model.CallbackKind
}

func (AwaitDestination) isStep() {}
func (JoinWait) isStep()         {}
func (DialPrompt) isStep()       {}
func (OutboundDial) isStep()     {}
func (DialConference) isStep()   {}
func (Unknown) isStep()          {}

func (AwaitDestination) Name() string { return "await_destination" }
func (JoinWait) Name() string         { return "join_wait" }
func (DialPrompt) Name() string       { return "dial_prompt" }
func (OutboundDial) Name() string     { return "outbound_dial" }
func (DialConference) Name() string   { return "dial_conference" }
func (Unknown) Name() string          { return "unknown" }

// StepFor recovers the step a bridge webhook belongs to
func StepFor(ev model.CallEvent) Step {
	if !ev.Callback.IsKnown() {
		return Unknown{Callback: ev.Callback}
	}
	switch ev.Callback {
	case model.CallbackJoin:
		return JoinWait{
			SequenceNumber: ev.SequenceNumber,
			Destination:    ev.Destination,
			ConferenceSID:  ev.ConferenceSID,
		}
	case model.CallbackDial:
		return DialPrompt{}
	case model.CallbackOutboundDial:
		return OutboundDial{}
	case model.CallbackDialConference:
		return DialConference{}
	}
	return AwaitDestination{Digits: ev.Digits}
}
