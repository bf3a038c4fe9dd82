// SPDX-License-Identifier: GPL-3.0-or-later

// Copyright (c) 2025 Spruce Health

package twiml

import "time"

// Node is the interface for all TwiML AST nodes
type Node interface {
	isNode()
}

// Response is the root TwiML element. Verbs execute top to bottom; nothing
// after a Dial or Redirect is reached once control transfers.
type Response struct {
	Children []Node
}

func (Response) isNode() {}

// Say outputs text-to-speech
type Say struct {
	Text string
	Loop int // 0 means the platform default (once)
}

func (Say) isNode() {}

// Gather collects DTMF input
type Gather struct {
	Action      string
	FinishOnKey string
	NumDigits   int
	Timeout     time.Duration
	Children    []Node // Nested verbs to execute while gathering
}

func (Gather) isNode() {}

// Dial connects to another party
type Dial struct {
	Number       string
	Conference   string
	Action       string
	HangupOnStar bool
	Children     []Node // For nested <Conference>
}

func (Dial) isNode() {}

// ConferenceDial is used inside <Dial> to join a conference
type ConferenceDial struct {
	Name                   string
	StartConferenceOnEnter bool
	EndConferenceOnExit    bool
	MaxParticipants        int
	StatusCallback         string
	StatusCallbackEvent    string
}

func (ConferenceDial) isNode() {}

// Redirect fetches new TwiML from a URL
type Redirect struct {
	URL string
}

func (Redirect) isNode() {}
