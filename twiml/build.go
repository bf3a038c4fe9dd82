// SPDX-License-Identifier: GPL-3.0-or-later

// Copyright (c) 2025 Spruce Health

package twiml

import "time"

// NewResponse returns a document executing verbs in order
func NewResponse(verbs ...Node) *Response {
	return &Response{Children: verbs}
}

// NewSay speaks text once
func NewSay(text string) *Say {
	return &Say{Text: text}
}

// NewSayLoop speaks text loop times
func NewSayLoop(text string, loop int) *Say {
	return &Say{Text: text, Loop: loop}
}

// NewGather collects digits until finishOnKey, numDigits or timeout, whichever
// comes first, while playing prompt. An empty finishOnKey or zero numDigits
// leaves the platform default in place.
func NewGather(action, finishOnKey string, numDigits int, timeout time.Duration, prompt ...Node) *Gather {
	return &Gather{
		Action:      action,
		FinishOnKey: finishOnKey,
		NumDigits:   numDigits,
		Timeout:     timeout,
		Children:    prompt,
	}
}

// DialOption configures a Dial
type DialOption func(*Dial)

// WithDialAction sets the URL requested once the dialed leg ends
func WithDialAction(action string) DialOption {
	return func(d *Dial) {
		d.Action = action
	}
}

// WithHangupOnStar lets the caller leave the dialed leg by pressing *
func WithHangupOnStar() DialOption {
	return func(d *Dial) {
		d.HangupOnStar = true
	}
}

// NewDialNumber dials a phone number
func NewDialNumber(number string, opts ...DialOption) *Dial {
	d := &Dial{Number: number}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewDialConference joins the conference described by conf
func NewDialConference(conf *ConferenceDial, opts ...DialOption) *Dial {
	d := &Dial{
		Conference: conf.Name,
		Children:   []Node{conf},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ConferenceOption configures a ConferenceDial
type ConferenceOption func(*ConferenceDial)

// WithStartOnEnter controls whether this participant starts the conference
func WithStartOnEnter(start bool) ConferenceOption {
	return func(c *ConferenceDial) {
		c.StartConferenceOnEnter = start
	}
}

// WithEndOnExit ends the conference when this participant leaves
func WithEndOnExit(end bool) ConferenceOption {
	return func(c *ConferenceDial) {
		c.EndConferenceOnExit = end
	}
}

// WithMaxParticipants caps the number of participants
func WithMaxParticipants(n int) ConferenceOption {
	return func(c *ConferenceDial) {
		c.MaxParticipants = n
	}
}

// WithStatusCallback requests callback for each of the given conference events
func WithStatusCallback(callback, events string) ConferenceOption {
	return func(c *ConferenceDial) {
		c.StatusCallback = callback
		c.StatusCallbackEvent = events
	}
}

// NewConference describes a conference to join. Defaults follow TwiML:
// the participant starts the conference and leaving does not end it.
func NewConference(name string, opts ...ConferenceOption) *ConferenceDial {
	c := &ConferenceDial{
		Name:                   name,
		StartConferenceOnEnter: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewRedirect transfers control to the TwiML at url
func NewRedirect(url string) *Redirect {
	return &Redirect{URL: url}
}
