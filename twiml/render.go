// SPDX-License-Identifier: GPL-3.0-or-later

// Copyright (c) 2025 Spruce Health

package twiml

import (
	"fmt"
	"strconv"

	twilioxml "github.com/twilio/twilio-go/twiml"
)

// ContentType is the media type of rendered documents
const ContentType = "text/xml; charset=utf-8"

// Render serializes a Response into a TwiML voice document
func Render(resp *Response) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("nil response")
	}
	verbs, err := elements(resp.Children)
	if err != nil {
		return "", err
	}
	return twilioxml.Voice(verbs)
}

// RenderMessage serializes a single-message TwiML messaging document
func RenderMessage(body string) (string, error) {
	return twilioxml.Messages([]twilioxml.Element{
		&twilioxml.MessagingMessage{Body: body},
	})
}

func elements(nodes []Node) ([]twilioxml.Element, error) {
	out := make([]twilioxml.Element, 0, len(nodes))
	for _, node := range nodes {
		el, err := element(node)
		if err != nil {
			return nil, err
		}
		out = append(out, el)
	}
	return out, nil
}

func element(node Node) (twilioxml.Element, error) {
	switch n := node.(type) {
	case *Say:
		say := &twilioxml.VoiceSay{Message: n.Text}
		if n.Loop > 0 {
			say.Loop = strconv.Itoa(n.Loop)
		}
		return say, nil
	case *Gather:
		children, err := elements(n.Children)
		if err != nil {
			return nil, err
		}
		gather := &twilioxml.VoiceGather{
			Action:        n.Action,
			FinishOnKey:   n.FinishOnKey,
			InnerElements: children,
		}
		if n.NumDigits > 0 {
			gather.NumDigits = strconv.Itoa(n.NumDigits)
		}
		if n.Timeout > 0 {
			gather.Timeout = strconv.Itoa(int(n.Timeout.Seconds()))
		}
		return gather, nil
	case *Dial:
		children, err := elements(n.Children)
		if err != nil {
			return nil, err
		}
		dial := &twilioxml.VoiceDial{
			Number:        n.Number,
			Action:        n.Action,
			InnerElements: children,
		}
		if n.HangupOnStar {
			dial.HangupOnStar = "true"
		}
		return dial, nil
	case *ConferenceDial:
		conf := &twilioxml.VoiceConference{
			Name:                   n.Name,
			StartConferenceOnEnter: strconv.FormatBool(n.StartConferenceOnEnter),
			EndConferenceOnExit:    strconv.FormatBool(n.EndConferenceOnExit),
			StatusCallback:         n.StatusCallback,
			StatusCallbackEvent:    n.StatusCallbackEvent,
		}
		if n.MaxParticipants > 0 {
			conf.MaxParticipants = strconv.Itoa(n.MaxParticipants)
		}
		return conf, nil
	case *Redirect:
		return &twilioxml.VoiceRedirect{Url: n.URL}, nil
	default:
		return nil, fmt.Errorf("unsupported TwiML node: %T", node)
	}
}
