// SPDX-License-Identifier: GPL-3.0-or-later

// Copyright (c) 2025 Spruce Health

package twiml

import (
	"testing"
	"time"
)

func TestParseSay(t *testing.T) {
	xml := `<?xml version="1.0" encoding="UTF-8"?>
<Response>
  <Say loop="3">Hello World</Say>
</Response>`

	resp, err := Parse([]byte(xml))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if len(resp.Children) != 1 {
		t.Fatalf("Expected 1 child, got %d", len(resp.Children))
	}

	say, ok := resp.Children[0].(*Say)
	if !ok {
		t.Fatalf("Expected *Say, got %T", resp.Children[0])
	}

	if say.Text != "Hello World" {
		t.Errorf("Expected 'Hello World', got %q", say.Text)
	}
	if say.Loop != 3 {
		t.Errorf("Expected loop 3, got %d", say.Loop)
	}
}

func TestParseGather(t *testing.T) {
	xml := `<?xml version="1.0" encoding="UTF-8"?>
<Response>
  <Gather timeout="30" finishOnKey="#" action="/virtual-holder/conference">
    <Say>Enter a number</Say>
  </Gather>
</Response>`

	resp, err := Parse([]byte(xml))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	gather, ok := resp.Children[0].(*Gather)
	if !ok {
		t.Fatalf("Expected *Gather, got %T", resp.Children[0])
	}

	if gather.Timeout != 30*time.Second {
		t.Errorf("Expected timeout 30s, got %v", gather.Timeout)
	}
	if gather.FinishOnKey != "#" {
		t.Errorf("Expected finishOnKey '#', got %q", gather.FinishOnKey)
	}
	if gather.NumDigits != 0 {
		t.Errorf("Expected numDigits 0, got %d", gather.NumDigits)
	}
	if gather.Action != "/virtual-holder/conference" {
		t.Errorf("Expected action URL, got %q", gather.Action)
	}

	if len(gather.Children) != 1 {
		t.Fatalf("Expected 1 child in Gather, got %d", len(gather.Children))
	}

	say, ok := gather.Children[0].(*Say)
	if !ok {
		t.Fatalf("Expected *Say in Gather, got %T", gather.Children[0])
	}
	if say.Text != "Enter a number" {
		t.Errorf("Expected 'Enter a number', got %q", say.Text)
	}
}

func TestParseDialNumber(t *testing.T) {
	xml := `<?xml version="1.0" encoding="UTF-8"?>
<Response>
  <Dial hangupOnStar="true" action="/next">+15551234567</Dial>
</Response>`

	resp, err := Parse([]byte(xml))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	dial, ok := resp.Children[0].(*Dial)
	if !ok {
		t.Fatalf("Expected *Dial, got %T", resp.Children[0])
	}

	if dial.Number != "+15551234567" {
		t.Errorf("Expected number, got %q", dial.Number)
	}
	if !dial.HangupOnStar {
		t.Errorf("Expected hangupOnStar")
	}
	if dial.Action != "/next" {
		t.Errorf("Expected action '/next', got %q", dial.Action)
	}
}

func TestParseDialConference(t *testing.T) {
	xml := `<?xml version="1.0" encoding="UTF-8"?>
<Response>
  <Dial><Conference endConferenceOnExit="true" maxParticipants="2" statusCallback="/cb?callback=join&amp;to=%2B1555" statusCallbackEvent="join">holder</Conference></Dial>
</Response>`

	resp, err := Parse([]byte(xml))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	dial, ok := resp.Children[0].(*Dial)
	if !ok {
		t.Fatalf("Expected *Dial, got %T", resp.Children[0])
	}

	if dial.Conference != "holder" {
		t.Errorf("Expected conference 'holder', got %q", dial.Conference)
	}
	if dial.Number != "" {
		t.Errorf("Expected no number, got %q", dial.Number)
	}

	conf, ok := dial.Children[0].(*ConferenceDial)
	if !ok {
		t.Fatalf("Expected *ConferenceDial, got %T", dial.Children[0])
	}
	if !conf.StartConferenceOnEnter {
		t.Errorf("Expected startConferenceOnEnter default true")
	}
	if !conf.EndConferenceOnExit {
		t.Errorf("Expected endConferenceOnExit true")
	}
	if conf.MaxParticipants != 2 {
		t.Errorf("Expected maxParticipants 2, got %d", conf.MaxParticipants)
	}
	if conf.StatusCallback != "/cb?callback=join&to=%2B1555" {
		t.Errorf("Expected decoded status callback, got %q", conf.StatusCallback)
	}
	if conf.StatusCallbackEvent != "join" {
		t.Errorf("Expected statusCallbackEvent 'join', got %q", conf.StatusCallbackEvent)
	}
}

func TestParseRedirect(t *testing.T) {
	xml := `<?xml version="1.0" encoding="UTF-8"?>
<Response>
  <Say>Invalid</Say>
  <Redirect method="POST">/virtual-holder/call</Redirect>
</Response>`

	resp, err := Parse([]byte(xml))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if len(resp.Children) != 2 {
		t.Fatalf("Expected 2 children, got %d", len(resp.Children))
	}

	redirect, ok := resp.Children[1].(*Redirect)
	if !ok {
		t.Fatalf("Expected *Redirect, got %T", resp.Children[1])
	}
	if redirect.URL != "/virtual-holder/call" {
		t.Errorf("Expected redirect URL, got %q", redirect.URL)
	}
}

func TestParseEmptyResponse(t *testing.T) {
	resp, err := Parse([]byte(`<?xml version="1.0" encoding="UTF-8"?><Response/>`))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(resp.Children) != 0 {
		t.Errorf("Expected no children, got %d", len(resp.Children))
	}
}

func TestParseUnknownElement(t *testing.T) {
	xml := `<Response><Enqueue>support</Enqueue></Response>`
	if _, err := Parse([]byte(xml)); err == nil {
		t.Fatal("Expected error for unknown element")
	}
}

func TestParseUnknownAttribute(t *testing.T) {
	xml := `<Response><Say voice="alice">Hi</Say></Response>`
	if _, err := Parse([]byte(xml)); err == nil {
		t.Fatal("Expected error for unknown attribute")
	}
}

func TestParseNoResponse(t *testing.T) {
	if _, err := Parse([]byte(`<Other/>`)); err == nil {
		t.Fatal("Expected error when <Response> is missing")
	}
}
