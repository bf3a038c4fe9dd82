// SPDX-License-Identifier: GPL-3.0-or-later

// Copyright (c) 2025 Spruce Health

package twiml_test

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/sprucehealth/virtualholder/twiml"
)

// roundTrip renders resp and parses it back so documents can be compared
// structurally rather than byte for byte.
func roundTrip(t *testing.T, resp *twiml.Response) *twiml.Response {
	t.Helper()
	out, err := twiml.Render(resp)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.Contains(out, "<Response") {
		t.Fatalf("Expected a <Response> document, got %s", out)
	}
	parsed, err := twiml.Parse([]byte(out))
	if err != nil {
		t.Fatalf("Parse error: %v\n%s", err, out)
	}
	return parsed
}

func TestRenderGatherPrompt(t *testing.T) {
	resp := twiml.NewResponse(
		twiml.NewGather("/virtual-holder/conference", "#", 0, 30*time.Second,
			twiml.NewSay("Enter the number you would like to call. Press the # when you're done."),
		),
	)

	got := roundTrip(t, resp)

	expected := []twiml.Node{
		&twiml.Gather{
			Action:      "/virtual-holder/conference",
			FinishOnKey: "#",
			Timeout:     30 * time.Second,
			Children: []twiml.Node{
				&twiml.Say{Text: "Enter the number you would like to call. Press the # when you're done."},
			},
		},
	}
	if !reflect.DeepEqual(got.Children, expected) {
		t.Errorf("TwiML mismatch:\nExpected: %#v\nGot:      %#v", expected, got.Children)
	}
}

func TestRenderDialConference(t *testing.T) {
	conf := twiml.NewConference("holder",
		twiml.WithStartOnEnter(true),
		twiml.WithEndOnExit(false),
		twiml.WithMaxParticipants(2),
		twiml.WithStatusCallback("/virtual-holder/conference?callback=join&to=%2B15552223333", "join"),
	)
	resp := twiml.NewResponse(
		twiml.NewSay("Calling"),
		twiml.NewDialConference(conf,
			twiml.WithHangupOnStar(),
			twiml.WithDialAction("/virtual-holder/conference?callback=dial"),
		),
	)

	got := roundTrip(t, resp)

	expected := []twiml.Node{
		&twiml.Say{Text: "Calling"},
		&twiml.Dial{
			Conference:   "holder",
			Action:       "/virtual-holder/conference?callback=dial",
			HangupOnStar: true,
			Children: []twiml.Node{
				&twiml.ConferenceDial{
					Name:                   "holder",
					StartConferenceOnEnter: true,
					MaxParticipants:        2,
					StatusCallback:         "/virtual-holder/conference?callback=join&to=%2B15552223333",
					StatusCallbackEvent:    "join",
				},
			},
		},
	}
	if !reflect.DeepEqual(got.Children, expected) {
		t.Errorf("TwiML mismatch:\nExpected: %#v\nGot:      %#v", expected, got.Children)
	}
}

func TestRenderLoopAndRedirect(t *testing.T) {
	resp := twiml.NewResponse(
		twiml.NewSayLoop("Press any key", 900),
		twiml.NewDialNumber("+15550001111"),
		twiml.NewRedirect("/virtual-holder/call"),
	)

	got := roundTrip(t, resp)

	expected := []twiml.Node{
		&twiml.Say{Text: "Press any key", Loop: 900},
		&twiml.Dial{Number: "+15550001111"},
		&twiml.Redirect{URL: "/virtual-holder/call"},
	}
	if !reflect.DeepEqual(got.Children, expected) {
		t.Errorf("TwiML mismatch:\nExpected: %#v\nGot:      %#v", expected, got.Children)
	}
}

func TestRenderNil(t *testing.T) {
	if _, err := twiml.Render(nil); err == nil {
		t.Fatal("Expected error rendering nil response")
	}
}

func TestRenderMessage(t *testing.T) {
	out, err := twiml.RenderMessage("This number does not accept text messages at this time.")
	if err != nil {
		t.Fatalf("RenderMessage error: %v", err)
	}
	if !strings.Contains(out, "<Message>This number does not accept text messages at this time.</Message>") {
		t.Errorf("Expected message body in %s", out)
	}
}
