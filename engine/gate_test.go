// SPDX-License-Identifier: GPL-3.0-or-later

// Copyright (c) 2025 Spruce Health

package engine_test

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/sprucehealth/virtualholder/model"
	"github.com/sprucehealth/virtualholder/twiml"
)

func eventFrom(values url.Values) model.CallEvent {
	return model.EventFromValues(values)
}

func TestHandleCallConnectsCallerToOwner(t *testing.T) {
	h := newHarness(t)

	resp := h.engine.HandleCall(context.Background(), eventFrom(url.Values{
		"CallSid": {"CA1"},
		"From":    {"+15551234567"},
	}))

	assertDocument(t, resp, twiml.NewResponse(twiml.NewDialNumber(ownerNumber)))
	for _, node := range resp.Children {
		if _, ok := node.(*twiml.Gather); ok {
			t.Fatalf("Expected no gather for a non-owner caller")
		}
	}
}

func TestHandleCallPromptsOwner(t *testing.T) {
	h := newHarness(t)

	resp := h.engine.HandleCall(context.Background(), eventFrom(url.Values{
		"CallSid": {"CA1"},
		"From":    {ownerNumber},
	}))

	want := twiml.NewResponse(
		twiml.NewGather("/virtual-holder/conference", "#", 0, 30*time.Second,
			twiml.NewSay("Enter the number you would like to call. Press the # when you're done."),
		),
	)
	assertDocument(t, resp, want)
}

func TestHandleCallComparesOwnerVerbatim(t *testing.T) {
	h := newHarness(t)

	// Same number, different formatting: not recognized as the owner
	for _, from := range []string{"15559999999", "+1 555 999 9999", ""} {
		resp := h.engine.HandleCall(context.Background(), eventFrom(url.Values{"From": {from}}))
		if len(resp.Children) != 1 {
			t.Fatalf("Expected single verb for %q, got %d", from, len(resp.Children))
		}
		dial, ok := resp.Children[0].(*twiml.Dial)
		if !ok || dial.Number != ownerNumber {
			t.Fatalf("Expected dial to owner for %q, got %#v", from, resp.Children[0])
		}
	}
	if len(h.client.PlacedCalls()) != 0 {
		t.Fatalf("Expected no platform calls from the gate")
	}
}
