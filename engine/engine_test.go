// SPDX-License-Identifier: GPL-3.0-or-later

// Copyright (c) 2025 Spruce Health

package engine_test

import (
	"context"
	"fmt"
	"net/url"
	"reflect"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/sprucehealth/virtualholder/engine"
	"github.com/sprucehealth/virtualholder/phonenumber"
	"github.com/sprucehealth/virtualholder/telephony"
	"github.com/sprucehealth/virtualholder/twiml"
)

const (
	ownerNumber    = "+15559999999"
	callerID       = "+15550001111"
	conferenceName = "virtual-holder-bridge"
)

// stubNormalizer accepts a fixed set of inputs so scenarios can use
// fictional 555 numbers.
type stubNormalizer map[string]string

func (s stubNormalizer) Normalize(raw string) (phonenumber.Number, error) {
	e164, ok := s[raw]
	if !ok {
		return phonenumber.Number{}, fmt.Errorf("%w: %q", phonenumber.ErrInvalidNumber, raw)
	}
	return phonenumber.Number{Raw: raw, E164: e164, Speech: phonenumber.ToSpeech(e164)}, nil
}

type harness struct {
	engine *engine.EngineImpl
	client *telephony.MockClient
	hook   *test.Hook
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	client := telephony.NewMockClient()
	e := engine.New(engine.Config{
		OwnerNumber:    ownerNumber,
		OwnerName:      "Alex",
		CallerID:       callerID,
		ConferenceName: conferenceName,
		PublicScheme:   "https",
		DomainName:     "vh.example.com",
		BasePath:       "/virtual-holder",
	},
		engine.WithTelephonyClient(client),
		engine.WithNormalizer(stubNormalizer{
			"15552223333":  "+15552223333",
			"+15552223333": "+15552223333",
		}),
		engine.WithLogger(logger),
	)
	return &harness{engine: e, client: client, hook: hook}
}

func assertDocument(t *testing.T, got, want *twiml.Response) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Document mismatch.\nExpected: %#v\nGot:      %#v", want, got)
	}
	// The document must survive rendering unchanged
	xml, err := twiml.Render(got)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	parsed, err := twiml.Parse([]byte(xml))
	if err != nil {
		t.Fatalf("Parse failed: %v\n%s", err, xml)
	}
	if !reflect.DeepEqual(parsed, want) {
		t.Fatalf("Rendered document mismatch.\nExpected: %#v\nGot:      %#v\nXML: %s", want, parsed, xml)
	}
}

func assertNoDocument(t *testing.T, got *twiml.Response) {
	t.Helper()
	if got != nil {
		t.Fatalf("Expected empty acknowledgment, got %#v", got)
	}
}

func assertFailureLogged(t *testing.T, hook *test.Hook, action string) {
	t.Helper()
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.ErrorLevel && entry.Data["action"] == action {
			return
		}
	}
	t.Fatalf("Expected logged %s failure, got %d entries", action, len(hook.AllEntries()))
}

func TestNewDefaults(t *testing.T) {
	e := engine.New(engine.Config{OwnerNumber: ownerNumber})
	cfg := e.Config()
	if cfg.PublicScheme != "https" {
		t.Fatalf("Expected default scheme https, got %q", cfg.PublicScheme)
	}
	if cfg.OwnerName == "" {
		t.Fatalf("Expected default owner name")
	}
}

func TestUnconfiguredClientFailsQuietly(t *testing.T) {
	logger, hook := test.NewNullLogger()
	e := engine.New(engine.Config{OwnerNumber: ownerNumber, DomainName: "vh.example.com"}, engine.WithLogger(logger))

	resp := e.HandleConference(context.Background(), eventFrom(url.Values{
		"callback":       {"join"},
		"SequenceNumber": {"1"},
		"to":             {"+15552223333"},
	}))
	assertNoDocument(t, resp)
	assertFailureLogged(t, hook, telephony.ActionPlaceCall)
	if entry := hook.LastEntry(); entry.Data[logrus.ErrorKey] != engine.ErrNoTelephonyClient {
		t.Fatalf("Expected ErrNoTelephonyClient, got %v", entry.Data[logrus.ErrorKey])
	}
}

func TestHandleMessage(t *testing.T) {
	h := newHarness(t)
	reply := h.engine.HandleMessage(context.Background(), eventFrom(url.Values{"From": {"+15551234567"}}))
	if reply != "This number does not accept text messages at this time." {
		t.Fatalf("Unexpected reply %q", reply)
	}
}
