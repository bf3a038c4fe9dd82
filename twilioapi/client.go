// SPDX-License-Identifier: GPL-3.0-or-later

// Copyright (c) 2025 Spruce Health

package twilioapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/twilio/twilio-go"
	"github.com/twilio/twilio-go/client"
	twilioopenapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/sprucehealth/virtualholder/model"
	"github.com/sprucehealth/virtualholder/telephony"
)

// participantPageSize bounds the participant listing. A bridge never holds
// more than two calls so one page is always enough.
const participantPageSize = 20

// API is the part of the Twilio REST surface used here. *twilioopenapi.ApiService
// satisfies it.
type API interface {
	CreateCall(params *twilioopenapi.CreateCallParams) (*twilioopenapi.ApiV2010Call, error)
	ListParticipant(conferenceSid string, params *twilioopenapi.ListParticipantParams) ([]twilioopenapi.ApiV2010Participant, error)
}

// Client adapts the Twilio REST API to telephony.Client
type Client struct {
	api API
}

var _ telephony.Client = (*Client)(nil)

// NewClient wraps an API implementation
func NewClient(api API) *Client {
	return &Client{api: api}
}

// NewFromCredentials builds a client talking to the live Twilio API
func NewFromCredentials(accountSID, authToken string) *Client {
	rest := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return NewClient(rest.Api)
}

// PlaceCall creates an outbound call
func (c *Client) PlaceCall(ctx context.Context, req telephony.CallRequest) telephony.Outcome {
	if err := ctx.Err(); err != nil {
		return telephony.Failed(telephony.ActionPlaceCall, err)
	}
	if req.To == "" || req.From == "" || req.URL == "" {
		return telephony.Failed(telephony.ActionPlaceCall, fmt.Errorf("to, from and url are required"))
	}

	params := &twilioopenapi.CreateCallParams{}
	params.SetTo(req.To)
	params.SetFrom(req.From)
	params.SetUrl(req.URL)

	call, err := c.api.CreateCall(params)
	if err != nil {
		return telephony.Failed(telephony.ActionPlaceCall, wrapRestError("create call", err))
	}
	sid := model.SID("")
	if call != nil && call.Sid != nil {
		sid = model.SID(*call.Sid)
	}
	return telephony.Succeeded(telephony.ActionPlaceCall, sid)
}

// ListParticipants lists the calls currently in a conference
func (c *Client) ListParticipants(ctx context.Context, conferenceSID model.SID) ([]telephony.Participant, telephony.Outcome) {
	if err := ctx.Err(); err != nil {
		return nil, telephony.Failed(telephony.ActionListParticipants, err)
	}
	if conferenceSID == "" {
		return nil, telephony.Failed(telephony.ActionListParticipants, fmt.Errorf("conference sid is required"))
	}

	params := &twilioopenapi.ListParticipantParams{}
	params.SetPageSize(participantPageSize)

	resp, err := c.api.ListParticipant(conferenceSID.String(), params)
	if err != nil {
		return nil, telephony.Failed(telephony.ActionListParticipants, wrapRestError("list participants", err))
	}

	participants := make([]telephony.Participant, 0, len(resp))
	for _, p := range resp {
		var participant telephony.Participant
		if p.CallSid != nil {
			participant.CallSID = model.SID(*p.CallSid)
		}
		if p.Label != nil {
			participant.Label = *p.Label
		}
		participants = append(participants, participant)
	}
	return participants, telephony.Succeeded(telephony.ActionListParticipants, "")
}

// RestErrorCode returns the Twilio error code carried by err, or 0
func RestErrorCode(err error) int {
	var restErr *client.TwilioRestError
	if errors.As(err, &restErr) {
		return restErr.Code
	}
	return 0
}

func wrapRestError(op string, err error) error {
	if code := RestErrorCode(err); code != 0 {
		return fmt.Errorf("%s: twilio error %d: %w", op, code, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
