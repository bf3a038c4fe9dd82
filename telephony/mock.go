// SPDX-License-Identifier: GPL-3.0-or-later

// Copyright (c) 2025 Spruce Health

package telephony

import (
	"context"
	"fmt"
	"sync"

	"github.com/sprucehealth/virtualholder/model"
)

// MockClient is a test double that records platform calls
type MockClient struct {
	mu sync.Mutex

	Calls        []CallRequest
	Listed       []model.SID
	Participants []Participant

	// PlaceCallFunc allows tests to control PlaceCall results
	PlaceCallFunc func(req CallRequest) error
	// ListFunc allows tests to control ListParticipants results. When nil
	// Participants is returned.
	ListFunc func(conferenceSID model.SID) ([]Participant, error)
}

// NewMockClient creates a mock client whose calls all succeed
func NewMockClient() *MockClient {
	return &MockClient{
		Calls:  make([]CallRequest, 0),
		Listed: make([]model.SID, 0),
	}
}

// PlaceCall records req and returns the configured result
func (m *MockClient) PlaceCall(ctx context.Context, req CallRequest) Outcome {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	n := len(m.Calls)
	fn := m.PlaceCallFunc
	m.mu.Unlock()

	if fn != nil {
		if err := fn(req); err != nil {
			return Failed(ActionPlaceCall, err)
		}
	}
	return Succeeded(ActionPlaceCall, model.SID(fmt.Sprintf("CAMOCK%028d", n)))
}

// ListParticipants records the lookup and returns the configured occupants
func (m *MockClient) ListParticipants(ctx context.Context, conferenceSID model.SID) ([]Participant, Outcome) {
	m.mu.Lock()
	m.Listed = append(m.Listed, conferenceSID)
	fn := m.ListFunc
	participants := append([]Participant(nil), m.Participants...)
	m.mu.Unlock()

	if fn != nil {
		ps, err := fn(conferenceSID)
		if err != nil {
			return nil, Failed(ActionListParticipants, err)
		}
		return ps, Succeeded(ActionListParticipants, "")
	}
	return participants, Succeeded(ActionListParticipants, "")
}

// SetParticipants replaces the occupants returned by ListParticipants
func (m *MockClient) SetParticipants(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Participants = make([]Participant, n)
	for i := range m.Participants {
		m.Participants[i] = Participant{CallSID: model.SID(fmt.Sprintf("CAPART%028d", i+1))}
	}
}

// PlacedCalls returns a copy of the recorded call requests
func (m *MockClient) PlacedCalls() []CallRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]CallRequest, len(m.Calls))
	copy(out, m.Calls)
	return out
}

// ListedConferences returns a copy of the conferences looked up
func (m *MockClient) ListedConferences() []model.SID {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.SID, len(m.Listed))
	copy(out, m.Listed)
	return out
}

// Reset clears all recorded calls
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = make([]CallRequest, 0)
	m.Listed = make([]model.SID, 0)
}
