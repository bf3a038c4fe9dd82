// SPDX-License-Identifier: GPL-3.0-or-later

// Copyright (c) 2025 Spruce Health

package phonenumber

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ttacon/libphonenumber"
)

// ErrInvalidNumber is returned when keypad input is not a dialable number
var ErrInvalidNumber = errors.New("invalid phone number")

// Number is a validated destination
type Number struct {
	// Raw is the input as it was keyed in
	Raw string
	// E164 is the canonical dialable form, e.g. +15552223333
	E164 string
	// Speech spells E164 one character at a time so text-to-speech reads
	// digits rather than a quantity.
	Speech string
}

// Normalizer validates keypad input. Input must carry a country code; a
// leading "+" is added when missing.
type Normalizer struct {
	// DefaultRegion is handed to libphonenumber. Input is always made
	// international first, so it only matters for exotic inputs.
	DefaultRegion string
}

// NewNormalizer returns a Normalizer for the given default region
func NewNormalizer(defaultRegion string) *Normalizer {
	return &Normalizer{DefaultRegion: defaultRegion}
}

// Normalize validates raw and returns its canonical and spoken forms
func (n *Normalizer) Normalize(raw string) (Number, error) {
	number := raw
	if !strings.HasPrefix(number, "+") {
		number = "+" + number
	}

	parsed, err := libphonenumber.Parse(number, n.DefaultRegion)
	if err != nil {
		return Number{}, fmt.Errorf("%w: %q: %v", ErrInvalidNumber, raw, err)
	}
	if !libphonenumber.IsValidNumber(parsed) {
		return Number{}, fmt.Errorf("%w: %q", ErrInvalidNumber, raw)
	}

	e164 := libphonenumber.Format(parsed, libphonenumber.E164)
	return Number{
		Raw:    raw,
		E164:   e164,
		Speech: ToSpeech(e164),
	}, nil
}

// ToSpeech separates every character of s with a space
func ToSpeech(s string) string {
	return strings.Join(strings.Split(s, ""), " ")
}
