// SPDX-License-Identifier: GPL-3.0-or-later

// Copyright (c) 2025 Spruce Health

package engine

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/sprucehealth/virtualholder/model"
)

const (
	callPath       = "/call"
	conferencePath = "/conference"
)

// routes builds the callback URLs threaded through the flow
type routes struct {
	basePath string
	// publicBase is scheme://host, used for calls placed through the API
	publicBase string
}

func newRoutes(cfg Config) routes {
	base := "/" + strings.Trim(cfg.BasePath, "/")
	if base == "/" {
		base = ""
	}
	return routes{
		basePath:   base,
		publicBase: cfg.PublicScheme + "://" + cfg.DomainName,
	}
}

// call is the inbound gate, relative to the host
func (r routes) call() string {
	return r.basePath + callPath
}

// conference is the orchestrator endpoint with the given discriminator and
// extra query values. Values are encoded so "+" survives the round trip.
func (r routes) conference(kind model.CallbackKind, extra url.Values) string {
	q := url.Values{}
	for k, vs := range extra {
		q[k] = append([]string(nil), vs...)
	}
	if kind != model.CallbackNone {
		q.Set(model.ParamCallback, string(kind))
	}
	u := r.basePath + conferencePath
	if len(q) == 0 {
		return u
	}
	return u + "?" + q.Encode()
}

// absolute resolves a relative route against the public base
func (r routes) absolute(relative string) (string, error) {
	return resolveURL(r.publicBase+"/", relative)
}

// resolveURL resolves URL relative to the current document URL
func resolveURL(currentDocURL, actionURL string) (string, error) {
	target, err := url.Parse(actionURL)
	if err != nil {
		return "", fmt.Errorf("invalid action URL %q: %w", actionURL, err)
	}

	if target.IsAbs() {
		return target.String(), nil
	}

	if currentDocURL == "" {
		return "", fmt.Errorf("cannot resolve relative action URL %q without base", actionURL)
	}

	base, err := url.Parse(currentDocURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", currentDocURL, err)
	}

	return base.ResolveReference(target).String(), nil
}
