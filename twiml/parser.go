// SPDX-License-Identifier: GPL-3.0-or-later

// Copyright (c) 2025 Spruce Health

package twiml

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Parse parses TwiML XML and returns a Response AST
func Parse(data []byte) (*Response, error) {
	decoder := xml.NewDecoder(strings.NewReader(string(data)))
	var resp Response

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("xml parse error: %w", err)
		}

		if se, ok := token.(xml.StartElement); ok {
			if se.Name.Local == "Response" {
				if err := parseResponse(decoder, &se, &resp); err != nil {
					return nil, err
				}
				return &resp, nil
			}
		}
	}

	return nil, fmt.Errorf("no <Response> element found")
}

func parseResponse(decoder *xml.Decoder, start *xml.StartElement, resp *Response) error {
	for _, attr := range start.Attr {
		return fmt.Errorf("unknown attribute '%s' on <Response>", attr.Name.Local)
	}

	children, err := parseChildren(decoder, "Response")
	if err != nil {
		return err
	}
	resp.Children = children
	return nil
}

// parseChildren collects nodes until the end tag named parent
func parseChildren(decoder *xml.Decoder, parent string) ([]Node, error) {
	var children []Node
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return children, nil
		}
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			node, err := parseNode(decoder, &t)
			if err != nil {
				return nil, err
			}
			children = append(children, node)
		case xml.EndElement:
			if t.Name.Local == parent {
				return children, nil
			}
		}
	}
}

func parseNode(decoder *xml.Decoder, start *xml.StartElement) (Node, error) {
	switch start.Name.Local {
	case "Say":
		return parseSay(decoder, start)
	case "Gather":
		return parseGather(decoder, start)
	case "Dial":
		return parseDial(decoder, start)
	case "Conference":
		return parseConferenceDial(decoder, start)
	case "Redirect":
		return parseRedirect(decoder, start)
	default:
		return nil, fmt.Errorf("unknown TwiML element: <%s>", start.Name.Local)
	}
}

func parseSay(decoder *xml.Decoder, start *xml.StartElement) (*Say, error) {
	say := &Say{}
	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "loop":
			n, err := strconv.Atoi(attr.Value)
			if err != nil {
				return nil, fmt.Errorf("invalid loop %q on <Say>", attr.Value)
			}
			say.Loop = n
		default:
			return nil, fmt.Errorf("unknown attribute '%s' on <Say>", attr.Name.Local)
		}
	}

	if err := decoder.DecodeElement(&say.Text, start); err != nil {
		return nil, err
	}

	return say, nil
}

func parseGather(decoder *xml.Decoder, start *xml.StartElement) (*Gather, error) {
	gather := &Gather{}

	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "timeout":
			n, err := strconv.Atoi(attr.Value)
			if err != nil {
				return nil, fmt.Errorf("invalid timeout %q on <Gather>", attr.Value)
			}
			gather.Timeout = time.Duration(n) * time.Second
		case "numDigits":
			n, err := strconv.Atoi(attr.Value)
			if err != nil {
				return nil, fmt.Errorf("invalid numDigits %q on <Gather>", attr.Value)
			}
			gather.NumDigits = n
		case "finishOnKey":
			gather.FinishOnKey = attr.Value
		case "action":
			gather.Action = attr.Value
		default:
			return nil, fmt.Errorf("unknown attribute '%s' on <Gather>", attr.Name.Local)
		}
	}

	children, err := parseChildren(decoder, "Gather")
	if err != nil {
		return nil, err
	}
	gather.Children = children
	return gather, nil
}

func parseDial(decoder *xml.Decoder, start *xml.StartElement) (*Dial, error) {
	dial := &Dial{}

	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "action":
			dial.Action = attr.Value
		case "hangupOnStar":
			dial.HangupOnStar = attr.Value == "true"
		default:
			return nil, fmt.Errorf("unknown attribute '%s' on <Dial>", attr.Name.Local)
		}
	}

	// Content is either a plain number or nested elements
	var textContent string
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.CharData:
			textContent += strings.TrimSpace(string(t))
		case xml.StartElement:
			node, err := parseNode(decoder, &t)
			if err != nil {
				return nil, err
			}
			dial.Children = append(dial.Children, node)
			if conf, ok := node.(*ConferenceDial); ok {
				dial.Conference = conf.Name
			}
		case xml.EndElement:
			if t.Name.Local == "Dial" {
				if len(dial.Children) == 0 && textContent != "" {
					dial.Number = textContent
				}
				return dial, nil
			}
		}
	}

	return dial, nil
}

func parseConferenceDial(decoder *xml.Decoder, start *xml.StartElement) (*ConferenceDial, error) {
	conf := &ConferenceDial{
		StartConferenceOnEnter: true,
		EndConferenceOnExit:    false,
	}

	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "startConferenceOnEnter":
			conf.StartConferenceOnEnter = attr.Value == "true"
		case "endConferenceOnExit":
			conf.EndConferenceOnExit = attr.Value == "true"
		case "maxParticipants":
			n, err := strconv.Atoi(attr.Value)
			if err != nil {
				return nil, fmt.Errorf("invalid maxParticipants %q on <Conference>", attr.Value)
			}
			conf.MaxParticipants = n
		case "statusCallback":
			conf.StatusCallback = attr.Value
		case "statusCallbackEvent":
			conf.StatusCallbackEvent = attr.Value
		default:
			return nil, fmt.Errorf("unknown attribute '%s' on <Conference>", attr.Name.Local)
		}
	}

	if err := decoder.DecodeElement(&conf.Name, start); err != nil {
		return nil, err
	}

	return conf, nil
}

func parseRedirect(decoder *xml.Decoder, start *xml.StartElement) (*Redirect, error) {
	redirect := &Redirect{}

	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "method":
		default:
			return nil, fmt.Errorf("unknown attribute '%s' on <Redirect>", attr.Name.Local)
		}
	}

	if err := decoder.DecodeElement(&redirect.URL, start); err != nil {
		return nil, err
	}

	return redirect, nil
}
