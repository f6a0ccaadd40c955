// Package visuals holds the visual elements attached to business plan
// sections and turns their loosely typed payloads into concrete shapes.
package visuals

import (
	"encoding/json"
	"strings"
)

// Type identifies the kind of payload a visual element carries.
type Type string

const (
	TypeTable       Type = "table"
	TypeChart       Type = "chart"
	TypeMetric      Type = "metric"
	TypeInfographic Type = "infographic"
	TypeUnknown     Type = "unknown"
)

// ParseType maps a declared type string onto a known Type, case-insensitively.
// Anything unrecognised becomes TypeUnknown.
func ParseType(s string) Type {
	switch Type(strings.ToLower(strings.TrimSpace(s))) {
	case TypeTable:
		return TypeTable
	case TypeChart:
		return TypeChart
	case TypeMetric, "metrics":
		return TypeMetric
	case TypeInfographic:
		return TypeInfographic
	}
	return TypeUnknown
}

// Known reports whether t is one of the four renderable types.
func (t Type) Known() bool {
	return ParseType(string(t)) != TypeUnknown
}

// Element is a visual element as supplied by the caller. Data is untyped
// until Decode turns it into one of the payload shapes.
type Element struct {
	ID       string `json:"id"`
	Type     Type   `json:"type"`
	Title    string `json:"title,omitempty"`
	Position string `json:"position,omitempty"`
	Data     any    `json:"data,omitempty"`
}

// UnmarshalJSON keeps Data as raw JSON so that decoding into the typed
// payload happens exactly once, in Decode.
func (e *Element) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID       string          `json:"id"`
		Type     Type            `json:"type"`
		Title    string          `json:"title"`
		Position string          `json:"position"`
		Data     json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	e.ID = raw.ID
	e.Type = raw.Type
	e.Title = raw.Title
	e.Position = raw.Position
	e.Data = nil
	if len(raw.Data) > 0 && string(raw.Data) != "null" {
		e.Data = raw.Data
	}
	return nil
}

// Payload is implemented by the four decoded shapes.
type Payload interface {
	Kind() Type
	Validate() error
}
