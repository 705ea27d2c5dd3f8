// Package orthography turns Polish words into spelling questions about
// rz/ż, ch/h and u/ó.
package orthography

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

type PlaceholderType string

const (
	PlaceholderRZ PlaceholderType = "RZ"
	PlaceholderCH PlaceholderType = "CH"
	PlaceholderU  PlaceholderType = "U"
)

func AllPlaceholderTypes() []PlaceholderType {
	return []PlaceholderType{PlaceholderRZ, PlaceholderCH, PlaceholderU}
}

func ParsePlaceholderType(s string) (PlaceholderType, error) {
	for _, t := range AllPlaceholderTypes() {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid placeholder type: %s. Valid options are: RZ, CH, U", s)
}

// variants returns the two spellings of a placeholder type; the first one is
// the spelling selected by Placeholder.Value == true.
func (t PlaceholderType) variants() (string, string) {
	switch t {
	case PlaceholderRZ:
		return "rz", "ż"
	case PlaceholderCH:
		return "ch", "h"
	case PlaceholderU:
		return "u", "ó"
	}
	panic(fmt.Sprintf("unknown placeholder type %q", string(t)))
}

// Label is the ambiguous form shown to the learner, e.g. "rz/ż".
func (t PlaceholderType) Label() string {
	first, second := t.variants()
	return first + "/" + second
}

// code is the number state files store for t: RZ=1, CH=2, U=3.
func (t PlaceholderType) code() int {
	return slices.Index(AllPlaceholderTypes(), t) + 1
}

func (t PlaceholderType) MarshalJSON() ([]byte, error) {
	code := t.code()
	if code == 0 {
		return nil, fmt.Errorf("invalid placeholder type: %s", string(t))
	}
	return json.Marshal(code)
}

// UnmarshalJSON accepts the numeric code or the type name.
func (t *PlaceholderType) UnmarshalJSON(data []byte) error {
	var code int
	if err := json.Unmarshal(data, &code); err == nil {
		types := AllPlaceholderTypes()
		if code < 1 || code > len(types) {
			return fmt.Errorf("invalid placeholder type code: %d", code)
		}
		*t = types[code-1]
		return nil
	}

	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("json.Unmarshal(%s) > %w", data, err)
	}
	parsed, err := ParsePlaceholderType(name)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Placeholder is one ambiguous spot in a word. In JSON it is the pair
// [position, {"placeholder_type", "value", "content"}].
type Placeholder struct {
	Type PlaceholderType `yaml:"placeholder_type"`
	// Position is the rune offset of the "_" in Question.Word.
	Position int `yaml:"position"`
	// Value is true when the word is written with the first variant (rz, ch, u).
	Value bool `yaml:"value"`
	// Content is the text as written in the source word, case preserved.
	Content string `yaml:"content"`
}

type placeholderBody struct {
	Type    PlaceholderType `json:"placeholder_type"`
	Value   bool            `json:"value"`
	Content string          `json:"content"`
}

func (p Placeholder) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{p.Position, placeholderBody{Type: p.Type, Value: p.Value, Content: p.Content}})
}

// UnmarshalJSON reads the pair form. An object with a "position" field is
// accepted too.
func (p *Placeholder) UnmarshalJSON(data []byte) error {
	var body placeholderBody
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || trimmed[0] != '[' {
		var object struct {
			placeholderBody
			Position int `json:"position"`
		}
		if err := json.Unmarshal(data, &object); err != nil {
			return fmt.Errorf("json.Unmarshal(placeholder) > %w", err)
		}
		body = object.placeholderBody
		p.Position = object.Position
	} else {
		var pair []json.RawMessage
		if err := json.Unmarshal(data, &pair); err != nil {
			return fmt.Errorf("json.Unmarshal(placeholder) > %w", err)
		}
		if len(pair) != 2 {
			return fmt.Errorf("placeholder must be a [position, placeholder] pair, got %d elements", len(pair))
		}
		if err := json.Unmarshal(pair[0], &p.Position); err != nil {
			return fmt.Errorf("json.Unmarshal(position) > %w", err)
		}
		if err := json.Unmarshal(pair[1], &body); err != nil {
			return fmt.Errorf("json.Unmarshal(placeholder) > %w", err)
		}
	}
	p.Type = body.Type
	p.Value = body.Value
	p.Content = body.Content
	return nil
}

func (p Placeholder) CorrectLetter() string {
	first, second := p.Type.variants()
	if p.Value {
		return first
	}
	return second
}

func (p Placeholder) IncorrectLetter() string {
	first, second := p.Type.variants()
	if p.Value {
		return second
	}
	return first
}
