package rawtext

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Message is the wire document {"rawtext": [...]}.
type Message struct {
	RawText []Component
}

// MarshalJSON always emits the rawtext key, using [] for an empty message.
func (m Message) MarshalJSON() ([]byte, error) {
	comps := m.RawText
	if comps == nil {
		comps = []Component{}
	}
	w := &objectWriter{}
	w.field("rawtext", comps)
	return w.close()
}

// UnmarshalJSON requires a top-level object holding a rawtext array.
func (m *Message) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return fmt.Errorf("%w: top level must be an object", ErrInvalidMessage)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	raw, ok := fields["rawtext"]
	if !ok {
		return fmt.Errorf("%w: missing rawtext array", ErrInvalidMessage)
	}
	comps, err := decodeComponentArray(raw)
	if err != nil {
		return fmt.Errorf("%w: rawtext: %v", ErrInvalidMessage, err)
	}
	m.RawText = comps
	return nil
}

// ParseMessage decodes wire JSON. Every failure wraps ErrInvalidMessage.
func ParseMessage(data []byte) (*Message, error) {
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidMessage)
	}
	var m Message
	if err := m.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return &m, nil
}

// Encode renders the message as JSON. indent <= 0 produces compact output.
func (m Message) Encode(indent int) ([]byte, error) {
	compact, err := m.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return indentJSON(compact, indent)
}

// Encode renders a single component as JSON. indent <= 0 produces compact output.
func (c Component) Encode(indent int) ([]byte, error) {
	compact, err := c.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return indentJSON(compact, indent)
}

func indentJSON(compact []byte, indent int) ([]byte, error) {
	if indent <= 0 {
		return compact, nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", strings.Repeat(" ", indent)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
