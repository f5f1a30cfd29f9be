package videos

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Field is one member of a request body. Set is false when the member was
// absent; Value holds whatever JSON value was supplied, including null.
type Field struct {
	Set   bool
	Value any
}

// String returns the value when it is a JSON string.
func (f Field) String() (string, bool) {
	if !f.Set {
		return "", false
	}
	s, ok := f.Value.(string)
	return s, ok
}

// Number returns the value when it is a JSON number.
func (f Field) Number() (float64, bool) {
	if !f.Set {
		return 0, false
	}
	n, ok := f.Value.(float64)
	return n, ok
}

// Input carries the client-supplied members of a video.
type Input struct {
	ID       Field
	Title    Field
	Duration Field
}

// ParseInput decodes a JSON object body. An empty body is treated as an empty
// object; unknown members are ignored.
func ParseInput(body []byte) (Input, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return Input{}, nil
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(body, &members); err != nil {
		return Input{}, &Error{Kind: ErrValidation, Message: msgInvalidBody, Err: err}
	}

	var in Input
	for name, field := range map[string]*Field{"id": &in.ID, "title": &in.Title, "duration": &in.Duration} {
		raw, ok := members[name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &field.Value); err != nil {
			return Input{}, &Error{Kind: ErrValidation, Message: msgInvalidBody, Err: fmt.Errorf("decode %s: %w", name, err)}
		}
		field.Set = true
	}

	return in, nil
}
