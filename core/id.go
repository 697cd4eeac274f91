package core

import (
	"encoding/json"
	"fmt"
)

// ID is a project or instance identifier. Callers send identifiers either as
// JSON strings or as bare numbers; both forms are accepted, and whichever
// form arrived is the form forwarded to the engine.
type ID struct {
	raw      string
	isNumber bool
}

// StringID builds an ID carrying a string value.
func StringID(s string) ID {
	return ID{raw: s}
}

// NumberID builds an ID carrying a numeric value.
func NumberID(n int64) ID {
	return ID{raw: fmt.Sprintf("%d", n), isNumber: true}
}

// IsZero reports whether the identifier is absent or empty.
func (id ID) IsZero() bool {
	return id.raw == ""
}

// String returns the identifier's textual form.
func (id ID) String() string {
	return id.raw
}

// Value returns the identifier in the form it arrived in, suitable for
// placing inside a Document.
func (id ID) Value() any {
	if id.isNumber {
		return json.Number(id.raw)
	}
	return id.raw
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.isNumber {
		return []byte(id.raw), nil
	}
	return json.Marshal(id.raw)
}

func (id *ID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ID{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID{raw: s}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("identifier must be a string or a number: %w", err)
	}
	*id = ID{raw: n.String(), isNumber: true}
	return nil
}
