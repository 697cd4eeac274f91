package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Field is a single named value inside a Document.
type Field struct {
	Name  string
	Value any
}

// Document is an ordered list of column assignments. It is the internal
// representation of every loosely-typed JSON object the gateway handles
// (insert payloads, equality filters, update data). On the wire it is always
// a flat JSON object; field order is preserved when marshaling so forwarded
// payloads are byte-stable for identical input.
type Document []Field

// DocumentFromMap builds a Document from a plain map. Fields are ordered by
// name so two equal maps always produce the same Document.
func DocumentFromMap(m map[string]any) Document {
	if len(m) == 0 {
		return Document{}
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	doc := make(Document, 0, len(names))
	for _, name := range names {
		doc = append(doc, Field{Name: name, Value: m[name]})
	}
	return doc
}

// Get returns the value of the named field.
func (d Document) Get(name string) (any, bool) {
	for _, f := range d {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Has reports whether the named field is present.
func (d Document) Has(name string) bool {
	_, ok := d.Get(name)
	return ok
}

// Set replaces the named field in place, or appends it when absent.
func (d *Document) Set(name string, value any) {
	for i, f := range *d {
		if f.Name == name {
			(*d)[i].Value = value
			return
		}
	}
	*d = append(*d, Field{Name: name, Value: value})
}

// SetDefault appends the field only when it is absent and reports whether it
// was added. An existing value is never overwritten.
func (d *Document) SetDefault(name string, value any) bool {
	if d.Has(name) {
		return false
	}
	*d = append(*d, Field{Name: name, Value: value})
	return true
}

// Names returns the field names in document order.
func (d Document) Names() []string {
	names := make([]string, len(d))
	for i, f := range d {
		names[i] = f.Name
	}
	return names
}

// MarshalJSON encodes the document as a flat JSON object in field order.
// A nil document encodes as an empty object, never as null.
func (d Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a flat JSON object into an ordered document. Numbers
// decode as json.Number so forwarded values keep their exact literal form.
func (d *Document) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return err
	}
	*d = DocumentFromMap(m)
	return nil
}
