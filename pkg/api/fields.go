package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Fields is an insertion-ordered string map. Setting an existing name keeps
// its original position and replaces the value. It encodes to and decodes
// from a JSON object without losing key order.
type Fields struct {
	keys   []string
	values map[string]string
}

// FieldsOf builds Fields from alternating name/value pairs. A trailing name
// without a value is ignored.
func FieldsOf(pairs ...string) Fields {
	var f Fields
	for i := 0; i+1 < len(pairs); i += 2 {
		f.Set(pairs[i], pairs[i+1])
	}
	return f
}

// Set assigns value to name.
func (f *Fields) Set(name, value string) {
	if f.values == nil {
		f.values = make(map[string]string)
	}
	if _, exists := f.values[name]; !exists {
		f.keys = append(f.keys, name)
	}
	f.values[name] = value
}

// Get returns the value stored under name.
func (f Fields) Get(name string) (string, bool) {
	value, ok := f.values[name]
	return value, ok
}

// Len reports the number of distinct names.
func (f Fields) Len() int {
	return len(f.keys)
}

// Keys returns the names in insertion order.
func (f Fields) Keys() []string {
	return append([]string(nil), f.keys...)
}

// Each calls fn for every entry in insertion order.
func (f Fields) Each(fn func(name, value string)) {
	for _, key := range f.keys {
		fn(key, f.values[key])
	}
}

// Map returns an unordered copy.
func (f Fields) Map() map[string]string {
	out := make(map[string]string, len(f.keys))
	for _, key := range f.keys {
		out[key] = f.values[key]
	}
	return out
}

// MarshalJSON writes the entries as an object in insertion order.
func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range f.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object, preserving key order. An array reads as its
// elements keyed "0", "1", ... in order. Any other JSON value reads as empty.
// Non-string scalar values keep their JSON text ("42", "true", "null");
// nested values keep their compact JSON.
func (f *Fields) UnmarshalJSON(data []byte) error {
	*f = Fields{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}
	switch trimmed[0] {
	case '{':
		return f.decodeObject(trimmed)
	case '[':
		return f.decodeArray(trimmed)
	}
	if !json.Valid(trimmed) {
		return fmt.Errorf("api: decode fields: invalid JSON %q", trimmed)
	}
	return nil
}

func (f *Fields) decodeObject(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("api: decode fields: %w", err)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("api: decode fields: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("api: decode fields: unexpected key %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("api: decode fields %q: %w", key, err)
		}
		f.Set(key, rawText(raw))
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("api: decode fields: %w", err)
	}
	return nil
}

func (f *Fields) decodeArray(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("api: decode fields: %w", err)
	}
	for i, raw := range items {
		f.Set(strconv.Itoa(i), rawText(raw))
	}
	return nil
}

func rawText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, trimmed); err == nil {
		return compact.String()
	}
	return strings.TrimSpace(string(trimmed))
}
