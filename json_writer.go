package tranches

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// jsonObjectWriter helps construct a JSON object with a specific field order.
// Its zero value is ready to use.
type jsonObjectWriter struct {
	bytes.Buffer
	err error
}

// Embed appends the fields from a raw JSON object (provided as a byte slice)
// into the current JSON object being built. It strips the outer braces of the
// embedded JSON, effectively merging its contents.
func (w *jsonObjectWriter) Embed(rawJSON []byte) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	trimmed := bytes.TrimSpace(rawJSON)
	if len(trimmed) > 2 && trimmed[0] == '{' && trimmed[len(trimmed)-1] == '}' {
		trimmed = trimmed[1 : len(trimmed)-1]
	}
	if len(trimmed) > 0 {
		w.Write(trimmed)
		w.WriteString(",")
	}
	return w
}

// EmbedFrom marshals the given Go value into a JSON object and then embeds
// its fields into the current JSON object being built. This is useful for
// including nested structures.
func (w *jsonObjectWriter) EmbedFrom(v any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	rawJSON, err := json.Marshal(v)
	if err != nil {
		w.err = fmt.Errorf("failed to marshal for embedding: %w", err)
		return w
	}
	return w.Embed(rawJSON)
}

// Append adds a single key/value pair to the object.
func (w *jsonObjectWriter) Append(key string, v any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	data, err := json.Marshal(v)
	if err != nil {
		w.err = fmt.Errorf("failed to marshal field %q: %w", key, err)
		return w
	}
	fmt.Fprintf(w, "%q:%s,", key, data)
	return w
}

// Optional adds a key/value pair only when the value is not its zero value.
func (w *jsonObjectWriter) Optional(key string, v any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.IsZero() {
		return w
	}
	return w.Append(key, v)
}

// MarshalJSON closes the object being built and returns it as a single JSON
// object. The trailing separator of the last field is dropped.
func (w *jsonObjectWriter) MarshalJSON() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	body := bytes.TrimSuffix(w.Bytes(), []byte(","))
	var out bytes.Buffer
	out.WriteByte('{')
	out.Write(body)
	out.WriteByte('}')
	return out.Bytes(), nil
}
