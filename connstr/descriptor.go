package connstr

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode"
)

// Descriptor is the normalized result of parsing a connection string: an
// insertion-ordered mapping from parameter name to value. Values are never
// empty; a missing parameter is a missing key.
type Descriptor struct {
	keys   []string
	values map[string]string
}

// NewDescriptor returns an empty Descriptor.
func NewDescriptor() *Descriptor {
	return &Descriptor{values: make(map[string]string)}
}

// Set stores value under key. An existing key keeps its position. Empty
// values are ignored.
func (d *Descriptor) Set(key, value string) {
	if value == "" {
		return
	}
	if d.values == nil {
		d.values = make(map[string]string)
	}
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

// Get returns the value for key, or "" when absent.
func (d *Descriptor) Get(key string) string {
	v, _ := d.Lookup(key)
	return v
}

// Lookup returns the value for key and whether it is present.
func (d *Descriptor) Lookup(key string) (string, bool) {
	if d == nil {
		return "", false
	}
	v, ok := d.values[key]
	return v, ok
}

// Delete removes key.
func (d *Descriptor) Delete(key string) {
	if d == nil {
		return
	}
	if _, ok := d.values[key]; !ok {
		return
	}
	delete(d.values, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of parameters.
func (d *Descriptor) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Keys returns the parameter names in insertion order.
func (d *Descriptor) Keys() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.keys...)
}

// Range calls fn for each parameter in insertion order until fn returns false.
func (d *Descriptor) Range(fn func(key, value string) bool) {
	if d == nil {
		return
	}
	for _, k := range d.keys {
		if !fn(k, d.values[k]) {
			return
		}
	}
}

// Map returns a copy of the parameters as a plain map.
func (d *Descriptor) Map() map[string]string {
	m := make(map[string]string, d.Len())
	d.Range(func(k, v string) bool {
		m[k] = v
		return true
	})
	return m
}

// Clone returns an independent copy of d.
func (d *Descriptor) Clone() *Descriptor {
	c := NewDescriptor()
	d.Range(func(k, v string) bool {
		c.Set(k, v)
		return true
	})
	return c
}

// Masked returns a copy of d with the password, if any, replaced by "****".
func (d *Descriptor) Masked() *Descriptor {
	c := d.Clone()
	if _, ok := c.Lookup(KeyPassword); ok {
		c.Set(KeyPassword, mask)
	}
	return c
}

var escaper = strings.NewReplacer(`'`, `\'`, `\`, `\\`)

// quote wraps v in single quotes when it holds whitespace, quotes or
// backslashes, the same way lib/pq renders URL values.
func quote(v string) string {
	if v != "" && strings.IndexFunc(v, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\'' || r == '\\'
	}) < 0 {
		return v
	}
	return "'" + escaper.Replace(v) + "'"
}

// String renders d as a libpq keyword/value string, e.g.
//
//	user=bob password='s cret' host=localhost dbname=app
//
// Both lib/pq and pgx accept this form.
func (d *Descriptor) String() string {
	return d.render(false)
}

// Redacted is String with the password replaced by "****".
func (d *Descriptor) Redacted() string {
	return d.render(true)
}

func (d *Descriptor) render(redact bool) string {
	parts := make([]string, 0, d.Len())
	d.Range(func(k, v string) bool {
		if redact && k == KeyPassword {
			v = mask
		}
		parts = append(parts, k+"="+quote(v))
		return true
	})
	return strings.Join(parts, " ")
}

// MarshalJSON encodes d as a JSON object, preserving insertion order.
func (d *Descriptor) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	var err error
	i := 0
	d.Range(func(k, v string) bool {
		if i > 0 {
			buf.WriteByte(',')
		}
		i++
		var kb, vb []byte
		if kb, err = json.Marshal(k); err != nil {
			return false
		}
		if vb, err = json.Marshal(v); err != nil {
			return false
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
		return true
	})
	if err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
