package mgmt

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/goccy/go-json"
)

// Param is a single body entry.
type Param struct {
	Key   string
	Value interface{}
}

// Params is an ordered set of body entries. Keys are unique; setting an
// existing key replaces its value in place. It marshals to a JSON object
// whose members appear in insertion order.
type Params []Param

// Set stores value under key, keeping the position of an existing key.
func (p *Params) Set(key string, value interface{}) {
	for i := range *p {
		if (*p)[i].Key == key {
			(*p)[i].Value = value

			return
		}
	}

	*p = append(*p, Param{Key: key, Value: value})
}

// Delete removes key, keeping the order of the remaining entries.
func (p *Params) Delete(key string) {
	*p = slices.DeleteFunc(*p, func(param Param) bool {
		return param.Key == key
	})
}

// Merge sets every entry of other, in order.
func (p *Params) Merge(other Params) {
	for _, param := range other {
		p.Set(param.Key, param.Value)
	}
}

// Clone returns a copy that shares no backing array with p. The copy is never
// nil, so it renders as {} rather than null.
func (p Params) Clone() Params {
	clone := make(Params, len(p))
	copy(clone, p)

	return clone
}

// MarshalJSON implements json.Marshaler.
func (p Params) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, param := range p {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(param.Key)
		if err != nil {
			return nil, fmt.Errorf("marshaling key %q: %w", param.Key, err)
		}

		value, err := json.Marshal(param.Value)
		if err != nil {
			return nil, fmt.Errorf("marshaling value of %q: %w", param.Key, err)
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}
