package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind tags a response tree node.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// Member is one object entry. Members are kept in insertion order, which a
// map[string]any cannot express and which the first-match search depends on.
type Member struct {
	Key   string
	Value *Value
}

// Value is a tagged-variant node of a decoded response body.
type Value struct {
	Kind Kind
	Str  string
	Num  float64
	Bool bool
	Arr  []*Value
	Obj  []Member
}

// ParseTree decodes the first JSON value in data into an ordered tree. The
// body is not validated against any schema; its shape is not contractual.
func ParseTree(data []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return parseValue(dec)
}

func parseValue(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			v := &Value{Kind: KindObject}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, fmt.Errorf("decode key: %w", err)
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected key token %v", keyTok)
				}
				val, err := parseValue(dec)
				if err != nil {
					return nil, err
				}
				v.Obj = append(v.Obj, Member{Key: key, Value: val})
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, fmt.Errorf("decode object end: %w", err)
			}
			return v, nil
		case '[':
			v := &Value{Kind: KindArray}
			for dec.More() {
				el, err := parseValue(dec)
				if err != nil {
					return nil, err
				}
				v.Arr = append(v.Arr, el)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, fmt.Errorf("decode array end: %w", err)
			}
			return v, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}
	case string:
		return &Value{Kind: KindString, Str: t}, nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("decode number %q: %w", t, err)
		}
		return &Value{Kind: KindNumber, Num: f}, nil
	case bool:
		return &Value{Kind: KindBool, Bool: t}, nil
	case nil:
		return &Value{Kind: KindNull}, nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}
