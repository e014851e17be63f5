package llm

import "strings"

// FindAnswer searches the raw response body for the first string value stored
// under a key named "text" (case-insensitive), in document order: object
// members in insertion order, arrays in index order, descending into a value
// before moving to the next sibling. It reports false when the body is not
// parsable JSON or no such field exists anywhere; the caller then surfaces
// the raw body instead.
//
// This is a best-effort heuristic over an uncontracted response shape. Any
// field named "text" matches, including ones that merely echo input; callers
// should not treat the result as validated.
func FindAnswer(raw []byte) (string, bool) {
	tree, err := ParseTree(raw)
	if err != nil {
		return "", false
	}
	return findText(tree)
}

func findText(v *Value) (string, bool) {
	switch v.Kind {
	case KindObject:
		for _, m := range v.Obj {
			if strings.EqualFold(m.Key, "text") && m.Value.Kind == KindString {
				return m.Value.Str, true
			}
			if s, ok := findText(m.Value); ok {
				return s, true
			}
		}
	case KindArray:
		for _, el := range v.Arr {
			if s, ok := findText(el); ok {
				return s, true
			}
		}
	}
	return "", false
}
