package ultimateguitar

import (
	"fmt"
	"sort"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

// stateJSON decodes numbers as json.Number so large ids survive intact.
var stateJSON = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

// State is the decoded page state. It is always rooted at a JSON object.
//
// Nested objects are map[string]any, arrays are []any and numbers keep
// their JSON text (json.Number). Use Lookup to walk it; no key is guaranteed to exist.
type State map[string]any

// decodeState parses the unescaped data-content payload.
func decodeState(payload string) (State, error) {
	var root any
	if err := stateJSON.UnmarshalFromString(payload, &root); err != nil {
		return nil, &MalformedJSONError{Err: err}
	}

	obj, ok := root.(map[string]any)
	if !ok {
		return nil, &MalformedJSONError{Err: fmt.Errorf("page state is %T, not an object", root)}
	}
	return State(obj), nil
}

// Lookup walks keys from the root and returns the value found, or false the
// first time a key is missing or an intermediate value is not an object.
//
// Example:
//
//	token, ok := state.Lookup("store", "page", "data", "tab_view", "binary_id")
func (s State) Lookup(keys ...string) (any, bool) {
	return lookup(map[string]any(s), keys...)
}

func lookup(tree map[string]any, keys ...string) (any, bool) {
	var current any = tree
	for _, key := range keys {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = obj[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Object returns the object at keys, or nil when absent or not an object.
func (s State) Object(keys ...string) map[string]any {
	v, ok := s.Lookup(keys...)
	if !ok {
		return nil
	}
	obj, _ := v.(map[string]any)
	return obj
}

// String returns the scalar at keys rendered as a string. Numbers are
// rendered in their JSON form; objects, arrays and null are absent.
func (s State) String(keys ...string) (string, bool) {
	v, ok := s.Lookup(keys...)
	if !ok {
		return "", false
	}
	return scalarString(v)
}

// Int returns the integer at keys. JSON numbers and numeric strings are accepted.
func (s State) Int(keys ...string) (int64, bool) {
	v, ok := s.Lookup(keys...)
	if !ok {
		return 0, false
	}
	return toInt64(v)
}

// number is satisfied by json.Number and jsoniter.Number.
type number interface {
	String() string
	Int64() (int64, error)
	Float64() (float64, error)
}

func scalarString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case number:
		return val.String(), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		return "", false
	}
}

func toInt64(v any) (int64, bool) {
	switch val := v.(type) {
	case number:
		if n, err := val.Int64(); err == nil {
			return n, true
		}
		if f, err := val.Float64(); err == nil {
			return int64(f), true
		}
		return 0, false
	case float64:
		return int64(val), true
	case int:
		return int64(val), true
	case int64:
		return val, true
	case string:
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func sortedKeys(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// decodeInto converts a subtree of the state into a typed DTO.
func decodeInto(v any, out any) error {
	raw, err := stateJSON.Marshal(v)
	if err != nil {
		return err
	}
	return stateJSON.Unmarshal(raw, out)
}
