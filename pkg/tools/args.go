package tools

import "encoding/json"

// decodeArgs parses a tool call's UTF-8 JSON argument object into a
// generic map; unknown fields are simply left unread by callers, and a
// non-object payload is an InvalidArgument.
func decodeArgs(raw string) (map[string]interface{}, *Error) {
	if raw == "" {
		return map[string]interface{}{}, nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, invalidArgument("malformed arguments: %v", err)
	}
	return m, nil
}

// firstOfString tries each key in order and returns the first present
// string value, implementing the alias resolution the spec documents
// (e.g. oldString|old_string|old).
func firstOfString(m map[string]interface{}, keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if s, ok := v.(string); ok {
				return s, true
			}
		}
	}
	return "", false
}

func firstOfBool(m map[string]interface{}, def bool, keys ...string) bool {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if b, ok := v.(bool); ok {
				return b
			}
		}
	}
	return def
}

func firstOfInt(m map[string]interface{}, def int, keys ...string) (int, *Error) {
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		f, ok := v.(float64)
		if !ok {
			return 0, invalidArgument("%s must be an integer", k)
		}
		if f < 0 || f != float64(int(f)) {
			return 0, invalidArgument("%s must be a non-negative integer", k)
		}
		return int(f), nil
	}
	return def, nil
}

func requireString(m map[string]interface{}, keys ...string) (string, *Error) {
	v, ok := firstOfString(m, keys...)
	if !ok || v == "" {
		return "", invalidArgument("missing required argument %q", keys[0])
	}
	return v, nil
}
