package schema

import "time"

// Sanitize recursively removes null entries from a decoded JSON value.
// Objects are sanitized key by key and keys whose values vanish are
// dropped; arrays are sanitized elementwise with vanished entries removed;
// timestamps and other scalars pass through unchanged. The boolean result
// is false when the value itself vanishes (i.e. it was null).
func Sanitize(value any) (any, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case []any:
		out := make([]any, 0, len(v))
		for _, entry := range v {
			if sanitized, keep := Sanitize(entry); keep {
				out = append(out, sanitized)
			}
		}
		return out, true
	case time.Time:
		return v, true
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, entry := range v {
			if sanitized, keep := Sanitize(entry); keep {
				out[key] = sanitized
			}
		}
		return out, true
	default:
		return v, true
	}
}
