package webhook

import (
	"strings"

	"github.com/tidwall/gjson"
)

// DefaultFallback is used when a reply matches none of the known shapes.
const DefaultFallback = "Your request was processed successfully."

// replyFields are checked in order on object replies.
var replyFields = []string{"text", "response", "message", "output"}

// Normalize extracts display text from a decoded JSON reply. The first match wins:
//
//	[{"text": ...}, ...]   first element's text
//	{"text": ...}          then "response", "message", "output"
//	"bare string"
//
// Empty strings, zero, false and null never match. Anything else yields fallback.
func Normalize(raw []byte, fallback string) string {
	data := gjson.ParseBytes(raw)

	if data.IsArray() {
		items := data.Array()
		if len(items) > 0 {
			if text, ok := truthy(items[0].Get("text")); ok {
				return text
			}
		}
		return fallback
	}

	if data.IsObject() {
		for _, field := range replyFields {
			if text, ok := truthy(data.Get(field)); ok {
				return text
			}
		}
		return fallback
	}

	if data.Type == gjson.String {
		return data.Str
	}
	return fallback
}

// truthy reports whether a field would count as present in a loosely typed
// reply and returns its display form.
func truthy(r gjson.Result) (string, bool) {
	switch r.Type {
	case gjson.String:
		return r.Str, r.Str != ""
	case gjson.Number:
		return r.Raw, r.Num != 0
	case gjson.True:
		return "true", true
	case gjson.JSON:
		return strings.TrimSpace(r.Raw), true
	default:
		return "", false
	}
}
