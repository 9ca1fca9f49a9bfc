package latex

import (
	"encoding/json"
	"fmt"
	"strings"
)

// The upstream schema stores bullet lists inconsistently: a flat list, a
// single string, a string that is itself a JSON-encoded list, or lists nested
// one level deep. NormalizeBullets collapses every shape to the same flat
// ordered sequence of trimmed non-empty strings.

// Sequences legitimately nest at most one level; the guard keeps a
// pathological encoded-list-of-encoded-lists from recursing further.
const maxBulletDepth = 2

// NormalizeBullets flattens any accepted bullet representation. Null and
// empty entries are dropped, nested sequences are spliced in place, and
// encoded-list strings are decoded and spliced, falling back to the literal
// string when decoding fails.
func NormalizeBullets(v any) []string {
	out := []string{}
	appendBullets(&out, v, 0)
	return out
}

func appendBullets(out *[]string, v any, depth int) {
	switch b := v.(type) {
	case nil:
	case string:
		s := strings.TrimSpace(b)
		if s == "" {
			return
		}
		if depth < maxBulletDepth && strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
			var inner []any
			if err := json.Unmarshal([]byte(s), &inner); err == nil {
				for _, item := range inner {
					appendBullets(out, item, depth+1)
				}
				return
			}
		}
		*out = append(*out, s)
	case []string:
		for _, item := range b {
			appendBullets(out, item, depth+1)
		}
	case []any:
		for _, item := range b {
			appendBullets(out, item, depth+1)
		}
	default:
		s := strings.TrimSpace(fmt.Sprint(b))
		if s != "" {
			*out = append(*out, s)
		}
	}
}
