package latex

import "strings"

// punctNormalizer maps Unicode punctuation variants to their plain LaTeX
// equivalents. It runs before escaping so its output is never re-escaped.
var punctNormalizer = strings.NewReplacer(
	"–", "--",  // en dash
	"—", "---", // em dash
	"“", "``",
	"”", "''",
	"’", "'",
)

// Escape makes user text safe for insertion into LaTeX markup. Unicode
// punctuation is normalized first, then each reserved character is replaced
// by its literal-producing form in a single pass, so no substitution is
// escaped twice.
func Escape(text string) string {
	text = punctNormalizer.Replace(text)
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch r {
		case '\\':
			b.WriteString(`\textbackslash{}`)
		case '&', '%', '$', '#', '_':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '{':
			b.WriteString(`\{`)
		case '}':
			b.WriteString(`\}`)
		case '~':
			b.WriteString(`\textasciitilde{}`)
		case '^':
			b.WriteString(`\textasciicircum{}`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
