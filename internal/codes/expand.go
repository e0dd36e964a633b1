package codes

import "strings"

// Expand substitutes $1..$9 from values and {name} from params in tpl.
// Substituted text is never rescanned, so a value containing "$2" or
// "{alt}" is emitted verbatim. Missing values expand to "" and unknown
// {name} references are left as written.
func Expand(tpl string, values []string, params map[string]string) string {
	if !strings.ContainsAny(tpl, "${") {
		return tpl
	}
	var b strings.Builder
	b.Grow(len(tpl) + 32)
	for i := 0; i < len(tpl); i++ {
		c := tpl[i]
		switch {
		case c == '$' && i+1 < len(tpl) && tpl[i+1] >= '1' && tpl[i+1] <= '9':
			idx := int(tpl[i+1] - '1')
			if idx < len(values) {
				b.WriteString(values[idx])
			}
			i++
		case c == '{' && params != nil:
			end := strings.IndexByte(tpl[i:], '}')
			if end < 0 {
				b.WriteByte(c)
				continue
			}
			name := tpl[i+1 : i+end]
			if v, ok := params[name]; ok {
				b.WriteString(v)
				i += end
				continue
			}
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
