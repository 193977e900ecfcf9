package naming

import "strings"

// prefixes seen in certificate SAN dumps, stripped case-insensitively
var sanPrefixes = []string{"dns:", "ip address:"}

// Normalize reduces a raw name candidate to a display name: trim, keep the
// text before the first comma, strip a SAN-style prefix, strip one trailing
// dot, strip a trailing .local suffix.
func Normalize(raw string) string {
	name := strings.TrimSpace(raw)
	if idx := strings.Index(name, ","); idx >= 0 {
		name = strings.TrimSpace(name[:idx])
	}
	for _, prefix := range sanPrefixes {
		if len(name) >= len(prefix) && strings.EqualFold(name[:len(prefix)], prefix) {
			name = strings.TrimSpace(name[len(prefix):])
			break
		}
	}
	name = strings.TrimSuffix(name, ".")
	if cut := len(name) - len(".local"); cut >= 0 && strings.EqualFold(name[cut:], ".local") {
		name = name[:cut]
	}
	return name
}
