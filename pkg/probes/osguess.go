package probes

// GuessOS maps the liveness TTL hint onto a coarse OS family. Windows
// stacks start at 128, unix-likes at 64, anything lower that still
// answers is assumed to be embedded network gear.
func GuessOS(ttl int) string {
	switch {
	case ttl >= 128:
		return "Windows"
	case ttl >= 64:
		return "Linux/Unix"
	case ttl >= 1:
		return "Network device/embedded"
	default:
		return ""
	}
}
