package naming

import "strings"

// parseNmblookup extracts the unique host name from `nmblookup -A` output.
// The name table lists one entry per line, e.g.
//
//	PRINTER         <00> -         B <ACTIVE>
//	WORKGROUP       <00> - <GROUP> B <ACTIVE>
//
// The first <00> entry that is not a group name is the host name.
func parseNmblookup(output string) string {
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, "<00>") || strings.Contains(line, "<GROUP>") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) > 0 {
			return fields[0]
		}
	}
	return ""
}

// parseNbtstat extracts the unique host name from `nbtstat -A` output, e.g.
//
//	PRINTER         <00>  UNIQUE      Registered
func parseNbtstat(output string) string {
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, "<00>") || !strings.Contains(line, "UNIQUE") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) > 0 {
			return fields[0]
		}
	}
	return ""
}
