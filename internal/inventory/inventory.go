// Package inventory turns free-form host lists and OpenSSH client
// configuration into ordered remote-execution inventories.
package inventory

import (
	"strings"
)

// Parse splits inventory text into hosts, one per line. Surrounding
// whitespace is trimmed, blank lines are dropped and order is kept.
func Parse(text string) []string {
	var hosts []string

	for _, line := range strings.Split(text, "\n") {
		host := strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if host == "" {
			continue
		}
		hosts = append(hosts, host)
	}

	return hosts
}

// Format renders hosts as inventory text, one host per line.
func Format(hosts []string) string {
	return strings.Join(hosts, "\n")
}

// Merge appends hosts from extra that are not already present in base,
// keeping the order of both lists.
func Merge(base []string, extra []string) []string {
	seen := make(map[string]bool, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))

	for _, list := range [][]string{base, extra} {
		for _, h := range list {
			h = strings.TrimSpace(h)
			if h == "" || seen[h] {
				continue
			}
			seen[h] = true
			out = append(out, h)
		}
	}

	return out
}
