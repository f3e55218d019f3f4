package host

import (
	"fmt"
	"strconv"
	"strings"
)

// SelectLines returns lines start..end (1-based, inclusive) of text.
// rng is "N" or "START:END"; an empty END runs to the last line.
func SelectLines(text, rng string) (string, error) {
	rng = strings.TrimSpace(rng)
	if rng == "" {
		return "", nil
	}

	startStr, endStr, ranged := strings.Cut(rng, ":")
	start, err := strconv.Atoi(startStr)
	if err != nil || start < 1 {
		return "", fmt.Errorf("invalid line selection %q", rng)
	}

	lines := strings.Split(text, "\n")
	end := start
	if ranged {
		if endStr == "" {
			end = len(lines)
		} else if end, err = strconv.Atoi(endStr); err != nil || end < start {
			return "", fmt.Errorf("invalid line selection %q", rng)
		}
	}

	if start > len(lines) {
		return "", nil
	}
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[start-1:end], "\n"), nil
}
