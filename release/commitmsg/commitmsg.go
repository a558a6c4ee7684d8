// Package commitmsg assembles the release commit message and the
// machine readable trailer listing the pull requests it ships.
package commitmsg

import (
	"strconv"
	"strings"

	"github.com/deb1990/release-pr-github-action/release/correlate"
)

const (
	begin = "--- release pull requests begin ---"
	end   = "--- release pull requests end ---"
)

// Compose appends the delimited pull request trailer to the
// configured commit message.
func Compose(message string, entries []correlate.Entry) string {
	var sb strings.Builder

	sb.WriteString(message)
	sb.WriteString("\n\n")
	sb.WriteString(begin)
	sb.WriteByte('\n')

	for _, entry := range entries {
		sb.WriteByte('#')
		sb.WriteString(strconv.Itoa(entry.Number))
		sb.WriteByte(' ')
		sb.WriteString(entry.URL)
		sb.WriteByte('\n')
	}

	sb.WriteString(end)
	sb.WriteByte('\n')

	return sb.String()
}

// PullNumbers extracts the pull request numbers from a commit
// message carrying the trailer. It returns nil when the markers are
// absent or unbalanced.
func PullNumbers(message string) []int {
	var numbers []int

	betweenMarkers := false

	for _, line := range strings.Split(message, "\n") {
		switch line {
		case begin:
			betweenMarkers = true
		case end:
			betweenMarkers = false
		default:
			if !betweenMarkers {
				continue
			}

			if n, ok := parseRef(line); ok {
				numbers = append(numbers, n)
			}
		}
	}

	if betweenMarkers {
		return nil
	}

	return numbers
}

// parseRef reads the "#<number> <url>" form of a trailer line.
func parseRef(line string) (int, bool) {
	ref, _, _ := strings.Cut(line, " ")
	if !strings.HasPrefix(ref, "#") {
		return 0, false
	}

	n, err := strconv.Atoi(strings.TrimPrefix(ref, "#"))
	if err != nil {
		return 0, false
	}

	return n, true
}
