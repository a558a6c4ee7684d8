// Package changelog renders the body of the release pull request.
package changelog

import (
	"fmt"
	"strings"
	"time"

	"github.com/deb1990/release-pr-github-action/release/correlate"
	"github.com/deb1990/release-pr-github-action/release/template"
)

// Compose renders the changelog: a heading with the formatted date,
// a blank line, then one bullet per entry in input order. Identical
// inputs produce identical bytes.
func Compose(date time.Time, entries []correlate.Entry) string {
	var sb strings.Builder

	sb.WriteString("## Release ")
	sb.WriteString(date.Format(template.DateLayout))
	sb.WriteString("\n\n")

	for _, entry := range entries {
		fmt.Fprintf(
			&sb,
			"* %s #%d - @%s\n",
			entry.Title,
			entry.Number,
			entry.Author,
		)
	}

	return sb.String()
}
