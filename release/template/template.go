// Package template expands <<VAR>> placeholders in
// configuration-supplied strings: replace commands, the
// commit message, and the pull request title. Unknown
// placeholders are preserved untouched.
package template

import (
	"time"

	"github.com/valyala/fasttemplate"
)

const (
	startTag = "<<"
	endTag   = ">>"
)

// DateLayout is the formatted-date form used for <<DATE>>
// and the changelog heading.
const DateLayout = "2006-01-02"

// Vars builds the substitution context shared by every
// templated input of a single run.
func Vars(date time.Time, version string) map[string]any {
	return map[string]any{
		"DATE":    date.Format(DateLayout),
		"VERSION": version,
	}
}

// Expand substitutes <<VAR>> placeholders in s with the
// values from vars.
func Expand(s string, vars map[string]any) string {
	return fasttemplate.ExecuteStringStd(
		s, startTag, endTag, vars,
	)
}
