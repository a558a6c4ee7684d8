package changelog_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/deb1990/release-pr-github-action/release/changelog"
	"github.com/deb1990/release-pr-github-action/release/correlate"
)

func releaseDate() time.Time {
	return time.Date(2026, time.May, 1, 10, 0, 0, 0, time.UTC)
}

func TestCompose(t *testing.T) {
	t.Parallel()

	entries := []correlate.Entry{
		{Number: 12, Title: "Add logging", Author: "bob"},
		{Number: 10, Title: "Fix login", Author: "alice"},
	}

	body := changelog.Compose(releaseDate(), entries)

	assert.Equal(
		t,
		"## Release 2026-05-01\n"+
			"\n"+
			"* Add logging #12 - @bob\n"+
			"* Fix login #10 - @alice\n",
		body,
	)
}

func TestComposeKeepsEntryOrder(t *testing.T) {
	t.Parallel()

	entries := []correlate.Entry{
		{Number: 10, Title: "Fix login", Author: "alice"},
		{Number: 12, Title: "Add logging", Author: "bob"},
	}

	body := changelog.Compose(releaseDate(), entries)

	assert.Less(
		t,
		indexOf(t, body, "#10"),
		indexOf(t, body, "#12"),
	)
}

func TestComposeIsDeterministic(t *testing.T) {
	t.Parallel()

	entries := []correlate.Entry{
		{Number: 10, Title: "Fix login", Author: "alice"},
	}

	first := changelog.Compose(releaseDate(), entries)
	second := changelog.Compose(releaseDate(), entries)

	assert.Equal(t, first, second)
}

func TestComposeWithoutEntries(t *testing.T) {
	t.Parallel()

	body := changelog.Compose(releaseDate(), nil)

	assert.Equal(t, "## Release 2026-05-01\n\n", body)
}

func indexOf(t *testing.T, haystack, needle string) int {
	t.Helper()

	idx := strings.Index(haystack, needle)
	assert.GreaterOrEqual(t, idx, 0, "missing %q", needle)

	return idx
}
