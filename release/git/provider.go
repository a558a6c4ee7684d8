package git

import (
	"context"
	"errors"
	"time"
)

// ErrNoRelease reports that the repository has no published release
// yet. It is a valid state (the first release is being prepared), not
// a failed lookup.
var ErrNoRelease = errors.New("no published release")

// Release identifies the most recent published release of the
// repository.
type Release struct {
	// TagName is the git tag the release points at.
	TagName string

	// PublishedAt is the publication timestamp.
	PublishedAt time.Time
}

// PullRequest is the platform-neutral view of a pull request record.
// GitLab merge requests map onto it with the IID as Number.
type PullRequest struct {
	Number   int
	Title    string
	Author   string
	BaseRef  string
	BaseRepo string // full name, "owner/repo"
	URL      string
	Labels   []string
}

// HasLabel reports whether the pull request carries the given label.
func (p PullRequest) HasLabel(name string) bool {
	for _, label := range p.Labels {
		if label == name {
			return true
		}
	}

	return false
}

// PullRequestRef points at a pull request created by this run.
type PullRequestRef struct {
	Number int
	URL    string
}

// Platform is the hosting-platform surface the release pipeline
// consumes.
//
// Pattern: Strategy -- swap the hosting platform without changing the
// pipeline logic.
type Platform interface {
	// CloneURL returns the authenticated remote URL used for the
	// workspace clone.
	CloneURL() string

	// LatestRelease returns the most recent published release, or
	// ErrNoRelease when the repository has none.
	LatestRelease(ctx context.Context) (*Release, error)

	// PullRequestsForCommit lists the pull requests the platform
	// associates with a commit hash.
	PullRequestsForCommit(
		ctx context.Context,
		sha string,
	) ([]PullRequest, error)

	// CreatePR opens a pull request from head into base and returns
	// its number and URL.
	CreatePR(
		ctx context.Context,
		head string,
		base string,
		title string,
		body string,
	) (*PullRequestRef, error)

	// AddLabel applies a label to the given pull request.
	AddLabel(ctx context.Context, number int, label string) error
}
