// Package history answers what happened since the last release: the
// release itself, and the merge commits that landed on the base
// branch after it.
package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/deb1990/release-pr-github-action/release/git"
)

// maxCandidates bounds the scan when no release exists yet. Each
// candidate costs one platform API call during correlation.
const maxCandidates = 500

// ReleaseSource looks up the most recent published release.
type ReleaseSource interface {
	LatestRelease(ctx context.Context) (*git.Release, error)
}

// LogSource lists commits from the local clone's history.
type LogSource interface {
	MergeLog(rangeSpec string) ([]git.Commit, error)
}

// Analyzer resolves release history against a hosting platform and a
// local clone.
type Analyzer struct {
	Releases   ReleaseSource
	Log        LogSource
	BaseBranch string
}

// LastRelease returns the most recent published release, or
// git.ErrNoRelease when the repository has none yet.
func (a Analyzer) LastRelease(ctx context.Context) (*git.Release, error) {
	const errCtx = "looking up last release"

	release, err := a.Releases.LatestRelease(ctx)
	if errors.Is(err, git.ErrNoRelease) {
		return nil, err
	}

	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return release, nil
}

// MergeCommitsSince lists the merge commits between tag and the base
// branch tip, newest first.
func (a Analyzer) MergeCommitsSince(tag string) ([]git.Commit, error) {
	const errCtx = "listing merges since release"

	commits, err := a.Log.MergeLog(tag + ".." + a.BaseBranch)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", errCtx, tag, err)
	}

	return merges(commits), nil
}

// AllMergeCommits lists the merge commits of the whole base branch
// history, newest first, capped at maxCandidates. Used when the
// repository has never published a release.
func (a Analyzer) AllMergeCommits() ([]git.Commit, error) {
	const errCtx = "listing full merge history"

	commits, err := a.Log.MergeLog(a.BaseBranch)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	merged := merges(commits)
	if len(merged) > maxCandidates {
		merged = merged[:maxCandidates]
	}

	return merged, nil
}

// merges keeps commits with two or more parents.
func merges(commits []git.Commit) []git.Commit {
	out := make([]git.Commit, 0, len(commits))

	for _, c := range commits {
		if c.IsMerge() {
			out = append(out, c)
		}
	}

	return out
}
