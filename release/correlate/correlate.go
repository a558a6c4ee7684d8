// Package correlate maps merge commits to the pull requests that
// produced them, and narrows the result down to the releasable set.
package correlate

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/deb1990/release-pr-github-action/release/git"
)

// CommitSource answers which pull requests a commit belongs to.
type CommitSource interface {
	PullRequestsForCommit(
		ctx context.Context,
		sha string,
	) ([]git.PullRequest, error)
}

// PullRequests issues one lookup per commit, all concurrently, and
// joins the results in commit order. The first failing lookup cancels
// the remaining ones and fails the whole batch.
func PullRequests(
	ctx context.Context,
	src CommitSource,
	commits []git.Commit,
) ([]git.PullRequest, error) {
	const errCtx = "correlating commits to pull requests"

	results := make([][]git.PullRequest, len(commits))

	group, groupCtx := errgroup.WithContext(ctx)

	for i, commit := range commits {
		group.Go(func() error {
			prs, err := src.PullRequestsForCommit(
				groupCtx, commit.SHA,
			)
			if err != nil {
				return fmt.Errorf("commit %s: %w", commit.SHA, err)
			}

			results[i] = prs

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	var joined []git.PullRequest
	for _, prs := range results {
		joined = append(joined, prs...)
	}

	return joined, nil
}

// Filter retains the pull requests that belong to the target
// repository's base branch and are not themselves release pull
// requests, deduplicated by number (one pull request can be cited by
// several merge commits). The first occurrence wins and input order
// is preserved.
func Filter(
	prs []git.PullRequest,
	fullName string,
	baseBranch string,
	excludeLabel string,
) []git.PullRequest {
	seen := make(map[int]struct{}, len(prs))
	out := make([]git.PullRequest, 0, len(prs))

	for _, pr := range prs {
		if pr.BaseRepo != fullName {
			continue
		}

		if pr.BaseRef != baseBranch {
			continue
		}

		if pr.HasLabel(excludeLabel) {
			continue
		}

		if _, ok := seen[pr.Number]; ok {
			continue
		}

		seen[pr.Number] = struct{}{}

		out = append(out, pr)
	}

	return out
}

// Entry is the changelog projection of a pull request.
type Entry struct {
	Number int
	Title  string
	Author string
	URL    string
}

// Project reduces pull requests to changelog entries.
func Project(prs []git.PullRequest) []Entry {
	entries := make([]Entry, 0, len(prs))

	for _, pr := range prs {
		entries = append(entries, Entry{
			Number: pr.Number,
			Title:  pr.Title,
			Author: pr.Author,
			URL:    pr.URL,
		})
	}

	return entries
}
