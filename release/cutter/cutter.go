package cutter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/deb1990/release-pr-github-action/release/changelog"
	"github.com/deb1990/release-pr-github-action/release/commitmsg"
	"github.com/deb1990/release-pr-github-action/release/correlate"
	"github.com/deb1990/release-pr-github-action/release/git"
	"github.com/deb1990/release-pr-github-action/release/history"
	"github.com/deb1990/release-pr-github-action/release/stamp"
	"github.com/deb1990/release-pr-github-action/release/template"
)

const candidateSuffix = "-rc"

// ErrNoPullRequests reports that nothing merged since the last
// release. The clone is left unmodified and nothing is published.
var ErrNoPullRequests = errors.New(
	"no pull requests merged since last release",
)

// Config holds all settings of one release candidate run.
type Config struct {
	// Owner is the login of the repository owner.
	Owner string

	// Repo is the repository name, without the owner part.
	Repo string

	// BaseBranch is the long lived branch releases are cut from.
	BaseBranch string

	// Version is the release being prepared, e.g. "v2.0.0".
	Version string

	// ReplaceCommands are the shell commands stamping the version
	// into the tree, run in declared order. <<VERSION>> and <<DATE>>
	// are substituted before execution.
	ReplaceCommands []string

	// CommitMessage is the message of the stamping commit.
	// Placeholders are substituted.
	CommitMessage string

	// PRTitle is the pull request title. Placeholders are
	// substituted.
	PRTitle string

	// Label marks release pull requests. It is applied to the new
	// pull request and excludes earlier release pull requests from
	// the changelog.
	Label string

	// CommitterName and CommitterEmail form the committer identity
	// of the stamping commit.
	CommitterName  string
	CommitterEmail string

	// WorkDir is the directory the clone is created under.
	WorkDir string

	// Platform is the hosting platform of the repository.
	Platform git.Platform
}

// Run executes one release candidate attempt. The flow is strictly
// linear. A failed step aborts the attempt with no retry and no
// cleanup of already published artifacts.
func Run(ctx context.Context, cfg Config) error {
	const errCtx = "cutting release candidate"

	date := time.Now().UTC()
	vars := template.Vars(date, cfg.Version)
	fullName := cfg.Owner + "/" + cfg.Repo

	slog.Info(
		"starting release candidate run",
		"repo", fullName,
		"version", cfg.Version,
		"base", cfg.BaseBranch,
	)

	repo, err := git.Clone(
		cfg.Platform.CloneURL(),
		filepath.Join(cfg.WorkDir, cfg.Repo),
		cfg.BaseBranch,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	analyzer := history.Analyzer{
		Releases:   cfg.Platform,
		Log:        repo,
		BaseBranch: cfg.BaseBranch,
	}

	commits, err := releasableCommits(ctx, analyzer)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	prs, err := correlate.PullRequests(ctx, cfg.Platform, commits)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	entries := correlate.Project(correlate.Filter(
		prs, fullName, cfg.BaseBranch, cfg.Label,
	))
	if len(entries) == 0 {
		return fmt.Errorf("%s: %w", errCtx, ErrNoPullRequests)
	}

	slog.Info(
		"correlated pull requests",
		"merges", len(commits),
		"prs", len(entries),
	)

	body := changelog.Compose(date, entries)

	if err := publishBranch(repo, cfg, entries, vars); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	title := template.Expand(cfg.PRTitle, vars)

	pr, err := cfg.Platform.CreatePR(
		ctx,
		candidateBranch(cfg.Version),
		cfg.BaseBranch,
		title,
		body,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := cfg.Platform.AddLabel(ctx, pr.Number, cfg.Label); err != nil {
		// The pull request exists but is unlabeled. Until the label
		// is applied by hand, the next run will list it again.
		return fmt.Errorf(
			"%s: pull request %s left unlabeled: %w",
			errCtx, pr.URL, err,
		)
	}

	slog.Info("release candidate ready", "url", pr.URL)

	return nil
}

// releasableCommits returns the merge commits to correlate: the ones
// since the last release when one exists, otherwise the bounded full
// history. A failed release lookup aborts instead of degrading to
// the full scan.
func releasableCommits(
	ctx context.Context,
	analyzer history.Analyzer,
) ([]git.Commit, error) {
	release, err := analyzer.LastRelease(ctx)

	switch {
	case errors.Is(err, git.ErrNoRelease):
		slog.Info("no published release, scanning full history")

		return analyzer.AllMergeCommits()

	case err != nil:
		return nil, err

	default:
		slog.Info("found last release", "tag", release.TagName)

		return analyzer.MergeCommitsSince(release.TagName)
	}
}

// publishBranch mutates the clone: replace commands first, then
// committer identity, candidate branch, staged commit and push.
func publishBranch(
	repo *git.Repo,
	cfg Config,
	entries []correlate.Entry,
	vars map[string]any,
) error {
	const errCtx = "publishing candidate branch"

	if err := stamp.Apply(
		repo.Dir, cfg.ReplaceCommands, vars,
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := repo.SetIdentity(
		cfg.CommitterName, cfg.CommitterEmail,
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	branch := candidateBranch(cfg.Version)

	if err := repo.CreateBranch(branch); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := repo.AddAll(); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if repo.IsClean() {
		return fmt.Errorf(
			"%s: replace commands changed nothing", errCtx,
		)
	}

	message := commitmsg.Compose(
		template.Expand(cfg.CommitMessage, vars), entries,
	)

	if err := repo.Commit(message); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := repo.Push(branch); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// candidateBranch derives the candidate branch name from the
// version.
func candidateBranch(version string) string {
	return version + candidateSuffix
}
