package git

import (
	"context"
	"fmt"
	"os"
	oe "os/exec"
	"strings"

	"github.com/deb1990/release-pr-github-action/release/exec"
)

// Repo represents a local clone of the target repository. Create one
// with Clone.
type Repo struct {
	// Dir is the location of the clone.
	Dir string
	// RemoteName is the name of the upstream remote.
	RemoteName string
}

// Clone clones the base branch of a repository into dir and returns
// the clone. A preexisting dir is removed first. Tags are fetched
// along with the branch and ranges passed to MergeLog may refer to
// them.
func Clone(remoteURL, dir, baseBranch string) (*Repo, error) {
	const errCtx = "cloning repository"

	if err := os.RemoveAll(dir); err != nil {
		return nil, fmt.Errorf("%s: reset clone dir: %w", errCtx, err)
	}

	remoteName := "origin"

	if _, err := exec.Ex(
		"",
		"git",
		"clone",
		"--single-branch",
		"--branch", baseBranch,
		"--origin", remoteName,
		remoteURL,
		dir,
	); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return &Repo{
		Dir:        dir,
		RemoteName: remoteName,
	}, nil
}

// SetIdentity sets the committer identity used for commits in this
// clone.
func (r *Repo) SetIdentity(name, email string) error {
	const errCtx = "configuring git identity"

	if _, err := exec.Ex(
		r.Dir, "git", "config", "user.name", name,
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if _, err := exec.Ex(
		r.Dir, "git", "config", "user.email", email,
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// CreateBranch creates branch at the current HEAD and checks it out.
// Uncommitted changes in the working tree are carried along.
func (r *Repo) CreateBranch(branch string) error {
	const errCtx = "creating branch"

	if _, err := exec.Ex(
		r.Dir, "git", "checkout", "-b", branch,
	); err != nil {
		return fmt.Errorf("%s %s: %w", errCtx, branch, err)
	}

	return nil
}

// AddAll stages every change in the working tree.
func (r *Repo) AddAll() error {
	const errCtx = "staging changes"

	if _, err := exec.Ex(r.Dir, "git", "add", "-A"); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// Commit records the staged changes with the given message.
func (r *Repo) Commit(message string) error {
	const errCtx = "committing changes"

	if _, err := exec.Ex(
		r.Dir, "git", "commit", "-m", message,
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// Push publishes branch to the upstream remote.
func (r *Repo) Push(branch string) error {
	const errCtx = "pushing branch"

	if _, err := exec.Ex(
		r.Dir,
		"git",
		"push",
		"--set-upstream",
		r.RemoteName,
		branch,
	); err != nil {
		return fmt.Errorf("%s %s: %w", errCtx, branch, err)
	}

	return nil
}

// IsClean returns true if the clone has no local modifications,
// staged or not.
func (r *Repo) IsClean() bool {
	cmd := oe.CommandContext(
		context.Background(),
		"git",
		"status",
		"--porcelain",
	)
	cmd.Dir = r.Dir

	out, err := cmd.CombinedOutput()

	return err == nil && strings.TrimSpace(string(out)) == ""
}

// Commit fields are separated by the unit separator and records by
// the record separator. Messages may span lines.
const (
	logFieldSep  = "\x1f"
	logRecordSep = "\x1e"
)

// Commit is one record of the clone's history. The full message is
// kept so callers can read trailers out of it.
type Commit struct {
	SHA     string
	Parents []string
	Message string
}

// IsMerge reports whether the commit has at least two parents.
func (c Commit) IsMerge() bool {
	return len(c.Parents) >= 2
}

// MergeLog lists the merge commits of the first-parent history
// selected by rangeSpec (a branch name or a "tag..branch" range),
// newest first.
func (r *Repo) MergeLog(rangeSpec string) ([]Commit, error) {
	const errCtx = "listing merge history"

	out, err := exec.Ex(
		r.Dir,
		"git",
		"log",
		"--merges",
		"--first-parent",
		"--pretty=format:%H"+logFieldSep+"%P"+logFieldSep+"%B"+logRecordSep,
		rangeSpec,
	)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", errCtx, rangeSpec, err)
	}

	return parseLog(out), nil
}

// parseLog splits raw "git log" output into commit records.
func parseLog(out string) []Commit {
	var commits []Commit

	for _, record := range strings.Split(out, logRecordSep) {
		record = strings.TrimSpace(record)
		if record == "" {
			continue
		}

		fields := strings.SplitN(record, logFieldSep, 3)
		if len(fields) < 3 {
			continue
		}

		commits = append(commits, Commit{
			SHA:     strings.TrimSpace(fields[0]),
			Parents: strings.Fields(fields[1]),
			Message: strings.TrimSpace(fields[2]),
		})
	}

	return commits
}
