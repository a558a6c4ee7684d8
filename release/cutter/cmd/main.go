// Command release-pr cuts a release candidate: it finds the pull
// requests merged since the last published release, stamps the
// version into the working tree on a candidate branch, and opens a
// labeled pull request carrying the changelog.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/deb1990/release-pr-github-action/release/config"
	"github.com/deb1990/release-pr-github-action/release/cutter"
	"github.com/deb1990/release-pr-github-action/release/git"
	"github.com/deb1990/release-pr-github-action/release/git/github"
	"github.com/deb1990/release-pr-github-action/release/git/gitlab"
	"github.com/deb1990/release-pr-github-action/release/trigger"
)

// sliceFlag collects repeated occurrences of a string flag.
type sliceFlag []string

func (s *sliceFlag) String() string {
	if s == nil {
		return ""
	}

	return strings.Join(*s, ",")
}

func (s *sliceFlag) Set(value string) error {
	*s = append(*s, value)

	return nil
}

func main() {
	if err := run(); err != nil {
		slog.Error("release candidate failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	const errCtx = "running release-pr"

	configPath := flag.String(
		"config", "",
		"Optional YAML configuration file",
	)
	platform := flag.String(
		"platform", "",
		"Hosting platform, github or gitlab",
	)
	token := flag.String(
		"access_token", "",
		"API token, falls back to GITHUB_TOKEN or GITLAB_TOKEN",
	)
	version := flag.String(
		"version", "",
		"Version to cut, e.g. v2.0.0",
	)
	baseBranch := flag.String(
		"base_branch", "",
		"Base branch releases are cut from",
	)

	var replaceCommands sliceFlag

	flag.Var(
		&replaceCommands, "replace_command",
		"Version stamping shell command, <<VERSION>> and <<DATE>> "+
			"substituted, repeatable",
	)

	commitMessage := flag.String(
		"commit_message", "",
		"Commit message of the stamping commit",
	)
	prTitle := flag.String(
		"pr_title", "",
		"Pull request title",
	)
	label := flag.String(
		"label", "",
		"Label marking release pull requests",
	)
	committerName := flag.String(
		"committer_name", "",
		"Committer name of the stamping commit",
	)
	committerEmail := flag.String(
		"committer_email", "",
		"Committer email of the stamping commit",
	)
	workDir := flag.String(
		"workdir", "",
		"Directory the clone is created under, defaults to the CI "+
			"workspace",
	)
	repoOwner := flag.String(
		"repo_owner", "",
		"Repository owner, overrides the CI trigger",
	)
	repo := flag.String(
		"repo", "",
		"Repository name, overrides the CI trigger",
	)
	enterpriseHost := flag.String(
		"github_enterprise_host", "",
		"GitHub Enterprise hostname",
	)
	gitlabHost := flag.String(
		"gitlab_host", "",
		"GitLab instance base URL",
	)

	flag.Parse()

	inputs, err := config.Resolve(config.Opts{
		ConfigPath:      *configPath,
		Platform:        *platform,
		Token:           *token,
		Version:         *version,
		BaseBranch:      *baseBranch,
		ReplaceCommands: replaceCommands,
		CommitMessage:   *commitMessage,
		PRTitle:         *prTitle,
		Label:           *label,
		CommitterName:   *committerName,
		CommitterEmail:  *committerEmail,
		WorkDir:         *workDir,
		RepoOwner:       *repoOwner,
		Repo:            *repo,
		EnterpriseHost:  *enterpriseHost,
		GitlabHost:      *gitlabHost,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	repoCtx, err := trigger.Resolve(inputs.RepoOwner, inputs.Repo)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	provider, err := newPlatform(inputs, repoCtx)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := cutter.Run(context.Background(), cutter.Config{
		Owner:           repoCtx.Owner,
		Repo:            repoCtx.Repo,
		BaseBranch:      inputs.BaseBranch,
		Version:         inputs.Version,
		ReplaceCommands: inputs.ReplaceCommands,
		CommitMessage:   inputs.CommitMessage,
		PRTitle:         inputs.PRTitle,
		Label:           inputs.Label,
		CommitterName:   inputs.CommitterName,
		CommitterEmail:  inputs.CommitterEmail,
		WorkDir:         inputs.WorkDir,
		Platform:        provider,
	}); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// newPlatform selects the hosting platform implementation.
//
// Pattern: Factory -- the rest of the program only sees git.Platform.
func newPlatform(
	inputs config.Inputs,
	repoCtx trigger.Context,
) (git.Platform, error) {
	const errCtx = "creating platform provider"

	switch inputs.Platform {
	case "github":
		provider, err := github.NewProvider(github.Config{
			RepoOwner:      repoCtx.Owner,
			Repo:           repoCtx.Repo,
			AccessToken:    inputs.Token,
			EnterpriseHost: inputs.EnterpriseHost,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}

		return provider, nil

	case "gitlab":
		provider, err := gitlab.NewProvider(gitlab.Config{
			Host:        inputs.GitlabHost,
			Repo:        repoCtx.FullName(),
			AccessToken: inputs.Token,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}

		return provider, nil

	default:
		return nil, fmt.Errorf(
			"%s: unknown platform %q", errCtx, inputs.Platform,
		)
	}
}
