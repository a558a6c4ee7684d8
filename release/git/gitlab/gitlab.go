package gitlab

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/deb1990/release-pr-github-action/release/git"
)

// Config holds the settings needed to create a GitLab provider.
type Config struct {
	// Host is the base URL of the GitLab instance
	// (e.g. "https://gitlab.com").
	Host string
	// Repo is the full project path (e.g. "org/project").
	Repo string
	// AccessToken is a personal or project access token used for
	// authentication.
	AccessToken string
}

// Provider implements the hosting platform interface for GitLab.
type Provider struct {
	client *gl.Client
	repo   string
	token  string
	host   string
}

// NewProvider validates cfg and returns a Provider.
func NewProvider(cfg Config) (*Provider, error) {
	const errCtx = "creating gitlab provider"

	if cfg.AccessToken == "" {
		return nil, fmt.Errorf(
			"%s: access token must be set", errCtx,
		)
	}

	if cfg.Repo == "" {
		return nil, fmt.Errorf(
			"%s: repo must be set", errCtx,
		)
	}

	host := cfg.Host
	if host == "" {
		host = "https://gitlab.com"
	}

	client, err := gl.NewClient(
		cfg.AccessToken,
		gl.WithBaseURL(host),
	)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: new client: %w", errCtx, err,
		)
	}

	return &Provider{
		client: client,
		repo:   cfg.Repo,
		token:  cfg.AccessToken,
		host:   host,
	}, nil
}

// CloneURL returns the remote URL with the token embedded under the
// oauth2 pseudo-user.
func (p *Provider) CloneURL() string {
	parsed, err := url.Parse(p.host)
	if err != nil || parsed.Host == "" {
		// Schemeless hosts parse with an empty Host.
		return strings.TrimSuffix(p.host, "/") + "/" + p.repo + ".git"
	}

	return parsed.Scheme + "://oauth2:" + p.token + "@" +
		parsed.Host + strings.TrimSuffix(parsed.Path, "/") +
		"/" + p.repo + ".git"
}

// LatestRelease returns the most recent release of the project, or
// git.ErrNoRelease when the project has none. GitLab lists releases
// newest first; one entry is enough.
func (p *Provider) LatestRelease(
	ctx context.Context,
) (*git.Release, error) {
	const errCtx = "fetching latest gitlab release"

	releases, _, err := p.client.Releases.ListReleases(
		p.repo,
		&gl.ListReleasesOptions{
			ListOptions: gl.ListOptions{PerPage: 1},
		},
		gl.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	if len(releases) == 0 {
		return nil, git.ErrNoRelease
	}

	release := &git.Release{TagName: releases[0].TagName}
	if releases[0].ReleasedAt != nil {
		release.PublishedAt = *releases[0].ReleasedAt
	}

	return release, nil
}

// PullRequestsForCommit lists the merge requests GitLab associates
// with the commit.
func (p *Provider) PullRequestsForCommit(
	ctx context.Context,
	sha string,
) ([]git.PullRequest, error) {
	const errCtx = "listing merge requests for commit"

	mrs, _, err := p.client.Commits.ListMergeRequestsByCommit(
		p.repo, sha, gl.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", errCtx, sha, err)
	}

	prs := make([]git.PullRequest, 0, len(mrs))
	for _, mr := range mrs {
		prs = append(prs, convertMR(p.repo, mr))
	}

	return prs, nil
}

// convertMR maps a merge request to the platform-neutral form.
func convertMR(repo string, mr *gl.MergeRequest) git.PullRequest {
	author := ""
	if mr.Author != nil {
		author = mr.Author.Username
	}

	return git.PullRequest{
		Number:   mr.IID,
		Title:    mr.Title,
		Author:   author,
		BaseRef:  mr.TargetBranch,
		BaseRepo: repo,
		URL:      mr.WebURL,
		Labels:   []string(mr.Labels),
	}
}

// CreatePR creates a merge request from branch head into branch base.
func (p *Provider) CreatePR(
	ctx context.Context,
	head string,
	base string,
	title string,
	body string,
) (*git.PullRequestRef, error) {
	const errCtx = "creating gitlab merge request"

	created, resp, err := p.client.MergeRequests.CreateMergeRequest(
		p.repo,
		&gl.CreateMergeRequestOptions{
			Title:        &title,
			Description:  &body,
			SourceBranch: &head,
			TargetBranch: &base,
		},
		gl.WithContext(ctx),
	)
	if err != nil {
		logResponseBody(resp)

		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	slog.Info(
		"created merge request",
		"iid", created.IID,
		"url", created.WebURL,
	)

	return &git.PullRequestRef{
		Number: created.IID,
		URL:    created.WebURL,
	}, nil
}

// AddLabel applies a label to the given merge request.
func (p *Provider) AddLabel(
	ctx context.Context,
	number int,
	label string,
) error {
	const errCtx = "labeling gitlab merge request"

	labels := gl.LabelOptions{label}

	_, resp, err := p.client.MergeRequests.UpdateMergeRequest(
		p.repo,
		number,
		&gl.UpdateMergeRequestOptions{AddLabels: &labels},
		gl.WithContext(ctx),
	)
	if err != nil {
		logResponseBody(resp)

		return fmt.Errorf("%s !%d: %w", errCtx, number, err)
	}

	return nil
}

// logResponseBody logs the response body of a failed API call.
func logResponseBody(resp *gl.Response) {
	if resp == nil || resp.Body == nil {
		return
	}

	defer resp.Body.Close() //nolint:errcheck

	rb, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Warn("cannot read response body", "error", err)

		return
	}

	slog.Warn("gitlab response", "body", string(rb))
}
