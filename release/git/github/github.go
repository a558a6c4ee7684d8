package github

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	gh "github.com/google/go-github/v68/github"

	"github.com/deb1990/release-pr-github-action/release/git"
)

// Config holds the configuration for the GitHub provider.
type Config struct {
	// RepoOwner is the user or organisation owning the repository.
	RepoOwner string

	// Repo is the repository name, without the owner part.
	Repo string

	// AccessToken authenticates API calls and the workspace clone.
	AccessToken string

	// EnterpriseHost is the hostname of a GitHub Enterprise
	// instance, e.g. "github.example.com". Leave empty for
	// github.com.
	EnterpriseHost string
}

// Provider implements the hosting platform interface for GitHub.
type Provider struct {
	client    *gh.Client
	repoOwner string
	repo      string
	token     string
	host      string
}

// NewProvider validates cfg and creates a GitHub provider.
func NewProvider(cfg Config) (*Provider, error) {
	const errCtx = "creating github provider"

	if cfg.RepoOwner == "" {
		return nil, fmt.Errorf("%s: repo owner is not set", errCtx)
	}

	if cfg.Repo == "" {
		return nil, fmt.Errorf("%s: repo is not set", errCtx)
	}

	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("%s: access token is not set", errCtx)
	}

	client := gh.NewClient(nil).WithAuthToken(cfg.AccessToken)

	host := "github.com"

	if cfg.EnterpriseHost != "" {
		host = cfg.EnterpriseHost

		var err error

		client, err = client.WithEnterpriseURLs(
			"https://"+cfg.EnterpriseHost+"/api/v3/",
			"https://"+cfg.EnterpriseHost+"/api/uploads/",
		)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: enterprise urls: %w", errCtx, err,
			)
		}
	}

	return &Provider{
		client:    client,
		repoOwner: cfg.RepoOwner,
		repo:      cfg.Repo,
		token:     cfg.AccessToken,
		host:      host,
	}, nil
}

// CloneURL returns the remote URL with the access token embedded.
func (p *Provider) CloneURL() string {
	return "https://x-access-token:" + p.token + "@" + p.host +
		"/" + p.repoOwner + "/" + p.repo + ".git"
}

// LatestRelease returns the most recent published release, or
// git.ErrNoRelease when the repository has none (HTTP 404).
func (p *Provider) LatestRelease(
	ctx context.Context,
) (*git.Release, error) {
	const errCtx = "fetching latest github release"

	release, resp, err := p.client.Repositories.GetLatestRelease(
		ctx, p.repoOwner, p.repo,
	)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, git.ErrNoRelease
		}

		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return &git.Release{
		TagName:     release.GetTagName(),
		PublishedAt: release.GetPublishedAt().Time,
	}, nil
}

// PullRequestsForCommit lists the pull requests GitHub associates
// with the commit, following pagination.
func (p *Provider) PullRequestsForCommit(
	ctx context.Context,
	sha string,
) ([]git.PullRequest, error) {
	const errCtx = "listing pull requests for commit"

	opts := &gh.ListOptions{PerPage: 100}

	var prs []git.PullRequest

	for {
		page, resp, err := p.client.PullRequests.ListPullRequestsWithCommit(
			ctx, p.repoOwner, p.repo, sha, opts,
		)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", errCtx, sha, err)
		}

		for _, pr := range page {
			prs = append(prs, convertPR(pr))
		}

		if resp.NextPage == 0 {
			break
		}

		opts.Page = resp.NextPage
	}

	return prs, nil
}

// convertPR maps an API pull request to the platform-neutral form.
func convertPR(pr *gh.PullRequest) git.PullRequest {
	labels := make([]string, 0, len(pr.Labels))
	for _, label := range pr.Labels {
		labels = append(labels, label.GetName())
	}

	return git.PullRequest{
		Number:   pr.GetNumber(),
		Title:    pr.GetTitle(),
		Author:   pr.GetUser().GetLogin(),
		BaseRef:  pr.GetBase().GetRef(),
		BaseRepo: pr.GetBase().GetRepo().GetFullName(),
		URL:      pr.GetHTMLURL(),
		Labels:   labels,
	}
}

// CreatePR opens a pull request from head into base.
func (p *Provider) CreatePR(
	ctx context.Context,
	head string,
	base string,
	title string,
	body string,
) (*git.PullRequestRef, error) {
	const errCtx = "creating github pull request"

	created, resp, err := p.client.PullRequests.Create(
		ctx,
		p.repoOwner,
		p.repo,
		&gh.NewPullRequest{
			Title: &title,
			Head:  &head,
			Base:  &base,
			Body:  &body,
		},
	)
	if err != nil {
		logResponseBody(resp)

		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	slog.Info(
		"created pull request",
		"number", created.GetNumber(),
		"url", created.GetHTMLURL(),
	)

	return &git.PullRequestRef{
		Number: created.GetNumber(),
		URL:    created.GetHTMLURL(),
	}, nil
}

// AddLabel applies a label to the given pull request. Labels live on
// the issues API.
func (p *Provider) AddLabel(
	ctx context.Context,
	number int,
	label string,
) error {
	const errCtx = "labeling github pull request"

	_, resp, err := p.client.Issues.AddLabelsToIssue(
		ctx, p.repoOwner, p.repo, number, []string{label},
	)
	if err != nil {
		logResponseBody(resp)

		return fmt.Errorf("%s #%d: %w", errCtx, number, err)
	}

	return nil
}

// logResponseBody logs the response body of a failed API call.
func logResponseBody(resp *gh.Response) {
	if resp == nil || resp.Body == nil {
		return
	}

	defer resp.Body.Close() //nolint:errcheck

	rb, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Warn("cannot read response body", "error", err)

		return
	}

	slog.Warn("github response", "body", string(rb))
}
