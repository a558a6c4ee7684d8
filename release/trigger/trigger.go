// Package trigger resolves which repository the pipeline operates on
// from the CI trigger that started it.
package trigger

import (
	"fmt"
	"os"
	"strings"

	json "github.com/goccy/go-json"
)

// Context identifies the target repository. It is resolved once at
// startup and passed along explicitly; nothing downstream reads the
// environment.
type Context struct {
	Owner string
	Repo  string
}

// FullName returns the "owner/repo" form used to match pull requests
// against the target repository.
func (c Context) FullName() string {
	return c.Owner + "/" + c.Repo
}

// eventPayload mirrors the repository section of a CI webhook event
// payload. Push events carry the owner name, most others the login.
type eventPayload struct {
	Repository struct {
		Name  string `json:"name"`
		Owner struct {
			Login string `json:"login"`
			Name  string `json:"name"`
		} `json:"owner"`
	} `json:"repository"`
}

// Resolve determines the repository owner and name, trying in order:
// the explicit values, the event payload file named by
// GITHUB_EVENT_PATH, the GITHUB_REPOSITORY variable, and GitLab's
// CI_PROJECT_PATH.
func Resolve(explicitOwner, explicitRepo string) (Context, error) {
	const errCtx = "resolving repository context"

	if explicitOwner != "" && explicitRepo != "" {
		return Context{
			Owner: explicitOwner,
			Repo:  explicitRepo,
		}, nil
	}

	if path := os.Getenv("GITHUB_EVENT_PATH"); path != "" {
		ctx, err := fromEventFile(path)
		if err != nil {
			return Context{}, fmt.Errorf("%s: %w", errCtx, err)
		}

		return ctx, nil
	}

	if full := os.Getenv("GITHUB_REPOSITORY"); full != "" {
		ctx, err := fromFullName(full)
		if err != nil {
			return Context{}, fmt.Errorf("%s: %w", errCtx, err)
		}

		return ctx, nil
	}

	if full := os.Getenv("CI_PROJECT_PATH"); full != "" {
		ctx, err := fromFullName(full)
		if err != nil {
			return Context{}, fmt.Errorf("%s: %w", errCtx, err)
		}

		return ctx, nil
	}

	return Context{}, fmt.Errorf(
		"%s: no repository in flags or environment", errCtx,
	)
}

// fromEventFile reads a webhook event payload file and extracts the
// repository coordinates.
func fromEventFile(path string) (Context, error) {
	const errCtx = "reading event payload"

	data, err := os.ReadFile(path) //nolint:gosec // path set by the CI runner
	if err != nil {
		return Context{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	var event eventPayload

	if err := json.Unmarshal(data, &event); err != nil {
		return Context{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	owner := event.Repository.Owner.Login
	if owner == "" {
		owner = event.Repository.Owner.Name
	}

	if owner == "" || event.Repository.Name == "" {
		return Context{}, fmt.Errorf(
			"%s: payload has no repository coordinates", errCtx,
		)
	}

	return Context{
		Owner: owner,
		Repo:  event.Repository.Name,
	}, nil
}

// fromFullName splits an "owner/repo" path. Nested GitLab groups keep
// everything up to the last slash as the owner.
func fromFullName(full string) (Context, error) {
	const errCtx = "parsing repository path"

	idx := strings.LastIndex(full, "/")
	if idx <= 0 || idx == len(full)-1 {
		return Context{}, fmt.Errorf(
			"%s: malformed %q", errCtx, full,
		)
	}

	return Context{
		Owner: full[:idx],
		Repo:  full[idx+1:],
	}, nil
}
