// Package config resolves the pipeline inputs from command line
// flags, CI environment variables and an optional YAML file, in that
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/goccy/go-yaml"
)

// Defaults used when neither flags, environment nor file provide a
// value.
const (
	DefaultPlatform       = "github"
	DefaultBaseBranch     = "master"
	DefaultLabel          = "release"
	DefaultCommitMessage  = "Prepare release <<VERSION>>"
	DefaultPRTitle        = "Release <<VERSION>>"
	DefaultCommitterName  = "release-pr-bot"
	DefaultCommitterEmail = "release-pr-bot@users.noreply.github.com"
)

// Inputs is the fully resolved, validated configuration of one run.
type Inputs struct {
	Platform        string
	Token           string
	Version         string
	BaseBranch      string
	ReplaceCommands []string
	CommitMessage   string
	PRTitle         string
	Label           string
	CommitterName   string
	CommitterEmail  string
	WorkDir         string
	RepoOwner       string
	Repo            string
	EnterpriseHost  string
	GitlabHost      string
}

// Opts carries the raw command line flag values.
type Opts struct {
	ConfigPath      string
	Platform        string
	Token           string
	Version         string
	BaseBranch      string
	ReplaceCommands []string
	CommitMessage   string
	PRTitle         string
	Label           string
	CommitterName   string
	CommitterEmail  string
	WorkDir         string
	RepoOwner       string
	Repo            string
	EnterpriseHost  string
	GitlabHost      string
}

// File is the YAML form of the optional config file. Zero fields
// fall back to flag, environment and default resolution.
type File struct {
	Platform        string   `yaml:"platform"`
	Version         string   `yaml:"version"`
	BaseBranch      string   `yaml:"base_branch"`
	ReplaceCommands []string `yaml:"replace_commands"`
	CommitMessage   string   `yaml:"commit_message"`
	PRTitle         string   `yaml:"pr_title"`
	Label           string   `yaml:"label"`
	CommitterName   string   `yaml:"committer_name"`
	CommitterEmail  string   `yaml:"committer_email"`
}

// LoadFile reads and parses the YAML config file.
func LoadFile(path string) (File, error) {
	const errCtx = "loading config file"

	data, err := os.ReadFile(path) //nolint:gosec // path comes from the CLI flag
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	var f File

	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	return f, nil
}

// Resolve layers flags over environment variables over the optional
// config file over defaults, then validates the result.
func Resolve(opts Opts) (Inputs, error) {
	const errCtx = "resolving configuration"

	var file File

	if opts.ConfigPath != "" {
		loaded, err := LoadFile(opts.ConfigPath)
		if err != nil {
			return Inputs{}, fmt.Errorf("%s: %w", errCtx, err)
		}

		file = loaded
	}

	inputs := Inputs{
		Platform: pick(
			opts.Platform,
			os.Getenv("INPUT_PLATFORM"),
			file.Platform,
			DefaultPlatform,
		),
		Token: pick(
			opts.Token,
			os.Getenv("INPUT_TOKEN"),
			os.Getenv("GITHUB_TOKEN"),
			os.Getenv("GITLAB_TOKEN"),
		),
		Version: pick(
			opts.Version,
			os.Getenv("INPUT_VERSION"),
			file.Version,
		),
		BaseBranch: pick(
			opts.BaseBranch,
			os.Getenv("INPUT_BASE_BRANCH"),
			file.BaseBranch,
			DefaultBaseBranch,
		),
		CommitMessage: pick(
			opts.CommitMessage,
			os.Getenv("INPUT_COMMIT_MESSAGE"),
			file.CommitMessage,
			DefaultCommitMessage,
		),
		PRTitle: pick(
			opts.PRTitle,
			os.Getenv("INPUT_PR_TITLE"),
			file.PRTitle,
			DefaultPRTitle,
		),
		Label: pick(
			opts.Label,
			os.Getenv("INPUT_LABEL"),
			file.Label,
			DefaultLabel,
		),
		CommitterName: pick(
			opts.CommitterName,
			os.Getenv("INPUT_COMMITTER_NAME"),
			file.CommitterName,
			DefaultCommitterName,
		),
		CommitterEmail: pick(
			opts.CommitterEmail,
			os.Getenv("INPUT_COMMITTER_EMAIL"),
			file.CommitterEmail,
			DefaultCommitterEmail,
		),
		WorkDir: pick(
			opts.WorkDir,
			os.Getenv("GITHUB_WORKSPACE"),
			os.Getenv("CI_PROJECT_DIR"),
			os.TempDir(),
		),
		RepoOwner: opts.RepoOwner,
		Repo:      opts.Repo,
		EnterpriseHost: pick(
			opts.EnterpriseHost,
			os.Getenv("INPUT_GITHUB_ENTERPRISE_HOST"),
		),
		GitlabHost: pick(
			opts.GitlabHost,
			os.Getenv("INPUT_GITLAB_HOST"),
			os.Getenv("CI_SERVER_URL"),
		),
	}

	inputs.ReplaceCommands = opts.ReplaceCommands
	if len(inputs.ReplaceCommands) == 0 {
		inputs.ReplaceCommands = splitCommands(
			os.Getenv("INPUT_REPLACE_COMMANDS"),
		)
	}

	if len(inputs.ReplaceCommands) == 0 {
		inputs.ReplaceCommands = file.ReplaceCommands
	}

	if err := inputs.validate(); err != nil {
		return Inputs{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	return inputs, nil
}

// pick returns the first non-empty candidate.
func pick(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}

	return ""
}

// splitCommands splits a multi-line variable (the CI convention for
// list valued inputs) into one command per non-blank line.
func splitCommands(raw string) []string {
	var commands []string

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			commands = append(commands, line)
		}
	}

	return commands
}

func (in Inputs) validate() error {
	if in.Platform != "github" && in.Platform != "gitlab" {
		return fmt.Errorf("unknown platform %q", in.Platform)
	}

	if in.Token == "" {
		return errors.New("access token must be set")
	}

	if in.Version == "" {
		return errors.New("version must be set")
	}

	if _, err := semver.NewVersion(in.Version); err != nil {
		return fmt.Errorf(
			"version %q is not semantic: %w", in.Version, err,
		)
	}

	if len(in.ReplaceCommands) == 0 {
		return errors.New("at least one replace command must be set")
	}

	return nil
}
