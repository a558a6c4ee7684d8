package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deb1990/release-pr-github-action/release/config"
)

// clearEnv blanks every variable Resolve consults, so the ambient CI
// environment cannot leak into the test. Setenv forbids t.Parallel.
func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"INPUT_PLATFORM",
		"INPUT_TOKEN",
		"INPUT_VERSION",
		"INPUT_BASE_BRANCH",
		"INPUT_REPLACE_COMMANDS",
		"INPUT_COMMIT_MESSAGE",
		"INPUT_PR_TITLE",
		"INPUT_LABEL",
		"INPUT_COMMITTER_NAME",
		"INPUT_COMMITTER_EMAIL",
		"INPUT_GITHUB_ENTERPRISE_HOST",
		"INPUT_GITLAB_HOST",
		"GITHUB_TOKEN",
		"GITLAB_TOKEN",
		"GITHUB_WORKSPACE",
		"CI_PROJECT_DIR",
		"CI_SERVER_URL",
	} {
		t.Setenv(key, "")
	}
}

func validOpts() config.Opts {
	return config.Opts{
		Token:           "t0ken",
		Version:         "v2.0.0",
		ReplaceCommands: []string{"echo <<VERSION>>"},
	}
}

func TestResolveDefaults(t *testing.T) {
	clearEnv(t)

	inputs, err := config.Resolve(validOpts())
	require.NoError(t, err)

	assert.Equal(t, "github", inputs.Platform)
	assert.Equal(t, "master", inputs.BaseBranch)
	assert.Equal(t, "release", inputs.Label)
	assert.Equal(t, "Prepare release <<VERSION>>", inputs.CommitMessage)
	assert.Equal(t, "Release <<VERSION>>", inputs.PRTitle)
	assert.Equal(t, os.TempDir(), inputs.WorkDir)
	assert.NotEmpty(t, inputs.CommitterName)
	assert.NotEmpty(t, inputs.CommitterEmail)
}

func TestResolveEnvFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("GITHUB_TOKEN", "env-token")
	t.Setenv("INPUT_VERSION", "v3.1.0")
	t.Setenv("INPUT_BASE_BRANCH", "main")
	t.Setenv("GITHUB_WORKSPACE", "/srv/workspace")
	t.Setenv(
		"INPUT_REPLACE_COMMANDS",
		"echo one\n\n  echo two  \n",
	)

	inputs, err := config.Resolve(config.Opts{})
	require.NoError(t, err)

	assert.Equal(t, "env-token", inputs.Token)
	assert.Equal(t, "v3.1.0", inputs.Version)
	assert.Equal(t, "main", inputs.BaseBranch)
	assert.Equal(t, "/srv/workspace", inputs.WorkDir)
	assert.Equal(
		t, []string{"echo one", "echo two"}, inputs.ReplaceCommands,
	)
}

func TestResolveFlagBeatsEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("INPUT_VERSION", "v9.9.9")
	t.Setenv("GITHUB_TOKEN", "env-token")

	opts := validOpts()
	opts.Version = "v2.0.0"

	inputs, err := config.Resolve(opts)
	require.NoError(t, err)

	assert.Equal(t, "v2.0.0", inputs.Version)
	assert.Equal(t, "t0ken", inputs.Token)
}

func TestResolveFromFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "release-pr.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
platform: gitlab
version: v4.0.0
base_branch: develop
replace_commands:
  - sed -i 's/OLD/<<VERSION>>/' VERSION
commit_message: "cut <<VERSION>>"
pr_title: "RC <<VERSION>>"
label: rc
committer_name: releaser
committer_email: releaser@example.com
`), 0o600))

	opts := config.Opts{
		ConfigPath: path,
		Token:      "t0ken",
	}

	inputs, err := config.Resolve(opts)
	require.NoError(t, err)

	assert.Equal(t, "gitlab", inputs.Platform)
	assert.Equal(t, "v4.0.0", inputs.Version)
	assert.Equal(t, "develop", inputs.BaseBranch)
	assert.Equal(
		t,
		[]string{"sed -i 's/OLD/<<VERSION>>/' VERSION"},
		inputs.ReplaceCommands,
	)
	assert.Equal(t, "cut <<VERSION>>", inputs.CommitMessage)
	assert.Equal(t, "RC <<VERSION>>", inputs.PRTitle)
	assert.Equal(t, "rc", inputs.Label)
	assert.Equal(t, "releaser", inputs.CommitterName)
}

func TestResolveMissingFile(t *testing.T) {
	clearEnv(t)

	opts := validOpts()
	opts.ConfigPath = filepath.Join(t.TempDir(), "nope.yaml")

	_, err := config.Resolve(opts)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config file")
}

func TestResolveValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Opts)
		wantErr string
	}{
		{
			name: "missing token",
			mutate: func(o *config.Opts) {
				o.Token = ""
			},
			wantErr: "access token must be set",
		},
		{
			name: "missing version",
			mutate: func(o *config.Opts) {
				o.Version = ""
			},
			wantErr: "version must be set",
		},
		{
			name: "version not semantic",
			mutate: func(o *config.Opts) {
				o.Version = "next-tuesday"
			},
			wantErr: "is not semantic",
		},
		{
			name: "missing replace commands",
			mutate: func(o *config.Opts) {
				o.ReplaceCommands = nil
			},
			wantErr: "at least one replace command",
		},
		{
			name: "unknown platform",
			mutate: func(o *config.Opts) {
				o.Platform = "sourceforge"
			},
			wantErr: `unknown platform "sourceforge"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)

			opts := validOpts()
			tt.mutate(&opts)

			_, err := config.Resolve(opts)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFileMalformed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(
		t, os.WriteFile(path, []byte("{not yaml"), 0o600),
	)

	_, err := config.LoadFile(path)

	require.Error(t, err)
}
