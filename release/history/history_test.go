package history_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deb1990/release-pr-github-action/release/git"
	"github.com/deb1990/release-pr-github-action/release/history"
)

type fakeReleases struct {
	release *git.Release
	err     error
}

func (f fakeReleases) LatestRelease(
	_ context.Context,
) (*git.Release, error) {
	return f.release, f.err
}

type fakeLog struct {
	commits  []git.Commit
	err      error
	gotRange string
}

func (f *fakeLog) MergeLog(rangeSpec string) ([]git.Commit, error) {
	f.gotRange = rangeSpec

	return f.commits, f.err
}

func mergeCommit(sha string) git.Commit {
	return git.Commit{
		SHA:     sha,
		Parents: []string{sha + "-p1", sha + "-p2"},
	}
}

func TestLastRelease(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()

		analyzer := history.Analyzer{
			Releases: fakeReleases{
				release: &git.Release{TagName: "1.9.9"},
			},
			BaseBranch: "master",
		}

		release, err := analyzer.LastRelease(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "1.9.9", release.TagName)
	})

	t.Run("no release yet", func(t *testing.T) {
		t.Parallel()

		analyzer := history.Analyzer{
			Releases:   fakeReleases{err: git.ErrNoRelease},
			BaseBranch: "master",
		}

		_, err := analyzer.LastRelease(context.Background())

		require.ErrorIs(t, err, git.ErrNoRelease)
	})

	t.Run("lookup failure is not no-release", func(t *testing.T) {
		t.Parallel()

		analyzer := history.Analyzer{
			Releases: fakeReleases{
				err: errors.New("api unreachable"),
			},
			BaseBranch: "master",
		}

		_, err := analyzer.LastRelease(context.Background())

		require.Error(t, err)
		assert.NotErrorIs(t, err, git.ErrNoRelease)
		assert.Contains(t, err.Error(), "looking up last release")
		assert.Contains(t, err.Error(), "api unreachable")
	})
}

func TestMergeCommitsSince(t *testing.T) {
	t.Parallel()

	t.Run("builds range and filters merges", func(t *testing.T) {
		t.Parallel()

		log := &fakeLog{commits: []git.Commit{
			mergeCommit("c2"),
			{SHA: "direct", Parents: []string{"only-one"}},
			mergeCommit("c1"),
		}}

		analyzer := history.Analyzer{
			Log:        log,
			BaseBranch: "master",
		}

		commits, err := analyzer.MergeCommitsSince("1.9.9")

		require.NoError(t, err)
		assert.Equal(t, "1.9.9..master", log.gotRange)
		require.Len(t, commits, 2)
		assert.Equal(t, "c2", commits[0].SHA)
		assert.Equal(t, "c1", commits[1].SHA)
	})

	t.Run("log failure", func(t *testing.T) {
		t.Parallel()

		analyzer := history.Analyzer{
			Log:        &fakeLog{err: errors.New("bad ref")},
			BaseBranch: "master",
		}

		_, err := analyzer.MergeCommitsSince("1.9.9")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing merges since release")
	})
}

func TestAllMergeCommits(t *testing.T) {
	t.Parallel()

	t.Run("scans whole base branch", func(t *testing.T) {
		t.Parallel()

		log := &fakeLog{commits: []git.Commit{
			mergeCommit("c3"),
			mergeCommit("c2"),
			mergeCommit("c1"),
		}}

		analyzer := history.Analyzer{
			Log:        log,
			BaseBranch: "master",
		}

		commits, err := analyzer.AllMergeCommits()

		require.NoError(t, err)
		assert.Equal(t, "master", log.gotRange)
		assert.Len(t, commits, 3)
	})

	t.Run("caps the candidate count", func(t *testing.T) {
		t.Parallel()

		var all []git.Commit
		for i := 0; i < history.MaxCandidatesForTest+100; i++ {
			all = append(all, mergeCommit(fmt.Sprintf("c%04d", i)))
		}

		log := &fakeLog{commits: all}

		analyzer := history.Analyzer{
			Log:        log,
			BaseBranch: "master",
		}

		commits, err := analyzer.AllMergeCommits()

		require.NoError(t, err)
		require.Len(t, commits, history.MaxCandidatesForTest)

		// Newest commits survive the cap.
		assert.Equal(t, "c0000", commits[0].SHA)
	})
}
