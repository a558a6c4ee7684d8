// Package cutter orchestrates the creation of release candidate
// pull requests.
//
// One run resolves the pull requests merged into the base branch
// since the last published release, composes a changelog from them,
// stamps the working tree with the new version, publishes a
// candidate branch, and opens a labeled pull request back into the
// base branch.
//
// Every step is fatal on failure: the run either completes or stops
// with a single wrapped error, leaving already published artifacts
// in place.
package cutter
