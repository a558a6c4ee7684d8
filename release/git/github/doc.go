// Package github implements the hosting platform interface for
// GitHub and GitHub Enterprise.
//
// Releases come from the repository's latest published release, pull
// requests are correlated through the commit association endpoint,
// and the release pull request is labeled through the issues API.
package github
