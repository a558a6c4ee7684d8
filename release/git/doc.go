// Package git manages the local clone of the target repository and
// defines the platform-neutral types the release pipeline exchanges
// with its hosting platform.
//
// The Repo type shells out to the git executable for every local
// operation. The Platform interface abstracts the hosting side:
// releases, pull requests and labels.
package git
