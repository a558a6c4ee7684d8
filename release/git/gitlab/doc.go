// Package gitlab implements the hosting platform interface for
// GitLab, both gitlab.com and self-managed instances.
//
// Merge requests map onto the neutral pull request form with the IID
// as the number. Merge requests listed for a project commit always
// target that project; the configured project path serves as the
// base repository full name.
package gitlab
