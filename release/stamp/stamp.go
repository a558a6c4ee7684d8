// Package stamp applies the configured replace commands to a cloned
// working tree, writing the new version into the files that carry
// it.
package stamp

import (
	"fmt"
	"log/slog"

	"github.com/deb1990/release-pr-github-action/release/exec"
	"github.com/deb1990/release-pr-github-action/release/template"
)

// Apply expands each command's placeholders and runs it under the
// shell in dir, in declared order. The first command exiting
// non-zero aborts the remainder.
func Apply(dir string, commands []string, vars map[string]any) error {
	const errCtx = "applying replace commands"

	for i, command := range commands {
		expanded := template.Expand(command, vars)

		slog.Info(
			"running replace command",
			"index", i,
			"command", expanded,
		)

		if _, err := exec.Shell(dir, expanded); err != nil {
			return fmt.Errorf("%s: command %d: %w", errCtx, i, err)
		}
	}

	return nil
}
