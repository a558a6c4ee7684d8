// Package exec provides command execution helpers with logging.
package exec

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Ex executes a command and returns its combined output.
//
// The command is executed in the given directory. If dir is empty, the
// command is executed in the current working directory. On failure the
// combined output is included in the returned error.
func Ex(dir string, name string, arg ...string) (string, error) {
	const errCtx = "executing command"

	slog.Info(
		"executing",
		"dir", dir,
		"name", name,
		"args", strings.Join(arg, " "),
	)

	cmd := exec.CommandContext(context.Background(), name, arg...)
	if dir != "" {
		cmd.Dir = dir
	}

	output, err := cmd.CombinedOutput()

	outputStr := string(output)

	if err != nil {
		if trimmed := strings.TrimSpace(outputStr); trimmed != "" {
			return outputStr, fmt.Errorf(
				"%s: %s %s: %s: %w",
				errCtx,
				name,
				strings.Join(arg, " "),
				trimmed,
				err,
			)
		}

		return outputStr, fmt.Errorf(
			"%s: %s %s: %w",
			errCtx,
			name,
			strings.Join(arg, " "),
			err,
		)
	}

	slog.Info(
		"executed",
		"output", outputStr,
	)

	return outputStr, nil
}

// Shell runs cmdline through "sh -c" in dir. Pipes, redirects and
// quoting behave as in a shell line.
func Shell(dir string, cmdline string) (string, error) {
	return Ex(dir, "sh", "-c", cmdline)
}
