package gitconfig

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Runner runs git with the given arguments in dir and returns its standard
// output.
type Runner func(ctx context.Context, dir string, args ...string) (string, error)

// Git is the Runner executing the git found in PATH.
func Git(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	log.WithFields(log.Fields{
		"dir":  dir,
		"args": args,
		"err":  err,
	}).Debug("Ran git")
	if err != nil {
		return stdout.String(), errorf("Git", "%v: %w: %s", args, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// IsGitRepository tells whether dir is within a Git working tree.
func IsGitRepository(ctx context.Context, git Runner, dir string) bool {
	_, err := git(ctx, dir, "rev-parse")
	return err == nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimRight(s, "\r")
}
