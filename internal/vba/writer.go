package vba

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
)

// Writer saves changes into a workbook file.
type Writer interface {
	Write(ctx context.Context, path string, changes *Changeset) error
}

// NewWriter returns a CommandWriter for command, or ErrNoWriter if command
// is empty.
func NewWriter(command []string) (Writer, error) {
	if len(command) == 0 {
		return nil, ErrNoWriter
	}
	return &CommandWriter{Command: command}, nil
}

// CommandWriter runs a command with the workbook path as last argument and
// the changeset, encoded as JSON, on standard input.
type CommandWriter struct {
	Command []string
}

var _ Writer = (*CommandWriter)(nil)

// Write implements Writer.
func (w *CommandWriter) Write(ctx context.Context, path string, changes *Changeset) error {
	const method = "CommandWriter.Write"
	input, err := changes.JSON()
	if err != nil {
		return err
	}
	args := append(append([]string(nil), w.Command[1:]...), path)
	cmd := exec.CommandContext(ctx, w.Command[0], args...)
	cmd.Stdin = bytes.NewReader(input)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return errorf(method, "%v %q: %w: %s", w.Command, path, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
