package vba

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// Extractor reads the VBA modules of workbook files.
type Extractor interface {
	// Extract returns the modules of the workbook at path. An absent
	// workbook, see IsAbsent, has no modules. Failures are reported as
	// *ExtractionError.
	Extract(ctx context.Context, path string) (*Workbook, error)
}

// IsAbsent tells whether Git passed path to stand for a missing file.
func IsAbsent(path string) bool {
	return path == "" || path == "nul" || path == "/dev/null"
}

// CommandExtractor runs an olevba-compatible command with the workbook
// path as last argument and parses its JSON report.
type CommandExtractor struct {
	Command []string
}

var _ Extractor = (*CommandExtractor)(nil)

// Extract implements Extractor.
func (e *CommandExtractor) Extract(ctx context.Context, path string) (*Workbook, error) {
	if IsAbsent(path) {
		return &Workbook{}, nil
	}
	if len(e.Command) == 0 {
		return nil, &ExtractionError{Path: path, Err: errors.New("empty extract command")}
	}
	args := append(append([]string(nil), e.Command[1:]...), path)
	cmd := exec.CommandContext(ctx, e.Command[0], args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	runErr := cmd.Run()
	// olevba exits with a non-zero status for some findings, and still
	// prints a complete report.
	if runErr != nil && !gjson.ValidBytes(stdout.Bytes()) {
		return nil, &ExtractionError{
			Path: path,
			Err:  errorf("CommandExtractor.Extract", "%v: %w: %s", e.Command, runErr, strings.TrimSpace(stderr.String())),
		}
	}
	if runErr != nil {
		log.WithFields(log.Fields{
			"path":  path,
			"cause": runErr,
		}).Info("Extract command failed but printed a report")
	}
	wb, err := ParseReport(stdout.Bytes())
	if err != nil {
		return nil, &ExtractionError{Path: path, Err: err}
	}
	return wb, nil
}

// ParseReport parses the JSON report olevba prints for one file. The
// report is an array whose first element describes olevba itself,
// followed by one element per analysed file.
func ParseReport(report []byte) (*Workbook, error) {
	const method = "ParseReport"
	if !gjson.ValidBytes(report) {
		return nil, errorf(method, "invalid JSON")
	}
	root := gjson.ParseBytes(report)
	if !root.IsArray() {
		return nil, errorf(method, "want array, got %v", root.Type)
	}
	var file gjson.Result
	root.ForEach(func(_, value gjson.Result) bool {
		if value.Get("file").Exists() {
			file = value
			return false
		}
		return true
	})
	if !file.Exists() {
		return nil, errorf(method, "no file in report")
	}
	if file.Get("type").String() == "error" {
		return nil, errorf(method, "%s", file.Get("error").String())
	}
	var modules []*Module
	for _, macro := range file.Get("macros").Array() {
		filename := macro.Get("vba_filename").String()
		if filename == "" {
			filename = macro.Get("ole_stream").String()
		}
		modules = append(modules, ParseSource(filename, macro.Get("code").String()))
	}
	return NewWorkbook(modules), nil
}
