package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xltrail/git-xl/internal/vba"
)

// fakeExtractor serves workbooks by path. Unknown paths fail to extract.
type fakeExtractor map[string]*vba.Workbook

func (e fakeExtractor) Extract(_ context.Context, path string) (*vba.Workbook, error) {
	if vba.IsAbsent(path) {
		return &vba.Workbook{}, nil
	}
	wb, ok := e[path]
	if !ok {
		return nil, &vba.ExtractionError{Path: path, Err: errors.New("not a workbook")}
	}
	return wb, nil
}

// fakeWriter records what it is asked to write.
type fakeWriter struct {
	mu      sync.Mutex
	path    string
	changes []vba.Change
	calls   int
}

func (w *fakeWriter) Write(_ context.Context, path string, changes *vba.Changeset) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls++
	w.path = path
	w.changes = changes.Changes()
	return nil
}

func module(name string, typ vba.Type, code string) *vba.Module {
	return vba.NewModule(name, typ, strings.Split(code, "\n"))
}

func workbook(modules ...*vba.Module) *vba.Workbook {
	return vba.NewWorkbook(modules)
}

type outputs struct {
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func numberedModules(n int, change string) []*vba.Module {
	modules := make([]*vba.Module, n)
	for i := range modules {
		modules[i] = module(fmt.Sprintf("Module%02d", i), vba.Standard, "Option Explicit\n' "+change+"\nEnd")
	}
	return modules
}
