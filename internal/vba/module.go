package vba

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/xltrail/git-xl/internal/diff"
)

// Type classifies modules.
type Type string

const (
	Standard Type = "Module"
	Class    Type = "Class"
	Form     Type = "Form"
	// Document modules are bound to the workbook, a sheet or a chart. They
	// come and go with those objects, so merges leave them alone.
	Document Type = "Document"
)

// Module is a named unit of VBA source.
type Module struct {
	Name string `json:"name"`
	Type Type   `json:"type"`
	// Code holds the source lines without terminators and without the
	// attribute lines the VBA editor manages.
	Code []string `json:"code"`
	// Digest identifies the content: equal digests mean equal code.
	Digest string `json:"digest"`
}

var _ diff.Node = (*Module)(nil)

// NewModule returns a module with its digest computed from code.
func NewModule(name string, typ Type, code []string) *Module {
	return &Module{
		Name:   name,
		Type:   typ,
		Code:   code,
		Digest: Digest(code),
	}
}

// Digest returns the hex SHA-256 of the lines joined by newlines.
func Digest(code []string) string {
	h := sha256.New()
	for i, line := range code {
		if i > 0 {
			h.Write([]byte{'\n'})
		}
		h.Write([]byte(line))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Content returns the code as a single string.
func (m *Module) Content() string {
	return strings.Join(m.Code, "\n")
}

// Path returns the module's location within a workbook, e.g.,
// "VBA/Module/Module1".
func (m *Module) Path() string {
	return "VBA/" + string(m.Type) + "/" + m.Name
}

// SameAs implements diff.Node by comparing digests. Other nodes are
// compared line by line.
func (m *Module) SameAs(node diff.Node) (bool, error) {
	other, ok := node.(*Module)
	if !ok {
		return diff.Lines(m.code()).SameAs(node)
	}
	if m == nil || other == nil {
		return m == other, nil
	}
	return m.Digest == other.Digest, nil
}

func (m *Module) code() []string {
	if m == nil {
		return nil
	}
	return m.Code
}

// Lines implements diff.Node.
func (m *Module) Lines() ([]string, error) {
	return m.code(), nil
}

// Workbook holds the modules of a workbook, sorted by name. The zero value
// is a workbook without VBA.
type Workbook struct {
	Modules []*Module `json:"modules"`
}

// NewWorkbook sorts modules by name. When names repeat, the first module
// wins.
func NewWorkbook(modules []*Module) *Workbook {
	seen := make(map[string]bool, len(modules))
	var kept []*Module
	for _, m := range modules {
		if seen[m.Name] {
			continue
		}
		seen[m.Name] = true
		kept = append(kept, m)
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Name < kept[j].Name
	})
	return &Workbook{Modules: kept}
}

// Module returns the module with the given name, or nil.
func (wb *Workbook) Module(name string) *Module {
	if wb == nil {
		return nil
	}
	i := sort.Search(len(wb.Modules), func(i int) bool {
		return wb.Modules[i].Name >= name
	})
	if i < len(wb.Modules) && wb.Modules[i].Name == name {
		return wb.Modules[i]
	}
	return nil
}

// Names returns the sorted module names, leaving out document modules if
// asked to.
func (wb *Workbook) Names(withDocuments bool) []string {
	if wb == nil {
		return nil
	}
	var names []string
	for _, m := range wb.Modules {
		if m.Type == Document && !withDocuments {
			continue
		}
		names = append(names, m.Name)
	}
	return names
}
