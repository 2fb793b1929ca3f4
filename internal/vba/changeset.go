package vba

import (
	"strconv"

	"github.com/tidwall/sjson"
)

// Op is the kind of a Change.
type Op string

const (
	OpSet    Op = "set"
	OpAdd    Op = "add"
	OpRemove Op = "remove"
)

// Change is one edit of a workbook's VBA project.
type Change struct {
	Op   Op
	Name string
	// Type and Code are empty for OpRemove, and Type for OpSet.
	Type Type
	Code []string
}

// Changeset is an ordered list of edits to apply to a workbook.
type Changeset struct {
	changes []Change
}

// SetContent replaces the code of an existing module.
func (c *Changeset) SetContent(name string, code []string) {
	c.changes = append(c.changes, Change{Op: OpSet, Name: name, Code: code})
}

// Add adds a module.
func (c *Changeset) Add(name string, typ Type, code []string) {
	c.changes = append(c.changes, Change{Op: OpAdd, Name: name, Type: typ, Code: code})
}

// Remove removes a module.
func (c *Changeset) Remove(name string) {
	c.changes = append(c.changes, Change{Op: OpRemove, Name: name})
}

func (c *Changeset) Len() int {
	return len(c.changes)
}

func (c *Changeset) Changes() []Change {
	return c.changes
}

// Apply returns the workbook that results from applying the changes to wb,
// which is left untouched.
func (c *Changeset) Apply(wb *Workbook) *Workbook {
	modules := make(map[string]*Module)
	var order []*Module
	if wb != nil {
		order = append(order, wb.Modules...)
	}
	for _, m := range order {
		modules[m.Name] = m
	}
	for _, ch := range c.changes {
		switch ch.Op {
		case OpSet:
			if old, ok := modules[ch.Name]; ok {
				modules[ch.Name] = NewModule(ch.Name, old.Type, ch.Code)
			}
		case OpAdd:
			modules[ch.Name] = NewModule(ch.Name, ch.Type, ch.Code)
		case OpRemove:
			delete(modules, ch.Name)
		}
	}
	result := make([]*Module, 0, len(modules))
	for _, m := range modules {
		result = append(result, m)
	}
	return NewWorkbook(result)
}

// JSON encodes the changeset for write commands, e.g.,
//
//	{"changes":[{"op":"add","name":"Module2","type":"Module","code":"Sub a()\nEnd Sub"}]}
//
// Code is joined with newlines.
func (c *Changeset) JSON() ([]byte, error) {
	doc := []byte(`{"changes":[]}`)
	var err error
	for i, ch := range c.changes {
		prefix := "changes." + strconv.Itoa(i) + "."
		if doc, err = sjson.SetBytes(doc, prefix+"op", string(ch.Op)); err != nil {
			return nil, errorf("Changeset.JSON", "%w", err)
		}
		if doc, err = sjson.SetBytes(doc, prefix+"name", ch.Name); err != nil {
			return nil, errorf("Changeset.JSON", "%w", err)
		}
		if ch.Type != "" {
			if doc, err = sjson.SetBytes(doc, prefix+"type", string(ch.Type)); err != nil {
				return nil, errorf("Changeset.JSON", "%w", err)
			}
		}
		if ch.Op != OpRemove {
			if doc, err = sjson.SetBytes(doc, prefix+"code", (&Module{Code: ch.Code}).Content()); err != nil {
				return nil, errorf("Changeset.JSON", "%w", err)
			}
		}
	}
	return doc, nil
}
