package vba

import (
	"path"
	"strings"
)

const (
	nameAttribute = `Attribute VB_Name = "`
	// Workbook, worksheet and chart objects have class ids in this range.
	documentBase = `Attribute VB_Base = "0{000208`
)

// ParseSource normalises the source of a module as stored in the VBA
// project. The filename, e.g., "Module1.bas", gives the type when the
// source does not tell it is a document module. The name comes from the
// VB_Name attribute, falling back to the filename. Lines are split on
// CRLF if the source has any, on LF otherwise, and the attribute lines
// are dropped.
func ParseSource(filename, source string) *Module {
	var lines []string
	if strings.Contains(source, "\r\n") {
		lines = strings.Split(source, "\r\n")
	} else {
		lines = strings.Split(source, "\n")
	}
	name := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	typ := typeFromFilename(filename)
	var code []string
	for i, line := range lines {
		if i == 0 && strings.HasPrefix(line, nameAttribute) {
			name = strings.TrimSuffix(strings.TrimPrefix(line, nameAttribute), `"`)
			continue
		}
		if strings.HasPrefix(line, documentBase) {
			typ = Document
		}
		if strings.HasPrefix(line, "Attribute") && strings.Contains(line, "VB_") {
			continue
		}
		code = append(code, line)
	}
	return NewModule(name, typ, code)
}

func typeFromFilename(filename string) Type {
	switch strings.ToLower(path.Ext(filename)) {
	case ".cls":
		return Class
	case ".frm":
		return Form
	default:
		return Standard
	}
}
