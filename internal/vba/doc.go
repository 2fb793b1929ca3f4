// Package vba models the VBA modules embedded in Excel workbooks.
//
// Workbooks are binary files; reading and writing their VBA projects
// is left to external commands. An Extractor runs a command such as
// olevba and turns its JSON report into a Workbook, a sorted list of
// Modules with normalised source lines and digests. A Writer hands a
// Changeset describing module edits to another command, which applies
// it to the workbook file.
package vba
