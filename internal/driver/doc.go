// Package driver implements the commands Git runs on workbooks: the
// external diff driver, the merge driver, and the listing of workbooks
// and their modules.
//
// Standard output belongs to Git, which shows it to the user. Problems
// with single modules are reported on standard error and do not stop
// the processing of the others.
package driver
