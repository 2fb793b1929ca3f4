package vba

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xltrail/git-xl/internal/storage"
)

const report = `[
{"script_name": "olevba", "version": "0.60.1", "python_version": [3, 11, 4], "url": "http://decalage.info/python/oletools", "type": "MetaInformation"},
{"file": "Book1.xlsm", "type": "OpenXML", "container": null, "analysis": null,
 "macros": [
  {"vba_filename": "ThisWorkbook.cls", "subfilename": "xl/vbaProject.bin", "ole_stream": "VBA/ThisWorkbook",
   "code": "Attribute VB_Name = \"ThisWorkbook\"\r\nAttribute VB_Base = \"0{00020819-0000-0000-C000-000000000046}\"\r\n"},
  {"vba_filename": "Module1.bas", "subfilename": "xl/vbaProject.bin", "ole_stream": "VBA/Module1",
   "code": "Attribute VB_Name = \"Module1\"\r\nSub test()\r\n    Debug.Print \"hello\"\r\nEnd Sub"}
 ],
 "json_conversion_successful": true}
]`

func TestParseReport(t *testing.T) {
	t.Run("modules", func(t *testing.T) {
		wb, err := ParseReport([]byte(report))
		require.NoError(t, err)
		want := NewWorkbook([]*Module{
			NewModule("Module1", Standard, []string{"Sub test()", `    Debug.Print "hello"`, "End Sub"}),
			NewModule("ThisWorkbook", Document, []string{""}),
		})
		if diff := cmp.Diff(want, wb); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})
	t.Run("no macros", func(t *testing.T) {
		wb, err := ParseReport([]byte(`[{"type": "MetaInformation"}, {"file": "Book1.xlsx", "type": "OpenXML", "macros": []}]`))
		require.NoError(t, err)
		assert.Empty(t, wb.Modules)
	})
	t.Run("errors", func(t *testing.T) {
		for _, input := range []string{
			``,
			`{"file": "Book1.xlsx"}`,
			`[{"type": "MetaInformation"}]`,
			`[{"file": "Book1.xlsx", "type": "error", "error": "FileOpenError"}]`,
			`[{"file": `,
		} {
			_, err := ParseReport([]byte(input))
			assert.Error(t, err, input)
		}
	})
}

func TestCommandExtractor(t *testing.T) {
	ctx := context.Background()
	t.Run("absent workbooks have no modules", func(t *testing.T) {
		e := &CommandExtractor{Command: []string{"false"}}
		for _, path := range []string{"nul", "/dev/null", ""} {
			wb, err := e.Extract(ctx, path)
			require.NoError(t, err)
			assert.Empty(t, wb.Modules)
		}
	})
	t.Run("report from command", func(t *testing.T) {
		// cat prints the report it is given as workbook.
		path := filepath.Join(t.TempDir(), "report.json")
		require.NoError(t, os.WriteFile(path, []byte(report), 0600))
		wb, err := (&CommandExtractor{Command: []string{"cat"}}).Extract(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, []string{"Module1", "ThisWorkbook"}, wb.Names(true))
	})
	t.Run("failing command", func(t *testing.T) {
		_, err := (&CommandExtractor{Command: []string{"false"}}).Extract(ctx, "Book1.xlsm")
		var extractionErr *ExtractionError
		require.True(t, errors.As(err, &extractionErr))
		assert.Equal(t, "Book1.xlsm", extractionErr.Path)
	})
}

type countingExtractor struct {
	mu    sync.Mutex
	calls int
	wb    *Workbook
}

func (e *countingExtractor) Extract(context.Context, string) (*Workbook, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	return e.wb, nil
}

func TestCachingExtractor(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0600))
		return p
	}
	first := write("a.xlsm", "workbook bytes")
	copied := write("b.xlsm", "workbook bytes")
	other := write("c.xlsm", "other bytes")

	next := &countingExtractor{wb: NewWorkbook([]*Module{NewModule("Module1", Standard, []string{"x"})})}
	store := &storage.InMemory{}
	e := &CachingExtractor{Next: next, Store: store}

	wb, err := e.Extract(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, 1, next.calls)
	cached, err := e.Extract(ctx, copied)
	require.NoError(t, err)
	assert.Equal(t, 1, next.calls, "same content is extracted once")
	if diff := cmp.Diff(wb, cached); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	_, err = e.Extract(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
	assert.Equal(t, 2, store.Len())

	_, err = e.Extract(ctx, "nul")
	require.NoError(t, err)
	assert.Equal(t, 3, next.calls, "absent workbooks bypass the cache")

	_, err = e.Extract(ctx, filepath.Join(dir, "missing.xlsm"))
	var extractionErr *ExtractionError
	assert.True(t, errors.As(err, &extractionErr))
}

func TestCachingExtractorRecomputesDigests(t *testing.T) {
	ctx := context.Background()
	p := filepath.Join(t.TempDir(), "a.xlsm")
	require.NoError(t, os.WriteFile(p, []byte("workbook bytes"), 0600))
	key, err := contentKey(p)
	require.NoError(t, err)

	t.Run("stored digests are not trusted", func(t *testing.T) {
		store := &storage.InMemory{}
		require.NoError(t, store.Put(key, storage.Value(`{"modules":[{"name":"Module1","type":"Module","code":["x"],"digest":"abc"}]}`)))
		next := &countingExtractor{}
		wb, err := (&CachingExtractor{Next: next, Store: store}).Extract(ctx, p)
		require.NoError(t, err)
		assert.Zero(t, next.calls)
		if diff := cmp.Diff(NewWorkbook([]*Module{NewModule("Module1", Standard, []string{"x"})}), wb); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})
	t.Run("entries with null modules are discarded", func(t *testing.T) {
		store := &storage.InMemory{}
		require.NoError(t, store.Put(key, storage.Value(`{"modules":[null]}`)))
		next := &countingExtractor{wb: &Workbook{}}
		wb, err := (&CachingExtractor{Next: next, Store: store}).Extract(ctx, p)
		require.NoError(t, err)
		assert.Equal(t, 1, next.calls)
		assert.Empty(t, wb.Modules)
	})
}
