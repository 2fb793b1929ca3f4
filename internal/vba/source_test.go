package vba

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/xltrail/git-xl/internal/diff"
)

func TestParseSource(t *testing.T) {
	cases := []struct {
		name     string
		filename string
		source   string
		want     *Module
	}{
		{
			name:     "standard module with CRLF",
			filename: "Module1.bas",
			source:   "Attribute VB_Name = \"Module1\"\r\nOption Explicit\r\nSub test()\r\nEnd Sub\r\n",
			want:     NewModule("Module1", Standard, []string{"Option Explicit", "Sub test()", "End Sub", ""}),
		},
		{
			name:     "class module with LF",
			filename: "Counter.cls",
			source: "Attribute VB_Name = \"Counter\"\n" +
				"Attribute VB_GlobalNameSpace = False\n" +
				"Attribute VB_Creatable = False\n" +
				"Attribute VB_PredeclaredId = False\n" +
				"Attribute VB_Exposed = False\n" +
				"Private n As Long",
			want: NewModule("Counter", Class, []string{"Private n As Long"}),
		},
		{
			name:     "document module",
			filename: "ThisWorkbook.cls",
			source: "Attribute VB_Name = \"ThisWorkbook\"\r\n" +
				"Attribute VB_Base = \"0{00020819-0000-0000-C000-000000000046}\"\r\n" +
				"Attribute VB_GlobalNameSpace = False\r\n" +
				"Private Sub Workbook_Open()\r\n" +
				"End Sub",
			want: NewModule("ThisWorkbook", Document, []string{"Private Sub Workbook_Open()", "End Sub"}),
		},
		{
			name:     "form",
			filename: "VBA/UserForm1.frm",
			source:   "Attribute VB_Name = \"UserForm1\"\nPrivate Sub UserForm_Click()\nEnd Sub",
			want:     NewModule("UserForm1", Form, []string{"Private Sub UserForm_Click()", "End Sub"}),
		},
		{
			name:     "name from filename",
			filename: "Helpers.bas",
			source:   "Option Explicit\nAttribute Foo.VB_Description = \"Does foo\"\n' Attribute lines without VB_ are kept",
			want:     NewModule("Helpers", Standard, []string{"Option Explicit", "' Attribute lines without VB_ are kept"}),
		},
		{
			name:     "procedure attribute",
			filename: "Module2.bas",
			source:   "Attribute VB_Name = \"Module2\"\nFunction f()\nAttribute f.VB_Description = \"f\"\nEnd Function",
			want:     NewModule("Module2", Standard, []string{"Function f()", "End Function"}),
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ParseSource(c.filename, c.source)
			if diff := cmp.Diff(c.want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestModule(t *testing.T) {
	a := NewModule("Module1", Standard, []string{"Sub a()", "End Sub"})
	b := NewModule("Module1", Standard, []string{"Sub a()", "End Sub"})
	c := NewModule("Module1", Standard, []string{"Sub a()", "", "End Sub"})

	same, err := a.SameAs(b)
	assert.NoError(t, err)
	assert.True(t, same)
	same, err = a.SameAs(c)
	assert.NoError(t, err)
	assert.False(t, same)
	same, err = a.SameAs(diff.Lines{"Sub a()", "End Sub"})
	assert.NoError(t, err)
	assert.True(t, same, "compared by content")
	same, err = a.SameAs(diff.Lines{"Sub a()"})
	assert.NoError(t, err)
	assert.False(t, same)

	assert.Equal(t, Digest([]string{"a", "b"}), Digest([]string{"a\nb"}))
	assert.Len(t, a.Digest, 64)
	assert.Equal(t, "VBA/Module/Module1", a.Path())
	assert.Equal(t, "Sub a()\nEnd Sub", a.Content())

	var absent *Module
	lines, err := absent.Lines()
	assert.NoError(t, err)
	assert.Empty(t, lines)
	same, err = absent.SameAs((*Module)(nil))
	assert.NoError(t, err)
	assert.True(t, same)
	same, err = absent.SameAs(a)
	assert.NoError(t, err)
	assert.False(t, same)
}

func TestWorkbook(t *testing.T) {
	wb := NewWorkbook([]*Module{
		NewModule("Sheet1", Document, nil),
		NewModule("Module2", Standard, []string{"second"}),
		NewModule("Module1", Standard, nil),
		NewModule("Module2", Standard, []string{"duplicate"}),
	})
	assert.Equal(t, []string{"Module1", "Module2", "Sheet1"}, wb.Names(true))
	assert.Equal(t, []string{"Module1", "Module2"}, wb.Names(false))
	assert.Equal(t, []string{"second"}, wb.Module("Module2").Code)
	assert.Nil(t, wb.Module("Module3"))

	var none *Workbook
	assert.Nil(t, none.Module("Module1"))
	assert.Empty(t, none.Names(true))
}
