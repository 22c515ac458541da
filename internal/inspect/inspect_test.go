package inspect

import (
	"bytes"
	"testing"

	"github.com/dgallion1/notepress/internal/document"
	"github.com/fumiama/go-docx"
	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDOCX(t *testing.T, build func(f *docx.Docx)) []byte {
	t.Helper()
	f := docx.New().WithDefaultTheme()
	build(f)
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestDOCX_MapsStylesToBlocks(t *testing.T) {
	data := buildDOCX(t, func(f *docx.Docx) {
		f.AddParagraph().Style("Heading1").AddText("Title")
		f.AddParagraph().Style("heading 2").AddText("  Section  ")
		f.AddParagraph().Style("Heading3").AddText("Sub")
		f.AddParagraph().Style("Heading4").AddText("Too deep")
		f.AddParagraph().AddText("Body text")
		f.AddParagraph().AddText("   ")
		f.AddParagraph().Style("CodeBlock").AddText("a\n\tb\nc")
	})

	doc, err := DOCX(data)
	require.NoError(t, err)
	want := []document.Block{
		document.Heading{Level: 1, Text: "Title"},
		document.Heading{Level: 2, Text: "Section"},
		document.Heading{Level: 3, Text: "Sub"},
		document.Paragraph{Text: "Too deep"},
		document.Paragraph{Text: "Body text"},
		document.CodeBlock{Lines: []string{"a", "\tb", "c"}},
	}
	assert.Equal(t, want, doc.Blocks())
}

func TestDOCX_MonospaceRunIsCode(t *testing.T) {
	data := buildDOCX(t, func(f *docx.Docx) {
		f.AddParagraph().AddText("x := 1\ny := 2").Font("Courier New", "Courier New", "Courier New", "")
	})

	doc, err := DOCX(data)
	require.NoError(t, err)
	require.Equal(t, 1, doc.Len())
	assert.Equal(t, document.CodeBlock{Lines: []string{"x := 1", "y := 2"}}, doc.At(0))
}

func TestDOCX_EmptyCodeParagraph(t *testing.T) {
	data := buildDOCX(t, func(f *docx.Docx) {
		f.AddParagraph().Style("CodeBlock").AddText("")
	})
	doc, err := DOCX(data)
	require.NoError(t, err)
	require.Equal(t, 1, doc.Len())
	assert.Equal(t, document.CodeBlock{Lines: []string{}}, doc.At(0))
}

func TestDOCX_RejectsGarbage(t *testing.T) {
	_, err := DOCX([]byte("definitely not a zip"))
	assert.Error(t, err)
}

func TestPDF_ReadsPagesAndText(t *testing.T) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetTitle("Field Guide", true)
	pdf.SetFont("Helvetica", "", 12)
	pdf.AddPage()
	pdf.CellFormat(0, 14, "First page text", "", 1, "L", false, 0, "")
	pdf.AddPage()
	pdf.CellFormat(0, 14, "Second page text", "", 1, "L", false, 0, "")
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))

	info, err := PDF(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 2, info.Pages)
	assert.Equal(t, "Field Guide", info.Title)
	require.Len(t, info.Text, 2)
	assert.Contains(t, info.Text[0], "First page text")
	assert.Contains(t, info.Text[1], "Second page text")
}

func TestPDF_RejectsGarbage(t *testing.T) {
	_, err := PDF([]byte("%PDF-1.4 truncated"))
	assert.Error(t, err)
}
