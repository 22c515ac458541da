package render

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/dgallion1/notepress/internal/document"
	"github.com/dgallion1/notepress/internal/style"
	"github.com/fumiama/go-docx"
)

const formatOffice = "docx"

// OfficeRenderer builds a DOCX package from a Document. Each block becomes
// one paragraph carrying a named style from the office table.
type OfficeRenderer struct {
	Styles    style.Tables
	Timestamp time.Time
}

// NewOfficeRenderer returns a renderer for the given style tables.
func NewOfficeRenderer(styles style.Tables) *OfficeRenderer {
	return &OfficeRenderer{Styles: styles}
}

// Render produces the DOCX bytes for doc with title in the core properties.
func (r *OfficeRenderer) Render(doc document.Document, title string) ([]byte, error) {
	if err := r.Styles.Validate(); err != nil {
		return nil, failure(formatOffice, ErrStyle, err)
	}
	stylesPartXML, err := stylesXML(r.Styles.Office)
	if err != nil {
		return nil, failure(formatOffice, ErrStyle, err)
	}
	ts := r.Timestamp
	if ts.IsZero() {
		ts = Epoch
	}
	corePartXML, err := coreXML(Title(title), ts)
	if err != nil {
		return nil, failure(formatOffice, ErrEncode, err)
	}

	f := docx.New().WithDefaultTheme()
	for i, b := range doc.Blocks() {
		if err := r.paragraph(f, b); err != nil {
			return nil, failure(formatOffice, ErrStyle, fmt.Errorf("block %d: %w", i, err))
		}
	}
	f.WithA4Page()

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, failure(formatOffice, ErrEncode, err)
	}
	out, err := repack(buf.Bytes(), map[string][]byte{
		stylesPart: stylesPartXML,
		corePart:   corePartXML,
	})
	if err != nil {
		return nil, failure(formatOffice, ErrPackage, err)
	}
	return out, nil
}

func (r *OfficeRenderer) paragraph(f *docx.Docx, b document.Block) error {
	tag, err := style.TagFor(b)
	if err != nil {
		return err
	}
	rule := r.Styles.Office[tag]

	switch b := b.(type) {
	case document.Heading:
		f.AddParagraph().Style(rule.StyleID).AddText(b.Text)
	case document.Paragraph:
		f.AddParagraph().Style(rule.StyleID).AddText(b.Text)
	case document.CodeBlock:
		// One run for the whole block; AddText turns each newline into <w:br/>.
		run := f.AddParagraph().Style(rule.StyleID).AddText(strings.Join(b.Lines, "\n"))
		if rule.Font != "" {
			run.Font(rule.Font, rule.Font, rule.Font, "")
		}
		if rule.Shading != "" {
			run.Shade("clear", "auto", strings.TrimPrefix(rule.Shading, "#"))
		}
		preserveSpace(run)
	default:
		return fmt.Errorf("unhandled block %T", b)
	}
	return nil
}

// preserveSpace keeps code indentation from being collapsed by readers.
func preserveSpace(run *docx.Run) {
	for _, c := range run.Children {
		if t, ok := c.(*docx.Text); ok {
			t.XMLSpace = "preserve"
		}
	}
}
