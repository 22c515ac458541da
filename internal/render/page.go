package render

import (
	"bytes"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/dgallion1/notepress/internal/document"
	"github.com/dgallion1/notepress/internal/style"
	"github.com/jung-kurt/gofpdf"
)

// Epoch is the creation date stamped on artifacts when the renderer has no
// Timestamp. A fixed date keeps identical input producing identical bytes.
var Epoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

const (
	formatPage = "pdf"
	creator    = "notepress"
)

// PageRenderer lays a Document out as a paginated PDF.
type PageRenderer struct {
	Styles style.Tables

	// FontDir, when set, holds <Family>-Regular.ttf for every family in
	// Styles, code included, and <Family>-Bold.ttf for families used bold.
	// Those fonts are embedded as UTF-8; otherwise the cp1252 core fonts are
	// used and characters outside cp1252 print as '.'.
	FontDir string

	// Strict fails the render with ErrEncode when a core font cannot encode
	// some of the text. Otherwise the loss is logged to Log.
	Strict bool
	Log    *slog.Logger

	Timestamp time.Time
}

// NewPageRenderer returns a renderer for the given style tables.
func NewPageRenderer(styles style.Tables) *PageRenderer {
	return &PageRenderer{Styles: styles}
}

// Render produces the PDF bytes for doc. The title goes into the document
// metadata.
func (r *PageRenderer) Render(doc document.Document, title string) ([]byte, error) {
	if err := r.Styles.Validate(); err != nil {
		return nil, failure(formatPage, ErrStyle, err)
	}

	w, err := r.newWriter(title)
	if err != nil {
		return nil, err
	}
	for i, b := range doc.Blocks() {
		if err := w.block(b); err != nil {
			return nil, failure(formatPage, ErrStyle, fmt.Errorf("block %d: %w", i, err))
		}
		if err := w.pdf.Error(); err != nil {
			return nil, failure(formatPage, ErrLayout, fmt.Errorf("block %d: %w", i, err))
		}
	}

	if len(w.lost) > 0 {
		lost := lostRunes(w.lost)
		if r.Strict {
			return nil, failure(formatPage, ErrEncode, fmt.Errorf("no UTF-8 font for %q (set a font directory)", lost))
		}
		r.logger().Warn("pdf text outside cp1252 replaced", "title", Title(title), "chars", lost, "count", len(w.lost))
	}

	var buf bytes.Buffer
	if err := w.pdf.Output(&buf); err != nil {
		return nil, failure(formatPage, ErrEncode, err)
	}
	return buf.Bytes(), nil
}

// pageWriter carries the state of one Render call.
type pageWriter struct {
	pdf       *gofpdf.Fpdf
	styles    style.Tables
	width     float64         // usable text width
	utf8      map[string]bool // families loaded from FontDir
	translate func(string) string
	lost      map[rune]bool // runes the core fonts could not encode
}

func (r *PageRenderer) logger() *slog.Logger {
	if r.Log == nil {
		return slog.Default()
	}
	return r.Log
}

func (r *PageRenderer) newWriter(title string) (*pageWriter, error) {
	l := r.Styles.Layout
	size := l.Size
	if size == "" {
		size = "A4"
	}
	pdf := gofpdf.New("P", "pt", size, r.FontDir)
	pdf.SetMargins(l.MarginLeft, l.MarginTop, l.MarginRight)
	pdf.SetAutoPageBreak(true, l.MarginBottom)

	ts := r.Timestamp
	if ts.IsZero() {
		ts = Epoch
	}
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(ts)
	pdf.SetModificationDate(ts)
	pdf.SetTitle(Title(title), true)
	pdf.SetCreator(creator, false)
	pdf.SetProducer(creator, false)

	w := &pageWriter{
		pdf:       pdf,
		styles:    r.Styles,
		utf8:      make(map[string]bool),
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
		lost:      make(map[rune]bool),
	}
	if err := pdf.Error(); err != nil {
		return nil, failure(formatPage, ErrEncode, err)
	}

	if r.FontDir != "" {
		for _, f := range fontFamilies(r.Styles) {
			pdf.AddUTF8Font(f.name, "", f.name+"-Regular.ttf")
			if f.bold {
				pdf.AddUTF8Font(f.name, "B", f.name+"-Bold.ttf")
			}
			if err := pdf.Error(); err != nil {
				return nil, failure(formatPage, ErrFontLoad, fmt.Errorf("%s: %w", f.name, err))
			}
			w.utf8[strings.ToLower(f.name)] = true
		}
	}

	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()
	w.width = pageW - l.MarginLeft - l.MarginRight
	if w.width <= 0 {
		return nil, failure(formatPage, ErrLayout, fmt.Errorf("margins leave no room on a %s page", size))
	}
	if err := pdf.Error(); err != nil {
		return nil, failure(formatPage, ErrLayout, err)
	}
	return w, nil
}

type fontFamily struct {
	name string
	bold bool
}

// fontFamilies lists every family the page rules use, sorted by name, and
// whether any rule sets it bold.
func fontFamilies(t style.Tables) []fontFamily {
	byName := make(map[string]*fontFamily)
	for _, rule := range t.Page {
		if rule.Font == "" {
			continue
		}
		f, ok := byName[rule.Font]
		if !ok {
			f = &fontFamily{name: rule.Font}
			byName[rule.Font] = f
		}
		f.bold = f.bold || rule.Bold
	}
	out := make([]fontFamily, 0, len(byName))
	for _, f := range byName {
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

func (w *pageWriter) block(b document.Block) error {
	tag, err := style.TagFor(b)
	if err != nil {
		return err
	}
	rule := w.styles.Page[tag]

	w.pdf.Ln(rule.MarginTop)
	w.apply(rule)
	lh := rule.Size * lineHeight(rule)

	switch b := b.(type) {
	case document.Heading:
		if rule.Underline {
			w.decorated(b.Text, rule, lh)
		} else {
			w.pdf.MultiCell(w.width, lh, w.text(rule, b.Text), "", "L", rule.Fill != "")
		}
	case document.Paragraph:
		w.pdf.MultiCell(w.width, lh, w.text(rule, b.Text), "", "L", rule.Fill != "")
	case document.CodeBlock:
		w.pdf.MultiCell(w.width, lh, w.text(rule, strings.Join(b.Lines, "\n")), "", "L", rule.Fill != "")
	default:
		return fmt.Errorf("unhandled block %T", b)
	}

	w.pdf.Ln(rule.MarginBottom)
	return nil
}

func (w *pageWriter) apply(rule style.PageRule) {
	fontStyle := ""
	if rule.Bold {
		fontStyle = "B"
	}
	w.pdf.SetFont(rule.Font, fontStyle, rule.Size)

	cr, cg, cb, _ := style.RGB(rule.Color)
	w.pdf.SetTextColor(cr, cg, cb)
	if rule.Fill != "" {
		fr, fg, fb, _ := style.RGB(rule.Fill)
		w.pdf.SetFillColor(fr, fg, fb)
	}
}

// decorated writes text line by line with a rule under each line in the
// decoration color. gofpdf's own underline always takes the text color.
func (w *pageWriter) decorated(text string, rule style.PageRule, lh float64) {
	pdf := w.pdf
	lines := w.wrap(rule, w.text(rule, text))
	if len(lines) == 0 {
		lines = []string{""}
	}

	dr, dg, db, err := style.RGB(rule.DecorationColor)
	if err != nil {
		dr, dg, db, _ = style.RGB(rule.Color)
	}
	pdf.SetDrawColor(dr, dg, db)
	pdf.SetLineWidth(rule.Size / 16)

	left, _, _, _ := pdf.GetMargins()
	for _, line := range lines {
		pdf.CellFormat(w.width, lh, line, "", 0, "L", rule.Fill != "", 0, "")
		top := pdf.GetY()
		pdf.Ln(lh)
		if line == "" {
			continue
		}
		x := left + pdf.GetCellMargin()
		y := top + lh/2 + rule.Size*0.45
		pdf.Line(x, y, x+pdf.GetStringWidth(line), y)
	}
}

// wrap splits already encoded text at the usable width.
func (w *pageWriter) wrap(rule style.PageRule, text string) []string {
	if w.utf8[strings.ToLower(rule.Font)] {
		return w.pdf.SplitText(text, w.width)
	}
	raw := w.pdf.SplitLines([]byte(text), w.width)
	lines := make([]string, len(raw))
	for i, l := range raw {
		lines[i] = string(l)
	}
	return lines
}

// text encodes s for the rule's font. Core fonts only cover cp1252; runes
// they cannot encode are recorded in w.lost.
func (w *pageWriter) text(rule style.PageRule, s string) string {
	if w.utf8[strings.ToLower(rule.Font)] {
		return s
	}
	for _, c := range s {
		if c >= 0x80 && !w.lost[c] && w.translate(string(c)) == "." {
			w.lost[c] = true
		}
	}
	return w.translate(s)
}

func lostRunes(set map[rune]bool) string {
	rs := make([]rune, 0, len(set))
	for c := range set {
		rs = append(rs, c)
	}
	slices.Sort(rs)
	return string(rs)
}

func lineHeight(rule style.PageRule) float64 {
	if rule.LineHeight <= 0 {
		return 1.2
	}
	return rule.LineHeight
}
