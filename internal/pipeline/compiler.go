package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgallion1/notepress/internal/document"
	"github.com/dgallion1/notepress/internal/render"
	"github.com/dgallion1/notepress/internal/scanner"
	"github.com/dgallion1/notepress/internal/style"
	"github.com/dustin/go-humanize"
)

// Format is an output artifact format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// Formats lists every supported output format.
var Formats = []Format{FormatPDF, FormatDOCX}

// ErrUnknownFormat is returned for a format name that has no renderer.
var ErrUnknownFormat = errors.New("unknown format")

// ParseFormat accepts a format name in any case.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w %q (want pdf or docx)", ErrUnknownFormat, s)
}

// Renderer turns a Document into artifact bytes.
type Renderer interface {
	Render(doc document.Document, title string) ([]byte, error)
}

// Artifact is a finished, ready-to-save output file.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Compiler runs text through the scanner and one of the renderers. It is
// safe for concurrent use.
type Compiler struct {
	renderers map[Format]Renderer
	stats     *RenderStats
	log       *slog.Logger
}

// PageOptions configures the PDF renderer.
type PageOptions struct {
	FontDir string // UTF-8 TrueType fonts, see render.PageRenderer
	Strict  bool   // fail instead of dropping characters outside cp1252
}

// NewCompiler wires the PDF and DOCX renderers for the given style tables.
func NewCompiler(styles style.Tables, opts PageOptions, stats *RenderStats, log *slog.Logger) *Compiler {
	if log == nil {
		log = slog.Default()
	}
	page := render.NewPageRenderer(styles)
	page.FontDir = opts.FontDir
	page.Strict = opts.Strict
	page.Log = log
	return NewCompilerWith(map[Format]Renderer{
		FormatPDF:  page,
		FormatDOCX: render.NewOfficeRenderer(styles),
	}, stats, log)
}

// NewCompilerWith uses the given renderers. Tests substitute their own.
func NewCompilerWith(renderers map[Format]Renderer, stats *RenderStats, log *slog.Logger) *Compiler {
	if stats == nil {
		stats = NewRenderStats(time.Hour)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Compiler{renderers: renderers, stats: stats, log: log}
}

// Scan normalizes line endings and splits text into blocks.
func (c *Compiler) Scan(text string) document.Document {
	return scanner.Scan(scanner.Normalize(text))
}

// Render produces the artifact for doc in format f.
func (c *Compiler) Render(f Format, doc document.Document, title string) (Artifact, error) {
	r, ok := c.renderers[f]
	if !ok {
		return Artifact{}, fmt.Errorf("%w %q", ErrUnknownFormat, f)
	}

	start := time.Now()
	data, err := r.Render(doc, title)
	elapsed := time.Since(start)
	if err != nil {
		c.stats.RecordFailure(f)
		c.log.Error("render failed", "format", f, "blocks", doc.Len(), "reason", render.Reason(err), "error", err)
		return Artifact{}, err
	}
	c.stats.Record(f, elapsed)

	a := Artifact{Data: data}
	switch f {
	case FormatPDF:
		a.Filename, a.ContentType = render.PageFilename(title), render.PageContentType
	case FormatDOCX:
		a.Filename, a.ContentType = render.OfficeFilename(title), render.OfficeContentType
	}
	c.log.Info("rendered",
		"format", f,
		"file", a.Filename,
		"blocks", doc.Len(),
		"size", humanize.Bytes(uint64(len(data))),
		"duration_ms", elapsed.Milliseconds(),
	)
	return a, nil
}

// Compile scans text and renders it in one call.
func (c *Compiler) Compile(f Format, text, title string) (Artifact, error) {
	return c.Render(f, c.Scan(text), title)
}

// Stats returns the render latency tracker.
func (c *Compiler) Stats() *RenderStats {
	return c.stats
}
