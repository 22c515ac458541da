package style

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dgallion1/notepress/internal/document"
)

// Tag names the presentation role of a block.
type Tag string

const (
	TagH1        Tag = "h1"
	TagH2        Tag = "h2"
	TagH3        Tag = "h3"
	TagParagraph Tag = "paragraph"
	TagCode      Tag = "code"
)

// Tags lists every tag a complete table must define.
var Tags = []Tag{TagH1, TagH2, TagH3, TagParagraph, TagCode}

// ErrInvalid is returned for style tables that are incomplete or break the
// heading hierarchy.
var ErrInvalid = errors.New("invalid style table")

// TagFor maps a block to its style tag. Both renderers go through here.
func TagFor(b document.Block) (Tag, error) {
	switch b := b.(type) {
	case document.Heading:
		switch b.Level {
		case 1:
			return TagH1, nil
		case 2:
			return TagH2, nil
		case 3:
			return TagH3, nil
		}
		return "", fmt.Errorf("heading level %d out of range", b.Level)
	case document.Paragraph:
		return TagParagraph, nil
	case document.CodeBlock:
		return TagCode, nil
	}
	return "", fmt.Errorf("unknown block type %T", b)
}

// PageRule is the page-description styling for one tag. Sizes and margins
// are in points.
type PageRule struct {
	Font            string  `yaml:"font"`
	Size            float64 `yaml:"size"`
	Bold            bool    `yaml:"bold"`
	Color           string  `yaml:"color"`
	Underline       bool    `yaml:"underline"`
	DecorationColor string  `yaml:"decoration_color"`
	MarginTop       float64 `yaml:"margin_top"`
	MarginBottom    float64 `yaml:"margin_bottom"`
	LineHeight      float64 `yaml:"line_height"` // multiple of the font size
	Fill            string  `yaml:"fill"`        // background, empty for none
}

// PageLayout is the fixed page geometry.
type PageLayout struct {
	Size         string  `yaml:"size"`
	MarginLeft   float64 `yaml:"margin_left"`
	MarginTop    float64 `yaml:"margin_top"`
	MarginRight  float64 `yaml:"margin_right"`
	MarginBottom float64 `yaml:"margin_bottom"`
}

// OfficeRule is the flow-document styling for one tag. Size is in half
// points, spacing in twentieths of a point, as the office format stores them.
type OfficeRule struct {
	StyleID        string `yaml:"style_id"`
	Name           string `yaml:"name"`
	Font           string `yaml:"font"`
	Size           int    `yaml:"size"`
	Bold           bool   `yaml:"bold"`
	Color          string `yaml:"color"`
	Underline      bool   `yaml:"underline"`
	UnderlineColor string `yaml:"underline_color"`
	SpaceBefore    int    `yaml:"space_before"`
	SpaceAfter     int    `yaml:"space_after"`
	Shading        string `yaml:"shading"`
}

// Tables holds both renderer style tables.
type Tables struct {
	Layout PageLayout         `yaml:"layout"`
	Page   map[Tag]PageRule   `yaml:"page"`
	Office map[Tag]OfficeRule `yaml:"office"`
}

// Default returns the built-in tables. Each call returns fresh maps.
func Default() Tables {
	return Tables{
		Layout: PageLayout{
			Size:         "A4",
			MarginLeft:   40,
			MarginTop:    60,
			MarginRight:  40,
			MarginBottom: 60,
		},
		Page: map[Tag]PageRule{
			TagH1:        {Font: "Helvetica", Size: 20, Bold: true, Color: "#581F18", Underline: true, DecorationColor: "#F18805", MarginTop: 14, MarginBottom: 8, LineHeight: 1.2},
			TagH2:        {Font: "Helvetica", Size: 16, Bold: true, Color: "#581F18", MarginTop: 10, MarginBottom: 6, LineHeight: 1.2},
			TagH3:        {Font: "Helvetica", Size: 14, Bold: true, Color: "#581F18", MarginTop: 8, MarginBottom: 5, LineHeight: 1.2},
			TagParagraph: {Font: "Helvetica", Size: 11, Color: "#2E2E2E", MarginTop: 3, MarginBottom: 6, LineHeight: 1.4},
			TagCode:      {Font: "Courier", Size: 10, Color: "#581F18", Fill: "#FFF9F5", MarginTop: 4, MarginBottom: 8, LineHeight: 1.3},
		},
		Office: map[Tag]OfficeRule{
			TagH1:        {StyleID: "Heading1", Name: "heading 1", Size: 40, Bold: true, Color: "581F18", Underline: true, UnderlineColor: "F18805", SpaceBefore: 240, SpaceAfter: 120},
			TagH2:        {StyleID: "Heading2", Name: "heading 2", Size: 32, Bold: true, Color: "581F18", SpaceBefore: 200, SpaceAfter: 100},
			TagH3:        {StyleID: "Heading3", Name: "heading 3", Size: 28, Bold: true, Color: "581F18", SpaceBefore: 160, SpaceAfter: 90},
			TagParagraph: {StyleID: "Normal", Name: "Normal", Size: 22, Color: "2E2E2E", SpaceAfter: 100},
			TagCode:      {StyleID: "CodeBlock", Name: "Code Block", Font: "Consolas", Size: 20, Color: "581F18", SpaceBefore: 200, SpaceAfter: 200, Shading: "FFF9F5"},
		},
	}
}

// Validate checks that both tables are complete and that headings keep
// their visual order: h1 is never smaller or tighter than h2, h2 than h3.
func (t Tables) Validate() error {
	for _, tag := range Tags {
		if _, ok := t.Page[tag]; !ok {
			return fmt.Errorf("%w: page table has no %q rule", ErrInvalid, tag)
		}
		if _, ok := t.Office[tag]; !ok {
			return fmt.Errorf("%w: office table has no %q rule", ErrInvalid, tag)
		}
	}

	for tag, r := range t.Page {
		if r.Size <= 0 {
			return fmt.Errorf("%w: page %q size must be positive", ErrInvalid, tag)
		}
		for _, c := range []string{r.Color, r.DecorationColor, r.Fill} {
			if c == "" {
				continue
			}
			if _, _, _, err := RGB(c); err != nil {
				return fmt.Errorf("%w: page %q: %v", ErrInvalid, tag, err)
			}
		}
	}
	for tag, r := range t.Office {
		if r.StyleID == "" || r.Size <= 0 {
			return fmt.Errorf("%w: office %q needs a style id and a positive size", ErrInvalid, tag)
		}
	}

	headings := []Tag{TagH1, TagH2, TagH3}
	for i := 1; i < len(headings); i++ {
		hi, lo := headings[i-1], headings[i]
		if t.Page[hi].Size < t.Page[lo].Size || t.Page[hi].MarginTop < t.Page[lo].MarginTop {
			return fmt.Errorf("%w: page %s must not be smaller than %s", ErrInvalid, hi, lo)
		}
		if t.Office[hi].Size < t.Office[lo].Size || t.Office[hi].SpaceBefore < t.Office[lo].SpaceBefore {
			return fmt.Errorf("%w: office %s must not be smaller than %s", ErrInvalid, hi, lo)
		}
	}
	if t.Layout.MarginLeft < 0 || t.Layout.MarginTop < 0 || t.Layout.MarginRight < 0 || t.Layout.MarginBottom < 0 {
		return fmt.Errorf("%w: negative page margin", ErrInvalid)
	}
	return nil
}

// RGB parses "#RRGGBB" or "RRGGBB".
func RGB(hex string) (r, g, b int, err error) {
	s := strings.TrimPrefix(hex, "#")
	if len(s) != 6 {
		return 0, 0, 0, fmt.Errorf("bad color %q", hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("bad color %q", hex)
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), nil
}
