package inspect

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dgallion1/notepress/internal/document"
	"github.com/fumiama/go-docx"
)

// monospace fonts mark a paragraph as code when it has no code style.
var monospace = map[string]bool{
	"consolas":    true,
	"courier":     true,
	"courier new": true,
	"menlo":       true,
}

// DOCX maps the paragraphs of a DOCX package back onto document blocks:
// Heading1-3 styles become headings, the CodeBlock style or a monospace run
// becomes a code block, and any other non-empty paragraph becomes a
// paragraph.
func DOCX(data []byte) (document.Document, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return document.Document{}, fmt.Errorf("parse docx: %w", err)
	}

	var blocks []document.Block
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}

		text := docxParagraphText(para)
		if isCode(para) {
			lines := []string{}
			if text != "" {
				lines = strings.Split(text, "\n")
			}
			blocks = append(blocks, document.CodeBlock{Lines: lines})
			continue
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if level := docxHeadingLevel(para); level > 0 {
			blocks = append(blocks, document.Heading{Level: level, Text: text})
			continue
		}
		blocks = append(blocks, document.Paragraph{Text: text})
	}
	return document.New(blocks), nil
}

// docxHeadingLevel accepts both style ids ("Heading2") and names
// ("heading 2"). Levels past 3 have no block and read as paragraphs.
func docxHeadingLevel(para *docx.Paragraph) int {
	switch s := strings.ToLower(paragraphStyle(para)); s {
	case "heading1", "heading 1":
		return 1
	case "heading2", "heading 2":
		return 2
	case "heading3", "heading 3":
		return 3
	}
	return 0
}

func isCode(para *docx.Paragraph) bool {
	switch strings.ToLower(paragraphStyle(para)) {
	case "codeblock", "code block":
		return true
	}
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok || run.RunProperties == nil || run.RunProperties.Fonts == nil {
			continue
		}
		if monospace[strings.ToLower(run.RunProperties.Fonts.ASCII)] {
			return true
		}
	}
	return false
}

func paragraphStyle(para *docx.Paragraph) string {
	if para.Properties == nil || para.Properties.Style == nil {
		return ""
	}
	return para.Properties.Style.Val
}

// docxParagraphText joins the runs of a paragraph. Line breaks and tabs
// inside runs come back as "\n" and "\t".
func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			switch rc := rc.(type) {
			case *docx.Text:
				buf.WriteString(rc.Text)
			case *docx.BarterRabbet:
				buf.WriteByte('\n')
			case *docx.Tab:
				buf.WriteByte('\t')
			}
		}
	}
	return buf.String()
}
