package scanner

import (
	"strings"

	"github.com/dgallion1/notepress/internal/document"
)

// Fence marks the start and end of a code block.
const Fence = "```"

type state int

const (
	stateOutside state = iota
	stateInsideCode
)

// headingPrefixes is checked longest first so "### " never falls through to
// "## " or "# ".
var headingPrefixes = []struct {
	prefix string
	level  int
}{
	{"### ", 3},
	{"## ", 2},
	{"# ", 1},
}

// Normalize rewrites CRLF and lone CR line endings to LF. Callers run it
// before Scan.
func Normalize(text string) string {
	if !strings.Contains(text, "\r") {
		return text
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// Scan splits newline-normalized notes text into a Document.
func Scan(text string) document.Document {
	var (
		blocks []document.Block
		code   []string
		st     = stateOutside
	)

	for line := range strings.Lines(text) {
		line = strings.TrimSuffix(line, "\n")

		if strings.HasPrefix(strings.TrimSpace(line), Fence) {
			switch st {
			case stateOutside:
				st = stateInsideCode
				code = []string{}
			case stateInsideCode:
				blocks = append(blocks, document.CodeBlock{Lines: code})
				code = nil
				st = stateOutside
			}
			continue
		}

		if st == stateInsideCode {
			code = append(code, line)
			continue
		}

		if b, ok := classify(line); ok {
			blocks = append(blocks, b)
		}
	}

	// Unterminated fence: keep whatever was buffered.
	if st == stateInsideCode && len(code) > 0 {
		blocks = append(blocks, document.CodeBlock{Lines: code})
	}

	return document.New(blocks)
}

// classify maps a line outside a code block to a block. Blank lines yield ok=false.
func classify(line string) (document.Block, bool) {
	for _, h := range headingPrefixes {
		if rest, found := strings.CutPrefix(line, h.prefix); found {
			return document.Heading{Level: h.level, Text: strings.TrimRight(rest, " \t")}, true
		}
	}
	text := strings.TrimSpace(line)
	if text == "" {
		return nil, false
	}
	return document.Paragraph{Text: text}, true
}
