package document

import "strings"

// Kind identifies which variant a Block is.
type Kind string

const (
	KindHeading   Kind = "heading"
	KindCode      Kind = "code"
	KindParagraph Kind = "paragraph"
)

// Block is one classified unit of notes content. The set of implementations
// is closed: Heading, CodeBlock and Paragraph.
type Block interface {
	Kind() Kind
	block()
}

// Heading is a level 1-3 heading line.
type Heading struct {
	Level int    // 1, 2 or 3
	Text  string // Heading text without the leading hashes
}

// CodeBlock holds the lines between a pair of fences, verbatim.
type CodeBlock struct {
	Lines []string
}

// Paragraph is a single trimmed, non-blank line of prose.
type Paragraph struct {
	Text string
}

func (Heading) Kind() Kind   { return KindHeading }
func (CodeBlock) Kind() Kind { return KindCode }
func (Paragraph) Kind() Kind { return KindParagraph }

func (Heading) block()   {}
func (CodeBlock) block() {}
func (Paragraph) block() {}

// Document is the ordered block sequence for one compiled notes artifact.
// It is built once by New and never mutated afterwards.
type Document struct {
	blocks []Block
}

// New builds a Document from blocks. The slice is copied, as are the line
// slices of any CodeBlock, so later changes by the caller do not leak in.
func New(blocks []Block) Document {
	out := make([]Block, len(blocks))
	for i, b := range blocks {
		out[i] = clone(b)
	}
	return Document{blocks: out}
}

// Len returns the number of blocks.
func (d Document) Len() int { return len(d.blocks) }

// Empty reports whether the document has no blocks.
func (d Document) Empty() bool { return len(d.blocks) == 0 }

// At returns block i.
func (d Document) At(i int) Block { return clone(d.blocks[i]) }

// Blocks returns a copy of the block sequence.
func (d Document) Blocks() []Block {
	out := make([]Block, len(d.blocks))
	for i, b := range d.blocks {
		out[i] = clone(b)
	}
	return out
}

// Text returns the text content of a block: heading and paragraph text as-is,
// code lines joined with newlines.
func Text(b Block) string {
	switch b := b.(type) {
	case Heading:
		return b.Text
	case Paragraph:
		return b.Text
	case CodeBlock:
		return strings.Join(b.Lines, "\n")
	}
	return ""
}

func clone(b Block) Block {
	if c, ok := b.(CodeBlock); ok {
		lines := make([]string, len(c.Lines))
		copy(lines, c.Lines)
		return CodeBlock{Lines: lines}
	}
	return b
}
