package document

import "encoding/json"

// JSON shapes:
//
//	{"kind":"heading","level":2,"text":"..."}
//	{"kind":"code","lines":["..."]}
//	{"kind":"paragraph","text":"..."}

func (h Heading) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind  Kind   `json:"kind"`
		Level int    `json:"level"`
		Text  string `json:"text"`
	}{KindHeading, h.Level, h.Text})
}

func (c CodeBlock) MarshalJSON() ([]byte, error) {
	lines := c.Lines
	if lines == nil {
		lines = []string{}
	}
	return json.Marshal(struct {
		Kind  Kind     `json:"kind"`
		Lines []string `json:"lines"`
	}{KindCode, lines})
}

func (p Paragraph) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind Kind   `json:"kind"`
		Text string `json:"text"`
	}{KindParagraph, p.Text})
}

// MarshalJSON encodes the document as an array of blocks.
func (d Document) MarshalJSON() ([]byte, error) {
	if d.blocks == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(d.blocks)
}
