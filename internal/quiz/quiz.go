package quiz

import (
	"log/slog"
	"regexp"
	"strings"
)

// Item is one question/answer pair extracted from a quiz transcript.
type Item struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

var (
	// questionMarker starts a new segment. The number is captured for logging
	// only; items are ordered by position.
	questionMarker = regexp.MustCompile(`Question (\d+):`)

	// segmentPattern is matched against one whole segment.
	segmentPattern = regexp.MustCompile(`(?s)Question \d+:\s*(.*?)\nKorrekt svar:\s*(.*)`)
)

// Parser extracts quiz items from generated transcripts. It keeps no state
// between calls and is safe for concurrent use.
type Parser struct {
	log *slog.Logger
}

// NewParser returns a Parser that reports malformed segments to log.
func NewParser(log *slog.Logger) *Parser {
	if log == nil {
		log = slog.Default()
	}
	return &Parser{log: log}
}

// Parse splits text into items. Segments that do not have the expected
// question/answer shape are logged and skipped. The result is never nil.
func (p *Parser) Parse(text string) []Item {
	items := make([]Item, 0)
	for i, seg := range splitSegments(text) {
		if strings.TrimSpace(seg) == "" {
			continue
		}
		item, ok := parseSegment(seg)
		if !ok {
			p.log.Warn("skipping malformed quiz segment",
				"segment", i,
				"number", segmentNumber(seg),
				"preview", preview(seg, 80),
			)
			continue
		}
		items = append(items, item)
	}
	return items
}

// splitSegments cuts text in front of every question marker. Text ahead of
// the first marker is returned as its own segment.
func splitSegments(text string) []string {
	locs := questionMarker.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return []string{text}
	}
	segs := make([]string, 0, len(locs)+1)
	if locs[0][0] > 0 {
		segs = append(segs, text[:locs[0][0]])
	}
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		segs = append(segs, text[loc[0]:end])
	}
	return segs
}

func parseSegment(seg string) (Item, bool) {
	m := segmentPattern.FindStringSubmatch(seg)
	if m == nil {
		return Item{}, false
	}
	q := strings.TrimSpace(m[1])
	a := strings.TrimSpace(m[2])
	if q == "" || a == "" {
		return Item{}, false
	}
	return Item{Question: q, Answer: a}, true
}

func segmentNumber(seg string) string {
	if m := questionMarker.FindStringSubmatch(seg); m != nil {
		return m[1]
	}
	return ""
}

func preview(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
