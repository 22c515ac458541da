package preview

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

// collect returns the text of every element with the given tag.
func collect(t *testing.T, fragment, tag string) []string {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	var out []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, textOf(n))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func TestRender_Headings(t *testing.T) {
	out, err := Render("# One\n## Two\n### Three\n")
	if err != nil {
		t.Fatal(err)
	}
	for tag, want := range map[string]string{"h1": "One", "h2": "Two", "h3": "Three"} {
		got := collect(t, out, tag)
		if len(got) != 1 || got[0] != want {
			t.Errorf("%s: expected [%q], got %q", tag, want, got)
		}
	}
}

func TestRender_HardWraps(t *testing.T) {
	out, err := Render("first line\nsecond line\n")
	if err != nil {
		t.Fatal(err)
	}
	if got := collect(t, out, "br"); len(got) != 1 {
		t.Errorf("expected one <br>, got %d in %q", len(got), out)
	}
}

func TestRender_CodeFence(t *testing.T) {
	out, err := Render("```\nx = 1\n# not a heading\n```\n")
	if err != nil {
		t.Fatal(err)
	}
	code := collect(t, out, "code")
	if len(code) != 1 || code[0] != "x = 1\n# not a heading\n" {
		t.Errorf("unexpected code blocks %q", code)
	}
	if h := collect(t, out, "h1"); len(h) != 0 {
		t.Errorf("fenced content must not become a heading, got %q", h)
	}
}

func TestRender_GFMTable(t *testing.T) {
	out, err := Render("| a | b |\n|---|---|\n| 1 | 2 |\n")
	if err != nil {
		t.Fatal(err)
	}
	if cells := collect(t, out, "td"); len(cells) != 2 {
		t.Errorf("expected 2 table cells, got %q", cells)
	}
}

func TestRender_DropsRawHTML(t *testing.T) {
	out, err := Render("<script>alert(1)</script>\n\nsafe text\n")
	if err != nil {
		t.Fatal(err)
	}
	if s := collect(t, out, "script"); len(s) != 0 {
		t.Errorf("raw html should not pass through: %q", out)
	}
	if !strings.Contains(out, "safe text") {
		t.Errorf("expected remaining text, got %q", out)
	}
}

func TestRender_Empty(t *testing.T) {
	out, err := Render("")
	if err != nil {
		t.Fatal(err)
	}
	if out != "" {
		t.Errorf("expected empty output, got %q", out)
	}
}
