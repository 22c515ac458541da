package quiz

import (
	"bytes"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParse_SingleItem(t *testing.T) {
	p := NewParser(discardLogger())
	got := p.Parse("Question 1:\nWhat is 2+2?\nKorrekt svar:\n4")
	want := []Item{{Question: "What is 2+2?", Answer: "4"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %#v, got %#v", want, got)
	}
}

func TestParse_TwoSegmentsInOrder(t *testing.T) {
	input := "Question 1: First?\nKorrekt svar: A\n\nQuestion 2: Second?\nKorrekt svar: B\n"
	got := NewParser(discardLogger()).Parse(input)
	want := []Item{
		{Question: "First?", Answer: "A"},
		{Question: "Second?", Answer: "B"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %#v, got %#v", want, got)
	}
}

func TestParse_MalformedSegmentIsDropped(t *testing.T) {
	input := strings.Join([]string{
		"Question 1:\nKeep me?\nKorrekt svar:\nyes",
		"Question 2:\nNo answer line here",
		"Question 3:\nKeep me too?\nKorrekt svar:\nalso yes",
	}, "\n")

	var logs bytes.Buffer
	p := NewParser(slog.New(slog.NewTextHandler(&logs, nil)))
	got := p.Parse(input)

	want := []Item{
		{Question: "Keep me?", Answer: "yes"},
		{Question: "Keep me too?", Answer: "also yes"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %#v, got %#v", want, got)
	}
	if !strings.Contains(logs.String(), "skipping malformed quiz segment") {
		t.Errorf("expected a diagnostic for the dropped segment, got logs %q", logs.String())
	}
	if !strings.Contains(logs.String(), "number=2") {
		t.Errorf("expected the diagnostic to name question 2, got logs %q", logs.String())
	}
}

func TestParse_MultiLineAnswerKeepsNewlines(t *testing.T) {
	input := "Question 1:\nName two organelles.\nKorrekt svar:\n  Mitochondria\nRibosome  \n"
	got := NewParser(discardLogger()).Parse(input)
	if len(got) != 1 {
		t.Fatalf("expected 1 item, got %d", len(got))
	}
	if got[0].Answer != "Mitochondria\nRibosome" {
		t.Errorf("expected multi-line answer, got %q", got[0].Answer)
	}
}

func TestParse_MultiLineQuestion(t *testing.T) {
	input := "Question 1:\nGiven x = 2,\nwhat is x * 3?\nKorrekt svar: 6"
	got := NewParser(discardLogger()).Parse(input)
	if len(got) != 1 {
		t.Fatalf("expected 1 item, got %d", len(got))
	}
	if got[0].Question != "Given x = 2,\nwhat is x * 3?" {
		t.Errorf("unexpected question %q", got[0].Question)
	}
}

func TestParse_NumbersAreNotValidated(t *testing.T) {
	input := "Question 7: a?\nKorrekt svar: 1\nQuestion 7: b?\nKorrekt svar: 2\nQuestion 3: c?\nKorrekt svar: 3"
	got := NewParser(discardLogger()).Parse(input)
	if len(got) != 3 {
		t.Fatalf("expected 3 items, got %d", len(got))
	}
	for i, q := range []string{"a?", "b?", "c?"} {
		if got[i].Question != q {
			t.Errorf("item %d: expected %q, got %q", i, q, got[i].Question)
		}
	}
}

func TestParse_PreambleIsIgnored(t *testing.T) {
	input := "Here is your quiz:\n\nQuestion 1: Capital of Denmark?\nKorrekt svar: Copenhagen"
	var logs bytes.Buffer
	got := NewParser(slog.New(slog.NewTextHandler(&logs, nil))).Parse(input)
	want := []Item{{Question: "Capital of Denmark?", Answer: "Copenhagen"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %#v, got %#v", want, got)
	}
	if logs.Len() == 0 {
		t.Error("expected the preamble to be reported as a malformed segment")
	}
}

func TestParse_EmptyAnswerIsDropped(t *testing.T) {
	got := NewParser(discardLogger()).Parse("Question 1: Anything?\nKorrekt svar:   \n")
	if len(got) != 0 {
		t.Errorf("expected no items, got %#v", got)
	}
}

func TestParse_EmptyInput(t *testing.T) {
	p := NewParser(discardLogger())
	for _, input := range []string{"", "   ", "\n\n"} {
		got := p.Parse(input)
		if got == nil {
			t.Fatalf("%q: expected non-nil slice", input)
		}
		if len(got) != 0 {
			t.Errorf("%q: expected 0 items, got %d", input, len(got))
		}
	}
}

func TestParse_NoMarkers(t *testing.T) {
	got := NewParser(discardLogger()).Parse("The model returned prose instead of a quiz.")
	if len(got) != 0 {
		t.Errorf("expected 0 items, got %#v", got)
	}
}

func TestNewParser_NilLogger(t *testing.T) {
	p := NewParser(nil)
	if got := p.Parse("Question 1: x\n"); len(got) != 0 {
		t.Errorf("expected 0 items, got %#v", got)
	}
}
