package pdf

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"

	"github.com/mind-engage/qbank/internal/bank"
	"github.com/mind-engage/qbank/internal/paper"
)

func TestPlace(t *testing.T) {
	l := Layout{Top: 20, Threshold: 270}
	cases := []struct {
		name  string
		in    Cursor
		h     float64
		at    float64
		next  Cursor
		broke bool
	}{
		{"fits", Cursor{Y: 45, Page: 1}, 7, 45, Cursor{Y: 52, Page: 1}, false},
		{"on threshold", Cursor{Y: 270, Page: 1}, 6, 270, Cursor{Y: 276, Page: 1}, false},
		{"past threshold", Cursor{Y: 270.5, Page: 1}, 6, 20, Cursor{Y: 26, Page: 2}, true},
		{"later page", Cursor{Y: 300, Page: 3}, 10, 20, Cursor{Y: 30, Page: 4}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			at, next, broke := l.Place(tc.in, tc.h)
			if at != tc.at || next != tc.next || broke != tc.broke {
				t.Fatalf("Place(%+v, %v) = %v %+v %v", tc.in, tc.h, at, next, broke)
			}
		})
	}
}

func TestSkipNeverBreaks(t *testing.T) {
	c := Cursor{Y: 268, Page: 1}.Skip(40)
	if c.Y != 308 || c.Page != 1 {
		t.Fatalf("%+v", c)
	}
}

func sampleDoc(n int) paper.Document {
	qs := make([]bank.Question, 0, n)
	for i := 0; i < n; i++ {
		switch i % 3 {
		case 0:
			qs = append(qs, bank.Question{ID: int64(i + 1), Body: &bank.Objective{
				QuestionText: "Which city is the capital of France?",
				Options:      []bank.Option{{Text: "Paris"}, {Text: "London"}, {Text: "Rome"}, {Text: "Berlin"}},
			}})
		case 1:
			qs = append(qs, bank.Question{ID: int64(i + 1), Body: &bank.Srijonshil{
				Prompt: strings.Repeat("A long stimulus paragraph that has to wrap. ", 8),
				SubQuestions: []bank.SubQuestion{
					{QuestionText: "Explain X", QuestionMark: 5},
					{QuestionText: "Explain Y", QuestionMark: 3},
				},
			}})
		default:
			qs = append(qs, bank.Question{ID: int64(i + 1), Body: &bank.Anahote{QuestionText: "Define velocity", QuestionMark: 2}})
		}
	}
	doc, err := paper.Compose(paper.Header{SchoolName: "ABC High", ExamType: "Midterm", Remark: "Answer all questions"}, qs)
	if err != nil {
		panic(err)
	}
	return doc
}

func TestRenderSinglePage(t *testing.T) {
	_, cur, err := Renderer{Layout: A4}.draw(sampleDoc(2))
	if err != nil {
		t.Fatal(err)
	}
	if cur.Page != 1 {
		t.Fatalf("page %d", cur.Page)
	}
}

func TestRenderBreaksPages(t *testing.T) {
	pdf, cur, err := Renderer{Layout: A4}.draw(sampleDoc(30))
	if err != nil {
		t.Fatal(err)
	}
	if cur.Page < 2 {
		t.Fatalf("expected several pages, cursor %+v", cur)
	}
	if pdf.PageCount() != cur.Page {
		t.Fatalf("pdf has %d pages, cursor says %d", pdf.PageCount(), cur.Page)
	}
}

func TestRenderWritesPDF(t *testing.T) {
	var buf bytes.Buffer
	if err := (Renderer{Layout: A4}).Render(&buf, sampleDoc(3)); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("not a pdf: %q", buf.Bytes()[:8])
	}
}

func TestRegistered(t *testing.T) {
	r, ok := paper.Lookup("pdf")
	if !ok || r.Ext() != "pdf" || r.ContentType() != "application/pdf" {
		t.Fatalf("lookup: %v %v", r, ok)
	}
}

func TestLongRemarkPushesQuestionsDown(t *testing.T) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	d := &drawer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), layout: A4}

	d.header(paper.Header{Remark: "Short remark"})
	if d.cur.Y != 55 {
		t.Fatalf("one-line remark: y = %v", d.cur.Y)
	}

	d.header(paper.Header{Remark: strings.Repeat("Answer every question in the space provided. ", 12)})
	lines := len(d.split(strings.Repeat("Answer every question in the space provided. ", 12), remarkWide))
	if lines < 4 {
		t.Fatalf("remark wrapped to only %d lines", lines)
	}
	lastLine := 40 + float64(lines-1)*5
	if d.cur.Y <= lastLine {
		t.Fatalf("cursor y %v overlaps remark ending at %v", d.cur.Y, lastLine)
	}
}
