package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/mind-engage/qbank/internal/bank"
	"github.com/mind-engage/qbank/internal/paper"
)

func render(t *testing.T, doc paper.Document) map[string]string {
	t.Helper()
	var buf bytes.Buffer
	if err := (Renderer{}).Render(&buf, doc); err != nil {
		t.Fatal(err)
	}
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatal(err)
	}
	parts := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		b, _ := io.ReadAll(rc)
		rc.Close()
		parts[f.Name] = string(b)
	}
	return parts
}

func wellFormed(t *testing.T, s string) {
	t.Helper()
	d := xml.NewDecoder(strings.NewReader(s))
	for {
		_, err := d.Token()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			t.Fatalf("malformed xml: %v", err)
		}
	}
}

func TestRenderPackage(t *testing.T) {
	doc, err := paper.Compose(paper.Header{SchoolName: "ABC High", ExamType: "Midterm", Remark: "Answer all"}, []bank.Question{
		{ID: 1, Body: &bank.Objective{
			QuestionText: "Capital of France?",
			Options:      []bank.Option{{Text: "Paris"}, {Text: "London"}, {Text: "Rome"}, {Text: "Berlin"}},
		}},
		{ID: 2, Body: &bank.Srijonshil{Prompt: "Stimulus", SubQuestions: []bank.SubQuestion{{QuestionText: "Explain X", QuestionMark: 5}}}},
		{ID: 3, Body: &bank.Anahote{QuestionText: "Define velocity", QuestionMark: 2}},
	})
	if err != nil {
		t.Fatal(err)
	}
	parts := render(t, doc)
	for _, name := range []string{"[Content_Types].xml", "_rels/.rels", "word/document.xml"} {
		if _, ok := parts[name]; !ok {
			t.Fatalf("missing part %s", name)
		}
		wellFormed(t, parts[name])
	}

	body := parts["word/document.xml"]
	for _, want := range []string{
		`xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`,
		"ABC High",
		"Midterm Question Paper",
		"1. Capital of France?",
		"a. Paris", "d. Berlin",
		"<w:tbl>",
		`<w:ind w:left="720">`,
		"a) Explain X [5]",
		"[Marks: 2]",
		`<w:pgSz w:w="11906" w:h="16838">`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("document.xml missing %q", want)
		}
	}
	if strings.Index(body, "1. Capital") > strings.Index(body, "2. Stimulus") {
		t.Error("items out of order")
	}
}

func TestOptionTableTwoPerRow(t *testing.T) {
	tbl := optionTable([]string{"a. 1", "b. 2", "c. 3"})
	if len(tbl.Rows) != 2 || len(tbl.Rows[0].Cells) != 2 || len(tbl.Rows[1].Cells) != 1 {
		t.Fatalf("rows %+v", tbl.Rows)
	}
	if tbl.Props.Borders == nil || tbl.Props.Borders.InsideV.Val != "nil" {
		t.Fatal("table has borders")
	}
}

func TestHeaderPlaceholders(t *testing.T) {
	doc, _ := paper.Compose(paper.Header{}, []bank.Question{{ID: 1, Body: &bank.Anahote{QuestionText: "q"}}})
	body := render(t, doc)["word/document.xml"]
	if !strings.Contains(body, "School Name") || !strings.Contains(body, "Examination Question Paper") {
		t.Fatal("placeholders missing")
	}
	if strings.Contains(body, `w:after="600"`) {
		t.Fatal("remark paragraph rendered without a remark")
	}
}

func TestRegistered(t *testing.T) {
	r, ok := paper.Lookup("docx")
	if !ok || r.Ext() != "docx" {
		t.Fatalf("lookup: %v %v", r, ok)
	}
}

// schemaOrder lists, for each property element we emit, its children in the
// order the WordprocessingML schema requires.
var schemaOrder = map[string][]string{
	"pPr":   {"spacing", "ind", "jc"},
	"rPr":   {"b", "i", "sz"},
	"tblPr": {"tblW", "jc", "tblBorders"},
	"tcPr":  {"tcW", "tcBorders"},
}

func TestPropertyChildOrder(t *testing.T) {
	doc, err := paper.Compose(paper.Header{SchoolName: "ABC High", Remark: "Answer all"}, []bank.Question{
		{ID: 1, Body: &bank.Objective{QuestionText: "q", Options: []bank.Option{{Text: "x"}, {Text: "y"}}}},
		{ID: 2, Body: &bank.Anahote{QuestionText: "Define velocity", QuestionMark: 2}},
	})
	if err != nil {
		t.Fatal(err)
	}
	// a centred paragraph that also carries spacing is the case Word rejected
	p := para(center().after(200).indent(indentLeft), run("x", bold(), italic(), size(20)))
	extra, err := xml.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	body := render(t, doc)["word/document.xml"]

	for _, src := range []string{body, `<w:root xmlns:w="w">` + string(extra) + `</w:root>`} {
		d := xml.NewDecoder(strings.NewReader(src))
		var stack []string
		last := map[int]int{} // depth -> index of last child seen in schemaOrder
		checked := 0
		for {
			tok, err := d.Token()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				t.Fatal(err)
			}
			switch el := tok.(type) {
			case xml.StartElement:
				if n := len(stack); n > 0 {
					if order, ok := schemaOrder[stack[n-1]]; ok {
						idx := slices.Index(order, el.Name.Local)
						if idx < 0 {
							t.Fatalf("unexpected %s in %s", el.Name.Local, stack[n-1])
						}
						if idx < last[n] {
							t.Fatalf("%s out of order in %s", el.Name.Local, stack[n-1])
						}
						last[n] = idx
						checked++
					}
				}
				stack = append(stack, el.Name.Local)
				last[len(stack)] = 0
			case xml.EndElement:
				stack = stack[:len(stack)-1]
			}
		}
		if checked == 0 {
			t.Fatal("no property children checked")
		}
	}
}
