package docx

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"strconv"

	"github.com/mind-engage/qbank/internal/bank"
	"github.com/mind-engage/qbank/internal/paper"
)

func init() { paper.Register("docx", Renderer{}) }

// Renderer writes a minimal WordprocessingML package: content types, package
// relationships and the main document part. Word reflows it, so there is no
// pagination here.
type Renderer struct{}

func (Renderer) Ext() string { return "docx" }
func (Renderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}

func (Renderer) Render(w io.Writer, doc paper.Document) error {
	zw := zip.NewWriter(w)
	parts := []struct{ name, body string }{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", packageRelsXML},
	}
	for _, p := range parts {
		f, err := zw.Create(p.name)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(f, p.body); err != nil {
			return err
		}
	}

	f, err := zw.Create("word/document.xml")
	if err != nil {
		return err
	}
	if _, err := io.WriteString(f, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(f)
	if err := enc.Encode(build(doc)); err != nil {
		return err
	}
	return zw.Close()
}

const contentTypesXML = xml.Header + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const packageRelsXML = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

// indent for sub-questions and mark annotations, in twips
const indentLeft = 720

func build(doc paper.Document) document {
	h := doc.Header
	var blocks []any
	blocks = append(blocks,
		para(center(), run(paper.Or(h.SchoolName, "School Name"), bold(), size(32))),
		para(center().after(200), run(paper.Or(h.ExamType, "Examination")+" Question Paper", bold(), size(28))),
		para(center().after(400), run("Class: "+paper.Or(h.ClassName, "—")+
			" | Subject: "+paper.Or(h.Subject, "—")+
			" | Time: "+paper.Or(h.Duration, "—")+
			" | Marks: "+paper.Or(h.FullMark, "—"), size(24))),
	)
	if h.Remark != "" {
		blocks = append(blocks, para(center().after(600), run(h.Remark, italic(), size(22))))
	}

	for _, it := range doc.Items {
		blocks = append(blocks, para(pPr{}.after(200), run(strconv.Itoa(it.Number)+". "+it.Text, bold())))
		switch it.Kind {
		case bank.KindObjective:
			if len(it.Options) > 0 {
				blocks = append(blocks, optionTable(it.Options))
			}
		case bank.KindSrijonshil:
			for _, p := range it.Parts {
				blocks = append(blocks, para(pPr{}.indent(indentLeft), run(p)))
			}
		case bank.KindAnahote:
			blocks = append(blocks, para(pPr{}.indent(indentLeft), run(it.Marks, italic())))
		}
		blocks = append(blocks, para(pPr{}.after(400)))
	}
	return document{
		XmlnsW: "http://schemas.openxmlformats.org/wordprocessingml/2006/main",
		Body:   body{Blocks: blocks, Sect: &sectPr{PgSz: pgSz{W: 11906, H: 16838}}},
	}
}

// optionTable lays options out two per row in a borderless full-width table.
func optionTable(opts []string) table {
	t := table{
		Props: tblPr{
			Width:   widthSpec{W: 5000, Type: "pct"},
			Borders: noBorders(),
		},
		Grid: tblGrid{Cols: []gridCol{{}, {}}},
	}
	for i := 0; i < len(opts); i += 2 {
		row := tableRow{Cells: []tableCell{cell(opts[i])}}
		if i+1 < len(opts) {
			row.Cells = append(row.Cells, cell(opts[i+1]))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func cell(text string) tableCell {
	return tableCell{
		Props: tcPr{Width: widthSpec{W: 2500, Type: "pct"}, Borders: noBorders()},
		Paras: []paragraph{para(pPr{}, run(text))},
	}
}

func noBorders() *borders {
	none := &border{Val: "nil"}
	return &borders{Top: none, Left: none, Bottom: none, Right: none, InsideH: none, InsideV: none}
}

// ---- paragraph builders ----

func para(p pPr, runs ...textRun) paragraph {
	out := paragraph{Runs: runs}
	if p.Jc != nil || p.Spacing != nil || p.Ind != nil {
		out.Props = &p
	}
	return out
}

func center() pPr { return pPr{Jc: &valAttr{Val: "center"}} }

func (p pPr) after(twips int) pPr {
	p.Spacing = &spacing{After: twips}
	return p
}

func (p pPr) indent(twips int) pPr {
	p.Ind = &ind{Left: twips}
	return p
}

type runOpt func(*rPr)

func bold() runOpt   { return func(r *rPr) { r.B = &empty{} } }
func italic() runOpt { return func(r *rPr) { r.I = &empty{} } }

// size is in half-points.
func size(hp int) runOpt {
	return func(r *rPr) { r.Sz = &valAttr{Val: strconv.Itoa(hp)} }
}

func run(text string, opts ...runOpt) textRun {
	r := textRun{Text: wText{Space: "preserve", Value: text}}
	if len(opts) > 0 {
		props := &rPr{}
		for _, o := range opts {
			o(props)
		}
		r.Props = props
	}
	return r
}

// ---- WordprocessingML subset ----

type document struct {
	XMLName xml.Name `xml:"w:document"`
	XmlnsW  string   `xml:"xmlns:w,attr"`
	Body    body     `xml:"w:body"`
}

type body struct {
	Blocks []any   // paragraph | table, in document order
	Sect   *sectPr `xml:"w:sectPr"`
}

type sectPr struct {
	PgSz pgSz `xml:"w:pgSz"`
}

// A4 in twips.
type pgSz struct {
	W int `xml:"w:w,attr"`
	H int `xml:"w:h,attr"`
}

type paragraph struct {
	XMLName xml.Name  `xml:"w:p"`
	Props   *pPr      `xml:"w:pPr,omitempty"`
	Runs    []textRun `xml:"w:r"`
}

// Field order follows the CT_PPr sequence; Word rejects out-of-order children.
type pPr struct {
	Spacing *spacing `xml:"w:spacing,omitempty"`
	Ind     *ind     `xml:"w:ind,omitempty"`
	Jc      *valAttr `xml:"w:jc,omitempty"`
}

type valAttr struct {
	Val string `xml:"w:val,attr"`
}

type spacing struct {
	After int `xml:"w:after,attr"`
}

type ind struct {
	Left int `xml:"w:left,attr"`
}

type textRun struct {
	Props *rPr  `xml:"w:rPr,omitempty"`
	Text  wText `xml:"w:t"`
}

type rPr struct {
	B  *empty   `xml:"w:b,omitempty"`
	I  *empty   `xml:"w:i,omitempty"`
	Sz *valAttr `xml:"w:sz,omitempty"`
}

type empty struct{}

type wText struct {
	Space string `xml:"xml:space,attr"`
	Value string `xml:",chardata"`
}

type table struct {
	XMLName xml.Name   `xml:"w:tbl"`
	Props   tblPr      `xml:"w:tblPr"`
	Grid    tblGrid    `xml:"w:tblGrid"`
	Rows    []tableRow `xml:"w:tr"`
}

type tblPr struct {
	Width   widthSpec `xml:"w:tblW"`
	Borders *borders  `xml:"w:tblBorders,omitempty"`
}

type tblGrid struct {
	Cols []gridCol `xml:"w:gridCol"`
}

type gridCol struct{}

type widthSpec struct {
	W    int    `xml:"w:w,attr"`
	Type string `xml:"w:type,attr"`
}

type borders struct {
	Top     *border `xml:"w:top,omitempty"`
	Left    *border `xml:"w:left,omitempty"`
	Bottom  *border `xml:"w:bottom,omitempty"`
	Right   *border `xml:"w:right,omitempty"`
	InsideH *border `xml:"w:insideH,omitempty"`
	InsideV *border `xml:"w:insideV,omitempty"`
}

type border struct {
	Val string `xml:"w:val,attr"`
}

type tableRow struct {
	Cells []tableCell `xml:"w:tc"`
}

type tableCell struct {
	Props tcPr        `xml:"w:tcPr"`
	Paras []paragraph `xml:"w:p"`
}

type tcPr struct {
	Width   widthSpec `xml:"w:tcW"`
	Borders *borders  `xml:"w:tcBorders,omitempty"`
}
