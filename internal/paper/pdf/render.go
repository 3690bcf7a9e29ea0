package pdf

import (
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/mind-engage/qbank/internal/bank"
	"github.com/mind-engage/qbank/internal/paper"
)

const (
	pageCenter = 105.0

	numberX    = 15.0
	textX      = 22.0
	textWidth  = 170.0
	optionX    = 28.0
	partWidth  = 160.0
	remarkWide = 180.0
)

func init() { paper.Register("pdf", Renderer{Layout: A4}) }

type Renderer struct {
	Layout Layout
}

func (Renderer) Ext() string         { return "pdf" }
func (Renderer) ContentType() string { return "application/pdf" }

func (r Renderer) Render(w io.Writer, doc paper.Document) error {
	pdf, _, err := r.draw(doc)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

// draw lays the document out and returns the final cursor for inspection.
func (r Renderer) draw(doc paper.Document) (*fpdf.Fpdf, Cursor, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	d := &drawer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), layout: r.Layout}

	d.header(doc.Header)
	for _, it := range doc.Items {
		d.item(it)
	}
	if pdf.Err() {
		return nil, d.cur, pdf.Error()
	}
	return pdf, d.cur, nil
}

type drawer struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	layout Layout
	cur    Cursor
}

func (d *drawer) header(h paper.Header) {
	d.pdf.SetFont("Helvetica", "", 16)
	d.centered(paper.Or(h.SchoolName, "School Name"), 15)
	d.pdf.SetFont("Helvetica", "", 12)
	d.centered(paper.Or(h.ExamType, "Examination")+" | Class: "+h.ClassName+" | Subject: "+h.Subject, 25)
	d.centered("Time: "+paper.Or(h.Duration, "—")+" | Full Marks: "+paper.Or(h.FullMark, "—"), 32)

	y := 45.0
	if h.Remark != "" {
		d.pdf.SetFont("Helvetica", "I", 10)
		lines := d.split(h.Remark, remarkWide)
		for i, l := range lines {
			d.centeredRaw(l, 40+float64(i)*5)
		}
		// questions start 10mm below the last remark line
		y = max(55, 40+float64(len(lines)-1)*5+10)
	}
	d.cur = Cursor{Y: y, Page: 1}
}

func (d *drawer) item(it paper.Item) {
	d.pdf.SetFont("Helvetica", "B", 12)
	d.line(numberX, strconv.Itoa(it.Number)+".", 7)

	d.pdf.SetFont("Helvetica", "", 11)
	for _, l := range d.split(it.Text, textWidth) {
		d.lineRaw(textX, l, 6)
	}
	d.cur = d.cur.Skip(4)

	switch it.Kind {
	case bank.KindObjective:
		d.pdf.SetFont("Helvetica", "", 10)
		for _, o := range it.Options {
			d.line(optionX, o, 6)
		}
		d.cur = d.cur.Skip(4)
	case bank.KindSrijonshil:
		d.pdf.SetFont("Helvetica", "", 10)
		for _, p := range it.Parts {
			for _, l := range d.split(p, partWidth) {
				d.lineRaw(optionX, l, 5.5)
			}
			d.cur = d.cur.Skip(2)
		}
		d.cur = d.cur.Skip(6)
	case bank.KindAnahote:
		d.pdf.SetFont("Helvetica", "I", 10)
		d.line(optionX, it.Marks, 10)
	}
	d.cur = d.cur.Skip(8)
}

// split wraps text to width using the current font, returning translated lines.
func (d *drawer) split(s string, width float64) []string {
	if s == "" {
		return nil
	}
	parts := d.pdf.SplitLines([]byte(d.tr(s)), width)
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = string(p)
	}
	return out
}

func (d *drawer) line(x float64, s string, h float64) { d.lineRaw(x, d.tr(s), h) }

func (d *drawer) lineRaw(x float64, s string, h float64) {
	at, next, broke := d.layout.Place(d.cur, h)
	if broke {
		d.pdf.AddPage()
	}
	d.pdf.Text(x, at, s)
	d.cur = next
}

func (d *drawer) centered(s string, y float64) { d.centeredRaw(d.tr(s), y) }

func (d *drawer) centeredRaw(s string, y float64) {
	d.pdf.Text(pageCenter-d.pdf.GetStringWidth(s)/2, y, s)
}
