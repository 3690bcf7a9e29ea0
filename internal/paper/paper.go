// Package paper turns a compose header and an ordered question selection into a
// backend-agnostic document, and hosts the registry of output backends.
package paper

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/text/unicode/norm"

	"github.com/mind-engage/qbank/internal/bank"
)

var (
	ErrEmptySelection = errors.New("please select at least one question first")
	// ErrLabelOverflow is returned for option or sub-question indexes past 'z'.
	ErrLabelOverflow = errors.New("label index out of range a-z")
)

// Letter maps 0 -> "a", 1 -> "b" ... 25 -> "z".
func Letter(i int) (string, error) {
	if i < 0 || i > 25 {
		return "", fmt.Errorf("%w: %d", ErrLabelOverflow, i)
	}
	return string(rune('a' + i)), nil
}

// Header is the exam metadata printed atop a paper. Fields are kept verbatim;
// each backend applies its own placeholder for empty values.
type Header struct {
	SchoolName string
	Location   string
	ClassName  string
	Subject    string
	ExamType   string
	Duration   string
	FullMark   string
	Remark     string
}

// Item is one numbered question with its type-specific sub-layout.
type Item struct {
	Number  int
	Kind    bank.Kind
	Text    string
	Options []string // OBJECTIVE: "a. Paris"
	Parts   []string // SRIJONSHIL: "a) Explain X [5]"
	Marks   string   // ANAHOTE: "[Marks: 5]"
}

type Document struct {
	Header Header
	Items  []Item
}

// Compose builds the document in selection order.
func Compose(h Header, selection []bank.Question) (Document, error) {
	if len(selection) == 0 {
		return Document{}, ErrEmptySelection
	}
	doc := Document{Header: normHeader(h), Items: make([]Item, 0, len(selection))}
	for i, q := range selection {
		it := Item{Number: i + 1, Kind: q.Kind(), Text: clean(q.PrimaryText())}
		switch b := q.Body.(type) {
		case *bank.Objective:
			for j, opt := range b.Options {
				l, err := Letter(j)
				if err != nil {
					return Document{}, fmt.Errorf("question %d option: %w", q.ID, err)
				}
				it.Options = append(it.Options, l+". "+clean(opt.Text))
			}
		case *bank.Srijonshil:
			for j, sq := range b.SubQuestions {
				l, err := Letter(j)
				if err != nil {
					return Document{}, fmt.Errorf("question %d sub-question: %w", q.ID, err)
				}
				line := l + ") " + clean(sq.QuestionText)
				if sq.QuestionMark != 0 {
					line += " [" + FormatMark(sq.QuestionMark) + "]"
				}
				it.Parts = append(it.Parts, line)
			}
		case *bank.Anahote:
			it.Marks = "[Marks: " + FormatMark(b.QuestionMark) + "]"
		default:
			return Document{}, fmt.Errorf("question %d: %w", q.ID, bank.ErrVariantMismatch)
		}
		doc.Items = append(doc.Items, it)
	}
	return doc, nil
}

// FormatMark prints marks without a trailing ".0".
func FormatMark(m float64) string {
	return strconv.FormatFloat(m, 'f', -1, 64)
}

func clean(s string) string { return norm.NFC.String(s) }

func normHeader(h Header) Header {
	return Header{
		SchoolName: clean(h.SchoolName), Location: clean(h.Location),
		ClassName: clean(h.ClassName), Subject: clean(h.Subject),
		ExamType: clean(h.ExamType), Duration: clean(h.Duration),
		FullMark: clean(h.FullMark), Remark: clean(h.Remark),
	}
}

// Or returns def when s is empty.
func Or(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// FileName is the download name for an exported paper: "{examType|Question}-Paper.{ext}".
func FileName(examType, ext string) string {
	return Or(examType, "Question") + "-Paper." + ext
}

// SaveTitle is the stored title of a saved paper: "{examType|Question Paper} - {className}".
// Its fallback is not FileName's; both literals are kept as-is.
func SaveTitle(examType, className string) string {
	return Or(examType, "Question Paper") + " - " + className
}

// Renderer turns a Document into one output format.
type Renderer interface {
	Ext() string
	ContentType() string
	Render(w io.Writer, doc Document) error
}

var registry = map[string]Renderer{}

// Register a renderer under its format key. Call from init() in subpackages.
func Register(format string, r Renderer) { registry[format] = r }

// Lookup returns a registered renderer for a format ("pdf", "docx").
func Lookup(format string) (Renderer, bool) {
	r, ok := registry[format]
	return r, ok
}
