package compose

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/mind-engage/qbank/internal/bank"
	"github.com/mind-engage/qbank/internal/paper"
)

var ErrFullMarkNotNumeric = errors.New("full mark must be a number")

// Header is the editable working copy of the exam header. Every field is free
// text while editing; FullMark is only parsed when the paper is saved.
type Header struct {
	SchoolName string `json:"schoolName"`
	Location   string `json:"location"`
	ClassName  string `json:"className"`
	Subject    string `json:"subject"`
	ExamType   string `json:"examType"`
	Duration   string `json:"duration"`
	FullMark   string `json:"fullMark"`
	Remark     string `json:"remark"`
}

// FromTemplate copies every field of t; nothing from a previous header survives.
func FromTemplate(t bank.HeaderTemplate) Header {
	h := Header{
		SchoolName: t.SchoolName,
		Location:   t.Location,
		ClassName:  t.ClassName,
		Subject:    t.Subject,
		ExamType:   t.ExamType,
		Duration:   t.Duration,
		FullMark:   paper.FormatMark(t.FullMark),
	}
	if t.Remark != nil {
		h.Remark = *t.Remark
	}
	return h
}

// UnmarshalJSON accepts fullMark as either a string or a number.
func (h *Header) UnmarshalJSON(data []byte) error {
	type plain Header
	var w struct {
		plain
		FullMark json.RawMessage `json:"fullMark"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*h = Header(w.plain)
	h.FullMark = ""
	raw := strings.TrimSpace(string(w.FullMark))
	switch {
	case raw == "" || raw == "null":
	case raw[0] == '"':
		if err := json.Unmarshal(w.FullMark, &h.FullMark); err != nil {
			return err
		}
	default:
		var n json.Number
		if err := json.Unmarshal(w.FullMark, &n); err != nil {
			return ErrFullMarkNotNumeric
		}
		h.FullMark = n.String()
	}
	return nil
}

// Overlay returns h with every non-empty field of edits applied on top.
func (h Header) Overlay(edits Header) Header {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&h.SchoolName, edits.SchoolName)
	set(&h.Location, edits.Location)
	set(&h.ClassName, edits.ClassName)
	set(&h.Subject, edits.Subject)
	set(&h.ExamType, edits.ExamType)
	set(&h.Duration, edits.Duration)
	set(&h.FullMark, edits.FullMark)
	set(&h.Remark, edits.Remark)
	return h
}

func (h Header) Paper() paper.Header {
	return paper.Header(h)
}

// PaperHeader converts to the persisted form. An empty full mark becomes 0.
func (h Header) PaperHeader() (bank.PaperHeader, error) {
	var fm float64
	if s := strings.TrimSpace(h.FullMark); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return bank.PaperHeader{}, ErrFullMarkNotNumeric
		}
		fm = v
	}
	return bank.PaperHeader{
		SchoolName: h.SchoolName,
		Location:   h.Location,
		ClassName:  h.ClassName,
		Subject:    h.Subject,
		ExamType:   h.ExamType,
		Duration:   h.Duration,
		FullMark:   fm,
		Remark:     h.Remark,
	}, nil
}
