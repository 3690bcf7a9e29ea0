package compose

import "github.com/mind-engage/qbank/internal/bank"

// Selection is an ordered set of questions, unique by id, in the order they were
// picked. Methods return a new value and never mutate the receiver's backing array.
type Selection struct {
	qs []bank.Question
}

func (s Selection) Has(id int64) bool {
	for _, q := range s.qs {
		if q.ID == id {
			return true
		}
	}
	return false
}

// Add appends q unless it is already selected.
func (s Selection) Add(q bank.Question) Selection {
	if s.Has(q.ID) {
		return s
	}
	out := make([]bank.Question, len(s.qs), len(s.qs)+1)
	copy(out, s.qs)
	return Selection{qs: append(out, q)}
}

func (s Selection) Remove(id int64) Selection {
	out := make([]bank.Question, 0, len(s.qs))
	for _, q := range s.qs {
		if q.ID != id {
			out = append(out, q)
		}
	}
	return Selection{qs: out}
}

// Toggle mirrors a checkbox: checked adds, unchecked removes.
func (s Selection) Toggle(q bank.Question, checked bool) Selection {
	if checked {
		return s.Add(q)
	}
	return s.Remove(q.ID)
}

func (s Selection) Len() int { return len(s.qs) }

func (s Selection) Questions() []bank.Question {
	return append([]bank.Question(nil), s.qs...)
}

func (s Selection) IDs() []int64 {
	ids := make([]int64, len(s.qs))
	for i, q := range s.qs {
		ids[i] = q.ID
	}
	return ids
}
