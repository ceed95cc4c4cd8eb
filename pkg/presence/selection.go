package presence

import (
	"slices"
	"strings"

	"github.com/gnames/gnuuid"
	"github.com/google/uuid"
)

// allKey is the selection key of the "all labels" sentinel. It cannot
// clash with a label list because labels are joined with a unit
// separator.
const allKey = "*all*"

// Selection is the set of group labels a user wants shaded. It has three
// modes: empty (shade nothing), explicit labels, and the "all" sentinel.
type Selection struct {
	all    bool
	labels []string
	set    map[string]struct{}
}

// SelectNone returns an empty selection.
func SelectNone() Selection {
	return Selection{}
}

// SelectAll returns the sentinel selection that matches every label.
func SelectAll() Selection {
	return Selection{all: true}
}

// Select returns a selection of the given labels. Duplicates and empty
// strings are dropped. No labels means an empty selection, not "all".
func Select(labels ...string) Selection {
	res := Selection{set: make(map[string]struct{}, len(labels))}
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if _, ok := res.set[l]; ok {
			continue
		}
		res.set[l] = struct{}{}
		res.labels = append(res.labels, l)
	}
	return res
}

// All is true for the "all labels" sentinel.
func (s Selection) All() bool {
	return s.all
}

// IsEmpty is true when nothing can match.
func (s Selection) IsEmpty() bool {
	return !s.all && len(s.labels) == 0
}

// Has checks if a label matches the selection.
func (s Selection) Has(label string) bool {
	if s.all {
		return true
	}
	_, ok := s.set[label]
	return ok
}

// Labels returns explicitly selected labels in the order they were given.
// It is empty for the "all" sentinel.
func (s Selection) Labels() []string {
	return slices.Clone(s.labels)
}

// Key is a canonical string of the selection: the same set of labels
// gives the same key regardless of order.
func (s Selection) Key() string {
	if s.all {
		return allKey
	}
	sorted := slices.Clone(s.labels)
	slices.Sort(sorted)
	return strings.Join(sorted, "\x1f")
}

// ID is a UUID v5 of the selection key.
func (s Selection) ID() uuid.UUID {
	return gnuuid.New(s.Key())
}
