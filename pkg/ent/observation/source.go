package observation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"slices"
	"strings"
)

// Source is the canonical in-memory form of the observation document:
// groups in document order.
type Source struct {
	Groups []Group
}

type groupJSON struct {
	Label           string   `json:"label"`
	CommonName      string   `json:"commonName"`
	ScientificTaxa  []string `json:"scientificTaxa"`
	ScientificNames []string `json:"scientificNames"`
	Entries         []Entry  `json:"entries"`
}

// Decode accepts both shapes of the observation document: a mapping from
// group key to group, or a flat list of entries that carry their own
// labels. Key order of the mapping is preserved.
func Decode(data []byte) (*Source, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ShapeError("empty document")
	}

	switch data[0] {
	case '{':
		return decodeGrouped(data)
	case '[':
		return decodeFlat(data)
	default:
		return nil, ShapeError("document must be a JSON object or array")
	}
}

func decodeGrouped(data []byte) (*Source, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	// opening brace
	if _, err := dec.Token(); err != nil {
		return nil, DecodeError("", err)
	}

	res := &Source{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, DecodeError("", err)
		}
		key, _ := tok.(string)

		var gj groupJSON
		if err = dec.Decode(&gj); err != nil {
			return nil, DecodeError(key, err)
		}

		label := firstNonEmpty(gj.Label, gj.CommonName)
		if label == "" {
			return nil, LabelMissingError(key)
		}

		taxa := gj.ScientificTaxa
		if len(taxa) == 0 {
			taxa = gj.ScientificNames
		}

		res.Groups = append(res.Groups, Group{
			Key:            key,
			Label:          label,
			ScientificTaxa: cleanTaxa(taxa),
			Entries:        gj.Entries,
		})
	}
	return res, nil
}

func decodeFlat(data []byte) (*Source, error) {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, DecodeError("", err)
	}
	return FromEntries(entries)
}

// FromEntries groups flat entries by label in first-seen order.
func FromEntries(entries []Entry) (*Source, error) {
	res := &Source{}
	idx := make(map[string]int)
	for i, e := range entries {
		label := firstNonEmpty(e.Label, e.CommonName)
		if label == "" {
			return nil, LabelMissingError(fmt.Sprintf("entry %d", i))
		}

		j, ok := idx[label]
		if !ok {
			j = len(res.Groups)
			idx[label] = j
			res.Groups = append(res.Groups, Group{Key: label, Label: label})
		}

		g := &res.Groups[j]
		taxa := e.ScientificTaxa
		if e.ScientificTaxon != "" {
			taxa = append(slices.Clone(taxa), e.ScientificTaxon)
		}
		for _, t := range cleanTaxa(taxa) {
			if !slices.Contains(g.ScientificTaxa, t) {
				g.ScientificTaxa = append(g.ScientificTaxa, t)
			}
		}
		g.Entries = append(g.Entries, e)
	}
	return res, nil
}

// Observations returns the flattened sequence. Every range over the
// result walks the groups again, so the sequence can be consumed any
// number of times.
func (s *Source) Observations() iter.Seq[Observation] {
	return func(yield func(Observation) bool) {
		if s == nil {
			return
		}
		var pos int
		for _, g := range s.Groups {
			taxon := strings.Join(g.ScientificTaxa, ", ")
			for _, e := range g.Entries {
				if !yield(newObservation(pos, g, taxon, e)) {
					return
				}
				pos++
			}
		}
	}
}

// Collect returns all observations as a slice.
func (s *Source) Collect() []Observation {
	return slices.Collect(s.Observations())
}

// Len returns the number of entries in all groups.
func (s *Source) Len() int {
	if s == nil {
		return 0
	}
	var res int
	for _, g := range s.Groups {
		res += len(g.Entries)
	}
	return res
}

// Labels returns group labels in document order.
func (s *Source) Labels() []string {
	if s == nil {
		return nil
	}
	res := make([]string, 0, len(s.Groups))
	for _, g := range s.Groups {
		if !slices.Contains(res, g.Label) {
			res = append(res, g.Label)
		}
	}
	return res
}

func cleanTaxa(taxa []string) []string {
	var res []string
	for _, t := range taxa {
		t = strings.TrimSpace(t)
		if t != "" {
			res = append(res, t)
		}
	}
	return res
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}
