// Package catalog builds the A–Z index of nematode groups: record counts,
// sampling states and parsed scientific names of every group.
//
// Counts include records without coordinates, they are only excluded from
// map layers.
package catalog

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gnames/gnparser/ent/parsed"
	"github.com/gnames/nemamap/pkg/ent/observation"
	"github.com/gnames/nemamap/pkg/palette"
	"github.com/gnames/nemamap/pkg/parserpool"
	"golang.org/x/sync/errgroup"
)

// OtherLetter is the bucket of labels that do not start with A–Z.
const OtherLetter = "#"

// Taxon is a parsed scientific name of a group.
type Taxon struct {
	Verbatim    string `json:"verbatim"`
	Parsed      bool   `json:"parsed"`
	Canonical   string `json:"canonical,omitempty"`
	Genus       string `json:"genus,omitempty"`
	Authorship  string `json:"authorship,omitempty"`
	Year        string `json:"year,omitempty"`
	Cardinality int    `json:"cardinality"`
}

// Entry describes one group of observations.
type Entry struct {
	Label  string  `json:"label"`
	Letter string  `json:"letter"`
	Color  string  `json:"color"`
	Taxa   []Taxon `json:"taxa"`

	// Records is the number of observations, with or without coordinates.
	Records int `json:"records"`

	// Placeable is the number of observations with both coordinates.
	Placeable int `json:"placeable"`

	// States are distinct sampling states in first-seen order.
	States []string `json:"states,omitempty"`
}

// Letter is one bucket of the A–Z index.
type Letter struct {
	Letter  string  `json:"letter"`
	Entries []Entry `json:"entries"`
}

// Catalog is the list of group entries sorted by label.
type Catalog struct {
	Entries []Entry `json:"entries"`
}

// Build creates a catalog of a source. Groups that share a label are
// merged. Taxa are parsed concurrently by the pool using its default
// nomenclatural code.
func Build(src *observation.Source, pool parserpool.Pool, jobsNum int) *Catalog {
	res := &Catalog{}
	if src == nil {
		return res
	}

	idx := make(map[string]int)
	for o := range src.Observations() {
		i, ok := idx[o.Label]
		if !ok {
			i = len(res.Entries)
			idx[o.Label] = i
			res.Entries = append(res.Entries, Entry{
				Label:  o.Label,
				Letter: LetterOf(o.Label),
				Color:  palette.ColorOf(o.Label),
			})
		}
		e := &res.Entries[i]
		e.Records++
		if o.Placeable() {
			e.Placeable++
		}
		st := strings.TrimSpace(o.SamplingState)
		if st != "" && !slices.Contains(e.States, st) {
			e.States = append(e.States, st)
		}
	}

	var names []string
	taxa := make(map[string][]string)
	for _, g := range src.Groups {
		if _, ok := idx[g.Label]; !ok {
			// a group without entries has no observations
			continue
		}
		for _, t := range g.ScientificTaxa {
			if slices.Contains(taxa[g.Label], t) {
				continue
			}
			taxa[g.Label] = append(taxa[g.Label], t)
			if !slices.Contains(names, t) {
				names = append(names, t)
			}
		}
	}

	parsedTaxa := parseAll(names, pool, jobsNum)
	for i := range res.Entries {
		e := &res.Entries[i]
		for _, t := range taxa[e.Label] {
			e.Taxa = append(e.Taxa, parsedTaxa[t])
		}
	}

	slices.SortFunc(res.Entries, func(a, b Entry) int {
		return compareLabels(a.Label, b.Label)
	})
	return res
}

// Find returns the entry of a label.
func (c *Catalog) Find(label string) (Entry, bool) {
	for _, e := range c.Entries {
		if e.Label == label {
			return e, true
		}
	}
	return Entry{}, false
}

// Letters buckets entries by the first letter of their labels. Buckets
// go from A to Z and only non-empty ones are returned. Labels that do
// not start with a Latin letter go to the last bucket "#".
func (c *Catalog) Letters() []Letter {
	var res []Letter
	var other []Entry
	buckets := make(map[string][]Entry)
	for _, e := range c.Entries {
		if e.Letter == OtherLetter {
			other = append(other, e)
			continue
		}
		buckets[e.Letter] = append(buckets[e.Letter], e)
	}
	for l := 'A'; l <= 'Z'; l++ {
		if es, ok := buckets[string(l)]; ok {
			res = append(res, Letter{Letter: string(l), Entries: es})
		}
	}
	if len(other) > 0 {
		res = append(res, Letter{Letter: OtherLetter, Entries: other})
	}
	return res
}

// Totals returns the number of records and placeable records of all
// entries.
func (c *Catalog) Totals() (records, placeable int) {
	for _, e := range c.Entries {
		records += e.Records
		placeable += e.Placeable
	}
	return records, placeable
}

// LetterOf returns the A–Z bucket of a label.
func LetterOf(label string) string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(label))
	r = unicode.ToUpper(r)
	if r >= 'A' && r <= 'Z' {
		return string(r)
	}
	return OtherLetter
}

func compareLabels(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func parseAll(
	names []string,
	pool parserpool.Pool,
	jobsNum int,
) map[string]Taxon {
	res := make(map[string]Taxon, len(names))
	if len(names) == 0 {
		return res
	}

	taxa := make([]Taxon, len(names))
	var g errgroup.Group
	if jobsNum > 0 {
		g.SetLimit(jobsNum)
	}
	for i, n := range names {
		g.Go(func() error {
			taxa[i] = newTaxon(n, pool.Parse(n))
			return nil
		})
	}
	_ = g.Wait()

	for i, n := range names {
		res[n] = taxa[i]
	}
	return res
}

func newTaxon(verbatim string, p parsed.Parsed) Taxon {
	res := Taxon{Verbatim: verbatim, Parsed: p.Parsed}
	if !p.Parsed {
		return res
	}

	res.Cardinality = p.Cardinality
	if p.Canonical != nil {
		res.Canonical = p.Canonical.Simple
	}
	if p.Authorship != nil {
		res.Authorship = p.Authorship.Normalized
		res.Year = strings.Trim(p.Authorship.Year, "()")
	}
	for _, w := range p.Words {
		if w.Type == parsed.GenusType {
			res.Genus = w.Normalized
			break
		}
	}
	if res.Genus == "" && res.Cardinality == 1 {
		res.Genus = res.Canonical
	}
	return res
}
