// Package palette gives every group label a stable color for legends,
// markers and choropleth fills.
package palette

import (
	"slices"
	"strings"
	"unicode/utf16"
)

// colors is a fixed 20-color qualitative palette. Changing it changes
// colors of all published maps.
var colors = [...]string{
	"#1f77b4", "#aec7e8", "#ff7f0e", "#ffbb78", "#2ca02c",
	"#98df8a", "#d62728", "#ff9896", "#9467bd", "#c5b0d5",
	"#8c564b", "#c49c94", "#e377c2", "#f7b6d2", "#7f7f7f",
	"#c7c7c7", "#bcbd22", "#dbdb8d", "#17becf", "#9edae5",
}

// Size is the number of colors in the palette.
const Size = len(colors)

// Entry is one legend item.
type Entry struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// Colors returns a copy of the palette.
func Colors() []string {
	return slices.Clone(colors[:])
}

// Hash is an order-dependent 32-bit hash of the label. It runs over
// UTF-16 code units, so characters outside the BMP count as surrogate
// pairs the same way the website's JavaScript sees them.
func Hash(label string) int32 {
	var h int32
	for _, c := range utf16.Encode([]rune(label)) {
		h = int32(c) + (h << 5) - h
	}
	return h
}

// Index returns the palette position of a label.
func Index(label string) int {
	h := int64(Hash(label))
	if h < 0 {
		h = -h
	}
	return int(h % int64(Size))
}

// ColorOf returns the color of a label. The result depends only on the
// label.
func ColorOf(label string) string {
	return colors[Index(label)]
}

// Legend returns distinct labels with their colors, sorted by label
// ignoring case.
func Legend(labels []string) []Entry {
	seen := make(map[string]struct{}, len(labels))
	res := make([]Entry, 0, len(labels))
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		res = append(res, Entry{Label: l, Color: ColorOf(l)})
	}
	slices.SortFunc(res, func(a, b Entry) int {
		if c := strings.Compare(strings.ToLower(a.Label), strings.ToLower(b.Label)); c != 0 {
			return c
		}
		return strings.Compare(a.Label, b.Label)
	})
	return res
}
