package palette_test

import (
	"testing"

	"github.com/gnames/nemamap/pkg/palette"
	"github.com/stretchr/testify/assert"
)

func TestHash(t *testing.T) {
	tests := []struct {
		label string
		hash  int32
	}{
		{"", 0},
		{"a", 97},
		{"ab", 97*31 + 98},
		{"abc", (97*31+98)*31 + 99},
		{"é", 233},
		// surrogate pair 0xD83C 0xDF31
		{"🌱", 0xD83C*31 + 0xDF31},
		{"🌱 Root-knot nematodes", 763961204},
	}

	for _, v := range tests {
		assert.Equal(t, v.hash, palette.Hash(v.label), v.label)
	}

	// long labels wrap around without panics
	long := "Root-knot nematodes and their plant-parasitic relatives of Australia"
	idx := palette.Index(long)
	assert.GreaterOrEqual(t, idx, 0)
	assert.Less(t, idx, palette.Size)
}

func TestIndex(t *testing.T) {
	assert.Equal(t, 97%20, palette.Index("a"))
	assert.Equal(t, 20, palette.Size)
	assert.Equal(t, palette.Colors()[palette.Index("a")], palette.ColorOf("a"))
	assert.NotPanics(t, func() {
		palette.Index("\U0010ffff\U0010ffff\U0010ffff")
	})
}

func TestColorStable(t *testing.T) {
	labels := []string{
		"Root-knot nematodes", "Ring nematodes", "Lesion nematodes",
		"Cyst nematodes", "Spiral nematodes", "Stubby-root nematodes",
	}
	first := make(map[string]string)
	for _, l := range labels {
		first[l] = palette.ColorOf(l)
	}
	// reverse order, other labels in between
	for i := len(labels) - 1; i >= 0; i-- {
		palette.ColorOf("Pin nematodes")
		assert.Equal(t, first[labels[i]], palette.ColorOf(labels[i]))
	}
}

func TestLegend(t *testing.T) {
	res := palette.Legend([]string{
		"ring nematodes", "Root-knot nematodes", "Cyst nematodes", "ring nematodes",
	})
	assert.Equal(t, []palette.Entry{
		{Label: "Cyst nematodes", Color: palette.ColorOf("Cyst nematodes")},
		{Label: "ring nematodes", Color: palette.ColorOf("ring nematodes")},
		{Label: "Root-knot nematodes", Color: palette.ColorOf("Root-knot nematodes")},
	}, res)

	assert.Empty(t, palette.Legend(nil))
}

func TestColorsCopy(t *testing.T) {
	cs := palette.Colors()
	cs[0] = "#000000"
	assert.NotEqual(t, "#000000", palette.Colors()[0])
}
